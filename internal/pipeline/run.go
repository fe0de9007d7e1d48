// Package pipeline runs header generation over many input units: load,
// walk, emit, then write, check or print. Units are independent; a failure
// in one never affects another.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hdrgen/internal/cache"
	"hdrgen/internal/diag"
	"hdrgen/internal/export"
	"hdrgen/internal/header"
	"hdrgen/internal/layout"
	"hdrgen/internal/logger"
	"hdrgen/internal/project"
	"hdrgen/internal/version"
)

// ErrUnitFailed is the cause recorded on every failed UnitResult.
var ErrUnitFailed = errors.New("header generation failed")

// UnitResult is the outcome of one input unit.
type UnitResult struct {
	// Path is the input locator as given.
	Path     string
	UnitName string
	// OutPath is the header destination (empty in ModeStdout or on failure
	// before the name was known).
	OutPath string
	Header  string
	Bag     *diag.Bag
	// Err is non-nil when the unit failed; the bag holds the SevError entry.
	Err     error
	Cached  bool
	Written bool
	Stale   bool
	Stats   export.Stats
	Timings Timings
}

// Failed reports whether the unit produced no usable header.
func (r *UnitResult) Failed() bool {
	return r.Err != nil
}

// Report is the outcome of a run, in input order.
type Report struct {
	RunID string
	Units []UnitResult
}

// Failed counts failed units.
func (r *Report) Failed() int {
	n := 0
	for i := range r.Units {
		if r.Units[i].Failed() {
			n++
		}
	}
	return n
}

// Warnings counts warnings across units.
func (r *Report) Warnings() int {
	n := 0
	for i := range r.Units {
		if r.Units[i].Bag != nil {
			n += r.Units[i].Bag.Count(diag.SevWarning)
		}
	}
	return n
}

// Run processes every path. It returns an error only when ctx is cancelled
// or output to Stdout fails; per-unit failures live in the report.
func Run(ctx context.Context, paths []string, opts Options) (*Report, error) {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	report := &Report{RunID: opts.RunID, Units: make([]UnitResult, len(paths))}
	log := logger.With(logger.FieldRunID, opts.RunID)
	log.Debugw("run started", "units", len(paths), "jobs", jobs, "mode", opts.Mode.String())

	for _, p := range paths {
		emit(opts.Progress, Event{Unit: p, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report.Units[i] = generate(gctx, p, &opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, errors.Wrap(err, "run cancelled")
	}

	if opts.Mode == ModeStdout && opts.Stdout != nil {
		for i := range report.Units {
			u := &report.Units[i]
			if u.Failed() {
				continue
			}
			if _, err := fmt.Fprint(opts.Stdout, u.Header); err != nil {
				return report, errors.Wrap(err, "write headers to stdout")
			}
		}
	}

	log.Infow("run finished",
		"units", len(paths),
		"failed", report.Failed(),
		logger.FieldWarnings, report.Warnings(),
	)
	return report, nil
}

// unitRun carries one unit through the stages.
type unitRun struct {
	opts *Options
	res  *UnitResult
	rep  diag.Reporter
}

// logReporter mirrors walker diagnostics to the debug log, so --verbose
// runs show them next to the stage timings even when --no-warnings hides
// them from the report.
type logReporter struct{ log *zap.SugaredLogger }

func (r logReporter) Report(code diag.Code, sev diag.Severity, subject diag.Subject, msg string, _ []diag.Note) {
	r.log.Debugw("diagnostic",
		"code", code.ID(),
		"severity", sev.String(),
		"item", subject.Name,
		"message", msg,
	)
}

func (u *unitRun) stage(s Stage, fn func() error) error {
	emit(u.opts.Progress, Event{Unit: u.res.Path, Stage: s, Status: StatusWorking})
	idx := u.opts.Timer.Begin(string(s))
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	u.opts.Timer.End(idx, "")
	u.res.Timings.Set(s, elapsed)
	return err
}

// fail records a fatal diagnostic and marks the unit failed.
func (u *unitRun) fail(d diag.Diagnostic, err error) {
	for _, hint := range errors.GetAllHints(err) {
		d = d.WithNote(hint)
	}
	u.res.Bag.Add(d)
	u.res.Err = errors.Mark(err, ErrUnitFailed)
}

// DefaultMaxDiagnostics applies when Options.MaxDiagnostics is not positive.
const DefaultMaxDiagnostics = 100

func generate(ctx context.Context, path string, opts *Options) UnitResult {
	maxDiags := opts.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = DefaultMaxDiagnostics
	}
	res := UnitResult{Path: path, Bag: diag.NewBag(maxDiags)}
	res.Bag.Unit = path
	log := logger.With(logger.FieldRunID, opts.RunID, logger.FieldPath, path)
	u := &unitRun{
		opts: opts,
		res:  &res,
		rep: diag.NewDedupReporter(diag.MultiReporter{
			diag.BagReporter{Bag: res.Bag},
			logReporter{log: log},
		}),
	}
	start := time.Now()

	u.process(ctx)

	if opts.Timings {
		res.Bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, diag.Subject{}, timingsSummary(res.Timings)))
	}
	res.Bag.Sort()

	elapsed := time.Since(start)
	if res.Failed() {
		emit(opts.Progress, Event{Unit: path, Status: StatusError, Err: res.Err, Elapsed: elapsed})
		log.Warnw("unit failed", logger.FieldUnit, res.UnitName, logger.FieldError, res.Err.Error())
		return res
	}
	status := StatusDone
	if res.Cached {
		status = StatusCached
	}
	emit(opts.Progress, Event{Unit: path, Status: status, Elapsed: elapsed})
	log.Infow("unit generated",
		logger.FieldUnit, res.UnitName,
		logger.FieldDecls, res.Stats.Functions+res.Stats.Structs,
		logger.FieldWarnings, res.Bag.Count(diag.SevWarning),
		logger.FieldCached, res.Cached,
		logger.FieldDurationMS, elapsed.Milliseconds(),
	)
	return res
}

func (u *unitRun) process(ctx context.Context) {
	res, opts := u.res, u.opts

	var loaded *project.Loaded
	err := u.stage(StageLoad, func() error {
		var err error
		loaded, err = project.LoadUnit(res.Path)
		return err
	})
	if err != nil {
		u.fail(diag.NewError(loadErrorCode(err), diag.Subject{}, err.Error()), err)
		return
	}
	if name, ok := loaded.Unit.Name(); ok {
		res.UnitName = name
	}

	key := cacheKey(loaded.Digest, opts.Header)
	if entry, ok := u.lookupCache(key); ok {
		res.Cached = true
		res.UnitName = entry.UnitName
		res.Header = entry.Header
		res.Stats = entry.Stats
		for _, w := range entry.Warnings {
			res.Bag.Add(w)
		}
	} else {
		var walked *export.Result
		err = u.stage(StageWalk, func() error {
			var err error
			walked, err = export.Walk(loaded.Unit, u.rep)
			return err
		})
		if err != nil {
			if fe, ok := export.AsFatal(err); ok {
				u.fail(fe.Diagnostic(), err)
			} else {
				u.fail(diag.NewError(diag.UnitMalformed, diag.Subject{}, err.Error()), err)
			}
			return
		}
		res.Stats = walked.Stats

		err = u.stage(StageEmit, func() error {
			var err error
			res.Header, err = header.Render(walked.UnitName, walked.Decls, opts.Header)
			return err
		})
		if err != nil {
			u.fail(renderFailure(err, opts.Header), err)
			return
		}
		u.storeCache(key, res)
	}

	if ctx.Err() != nil {
		u.fail(diag.NewError(diag.IOWriteFileError, diag.Subject{}, "cancelled before output"), ctx.Err())
		return
	}
	if opts.Mode == ModeStdout {
		return
	}
	// cached entries skip the walk, so the name is checked again here
	if err := export.CheckUnitName(res.UnitName); err != nil {
		u.fail(diag.NewError(diag.HdrInvalidUnitName, diag.Subject{}, err.Error()), err)
		return
	}
	res.OutPath = filepath.Join(opts.OutDir, header.FileName(res.UnitName))
	_ = u.stage(StageWrite, func() error {
		if opts.Mode == ModeCheck {
			u.check()
			return nil
		}
		written, err := writeFileAtomic(res.OutPath, []byte(res.Header))
		if err != nil {
			u.fail(diag.NewError(diag.IOWriteFileError, diag.Subject{}, err.Error()), err)
			return err
		}
		res.Written = written
		return nil
	})
}

func (u *unitRun) check() {
	res := u.res
	onDisk, err := os.ReadFile(res.OutPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		res.Stale = true
		u.fail(diag.NewError(diag.HdrStaleHeader, diag.Subject{}, fmt.Sprintf("%s does not exist", res.OutPath)),
			errors.WithHint(errors.Newf("%s is missing", res.OutPath), "run hdrgen gen without --check to create it"))
	case err != nil:
		u.fail(diag.NewError(diag.IOLoadFileError, diag.Subject{}, err.Error()), errors.Wrap(err, "read existing header"))
	case string(onDisk) != res.Header:
		res.Stale = true
		u.fail(diag.NewError(diag.HdrStaleHeader, diag.Subject{}, fmt.Sprintf("%s is out of date", res.OutPath)),
			errors.WithHint(errors.Newf("%s is out of date", res.OutPath), "run hdrgen gen to regenerate it"))
	}
}

func (u *unitRun) lookupCache(key project.Digest) (*cache.Entry, bool) {
	if u.opts.Cache == nil {
		return nil, false
	}
	entry, ok, err := u.opts.Cache.Get(key)
	if err != nil {
		logger.Warnw("cache read failed", logger.FieldPath, u.res.Path, logger.FieldError, err.Error())
		return nil, false
	}
	return entry, ok
}

func (u *unitRun) storeCache(key project.Digest, res *UnitResult) {
	if u.opts.Cache == nil {
		return
	}
	var warnings []diag.Diagnostic
	for _, d := range res.Bag.Items() {
		if d.Severity == diag.SevWarning {
			warnings = append(warnings, d)
		}
	}
	entry := &cache.Entry{
		UnitName:  res.UnitName,
		Header:    res.Header,
		Warnings:  warnings,
		Stats:     res.Stats,
		CreatedAt: time.Now().UTC(),
	}
	if err := u.opts.Cache.Put(key, entry); err != nil {
		logger.Warnw("cache write failed", logger.FieldPath, res.Path, logger.FieldError, err.Error())
	}
}

// cacheKey binds the unit bytes, the options that shape the text and the
// generator build.
func cacheKey(unit project.Digest, opts header.Options) project.Digest {
	return project.Combine(unit,
		project.DigestString(opts.Fingerprint()),
		project.DigestString(version.Fingerprint()),
	)
}

// renderFailure describes an emit stage error. Layout errors name the
// target the size checks were computed for.
func renderFailure(err error, opts header.Options) diag.Diagnostic {
	d := diag.NewError(diag.HdrRenderError, diag.Subject{}, err.Error())
	var le *layout.LayoutError
	if errors.As(err, &le) && opts.Layout != nil {
		d = d.WithNote(fmt.Sprintf("size checks are computed for %s; drop --layout-asserts to skip them", opts.Layout.Target.Triple))
	}
	return d
}

func loadErrorCode(err error) diag.Code {
	switch {
	case errors.Is(err, project.ErrUnknownFormat):
		return diag.UnitInvalidFormat
	case errors.Is(err, project.ErrDecode):
		return diag.UnitDecodeError
	case errors.Is(err, project.ErrMalformedUnit):
		return diag.UnitMalformed
	default:
		return diag.IOLoadFileError
	}
}

func timingsSummary(t Timings) string {
	parts := make([]string, 0, len(Stages))
	for _, s := range Stages {
		if t.Has(s) {
			parts = append(parts, fmt.Sprintf("%s=%s", s, t.Duration(s).Round(time.Microsecond)))
		}
	}
	return "timings: " + strings.Join(parts, " ")
}
