package pipeline

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"hdrgen/internal/logger"
)

// DefaultDebounce coalesces bursts of file events (editors write, rename
// and chmod in quick succession).
const DefaultDebounce = 300 * time.Millisecond

// Watcher regenerates headers whenever one of its input units changes.
type Watcher struct {
	paths    []string
	abs      map[string]string // absolute path -> path as given
	opts     Options
	debounce time.Duration
	onReport func(*Report)

	fs *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	runs    chan []string
}

// NewWatcher watches the directories holding paths. onReport is called after
// the initial run and after every regeneration, from the Run goroutine.
func NewWatcher(paths []string, opts Options, onReport func(*Report)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	w := &Watcher{
		paths:    paths,
		abs:      make(map[string]string, len(paths)),
		opts:     opts,
		debounce: DefaultDebounce,
		onReport: onReport,
		fs:       fw,
		pending:  make(map[string]struct{}),
		runs:     make(chan []string, 1),
	}
	dirs := make(map[string]struct{})
	for _, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			_ = fw.Close()
			return nil, errors.Wrapf(err, "resolve %s", p)
		}
		w.abs[a] = p
		dirs[filepath.Dir(a)] = struct{}{}
	}
	// Directories, not files: an editor replacing a file by rename would
	// silently end a per-file watch.
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			_ = fw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", d)
		}
	}
	return w, nil
}

// SetDebounce overrides DefaultDebounce; tests shorten it.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run performs an initial generation of every unit, then regenerates changed
// units until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fs.Close() }()

	if err := w.generate(ctx, w.paths); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("watcher error", logger.FieldError, err.Error())
		case batch := <-w.runs:
			if err := w.generate(ctx, batch); err != nil {
				return err
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return
	}
	a, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}
	p, ok := w.abs[a]
	if !ok {
		return
	}
	logger.Debugw("unit changed", logger.FieldPath, p, "op", ev.Op.String())
	w.schedule(p)
}

func (w *Watcher) schedule(p string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[p] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	// keep input order
	batch := make([]string, 0, len(w.pending))
	for _, p := range w.paths {
		if _, ok := w.pending[p]; ok {
			batch = append(batch, p)
		}
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	select {
	case w.runs <- batch:
	default:
		// A batch is already queued; fold this one back in and retry later.
		w.mu.Lock()
		for _, p := range batch {
			w.pending[p] = struct{}{}
		}
		w.timer = time.AfterFunc(w.debounce, w.flush)
		w.mu.Unlock()
	}
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) generate(ctx context.Context, paths []string) error {
	report, err := Run(ctx, paths, w.opts)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	if w.onReport != nil {
		w.onReport(report)
	}
	return nil
}
