package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"hdrgen/internal/logger"
	"hdrgen/internal/observ"
	"hdrgen/internal/pipeline"
)

var genOpts genFlags

var genCmd = newGenCmd(&genOpts)

func newGenCmd(f *genFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen [flags] <unit>...",
		Short: "Generate C headers from resolved units",
		Long: `Generate one C header per resolved unit (.json, .mp/.msgpack, .yaml/.yml).

Each header is written to <out-dir>/<unit_name>.h. Units are independent: a
unit that fails produces no header and does not affect the others.

Some exported items are skipped with a warning instead of failing the unit:
functions without export_name or no_mangle (HDR1001), enums (HDR1003), and
structs that C cannot declare as written, that is tuple structs, structs
with an unnamed field and structs with no fields (HDR1002). ISO C has no
empty struct, so "struct S {};" is never emitted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(cmd, f, args)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.config, "config", "", "path to hdrgen.toml (default: search upwards from the working directory)")
	fl.StringSliceVar(&f.envFiles, "env-file", nil, "dotenv files to load (default: .env)")
	fl.StringVarP(&f.outDir, "out-dir", "o", ".", "directory receiving the headers")
	fl.IntVarP(&f.jobs, "jobs", "j", 0, "max parallel units (0 = GOMAXPROCS)")
	fl.BoolVar(&f.stdout, "stdout", false, "print headers to stdout instead of writing files")
	fl.BoolVar(&f.check, "check", false, "write nothing; fail when a header on disk is out of date")
	fl.BoolVar(&f.watch, "watch", false, "regenerate whenever an input unit changes")
	fl.BoolVar(&f.layoutAsserts, "layout-asserts", false, "emit _Static_assert struct size checks")
	fl.StringVar(&f.guardPrefix, "guard-prefix", "", "prefix for include guard macros")
	fl.StringVar(&f.banner, "banner", "", "banner comment (default: auto generated)")
	fl.StringVar(&f.target, "target", "", "target triple for --layout-asserts")
	fl.StringVar(&f.format, "format", "pretty", "diagnostics format (pretty|short|json|sarif)")
	fl.BoolVar(&f.noWarnings, "no-warnings", false, "hide warnings")
	fl.BoolVar(&f.warningsAsErrors, "warnings-as-errors", false, "fail when any warning was reported")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable the header cache")
	fl.Var(&f.ui, "ui", "progress view (auto|on|off)")
	fl.BoolVar(&f.fullPath, "fullpath", false, "show absolute unit paths in diagnostics")
	return cmd
}

// genRun holds everything a gen invocation resolved before running.
type genRun struct {
	paths   []string
	opts    pipeline.Options
	report  reportOptions
	timings bool
	strict  bool
	ui      uiMode
	diagOut io.Writer
	errOut  io.Writer
}

func runGen(cmd *cobra.Command, f *genFlags, args []string) (err error) {
	run, err := prepareGen(cmd, f, args)
	if err != nil {
		return err
	}
	session, err := startProfiling(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := session.Stop(); stopErr != nil && err == nil {
			err = stopErr
		}
	}()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if f.watch {
		w, err := pipeline.NewWatcher(run.paths, run.opts, func(r *pipeline.Report) {
			if err := run.finish(r); err != nil {
				fmt.Fprintln(run.errOut, err)
			}
		})
		if err != nil {
			return err
		}
		if !run.report.quiet {
			fmt.Fprintf(run.errOut, "watching %d units, press Ctrl+C to stop\n", len(run.paths))
		}
		return w.Run(ctx)
	}

	var report *pipeline.Report
	if run.ui.progressView(run.opts.Mode, len(run.paths), cmd.OutOrStdout()) {
		report, err = runWithUI(ctx, "hdrgen", run.paths, run.opts)
	} else {
		report, err = pipeline.Run(ctx, run.paths, run.opts)
	}
	if err != nil {
		return err
	}
	return run.finish(report)
}

func prepareGen(cmd *cobra.Command, f *genFlags, args []string) (*genRun, error) {
	mode, err := f.mode()
	if err != nil {
		return nil, err
	}
	format, err := readFormat(f.format)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(f, os.Getenv)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, f, &cfg); err != nil {
		return nil, err
	}
	if err := logger.Initialize(logger.Config{JSON: cfg.Log.JSON, Verbose: cfg.Log.Verbose}); err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		logger.Debugw("config loaded", logger.FieldPath, cfg.Path)
	}

	root := cmd.Root().PersistentFlags()
	maxDiags, _ := root.GetInt("max-diagnostics")
	quiet, _ := root.GetBool("quiet")
	timings, _ := root.GetBool("timings")

	opts, err := pipelineOptions(cfg, mode, maxDiags)
	if err != nil {
		return nil, err
	}
	if timings {
		opts.Timer = observ.NewTimer()
		// machine formats carry timings per unit
		opts.Timings = format == "json" || format == "sarif"
	}

	opts.Stdout = cmd.OutOrStdout()

	// headers own stdout in stdout mode
	diagOut := cmd.OutOrStdout()
	if mode == pipeline.ModeStdout || format == "pretty" || format == "short" {
		diagOut = cmd.ErrOrStderr()
	}
	colored, err := useColor(cmd, diagOut)
	if err != nil {
		return nil, err
	}
	color.NoColor = !colored

	return &genRun{
		paths: args,
		opts:  opts,
		report: reportOptions{
			format:     format,
			color:      colored,
			quiet:      quiet,
			noWarnings: f.noWarnings,
			fullPath:   f.fullPath,
		},
		timings: timings,
		strict:  f.warningsAsErrors,
		ui:      f.ui,
		diagOut: diagOut,
		errOut:  cmd.ErrOrStderr(),
	}, nil
}

// finish renders a report and turns it into the command outcome.
func (g *genRun) finish(report *pipeline.Report) error {
	warnings := report.Warnings()
	if err := printDiagnostics(g.diagOut, report, g.report); err != nil {
		return errors.Wrap(err, "print diagnostics")
	}
	if !g.report.quiet {
		fmt.Fprintln(g.errOut, summaryLine(report, g.opts.Mode))
	}
	if g.timings && !g.opts.Timings {
		fmt.Fprint(g.errOut, g.opts.Timer.Summary())
	}
	if failed := report.Failed(); failed > 0 {
		return errors.Newf("%d of %d units failed", failed, len(report.Units))
	}
	if g.strict && warnings > 0 {
		return errors.Newf("%s reported with --warnings-as-errors", plural(warnings, "warning"))
	}
	return nil
}
