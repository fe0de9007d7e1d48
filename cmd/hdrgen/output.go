package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"hdrgen/internal/diag"
	"hdrgen/internal/diagfmt"
	"hdrgen/internal/pipeline"
	"hdrgen/internal/version"
)

// reportOptions controls how a run report is rendered.
type reportOptions struct {
	format     string
	color      bool
	quiet      bool
	noWarnings bool
	fullPath   bool
}

// bagsOf prepares the unit bags for rendering: sorted, and without warnings
// when they are suppressed. Units without diagnostics are left out.
func bagsOf(report *pipeline.Report, noWarnings bool) []*diag.Bag {
	bags := make([]*diag.Bag, 0, len(report.Units))
	for i := range report.Units {
		bag := report.Units[i].Bag
		if bag == nil {
			continue
		}
		if noWarnings {
			bag.Filter(func(d diag.Diagnostic) bool { return d.Severity != diag.SevWarning })
		}
		if bag.Len() == 0 {
			continue
		}
		bag.Sort()
		bags = append(bags, bag)
	}
	return bags
}

func printDiagnostics(out io.Writer, report *pipeline.Report, opts reportOptions) error {
	bags := bagsOf(report, opts.noWarnings)
	pathMode := diagfmt.PathModeAuto
	if opts.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	baseDir, _ := os.Getwd()

	switch opts.format {
	case "short":
		for _, bag := range bags {
			if err := diagfmt.Short(out, bag, pathMode, baseDir, true); err != nil {
				return err
			}
		}
	case "json":
		return diagfmt.JSON(out, bags, diagfmt.JSONOpts{PathMode: pathMode, BaseDir: baseDir, IncludeNotes: true})
	case "sarif":
		meta := diagfmt.SarifRunMeta{
			ToolName:       "hdrgen",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		}
		return diagfmt.Sarif(out, bags, meta)
	default:
		prettyOpts := diagfmt.PrettyOpts{
			Color:     opts.color,
			PathMode:  pathMode,
			BaseDir:   baseDir,
			Width:     terminalWidth(out),
			ShowNotes: true,
		}
		for _, bag := range bags {
			if err := diagfmt.Pretty(out, bag, prettyOpts); err != nil {
				return err
			}
		}
	}
	return nil
}

// summaryLine describes a finished run in one line.
func summaryLine(report *pipeline.Report, mode pipeline.Mode) string {
	var written, unchanged, cached, stale int
	for i := range report.Units {
		u := &report.Units[i]
		if u.Cached {
			cached++
		}
		switch {
		case u.Stale:
			stale++
		case u.Failed():
		case u.Written:
			written++
		default:
			unchanged++
		}
	}
	parts := []string{plural(len(report.Units), "unit")}
	switch mode {
	case pipeline.ModeCheck:
		parts = append(parts, fmt.Sprintf("%d stale", stale))
	case pipeline.ModeWrite:
		parts = append(parts, fmt.Sprintf("%d written", written), fmt.Sprintf("%d unchanged", unchanged))
	}
	if cached > 0 {
		parts = append(parts, fmt.Sprintf("%d cached", cached))
	}
	parts = append(parts,
		plural(report.Warnings(), "warning"),
		fmt.Sprintf("%d failed", report.Failed()),
	)
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// terminalWidth returns the wrap width for out, or 0 when out is not a
// terminal.
func terminalWidth(out io.Writer) uint8 {
	f, ok := out.(*os.File)
	if !ok || !isTerminal(f) {
		return 0
	}
	w, _, err := termSize(f)
	if err != nil || w <= 0 {
		return 0
	}
	if w > 255 {
		return 255
	}
	return uint8(w)
}
