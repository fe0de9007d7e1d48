package diagfmt

import (
	"path/filepath"
	"strings"
)

// PathMode specifies how unit paths are displayed.
type PathMode uint8

const (
	// PathModeAuto shows paths under the base directory relative to it and
	// everything else as given.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	BaseDir   string
	Width     uint8 // максимальная ширина строки, 0 - не ограничено
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode     PathMode
	BaseDir      string
	Max          int // обрезка вывода, не Bag
	IncludeNotes bool
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}

// FormatPath renders a unit path according to mode.
func FormatPath(path string, mode PathMode, baseDir string) string {
	if path == "" {
		return "<input>"
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	case PathModeRelative:
		return relativeTo(path, baseDir)
	case PathModeBasename:
		return filepath.Base(path)
	default:
		if baseDir == "" || !filepath.IsAbs(path) {
			return path
		}
		rel := relativeTo(path, baseDir)
		if strings.HasPrefix(rel, "..") {
			return path
		}
		return rel
	}
}

func relativeTo(path, baseDir string) string {
	if baseDir == "" {
		return path
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return path
	}
	return rel
}
