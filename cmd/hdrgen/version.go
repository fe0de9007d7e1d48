package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"hdrgen/internal/layout"
	"hdrgen/internal/version"
)

// buildReport is what `hdrgen version` knows about the running binary.
// Targets and the cache fingerprint are always present: they decide which
// --target values work and whether cached headers from another build apply.
type buildReport struct {
	Tool        string   `json:"tool"`
	Version     string   `json:"version"`
	Go          string   `json:"go"`
	Targets     []string `json:"targets"`
	Fingerprint string   `json:"cache_fingerprint"`
	Commit      string   `json:"git_commit,omitempty"`
	Message     string   `json:"git_message,omitempty"`
	Built       string   `json:"build_date,omitempty"`
}

func newVersionCmd() *cobra.Command {
	var (
		format string
		all    bool
	)
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show hdrgen build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := newBuildReport(all)
			switch strings.ToLower(format) {
			case "json":
				return r.writeJSON(cmd.OutOrStdout())
			case "pretty", "":
				r.writePretty(cmd.OutOrStdout(), version.Colored())
				return nil
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include git commit, commit message and build date")
	return cmd
}

// newBuildReport collects the linked-in build metadata. Git and date fields
// are filled only with all; missing values then read "unknown".
func newBuildReport(all bool) buildReport {
	r := buildReport{
		Tool:        "hdrgen",
		Version:     orDefault(version.Version, "dev"),
		Go:          runtime.Version(),
		Targets:     layout.KnownTargets(),
		Fingerprint: version.Fingerprint(),
	}
	if all {
		r.Commit = orDefault(version.GitCommit, "unknown")
		r.Message = orDefault(version.GitMessage, "unknown")
		r.Built = orDefault(version.BuildDate, "unknown")
	}
	return r
}

func (r buildReport) writePretty(w io.Writer, shownVersion string) {
	fmt.Fprintf(w, "%s %s (%s)\n", r.Tool, shownVersion, r.Go)
	rows := [][2]string{
		{"targets", strings.Join(r.Targets, ", ")},
		{"cache", r.Fingerprint},
		{"commit", r.Commit},
		{"message", r.Message},
		{"built", r.Built},
	}
	for _, row := range rows {
		if row[1] != "" {
			fmt.Fprintf(w, "  %-8s %s\n", row[0], row[1])
		}
	}
}

func (r buildReport) writeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
