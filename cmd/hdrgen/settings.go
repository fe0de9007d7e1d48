package main

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"hdrgen/internal/cache"
	"hdrgen/internal/layout"
	"hdrgen/internal/logger"
	"hdrgen/internal/pipeline"
	"hdrgen/internal/project"
)

// genFlags mirrors the gen command line. Values only override the config
// when the flag was set explicitly.
type genFlags struct {
	config           string
	envFiles         []string
	outDir           string
	jobs             int
	stdout           bool
	check            bool
	watch            bool
	layoutAsserts    bool
	guardPrefix      string
	banner           string
	target           string
	format           string
	noWarnings       bool
	warningsAsErrors bool
	noCache          bool
	ui               uiMode
	fullPath         bool
}

// loadConfig merges defaults, hdrgen.toml, .env files and the HDRGEN_*
// environment. Flags are applied afterwards by applyFlags.
func loadConfig(f *genFlags, getenv func(string) string) (project.Config, error) {
	if err := project.LoadDotEnv(f.envFiles...); err != nil {
		return project.Config{}, err
	}
	var (
		cfg project.Config
		err error
	)
	if f.config != "" {
		cfg, err = project.LoadConfig(f.config)
	} else {
		cfg, err = project.Discover(".")
	}
	if err != nil {
		return project.Config{}, err
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return project.Config{}, errors.Wrap(err, "environment")
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, f *genFlags, cfg *project.Config) error {
	changed := cmd.Flags().Changed
	if changed("out-dir") {
		cfg.Output.Dir = f.outDir
	}
	if changed("jobs") {
		cfg.Run.Jobs = f.jobs
	}
	if changed("layout-asserts") {
		cfg.Output.LayoutAsserts = f.layoutAsserts
	}
	if changed("guard-prefix") {
		cfg.Output.GuardPrefix = f.guardPrefix
	}
	if changed("banner") {
		cfg.Output.Banner = f.banner
	}
	if changed("target") {
		cfg.Output.Target = f.target
	}
	if f.noCache {
		cfg.Run.Cache = false
	}
	root := cmd.Root().PersistentFlags()
	if root.Changed("log-json") {
		v, _ := root.GetBool("log-json")
		cfg.Log.JSON = v
	}
	if root.Changed("verbose") {
		v, _ := root.GetBool("verbose")
		cfg.Log.Verbose = v
	}
	return cfg.Validate()
}

func (f *genFlags) mode() (pipeline.Mode, error) {
	switch {
	case f.stdout && f.check:
		return 0, errors.New("--stdout and --check are mutually exclusive")
	case f.watch && f.check:
		return 0, errors.New("--watch and --check are mutually exclusive")
	case f.stdout:
		return pipeline.ModeStdout, nil
	case f.check:
		return pipeline.ModeCheck, nil
	default:
		return pipeline.ModeWrite, nil
	}
}

func readFormat(value string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case "", "pretty":
		return "pretty", nil
	case "short", "json", "sarif":
		return v, nil
	default:
		return "", errors.Newf("invalid --format value %q (expected pretty|short|json|sarif)", value)
	}
}

// pipelineOptions turns the merged config into run options.
func pipelineOptions(cfg project.Config, mode pipeline.Mode, maxDiagnostics int) (pipeline.Options, error) {
	opts := pipeline.Options{
		OutDir:         cfg.Output.Dir,
		Mode:           mode,
		Jobs:           cfg.Run.Jobs,
		MaxDiagnostics: maxDiagnostics,
		Stdout:         os.Stdout,
	}
	opts.Header.GuardPrefix = cfg.Output.GuardPrefix
	opts.Header.Banner = cfg.Output.Banner
	if cfg.Output.LayoutAsserts {
		target, err := layout.LookupTarget(cfg.Output.Target)
		if err != nil {
			return opts, err
		}
		opts.Header.Layout = layout.New(target)
	}
	if cfg.Run.Cache {
		c, err := openCache()
		if err != nil {
			return opts, err
		}
		opts.Cache = c
	}
	return opts, nil
}

// openCache opens the user cache directory. A cache directory that cannot be
// created degrades to a memory-only cache.
func openCache() (*cache.Cache, error) {
	var disk *cache.Disk
	dir, err := cache.DefaultDir("hdrgen")
	if err == nil {
		disk, err = cache.OpenDisk(dir)
	}
	if err != nil {
		logger.Warnw("disk cache disabled", logger.FieldError, err.Error())
		disk = nil
	}
	return cache.New(cache.DefaultMemEntries, disk)
}
