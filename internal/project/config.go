package project

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"

	"hdrgen/internal/layout"
)

// ConfigFileName is looked up from the working directory upwards.
const ConfigFileName = "hdrgen.toml"

// Environment overrides, applied after the config file.
const (
	EnvOutDir  = "HDRGEN_OUT_DIR"
	EnvJobs    = "HDRGEN_JOBS"
	EnvLogJSON = "HDRGEN_LOG_JSON"
)

// Config is the merged hdrgen.toml + environment configuration. Command line
// flags are applied on top by the CLI.
type Config struct {
	// Path of the file the config came from; empty for defaults.
	Path   string       `toml:"-"`
	Output OutputConfig `toml:"output"`
	Run    RunConfig    `toml:"run"`
	Log    LogConfig    `toml:"log"`
}

type OutputConfig struct {
	Dir           string `toml:"dir"`
	GuardPrefix   string `toml:"guard_prefix"`
	Banner        string `toml:"banner"`
	LayoutAsserts bool   `toml:"layout_asserts"`
	Target        string `toml:"target"`
}

type RunConfig struct {
	// Jobs bounds parallel units; 0 means GOMAXPROCS.
	Jobs  int  `toml:"jobs"`
	Cache bool `toml:"cache"`
}

type LogConfig struct {
	JSON    bool `toml:"json"`
	Verbose bool `toml:"verbose"`
}

// DefaultConfig is used when no hdrgen.toml exists.
func DefaultConfig() Config {
	return Config{
		Output: OutputConfig{Dir: ".", Target: layout.X86_64LinuxGNU().Triple},
		Run:    RunConfig{Cache: true},
	}
}

// FindConfig walks up from startDir to locate hdrgen.toml.
func FindConfig(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, errors.Wrap(err, "failed to resolve start directory")
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, errors.Wrapf(err, "failed to stat %q", candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadConfig decodes path over the defaults. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrapf(err, "%s: failed to parse TOML", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, errors.WithHint(
			errors.Newf("%s: unknown keys: %s", path, strings.Join(keys, ", ")),
			"known sections are [output], [run] and [log]",
		)
	}
	if meta.IsDefined("output", "dir") && strings.TrimSpace(cfg.Output.Dir) == "" {
		return Config{}, errors.Newf("%s: [output].dir is empty", path)
	}
	cfg.Path = path
	if cfg.Output.Dir != "" && !filepath.IsAbs(cfg.Output.Dir) {
		cfg.Output.Dir = filepath.Join(filepath.Dir(path), cfg.Output.Dir)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, path)
	}
	return cfg, nil
}

// Discover finds and loads hdrgen.toml starting at startDir, falling back to
// DefaultConfig when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// LoadDotEnv loads KEY=value pairs from files (".env" when none) into the
// process environment without overriding variables already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Wrapf(err, "load %s", f)
		}
	}
	return nil
}

// ApplyEnv overlays HDRGEN_* variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(EnvOutDir)); v != "" {
		c.Output.Dir = v
	}
	if v := strings.TrimSpace(getenv(EnvJobs)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "%s", EnvJobs)
		}
		c.Run.Jobs = n
	}
	if v := strings.TrimSpace(getenv(EnvLogJSON)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "%s", EnvLogJSON)
		}
		c.Log.JSON = b
	}
	return c.Validate()
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Run.Jobs < 0 {
		return errors.Newf("jobs must be >= 0, got %d", c.Run.Jobs)
	}
	if _, err := layout.LookupTarget(c.Output.Target); err != nil {
		return err
	}
	return nil
}

// WriteConfig writes cfg as TOML to path. An existing file is never
// overwritten.
func WriteConfig(path string, cfg Config) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return errors.WithHint(errors.Newf("%s already exists", path), "edit it or remove it first")
		}
		return errors.Wrapf(err, "create %s", path)
	}
	if _, err := io.WriteString(f, "# hdrgen configuration\n\n"); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "encode %s", path)
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}
