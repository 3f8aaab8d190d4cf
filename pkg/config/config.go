// Package config loads compiler defaults from a YAML or TOML file.
//
// Command-line flags take precedence; a file only supplies the values a
// flag did not set.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"
)

// Config holds compiler settings.
type Config struct {
	OutputDir string `yaml:"output_dir" toml:"output_dir"` // empty: next to the input
	Extension string `yaml:"extension" toml:"extension"`
	DumpAST   bool   `yaml:"dump_ast" toml:"dump_ast"`
	PrintIR   bool   `yaml:"print_ir" toml:"print_ir"`
	Jobs      int    `yaml:"jobs" toml:"jobs"`
	Log       string `yaml:"log" toml:"log"` // tlog verbosity filter
}

// DefaultNames are the file names Find looks for, in order.
var DefaultNames = []string{"sysyc.yaml", "sysyc.yml", "sysyc.toml"}

// Default returns the settings used when no file or flag says otherwise.
func Default() Config {
	return Config{
		Extension: ".koopa",
		Jobs:      runtime.GOMAXPROCS(0),
	}
}

// Find returns the first of DefaultNames present in dir.
func Find(dir string) (string, bool) {
	for _, name := range DefaultNames {
		path := filepath.Join(dir, name)
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Load reads path on top of Default. The format is chosen by extension.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}

	cfg := Default()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = decodeYAML(data, &cfg)
	case ".toml":
		err = decodeTOML(data, &cfg)
	default:
		return Config{}, errors.New("%s: unknown config format %q", path, ext)
	}
	if err != nil {
		return Config{}, errors.Wrap(err, "%s", path)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "%s", path)
	}

	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(cfg)
	if err == io.EOF {
		// empty document
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "decode yaml")
	}
	return nil
}

func decodeTOML(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return errors.Wrap(err, "decode toml")
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Jobs < 1 {
		return errors.New("jobs must be at least 1, got %d", c.Jobs)
	}
	if c.Extension == "" || c.Extension[0] != '.' {
		return errors.New("extension must start with a dot, got %q", c.Extension)
	}
	return nil
}

// OutputPath returns where the IR for input goes: input's base name with
// the configured extension, in OutputDir or next to input.
func (c Config) OutputPath(input string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + c.Extension

	dir := c.OutputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base)
}
