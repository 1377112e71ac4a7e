package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/skyrogue/skyrogue/internal/datapath"
)

// Loader builds a Config from arguments, an optional settings file and the
// filesystem.
type Loader struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Resolver datapath.Resolver
}

// Load builds a Config with priority defaults < settings file < flags, then
// resolves the data directory.
func (l Loader) Load(args []string) (Config, error) {
	opts, err := ParseArgs(args, writerOr(l.Stdout, os.Stdout), writerOr(l.Stderr, os.Stderr))
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	if opts.ConfigPath != "" {
		if err := loadFromFile(&cfg, opts.ConfigPath); err != nil {
			return Config{}, &ArgParseError{
				Err: fmt.Errorf("loading config from %s: %w", opts.ConfigPath, err),
			}
		}
	}

	applyFlags(&cfg, opts)

	if err := cfg.validate(); err != nil {
		return Config{}, &ArgParseError{Err: err}
	}

	res, err := l.Resolver.Resolve(cfg.Data.Path)
	if err != nil {
		return Config{}, err
	}
	cfg.Data.Path = res.Path
	cfg.Data.Source = res.Source
	cfg.Data.RejectedHint = res.RejectedHint

	return cfg, nil
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func (c *Config) validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("invalid screen size %dx%d: dimensions must be positive",
			c.Graphics.Width, c.Graphics.Height)
	}
	return nil
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}
