// Package config handles startup configuration: command-line flags, an
// optional settings file and data directory resolution.
package config

import (
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/skyrogue/skyrogue/internal/datapath"
)

// Window defaults.
const (
	DefaultScreenWidth  = 1600
	DefaultScreenHeight = 900
)

// Verbosity is the minimal level of displayed log messages.
type Verbosity int

const (
	VerbosityDebug Verbosity = iota
	VerbosityInfo
	VerbosityWarn
	VerbosityError
)

// ParseVerbosity maps DEBUG, INFO, WARNING and ERROR (any case) to a
// verbosity. Anything else is Info.
func ParseVerbosity(s string) Verbosity {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return VerbosityDebug
	case "WARNING":
		return VerbosityWarn
	case "ERROR":
		return VerbosityError
	default:
		return VerbosityInfo
	}
}

// String returns the flag spelling of the verbosity.
func (v Verbosity) String() string {
	switch v {
	case VerbosityDebug:
		return "DEBUG"
	case VerbosityWarn:
		return "WARNING"
	case VerbosityError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Level converts the verbosity to a zap level.
func (v Verbosity) Level() zapcore.Level {
	switch v {
	case VerbosityDebug:
		return zapcore.DebugLevel
	case VerbosityWarn:
		return zapcore.WarnLevel
	case VerbosityError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// UnmarshalYAML parses a verbosity from a scalar with the same permissive
// rules as the command line.
func (v *Verbosity) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	*v = ParseVerbosity(s)
	return nil
}

// Config holds all startup settings. It is built once by Load and not
// modified afterwards.
type Config struct {
	Verbosity Verbosity      `yaml:"verbosity"`
	Graphics  GraphicsConfig `yaml:"graphics"`
	Data      DataConfig     `yaml:"data"`
	Logging   LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds window settings.
type GraphicsConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DataConfig holds the game data location.
type DataConfig struct {
	// Path is a candidate directory while loading and the canonical
	// resolved directory once Load returns.
	Path string `yaml:"path"`

	Source       datapath.Source `yaml:"-"`
	RejectedHint string          `yaml:"-"`
}

// LoggingConfig holds logging outputs.
type LoggingConfig struct {
	File string `yaml:"file"` // rotating log file, empty for console only
}

// Default returns a Config with default values and no data path.
func Default() Config {
	return Config{
		Verbosity: VerbosityInfo,
		Graphics: GraphicsConfig{
			Width:  DefaultScreenWidth,
			Height: DefaultScreenHeight,
		},
	}
}
