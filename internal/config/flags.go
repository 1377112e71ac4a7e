package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is reported by --version. Overridden at build time with
// -ldflags "-X github.com/skyrogue/skyrogue/internal/config.Version=...".
var Version = "0.1.0-dev"

// ErrUsageShown is returned when --help or --version was handled and the
// process should stop without running anything else.
var ErrUsageShown = errors.New("usage shown")

// ArgParseError reports a malformed invocation or an unusable settings file.
type ArgParseError struct {
	Err error
}

func (e *ArgParseError) Error() string { return e.Err.Error() }

func (e *ArgParseError) Unwrap() error { return e.Err }

// Options are the raw command-line values.
type Options struct {
	Verbosity  string
	DataPath   string
	Width      int
	Height     int
	ConfigPath string
	LogFile    string

	set map[string]bool
}

// Changed reports whether the named flag was given on the command line.
func (o Options) Changed(name string) bool {
	return o.set[name]
}

// ParseArgs parses command-line arguments (without the program name).
// Help and version output go to stdout; usage after a parse error goes to
// stderr.
func ParseArgs(args []string, stdout, stderr io.Writer) (Options, error) {
	opts := Options{set: make(map[string]bool)}
	ran := false

	cmd := &cobra.Command{
		Use:           "skyrogue",
		Short:         "Skyrogue game client",
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ran = true
			cmd.Flags().Visit(func(f *pflag.Flag) {
				opts.set[f.Name] = true
			})
			return validateFlags(opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.Verbosity, "verbosity", "v", "INFO",
		"Logging verbosity: 'DEBUG', 'INFO', 'WARNING' or 'ERROR'")
	flags.StringVarP(&opts.DataPath, "data-path", "d", "",
		"Game data directory (must contain data.lock)")
	flags.IntVar(&opts.Width, "width", DefaultScreenWidth, "Window width in pixels")
	flags.IntVar(&opts.Height, "height", DefaultScreenHeight, "Window height in pixels")
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "Path to a YAML settings file")
	flags.StringVar(&opts.LogFile, "log-file", "", "Also write logs to this file (rotated)")

	// cobra falls back to os.Args when given nil.
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprint(stderr, cmd.UsageString())
		return Options{}, &ArgParseError{Err: err}
	}
	if !ran {
		return Options{}, ErrUsageShown
	}
	return opts, nil
}

func validateFlags(opts Options) error {
	if opts.Changed("width") && opts.Width <= 0 {
		return fmt.Errorf("invalid width %d: must be positive", opts.Width)
	}
	if opts.Changed("height") && opts.Height <= 0 {
		return fmt.Errorf("invalid height %d: must be positive", opts.Height)
	}
	return nil
}

// applyFlags applies command-line overrides to the config.
func applyFlags(cfg *Config, opts Options) {
	if opts.Changed("verbosity") {
		cfg.Verbosity = ParseVerbosity(opts.Verbosity)
	}
	if opts.Changed("data-path") {
		cfg.Data.Path = opts.DataPath
	}
	if opts.Changed("width") {
		cfg.Graphics.Width = opts.Width
	}
	if opts.Changed("height") {
		cfg.Graphics.Height = opts.Height
	}
	if opts.Changed("log-file") {
		cfg.Logging.File = opts.LogFile
	}
}
