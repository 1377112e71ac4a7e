// Package app runs the startup sequence: configuration, logging, window,
// event loop and teardown.
package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/skyrogue/skyrogue/internal/config"
	"github.com/skyrogue/skyrogue/internal/datapath"
	"github.com/skyrogue/skyrogue/internal/game"
	"github.com/skyrogue/skyrogue/internal/logger"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// State is a step of the application lifecycle. States only move forward.
type State int

const (
	StateUninitialized State = iota
	StateConfigured
	StateLogging
	StateWindowed
	StateRunning
	StateShuttingDown
	StateExited
)

var stateNames = [...]string{
	StateUninitialized: "uninitialized",
	StateConfigured:    "configured",
	StateLogging:       "logging",
	StateWindowed:      "windowed",
	StateRunning:       "running",
	StateShuttingDown:  "shutting_down",
	StateExited:        "exited",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Shell wires the startup sequence together. Zero-valued fields fall back
// to the process defaults.
type Shell struct {
	Args     []string
	Stdout   io.Writer
	Stderr   io.Writer
	Resolver datapath.Resolver
	Open     game.Opener

	// InitLogging installs the process logger. Defaults to logger.Init.
	InitLogging func(level zapcore.Level, logFile string) error

	cfg     config.Config
	history []State
}

// Run runs the application with the process's standard streams and
// returns the exit code.
func Run(args []string, open game.Opener) int {
	s := &Shell{
		Args:   args,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Open:   open,
	}
	return s.Run()
}

// Run executes the startup sequence and the event loop. Resources are
// released in reverse order on every return path, panics included.
func (s *Shell) Run() int {
	s.advance(StateUninitialized)
	defer s.advance(StateExited)

	loader := config.Loader{
		Stdout:   s.stdout(),
		Stderr:   s.stderr(),
		Resolver: s.Resolver,
	}
	cfg, err := loader.Load(s.Args)
	if err != nil {
		return s.fail(err)
	}
	s.cfg = cfg
	s.advance(StateConfigured)

	initLogging := s.InitLogging
	if initLogging == nil {
		initLogging = logger.Init
	}
	if err := initLogging(cfg.Verbosity.Level(), cfg.Logging.File); err != nil {
		return s.fail(err)
	}
	defer logger.Sync()
	s.advance(StateLogging)

	logger.Info("=== Skyrogue ===", zap.String("version", config.Version))
	logger.Info("configuration",
		zap.Stringer("verbosity", cfg.Verbosity),
		zap.String("data_path", cfg.Data.Path),
		zap.Stringer("data_source", cfg.Data.Source),
		zap.Int("screen_width", cfg.Graphics.Width),
		zap.Int("screen_height", cfg.Graphics.Height),
		zap.String("log_file", cfg.Logging.File),
	)
	logger.Sugar.Debugf("config: %+v", cfg)
	if cfg.Data.RejectedHint != "" {
		logger.Warn("data path has no "+datapath.SentinelName+", using search result",
			zap.String("requested", cfg.Data.RejectedHint),
			zap.String("data_path", cfg.Data.Path),
		)
	}

	g, err := game.New(cfg, s.Open)
	if err != nil {
		return s.fail(err)
	}
	defer g.Close()
	s.advance(StateWindowed)

	s.advance(StateRunning)
	g.Run()

	s.advance(StateShuttingDown)
	logger.Info("shutting down")
	return ExitOK
}

// Config returns the configuration built by Run.
func (s *Shell) Config() config.Config {
	return s.cfg
}

// State returns the current lifecycle state.
func (s *Shell) State() State {
	if len(s.history) == 0 {
		return StateUninitialized
	}
	return s.history[len(s.history)-1]
}

// History returns every state entered, in order.
func (s *Shell) History() []State {
	return append([]State(nil), s.history...)
}

func (s *Shell) advance(next State) {
	if len(s.history) > 0 && next <= s.State() {
		panic(fmt.Sprintf("app: illegal state transition %s -> %s", s.State(), next))
	}
	s.history = append(s.history, next)
}

// fail prints the single diagnostic for err and returns its exit code.
func (s *Shell) fail(err error) int {
	category, code := Classify(err)
	if category != "" {
		fmt.Fprintf(s.stderr(), "skyrogue: %s: %v\n", category, err)
	}
	return code
}

// Classify maps a startup error to its diagnostic category and exit code.
// An empty category means nothing should be printed.
func Classify(err error) (string, int) {
	var (
		parseErr *config.ArgParseError
		envErr   *datapath.EnvironmentError
		staged   game.StagedError
	)

	switch {
	case errors.Is(err, config.ErrUsageShown):
		return "", ExitUsage
	case errors.As(err, &parseErr):
		return "argument error", ExitUsage
	case errors.As(err, &envErr):
		return "environment error", ExitFailure
	case errors.Is(err, datapath.ErrNotFound):
		return "data path not found", ExitFailure
	case errors.Is(err, logger.ErrAlreadyInitialized):
		return "logging init error", ExitFailure
	case errors.As(err, &staged):
		return "windowing init error (" + staged.StageName() + ")", ExitFailure
	default:
		return "fatal error", ExitFailure
	}
}

func (s *Shell) stdout() io.Writer {
	if s.Stdout == nil {
		return os.Stdout
	}
	return s.Stdout
}

func (s *Shell) stderr() io.Writer {
	if s.Stderr == nil {
		return os.Stderr
	}
	return s.Stderr
}
