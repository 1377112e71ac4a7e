// Package game implements the main loop over a native window.
package game

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/skyrogue/skyrogue/internal/config"
	"github.com/skyrogue/skyrogue/internal/engine/input"
	"github.com/skyrogue/skyrogue/internal/logger"
)

// Title is the window title.
const Title = "Skyrogue"

// WindowSpec describes the window to open.
type WindowSpec struct {
	Title  string
	Width  int
	Height int
}

// Display is an open window that yields events.
type Display interface {
	input.Source
	Close()
}

// Opener opens a Display. Errors are returned unchanged by New.
type Opener func(WindowSpec) (Display, error)

// Game is the main game instance.
type Game struct {
	display Display
	input   *input.Input
	running bool
}

// New opens the window described by cfg.
func New(cfg config.Config, open Opener) (*Game, error) {
	spec := WindowSpec{
		Title:  Title,
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
	}
	logger.Info("initializing game",
		zap.String("title", spec.Title),
		zap.Int("width", spec.Width),
		zap.Int("height", spec.Height),
	)

	display, err := open(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	return &Game{
		display: display,
		input:   input.New(display),
	}, nil
}

// Run polls events until the user asks to quit. It does not sleep between
// polls.
func (g *Game) Run() {
	g.running = true

	frameCount := 0
	rateTimer := time.Now()

	logger.Info("starting game loop")

	for g.running {
		if g.input.Update() {
			g.running = false
			break
		}

		for _, event := range g.input.Events() {
			if event.Type == input.EventWindowResize {
				logger.Debug("window resized", zap.Int("width", event.Width), zap.Int("height", event.Height))
			}
		}

		frameCount++
		if time.Since(rateTimer) >= time.Second {
			logger.Debug("loop rate", zap.Int("polls_per_second", frameCount))
			frameCount = 0
			rateTimer = time.Now()
		}
	}

	if events := g.input.Events(); len(events) > 0 {
		logger.Info("quit requested", zap.Stringer("event", events[len(events)-1].Type))
	}
}

// Close releases the window.
func (g *Game) Close() {
	logger.Info("closing game")

	if g.display != nil {
		g.display.Close()
		g.display = nil
	}
}

// StagedError is implemented by window errors that name the initialization
// step that failed.
type StagedError interface {
	error
	StageName() string
}
