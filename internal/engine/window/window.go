// Package window handles the SDL2 window and its event pump.
package window

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/skyrogue/skyrogue/internal/engine/input"
	"github.com/skyrogue/skyrogue/internal/logger"
)

func init() {
	// SDL video and event calls must be made from the main thread
	runtime.LockOSThread()
}

// Stage names a step of window initialization.
type Stage string

const (
	StageContext Stage = "context"
	StageVideo   Stage = "video subsystem"
	StageWindow  Stage = "window"
	StagePump    Stage = "event pump"
)

// InitError reports which initialization step failed.
type InitError struct {
	Stage Stage
	Err   error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("%s init failed: %v", e.Stage, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// StageName returns the failed stage.
func (e *InitError) StageName() string { return string(e.Stage) }

// errPumpTaken is returned when a second event pump is requested.
var errPumpTaken = errors.New("an event pump is already active")

var pumpTaken atomic.Bool

// Config holds window configuration.
type Config struct {
	Title  string
	Width  int
	Height int
}

// Window owns the SDL context, video subsystem, native window and event
// pump. Close releases them in reverse order of acquisition.
type Window struct {
	releases []func()
}

// Open initializes SDL and creates a centered window. On failure everything
// acquired so far is released before returning an *InitError.
func Open(cfg Config) (_ *Window, err error) {
	w := &Window{}
	defer func() {
		if err != nil {
			w.release()
		}
	}()

	logger.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_EVENTS); err != nil {
		return nil, &InitError{Stage: StageContext, Err: err}
	}
	w.acquired(sdl.Quit)

	if err := sdl.InitSubSystem(sdl.INIT_VIDEO); err != nil {
		return nil, &InitError{Stage: StageVideo, Err: err}
	}
	w.acquired(func() { sdl.QuitSubSystem(sdl.INIT_VIDEO) })

	win, err := sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		return nil, &InitError{Stage: StageWindow, Err: err}
	}
	w.acquired(func() {
		if err := win.Destroy(); err != nil {
			logger.Warn("failed to destroy window", zap.Error(err))
		}
	})

	if err := acquirePump(); err != nil {
		return nil, &InitError{Stage: StagePump, Err: err}
	}
	w.acquired(func() { pumpTaken.Store(false) })

	logger.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
	)

	return w, nil
}

func acquirePump() error {
	if sdl.WasInit(sdl.INIT_EVENTS) == 0 {
		return errors.New("events subsystem not initialized")
	}
	if !pumpTaken.CompareAndSwap(false, true) {
		return errPumpTaken
	}
	return nil
}

func (w *Window) acquired(release func()) {
	w.releases = append(w.releases, release)
}

// release undoes acquisitions, newest first.
func (w *Window) release() {
	for i := len(w.releases) - 1; i >= 0; i-- {
		w.releases[i]()
	}
	w.releases = nil
}

// Close destroys the window and shuts SDL down. Safe to call twice.
func (w *Window) Close() {
	if w.releases == nil {
		return
	}
	logger.Info("closing window")
	w.release()
}

// Poll returns the next pending event, translated to the input model.
func (w *Window) Poll() (input.Event, bool) {
	event := sdl.PollEvent()
	if event == nil {
		return input.Event{}, false
	}
	return translate(event), true
}

// translate converts an SDL event. Mouse, text and other unhandled events
// become EventNone.
func translate(event sdl.Event) input.Event {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return input.Event{Type: input.EventQuit}

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_CLOSE:
			return input.Event{Type: input.EventWindowClose}
		case sdl.WINDOWEVENT_RESIZED:
			return input.Event{
				Type:   input.EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}
		}

	case *sdl.KeyboardEvent:
		key := input.Key(e.Keysym.Sym)
		if e.Type == sdl.KEYDOWN {
			return input.Event{Type: input.EventKeyDown, Key: key}
		}
		return input.Event{Type: input.EventKeyUp, Key: key}
	}

	return input.Event{Type: input.EventNone}
}
