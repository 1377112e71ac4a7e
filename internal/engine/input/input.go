// Package input defines the window event model and quit detection.
//
// It does not depend on SDL; the window package translates native events
// into these types.
package input

// EventType identifies an event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowClose
	EventWindowResize
	EventKeyDown
	EventKeyUp
)

var eventNames = [...]string{
	EventNone:         "none",
	EventQuit:         "quit",
	EventWindowClose:  "window_close",
	EventWindowResize: "window_resize",
	EventKeyDown:      "key_down",
	EventKeyUp:        "key_up",
}

func (t EventType) String() string {
	if t >= 0 && int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Key is a layout-dependent key code.
type Key int32

// KeyUnknown is any key the game does not map.
const KeyUnknown Key = 0

// KeyEscape matches SDLK_ESCAPE.
const KeyEscape Key = 27

// Event represents a processed input event. Pointer and text input are
// not mapped and arrive as EventNone.
type Event struct {
	Type   EventType
	Key    Key
	Width  int
	Height int
}

// IsQuit reports whether the event asks the application to stop: a quit
// request, a window close, or Escape being pressed.
func (e Event) IsQuit() bool {
	switch e.Type {
	case EventQuit, EventWindowClose:
		return true
	case EventKeyDown:
		return e.Key == KeyEscape
	default:
		return false
	}
}

// Source yields pending events. Poll returns false once no event is
// pending; a later call may return new events.
type Source interface {
	Poll() (Event, bool)
}

// Input drains a Source once per frame.
type Input struct {
	source Source
	events []Event
}

// New creates a new input handler reading from source.
func New(source Source) *Input {
	return &Input{
		source: source,
		events: make([]Event, 0, 16),
	}
}

// Update drains pending events. It returns true as soon as a quit event is
// seen; events after it stay queued in the source.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event, ok := i.source.Poll(); ok; event, ok = i.source.Poll() {
		i.events = append(i.events, event)
		if event.IsQuit() {
			return true
		}
	}
	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}
