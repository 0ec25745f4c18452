// Package input turns SDL2 events into per-frame input state.
package input

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
)

// Event is one translated SDL event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	// RelX and RelY are the motion since the previous move event.
	RelX   int
	RelY   int
	Button uint8
	Repeat bool
}

// Translate converts an SDL event. Events the viewer does not use map to EventNone.
func Translate(event sdl.Event) Event {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}
		}

	case *sdl.KeyboardEvent:
		ev := Event{Type: EventKeyUp, Key: e.Keysym.Scancode, Repeat: e.Repeat != 0}
		if e.Type == sdl.KEYDOWN {
			ev.Type = EventKeyDown
		}
		return ev

	case *sdl.MouseMotionEvent:
		return Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			RelX:   int(e.XRel),
			RelY:   int(e.YRel),
		}

	case *sdl.MouseButtonEvent:
		ev := Event{Type: EventMouseUp, MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}
		if e.Type == sdl.MOUSEBUTTONDOWN {
			ev.Type = EventMouseDown
		}
		return ev
	}
	return Event{}
}

// Input polls SDL and keeps the resulting State.
type Input struct {
	events []Event
	State  *State
}

// New creates an input handler with DefaultBindings.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		State:  NewState(DefaultBindings),
	}
}

// Update drains the SDL event queue into State. Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	i.State.BeginFrame()

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		ev := Translate(event)
		if ev.Type == EventNone {
			continue
		}
		i.events = append(i.events, ev)
		i.State.Apply(ev)
	}
	return i.State.Quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// SetCaptured grabs or releases the mouse. While captured the cursor is
// hidden and motion drives the virtual cursor.
func (i *Input) SetCaptured(on bool) {
	sdl.SetRelativeMouseMode(on)
	i.State.Captured = on
}

// ToggleCapture flips the mouse capture.
func (i *Input) ToggleCapture() {
	i.SetCaptured(!i.State.Captured)
}

// Cursor returns the virtual cursor position.
func (i *Input) Cursor() mgl32.Vec2 {
	return i.State.Cursor
}
