package input

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
)

// Action is a key-bound viewer command.
type Action int

const (
	ActionNone Action = iota
	ActionToggleCapture
	ActionToggleBounds
	ActionScreenshot
	ActionFocus
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionToggleCapture:
		return "toggle-capture"
	case ActionToggleBounds:
		return "toggle-bounds"
	case ActionScreenshot:
		return "screenshot"
	case ActionFocus:
		return "focus"
	case ActionQuit:
		return "quit"
	}
	return "none"
}

// DefaultBindings maps keys to actions.
var DefaultBindings = map[sdl.Scancode]Action{
	sdl.SCANCODE_TAB:    ActionToggleCapture,
	sdl.SCANCODE_F3:     ActionToggleBounds,
	sdl.SCANCODE_F12:    ActionScreenshot,
	sdl.SCANCODE_F:      ActionFocus,
	sdl.SCANCODE_ESCAPE: ActionQuit,
}

// State is the input seen by one frame.
type State struct {
	// Cursor accumulates relative mouse motion while Captured.
	Cursor   mgl32.Vec2
	Captured bool
	Quit     bool

	// Resized is set when the window changed size this frame.
	Resized       bool
	Width, Height int

	// Actions and Clicks hold this frame's triggers in arrival order.
	Actions []Action
	Clicks  []mgl32.Vec2

	held     map[sdl.Scancode]bool
	bindings map[sdl.Scancode]Action
}

// NewState creates an empty state using bindings.
func NewState(bindings map[sdl.Scancode]Action) *State {
	return &State{
		held:     make(map[sdl.Scancode]bool),
		bindings: bindings,
	}
}

// BeginFrame drops the previous frame's triggers. Held keys and the cursor persist.
func (s *State) BeginFrame() {
	s.Actions = s.Actions[:0]
	s.Clicks = s.Clicks[:0]
	s.Resized = false
}

// Apply folds one event into the state.
func (s *State) Apply(e Event) {
	switch e.Type {
	case EventQuit:
		s.Quit = true

	case EventWindowResize:
		s.Resized = true
		s.Width, s.Height = e.Width, e.Height

	case EventKeyDown:
		s.held[e.Key] = true
		if e.Repeat {
			return
		}
		if a, ok := s.bindings[e.Key]; ok {
			s.Actions = append(s.Actions, a)
			if a == ActionQuit {
				s.Quit = true
			}
		}

	case EventKeyUp:
		delete(s.held, e.Key)

	case EventMouseMove:
		if s.Captured {
			s.Cursor = s.Cursor.Add(mgl32.Vec2{float32(e.RelX), float32(e.RelY)})
		}

	case EventMouseDown:
		if e.Button == sdl.BUTTON_LEFT {
			s.Clicks = append(s.Clicks, mgl32.Vec2{float32(e.MouseX), float32(e.MouseY)})
		}
	}
}

// Held reports whether key is down.
func (s *State) Held(key sdl.Scancode) bool {
	return s.held[key]
}

// Triggered reports whether a was triggered this frame.
func (s *State) Triggered(a Action) bool {
	for _, got := range s.Actions {
		if got == a {
			return true
		}
	}
	return false
}

// Axis returns -1, 0 or 1 from a pair of held keys.
func (s *State) Axis(neg, pos sdl.Scancode) float32 {
	var v float32
	if s.held[neg] {
		v--
	}
	if s.held[pos] {
		v++
	}
	return v
}
