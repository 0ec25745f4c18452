package input

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
)

func TestActions(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   []Action
		quit   bool
	}{
		{
			name:   "bound keys",
			events: []Event{{Type: EventKeyDown, Key: sdl.SCANCODE_TAB}, {Type: EventKeyDown, Key: sdl.SCANCODE_F3}},
			want:   []Action{ActionToggleCapture, ActionToggleBounds},
		},
		{
			name:   "repeat ignored",
			events: []Event{{Type: EventKeyDown, Key: sdl.SCANCODE_F12}, {Type: EventKeyDown, Key: sdl.SCANCODE_F12, Repeat: true}},
			want:   []Action{ActionScreenshot},
		},
		{
			name:   "focus",
			events: []Event{{Type: EventKeyDown, Key: sdl.SCANCODE_F}},
			want:   []Action{ActionFocus},
		},
		{
			name:   "unbound key",
			events: []Event{{Type: EventKeyDown, Key: sdl.SCANCODE_Q}},
		},
		{
			name:   "escape quits",
			events: []Event{{Type: EventKeyDown, Key: sdl.SCANCODE_ESCAPE}},
			want:   []Action{ActionQuit},
			quit:   true,
		},
		{
			name:   "window close",
			events: []Event{{Type: EventQuit}},
			quit:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(DefaultBindings)
			for _, e := range tt.events {
				s.Apply(e)
			}
			if len(s.Actions) != len(tt.want) {
				t.Fatalf("actions = %v, want %v", s.Actions, tt.want)
			}
			for i := range tt.want {
				if s.Actions[i] != tt.want[i] {
					t.Errorf("action %d = %s, want %s", i, s.Actions[i], tt.want[i])
				}
			}
			if s.Quit != tt.quit {
				t.Errorf("Quit = %v, want %v", s.Quit, tt.quit)
			}
		})
	}
}

func TestCursorOnlyMovesWhileCaptured(t *testing.T) {
	s := NewState(DefaultBindings)
	move := Event{Type: EventMouseMove, RelX: 5, RelY: -3}

	s.Apply(move)
	if s.Cursor != (mgl32.Vec2{}) {
		t.Errorf("cursor moved while released: %v", s.Cursor)
	}

	s.Captured = true
	s.Apply(move)
	s.Apply(move)
	if want := (mgl32.Vec2{10, -6}); s.Cursor != want {
		t.Errorf("cursor = %v, want %v", s.Cursor, want)
	}
}

func TestBeginFrame(t *testing.T) {
	s := NewState(DefaultBindings)
	s.Apply(Event{Type: EventKeyDown, Key: sdl.SCANCODE_W})
	s.Apply(Event{Type: EventKeyDown, Key: sdl.SCANCODE_F3})
	s.Apply(Event{Type: EventMouseDown, Button: sdl.BUTTON_LEFT, MouseX: 10, MouseY: 20})
	s.Apply(Event{Type: EventMouseDown, Button: sdl.BUTTON_RIGHT})
	s.Apply(Event{Type: EventWindowResize, Width: 640, Height: 480})

	if len(s.Clicks) != 1 || s.Clicks[0] != (mgl32.Vec2{10, 20}) {
		t.Errorf("clicks = %v", s.Clicks)
	}
	if !s.Resized || s.Width != 640 || s.Height != 480 {
		t.Errorf("resize not recorded: %+v", s)
	}

	s.BeginFrame()
	if len(s.Actions) != 0 || len(s.Clicks) != 0 || s.Resized {
		t.Error("triggers survived BeginFrame")
	}
	if !s.Held(sdl.SCANCODE_W) {
		t.Error("held key dropped by BeginFrame")
	}
	if s.Triggered(ActionToggleBounds) {
		t.Error("action still triggered")
	}
}

func TestAxis(t *testing.T) {
	s := NewState(DefaultBindings)
	if got := s.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W); got != 0 {
		t.Errorf("Axis = %v, want 0", got)
	}
	s.Apply(Event{Type: EventKeyDown, Key: sdl.SCANCODE_W})
	if got := s.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W); got != 1 {
		t.Errorf("Axis = %v, want 1", got)
	}
	s.Apply(Event{Type: EventKeyDown, Key: sdl.SCANCODE_S})
	if got := s.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W); got != 0 {
		t.Errorf("Axis = %v, want 0", got)
	}
	s.Apply(Event{Type: EventKeyUp, Key: sdl.SCANCODE_W})
	if got := s.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W); got != -1 {
		t.Errorf("Axis = %v, want -1", got)
	}
}
