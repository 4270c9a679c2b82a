// Package input handles SDL2 input events.
package input

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies an input event kind.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventFocusLost
	EventKeyDown
	EventKeyUp
	EventWheel
	EventMouseDown
	EventMouseMove
	EventMouseUp
	EventPointerDown
	EventPointerMove
	EventPointerUp
	EventPointerCancel
	EventClick
)

// Event represents a processed input event. Coordinates are window pixels.
type Event struct {
	Type      EventType
	Key       sdl.Scancode
	Repeat    bool
	Width     int
	Height    int
	X         float32
	Y         float32
	Button    uint8
	PointerID int64
	// DeltaY is the wheel delta in pixels, positive when scrolling down.
	DeltaY float32
}

// wheelStep is the pixel delta reported per wheel notch.
const wheelStep = 100

// touchMouseID marks mouse events SDL synthesizes from touch (SDL_TOUCH_MOUSEID).
const touchMouseID = ^uint32(0)

// DefaultClickSlop is the travel, in pixels, a press may move and still click.
const DefaultClickSlop = 6

type press struct {
	pos mgl32.Vec2
}

// Input converts SDL events into Events and synthesizes clicks.
type Input struct {
	events []Event

	width, height int
	clickSlop     float32

	mouse      mgl32.Vec2
	mousePress *press
	fingers    map[int64]press
}

// New creates a new input handler. width and height size the window that
// normalized touch coordinates are scaled to.
func New(width, height int, clickSlop float32) *Input {
	if clickSlop <= 0 {
		clickSlop = DefaultClickSlop
	}
	return &Input{
		events:    make([]Event, 0, 16),
		width:     width,
		height:    height,
		clickSlop: clickSlop,
		fingers:   make(map[int64]press),
	}
}

// SetSize updates the window size used to scale touch coordinates.
func (i *Input) SetSize(width, height int) {
	i.width, i.height = width, height
}

// Update polls SDL events and converts them to events.
// Returns true if the window was asked to close.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if i.Translate(event) {
			quit = true
		}
	}
	return quit
}

// Translate converts one SDL event and appends the results.
// Returns true for a quit request.
func (i *Input) Translate(event sdl.Event) bool {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.push(Event{Type: EventQuit})
		return true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
			i.SetSize(int(e.Data1), int(e.Data2))
			i.push(Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)})
		case sdl.WINDOWEVENT_FOCUS_LOST:
			i.mousePress = nil
			clear(i.fingers)
			i.push(Event{Type: EventFocusLost})
		}

	case *sdl.KeyboardEvent:
		t := EventKeyDown
		if e.Type == sdl.KEYUP {
			t = EventKeyUp
		}
		i.push(Event{Type: t, Key: e.Keysym.Scancode, Repeat: e.Repeat != 0})

	case *sdl.MouseWheelEvent:
		dy := -float32(e.Y) * wheelStep
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			dy = -dy
		}
		i.push(Event{Type: EventWheel, X: i.mouse.X(), Y: i.mouse.Y(), DeltaY: dy})

	case *sdl.MouseMotionEvent:
		if e.Which == touchMouseID {
			return false
		}
		i.mouse = mgl32.Vec2{float32(e.X), float32(e.Y)}
		i.push(Event{Type: EventMouseMove, X: float32(e.X), Y: float32(e.Y)})

	case *sdl.MouseButtonEvent:
		if e.Which == touchMouseID {
			return false
		}
		x, y := float32(e.X), float32(e.Y)
		if e.Type == sdl.MOUSEBUTTONDOWN {
			if e.Button == sdl.BUTTON_LEFT {
				i.mousePress = &press{pos: mgl32.Vec2{x, y}}
			}
			i.push(Event{Type: EventMouseDown, X: x, Y: y, Button: e.Button})
			return false
		}
		i.push(Event{Type: EventMouseUp, X: x, Y: y, Button: e.Button})
		if e.Button == sdl.BUTTON_LEFT && i.mousePress != nil {
			if i.withinSlop(i.mousePress.pos, x, y) {
				i.push(Event{Type: EventClick, X: x, Y: y, Button: e.Button})
			}
			i.mousePress = nil
		}

	case *sdl.TouchFingerEvent:
		id := int64(e.FingerID)
		x := e.X * float32(i.width)
		y := e.Y * float32(i.height)
		switch e.Type {
		case sdl.FINGERDOWN:
			i.fingers[id] = press{pos: mgl32.Vec2{x, y}}
			i.push(Event{Type: EventPointerDown, PointerID: id, X: x, Y: y})
		case sdl.FINGERMOTION:
			i.push(Event{Type: EventPointerMove, PointerID: id, X: x, Y: y})
		case sdl.FINGERUP:
			i.push(Event{Type: EventPointerUp, PointerID: id, X: x, Y: y})
			if p, ok := i.fingers[id]; ok {
				delete(i.fingers, id)
				if i.withinSlop(p.pos, x, y) {
					i.push(Event{Type: EventClick, PointerID: id, X: x, Y: y})
				}
			}
		}
	}
	return false
}

func (i *Input) withinSlop(start mgl32.Vec2, x, y float32) bool {
	return mgl32.Vec2{x, y}.Sub(start).Len() <= i.clickSlop
}

func (i *Input) push(e Event) {
	i.events = append(i.events, e)
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}
