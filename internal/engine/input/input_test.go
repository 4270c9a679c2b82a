package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veandco/go-sdl2/sdl"
)

func types(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func TestTranslateMouseClick(t *testing.T) {
	in := New(800, 600, 0)

	in.Translate(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT, X: 100, Y: 100})
	in.Translate(&sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, X: 103, Y: 102})
	in.Translate(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, Button: sdl.BUTTON_LEFT, X: 103, Y: 102})

	assert.Equal(t, []EventType{EventMouseDown, EventMouseMove, EventMouseUp, EventClick}, types(in.Events()))
	click := in.Events()[3]
	assert.Equal(t, float32(103), click.X)
	assert.Equal(t, float32(102), click.Y)
}

func TestTranslateDragIsNotClick(t *testing.T) {
	in := New(800, 600, 6)

	in.Translate(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT, X: 100, Y: 100})
	in.Translate(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, Button: sdl.BUTTON_LEFT, X: 140, Y: 100})

	assert.Equal(t, []EventType{EventMouseDown, EventMouseUp}, types(in.Events()))
}

func TestTranslateRightButtonNoClick(t *testing.T) {
	in := New(800, 600, 6)

	in.Translate(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_RIGHT, X: 1, Y: 1})
	in.Translate(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, Button: sdl.BUTTON_RIGHT, X: 1, Y: 1})

	assert.Equal(t, []EventType{EventMouseDown, EventMouseUp}, types(in.Events()))
}

func TestTranslateIgnoresTouchSynthesizedMouse(t *testing.T) {
	in := New(800, 600, 6)

	in.Translate(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Which: touchMouseID, Button: sdl.BUTTON_LEFT})
	in.Translate(&sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, Which: touchMouseID})

	assert.Empty(t, in.Events())
}

func TestTranslateFingers(t *testing.T) {
	in := New(800, 600, 6)

	in.Translate(&sdl.TouchFingerEvent{Type: sdl.FINGERDOWN, FingerID: 3, X: 0.5, Y: 0.5})
	in.Translate(&sdl.TouchFingerEvent{Type: sdl.FINGERMOTION, FingerID: 3, X: 0.501, Y: 0.5})
	in.Translate(&sdl.TouchFingerEvent{Type: sdl.FINGERUP, FingerID: 3, X: 0.501, Y: 0.5})

	ev := in.Events()
	require.Equal(t, []EventType{EventPointerDown, EventPointerMove, EventPointerUp, EventClick}, types(ev))
	assert.Equal(t, int64(3), ev[0].PointerID)
	assert.InDelta(t, 400, ev[0].X, 1e-3)
	assert.InDelta(t, 300, ev[0].Y, 1e-3)
}

func TestTranslateFingerSwipeIsNotClick(t *testing.T) {
	in := New(800, 600, 6)

	in.Translate(&sdl.TouchFingerEvent{Type: sdl.FINGERDOWN, FingerID: 1, X: 0.1, Y: 0.5})
	in.Translate(&sdl.TouchFingerEvent{Type: sdl.FINGERUP, FingerID: 1, X: 0.6, Y: 0.5})

	assert.Equal(t, []EventType{EventPointerDown, EventPointerUp}, types(in.Events()))
}

func TestTranslateWheel(t *testing.T) {
	in := New(800, 600, 6)

	in.Translate(&sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: -1})
	in.Translate(&sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: -1, Direction: sdl.MOUSEWHEEL_FLIPPED})

	ev := in.Events()
	require.Len(t, ev, 2)
	assert.Equal(t, float32(100), ev[0].DeltaY, "scrolling toward the user is a positive delta")
	assert.Equal(t, float32(-100), ev[1].DeltaY)
}

func TestTranslateResizeUpdatesTouchScale(t *testing.T) {
	in := New(800, 600, 6)

	in.Translate(&sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_RESIZED, Data1: 400, Data2: 200})
	in.Translate(&sdl.TouchFingerEvent{Type: sdl.FINGERDOWN, FingerID: 1, X: 1, Y: 1})

	ev := in.Events()
	require.Len(t, ev, 2)
	assert.Equal(t, EventWindowResize, ev[0].Type)
	assert.Equal(t, 400, ev[0].Width)
	assert.Equal(t, float32(400), ev[1].X)
	assert.Equal(t, float32(200), ev[1].Y)
}

func TestTranslateQuitAndKeys(t *testing.T) {
	in := New(800, 600, 6)

	assert.True(t, in.Translate(&sdl.QuitEvent{Type: sdl.QUIT}))
	assert.False(t, in.Translate(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_UP}}))

	assert.True(t, in.IsKeyPressed(sdl.SCANCODE_UP))
	assert.False(t, in.IsKeyPressed(sdl.SCANCODE_DOWN))
}

func TestDispatcherOrderAndUnsubscribe(t *testing.T) {
	var d Dispatcher
	var got []string

	d.Subscribe(func(Event) { got = append(got, "a") })
	unsubB := d.Subscribe(func(Event) { got = append(got, "b") })
	d.Subscribe(func(Event) { got = append(got, "c") })

	d.Dispatch(Event{Type: EventClick})
	assert.Equal(t, []string{"a", "b", "c"}, got)

	got = nil
	unsubB()
	unsubB()
	d.Dispatch(Event{Type: EventClick})
	assert.Equal(t, []string{"a", "c"}, got)
	assert.Equal(t, 2, d.Len())
}

func TestDispatcherUnsubscribeDuringDispatch(t *testing.T) {
	var d Dispatcher
	var got []string

	var unsubSelf, unsubNext func()
	unsubSelf = d.Subscribe(func(Event) {
		got = append(got, "self")
		unsubSelf()
		unsubNext()
	})
	unsubNext = d.Subscribe(func(Event) { got = append(got, "next") })

	d.Dispatch(Event{})
	d.Dispatch(Event{})

	assert.Equal(t, []string{"self"}, got)
	assert.Zero(t, d.Len())
}
