// Package gesture turns pointer and mouse input into orbit deltas.
package gesture

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Target receives the deltas a Tracker produces. The orbit camera implements it.
type Target interface {
	Rotate(dYaw, dPitch float32)
	Zoom(dDistance float32)
}

// State is the interaction mode derived from the active pointer count.
type State int

const (
	Idle State = iota
	Dragging
	Pinching
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Pinching:
		return "pinching"
	default:
		return "idle"
	}
}

// maxPointers bounds the active pointer set. Extra fingers are ignored.
const maxPointers = 2

// Tracker owns the active pointer set for one page session.
//
// One pointer drags (rotate), two pointers pinch (zoom). A pinch diffs the
// current finger spread against the spread recorded on the previous move, so
// every move re-baselines; releasing a finger forgets the baseline so the next
// pinch starts fresh.
type Tracker struct {
	target Target
	pinch  bool

	pointers map[int64]mgl32.Vec2
	order    []int64

	lastPinch    float32
	hasLastPinch bool

	mouseDown bool
	lastMouse mgl32.Vec2
}

// New creates a tracker feeding target. When pinch is false a second pointer
// is ignored and only single-pointer drags rotate.
func New(target Target, pinch bool) *Tracker {
	return &Tracker{
		target:   target,
		pinch:    pinch,
		pointers: make(map[int64]mgl32.Vec2, maxPointers),
		order:    make([]int64, 0, maxPointers),
	}
}

// State returns the current interaction mode.
func (t *Tracker) State() State {
	switch {
	case len(t.pointers) >= 2:
		return Pinching
	case len(t.pointers) == 1 || t.mouseDown:
		return Dragging
	default:
		return Idle
	}
}

// ActivePointers returns the number of tracked pointers.
func (t *Tracker) ActivePointers() int {
	return len(t.pointers)
}

// PointerDown adds a pointer. A second pointer starts a pinch and captures
// the initial spread.
func (t *Tracker) PointerDown(id int64, x, y float32) {
	if _, ok := t.pointers[id]; ok {
		t.pointers[id] = mgl32.Vec2{x, y}
		return
	}
	limit := maxPointers
	if !t.pinch {
		limit = 1
	}
	if len(t.pointers) >= limit {
		return
	}

	t.pointers[id] = mgl32.Vec2{x, y}
	t.order = append(t.order, id)

	if len(t.pointers) == 2 {
		t.lastPinch = t.spread()
		t.hasLastPinch = true
	}
}

// PointerMove updates a pointer and emits a rotate or zoom delta.
// Moves of untracked pointers are ignored.
func (t *Tracker) PointerMove(id int64, x, y float32) {
	prev, ok := t.pointers[id]
	if !ok {
		return
	}
	cur := mgl32.Vec2{x, y}
	t.pointers[id] = cur

	switch len(t.pointers) {
	case 1:
		d := cur.Sub(prev)
		t.target.Rotate(-d.X(), -d.Y())
	case 2:
		dist := t.spread()
		if t.hasLastPinch {
			t.target.Zoom(-(dist - t.lastPinch))
		}
		t.lastPinch = dist
		t.hasLastPinch = true
	}
}

// PointerUp removes a pointer. Dropping below two pointers clears the pinch
// baseline.
func (t *Tracker) PointerUp(id int64) {
	if _, ok := t.pointers[id]; !ok {
		return
	}
	delete(t.pointers, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	if len(t.pointers) < 2 {
		t.hasLastPinch = false
		t.lastPinch = 0
	}
}

// PointerCancel behaves like PointerUp.
func (t *Tracker) PointerCancel(id int64) {
	t.PointerUp(id)
}

// MouseDown starts a desktop drag.
func (t *Tracker) MouseDown(x, y float32) {
	t.mouseDown = true
	t.lastMouse = mgl32.Vec2{x, y}
}

// MouseMove rotates while the button is held.
func (t *Tracker) MouseMove(x, y float32) {
	if !t.mouseDown {
		return
	}
	cur := mgl32.Vec2{x, y}
	d := cur.Sub(t.lastMouse)
	t.lastMouse = cur
	t.target.Rotate(-d.X(), -d.Y())
}

// MouseUp ends a desktop drag.
func (t *Tracker) MouseUp() {
	t.mouseDown = false
}

// Reset drops every pointer, e.g. when the window loses focus.
func (t *Tracker) Reset() {
	clear(t.pointers)
	t.order = t.order[:0]
	t.hasLastPinch = false
	t.lastPinch = 0
	t.mouseDown = false
}

func (t *Tracker) spread() float32 {
	if len(t.order) < 2 {
		return 0
	}
	a := t.pointers[t.order[0]]
	b := t.pointers[t.order[1]]
	return a.Sub(b).Len()
}
