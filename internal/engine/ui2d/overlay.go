package ui2d

import (
	"fmt"
	"math"
	"time"
)

// RemovalDelay is how long after the fade the overlay stays before it is
// removed.
const RemovalDelay = 50 * time.Millisecond

// DefaultFade is the fade-out duration used when none is configured.
const DefaultFade = 450 * time.Millisecond

// Canvas is the drawing surface the overlay paints on. *Renderer implements it.
type Canvas interface {
	GetScreenSize() (int, int)
	DrawRect(x, y, width, height float32, color Color)
	DrawText(x, y float32, text string, scale float32, color Color)
	MeasureText(text string, scale float32) (float32, float32)
}

// Overlay is the full-screen loading cover with a progress bar, a label and
// a percentage. It hides the scene until Hide is called, then fades out.
type Overlay struct {
	progress float32
	label    string

	fade     time.Duration
	hidden   bool
	hiddenAt time.Time

	now func() time.Time
}

// NewOverlay creates a visible overlay at 0%.
func NewOverlay(fade time.Duration) *Overlay {
	if fade <= 0 {
		fade = DefaultFade
	}
	return &Overlay{fade: fade, now: time.Now}
}

// SetProgress sets the bar fill. Values are clamped to [0, 1].
func (o *Overlay) SetProgress(p float32) {
	switch {
	case math.IsNaN(float64(p)), p < 0:
		p = 0
	case p > 1:
		p = 1
	}
	o.progress = p
}

// SetLabel sets the status text.
func (o *Overlay) SetLabel(label string) {
	o.label = label
}

// Hide starts the fade out. Later calls are ignored.
func (o *Overlay) Hide() {
	if o.hidden {
		return
	}
	o.hidden = true
	o.hiddenAt = o.now()
}

// Progress returns the current bar fill.
func (o *Overlay) Progress() float32 {
	return o.progress
}

// Label returns the current status text.
func (o *Overlay) Label() string {
	return o.label
}

// Percent returns the progress as a rounded percentage.
func (o *Overlay) Percent() int {
	return int(math.Round(float64(o.progress) * 100))
}

// Hidden reports whether Hide has been called.
func (o *Overlay) Hidden() bool {
	return o.hidden
}

// Opacity returns 1 while shown, falling linearly to 0 over the fade.
func (o *Overlay) Opacity() float32 {
	if !o.hidden {
		return 1
	}
	elapsed := o.now().Sub(o.hiddenAt)
	if elapsed >= o.fade {
		return 0
	}
	return 1 - float32(elapsed)/float32(o.fade)
}

// Removed reports whether the overlay is gone for good.
func (o *Overlay) Removed() bool {
	return o.hidden && o.now().Sub(o.hiddenAt) >= o.fade+RemovalDelay
}

// Draw paints the overlay. Nothing is drawn once it is removed.
func (o *Overlay) Draw(c Canvas) {
	if o.Removed() {
		return
	}
	alpha := o.Opacity()
	sw, sh := c.GetScreenSize()
	w, h := float32(sw), float32(sh)

	c.DrawRect(0, 0, w, h, ColorBackdrop.Fade(alpha))

	scale := float32(2)
	if sw < 768 {
		scale = 1
	}

	barW := float32(math.Min(320, float64(w)*0.6))
	barH := 4 * scale
	barX := (w - barW) / 2
	barY := h/2 - barH/2

	c.DrawRect(barX, barY, barW, barH, ColorTrack.Fade(alpha))
	c.DrawRect(barX, barY, barW*o.progress, barH, ColorBar.Fade(alpha))

	if o.label != "" {
		lw, lh := c.MeasureText(o.label, scale)
		c.DrawText((w-lw)/2, barY-lh-8*scale, o.label, scale, ColorText.Fade(alpha))
	}

	pct := fmt.Sprintf("%d%%", o.Percent())
	pw, _ := c.MeasureText(pct, scale)
	c.DrawText((w-pw)/2, barY+barH+8*scale, pct, scale, ColorTextDim.Fade(alpha))
}
