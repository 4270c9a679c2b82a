package ui2d

// Color represents an RGBA color with float components (0.0 to 1.0).
type Color struct {
	R, G, B, A float32
}

// Overlay palette.
var (
	ColorWhite    = Color{1, 1, 1, 1}
	ColorBackdrop = Color{0.04, 0.04, 0.06, 1}
	ColorTrack    = Color{1, 1, 1, 0.15}
	ColorBar      = Color{0.95, 0.95, 0.95, 1}
	ColorText     = Color{0.9, 0.9, 0.9, 1}
	ColorTextDim  = Color{0.55, 0.55, 0.6, 1}
)

// RGB creates a color from 8-bit RGB values with full alpha.
func RGB(r, g, b uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: 1.0,
	}
}

// WithAlpha returns a copy of the color with a different alpha value.
func (c Color) WithAlpha(a float32) Color {
	return Color{c.R, c.G, c.B, a}
}

// Fade returns the color with its alpha scaled by f.
func (c Color) Fade(f float32) Color {
	return c.WithAlpha(c.A * f)
}
