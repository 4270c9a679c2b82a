package ui2d

import (
	"image"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	firstGlyph = ' '
	lastGlyph  = '~'
	atlasCols  = 16
)

// Font is a fixed-width bitmap font packed into a single texture.
type Font struct {
	atlas  *image.RGBA
	glyphW int
	glyphH int
	tex    uint32
}

// NewFont rasterizes the 7x13 basic font and uploads the atlas.
// Must be called with a current GL context.
func NewFont() *Font {
	f := newFontAtlas(basicfont.Face7x13)
	f.upload()
	return f
}

// newFontAtlas draws the printable ASCII range of face into an atlas with
// glyph coverage in the alpha channel.
func newFontAtlas(face *basicfont.Face) *Font {
	gw, gh := face.Advance, face.Height
	count := int(lastGlyph-firstGlyph) + 1
	rows := (count + atlasCols - 1) / atlasCols

	atlas := image.NewRGBA(image.Rect(0, 0, atlasCols*gw, rows*gh))
	d := font.Drawer{Dst: atlas, Src: image.White, Face: face}
	for i := 0; i < count; i++ {
		x, y := (i%atlasCols)*gw, (i/atlasCols)*gh
		d.Dot = fixed.P(x, y+face.Ascent)
		d.DrawString(string(rune(firstGlyph + i)))
	}

	return &Font{atlas: atlas, glyphW: gw, glyphH: gh}
}

func (f *Font) upload() {
	b := f.atlas.Bounds()
	gl.GenTextures(1, &f.tex)
	gl.BindTexture(gl.TEXTURE_2D, f.tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(f.atlas.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// TextureID returns the GL atlas texture.
func (f *Font) TextureID() uint32 {
	return f.tex
}

// GlyphSize returns the cell size of one glyph in pixels.
func (f *Font) GlyphSize() (int, int) {
	return f.glyphW, f.glyphH
}

// GetGlyphUV returns the atlas coordinates of r. Runes outside the atlas
// render as '?'.
func (f *Font) GetGlyphUV(r rune) (u0, v0, u1, v1 float32) {
	if r < firstGlyph || r > lastGlyph {
		r = '?'
	}
	i := int(r - firstGlyph)
	b := f.atlas.Bounds()
	x, y := (i%atlasCols)*f.glyphW, (i/atlasCols)*f.glyphH
	aw, ah := float32(b.Dx()), float32(b.Dy())
	return float32(x) / aw, float32(y) / ah, float32(x+f.glyphW) / aw, float32(y+f.glyphH) / ah
}

// MeasureText returns the width of the longest line and the total height.
func (f *Font) MeasureText(text string, scale float32) (float32, float32) {
	text = normalizeText(text)
	lines := strings.Split(text, "\n")
	longest := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > longest {
			longest = n
		}
	}
	return float32(longest*f.glyphW) * scale, float32(len(lines)*f.glyphH) * scale
}

// Close releases the atlas texture.
func (f *Font) Close() {
	if f.tex != 0 {
		gl.DeleteTextures(1, &f.tex)
		f.tex = 0
	}
}

var textReplacer = strings.NewReplacer("…", "...", "’", "'", "—", "-")

// normalizeText maps the typographic characters used in labels onto ASCII.
func normalizeText(s string) string {
	return textReplacer.Replace(s)
}
