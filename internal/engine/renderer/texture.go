package renderer

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/roomfolio/internal/engine/scene"
)

type gpuTexture struct {
	id      uint32
	version uint64
	width   int
	height  int
}

// texture returns the GL name for t, uploading it on first use and again
// whenever its frame version changes. A nil texture, or one with no image
// yet, samples as white.
func (r *Renderer) texture(t *scene.Texture) uint32 {
	if t == nil || t.Disposed() {
		return r.white
	}

	gt, ok := r.textures[t]
	img, version := t.Current()
	if img == nil {
		if ok {
			return gt.id
		}
		return r.white
	}
	if ok && gt.version == version {
		return gt.id
	}

	w, h := img.Rect.Dx(), img.Rect.Dy()
	pix := packRGBA(img)
	if ok && gt.width == w && gt.height == h {
		gl.BindTexture(gl.TEXTURE_2D, gt.id)
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
		gt.version = version
		return gt.id
	}

	if ok {
		gl.DeleteTextures(1, &gt.id)
	}
	gt = &gpuTexture{
		id:      uploadPixels(w, h, pix, !t.Linear, 0),
		version: version,
		width:   w,
		height:  h,
	}
	r.textures[t] = gt
	return gt.id
}

func (r *Renderer) releaseTexture(t *scene.Texture) {
	gt, ok := r.textures[t]
	if !ok {
		return
	}
	gl.DeleteTextures(1, &gt.id)
	delete(r.textures, t)
}

// uploadPixels creates a 2D texture from tightly packed RGBA pixels.
func uploadPixels(w, h int, pix []uint8, mipmaps bool, unit uint32) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	if mipmaps {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	}

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	if mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	return id
}

// packRGBA returns the pixels of img with no row padding.
func packRGBA(img *image.RGBA) []uint8 {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if img.Stride == w*4 && len(img.Pix) == w*h*4 {
		return img.Pix
	}
	out := make([]uint8, 0, w*h*4)
	for y := 0; y < h; y++ {
		off := y * img.Stride
		out = append(out, img.Pix[off:off+w*4]...)
	}
	return out
}
