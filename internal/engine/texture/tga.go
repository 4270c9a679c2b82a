package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

var errTGATruncated = errors.New("TGA data truncated")

// DecodeTGA decodes an uncompressed or RLE true-color TGA file.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("TGA data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d", bpp)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}

	p := &tgaPixels{
		img:     image.NewRGBA(image.Rect(0, 0, width, height)),
		src:     data[offset:],
		stride:  bpp / 8,
		flipped: !topToBottom,
	}
	if imageType == TGATypeUncompressed {
		if len(p.src) < width*height*p.stride {
			return nil, errTGATruncated
		}
		for p.n < width*height {
			p.put(p.read())
		}
		return p.img, nil
	}

	for p.n < width*height && p.pos < len(p.src) {
		packet := p.src[p.pos]
		p.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if p.pos+p.stride > len(p.src) {
				break
			}
			c := p.read()
			for i := 0; i < count; i++ {
				p.put(c)
			}
			continue
		}
		for i := 0; i < count && p.pos+p.stride <= len(p.src); i++ {
			p.put(p.read())
		}
	}
	return p.img, nil
}

// tgaPixels walks BGR(A) source pixels into an RGBA image.
type tgaPixels struct {
	img     *image.RGBA
	src     []byte
	pos     int
	stride  int
	n       int
	flipped bool
}

func (p *tgaPixels) read() color.RGBA {
	s := p.src[p.pos : p.pos+p.stride]
	p.pos += p.stride
	c := color.RGBA{R: s[2], G: s[1], B: s[0], A: 255}
	if p.stride == 4 {
		c.A = s[3]
	}
	return c
}

func (p *tgaPixels) put(c color.RGBA) {
	w, h := p.img.Rect.Dx(), p.img.Rect.Dy()
	if p.n >= w*h {
		return
	}
	x, y := p.n%w, p.n/w
	if p.flipped {
		y = h - 1 - y
	}
	p.img.SetRGBA(x, y, c)
	p.n++
}
