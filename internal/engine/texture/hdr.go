package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/tmo"
)

// maxHDRPixels caps the resolution accepted from a Radiance header.
const maxHDRPixels = 1 << 24

var errHDRFormat = errors.New("not a Radiance HDR file")

// DecodeHDR decodes a Radiance RGBE image and tone-maps it to 8-bit RGBA.
func DecodeHDR(data []byte) (*image.RGBA, error) {
	if !bytes.HasPrefix(data, []byte("#?")) {
		return nil, errHDRFormat
	}

	cfg, err := rgbe.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("hdr header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid hdr size %dx%d", cfg.Width, cfg.Height)
	}
	// Every scanline takes at least four bytes, flat or run-length encoded.
	if cfg.Width*cfg.Height > maxHDRPixels || cfg.Height*4 > len(data) {
		return nil, fmt.Errorf("hdr size %dx%d exceeds the data or limit", cfg.Width, cfg.Height)
	}

	m, err := rgbe.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("hdr decode: %w", err)
	}
	hm, ok := m.(hdr.Image)
	if !ok {
		return nil, errHDRFormat
	}

	img := ToRGBA(tmo.NewLinear(hm).Perform())
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img, nil
}
