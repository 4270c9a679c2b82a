package texture

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
)

// averageSize is the edge of the thumbnail the average is taken over.
const averageSize = 16

// AverageColor returns the mean colour of img in [0,1] RGB. The image is
// first reduced to a small thumbnail so large environment maps stay cheap.
func AverageColor(img image.Image) mgl32.Vec3 {
	b := img.Bounds()
	if b.Empty() {
		return mgl32.Vec3{}
	}

	w, h := min(b.Dx(), averageSize), min(b.Dy(), averageSize)
	thumb := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(thumb, thumb.Bounds(), img, b, draw.Src, nil)

	var sum [3]float64
	for i := 0; i < len(thumb.Pix); i += 4 {
		sum[0] += float64(thumb.Pix[i])
		sum[1] += float64(thumb.Pix[i+1])
		sum[2] += float64(thumb.Pix[i+2])
	}
	n := float64(w*h) * 255
	return mgl32.Vec3{float32(sum[0] / n), float32(sum[1] / n), float32(sum[2] / n)}
}
