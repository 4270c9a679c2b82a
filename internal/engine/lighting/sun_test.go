package lighting

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name               string
		azimuth, elevation float32
		want               mgl32.Vec3
	}{
		{"overhead", 0, 90, mgl32.Vec3{0, 1, 0}},
		{"horizon front", 0, 0, mgl32.Vec3{0, 0, 1}},
		{"horizon right", 90, 0, mgl32.Vec3{1, 0, 0}},
		{"behind", 180, 0, mgl32.Vec3{0, 0, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunDirection(tt.azimuth, tt.elevation)
			assert.InDeltaSlice(t, tt.want[:], got[:], 1e-5)
			assert.InDelta(t, 1, got.Len(), 1e-5)
		})
	}
}

func TestSunPointsIntoScene(t *testing.T) {
	l := Sun(30, 45, mgl32.Vec3{1, 1, 1})
	assert.Less(t, l.Direction.Y(), float32(0))
	want := SunDirection(30, 45).Mul(-1)
	assert.InDeltaSlice(t, want[:], l.Direction[:], 1e-6)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, l.Color)
}
