// Package lighting provides the directional light the rooms are lit by.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Directional is a light infinitely far away. Direction points from the
// light into the scene.
type Directional struct {
	Direction mgl32.Vec3
	Color     mgl32.Vec3
}

// SunDirection converts an azimuth around Y and an elevation above the
// horizon, both in degrees, to a unit vector pointing towards the sun.
func SunDirection(azimuth, elevation float32) mgl32.Vec3 {
	az := float64(mgl32.DegToRad(azimuth))
	el := float64(mgl32.DegToRad(elevation))

	return mgl32.Vec3{
		float32(math.Cos(el) * math.Sin(az)),
		float32(math.Sin(el)),
		float32(math.Cos(el) * math.Cos(az)),
	}
}

// Sun returns a light shining from the sun position towards the origin.
func Sun(azimuth, elevation float32, color mgl32.Vec3) Directional {
	return Directional{Direction: SunDirection(azimuth, elevation).Mul(-1), Color: color}
}
