package page

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/roomfolio/internal/config"
	"github.com/Faultbox/roomfolio/internal/engine/camera"
)

// CameraConfig converts the configured camera, in degrees, to a camera
// config in radians and applies a page's overrides on top. A page distance
// also becomes the desktop responsive distance so it survives a resize.
func CameraConfig(c config.CameraConfig, o config.CameraOverrides) camera.Config {
	cfg := camera.DefaultConfig()

	cfg.Distance = c.Distance
	cfg.StartYaw = mgl32.DegToRad(c.StartYawDeg)
	cfg.StartPitch = mgl32.DegToRad(c.StartPitchDeg)
	cfg.MinYaw = mgl32.DegToRad(c.MinYawDeg)
	cfg.MaxYaw = mgl32.DegToRad(c.MaxYawDeg)
	cfg.MinPitch = mgl32.DegToRad(c.MinPitchDeg)
	cfg.MaxPitch = mgl32.DegToRad(c.MaxPitchDeg)
	cfg.Pivot = mgl32.Vec3{0, c.PivotY, 0}
	cfg.MinY = c.MinY
	cfg.MaxY = c.MaxY
	cfg.Smoothness = c.Smoothness
	cfg.RotateSpeed = c.RotateSpeed
	cfg.ScrollSpeed = c.ScrollSpeed
	cfg.KeySpeed = c.KeySpeed

	cfg.Responsive = camera.Responsive{
		Breakpoint:      c.Responsive.Breakpoint,
		FovDesktop:      c.Responsive.FovDesktop,
		FovMobile:       c.Responsive.FovMobile,
		DistanceDesktop: c.Responsive.DistanceDesktop,
		DistanceMobile:  c.Responsive.DistanceMobile,
	}
	cfg.Touch = camera.TouchConfig{
		Enabled:     c.Touch.Enabled,
		PinchSpeed:  c.Touch.PinchSpeed,
		MinDistance: c.Touch.MinDistance,
		MaxDistance: c.Touch.MaxDistance,
	}

	if o.MinY != nil {
		cfg.MinY = *o.MinY
	}
	if o.MaxY != nil {
		cfg.MaxY = *o.MaxY
	}
	if o.PivotY != nil {
		cfg.Pivot[1] = *o.PivotY
	}
	if o.Distance != nil {
		cfg.Distance = *o.Distance
		cfg.Responsive.DistanceDesktop = *o.Distance
	}
	return cfg
}
