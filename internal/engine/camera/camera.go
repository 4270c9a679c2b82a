// Package camera provides the orbit camera that frames a portfolio room.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Controller is the per-frame contract the app loop drives.
type Controller interface {
	// Tick advances smoothing and recomputes the camera pose. Called once per frame.
	Tick()
	// ApplyResponsive re-selects lens and distance for a viewport and rebuilds the projection.
	ApplyResponsive(width, height int)
}

var _ Controller = (*OrbitCamera)(nil)

// TouchConfig holds pinch-zoom tuning.
type TouchConfig struct {
	Enabled     bool
	PinchSpeed  float32
	MinDistance float32
	MaxDistance float32
}

// Config holds orbit camera tuning. Angles are in radians.
type Config struct {
	Distance   float32
	StartYaw   float32
	StartPitch float32
	MinYaw     float32
	MaxYaw     float32
	MinPitch   float32
	MaxPitch   float32

	// Pivot is the look-at anchor. Only its Y moves at runtime.
	Pivot mgl32.Vec3
	MinY  float32
	MaxY  float32

	// Smoothness is the per-frame lerp factor of pivot height, in (0,1).
	Smoothness  float32
	RotateSpeed float32
	ScrollSpeed float32
	KeySpeed    float32

	Near float32
	Far  float32

	Responsive Responsive
	Touch      TouchConfig
}

// DefaultConfig returns the stock framing used by every room.
func DefaultConfig() Config {
	return Config{
		Distance:    7,
		StartYaw:    mgl32.DegToRad(45),
		StartPitch:  0,
		MinYaw:      0,
		MaxYaw:      mgl32.DegToRad(90),
		MinPitch:    mgl32.DegToRad(-10),
		MaxPitch:    mgl32.DegToRad(10),
		Pivot:       mgl32.Vec3{0, 5, 0},
		MinY:        -10,
		MaxY:        5,
		Smoothness:  0.1,
		RotateSpeed: 0.003,
		ScrollSpeed: 0.003,
		KeySpeed:    0.15,
		Near:        0.1,
		Far:         100,
		Responsive: Responsive{
			Breakpoint:      768,
			FovDesktop:      20,
			FovMobile:       55,
			DistanceDesktop: 7,
			DistanceMobile:  11,
		},
		Touch: TouchConfig{
			Enabled:     true,
			PinchSpeed:  0.015,
			MinDistance: 4,
			MaxDistance: 30,
		},
	}
}

// Pose is a snapshot of the orbit state.
type Pose struct {
	Yaw      float32
	Pitch    float32
	Distance float32
	PivotY   float32
	TargetY  float32
}

// OrbitCamera orbits a pivot point on a sphere. Yaw and pitch are clamped to
// a window so the room is always seen from the front; the pivot height eases
// toward a target set by scroll and arrow keys.
type OrbitCamera struct {
	cfg Config

	yaw      float32
	pitch    float32
	distance float32
	pivot    mgl32.Vec3
	targetY  float32

	position mgl32.Vec3
	view     mgl32.Mat4

	fov        float32
	aspect     float32
	mobile     bool
	projection mgl32.Mat4
}

// New creates an orbit camera. Start values are clamped into their ranges.
// Call ApplyResponsive before the first frame to set the lens.
func New(cfg Config) *OrbitCamera {
	c := &OrbitCamera{
		cfg:      cfg,
		yaw:      mgl32.Clamp(cfg.StartYaw, cfg.MinYaw, cfg.MaxYaw),
		pitch:    mgl32.Clamp(cfg.StartPitch, cfg.MinPitch, cfg.MaxPitch),
		distance: cfg.Distance,
		pivot:    cfg.Pivot,
		targetY:  cfg.Pivot.Y(),
		fov:      cfg.Responsive.FovDesktop,
		aspect:   1,
	}
	c.updateProjection()
	c.updatePosition()
	return c
}

// Config returns the tuning the camera was built with.
func (c *OrbitCamera) Config() Config {
	return c.cfg
}

// Rotate moves yaw and pitch by the given deltas scaled by RotateSpeed and
// clamps each axis to its range.
func (c *OrbitCamera) Rotate(dYaw, dPitch float32) {
	c.yaw = mgl32.Clamp(c.yaw+dYaw*c.cfg.RotateSpeed, c.cfg.MinYaw, c.cfg.MaxYaw)
	c.pitch = mgl32.Clamp(c.pitch+dPitch*c.cfg.RotateSpeed, c.cfg.MinPitch, c.cfg.MaxPitch)
	c.updatePosition()
}

// Zoom moves the orbit distance by dDistance scaled by the pinch speed and
// clamps it to the touch distance range.
func (c *OrbitCamera) Zoom(dDistance float32) {
	t := c.cfg.Touch
	c.distance = mgl32.Clamp(c.distance+dDistance*t.PinchSpeed, t.MinDistance, t.MaxDistance)
	c.updatePosition()
}

// SetPivotTarget stores the pivot height to ease toward, clamped to [MinY, MaxY].
func (c *OrbitCamera) SetPivotTarget(y float32) {
	c.targetY = mgl32.Clamp(y, c.cfg.MinY, c.cfg.MaxY)
}

// Scroll lowers the pivot target by a wheel delta (positive = scroll down).
func (c *OrbitCamera) Scroll(deltaY float32) {
	c.SetPivotTarget(c.targetY - deltaY*c.cfg.ScrollSpeed)
}

// Step moves the pivot target one key step up (dir > 0) or down (dir < 0).
func (c *OrbitCamera) Step(dir int) {
	switch {
	case dir > 0:
		c.SetPivotTarget(c.targetY + c.cfg.KeySpeed)
	case dir < 0:
		c.SetPivotTarget(c.targetY - c.cfg.KeySpeed)
	}
}

// Tick eases the pivot height toward its target and recomputes the pose.
// The lerp is per frame, not per second.
func (c *OrbitCamera) Tick() {
	y := c.pivot.Y()
	c.pivot[1] = y + (c.targetY-y)*c.cfg.Smoothness
	c.updatePosition()
}

// ApplyResponsive picks the mobile or desktop lens and distance for the
// viewport and rebuilds the projection. Repeated calls with the same size
// give the same result.
func (c *OrbitCamera) ApplyResponsive(width, height int) {
	fov, dist, mobile := c.cfg.Responsive.Select(width)
	c.fov = fov
	c.mobile = mobile
	if width > 0 && height > 0 {
		c.aspect = float32(width) / float32(height)
	}
	c.updateProjection()

	c.distance = dist
	c.updatePosition()
}

func (c *OrbitCamera) updatePosition() {
	cp := float32(gomath.Cos(float64(c.pitch)))
	sp := float32(gomath.Sin(float64(c.pitch)))
	cy := float32(gomath.Cos(float64(c.yaw)))
	sy := float32(gomath.Sin(float64(c.yaw)))

	c.position = mgl32.Vec3{
		c.pivot.X() + c.distance*cp*sy,
		c.pivot.Y() + c.distance*sp,
		c.pivot.Z() + c.distance*cp*cy,
	}
	c.view = mgl32.LookAtV(c.position, c.pivot, mgl32.Vec3{0, 1, 0})
}

func (c *OrbitCamera) updateProjection() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect, c.cfg.Near, c.cfg.Far)
}

// Pose returns the current orbit state.
func (c *OrbitCamera) Pose() Pose {
	return Pose{
		Yaw:      c.yaw,
		Pitch:    c.pitch,
		Distance: c.distance,
		PivotY:   c.pivot.Y(),
		TargetY:  c.targetY,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 { return c.position }

// Pivot returns the current look-at point.
func (c *OrbitCamera) Pivot() mgl32.Vec3 { return c.pivot }

// ViewMatrix returns the view matrix for the current pose.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 { return c.view }

// ProjectionMatrix returns the projection built by the last ApplyResponsive.
func (c *OrbitCamera) ProjectionMatrix() mgl32.Mat4 { return c.projection }

// Fov returns the vertical field of view in degrees.
func (c *OrbitCamera) Fov() float32 { return c.fov }

// Aspect returns the projection aspect ratio.
func (c *OrbitCamera) Aspect() float32 { return c.aspect }

// Mobile reports whether the mobile lens is active.
func (c *OrbitCamera) Mobile() bool { return c.mobile }
