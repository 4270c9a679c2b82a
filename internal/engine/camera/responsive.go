package camera

// Responsive selects lens and orbit distance from the viewport width.
type Responsive struct {
	Breakpoint      int
	FovDesktop      float32
	FovMobile       float32
	DistanceDesktop float32
	DistanceMobile  float32
}

// Select returns the field of view (degrees) and distance for a viewport
// width. Widths strictly below the breakpoint are mobile.
func (r Responsive) Select(width int) (fov, distance float32, mobile bool) {
	if width < r.Breakpoint {
		return r.FovMobile, r.DistanceMobile, true
	}
	return r.FovDesktop, r.DistanceDesktop, false
}
