package picking

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/roomfolio/internal/engine/scene"
)

// Surface is the render surface a pointer is measured against.
type Surface interface {
	Bounds() Rect
}

// Camera supplies the matrices a pick ray is unprojected with.
type Camera interface {
	ViewMatrix() mgl32.Mat4
	ProjectionMatrix() mgl32.Mat4
}

// Hit is a single ray intersection.
type Hit struct {
	Distance float32
	Point    mgl32.Vec3
	Node     *scene.Node
}

// Raycaster intersects a ray with scene geometry.
type Raycaster struct {
	Ray Ray
}

// SetFromCamera aims the ray from cam through an NDC point.
func (rc *Raycaster) SetFromCamera(ndc mgl32.Vec2, cam Camera) {
	vp := cam.ProjectionMatrix().Mul4(cam.ViewMatrix())
	rc.Ray = ScreenToRay(ndc, vp.Inv())
}

// IntersectObjects returns every mesh hit under roots, nearest first.
// With recursive set the whole descendant hierarchy is tested.
func (rc *Raycaster) IntersectObjects(roots []*scene.Node, recursive bool) []Hit {
	var hits []Hit
	for _, root := range roots {
		if root == nil {
			continue
		}
		if !recursive {
			hits = rc.intersectNode(root, hits)
			continue
		}
		root.Traverse(func(n *scene.Node) {
			hits = rc.intersectNode(n, hits)
		})
	}
	slices.SortStableFunc(hits, func(a, b Hit) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})
	return hits
}

// intersectNode appends the nearest hit on n's mesh, if any.
func (rc *Raycaster) intersectNode(n *scene.Node, hits []Hit) []Hit {
	m := n.Mesh
	if m == nil || m.TriangleCount() == 0 {
		return hits
	}
	world := n.WorldMatrix()

	// Broad phase
	if _, ok := rc.Ray.IntersectAABB(TransformAABB(AABB{Min: m.Min, Max: m.Max}, world)); !ok {
		return hits
	}

	best := Hit{Distance: -1}
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		a = mgl32.TransformCoordinate(a, world)
		b = mgl32.TransformCoordinate(b, world)
		c = mgl32.TransformCoordinate(c, world)
		t, ok := rc.Ray.IntersectTriangle(a, b, c)
		if !ok {
			continue
		}
		if best.Distance < 0 || t < best.Distance {
			best = Hit{Distance: t, Point: rc.Ray.At(t), Node: n}
		}
	}
	if best.Distance < 0 {
		return hits
	}
	return append(hits, best)
}

// Resolve picks the registered root under a client pixel. The pointer is
// converted to NDC relative to the surface bounds, a ray is cast from cam, and
// the nearest hit is walked up its ancestry until a node in roots is found.
// Returns nil when nothing registered is hit.
func Resolve(x, y float32, surface Surface, cam Camera, roots []*scene.Node) *scene.Node {
	if surface == nil || cam == nil || len(roots) == 0 {
		return nil
	}
	var rc Raycaster
	rc.SetFromCamera(ClientToNDC(x, y, surface.Bounds()), cam)

	hits := rc.IntersectObjects(roots, true)
	if len(hits) == 0 {
		return nil
	}
	for n := hits[0].Node; n != nil; n = n.Parent {
		if slices.Contains(roots, n) {
			return n
		}
	}
	return nil
}
