package page

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/roomfolio/internal/config"
	"github.com/Faultbox/roomfolio/internal/engine/input"
	"github.com/Faultbox/roomfolio/internal/engine/picking"
	"github.com/Faultbox/roomfolio/internal/engine/scene"
	"github.com/Faultbox/roomfolio/internal/engine/video"
	"github.com/Faultbox/roomfolio/internal/site/screens"
)

type fakeSurface struct{ pointer bool }

func (s *fakeSurface) Bounds() picking.Rect { return picking.Rect{W: 800, H: 600} }
func (s *fakeSurface) SetCursor(p bool)     { s.pointer = p }

type fakeOverlay struct {
	progress []float32
	label    string
	hidden   bool
}

func (o *fakeOverlay) SetProgress(p float32) { o.progress = append(o.progress, p) }
func (o *fakeOverlay) SetLabel(l string)     { o.label = l }
func (o *fakeOverlay) Hide()                 { o.hidden = true }

type fakeRenderer struct {
	rendered int
	released []*scene.Node
	ambient  mgl32.Vec3
}

func (r *fakeRenderer) Render(*scene.Node, mgl32.Mat4, mgl32.Mat4) { r.rendered++ }
func (r *fakeRenderer) ReleaseScene(root *scene.Node)              { r.released = append(r.released, root) }
func (r *fakeRenderer) SetAmbient(c mgl32.Vec3)                    { r.ambient = c }

type fakePlayer struct {
	preloaded bool
	closed    bool
	paused    bool
}

func (p *fakePlayer) Preload() error               { p.preloaded = true; return nil }
func (p *fakePlayer) Play() error                  { p.paused = false; return nil }
func (p *fakePlayer) Pause()                       { p.paused = true }
func (p *fakePlayer) Paused() bool                 { return p.paused }
func (p *fakePlayer) Frame() (*image.RGBA, uint64) { return nil, 0 }
func (p *fakePlayer) Close() error                 { p.closed = true; return nil }

// roomGLB has a "ProjectsButton" quad at the camera pivot and a
// "traffic_sim" screen off to the side.
func roomGLB(t *testing.T) []byte {
	t.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3})
	doc.Meshes = []*gltf.Mesh{{Name: "Quad", Primitives: []*gltf.Primitive{{
		Indices:    gltf.Index(idx),
		Attributes: map[string]int{gltf.POSITION: pos},
	}}}}
	doc.Nodes = []*gltf.Node{
		{Name: "ProjectsButton", Mesh: gltf.Index(0), Translation: [3]float64{0, 5, 0}},
		{Name: "traffic_sim", Mesh: gltf.Index(0), Translation: [3]float64{-20, 0, 0}},
	}
	doc.Scenes[0].Nodes = []int{0, 1}

	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	require.NoError(t, enc.Encode(doc))
	return buf.Bytes()
}

func redPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type harness struct {
	deps     Deps
	events   *input.Dispatcher
	overlay  *fakeOverlay
	renderer *fakeRenderer
	players  []*fakePlayer
	opened   []string
}

func newHarness(t *testing.T, files fstest.MapFS) *harness {
	h := &harness{
		events:   &input.Dispatcher{},
		overlay:  &fakeOverlay{},
		renderer: &fakeRenderer{},
	}
	h.deps = Deps{
		Config:   config.Default(),
		Surface:  &fakeSurface{},
		Events:   h.events,
		Overlay:  h.overlay,
		Renderer: h.renderer,
		FS:       files,
		Navigate: func(href string) { h.opened = append(h.opened, href) },
		NewPlayer: func(string, video.Options) screens.Player {
			p := &fakePlayer{paused: true}
			h.players = append(h.players, p)
			return p
		},
	}
	return h
}

func projectsPage() config.PageConfig {
	return config.PageConfig{
		Route:       "./projects.html",
		Scene:       "room.glb",
		Environment: "env.png",
		Links:       map[string]string{"ProjectsButton": "./art.html", "Missing": "./x.html"},
		HoverCursor: true,
		Screens:     map[string]string{"traffic_sim": "videos/traffic_sim.mp4"},
	}
}

// load enters the session and runs every asset callback.
func load(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.Enter())
	s.Assets().Wait()
	require.NoError(t, s.Update(0.016))
}

func TestNewRequiresDeps(t *testing.T) {
	h := newHarness(t, nil)

	deps := h.deps
	deps.Surface = nil
	_, err := New(deps, projectsPage())
	assert.ErrorIs(t, err, ErrNoSurface)

	deps = h.deps
	deps.Events = nil
	_, err = New(deps, projectsPage())
	assert.ErrorIs(t, err, ErrNoEvents)

	deps = h.deps
	deps.Overlay = nil
	_, err = New(deps, projectsPage())
	assert.ErrorIs(t, err, ErrNoOverlay)

	deps = h.deps
	deps.Renderer = nil
	_, err = New(deps, projectsPage())
	assert.ErrorIs(t, err, ErrNoRenderer)

	assert.Zero(t, h.events.Len(), "no subscriptions before Enter")
}

func TestSessionLoadsRoom(t *testing.T) {
	h := newHarness(t, fstest.MapFS{
		"room.glb": {Data: roomGLB(t)},
		"env.png":  {Data: redPNG(t)},
	})
	s, err := New(h.deps, projectsPage())
	require.NoError(t, err)
	assert.Nil(t, s.Loader(), "nothing starts before Enter")

	load(t, s)
	require.NotEmpty(t, h.overlay.progress)
	assert.Equal(t, float32(0), h.overlay.progress[0])

	require.NotNil(t, s.Root())
	assert.True(t, s.Loader().Ready())
	assert.True(t, h.overlay.hidden)
	assert.Equal(t, "Ready!", h.overlay.label)
	assert.InDelta(t, 1, h.renderer.ambient.X(), 0.01)
	assert.InDelta(t, 0, h.renderer.ambient.Y(), 0.01)

	require.NotNil(t, s.Links())
	assert.Len(t, s.Links().Roots(), 1)

	require.NotNil(t, s.Screens())
	require.Len(t, h.players, 1)
	s.Screens().WaitPreload()
	assert.True(t, h.players[0].preloaded)

	require.NoError(t, s.Render())
	assert.Equal(t, 1, h.renderer.rendered)

	h.events.Dispatch(input.Event{Type: input.EventClick, X: 400, Y: 300})
	assert.Equal(t, []string{"./art.html"}, h.opened)
}

func TestSessionCameraInput(t *testing.T) {
	h := newHarness(t, fstest.MapFS{"room.glb": {Data: roomGLB(t)}})
	page := projectsPage()
	page.Environment = ""
	s, err := New(h.deps, page)
	require.NoError(t, err)
	load(t, s)

	cam := s.Camera()
	start := cam.Pose().TargetY

	h.events.Dispatch(input.Event{Type: input.EventWheel, DeltaY: 100})
	assert.InDelta(t, start-0.3, cam.Pose().TargetY, 1e-5)

	h.events.Dispatch(input.Event{Type: input.EventKeyDown, Key: sdl.SCANCODE_UP})
	assert.InDelta(t, start-0.15, cam.Pose().TargetY, 1e-5)

	h.events.Dispatch(input.Event{Type: input.EventKeyDown, Key: sdl.SCANCODE_DOWN})
	assert.InDelta(t, start-0.3, cam.Pose().TargetY, 1e-5)

	yaw := cam.Pose().Yaw
	h.events.Dispatch(input.Event{Type: input.EventMouseDown, Button: sdl.BUTTON_LEFT, X: 100, Y: 100})
	h.events.Dispatch(input.Event{Type: input.EventMouseMove, X: 90, Y: 100})
	h.events.Dispatch(input.Event{Type: input.EventMouseUp, Button: sdl.BUTTON_LEFT, X: 90, Y: 100})
	assert.NotEqual(t, yaw, cam.Pose().Yaw)

	h.events.Dispatch(input.Event{Type: input.EventPointerDown, PointerID: 1, X: 10, Y: 10})
	h.events.Dispatch(input.Event{Type: input.EventPointerDown, PointerID: 2, X: 50, Y: 10})
	assert.Equal(t, 2, s.Tracker().ActivePointers())
	h.events.Dispatch(input.Event{Type: input.EventFocusLost})
	assert.Zero(t, s.Tracker().ActivePointers())

	h.events.Dispatch(input.Event{Type: input.EventWindowResize, Width: 375, Height: 667})
	assert.True(t, cam.Mobile())
}

func TestSessionExit(t *testing.T) {
	h := newHarness(t, fstest.MapFS{
		"room.glb": {Data: roomGLB(t)},
		"env.png":  {Data: redPNG(t)},
	})
	s, err := New(h.deps, projectsPage())
	require.NoError(t, err)
	load(t, s)
	require.Positive(t, h.events.Len())

	require.NoError(t, s.Exit())
	assert.Zero(t, h.events.Len())
	assert.True(t, h.players[0].closed)
	assert.Equal(t, []*scene.Node{s.Root()}, h.renderer.released)

	require.NoError(t, s.Exit())
	assert.Len(t, h.renderer.released, 1)

	h.events.Dispatch(input.Event{Type: input.EventClick, X: 400, Y: 300})
	assert.Empty(t, h.opened)
}

func TestSessionMissingSceneStillReady(t *testing.T) {
	h := newHarness(t, fstest.MapFS{"env.png": {Data: redPNG(t)}})
	s, err := New(h.deps, projectsPage())
	require.NoError(t, err)
	load(t, s)

	assert.Nil(t, s.Root())
	assert.True(t, s.Loader().Ready())
	assert.Nil(t, s.Links())

	require.NoError(t, s.Render())
	assert.Zero(t, h.renderer.rendered)
}

func TestSessionUndecodableScene(t *testing.T) {
	h := newHarness(t, fstest.MapFS{"room.glb": {Data: []byte("nope")}})
	page := projectsPage()
	page.Environment = ""
	s, err := New(h.deps, page)
	require.NoError(t, err)
	load(t, s)

	assert.Nil(t, s.Root())
	assert.True(t, s.Loader().Ready())
}

func TestCameraConfig(t *testing.T) {
	c := config.Default().Camera
	cfg := CameraConfig(c, config.CameraOverrides{})
	assert.InDelta(t, mgl32.DegToRad(45), cfg.StartYaw, 1e-6)
	assert.InDelta(t, mgl32.DegToRad(90), cfg.MaxYaw, 1e-6)
	assert.InDelta(t, mgl32.DegToRad(-10), cfg.MinPitch, 1e-6)
	assert.Equal(t, mgl32.Vec3{0, 5, 0}, cfg.Pivot)
	assert.Equal(t, float32(-10), cfg.MinY)
	assert.Equal(t, 768, cfg.Responsive.Breakpoint)
	assert.Equal(t, float32(30), cfg.Touch.MaxDistance)

	minY, dist, pivot := float32(-6.5), float32(9), float32(3)
	cfg = CameraConfig(c, config.CameraOverrides{MinY: &minY, Distance: &dist, PivotY: &pivot})
	assert.Equal(t, float32(-6.5), cfg.MinY)
	assert.Equal(t, float32(5), cfg.MaxY)
	assert.Equal(t, float32(9), cfg.Distance)
	assert.Equal(t, float32(9), cfg.Responsive.DistanceDesktop)
	assert.Equal(t, float32(11), cfg.Responsive.DistanceMobile)
	assert.Equal(t, float32(3), cfg.Pivot.Y())
}

func TestScreenOverrides(t *testing.T) {
	assert.Nil(t, screenOverrides(nil))

	muted, preload := true, "metadata"
	out := screenOverrides(map[string]config.ScreenOptions{
		"tv": {Muted: &muted, Preload: &preload},
	})
	opts := out["tv"].Merge(video.DefaultOptions())
	assert.True(t, opts.Muted)
	assert.True(t, opts.Loop)
	assert.Equal(t, video.PreloadMetadata, opts.Preload)
}
