// Package page runs one room of the site: its scene, camera and interactive
// objects, from the first asset request to teardown.
package page

import (
	"bytes"
	"errors"
	"io/fs"
	"net/http"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/roomfolio/internal/assets"
	"github.com/Faultbox/roomfolio/internal/config"
	"github.com/Faultbox/roomfolio/internal/engine/audio"
	"github.com/Faultbox/roomfolio/internal/engine/camera"
	"github.com/Faultbox/roomfolio/internal/engine/gesture"
	"github.com/Faultbox/roomfolio/internal/engine/input"
	"github.com/Faultbox/roomfolio/internal/engine/model"
	"github.com/Faultbox/roomfolio/internal/engine/scene"
	"github.com/Faultbox/roomfolio/internal/engine/texture"
	"github.com/Faultbox/roomfolio/internal/engine/video"
	"github.com/Faultbox/roomfolio/internal/logger"
	"github.com/Faultbox/roomfolio/internal/site/links"
	"github.com/Faultbox/roomfolio/internal/site/loading"
	"github.com/Faultbox/roomfolio/internal/site/screens"
)

// Configuration errors.
var (
	ErrNoSurface  = errors.New("page: surface is required")
	ErrNoEvents   = errors.New("page: events are required")
	ErrNoOverlay  = errors.New("page: overlay is required")
	ErrNoRenderer = errors.New("page: renderer is required")
)

// Renderer draws the room.
type Renderer interface {
	Render(root *scene.Node, view, projection mgl32.Mat4)
	ReleaseScene(root *scene.Node)
	SetAmbient(c mgl32.Vec3)
}

// Events is the input stream of the window.
type Events interface {
	Subscribe(fn input.Handler) (unsubscribe func())
}

// Deps are the long-lived collaborators a session borrows from the app.
type Deps struct {
	Config   *config.Config
	Surface  links.Surface
	Events   Events
	Overlay  loading.Overlay
	Renderer Renderer

	// FS overrides the asset root directory.
	FS     fs.FS
	Client *http.Client
	Cache  *assets.Cache
	Audio  *audio.Manager

	// Navigate follows a link href.
	Navigate func(href string)
	// NewPlayer overrides the video player used for screens.
	NewPlayer screens.PlayerFactory
}

// Session is one visit to a page. It owns the camera, the active pointer
// set, the loading gate and the interactive objects, and releases them on
// Exit.
type Session struct {
	deps Deps
	page config.PageConfig
	log  *zap.Logger

	cam     *camera.OrbitCamera
	tracker *gesture.Tracker

	assets  *assets.Manager
	loader  *loading.Controller
	root    *scene.Node
	links   *links.Navigator
	screens *screens.Controller

	unsubscribe func()
	entered     bool
	exited      bool
}

// New creates a session for page. Nothing is loaded until Enter.
func New(deps Deps, page config.PageConfig) (*Session, error) {
	switch {
	case deps.Surface == nil:
		return nil, ErrNoSurface
	case deps.Events == nil:
		return nil, ErrNoEvents
	case deps.Overlay == nil:
		return nil, ErrNoOverlay
	case deps.Renderer == nil:
		return nil, ErrNoRenderer
	}
	if deps.Config == nil {
		deps.Config = config.Default()
	}

	cam := camera.New(CameraConfig(deps.Config.Camera, page.Camera))
	b := deps.Surface.Bounds()
	cam.ApplyResponsive(int(b.W), int(b.H))

	return &Session{
		deps:    deps,
		page:    page,
		log:     logger.Named("page").With(zap.String("route", page.Route)),
		cam:     cam,
		tracker: gesture.New(cam, cam.Config().Touch.Enabled),
	}, nil
}

// Enter starts loading the scene and environment and begins handling input.
func (s *Session) Enter() error {
	if s.entered {
		return nil
	}
	s.entered = true

	ov := s.deps.Config.Overlay
	loader, err := loading.New(loading.Config{
		Overlay:        s.deps.Overlay,
		InitialLabel:   ov.InitialLabel,
		FinishingLabel: ov.FinishingLabel,
		ReadyLabel:     ov.ReadyLabel,
		OnReady: func() {
			s.log.Info("page ready")
		},
	})
	if err != nil {
		return err
	}
	s.loader = loader

	s.assets = assets.NewManager(assets.Config{
		FS:     s.deps.FS,
		Root:   s.deps.Config.Assets.Root,
		Client: s.deps.Client,
		Cache:  s.deps.Cache,
	})
	s.loader.Attach(s.assets)

	s.unsubscribe = s.deps.Events.Subscribe(s.handle)

	s.log.Info("entering page", zap.String("scene", s.page.Scene))
	s.assets.Load(s.page.Scene, s.loader.OnGlbProgress, s.onScene, func(error) {
		// Already logged by the manager; an empty room beats a stuck overlay.
		s.loader.MarkPrimaryAssetDone()
	})
	if s.page.Environment != "" {
		s.assets.Load(s.page.Environment, nil, s.onEnvironment, nil)
	}
	return nil
}

// onScene builds the room from the decoded model. A scene that fails to
// decode leaves the room empty but still lifts the overlay.
func (s *Session) onScene(data []byte) {
	root, err := model.Decode(bytes.NewReader(data))
	if err != nil {
		s.log.Error("failed to decode scene", zap.String("scene", s.page.Scene), zap.Error(err))
		s.loader.MarkPrimaryAssetDone()
		return
	}
	s.root = root

	if len(s.page.Links) > 0 {
		nav, err := links.New(links.Config{
			Camera:      s.cam,
			Surface:     s.deps.Surface,
			Events:      s.deps.Events,
			Root:        root,
			LinksByName: s.page.Links,
			Open:        s.deps.Navigate,
			HoverCursor: s.page.HoverCursor,
		})
		if err != nil {
			s.log.Error("failed to set up links", zap.Error(err))
		}
		s.links = nav
	}

	if len(s.page.Screens) > 0 {
		ctrl, err := screens.New(screens.Config{
			Camera:        s.cam,
			Surface:       s.deps.Surface,
			Events:        s.deps.Events,
			Root:          root,
			ScreensByName: s.page.Screens,
			OptionsByName: screenOverrides(s.page.ScreenOptions),
			ToggleOnClick: s.page.ToggleOnClick,
			NewPlayer:     s.deps.NewPlayer,
			Audio:         s.deps.Audio,
		})
		if err != nil {
			s.log.Error("failed to set up screens", zap.Error(err))
		}
		s.screens = ctrl
	}

	s.loader.MarkPrimaryAssetDone()
}

func (s *Session) onEnvironment(data []byte) {
	img, err := texture.DecodeImage(s.page.Environment, data)
	if err != nil {
		s.log.Warn("failed to decode environment", zap.String("environment", s.page.Environment), zap.Error(err))
		return
	}
	s.deps.Renderer.SetAmbient(texture.AverageColor(img))
}

func (s *Session) handle(e input.Event) {
	switch e.Type {
	case input.EventWheel:
		s.cam.Scroll(e.DeltaY)
	case input.EventKeyDown:
		switch e.Key {
		case sdl.SCANCODE_UP:
			s.cam.Step(1)
		case sdl.SCANCODE_DOWN:
			s.cam.Step(-1)
		}
	case input.EventWindowResize:
		s.cam.ApplyResponsive(e.Width, e.Height)
	case input.EventFocusLost:
		s.tracker.Reset()
	case input.EventPointerDown:
		s.tracker.PointerDown(e.PointerID, e.X, e.Y)
	case input.EventPointerMove:
		s.tracker.PointerMove(e.PointerID, e.X, e.Y)
	case input.EventPointerUp:
		s.tracker.PointerUp(e.PointerID)
	case input.EventPointerCancel:
		s.tracker.PointerCancel(e.PointerID)
	case input.EventMouseDown:
		if e.Button == sdl.BUTTON_LEFT {
			s.tracker.MouseDown(e.X, e.Y)
		}
	case input.EventMouseMove:
		s.tracker.MouseMove(e.X, e.Y)
	case input.EventMouseUp:
		if e.Button == sdl.BUTTON_LEFT {
			s.tracker.MouseUp()
		}
	}
}

// Update runs finished asset callbacks, then eases the camera.
func (s *Session) Update(dt float64) error {
	if s.assets != nil {
		s.assets.Poll()
	}
	s.cam.Tick()
	return nil
}

// Render draws whatever part of the room has loaded.
func (s *Session) Render() error {
	if s.root != nil {
		s.deps.Renderer.Render(s.root, s.cam.ViewMatrix(), s.cam.ProjectionMatrix())
	}
	return nil
}

// Exit stops input handling, disposes the interactive objects and players,
// drops pending loads and frees the room's GPU resources. Calling it again
// does nothing.
func (s *Session) Exit() error {
	if s.exited {
		return nil
	}
	s.exited = true

	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	if s.links != nil {
		s.links.Dispose()
	}
	if s.screens != nil {
		s.screens.Dispose()
	}
	if s.assets != nil {
		s.assets.Close()
	}
	s.tracker.Reset()
	if s.root != nil {
		s.deps.Renderer.ReleaseScene(s.root)
	}
	s.log.Info("left page")
	return nil
}

// Page returns the page configuration.
func (s *Session) Page() config.PageConfig { return s.page }

// Camera returns the session camera.
func (s *Session) Camera() *camera.OrbitCamera { return s.cam }

// Tracker returns the gesture tracker.
func (s *Session) Tracker() *gesture.Tracker { return s.tracker }

// Loader returns the loading gate; nil before Enter.
func (s *Session) Loader() *loading.Controller { return s.loader }

// Root returns the loaded scene, nil until it has loaded.
func (s *Session) Root() *scene.Node { return s.root }

// Links returns the link navigator, nil if the page has none.
func (s *Session) Links() *links.Navigator { return s.links }

// Screens returns the video screens, nil if the page has none.
func (s *Session) Screens() *screens.Controller { return s.screens }

// Assets returns the session's asset manager; nil before Enter.
func (s *Session) Assets() *assets.Manager { return s.assets }

func screenOverrides(in map[string]config.ScreenOptions) map[string]video.Overrides {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]video.Overrides, len(in))
	for name, o := range in {
		v := video.Overrides{
			Loop:        o.Loop,
			Muted:       o.Muted,
			PlaysInline: o.PlaysInline,
			CrossOrigin: o.CrossOrigin,
		}
		if o.Preload != nil {
			p := video.Preload(*o.Preload)
			v.Preload = &p
		}
		out[name] = v
	}
	return out
}
