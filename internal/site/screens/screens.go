// Package screens turns named scene objects into clickable video screens.
package screens

import (
	"errors"
	"image"
	"slices"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/roomfolio/internal/engine/audio"
	"github.com/Faultbox/roomfolio/internal/engine/input"
	"github.com/Faultbox/roomfolio/internal/engine/picking"
	"github.com/Faultbox/roomfolio/internal/engine/scene"
	"github.com/Faultbox/roomfolio/internal/engine/video"
	"github.com/Faultbox/roomfolio/internal/logger"
)

// Configuration errors.
var (
	ErrNoCamera  = errors.New("screens: camera is required")
	ErrNoSurface = errors.New("screens: surface is required")
	ErrNoRoot    = errors.New("screens: scene root is required")
	ErrNoScreens = errors.New("screens: screens by name are required")
)

// Player is a video a screen shows.
type Player interface {
	Preload() error
	Play() error
	Pause()
	Paused() bool
	Frame() (*image.RGBA, uint64)
	Close() error
}

// PlayerFactory creates the player for one screen.
type PlayerFactory func(src string, opts video.Options) Player

// Events delivers input events to subscribers.
type Events interface {
	Subscribe(fn input.Handler) (unsubscribe func())
}

// Config configures a Controller.
type Config struct {
	Camera  picking.Camera
	Surface picking.Surface
	// Events is optional; without it Click is driven by the caller.
	Events        Events
	Root          *scene.Node
	ScreensByName map[string]string
	OptionsByName map[string]video.Overrides
	// Defaults replaces video.DefaultOptions when set.
	Defaults      *video.Options
	ToggleOnClick bool
	// NewPlayer defaults to a decoder-backed player mixed through Audio.
	NewPlayer PlayerFactory
	Audio     *audio.Manager
}

// Screen is one registered video surface.
type Screen struct {
	Name      string
	Source    string
	Node      *scene.Node
	Options   video.Options
	Player    Player
	Texture   *scene.Texture
	Materials []*scene.Material
}

// Controller owns the screens of one room.
type Controller struct {
	cfg     Config
	log     *zap.Logger
	screens []*Screen

	// preloading tracks Preload calls still running off the frame thread.
	preloading sync.WaitGroup

	unsubscribe func()
	disposed    bool
}

// New builds a screen for every configured name found under the root.
// Names that are not found are logged and skipped.
func New(cfg Config) (*Controller, error) {
	switch {
	case cfg.Camera == nil:
		return nil, ErrNoCamera
	case cfg.Surface == nil:
		return nil, ErrNoSurface
	case cfg.Root == nil:
		return nil, ErrNoRoot
	case cfg.ScreensByName == nil:
		return nil, ErrNoScreens
	}
	if cfg.NewPlayer == nil {
		mixer := cfg.Audio
		cfg.NewPlayer = func(src string, opts video.Options) Player {
			return video.NewPlayer(src, opts, mixer)
		}
	}
	defaults := video.DefaultOptions()
	if cfg.Defaults != nil {
		defaults = *cfg.Defaults
	}

	c := &Controller{cfg: cfg, log: logger.Named("screens")}

	names := make([]string, 0, len(cfg.ScreensByName))
	for name := range cfg.ScreensByName {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		node := cfg.Root.FindByName(name)
		if node == nil {
			c.log.Warn("mesh not found", zap.String("name", name))
			continue
		}
		src := cfg.ScreensByName[name]
		opts := cfg.OptionsByName[name].Merge(defaults)
		c.screens = append(c.screens, c.attach(name, node, src, opts))
	}

	if cfg.Events != nil {
		c.unsubscribe = cfg.Events.Subscribe(c.handle)
	}
	return c, nil
}

// attach gives node a self-lit material showing the video. A node without a
// mesh gets the material on each of its mesh descendants.
func (c *Controller) attach(name string, node *scene.Node, src string, opts video.Options) *Screen {
	player := c.cfg.NewPlayer(src, opts)
	c.preloading.Add(1)
	go func() {
		defer c.preloading.Done()
		if err := player.Preload(); err != nil {
			c.log.Warn("preload failed", zap.String("name", name), zap.String("src", src), zap.Error(err))
		}
	}()
	tex := scene.NewSourceTexture(src, player)

	s := &Screen{Name: name, Source: src, Node: node, Options: opts, Player: player, Texture: tex}

	targets := []*scene.Node{node}
	if node.Mesh == nil {
		targets = node.Meshes()
	}
	for _, n := range targets {
		var m *scene.Material
		if n.Material != nil {
			m = n.Material.Clone()
		} else {
			m = scene.NewStandardMaterial()
		}
		m.Map = tex
		m.Emissive = mgl32.Vec3{1, 1, 1}
		m.EmissiveIntensity = 1
		m.EmissiveMap = tex
		m.NeedsUpdate = true
		n.Material = m
		s.Materials = append(s.Materials, m)
	}
	return s
}

func (c *Controller) handle(e input.Event) {
	if e.Type == input.EventClick {
		c.Click(e.X, e.Y)
	}
}

// Screens returns the registered screens, ordered by name.
func (c *Controller) Screens() []*Screen {
	return c.screens
}

// Screen returns the screen registered under name.
func (c *Controller) Screen(name string) *Screen {
	for _, s := range c.screens {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Resolve returns the screen under a client pixel.
func (c *Controller) Resolve(x, y float32) *Screen {
	if c.disposed || len(c.screens) == 0 {
		return nil
	}
	roots := make([]*scene.Node, len(c.screens))
	for i, s := range c.screens {
		roots[i] = s.Node
	}
	hit := picking.Resolve(x, y, c.cfg.Surface, c.cfg.Camera, roots)
	if hit == nil {
		return nil
	}
	for _, s := range c.screens {
		if s.Node == hit {
			return s
		}
	}
	return nil
}

// Click toggles the video under a client pixel between playing and paused.
// A rejected play is logged and the video stays paused.
func (c *Controller) Click(x, y float32) bool {
	if !c.cfg.ToggleOnClick {
		return false
	}
	s := c.Resolve(x, y)
	if s == nil {
		return false
	}
	c.Toggle(s)
	return true
}

// Toggle plays a paused screen and pauses a playing one.
func (c *Controller) Toggle(s *Screen) {
	if !s.Player.Paused() {
		s.Player.Pause()
		return
	}
	if err := s.Player.Play(); err != nil {
		c.log.Warn("play blocked", zap.String("name", s.Name), zap.Error(err))
	}
}

// WaitPreload blocks until every screen has finished preloading.
func (c *Controller) WaitPreload() {
	c.preloading.Wait()
}

// Dispose pauses every video, releases textures and materials, and stops
// listening for clicks. Safe to call more than once.
func (c *Controller) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.preloading.Wait()
	for _, s := range c.screens {
		s.Player.Pause()
		s.Texture.Dispose()
		for _, m := range s.Materials {
			m.Dispose()
		}
		if err := s.Player.Close(); err != nil {
			c.log.Warn("close player", zap.String("name", s.Name), zap.Error(err))
		}
	}
	c.screens = nil
}
