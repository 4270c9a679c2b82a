// Package links turns named scene objects into clickable links.
package links

import (
	"errors"
	"slices"

	"github.com/pkg/browser"
	"go.uber.org/zap"

	"github.com/Faultbox/roomfolio/internal/engine/input"
	"github.com/Faultbox/roomfolio/internal/engine/picking"
	"github.com/Faultbox/roomfolio/internal/engine/scene"
	"github.com/Faultbox/roomfolio/internal/logger"
)

// Configuration errors.
var (
	ErrNoCamera  = errors.New("links: camera is required")
	ErrNoSurface = errors.New("links: surface is required")
	ErrNoRoot    = errors.New("links: scene root is required")
	ErrNoLinks   = errors.New("links: links by name are required")
)

// openURL hands an href to the system browser.
var openURL = browser.OpenURL

// Surface is the render surface: it measures pointers and shows the cursor.
type Surface interface {
	picking.Surface
	SetCursor(pointer bool)
}

// Events delivers input events to subscribers.
type Events interface {
	Subscribe(fn input.Handler) (unsubscribe func())
}

// Config configures a Navigator.
type Config struct {
	Camera  picking.Camera
	Surface Surface
	// Events is optional; without it Click and Hover are driven by the caller.
	Events      Events
	Root        *scene.Node
	LinksByName map[string]string
	// Open follows an href. Defaults to the system browser.
	Open        func(href string)
	HoverCursor bool
}

// Navigator resolves clicks on registered objects to their hrefs.
type Navigator struct {
	cfg   Config
	log   *zap.Logger
	roots []*scene.Node
	hrefs map[*scene.Node]string

	unsubscribe func()
	disposed    bool
}

// New looks up every configured name under the root. Names that are not
// found are logged and skipped.
func New(cfg Config) (*Navigator, error) {
	switch {
	case cfg.Camera == nil:
		return nil, ErrNoCamera
	case cfg.Surface == nil:
		return nil, ErrNoSurface
	case cfg.Root == nil:
		return nil, ErrNoRoot
	case cfg.LinksByName == nil:
		return nil, ErrNoLinks
	}

	n := &Navigator{
		cfg:   cfg,
		log:   logger.Named("links"),
		hrefs: make(map[*scene.Node]string, len(cfg.LinksByName)),
	}
	if n.cfg.Open == nil {
		n.cfg.Open = n.openInBrowser
	}

	names := make([]string, 0, len(cfg.LinksByName))
	for name := range cfg.LinksByName {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		obj := cfg.Root.FindByName(name)
		if obj == nil {
			n.log.Warn("object not found in scene", zap.String("name", name))
			continue
		}
		n.roots = append(n.roots, obj)
		n.hrefs[obj] = cfg.LinksByName[name]
	}

	if cfg.Events != nil {
		n.unsubscribe = cfg.Events.Subscribe(n.handle)
	}
	return n, nil
}

func (n *Navigator) handle(e input.Event) {
	switch e.Type {
	case input.EventClick:
		n.Click(e.X, e.Y)
	case input.EventMouseMove:
		if n.cfg.HoverCursor {
			n.Hover(e.X, e.Y)
		}
	}
}

// Resolve returns the href of the registered object under a client pixel.
func (n *Navigator) Resolve(x, y float32) (href string, obj *scene.Node, ok bool) {
	if n.disposed || len(n.roots) == 0 {
		return "", nil, false
	}
	obj = picking.Resolve(x, y, n.cfg.Surface, n.cfg.Camera, n.roots)
	if obj == nil {
		return "", nil, false
	}
	return n.hrefs[obj], obj, true
}

// Click follows the link under a client pixel. Reports whether one was hit.
func (n *Navigator) Click(x, y float32) bool {
	href, obj, ok := n.Resolve(x, y)
	if !ok {
		return false
	}
	n.log.Debug("link clicked", zap.String("name", obj.Name), zap.String("href", href))
	n.cfg.Open(href)
	return true
}

func (n *Navigator) openInBrowser(href string) {
	if err := openURL(href); err != nil {
		n.log.Warn("failed to open link", zap.String("href", href), zap.Error(err))
	}
}

// Hover shows the pointer cursor over a link and the default one elsewhere.
func (n *Navigator) Hover(x, y float32) {
	_, _, ok := n.Resolve(x, y)
	n.cfg.Surface.SetCursor(ok)
}

// Roots returns the registered objects, ordered by name.
func (n *Navigator) Roots() []*scene.Node {
	return n.roots
}

// Dispose stops listening and restores the default cursor. Safe to call
// more than once.
func (n *Navigator) Dispose() {
	if n.disposed {
		return
	}
	n.disposed = true
	if n.unsubscribe != nil {
		n.unsubscribe()
		n.unsubscribe = nil
	}
	n.cfg.Surface.SetCursor(false)
}
