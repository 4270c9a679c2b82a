// Package site runs the portfolio: one window, one page session at a time,
// and navigation between pages.
package site

import (
	"fmt"
	"time"

	"github.com/pkg/browser"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/roomfolio/internal/assets"
	"github.com/Faultbox/roomfolio/internal/config"
	"github.com/Faultbox/roomfolio/internal/engine/audio"
	"github.com/Faultbox/roomfolio/internal/engine/input"
	"github.com/Faultbox/roomfolio/internal/engine/renderer"
	"github.com/Faultbox/roomfolio/internal/engine/ui2d"
	"github.com/Faultbox/roomfolio/internal/engine/window"
	"github.com/Faultbox/roomfolio/internal/logger"
	"github.com/Faultbox/roomfolio/internal/site/page"
	"github.com/Faultbox/roomfolio/internal/site/states"
)

// App is the running site.
type App struct {
	cfg *config.Config
	log *zap.Logger

	window  *window.Window
	scene   *renderer.Renderer
	ui      *ui2d.Renderer
	overlay *ui2d.Overlay
	input   *input.Input
	events  input.Dispatcher

	audio  *audio.Manager
	cache  *assets.Cache
	states *states.Manager

	route   string
	running bool

	// openURL opens external links.
	openURL func(url string) error
	// openPage starts a session for a page; replaced in tests.
	openPage func(p config.PageConfig) error
}

// New creates the window and renderers and schedules the start page.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:     cfg,
		log:     logger.Named("site"),
		cache:   assets.NewCache(),
		states:  states.NewManager(),
		openURL: browser.OpenURL,
	}
	a.openPage = a.startSession

	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// OpenGL context must exist before the renderers
	fw, fh := a.window.DrawableSize()
	a.scene, err = renderer.New(renderer.Config{Width: fw, Height: fh})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	w, h := a.window.GetSize()
	a.ui, err = ui2d.New(w, h)
	if err != nil {
		a.scene.Close()
		a.window.Close()
		return nil, fmt.Errorf("failed to create ui renderer: %w", err)
	}

	a.input = input.New(w, h, cfg.Input.ClickSlop)

	if cfg.Audio.Enabled {
		a.audio = audio.New()
		if err := a.audio.Init(); err != nil {
			a.log.Warn("audio unavailable, videos play silently", zap.Error(err))
		} else {
			a.audio.SetMasterVolume(cfg.Audio.MasterVolume)
		}
	}

	a.Navigate(cfg.Site.StartPage)
	return a, nil
}

// Navigate follows a link. Absolute URLs open in the system browser, the
// empty href reloads the current page, and relative hrefs switch to the
// matching page. The switch happens on the next frame.
func (a *App) Navigate(href string) {
	dest, p := Resolve(a.cfg, href)
	switch dest {
	case External:
		a.log.Info("opening external link", zap.String("href", href))
		if err := a.openURL(href); err != nil {
			a.log.Warn("failed to open link", zap.String("href", href), zap.Error(err))
		}
	case Reload:
		if cur, ok := a.cfg.Page(a.route); ok {
			a.open(cur)
		}
	case Page:
		a.open(p)
	default:
		a.log.Warn("unknown route", zap.String("href", href))
	}
}

func (a *App) open(p config.PageConfig) {
	if err := a.openPage(p); err != nil {
		a.log.Error("failed to open page", zap.String("route", p.Route), zap.Error(err))
		return
	}
	a.route = p.Route
}

func (a *App) startSession(p config.PageConfig) error {
	overlay := ui2d.NewOverlay(a.cfg.Overlay.Fade)
	s, err := page.New(page.Deps{
		Config:   a.cfg,
		Surface:  a.window,
		Events:   &a.events,
		Overlay:  overlay,
		Renderer: a.scene,
		Cache:    a.cache,
		Audio:    a.audio,
		Navigate: a.Navigate,
	}, p)
	if err != nil {
		return err
	}
	a.overlay = overlay
	a.states.Change(s)

	title := a.cfg.Window.Title
	if p.Title != "" {
		title = p.Title + " | " + title
	}
	a.window.SetTitle(title)
	return nil
}

// Route returns the route of the current page.
func (a *App) Route() string {
	return a.route
}

// Run runs the frame loop until the window closes or Escape is pressed.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting frame loop")

	for a.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if a.input.Update() {
			break
		}
		for _, event := range a.input.Events() {
			switch event.Type {
			case input.EventWindowResize:
				a.resize(event.Width, event.Height)
			case input.EventKeyDown:
				if event.Key == sdl.SCANCODE_ESCAPE {
					a.running = false
				}
			}
			a.events.Dispatch(event)
		}

		if err := a.states.Update(dt); err != nil {
			return fmt.Errorf("update error: %w", err)
		}

		a.scene.Begin()
		if err := a.states.Render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		if a.overlay != nil {
			a.ui.Begin()
			a.overlay.Draw(a.ui)
			a.ui.End()
			if a.overlay.Removed() {
				a.overlay = nil
			}
		}

		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount), zap.Float64("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

func (a *App) resize(width, height int) {
	a.input.SetSize(width, height)
	a.ui.Resize(width, height)
	fw, fh := a.window.DrawableSize()
	a.scene.Resize(fw, fh)
}

// Close tears down the current page and releases the window.
func (a *App) Close() {
	a.log.Info("closing site")

	if err := a.states.Close(); err != nil {
		a.log.Warn("failed to leave page", zap.Error(err))
	}
	if a.audio != nil {
		a.audio.Close()
	}
	if a.ui != nil {
		a.ui.Close()
	}
	if a.scene != nil {
		a.scene.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
