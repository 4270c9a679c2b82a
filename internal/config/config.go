// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Logging LoggingConfig `yaml:"logging"`
	Assets  AssetsConfig  `yaml:"assets"`
	Input   InputConfig   `yaml:"input"`
	Audio   AudioConfig   `yaml:"audio"`
	Camera  CameraConfig  `yaml:"camera"`
	Overlay OverlayConfig `yaml:"overlay"`
	Site    SiteConfig    `yaml:"site"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// AssetsConfig holds asset source settings.
type AssetsConfig struct {
	// Root is a directory or an http(s) base URL that relative asset paths resolve against.
	Root string `yaml:"root"`
}

// InputConfig holds pointer handling settings.
type InputConfig struct {
	// ClickSlop is the max pointer travel in pixels between press and release
	// for the release to count as a click.
	ClickSlop float32 `yaml:"click_slop"`
}

// AudioConfig holds audio settings for video soundtracks.
type AudioConfig struct {
	Enabled      bool    `yaml:"enabled"`
	MasterVolume float64 `yaml:"master_volume"`
}

// CameraConfig holds orbit camera tuning. Angles are in degrees.
type CameraConfig struct {
	Distance      float32 `yaml:"distance"`
	StartYawDeg   float32 `yaml:"start_yaw"`
	StartPitchDeg float32 `yaml:"start_pitch"`
	MinYawDeg     float32 `yaml:"min_yaw"`
	MaxYawDeg     float32 `yaml:"max_yaw"`
	MinPitchDeg   float32 `yaml:"min_pitch"`
	MaxPitchDeg   float32 `yaml:"max_pitch"`
	PivotY        float32 `yaml:"pivot_y"`
	MinY          float32 `yaml:"min_y"`
	MaxY          float32 `yaml:"max_y"`
	Smoothness    float32 `yaml:"smoothness"`
	RotateSpeed   float32 `yaml:"rotate_speed"`
	ScrollSpeed   float32 `yaml:"scroll_speed"`
	KeySpeed      float32 `yaml:"key_speed"`

	Responsive ResponsiveConfig `yaml:"responsive"`
	Touch      TouchConfig      `yaml:"touch"`
}

// ResponsiveConfig holds the viewport breakpoint policy.
type ResponsiveConfig struct {
	Breakpoint      int     `yaml:"breakpoint"`
	FovDesktop      float32 `yaml:"fov_desktop"`
	FovMobile       float32 `yaml:"fov_mobile"`
	DistanceDesktop float32 `yaml:"distance_desktop"`
	DistanceMobile  float32 `yaml:"distance_mobile"`
}

// TouchConfig holds touch gesture tuning.
type TouchConfig struct {
	Enabled     bool    `yaml:"enabled"`
	PinchSpeed  float32 `yaml:"pinch_speed"`
	MinDistance float32 `yaml:"min_distance"`
	MaxDistance float32 `yaml:"max_distance"`
}

// OverlayConfig holds loading overlay text and timing.
type OverlayConfig struct {
	InitialLabel   string        `yaml:"initial_label"`
	FinishingLabel string        `yaml:"finishing_label"`
	ReadyLabel     string        `yaml:"ready_label"`
	Fade           time.Duration `yaml:"fade"`
}

// SiteConfig holds the set of pages that can be visited.
type SiteConfig struct {
	StartPage string       `yaml:"start_page"`
	Pages     []PageConfig `yaml:"pages"`
}

// PageConfig describes one room of the portfolio.
type PageConfig struct {
	Route       string `yaml:"route"`
	Title       string `yaml:"title"`
	Scene       string `yaml:"scene"`
	Environment string `yaml:"environment"`

	Camera CameraOverrides `yaml:"camera"`

	Links       map[string]string `yaml:"links"`
	HoverCursor bool              `yaml:"hover_cursor"`

	Screens       map[string]string        `yaml:"screens"`
	ScreenOptions map[string]ScreenOptions `yaml:"screen_options"`
	ToggleOnClick bool                     `yaml:"toggle_on_click"`
}

// CameraOverrides are per-page camera settings layered over CameraConfig.
type CameraOverrides struct {
	MinY     *float32 `yaml:"min_y"`
	MaxY     *float32 `yaml:"max_y"`
	PivotY   *float32 `yaml:"pivot_y"`
	Distance *float32 `yaml:"distance"`
}

// ScreenOptions are per-screen playback overrides. Nil fields keep the default.
type ScreenOptions struct {
	Loop        *bool   `yaml:"loop"`
	Muted       *bool   `yaml:"muted"`
	PlaysInline *bool   `yaml:"plays_inline"`
	Preload     *string `yaml:"preload"`
	CrossOrigin *string `yaml:"cross_origin"`
}

// Page returns the page with the given route.
func (c *Config) Page(route string) (PageConfig, bool) {
	for _, p := range c.Site.Pages {
		if p.Route == route {
			return p, true
		}
	}
	return PageConfig{}, false
}

// Validate checks the settings the viewer cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if len(c.Site.Pages) == 0 {
		errs = append(errs, errors.New("site has no pages"))
	}
	seen := make(map[string]bool, len(c.Site.Pages))
	for i, p := range c.Site.Pages {
		if p.Route == "" {
			errs = append(errs, fmt.Errorf("page %d: route is required", i))
		}
		if p.Scene == "" {
			errs = append(errs, fmt.Errorf("page %q: scene is required", p.Route))
		}
		if seen[p.Route] {
			errs = append(errs, fmt.Errorf("page %q: duplicate route", p.Route))
		}
		seen[p.Route] = true
	}
	if _, ok := c.Page(c.Site.StartPage); !ok && len(c.Site.Pages) > 0 {
		errs = append(errs, fmt.Errorf("start page %q is not a configured route", c.Site.StartPage))
	}
	return errors.Join(errs...)
}

// Default returns a Config with the stock portfolio pages.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Portfolio",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Assets: AssetsConfig{
			Root: "assets",
		},
		Input: InputConfig{
			ClickSlop: 6,
		},
		Audio: AudioConfig{
			Enabled:      true,
			MasterVolume: 0.8,
		},
		Camera: CameraConfig{
			Distance:      7,
			StartYawDeg:   45,
			StartPitchDeg: 0,
			MinYawDeg:     0,
			MaxYawDeg:     90,
			MinPitchDeg:   -10,
			MaxPitchDeg:   10,
			PivotY:        5,
			MinY:          -10,
			MaxY:          5,
			Smoothness:    0.1,
			RotateSpeed:   0.003,
			ScrollSpeed:   0.003,
			KeySpeed:      0.15,
			Responsive: ResponsiveConfig{
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
		},
		Overlay: OverlayConfig{
			InitialLabel:   "Loading 3D scene…",
			FinishingLabel: "Finishing up…",
			ReadyLabel:     "Ready!",
			Fade:           450 * time.Millisecond,
		},
		Site: SiteConfig{
			StartPage: "./index.html",
			Pages:     defaultPages(),
		},
	}
}

func navLinks() map[string]string {
	return map[string]string{
		"HomeButton":     "./index.html",
		"ProjectsButton": "./projects.html",
		"ShadersButton":  "./shaders.html",
		"ArtButton":      "./art.html",
		"AboutButton":    "./about.html",
		"ContactButton":  "./contact.html",
	}
}

func f32(v float32) *float32 { return &v }

func defaultPages() []PageConfig {
	projectLinks := navLinks()
	for name, href := range map[string]string{
		"door":               "https://shreya6064.github.io/virtual-campus-demo/",
		"bg_removal":         "https://github.com/shreya6064/remove-background",
		"b42d":               "https://github.com/shreya6064/b42d",
		"makespace":          "https://github.com/shreya6064/make-space",
		"globalbevel":        "https://github.com/shreya6064/global-bevel",
		"textnodes":          "",
		"originsetter":       "https://github.com/shreya6064/origin-setter",
		"devpost_swiftstep":  "https://devpost.com/software/swift-step",
		"devpost_halostream": "https://devpost.com/software/holostream",
	} {
		projectLinks[name] = href
	}

	muted := true
	loop := true
	screenOpts := ScreenOptions{Loop: &loop, Muted: &muted}

	return []PageConfig{
		{
			Route:       "./index.html",
			Title:       "Home",
			Scene:       "index.glb",
			Environment: "hdris/room.hdr",
			Links:       navLinks(),
			HoverCursor: true,
		},
		{
			Route:       "./projects.html",
			Title:       "Projects",
			Scene:       "projects.glb",
			Environment: "hdris/room.hdr",
			Camera:      CameraOverrides{MinY: f32(-6.5)},
			Links:       projectLinks,
			HoverCursor: true,
			Screens: map[string]string{
				"prativerse_TV": "videos/3d_virtual_campus_demo.mp4",
				"traffic_sim":   "videos/traffic_sim.mp4",
				"ufos":          "videos/ufos.mp4",
				"poster_maker":  "videos/poster_maker.mp4",
			},
			ScreenOptions: map[string]ScreenOptions{
				"prativerse_TV": screenOpts,
				"traffic_sim":   screenOpts,
				"ufos":          screenOpts,
				"poster_maker":  screenOpts,
			},
			ToggleOnClick: true,
		},
		{
			Route:       "./art.html",
			Title:       "Art",
			Scene:       "art.glb",
			Environment: "hdris/room.hdr",
			Camera:      CameraOverrides{MinY: f32(-11.2)},
			Links:       navLinks(),
			HoverCursor: true,
		},
		{
			Route:       "./shaders.html",
			Title:       "Shaders",
			Scene:       "shaders.glb",
			Environment: "hdris/room.hdr",
			Camera:      CameraOverrides{MinY: f32(-7.6)},
			Links:       navLinks(),
			HoverCursor: true,
		},
	}
}
