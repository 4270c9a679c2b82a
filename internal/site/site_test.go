package site

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/roomfolio/internal/config"
	"github.com/Faultbox/roomfolio/internal/logger"
)

func TestResolve(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		href  string
		dest  Destination
		route string
	}{
		{"", Reload, ""},
		{"   ", Reload, ""},
		{"https://github.com/shreya6064/b42d", External, ""},
		{"http://example.com", External, ""},
		{"mailto:someone@example.com", External, ""},
		{"./projects.html", Page, "./projects.html"},
		{"projects.html", Page, "./projects.html"},
		{"/art.html", Page, "./art.html"},
		{"./about.html", Unknown, ""},
		{"./nowhere", Unknown, ""},
	}
	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			dest, p := Resolve(cfg, tt.href)
			assert.Equal(t, tt.dest, dest, dest.String())
			assert.Equal(t, tt.route, p.Route)
		})
	}
}

type navHarness struct {
	app    *App
	urls   []string
	opened []string
	logs   *observer.ObservedLogs
}

func newNavHarness(t *testing.T) *navHarness {
	core, logs := observer.New(zapcore.DebugLevel)
	logger.Use(zap.New(core))
	t.Cleanup(func() { logger.Use(nil) })

	h := &navHarness{logs: logs}
	h.app = &App{
		cfg: config.Default(),
		log: logger.Named("site"),
		openURL: func(url string) error {
			h.urls = append(h.urls, url)
			return nil
		},
		openPage: func(p config.PageConfig) error {
			h.opened = append(h.opened, p.Route)
			return nil
		},
	}
	return h
}

func TestNavigatePages(t *testing.T) {
	h := newNavHarness(t)

	h.app.Navigate("./index.html")
	h.app.Navigate("projects.html")
	assert.Equal(t, []string{"./index.html", "./projects.html"}, h.opened)
	assert.Equal(t, "./projects.html", h.app.Route())

	// empty href reloads the current page
	h.app.Navigate("")
	assert.Equal(t, "./projects.html", h.opened[2])
	assert.Empty(t, h.urls)
}

func TestNavigateExternal(t *testing.T) {
	h := newNavHarness(t)
	h.app.Navigate("./index.html")

	h.app.Navigate("https://devpost.com/software/swift-step")
	assert.Equal(t, []string{"https://devpost.com/software/swift-step"}, h.urls)
	assert.Equal(t, "./index.html", h.app.Route(), "external links keep the page")
	assert.Len(t, h.opened, 1)
}

func TestNavigateUnknownRoute(t *testing.T) {
	h := newNavHarness(t)
	h.app.Navigate("./about.html")

	assert.Empty(t, h.opened)
	assert.Empty(t, h.app.Route())
	entries := h.logs.FilterMessage("unknown route").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "./about.html", entries[0].ContextMap()["href"])
}

func TestNavigateReloadBeforeAnyPage(t *testing.T) {
	h := newNavHarness(t)
	h.app.Navigate("")
	assert.Empty(t, h.opened)
}

func TestNavigateFailures(t *testing.T) {
	h := newNavHarness(t)
	h.app.openURL = func(string) error { return errors.New("no browser") }
	h.app.openPage = func(config.PageConfig) error { return errors.New("boom") }

	h.app.Navigate("https://example.com")
	h.app.Navigate("./art.html")

	assert.Empty(t, h.app.Route(), "a failed page open keeps the old route")
	assert.Len(t, h.logs.FilterMessage("failed to open link").All(), 1)
	assert.Len(t, h.logs.FilterMessage("failed to open page").All(), 1)
}
