// Package loading gates the reveal of a room on its assets finishing.
package loading

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/roomfolio/internal/assets"
	"github.com/Faultbox/roomfolio/internal/logger"
)

// Overlay is the progress display shown while a room loads.
type Overlay interface {
	// SetProgress shows p in [0,1]; values outside are clamped by the overlay.
	SetProgress(p float32)
	SetLabel(text string)
	// Hide fades the overlay out and removes it.
	Hide()
}

// Phase is the loading state. It only moves forward.
type Phase int

const (
	Loading Phase = iota
	Finishing
	Ready
)

func (p Phase) String() string {
	switch p {
	case Finishing:
		return "finishing"
	case Ready:
		return "ready"
	default:
		return "loading"
	}
}

// UnknownTotalProgress is shown while the primary asset size is unknown, so
// the bar does not look stuck.
const UnknownTotalProgress = 0.05

// Default labels.
const (
	DefaultInitialLabel   = "Loading 3D scene…"
	DefaultFinishingLabel = "Finishing up…"
	DefaultReadyLabel     = "Ready!"
)

// ErrNoOverlay is returned when a controller is built without an overlay.
var ErrNoOverlay = errors.New("loading: overlay is required")

// Config configures a Controller. Empty labels take the defaults.
type Config struct {
	Overlay        Overlay
	InitialLabel   string
	FinishingLabel string
	ReadyLabel     string
	// OnReady runs once when the room is ready.
	OnReady func()
}

// Controller joins two completions: the primary scene asset and the asset
// manager's batch. Ready fires exactly once, after both.
type Controller struct {
	cfg Config
	log *zap.Logger

	phase       Phase
	primaryDone bool
	managerDone bool
}

// New creates a controller and resets the overlay to the initial label at 0%.
func New(cfg Config) (*Controller, error) {
	if cfg.Overlay == nil {
		return nil, ErrNoOverlay
	}
	if cfg.InitialLabel == "" {
		cfg.InitialLabel = DefaultInitialLabel
	}
	if cfg.FinishingLabel == "" {
		cfg.FinishingLabel = DefaultFinishingLabel
	}
	if cfg.ReadyLabel == "" {
		cfg.ReadyLabel = DefaultReadyLabel
	}

	c := &Controller{cfg: cfg, log: logger.Named("loading")}
	cfg.Overlay.SetLabel(cfg.InitialLabel)
	cfg.Overlay.SetProgress(0)
	return c, nil
}

// Attach routes the manager's batch completion and errors into c.
func (c *Controller) Attach(m *assets.Manager) {
	m.OnLoad = c.ManagerDone
	m.OnError = c.OnError
}

// OnGlbProgress reports primary asset bytes. total <= 0 means unknown.
func (c *Controller) OnGlbProgress(loaded, total int64) {
	if c.phase != Loading || c.primaryDone {
		return
	}
	if total > 0 {
		c.cfg.Overlay.SetProgress(float32(float64(loaded) / float64(total)))
		return
	}
	c.cfg.Overlay.SetProgress(UnknownTotalProgress)
}

// MarkPrimaryAssetDone records that the scene asset is in place.
func (c *Controller) MarkPrimaryAssetDone() {
	if c.primaryDone {
		return
	}
	c.primaryDone = true
	c.phase = Finishing
	c.cfg.Overlay.SetProgress(1)
	c.cfg.Overlay.SetLabel(c.cfg.FinishingLabel)
	c.tryFinish()
}

// ManagerDone records that every asset of the batch has ended.
func (c *Controller) ManagerDone() {
	c.managerDone = true
	c.tryFinish()
}

// OnError logs a failed asset. Readiness is unaffected.
func (c *Controller) OnError(url string, err error) {
	c.log.Warn("failed to load", zap.String("url", url), zap.Error(err))
}

func (c *Controller) tryFinish() {
	if c.phase == Ready || !c.primaryDone || !c.managerDone {
		return
	}
	c.phase = Ready
	c.cfg.Overlay.SetProgress(1)
	c.cfg.Overlay.SetLabel(c.cfg.ReadyLabel)
	c.cfg.Overlay.Hide()
	c.log.Debug("room ready")
	if c.cfg.OnReady != nil {
		c.cfg.OnReady()
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Ready reports whether the room has been revealed.
func (c *Controller) Ready() bool {
	return c.phase == Ready
}
