package loading

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/roomfolio/internal/assets"
	"github.com/Faultbox/roomfolio/internal/logger"
)

type fakeOverlay struct {
	progress []float32
	labels   []string
	hides    int
}

func (f *fakeOverlay) SetProgress(p float32) { f.progress = append(f.progress, p) }
func (f *fakeOverlay) SetLabel(s string)     { f.labels = append(f.labels, s) }
func (f *fakeOverlay) Hide()                 { f.hides++ }

func (f *fakeOverlay) lastProgress() float32 { return f.progress[len(f.progress)-1] }
func (f *fakeOverlay) lastLabel() string     { return f.labels[len(f.labels)-1] }

func newController(t *testing.T) (*Controller, *fakeOverlay, *int) {
	t.Helper()
	ov := &fakeOverlay{}
	ready := 0
	c, err := New(Config{Overlay: ov, OnReady: func() { ready++ }})
	require.NoError(t, err)
	return c, ov, &ready
}

func TestNewRequiresOverlay(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNoOverlay)
}

func TestNewResetsOverlay(t *testing.T) {
	_, ov, _ := newController(t)
	assert.Equal(t, []string{DefaultInitialLabel}, ov.labels)
	assert.Equal(t, []float32{0}, ov.progress)
}

func TestReadyFiresOnceInEitherOrder(t *testing.T) {
	orders := map[string]func(c *Controller){
		"primary first": func(c *Controller) {
			c.MarkPrimaryAssetDone()
			c.ManagerDone()
		},
		"manager first": func(c *Controller) {
			c.ManagerDone()
			c.MarkPrimaryAssetDone()
		},
		"repeated": func(c *Controller) {
			c.ManagerDone()
			c.MarkPrimaryAssetDone()
			c.ManagerDone()
			c.MarkPrimaryAssetDone()
		},
	}
	for name, run := range orders {
		t.Run(name, func(t *testing.T) {
			c, ov, ready := newController(t)
			run(c)

			assert.Equal(t, 1, *ready)
			assert.Equal(t, 1, ov.hides)
			assert.Equal(t, Ready, c.Phase())
			assert.Equal(t, DefaultReadyLabel, ov.lastLabel())
			assert.Equal(t, float32(1), ov.lastProgress())
		})
	}
}

func TestNotReadyWithOneCompletion(t *testing.T) {
	c, ov, ready := newController(t)

	c.ManagerDone()
	assert.Equal(t, Loading, c.Phase())
	assert.Zero(t, *ready)

	c2, ov2, ready2 := newController(t)
	c2.MarkPrimaryAssetDone()
	assert.Equal(t, Finishing, c2.Phase())
	assert.Equal(t, DefaultFinishingLabel, ov2.lastLabel())
	assert.Equal(t, float32(1), ov2.lastProgress())
	assert.Zero(t, *ready2)
	assert.Zero(t, ov.hides+ov2.hides)
}

func TestOnGlbProgress(t *testing.T) {
	c, ov, _ := newController(t)

	c.OnGlbProgress(25, 100)
	assert.Equal(t, float32(0.25), ov.lastProgress())

	c.OnGlbProgress(4096, -1)
	assert.Equal(t, float32(UnknownTotalProgress), ov.lastProgress())

	c.MarkPrimaryAssetDone()
	n := len(ov.progress)
	c.OnGlbProgress(1, 100)
	assert.Len(t, ov.progress, n, "progress after the primary asset is ignored")
}

func TestCustomLabels(t *testing.T) {
	ov := &fakeOverlay{}
	c, err := New(Config{Overlay: ov, InitialLabel: "a", FinishingLabel: "b", ReadyLabel: "c"})
	require.NoError(t, err)
	c.MarkPrimaryAssetDone()
	c.ManagerDone()
	assert.Equal(t, []string{"a", "b", "c"}, ov.labels)
	assert.Equal(t, "ready", c.Phase().String())
}

func TestErrorsAreLoggedNotFatal(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger.Use(zap.New(core))
	t.Cleanup(func() { logger.Use(nil) })

	c, _, ready := newController(t)
	c.OnError("hdris/room.hdr", errors.New("boom"))
	c.MarkPrimaryAssetDone()
	c.ManagerDone()

	assert.Equal(t, 1, *ready)
	entries := logs.FilterMessage("failed to load").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "hdris/room.hdr", entries[0].ContextMap()["url"])
}

// A missing environment still lets the room become ready through the batch.
func TestAttachToManager(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger.Use(zap.New(core))
	t.Cleanup(func() { logger.Use(nil) })

	m := assets.NewManager(assets.Config{FS: fstest.MapFS{
		"scenes/art.glb": {Data: []byte("glb")},
	}})
	c, ov, ready := newController(t)
	c.Attach(m)

	m.Load("scenes/art.glb", c.OnGlbProgress, func([]byte) { c.MarkPrimaryAssetDone() }, nil)
	m.Load("hdris/room.hdr", nil, nil, nil)
	m.Wait()
	for m.Poll() > 0 {
	}

	assert.Equal(t, 1, *ready)
	assert.Equal(t, 1, ov.hides)
	assert.NotEmpty(t, logs.FilterMessage("failed to load").All())
}
