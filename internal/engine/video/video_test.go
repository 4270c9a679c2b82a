package video

import (
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	assert.True(t, o.Loop)
	assert.False(t, o.Muted)
	assert.True(t, o.PlaysInline)
	assert.Equal(t, PreloadAuto, o.Preload)
	assert.Equal(t, "anonymous", o.CrossOrigin)
}

func TestOverridesMerge(t *testing.T) {
	base := DefaultOptions()

	got := Overrides{Muted: ptr(true), Preload: ptr(PreloadNone)}.Merge(base)
	assert.True(t, got.Muted)
	assert.Equal(t, PreloadNone, got.Preload)
	assert.True(t, got.Loop, "unset fields keep the default")

	got = Overrides{Loop: ptr(false), PlaysInline: ptr(false), CrossOrigin: ptr("use-credentials")}.Merge(base)
	assert.False(t, got.Loop)
	assert.False(t, got.PlaysInline)
	assert.Equal(t, "use-credentials", got.CrossOrigin)

	got = Overrides{Preload: ptr(Preload("eager"))}.Merge(base)
	assert.Equal(t, PreloadAuto, got.Preload, "unknown preload falls back to auto")

	assert.Equal(t, base, Overrides{}.Merge(base))
}

func TestPlayMissingFileStaysPaused(t *testing.T) {
	p := NewPlayer(filepath.Join(t.TempDir(), "missing.mp4"), DefaultOptions(), nil)

	assert.True(t, p.Paused())
	assert.Error(t, p.Play())
	assert.True(t, p.Paused())

	img, version := p.Frame()
	assert.Nil(t, img)
	assert.Zero(t, version)
}

func TestPreload(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.mp4")

	none := DefaultOptions()
	none.Preload = PreloadNone
	assert.NoError(t, NewPlayer(missing, none, nil).Preload())

	meta := DefaultOptions()
	meta.Preload = PreloadMetadata
	assert.Error(t, NewPlayer(missing, meta, nil).Preload())
}

func TestCloseIdempotent(t *testing.T) {
	p := NewPlayer("unused.mp4", DefaultOptions(), nil)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	assert.ErrorIs(t, p.Play(), ErrClosed)
	assert.ErrorIs(t, p.Preload(), ErrClosed)
	p.Pause()
	assert.True(t, p.Paused())
}

func TestSamples(t *testing.T) {
	data := make([]byte, 32)
	binary.LittleEndian.PutUint64(data[0:], math.Float64bits(0.5))
	binary.LittleEndian.PutUint64(data[8:], math.Float64bits(-0.25))
	binary.LittleEndian.PutUint64(data[16:], math.Float64bits(1))
	binary.LittleEndian.PutUint64(data[24:], math.Float64bits(-1))

	got := samples(append(data, 1, 2, 3)) // trailing partial sample ignored
	assert.Equal(t, [][2]float64{{0.5, -0.25}, {1, -1}}, got)
}
