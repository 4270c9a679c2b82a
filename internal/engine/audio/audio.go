// Package audio mixes the sound of unmuted video screens.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// Manager owns the speaker and a mixer every track plays through.
type Manager struct {
	mu sync.RWMutex

	initialized  bool
	sampleRate   beep.SampleRate
	masterVolume float64

	mixer  *beep.Mixer
	tracks map[*Track]struct{}
}

// New creates a new audio manager.
func New() *Manager {
	return &Manager{
		sampleRate:   DefaultSampleRate,
		masterVolume: 1.0,
		mixer:        &beep.Mixer{},
		tracks:       make(map[*Track]struct{}),
	}
}

// Init opens the speaker. Calling it again is a no-op.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)
	m.initialized = true
	return nil
}

// Close stops every track and shuts down the speaker.
func (m *Manager) Close() {
	m.mu.Lock()
	tracks := make([]*Track, 0, len(m.tracks))
	for t := range m.tracks {
		tracks = append(tracks, t)
	}
	m.mu.Unlock()

	for _, t := range tracks {
		t.Close()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initialized {
		speaker.Clear()
		speaker.Close()
	}
	m.initialized = false
}

// IsInitialized returns whether the speaker is open.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SampleRate returns the output sample rate tracks are resampled to.
func (m *Manager) SampleRate() beep.SampleRate {
	return m.sampleRate
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	m.masterVolume = clamp(vol, 0, 1)
	tracks := make([]*Track, 0, len(m.tracks))
	for t := range m.tracks {
		tracks = append(tracks, t)
	}
	m.mu.Unlock()

	for _, t := range tracks {
		t.applyVolume()
	}
}

// MasterVolume returns the master volume.
func (m *Manager) MasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

// Attach adds s to the mix, resampled from rate to the output rate. The
// track starts paused.
func (m *Manager) Attach(s beep.Streamer, rate beep.SampleRate) *Track {
	if rate != m.sampleRate {
		s = beep.Resample(4, rate, m.sampleRate, s)
	}
	t := &Track{m: m, level: 1}
	t.ctrl = &beep.Ctrl{Streamer: s, Paused: true}
	t.volume = &effects.Volume{Streamer: t.ctrl, Base: 2}
	t.applyVolume()

	m.mu.Lock()
	m.tracks[t] = struct{}{}
	m.mu.Unlock()

	m.locked(func() { m.mixer.Add(t.volume) })
	return t
}

// Tracks returns the number of attached tracks.
func (m *Manager) Tracks() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tracks)
}

// locked runs fn under the speaker lock when the speaker is running.
func (m *Manager) locked(fn func()) {
	if m.IsInitialized() {
		speaker.Lock()
		defer speaker.Unlock()
	}
	fn()
}

// Track is one streamer in the mix.
type Track struct {
	m      *Manager
	ctrl   *beep.Ctrl
	volume *effects.Volume
	level  float64
	closed bool
}

// Resume starts or continues playback.
func (t *Track) Resume() {
	t.m.locked(func() {
		if !t.closed {
			t.ctrl.Paused = false
		}
	})
}

// Pause holds playback.
func (t *Track) Pause() {
	t.m.locked(func() { t.ctrl.Paused = true })
}

// Paused reports whether the track is held.
func (t *Track) Paused() bool {
	var p bool
	t.m.locked(func() { p = t.ctrl.Paused })
	return p
}

// SetVolume sets the track level (0.0 to 1.0), scaled by the master volume.
func (t *Track) SetVolume(vol float64) {
	t.level = clamp(vol, 0, 1)
	t.applyVolume()
}

func (t *Track) applyVolume() {
	vol := t.m.MasterVolume() * t.level
	t.m.locked(func() {
		t.volume.Silent = vol <= 0
		t.volume.Volume = volumeToDb(vol) / 6.0205999 // dB to base-2 steps
	})
}

// Close removes the track from the mix. The mixer drops a Ctrl without a
// streamer on its next pass.
func (t *Track) Close() {
	t.m.locked(func() {
		t.closed = true
		t.ctrl.Paused = false
		t.ctrl.Streamer = nil
	})
	t.m.mu.Lock()
	delete(t.m.tracks, t)
	t.m.mu.Unlock()
}

// volumeToDb converts a 0-1 volume to decibels: 1 is 0dB, 0.5 about -6dB.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return 20 * math.Log10(vol)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
