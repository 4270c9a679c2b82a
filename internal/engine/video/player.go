package video

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"math"
	"sync"
	"time"

	"github.com/zergon321/reisen"
	"go.uber.org/zap"

	"github.com/Faultbox/roomfolio/internal/engine/audio"
	"github.com/Faultbox/roomfolio/internal/logger"
)

// reisen resamples audio to 44.1kHz interleaved stereo float64.
const decodedSampleRate = 44100

// ErrClosed is returned by Play and Preload after Close.
var ErrClosed = errors.New("video player closed")

// Player plays one video file. Decoding runs on its own goroutine, paced by
// the stream frame rate; the latest frame is read with Frame from the render
// thread.
type Player struct {
	src   string
	opts  Options
	mixer *audio.Manager
	log   *zap.Logger

	// ctl serializes Play, Pause and Close.
	ctl sync.Mutex

	media   *reisen.Media
	vstream *reisen.VideoStream
	astream *reisen.AudioStream
	decoded bool
	closed  bool
	frameDt time.Duration

	track *audio.Track
	queue *audio.Queue

	stop chan struct{}
	done chan struct{}

	mu      sync.Mutex
	frame   *image.RGBA
	version uint64
	playing bool
	ended   bool
}

// NewPlayer creates a paused player for src. mixer may be nil, in which case
// the video plays silently regardless of Muted.
func NewPlayer(src string, opts Options, mixer *audio.Manager) *Player {
	return &Player{
		src:   src,
		opts:  opts,
		mixer: mixer,
		log:   logger.Named("video").With(zap.String("src", src)),
	}
}

// Source returns the file the player reads.
func (p *Player) Source() string { return p.src }

// Options returns the playback options.
func (p *Player) Options() Options { return p.opts }

// Preload does the up-front work the Preload option asks for. It may block
// on file IO and decoding, so callers on the frame thread run it on its own
// goroutine. Errors are returned, not fatal; a later Play retries.
func (p *Player) Preload() error {
	p.ctl.Lock()
	defer p.ctl.Unlock()

	if p.closed {
		return ErrClosed
	}

	switch p.opts.Preload {
	case PreloadMetadata:
		return p.openMedia()
	case PreloadAuto:
		if err := p.openDecoder(); err != nil {
			return err
		}
		// Show the first frame like a poster.
		return p.decodeUntilFrame()
	}
	return nil
}

// Play starts or resumes playback. A failure to open or decode the file is
// returned and leaves the player paused.
func (p *Player) Play() error {
	p.ctl.Lock()
	defer p.ctl.Unlock()

	if p.closed {
		return ErrClosed
	}
	if !p.Paused() {
		return nil
	}
	if err := p.openDecoder(); err != nil {
		return err
	}
	if p.takeEnded() {
		if err := p.rewind(); err != nil {
			return err
		}
	}

	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	p.setPlaying(true)
	if p.track != nil {
		p.track.Resume()
	}
	go p.run(p.stop, p.done)
	return nil
}

// Pause holds playback at the current frame.
func (p *Player) Pause() {
	p.ctl.Lock()
	defer p.ctl.Unlock()
	p.halt()
}

func (p *Player) halt() {
	if p.stop != nil {
		close(p.stop)
		<-p.done
		p.stop, p.done = nil, nil
	}
	if p.track != nil {
		p.track.Pause()
	}
	p.setPlaying(false)
}

// Paused reports whether the player is not playing.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.playing
}

func (p *Player) setPlaying(v bool) {
	p.mu.Lock()
	p.playing = v
	p.mu.Unlock()
}

// Frame returns the latest decoded frame and a version that increases with
// every new frame. The frame must not be modified.
func (p *Player) Frame() (*image.RGBA, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame, p.version
}

func (p *Player) publish(img *image.RGBA) {
	p.mu.Lock()
	p.frame = img
	p.version++
	p.mu.Unlock()
}

// Close stops playback and releases the decoder. Safe to call repeatedly.
func (p *Player) Close() error {
	p.ctl.Lock()
	defer p.ctl.Unlock()

	if p.closed {
		return nil
	}
	p.halt()
	p.closed = true

	if p.track != nil {
		p.track.Close()
		p.track = nil
	}

	var errs []error
	if p.decoded {
		if p.vstream != nil {
			errs = append(errs, p.vstream.Close())
		}
		if p.astream != nil {
			errs = append(errs, p.astream.Close())
		}
		errs = append(errs, p.media.CloseDecode())
		p.decoded = false
	}
	if p.media != nil {
		p.media.Close()
		p.media = nil
	}
	return errors.Join(errs...)
}

func (p *Player) openMedia() error {
	if p.media != nil {
		return nil
	}
	media, err := reisen.NewMedia(p.src)
	if err != nil {
		return fmt.Errorf("open %s: %w", p.src, err)
	}
	if len(media.VideoStreams()) == 0 {
		media.Close()
		return fmt.Errorf("open %s: no video stream", p.src)
	}
	p.media = media
	return nil
}

func (p *Player) openDecoder() error {
	if p.decoded {
		return nil
	}
	if err := p.openMedia(); err != nil {
		return err
	}
	if err := p.media.OpenDecode(); err != nil {
		return fmt.Errorf("decode %s: %w", p.src, err)
	}

	vs := p.media.VideoStreams()[0]
	if err := vs.Open(); err != nil {
		p.media.CloseDecode()
		return fmt.Errorf("open video stream: %w", err)
	}
	p.vstream = vs
	p.frameDt = frameDuration(vs)

	if !p.opts.Muted && p.mixer != nil && len(p.media.AudioStreams()) > 0 {
		as := p.media.AudioStreams()[0]
		if err := as.Open(); err != nil {
			p.log.Warn("audio stream unavailable", zap.Error(err))
		} else {
			p.astream = as
			p.queue = audio.NewQueue(decodedSampleRate)
			p.track = p.mixer.Attach(p.queue, decodedSampleRate)
		}
	}

	p.decoded = true
	return nil
}

func frameDuration(vs *reisen.VideoStream) time.Duration {
	num, den := vs.FrameRate()
	if num <= 0 || den <= 0 {
		return time.Second / 30
	}
	return time.Duration(float64(time.Second) * float64(den) / float64(num))
}

func (p *Player) rewind() error {
	if err := p.vstream.Rewind(0); err != nil {
		return fmt.Errorf("rewind: %w", err)
	}
	if p.queue != nil {
		p.queue.Reset()
	}
	return nil
}

// decodeUntilFrame reads packets until one video frame is published.
func (p *Player) decodeUntilFrame() error {
	for {
		got, eof, err := p.step()
		if err != nil || eof || got {
			return err
		}
	}
}

// step decodes one packet. got reports a published video frame.
func (p *Player) step() (got, eof bool, err error) {
	packet, ok, err := p.media.ReadPacket()
	if err != nil {
		return false, false, err
	}
	if !ok {
		return false, true, nil
	}

	switch packet.Type() {
	case reisen.StreamVideo:
		if packet.StreamIndex() != p.vstream.Index() {
			return false, false, nil
		}
		frame, ok, err := p.vstream.ReadVideoFrame()
		if err != nil || !ok || frame == nil {
			return false, false, err
		}
		p.publish(frame.Image())
		return true, false, nil

	case reisen.StreamAudio:
		if p.astream == nil || packet.StreamIndex() != p.astream.Index() {
			return false, false, nil
		}
		frame, ok, err := p.astream.ReadAudioFrame()
		if err != nil || !ok || frame == nil {
			return false, false, err
		}
		p.queue.Push(samples(frame.Data()))
	}
	return false, false, nil
}

// run decodes until stopped, holding each video frame for one frame period.
func (p *Player) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.frameDt)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		default:
		}

		got, eof, err := p.step()
		if err != nil {
			p.log.Warn("decode error", zap.Error(err))
			p.finish()
			return
		}
		if eof {
			if p.opts.Loop {
				err := p.rewind()
				if err == nil {
					continue
				}
				p.log.Warn("loop rewind failed", zap.Error(err))
			}
			p.finish()
			return
		}
		if !got {
			continue
		}

		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

// finish marks playback as ended from the decode goroutine.
func (p *Player) finish() {
	p.mu.Lock()
	p.ended = true
	p.playing = false
	p.mu.Unlock()
	if p.track != nil {
		p.track.Pause()
	}
}

// takeEnded reports and clears the ended flag.
func (p *Player) takeEnded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	ended := p.ended
	p.ended = false
	return ended
}

// samples converts interleaved little-endian float64 stereo to beep samples.
func samples(data []byte) [][2]float64 {
	out := make([][2]float64, len(data)/16)
	for i := range out {
		off := i * 16
		out[i][0] = math.Float64frombits(binary.LittleEndian.Uint64(data[off:]))
		out[i][1] = math.Float64frombits(binary.LittleEndian.Uint64(data[off+8:]))
	}
	return out
}
