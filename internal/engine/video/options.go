// Package video decodes video files into frames a screen texture can show.
package video

// Preload controls how much of a video is opened before the first play.
type Preload string

const (
	// PreloadAuto opens the decoder and shows the first frame up front.
	PreloadAuto Preload = "auto"
	// PreloadMetadata reads the container header only.
	PreloadMetadata Preload = "metadata"
	// PreloadNone defers all work to the first Play.
	PreloadNone Preload = "none"
)

// Options are the playback settings of one screen.
type Options struct {
	Loop  bool
	Muted bool
	// PlaysInline and CrossOrigin are kept so page configs written for the
	// web build load unchanged. Native playback is always inline and local.
	PlaysInline bool
	Preload     Preload
	CrossOrigin string
}

// DefaultOptions returns the playback defaults every screen starts from.
func DefaultOptions() Options {
	return Options{
		Loop:        true,
		Muted:       false,
		PlaysInline: true,
		Preload:     PreloadAuto,
		CrossOrigin: "anonymous",
	}
}

// Overrides holds per-screen option overrides. Nil fields keep the default.
type Overrides struct {
	Loop        *bool
	Muted       *bool
	PlaysInline *bool
	Preload     *Preload
	CrossOrigin *string
}

// Merge applies o over base.
func (o Overrides) Merge(base Options) Options {
	if o.Loop != nil {
		base.Loop = *o.Loop
	}
	if o.Muted != nil {
		base.Muted = *o.Muted
	}
	if o.PlaysInline != nil {
		base.PlaysInline = *o.PlaysInline
	}
	if o.Preload != nil {
		base.Preload = *o.Preload
	}
	if o.CrossOrigin != nil {
		base.CrossOrigin = *o.CrossOrigin
	}
	switch base.Preload {
	case PreloadAuto, PreloadMetadata, PreloadNone:
	default:
		base.Preload = PreloadAuto
	}
	return base
}
