// SPDX-License-Identifier: EPL-2.0

package transform

import (
	"context"

	"github.com/ik5/audcorpus/audio"
	"github.com/ik5/audcorpus/job"
)

// Info is the metadata a Prober reports for one file.
type Info struct {
	HasAudioTrack bool
	DurationSec   float64
	SampleRate    int
	Channels      int
}

// Prober reads metadata without materializing samples.
type Prober interface {
	Probe(ctx context.Context, path string) (Info, error)
}

// LoadOptions controls the channel layout of loaded audio. Mono takes
// precedence over Channels; zero Channels keeps the source layout.
type LoadOptions struct {
	Mono     bool
	Channels int
}

// EncodeOptions describes the output file.
type EncodeOptions struct {
	Format   string
	Subtype  string
	Codec    string
	Channels int
}

// Transcoder loads, resamples and encodes whole signals.
type Transcoder interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*audio.PCM, error)
	Resample(ctx context.Context, pcm *audio.PCM, rate int) (*audio.PCM, error)
	Encode(ctx context.Context, pcm *audio.PCM, path string, opts EncodeOptions) error
}

// Backend bundles both capabilities with the output formats it can write.
type Backend interface {
	Prober
	Transcoder
	job.FormatChecker
	Name() string
}
