// SPDX-License-Identifier: EPL-2.0

package transform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ik5/audcorpus/audio"
	"github.com/ik5/audcorpus/job"
)

// ErrNoAudioTrack is reported when a file has no decodable audio stream.
var ErrNoAudioTrack = errors.New("no audio track")

// Transformer executes work items against a Transcoder and a Prober.
// It holds no per-item state and is safe for concurrent use when its
// backend is.
type Transformer struct {
	tc     Transcoder
	pr     Prober
	logger *slog.Logger
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithLogger sets the logger for per-job debug output.
func WithLogger(l *slog.Logger) Option {
	return func(t *Transformer) {
		if l != nil {
			t.logger = l
		}
	}
}

// New returns a Transformer over tc and pr. Either may be nil when the
// corresponding mode is never run.
func New(tc Transcoder, pr Prober, opts ...Option) *Transformer {
	t := &Transformer{
		tc:     tc,
		pr:     pr,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ForBackend returns a Transformer using b for both capabilities.
func ForBackend(b Backend, opts ...Option) *Transformer {
	return New(b, b, opts...)
}

// fail classifies err, reporting context cancellation as Canceled.
func fail(ctx context.Context, input string, kind ErrorKind, err error) Result {
	if ctx.Err() != nil {
		return Failed(input, Canceled, ctx.Err())
	}
	return Failed(input, kind, err)
}

// Run loads, optionally resamples, optionally trims and encodes one item.
// Trimming always happens at the post-resampling rate, since frame and hop
// lengths are expressed in output samples.
func (t *Transformer) Run(ctx context.Context, item job.WorkItem) Result {
	cfg := item.Config
	in := item.InputPath

	if err := ctx.Err(); err != nil {
		return Failed(in, Canceled, err)
	}

	pcm, err := t.tc.Load(ctx, in, LoadOptions{Mono: cfg.Mono, Channels: cfg.Channels})
	if err != nil {
		return fail(ctx, in, UnreadableSource, err)
	}
	if pcm.SampleRate <= 0 || pcm.Channels < 1 {
		return fail(ctx, in, UnreadableSource, ErrNoAudioTrack)
	}

	if cfg.Resample && pcm.SampleRate != cfg.TargetSampleRate {
		pcm, err = t.tc.Resample(ctx, pcm, cfg.TargetSampleRate)
		if err != nil {
			return fail(ctx, in, EncodeError, fmt.Errorf("resample to %d Hz: %w", cfg.TargetSampleRate, err))
		}
	}

	rate := pcm.SampleRate
	before := pcm.Frames()

	if cfg.Trim {
		pcm, err = audio.Trim(pcm, audio.TrimOptions{
			TopDB:       cfg.TopDB,
			FrameLength: cfg.FrameLength,
			HopLength:   cfg.HopLength,
		})
		if err != nil {
			return fail(ctx, in, EncodeError, fmt.Errorf("trim: %w", err))
		}
	}
	after := pcm.Frames()

	if err := os.MkdirAll(filepath.Dir(item.OutputPath), 0o755); err != nil {
		return fail(ctx, in, EncodeError, err)
	}
	err = t.tc.Encode(ctx, pcm, item.OutputPath, EncodeOptions{
		Format:   cfg.Format,
		Subtype:  cfg.Subtype,
		Codec:    cfg.Codec,
		Channels: cfg.OutputChannels(),
	})
	if err != nil {
		return fail(ctx, in, EncodeError, err)
	}

	t.logger.Debug("transformed", "input", in, "output", item.OutputPath,
		"rate", rate, "before", before, "after", after)

	return Result{
		InputPath:         in,
		OutputPath:        item.OutputPath,
		SamplesBeforeTrim: before,
		SamplesAfterTrim:  after,
		DurationSec:       float64(before) / float64(rate),
		SampleRate:        rate,
	}
}

// Probe reports duration and sample rate without decoding samples.
func (t *Transformer) Probe(ctx context.Context, item job.WorkItem) Result {
	in := item.InputPath
	if err := ctx.Err(); err != nil {
		return Failed(in, Canceled, err)
	}

	info, err := t.pr.Probe(ctx, in)
	if err != nil {
		return fail(ctx, in, UnreadableSource, err)
	}
	if !info.HasAudioTrack {
		return fail(ctx, in, UnreadableSource, ErrNoAudioTrack)
	}

	t.logger.Debug("probed", "input", in, "duration", info.DurationSec, "rate", info.SampleRate)

	return Result{
		InputPath:   in,
		DurationSec: info.DurationSec,
		SampleRate:  info.SampleRate,
	}
}
