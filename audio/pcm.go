// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// PCM is a fully decoded signal held in memory as interleaved float32
// samples in [-1,1]. Operations in this package never modify their input
// PCM; they return a new value.
type PCM struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

// Frames returns the number of samples per channel.
func (p *PCM) Frames() int {
	if p == nil || p.Channels < 1 {
		return 0
	}
	return len(p.Samples) / p.Channels
}

// DurationSec returns Frames()/SampleRate, or 0 for an invalid rate.
func (p *PCM) DurationSec() float64 {
	if p == nil || p.SampleRate <= 0 {
		return 0
	}
	return float64(p.Frames()) / float64(p.SampleRate)
}

// Slice returns frames [start, end) sharing the underlying samples.
func (p *PCM) Slice(start, end int) *PCM {
	frames := p.Frames()
	start = min(max(start, 0), frames)
	end = min(max(end, start), frames)
	return &PCM{
		Samples:    p.Samples[start*p.Channels : end*p.Channels],
		SampleRate: p.SampleRate,
		Channels:   p.Channels,
	}
}

// Clone returns a deep copy of p.
func (p *PCM) Clone() *PCM {
	samples := make([]float32, len(p.Samples))
	copy(samples, p.Samples)
	return &PCM{Samples: samples, SampleRate: p.SampleRate, Channels: p.Channels}
}

// ReadAll drains src into a PCM. The source is not closed.
func ReadAll(src Source) (*PCM, error) {
	channels := src.Channels()
	if channels < 1 {
		return nil, ErrInvalidChannels
	}
	if src.SampleRate() <= 0 {
		return nil, ErrInvalidSampleRate
	}

	// Keep reads frame aligned
	bufSize := (4096 / channels) * channels
	if bufSize == 0 {
		bufSize = channels
	}
	buf := make([]float32, bufSize)
	out := &PCM{SampleRate: src.SampleRate(), Channels: channels}

	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			out.Samples = append(out.Samples, buf[:n]...)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read samples: %w", err)
		}
	}

	// Drop a trailing partial frame from truncated inputs
	out.Samples = out.Samples[:out.Frames()*channels]
	return out, nil
}

// bufferSource streams a PCM through the Source interface.
type bufferSource struct {
	pcm *PCM
	pos int
}

// NewBufferSource returns a Source that reads the samples of p.
func NewBufferSource(p *PCM) Source {
	return &bufferSource{pcm: p}
}

func (b *bufferSource) SampleRate() int { return b.pcm.SampleRate }
func (b *bufferSource) Channels() int   { return b.pcm.Channels }
func (b *bufferSource) Close() error    { return nil }

func (b *bufferSource) ReadSamples(dst []float32) (int, error) {
	if len(dst)%b.pcm.Channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if b.pos >= len(b.pcm.Samples) {
		return 0, io.EOF
	}
	n := copy(dst, b.pcm.Samples[b.pos:])
	b.pos += n
	if b.pos >= len(b.pcm.Samples) {
		return n, io.EOF
	}
	return n, nil
}
