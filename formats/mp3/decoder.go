// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audcorpus/audio"
)

// go-mp3 always decodes to interleaved 16-bit little-endian stereo.
const (
	outChannels   = 2
	bytesPerFrame = outChannels * 2
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
	// pending holds the odd trailing byte of a short read.
	pending []byte
	eof     bool
}

func newSource(dec mp3Reader) *source {
	return &source{dec: dec, sampleRate: dec.SampleRate()}
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return outChannels }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if s.eof {
		return 0, io.EOF
	}

	bytesNeeded := len(dst) * 2
	if cap(s.buf) < bytesNeeded {
		s.buf = make([]byte, bytesNeeded)
	}
	s.buf = s.buf[:bytesNeeded]

	have := copy(s.buf, s.pending)
	s.pending = s.pending[:0]

	n, err := s.dec.Read(s.buf[have:])
	have += n
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("mp3 decode: %w", err)
	}

	samples := have / 2
	if have%2 == 1 {
		s.pending = append(s.pending, s.buf[have-1])
	}
	for i := range samples {
		val := int16(uint16(s.buf[2*i]) | uint16(s.buf[2*i+1])<<8)
		dst[i] = float32(val) / 32768.0
	}

	if errors.Is(err, io.EOF) {
		s.eof = true
		if samples == 0 {
			return 0, io.EOF
		}
		return samples, io.EOF
	}
	return samples, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3File, err)
	}
	return newSource(dec), nil
}

// ReadHeader reports the decoded stream layout. Computing the length
// requires go-mp3 to scan every frame header, which it does by seeking.
func (Decoder) ReadHeader(r io.ReadSeeker) (audio.Header, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return audio.Header{}, fmt.Errorf("%w: %w", ErrNotMP3File, err)
	}

	frames := int64(-1)
	if l := dec.Length(); l >= 0 {
		frames = l / bytesPerFrame
	}
	return audio.Header{
		SampleRate: dec.SampleRate(),
		Channels:   outChannels,
		Frames:     frames,
	}, nil
}
