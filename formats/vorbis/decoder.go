// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/audcorpus/audio"
)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
	eof        bool
}

func newSource(dec oggReader) *source {
	return &source{dec: dec, sampleRate: dec.SampleRate(), channels: dec.Channels()}
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }

// ReadSamples decodes into dst directly. oggvorbis returns interleaved
// values and counts values, not frames, so only whole frames are requested.
func (s *source) ReadSamples(dst []float32) (int, error) {
	if s.eof {
		return 0, io.EOF
	}

	whole := len(dst) - len(dst)%s.channels
	if whole == 0 {
		return 0, nil
	}

	n, err := s.dec.Read(dst[:whole])
	if errors.Is(err, io.EOF) {
		s.eof = true
		return n, io.EOF
	}
	if err != nil {
		return n, fmt.Errorf("vorbis decode: %w", err)
	}
	return n, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbisFile, err)
	}
	if dec.Channels() < 1 {
		return nil, ErrNotVorbisFile
	}
	return newSource(dec), nil
}

// ReadHeader reads the identification header. The length is taken from
// the granule position of the last page, so r must be seekable.
func (Decoder) ReadHeader(r io.ReadSeeker) (audio.Header, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return audio.Header{}, fmt.Errorf("%w: %w", ErrNotVorbisFile, err)
	}

	frames := dec.Length()
	if frames <= 0 {
		frames = -1
	}
	return audio.Header{
		SampleRate: dec.SampleRate(),
		Channels:   dec.Channels(),
		Frames:     frames,
	}, nil
}
