// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audcorpus/utils"
)

// PCMBufferReader is the subset of the go-audio wav and aiff decoders used
// to pull integer samples.
type PCMBufferReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// IntSource adapts a go-audio integer PCM decoder to Source.
type IntSource struct {
	dec      PCMBufferReader
	format   *goaudio.Format
	bitDepth int
	buf      *goaudio.IntBuffer
	eof      bool
}

// NewIntSource wraps dec. bitDepth selects the integer full scale used to
// normalize samples to [-1,1].
func NewIntSource(dec PCMBufferReader, format *goaudio.Format, bitDepth int) *IntSource {
	return &IntSource{
		dec:      dec,
		format:   format,
		bitDepth: bitDepth,
	}
}

func (s *IntSource) SampleRate() int { return s.format.SampleRate }
func (s *IntSource) Channels() int   { return s.format.NumChannels }
func (s *IntSource) Close() error    { return nil }

func (s *IntSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if s.eof {
		return 0, io.EOF
	}

	if s.buf == nil || cap(s.buf.Data) < len(dst) {
		s.buf = &goaudio.IntBuffer{
			Data:           make([]int, len(dst)),
			Format:         s.format,
			SourceBitDepth: s.bitDepth,
		}
	} else {
		s.buf.Data = s.buf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("pcm buffer: %w", err)
	}
	if n == 0 {
		s.eof = true
		return 0, io.EOF
	}

	for i := range n {
		dst[i] = utils.PCMToFloat(s.buf.Data[i], s.bitDepth)
	}

	if errors.Is(err, io.EOF) {
		s.eof = true
		return n, io.EOF
	}
	return n, nil
}

// ToIntBuffer converts p to a go-audio integer buffer at bitDepth.
func ToIntBuffer(p *PCM, bitDepth int) *goaudio.IntBuffer {
	data := make([]int, len(p.Samples))
	for i, x := range p.Samples {
		data[i] = utils.FloatToPCM(x, bitDepth)
	}
	return &goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{NumChannels: p.Channels, SampleRate: p.SampleRate},
		SourceBitDepth: bitDepth,
	}
}
