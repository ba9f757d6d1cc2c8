// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/audcorpus/audio"
)

// wavFormatPCM is the WAVE_FORMAT_PCM format tag.
const wavFormatPCM = 1

type Decoder struct{}

// open parses the headers and positions dec at the start of the data chunk.
func open(rs io.ReadSeeker) (*gowav.Decoder, audio.Header, error) {
	dec := gowav.NewDecoder(rs)
	if err := dec.FwdToPCM(); err != nil {
		return nil, audio.Header{}, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}
	if err := dec.Err(); err != nil && !errors.Is(err, io.EOF) {
		return nil, audio.Header{}, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}
	if dec.NumChans == 0 || dec.PCMChunk == nil {
		return nil, audio.Header{}, ErrNotWavFile
	}
	if dec.WavAudioFormat != wavFormatPCM {
		return nil, audio.Header{}, fmt.Errorf("%w: format tag %d", ErrUnsupportedEncoding, dec.WavAudioFormat)
	}

	bitDepth := int(dec.BitDepth)
	switch bitDepth {
	case 16, 24, 32:
	default:
		return nil, audio.Header{}, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	frameBytes := int64(dec.NumChans) * int64(bitDepth/8)
	return dec, audio.Header{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   bitDepth,
		Frames:     int64(dec.PCMSize) / frameBytes,
	}, nil
}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := audio.AsReadSeeker(r)
	if err != nil {
		return nil, err
	}

	dec, h, err := open(rs)
	if err != nil {
		return nil, err
	}
	return audio.NewIntSource(dec, dec.Format(), h.BitDepth), nil
}

// ReadHeader reads the fmt and data chunk headers without decoding samples.
func (Decoder) ReadHeader(r io.ReadSeeker) (audio.Header, error) {
	_, h, err := open(r)
	return h, err
}
