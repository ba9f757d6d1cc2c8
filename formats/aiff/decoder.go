// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	goaiff "github.com/go-audio/aiff"

	"github.com/ik5/audcorpus/audio"
)

type Decoder struct{}

func open(rs io.ReadSeeker) (*goaiff.Decoder, audio.Header, error) {
	dec := goaiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, audio.Header{}, ErrNotAiffFile
	}

	dec.ReadInfo()

	bitDepth := int(dec.BitDepth)
	switch bitDepth {
	case 16, 24, 32:
	default:
		return nil, audio.Header{}, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	format := dec.Format()
	if format == nil || format.NumChannels < 1 {
		return nil, audio.Header{}, ErrUnsupportedAiffLayout
	}

	return dec, audio.Header{
		SampleRate: format.SampleRate,
		Channels:   format.NumChannels,
		BitDepth:   bitDepth,
		Frames:     int64(dec.NumSampleFrames),
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

// ReadHeader reads the COMM chunk without decoding samples.
func (Decoder) ReadHeader(r io.ReadSeeker) (audio.Header, error) {
	_, h, err := open(r)
	return h, err
}
