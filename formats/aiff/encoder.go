// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"
	"strings"

	goaiff "github.com/go-audio/aiff"

	"github.com/ik5/audcorpus/audio"
)

// BitDepth maps a soundfile-style subtype name to a PCM bit depth.
// An empty subtype selects PCM_16.
func BitDepth(subtype string) (int, error) {
	switch strings.ToUpper(strings.TrimSpace(subtype)) {
	case "", "PCM_16":
		return 16, nil
	case "PCM_24":
		return 24, nil
	case "PCM_32":
		return 32, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedSubtype, subtype)
	}
}

// Encode writes p as a big-endian integer PCM AIFF file.
func Encode(w io.WriteSeeker, p *audio.PCM, subtype string) error {
	bitDepth, err := BitDepth(subtype)
	if err != nil {
		return err
	}

	enc := goaiff.NewEncoder(w, p.SampleRate, bitDepth, p.Channels)
	if err := enc.Write(audio.ToIntBuffer(p, bitDepth)); err != nil {
		return fmt.Errorf("write aiff samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize aiff: %w", err)
	}
	return nil
}
