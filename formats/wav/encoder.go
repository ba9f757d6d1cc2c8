// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"strings"

	gowav "github.com/go-audio/wav"

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

// Encode writes p as an integer PCM WAV file using the given subtype.
// Zero-length signals produce a valid file with an empty data chunk.
func Encode(w io.WriteSeeker, p *audio.PCM, subtype string) error {
	bitDepth, err := BitDepth(subtype)
	if err != nil {
		return err
	}

	enc := gowav.NewEncoder(w, p.SampleRate, bitDepth, p.Channels, wavFormatPCM)
	if err := enc.Write(audio.ToIntBuffer(p, bitDepth)); err != nil {
		return fmt.Errorf("write wav samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}
