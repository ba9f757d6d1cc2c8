// SPDX-License-Identifier: EPL-2.0

package ffmpeg

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ik5/audcorpus/audio"
)

// encodeF32LE serializes samples as raw little-endian float32, the layout
// of ffmpeg's f32le format.
func encodeF32LE(samples []float32) []byte {
	out := make([]byte, len(samples)*4)
	for i, v := range samples {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// decodeF32LE parses raw f32le bytes into a PCM. A trailing partial
// sample or frame is an error.
func decodeF32LE(data []byte, rate, channels int) (*audio.PCM, error) {
	if channels < 1 {
		return nil, audio.ErrInvalidChannels
	}
	if len(data)%(4*channels) != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of %d-channel frames", ErrShortOutput, len(data), channels)
	}
	samples := make([]float32, len(data)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return &audio.PCM{Samples: samples, SampleRate: rate, Channels: channels}, nil
}
