// SPDX-License-Identifier: EPL-2.0

package audiotest

import "math"

// Silence returns frames zero samples.
func Silence(frames int) []float32 {
	return make([]float32, frames)
}

// Tone returns a mono sine of the given frequency and peak amplitude.
func Tone(sampleRate, frames int, frequency float64, amp float32) []float32 {
	out := make([]float32, frames)
	for i := range out {
		out[i] = amp * float32(math.Sin(2*math.Pi*frequency*float64(i)/float64(sampleRate)))
	}
	return out
}

// Concat joins mono segments.
func Concat(parts ...[]float32) []float32 {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make([]float32, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Interleave duplicates a mono signal across channels.
func Interleave(mono []float32, channels int) []float32 {
	out := make([]float32, len(mono)*channels)
	for i, v := range mono {
		for ch := range channels {
			out[i*channels+ch] = v
		}
	}
	return out
}
