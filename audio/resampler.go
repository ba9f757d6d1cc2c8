// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"

	"github.com/ik5/audcorpus/utils"
)

// maxFilterTaps bounds the anti-aliasing kernel for extreme ratios.
const maxFilterTaps = 1023

// Resample converts p to dstRate using cubic interpolation. Channel count
// is preserved. When downsampling, each channel is first low-passed at the
// destination Nyquist frequency with a windowed-sinc FIR.
//
// The output has round(frames * dstRate / srcRate) frames, so the result
// depends only on the input and the two rates.
func Resample(p *PCM, dstRate int) (*PCM, error) {
	if dstRate <= 0 || p.SampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if p.Channels < 1 {
		return nil, ErrInvalidChannels
	}
	if dstRate == p.SampleRate {
		return p.Clone(), nil
	}

	channels := p.Channels
	frames := p.Frames()
	ratio := float64(p.SampleRate) / float64(dstRate)
	outFrames := int(math.Round(float64(frames) / ratio))

	in := p.Samples
	if ratio > 1 {
		in = lowPass(p, 0.5/ratio, ratio)
	}

	out := make([]float32, outFrames*channels)
	at := func(frame, c int) float32 {
		frame = min(max(frame, 0), frames-1)
		return in[frame*channels+c]
	}

	for i := range outFrames {
		pos := float64(i) * ratio
		idx := int(pos)
		alpha := float32(pos - float64(idx))
		for c := range channels {
			out[i*channels+c] = utils.CubicInterpolate(
				at(idx-1, c), at(idx, c), at(idx+1, c), at(idx+2, c), alpha)
		}
	}

	return &PCM{Samples: out, SampleRate: dstRate, Channels: channels}, nil
}

// lowPass filters every channel of p with a kernel sized for ratio.
func lowPass(p *PCM, cutoff, ratio float64) []float32 {
	taps := min(int(math.Ceil(ratio))*16+1, maxFilterTaps)
	kernel := utils.LowPassKernel(cutoff, taps)
	mid := len(kernel) / 2

	channels := p.Channels
	frames := p.Frames()
	out := make([]float32, len(p.Samples))

	for f := range frames {
		lo := max(f-mid, 0)
		hi := min(f+mid, frames-1)
		for c := range channels {
			var acc float32
			for j := lo; j <= hi; j++ {
				acc += kernel[j-f+mid] * p.Samples[j*channels+c]
			}
			out[f*channels+c] = acc
		}
	}
	return out
}
