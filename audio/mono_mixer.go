// SPDX-License-Identifier: EPL-2.0

package audio

// MixToMono averages all channels of p into one.
func MixToMono(p *PCM) *PCM {
	if p.Channels == 1 {
		return p.Clone()
	}

	channels := p.Channels
	frames := p.Frames()
	out := make([]float32, frames)
	invChannels := float32(1.0) / float32(channels)

	// Unrolled loop for common cases
	switch channels {
	case 2:
		for f := range frames {
			idx := f << 1
			out[f] = (p.Samples[idx] + p.Samples[idx+1]) * 0.5
		}
	default:
		for f := range frames {
			var sum float32
			base := f * channels
			for c := range channels {
				sum += p.Samples[base+c]
			}
			out[f] = sum * invChannels
		}
	}

	return &PCM{Samples: out, SampleRate: p.SampleRate, Channels: 1}
}

// MixChannels converts p to the requested channel count. Mono targets are
// averaged; mono sources are duplicated; otherwise output channel c takes
// input channel c modulo the input count.
func MixChannels(p *PCM, channels int) (*PCM, error) {
	if channels < 1 || p.Channels < 1 {
		return nil, ErrInvalidChannels
	}
	if channels == p.Channels {
		return p.Clone(), nil
	}
	if channels == 1 {
		return MixToMono(p), nil
	}

	frames := p.Frames()
	out := make([]float32, frames*channels)
	for f := range frames {
		for c := range channels {
			out[f*channels+c] = p.Samples[f*p.Channels+c%p.Channels]
		}
	}
	return &PCM{Samples: out, SampleRate: p.SampleRate, Channels: channels}, nil
}
