// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	"github.com/ik5/audcorpus/utils"
)

// TrimOptions configures silence detection. FrameLength and HopLength are
// in samples at the rate of the signal being trimmed.
type TrimOptions struct {
	// TopDB is the threshold below the loudest frame, in dB, under which a
	// frame counts as silent.
	TopDB       float64
	FrameLength int
	HopLength   int
}

func DefaultTrimOptions() TrimOptions {
	return TrimOptions{TopDB: 60, FrameLength: 2048, HopLength: 512}
}

func (o TrimOptions) validate() error {
	if o.TopDB <= 0 {
		return fmt.Errorf("%w: top_db must be positive", ErrInvalidTrimOptions)
	}
	if o.FrameLength < 1 || o.HopLength < 1 {
		return fmt.Errorf("%w: frame and hop length must be at least 1", ErrInvalidTrimOptions)
	}
	return nil
}

// NonSilentRange returns the frame range [start, end) spanning the first
// through the last non-silent analysis frame of p.
//
// Frames are centered: analysis frame t covers samples
// [t*hop - frameLength/2, t*hop - frameLength/2 + frameLength), zero padded
// at the edges, and there are 1 + n/hop of them. A frame is non-silent when
// its mean power is above utils.Amin and within TopDB of the loudest frame.
// Multi-channel input is averaged to mono for detection. When every frame is
// silent the range is empty (0, 0).
func NonSilentRange(p *PCM, opts TrimOptions) (int, int, error) {
	if err := opts.validate(); err != nil {
		return 0, 0, err
	}

	n := p.Frames()
	if n == 0 {
		return 0, 0, nil
	}

	mono := p
	if p.Channels > 1 {
		mono = MixToMono(p)
	}

	// prefix[i] = sum of squares of the first i samples
	prefix := make([]float64, n+1)
	for i, x := range mono.Samples[:n] {
		prefix[i+1] = prefix[i] + float64(x)*float64(x)
	}

	nFrames := 1 + n/opts.HopLength
	power := make([]float64, nFrames)
	var peak float64
	half := opts.FrameLength / 2
	for t := range nFrames {
		lo := t*opts.HopLength - half
		hi := min(max(lo+opts.FrameLength, 0), n)
		lo = min(max(lo, 0), n)
		power[t] = (prefix[hi] - prefix[lo]) / float64(opts.FrameLength)
		peak = max(peak, power[t])
	}

	first, last := -1, -1
	for t, pw := range power {
		if pw <= utils.Amin || utils.PowerToDB(pw, peak, utils.Amin) <= -opts.TopDB {
			continue
		}
		if first < 0 {
			first = t
		}
		last = t
	}
	if first < 0 {
		return 0, 0, nil
	}

	start := min(first*opts.HopLength, n)
	end := min((last+1)*opts.HopLength, n)
	return start, end, nil
}

// Trim strips leading and trailing silence from p. See NonSilentRange.
func Trim(p *PCM, opts TrimOptions) (*PCM, error) {
	start, end, err := NonSilentRange(p, opts)
	if err != nil {
		return nil, err
	}
	return p.Slice(start, end).Clone(), nil
}
