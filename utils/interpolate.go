// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// CubicInterpolate evaluates a Catmull-Rom spline through four consecutive
// samples at fractional position x between y1 (x=0) and y2 (x=1).
func CubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	a3 := y1

	return ((a0*x+a1)*x+a2)*x + a3
}

// Sinc is the normalized sinc function sin(pi x)/(pi x).
func Sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// LowPassKernel builds a Blackman-windowed sinc FIR with the given number of
// taps (forced odd) and cutoff as a fraction of the sample rate (0, 0.5].
// The kernel is normalized to unity DC gain.
func LowPassKernel(cutoff float64, taps int) []float32 {
	if taps < 1 {
		taps = 1
	}
	if taps%2 == 0 {
		taps++
	}
	if cutoff <= 0 || cutoff > 0.5 {
		cutoff = 0.5
	}

	kernel := make([]float32, taps)
	mid := taps / 2
	var sum float64
	for i := range taps {
		n := float64(i - mid)
		w := 1.0
		if taps > 1 {
			phase := 2 * math.Pi * float64(i) / float64(taps-1)
			w = 0.42 - 0.5*math.Cos(phase) + 0.08*math.Cos(2*phase)
		}
		v := 2 * cutoff * Sinc(2*cutoff*n) * w
		kernel[i] = float32(v)
		sum += v
	}

	if sum != 0 {
		for i := range kernel {
			kernel[i] = float32(float64(kernel[i]) / sum)
		}
	}
	return kernel
}
