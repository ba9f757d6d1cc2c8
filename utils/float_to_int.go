// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// FullScale returns the magnitude of the largest negative integer sample
// for bitDepth, i.e. 2^(bitDepth-1). Unknown depths fall back to 16-bit.
func FullScale(bitDepth int) float64 {
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		bitDepth = 16
	}
	return float64(int64(1) << (bitDepth - 1))
}

// FloatToPCM converts a normalized sample in [-1,1] to a signed integer
// sample of bitDepth bits. Out-of-range input is clamped first.
func FloatToPCM(x float32, bitDepth int) int {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// Positive max is scale-1 to avoid overflow at +1.0
	scale := FullScale(bitDepth) - 1
	return int(float64(x) * scale)
}

// PCMToFloat converts a signed integer sample of bitDepth bits to float32.
func PCMToFloat(v int, bitDepth int) float32 {
	return float32(float64(v) / FullScale(bitDepth))
}

// Float32ToInt16 is FloatToPCM for 16-bit output.
func Float32ToInt16(x float32) int16 {
	return int16(FloatToPCM(x, 16))
}

// Amin is the power floor used when converting to decibels.
const Amin = 1e-10

// PowerToDB converts a power value to decibels relative to ref, flooring
// both at amin so silence does not produce -Inf.
func PowerToDB(power, ref, amin float64) float64 {
	return 10*math.Log10(math.Max(amin, power)) - 10*math.Log10(math.Max(amin, ref))
}
