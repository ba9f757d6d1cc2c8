// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding,
// probing and encoding.
//
// This package uses github.com/go-audio/aiff. AIFF is Apple's standard
// uncompressed format; samples are stored big-endian and the sample rate
// is an 80-bit float, both handled by the underlying library.
//
// # Supported Formats
//
//   - PCM 16, 24 and 32 bit
//   - Mono and multi-channel
//   - Any sample rate
//
// AIFF-C (compressed) files are rejected with ErrNotAiffFile or
// ErrUnsupportedBitDepth depending on how far the header parses.
//
// # Decoding
//
//	f, _ := os.Open("audio.aif")
//	src, err := aiff.Decoder{}.Decode(f)
//
// # Encoding
//
//	out, _ := os.Create("out.aiff")
//	err := aiff.Encode(out, pcm, "PCM_24")
//
// # File Extensions
//
// AIFF files typically use .aif or .aiff.
package aiff
