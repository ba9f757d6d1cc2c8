// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding, probing and encoding.
//
// It uses github.com/go-audio/wav for container parsing and writing.
// Integer PCM at 16, 24 and 32 bits is supported in any channel layout
// and sample rate.
//
// # Decoding
//
//	f, _ := os.Open("audio.wav")
//	src, err := wav.Decoder{}.Decode(f)
//
// # Probing
//
// ReadHeader returns the sample rate, channel count, bit depth and frame
// count without reading the sample data:
//
//	h, err := wav.Decoder{}.ReadHeader(f)
//	fmt.Println(h.DurationSec())
//
// # Encoding
//
// Subtypes use soundfile names ("PCM_16", "PCM_24", "PCM_32"):
//
//	out, _ := os.Create("out.wav")
//	err := wav.Encode(out, pcm, "PCM_16")
package wav
