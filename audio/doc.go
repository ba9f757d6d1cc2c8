// SPDX-License-Identifier: EPL-2.0

// Package audio provides the in-memory signal primitives used by the
// corpus transform pipeline.
//
// This package contains:
//   - Source and Decoder interfaces for audio input
//   - Header and HeaderReader for metadata-only probing
//   - Registry for codec lookup by file extension
//   - PCM, a fully decoded interleaved float32 signal
//   - Resample for sample rate conversion
//   - MixToMono and MixChannels for channel conversion
//   - Trim for leading/trailing silence removal
//
// # Sample Format
//
// Samples are float32 in the range [-1.0, 1.0], interleaved by channel.
// A frame is one sample per channel; lengths reported by this package
// (Frames, trim ranges) are always in frames.
//
// # Processing Order
//
// Trim parameters are expressed in samples, so they depend on the rate of
// the signal being analysed. Resample first, then trim:
//
//	pcm, _ := audio.ReadAll(src)
//	pcm, _ = audio.Resample(pcm, 16000)
//	pcm, _ = audio.Trim(pcm, audio.DefaultTrimOptions())
//
// # Format Registry
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	codec, err := registry.ForPath("speech/0001.WAV")
//
// # Error Handling
//
// Sources return io.EOF when no more data is available. Other errors
// indicate problems with the source; ReadAll wraps them.
package audio
