// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis decoding and probing using
// github.com/jfreymuth/oggvorbis.
//
// The decoder keeps the stream's native channel layout and sample rate
// and produces interleaved float32 samples.
//
//	f, _ := os.Open("audio.ogg")
//	src, err := vorbis.Decoder{}.Decode(f)
package vorbis
