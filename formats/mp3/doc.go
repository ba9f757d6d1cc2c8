// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 decoding and probing.
//
// It uses github.com/hajimehoshi/go-mp3, a pure Go decoder. Output is
// always stereo; mono sources are duplicated into both channels by the
// decoder. Samples are normalized to [-1.0, 1.0).
//
//	f, _ := os.Open("audio.mp3")
//	src, err := mp3.Decoder{}.Decode(f)
//
// ReadHeader derives the frame count from the decoded byte length and
// reports -1 when the stream is not seekable.
package mp3
