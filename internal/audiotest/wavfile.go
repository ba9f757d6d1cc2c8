// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
)

// WriteWAV writes interleaved samples as a 16-bit PCM WAV file at path,
// creating parent directories.
func WriteWAV(tb testing.TB, path string, sampleRate, channels int, samples []float32) {
	tb.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		tb.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	data := make([]int, len(samples))
	for i, x := range samples {
		v := math.Max(-1, math.Min(1, float64(x)))
		data[i] = int(v * math.MaxInt16)
	}

	enc := gowav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	if err := enc.Close(); err != nil {
		tb.Fatalf("close %s: %v", path, err)
	}
}

// WriteToneWAV writes seconds of a 440 Hz mono tone.
func WriteToneWAV(tb testing.TB, path string, sampleRate int, seconds float64) {
	tb.Helper()
	WriteWAV(tb, path, sampleRate, 1, Tone(sampleRate, int(seconds*float64(sampleRate)), 440, 0.5))
}

// WriteFile writes raw bytes, for corrupted or non-audio fixtures.
func WriteFile(tb testing.TB, path string, data []byte) {
	tb.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
}
