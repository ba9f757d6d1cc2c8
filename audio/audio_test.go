// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"sync"
	"testing"
)

// mockCodec is a test codec implementation
type mockCodec struct {
	name string
}

func (d *mockCodec) Decode(io.Reader) (Source, error) {
	return newSilentSource(44100, 2, 100), nil
}

func (d *mockCodec) ReadHeader(io.ReadSeeker) (Header, error) {
	return Header{SampleRate: 44100, Channels: 2, Frames: 100}, nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	codec := &mockCodec{name: "wav"}
	registry.Register("wav", codec)

	got, ok := registry.Get("wav")
	if !ok {
		t.Fatal("Registry.Get() failed to retrieve registered codec")
	}
	if got != codec {
		t.Error("Registry.Get() returned different codec instance")
	}
}

func TestRegistry_KeyNormalization(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	codec := &mockCodec{name: "flac"}
	registry.Register(".FLAC", codec)

	for _, key := range []string{"flac", ".flac", "FLAC", " .Flac "} {
		if got, ok := registry.Get(key); !ok || got != codec {
			t.Errorf("Registry.Get(%q) = %v, %v; want registered codec", key, got, ok)
		}
	}
}

func TestRegistry_ForPath(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	wavCodec := &mockCodec{name: "wav"}
	registry.Register("wav", wavCodec)

	tests := []struct {
		path    string
		want    Codec
		wantErr bool
	}{
		{path: "corpus/a.wav", want: wavCodec},
		{path: "corpus/B.WAV", want: wavCodec},
		{path: "corpus/c.mp3", wantErr: true},
		{path: "corpus/noext", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got, err := registry.ForPath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("ForPath(%q) error = %v, want ErrUnsupportedFormat", tt.path, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ForPath(%q) = %v, %v", tt.path, got, err)
			}
		})
	}
}

func TestRegistry_Formats(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register("ogg", &mockCodec{})
	registry.Register("mp3", &mockCodec{})
	registry.Register("wav", &mockCodec{})

	got := registry.Formats()
	want := []string{"mp3", "ogg", "wav"}
	if len(got) != len(want) {
		t.Fatalf("Formats() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Formats()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			registry.Register("wav", &mockCodec{name: string(rune('a' + i))})
		}()
		go func() {
			defer wg.Done()
			registry.Get("wav")
		}()
	}
	wg.Wait()

	if _, ok := registry.Get("wav"); !ok {
		t.Error("codec missing after concurrent registration")
	}
}

func TestHeader_DurationSec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header Header
		want   float64
	}{
		{name: "known", header: Header{SampleRate: 16000, Frames: 32000}, want: 2},
		{name: "unknown frames", header: Header{SampleRate: 16000, Frames: -1}, want: -1},
		{name: "zero rate", header: Header{Frames: 10}, want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.header.DurationSec(); got != tt.want {
				t.Errorf("DurationSec() = %v, want %v", got, tt.want)
			}
		})
	}
}

func BenchmarkRegistry_Get(b *testing.B) {
	registry := NewRegistry()
	registry.Register("wav", &mockCodec{})

	b.ReportAllocs()
	for range b.N {
		registry.Get("wav")
	}
}
