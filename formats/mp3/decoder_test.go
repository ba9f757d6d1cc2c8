// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audcorpus/audio"
)

// mockMP3Reader simulates the gomp3.Decoder for testing
type mockMP3Reader struct {
	sampleRate int
	data       []byte
	offset     int
	// chunk limits each Read; 0 means unlimited.
	chunk int
	err   error
}

func newMock(rate int, samples []int16) *mockMP3Reader {
	data := make([]byte, len(samples)*2)
	for i, v := range samples {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(v))
	}
	return &mockMP3Reader{sampleRate: rate, data: data}
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.offset >= len(m.data) {
		return 0, io.EOF
	}

	n := len(buf)
	if m.chunk > 0 && n > m.chunk {
		n = m.chunk
	}
	n = copy(buf[:n], m.data[m.offset:])
	m.offset += n
	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for name, data := range map[string][]byte{
		"text":  []byte("This is not MP3 data"),
		"empty": {},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(data))
			if !errors.Is(err, ErrNotMP3File) {
				t.Errorf("Decode() error = %v, want ErrNotMP3File", err)
			}
		})
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := newSource(newMock(44100, nil))
	if src.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", src.SampleRate())
	}
	if src.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", src.Channels())
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestSource_ReadAll(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 16384, -16384, 32767, -32768, 8192}
	pcm, err := audio.ReadAll(newSource(newMock(22050, samples)))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	want := []float32{0, 0.5, -0.5, 32767.0 / 32768.0, -1, 0.25}
	if len(pcm.Samples) != len(want) {
		t.Fatalf("len = %d, want %d", len(pcm.Samples), len(want))
	}
	for i := range want {
		if pcm.Samples[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, pcm.Samples[i], want[i])
		}
	}
	if pcm.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", pcm.Frames())
	}
}

func TestSource_OddByteReads(t *testing.T) {
	t.Parallel()

	samples := []int16{1000, -1000, 2000, -2000, 3000, -3000, 4000, -4000}
	m := newMock(8000, samples)
	m.chunk = 3

	src := newSource(m)
	var got []float32
	buf := make([]float32, 4)
	for {
		n, err := src.ReadSamples(buf)
		got = append(got, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if len(got) != len(samples) {
		t.Fatalf("got %d samples, want %d", len(got), len(samples))
	}
	for i, v := range samples {
		if want := float32(v) / 32768.0; got[i] != want {
			t.Errorf("sample %d = %v, want %v", i, got[i], want)
		}
	}
}

func TestSource_EmptyBuffer(t *testing.T) {
	t.Parallel()

	n, err := newSource(newMock(8000, []int16{1, 2})).ReadSamples(nil)
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v; want 0, nil", n, err)
	}
}

func TestSource_DecodeError(t *testing.T) {
	t.Parallel()

	m := newMock(8000, nil)
	m.err = io.ErrUnexpectedEOF

	_, err := newSource(m).ReadSamples(make([]float32, 16))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want ErrUnexpectedEOF", err)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	samples := make([]int16, 44100*2)
	for i := range samples {
		samples[i] = int16(i)
	}
	buf := make([]float32, 4096)

	b.ResetTimer()
	for b.Loop() {
		src := newSource(newMock(44100, samples))
		for {
			if _, err := src.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
