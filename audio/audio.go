// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Header is the stream metadata available without decoding samples.
type Header struct {
	SampleRate int
	Channels   int
	// BitDepth is 0 for compressed formats.
	BitDepth int
	// Frames per channel, or -1 when the container does not say.
	Frames int64
}

// DurationSec returns the stream length in seconds, or -1 when unknown.
func (h Header) DurationSec() float64 {
	if h.Frames < 0 || h.SampleRate <= 0 {
		return -1
	}
	return float64(h.Frames) / float64(h.SampleRate)
}

// HeaderReader reads stream metadata only.
type HeaderReader interface {
	ReadHeader(r io.ReadSeeker) (Header, error)
}

// Codec is a format that can be both probed and decoded.
type Codec interface {
	Decoder
	HeaderReader
}

// Registry for codecs by format key (e.g., "wav", "mp3", "ogg").
// Keys are case-insensitive and may be given with a leading dot.
type Registry struct {
	codecs map[string]Codec

	mtx sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Codec),
	}
}

func normalizeFormat(format string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
}

func (r *Registry) Register(format string, c Codec) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[normalizeFormat(format)] = c
}

func (r *Registry) Get(format string) (Codec, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	c, ok := r.codecs[normalizeFormat(format)]
	return c, ok
}

// ForPath looks up the codec registered for the extension of path.
func (r *Registry) ForPath(path string) (Codec, error) {
	ext := filepath.Ext(path)
	c, ok := r.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return c, nil
}

// Formats lists the registered keys in sorted order.
func (r *Registry) Formats() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	out := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// AsReadSeeker returns r itself when it can seek, otherwise buffers it in
// memory. The go-audio decoders require seeking.
func AsReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffering input: %w", err)
	}
	return bytes.NewReader(data), nil
}
