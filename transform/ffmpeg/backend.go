// SPDX-License-Identifier: EPL-2.0

package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ik5/audcorpus/audio"
	"github.com/ik5/audcorpus/transform"
)

var (
	ErrUnsupportedFormat  = errors.New("unsupported output format")
	ErrUnsupportedSubtype = errors.New("unsupported subtype for format")
	ErrShortOutput        = errors.New("truncated ffmpeg output")
)

// muxers maps output format names to ffmpeg muxers.
var muxers = map[string]string{
	"WAV":  "wav",
	"AIFF": "aiff",
	"FLAC": "flac",
	"OGG":  "ogg",
	"MP3":  "mp3",
	"M4A":  "ipod",
	"CAF":  "caf",
}

// subtypeCodecs maps soundfile subtypes to PCM encoders per format.
var subtypeCodecs = map[string]map[string]string{
	"WAV": {
		"PCM_U8": "pcm_u8",
		"PCM_16": "pcm_s16le",
		"PCM_24": "pcm_s24le",
		"PCM_32": "pcm_s32le",
		"FLOAT":  "pcm_f32le",
		"DOUBLE": "pcm_f64le",
	},
	"AIFF": {
		"PCM_S8": "pcm_s8",
		"PCM_16": "pcm_s16be",
		"PCM_24": "pcm_s24be",
		"PCM_32": "pcm_s32be",
		"FLOAT":  "pcm_f32be",
		"DOUBLE": "pcm_f64be",
	},
}

// Backend runs ffprobe and ffmpeg.
type Backend struct {
	ffmpeg  string
	ffprobe string
	runner  Runner
}

// Option configures a Backend.
type Option func(*Backend)

// FFmpegPath sets the ffmpeg binary.
func FFmpegPath(p string) Option { return func(b *Backend) { b.ffmpeg = p } }

// FFprobePath sets the ffprobe binary.
func FFprobePath(p string) Option { return func(b *Backend) { b.ffprobe = p } }

// WithRunner replaces the command runner.
func WithRunner(r Runner) Option { return func(b *Backend) { b.runner = r } }

// New returns a Backend using "ffmpeg" and "ffprobe" from PATH.
func New(opts ...Option) *Backend {
	b := &Backend{ffmpeg: "ffmpeg", ffprobe: "ffprobe", runner: ExecRunner{}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (*Backend) Name() string { return "ffmpeg" }

func (*Backend) SupportsCodec() bool { return true }

func formatKey(format string) string {
	return strings.ToUpper(strings.TrimSpace(format))
}

// CheckFormat accepts the formats in muxers. Subtypes are only meaningful
// for the PCM containers.
func (*Backend) CheckFormat(format, subtype string) error {
	key := formatKey(format)
	if _, ok := muxers[key]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if subtype == "" {
		return nil
	}
	if _, ok := subtypeCodecs[key][strings.ToUpper(subtype)]; !ok {
		return fmt.Errorf("%w: %q for %s", ErrUnsupportedSubtype, subtype, key)
	}
	return nil
}

func (b *Backend) Probe(ctx context.Context, path string) (transform.Info, error) {
	var out bytes.Buffer
	err := b.runner.Run(ctx, Command{
		Name: b.ffprobe,
		Args: []string{
			"-v", "quiet",
			"-print_format", "json",
			"-show_format", "-show_streams",
			path,
		},
		Stdout: &out,
	})
	if err != nil {
		return transform.Info{}, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	return ParseJSON(out.Bytes())
}

// Load probes path for its layout, then decodes the first audio stream to
// f32le at its native rate.
func (b *Backend) Load(ctx context.Context, path string, opts transform.LoadOptions) (*audio.PCM, error) {
	info, err := b.Probe(ctx, path)
	if err != nil {
		return nil, err
	}
	if !info.HasAudioTrack || info.SampleRate <= 0 {
		return nil, transform.ErrNoAudioTrack
	}

	channels := info.Channels
	switch {
	case opts.Mono:
		channels = 1
	case opts.Channels > 0:
		channels = opts.Channels
	}
	if channels < 1 {
		return nil, audio.ErrInvalidChannels
	}

	var out bytes.Buffer
	err = b.runner.Run(ctx, Command{
		Name: b.ffmpeg,
		Args: []string{
			"-v", "error", "-nostdin",
			"-i", path,
			"-map", "0:a:0",
			"-ac", strconv.Itoa(channels),
			"-f", "f32le", "-acodec", "pcm_f32le",
			"pipe:1",
		},
		Stdout: &out,
	})
	if err != nil {
		return nil, fmt.Errorf("ffmpeg decode %q: %w", path, err)
	}
	return decodeF32LE(out.Bytes(), info.SampleRate, channels)
}

func rawInputArgs(p *audio.PCM) []string {
	return []string{
		"-f", "f32le",
		"-ar", strconv.Itoa(p.SampleRate),
		"-ac", strconv.Itoa(p.Channels),
		"-i", "pipe:0",
	}
}

// Resample converts p to rate with the soxr resampler.
func (b *Backend) Resample(ctx context.Context, p *audio.PCM, rate int) (*audio.PCM, error) {
	if rate <= 0 || p.SampleRate <= 0 {
		return nil, audio.ErrInvalidSampleRate
	}
	if len(p.Samples) == 0 {
		return &audio.PCM{SampleRate: rate, Channels: p.Channels}, nil
	}

	args := append([]string{"-v", "error"}, rawInputArgs(p)...)
	args = append(args,
		"-af", "aresample=resampler=soxr",
		"-ar", strconv.Itoa(rate),
		"-f", "f32le", "-acodec", "pcm_f32le",
		"pipe:1",
	)

	var out bytes.Buffer
	err := b.runner.Run(ctx, Command{
		Name:   b.ffmpeg,
		Args:   args,
		Stdin:  bytes.NewReader(encodeF32LE(p.Samples)),
		Stdout: &out,
	})
	if err != nil {
		return nil, fmt.Errorf("ffmpeg resample: %w", err)
	}
	return decodeF32LE(out.Bytes(), rate, p.Channels)
}

// Encode pipes p into ffmpeg and writes path. An explicit codec wins over
// the codec implied by the subtype. Output is written with -bitexact so
// identical input gives identical bytes. ffmpeg writes a temporary file in
// the destination directory that is renamed to path on success.
func (b *Backend) Encode(ctx context.Context, p *audio.PCM, path string, opts transform.EncodeOptions) error {
	key := formatKey(opts.Format)
	muxer, ok := muxers[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, opts.Format)
	}

	codec := opts.Codec
	if codec == "" && opts.Subtype != "" {
		if codec, ok = subtypeCodecs[key][strings.ToUpper(opts.Subtype)]; !ok {
			return fmt.Errorf("%w: %q for %s", ErrUnsupportedSubtype, opts.Subtype, key)
		}
	}

	args := append([]string{"-v", "error", "-y"}, rawInputArgs(p)...)
	if codec != "" {
		args = append(args, "-c:a", codec)
	}
	if opts.Channels > 0 {
		args = append(args, "-ac", strconv.Itoa(opts.Channels))
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.part")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpName)

	args = append(args,
		"-ar", strconv.Itoa(p.SampleRate),
		"-map_metadata", "-1",
		"-bitexact",
		"-f", muxer,
		tmpName,
	)

	err = b.runner.Run(ctx, Command{
		Name:  b.ffmpeg,
		Args:  args,
		Stdin: bytes.NewReader(encodeF32LE(p.Samples)),
	})
	if err != nil {
		return fmt.Errorf("ffmpeg encode %q: %w", path, err)
	}
	return os.Rename(tmpName, path)
}
