// SPDX-License-Identifier: EPL-2.0

package transform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/audcorpus/audio"
	"github.com/ik5/audcorpus/formats/aiff"
	"github.com/ik5/audcorpus/formats/mp3"
	"github.com/ik5/audcorpus/formats/vorbis"
	"github.com/ik5/audcorpus/formats/wav"
)

// ErrUnsupportedOutput is returned for output formats Native cannot write.
var ErrUnsupportedOutput = errors.New("unsupported output format")

// DefaultRegistry returns the decoders shipped with this module, keyed by
// file extension.
func DefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	return r
}

// Native is a pure Go backend. It decodes through an audio.Registry,
// resamples with audio.Resample and writes WAV or AIFF.
type Native struct {
	codecs *audio.Registry
}

// NewNative returns a Native backend over DefaultRegistry.
func NewNative() *Native {
	return &Native{codecs: DefaultRegistry()}
}

// NewNativeWithRegistry returns a Native backend over r.
func NewNativeWithRegistry(r *audio.Registry) *Native {
	return &Native{codecs: r}
}

func (*Native) Name() string { return "native" }

// CheckFormat accepts WAV and AIFF with PCM_16, PCM_24 or PCM_32.
func (*Native) CheckFormat(format, subtype string) error {
	switch strings.ToUpper(strings.TrimSpace(format)) {
	case "WAV":
		_, err := wav.BitDepth(subtype)
		return err
	case "AIFF", "AIF":
		_, err := aiff.BitDepth(subtype)
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedOutput, format)
	}
}

func (*Native) SupportsCodec() bool { return false }

// CanDecode reports whether a decoder is registered for the extension of
// path.
func (n *Native) CanDecode(path string) bool {
	_, err := n.codecs.ForPath(path)
	return err == nil
}

func (n *Native) open(path string) (*os.File, audio.Codec, error) {
	codec, err := n.codecs.ForPath(path)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, codec, nil
}

func (n *Native) decode(path string) (*audio.PCM, error) {
	f, codec, err := n.open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, err := codec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	defer src.Close()

	pcm, err := audio.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return pcm, nil
}

// Load decodes path completely and applies the channel layout in opts.
func (n *Native) Load(ctx context.Context, path string, opts LoadOptions) (*audio.PCM, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pcm, err := n.decode(path)
	if err != nil {
		return nil, err
	}

	switch {
	case opts.Mono:
		return audio.MixToMono(pcm), nil
	case opts.Channels > 0:
		return audio.MixChannels(pcm, opts.Channels)
	default:
		return pcm, nil
	}
}

func (*Native) Resample(ctx context.Context, pcm *audio.PCM, rate int) (*audio.PCM, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return audio.Resample(pcm, rate)
}

// Encode writes pcm to a temporary file next to path and renames it into
// place, so a failed job never leaves a truncated output behind.
func (*Native) Encode(ctx context.Context, pcm *audio.PCM, path string, opts EncodeOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var encode func(io.WriteSeeker, *audio.PCM, string) error
	switch strings.ToUpper(strings.TrimSpace(opts.Format)) {
	case "WAV":
		encode = wav.Encode
	case "AIFF", "AIF":
		encode = aiff.Encode
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedOutput, opts.Format)
	}

	if opts.Channels > 0 && opts.Channels != pcm.Channels {
		var err error
		if pcm, err = audio.MixChannels(pcm, opts.Channels); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.part")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := encode(tmp, pcm, opts.Subtype); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Probe reads the container header. When the header carries no length,
// as with some Ogg streams, the file is decoded to count frames.
func (n *Native) Probe(ctx context.Context, path string) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}

	f, codec, err := n.open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	h, err := codec.ReadHeader(f)
	if err != nil {
		return Info{}, fmt.Errorf("read header %s: %w", path, err)
	}

	info := Info{
		HasAudioTrack: h.Channels > 0 && h.SampleRate > 0,
		DurationSec:   h.DurationSec(),
		SampleRate:    h.SampleRate,
		Channels:      h.Channels,
	}
	if info.HasAudioTrack && info.DurationSec < 0 {
		pcm, err := n.decode(path)
		if err != nil {
			return Info{}, err
		}
		info.DurationSec = pcm.DurationSec()
	}
	return info, nil
}
