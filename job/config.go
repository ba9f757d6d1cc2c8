// SPDX-License-Identifier: EPL-2.0

package job

import (
	"strings"
)

// TransformConfig holds the options shared by every item of a run.
// Zero values of TargetSampleRate, Subtype, Codec and Channels mean "not set".
// The on-disk form is the manifest package's record.
type TransformConfig struct {
	Mono             bool
	TargetSampleRate int
	Resample         bool
	Trim             bool
	TopDB            float64
	FrameLength      int
	HopLength        int
	Format           string
	Subtype          string
	Codec            string
	Channels         int
	// OutputExt overrides the extension derived from Format.
	OutputExt string
}

// DefaultConfig returns the defaults of the dataset preparation scripts:
// mono WAV output, no resampling, no trimming, trim parameters top_db=60,
// frame_length=2048, hop_length=512.
func DefaultConfig() TransformConfig {
	return TransformConfig{
		Mono:        true,
		TopDB:       60,
		FrameLength: 2048,
		HopLength:   512,
		Format:      "WAV",
	}
}

// FormatChecker reports what an encoding backend can write.
type FormatChecker interface {
	// CheckFormat returns an error when format or subtype cannot be written.
	CheckFormat(format, subtype string) error
	// SupportsCodec reports whether an explicit codec name is honored.
	SupportsCodec() bool
}

var formatExt = map[string]string{
	"WAV":  ".wav",
	"AIFF": ".aiff",
	"FLAC": ".flac",
	"OGG":  ".ogg",
	"MP3":  ".mp3",
}

// OutputExtension returns the extension given to output files, with a
// leading dot and lowercased.
func (c *TransformConfig) OutputExtension() string {
	if ext := strings.ToLower(strings.TrimSpace(c.OutputExt)); ext != "" {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		return ext
	}
	format := strings.ToUpper(strings.TrimSpace(c.Format))
	if ext, ok := formatExt[format]; ok {
		return ext
	}
	return "." + strings.ToLower(format)
}

// OutputChannels returns the channel count requested for output, or 0 to
// keep the source layout.
func (c *TransformConfig) OutputChannels() int {
	if c.Mono {
		return 1
	}
	return c.Channels
}

// Validate rejects invalid option combinations. caps may be nil, in which
// case format, subtype and codec are not checked.
func (c *TransformConfig) Validate(caps FormatChecker) error {
	switch {
	case c.TargetSampleRate < 0:
		return &ConfigError{Field: "sr", Reason: "must not be negative"}
	case c.Resample && c.TargetSampleRate == 0:
		return &ConfigError{Field: "sr", Reason: "resampling requires a target sample rate"}
	case c.Channels < 0:
		return &ConfigError{Field: "ac", Reason: "must not be negative"}
	case c.Mono && c.Channels > 1:
		return &ConfigError{Field: "ac", Reason: "mono output contradicts more than one channel"}
	case strings.TrimSpace(c.Format) == "":
		return &ConfigError{Field: "format", Reason: "must not be empty"}
	}

	if c.Trim {
		switch {
		case c.TopDB <= 0:
			return &ConfigError{Field: "top_db", Reason: "must be positive"}
		case c.FrameLength < 1:
			return &ConfigError{Field: "frame_length", Reason: "must be at least 1"}
		case c.HopLength < 1:
			return &ConfigError{Field: "hop_length", Reason: "must be at least 1"}
		}
	}

	if ext := c.OutputExtension(); ext == "." || strings.ContainsAny(ext, `/\`) {
		return &ConfigError{Field: "ext", Reason: "invalid output extension " + ext}
	}

	if caps == nil {
		return nil
	}
	if err := caps.CheckFormat(c.Format, c.Subtype); err != nil {
		return &ConfigError{Field: "format", Reason: err.Error()}
	}
	if c.Codec != "" && !caps.SupportsCodec() {
		return &ConfigError{Field: "codec", Reason: "backend does not support explicit codecs"}
	}
	return nil
}
