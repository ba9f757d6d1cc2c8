// SPDX-License-Identifier: EPL-2.0

package ffmpeg

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ik5/audcorpus/transform"
)

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
}

type ffprobeStream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	Channels   int    `json:"channels"`
	SampleRate string `json:"sample_rate"`
	Duration   string `json:"duration"`
}

// ParseJSON converts ffprobe -print_format json output into an Info for
// the first audio stream. Stream duration is preferred over the container
// duration.
func ParseJSON(data []byte) (transform.Info, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return transform.Info{}, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	for i := range raw.Streams {
		s := &raw.Streams[i]
		if s.CodecType != "audio" {
			continue
		}
		dur := parseFloat(s.Duration)
		if dur <= 0 {
			dur = parseFloat(raw.Format.Duration)
		}
		return transform.Info{
			HasAudioTrack: true,
			DurationSec:   dur,
			SampleRate:    parseInt(s.SampleRate),
			Channels:      s.Channels,
		}, nil
	}
	return transform.Info{DurationSec: parseFloat(raw.Format.Duration)}, nil
}

// ffprobe returns numbers as strings.

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
