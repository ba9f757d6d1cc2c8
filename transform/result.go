// SPDX-License-Identifier: EPL-2.0

package transform

import (
	"fmt"
)

// ErrorKind classifies a per-job failure.
type ErrorKind string

const (
	// UnreadableSource means the input could not be probed or decoded, or
	// it has no audio track.
	UnreadableSource ErrorKind = "UnreadableSource"
	// EncodeError means resampling, trimming or writing the output failed.
	EncodeError ErrorKind = "EncodeError"
	// Crash means the job panicked.
	Crash ErrorKind = "Crash"
	// Canceled means the run was aborted before or while the job ran.
	Canceled ErrorKind = "Canceled"
)

// Failure identifies a failed job and why it failed.
type Failure struct {
	InputPath string    `json:"input_path"`
	Kind      ErrorKind `json:"kind"`
	Message   string    `json:"message"`
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s: %s", f.InputPath, f.Kind, f.Message)
}

// Result is the outcome of one job. Err is nil on success. Probe runs fill
// DurationSec and SampleRate only; transform runs fill every field.
type Result struct {
	InputPath         string   `json:"input_path"`
	OutputPath        string   `json:"output_path,omitempty"`
	SamplesBeforeTrim int      `json:"samples_before_trim"`
	SamplesAfterTrim  int      `json:"samples_after_trim"`
	DurationSec       float64  `json:"duration_sec"`
	SampleRate        int      `json:"sample_rate"`
	Err               *Failure `json:"error,omitempty"`
}

// OK reports whether the job succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Failed builds a failure result for input.
func Failed(input string, kind ErrorKind, err error) Result {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return Result{
		InputPath: input,
		Err:       &Failure{InputPath: input, Kind: kind, Message: msg},
	}
}
