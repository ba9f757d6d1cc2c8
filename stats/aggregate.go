// SPDX-License-Identifier: EPL-2.0

package stats

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/ik5/audcorpus/transform"
)

// CorpusStats summarizes one run.
type CorpusStats struct {
	TotalFiles          int                 `json:"total_files"`
	Succeeded           int                 `json:"succeeded"`
	Failed              int                 `json:"failed"`
	TotalDurationSec    float64             `json:"total_duration_sec"`
	MinDurationSec      Optional            `json:"min_duration_sec"`
	MaxDurationSec      Optional            `json:"max_duration_sec"`
	MeanDurationSec     Optional            `json:"mean_duration_sec"`
	SampleRateHistogram map[int]int         `json:"sample_rate_histogram"`
	TrimEnabled         bool                `json:"trim_enabled"`
	TrimRatioPercent    Optional            `json:"trim_ratio_percent"`
	Failures            []transform.Failure `json:"failures"`
	Warnings            []string            `json:"warnings,omitempty"`
}

// Accumulator builds CorpusStats incrementally. Results may be added in
// any order; it is not safe for concurrent use.
type Accumulator struct {
	trim        bool
	total       int
	succeeded   int
	durSum      float64
	durMin      float64
	durMax      float64
	hist        map[int]int
	missingRate int
	before      int64
	after       int64
	failures    []transform.Failure
}

// NewAccumulator returns an empty Accumulator. trimEnabled selects whether
// a trim ratio is computed.
func NewAccumulator(trimEnabled bool) *Accumulator {
	return &Accumulator{
		trim:   trimEnabled,
		durMin: math.Inf(1),
		durMax: math.Inf(-1),
		hist:   make(map[int]int),
	}
}

// Add folds one result into the totals.
func (a *Accumulator) Add(r transform.Result) {
	a.total++
	if !r.OK() {
		a.failures = append(a.failures, *r.Err)
		return
	}

	a.succeeded++
	a.durSum += r.DurationSec
	a.durMin = min(a.durMin, r.DurationSec)
	a.durMax = max(a.durMax, r.DurationSec)

	if r.SampleRate > 0 {
		a.hist[r.SampleRate]++
	} else {
		a.missingRate++
	}

	a.before += int64(r.SamplesBeforeTrim)
	a.after += int64(r.SamplesAfterTrim)
}

// Stats returns the statistics of everything added so far.
func (a *Accumulator) Stats() CorpusStats {
	s := CorpusStats{
		TotalFiles:          a.total,
		Succeeded:           a.succeeded,
		Failed:              len(a.failures),
		TotalDurationSec:    a.durSum,
		SampleRateHistogram: make(map[int]int, len(a.hist)),
		TrimEnabled:         a.trim,
		Failures:            slices.Clone(a.failures),
	}
	for rate, n := range a.hist {
		s.SampleRateHistogram[rate] = n
	}
	slices.SortFunc(s.Failures, func(x, y transform.Failure) int {
		return strings.Compare(x.InputPath, y.InputPath)
	})

	if a.succeeded > 0 {
		s.MinDurationSec = Some(a.durMin)
		s.MaxDurationSec = Some(a.durMax)
		s.MeanDurationSec = Some(a.durSum / float64(a.succeeded))
	} else {
		s.Warnings = append(s.Warnings, "no successful results: duration statistics undefined")
	}

	if a.missingRate > 0 {
		s.Warnings = append(s.Warnings,
			fmt.Sprintf("%d successful results had no sample rate and are missing from the histogram", a.missingRate))
	}

	if a.trim {
		if a.before > 0 {
			s.TrimRatioPercent = Some((1 - float64(a.after)/float64(a.before)) * 100)
		} else {
			s.Warnings = append(s.Warnings, "no samples before trimming: trim ratio undefined")
		}
	}
	return s
}

// Aggregate reduces a full result set. Results are folded in input path
// order so the floating point totals do not depend on completion order.
func Aggregate(results []transform.Result, trimEnabled bool) CorpusStats {
	sorted := slices.Clone(results)
	slices.SortStableFunc(sorted, func(x, y transform.Result) int {
		return strings.Compare(x.InputPath, y.InputPath)
	})

	acc := NewAccumulator(trimEnabled)
	for _, r := range sorted {
		acc.Add(r)
	}
	return acc.Stats()
}
