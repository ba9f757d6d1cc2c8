// SPDX-License-Identifier: EPL-2.0

package stats

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// WriteSummary prints a human readable report of s.
func WriteSummary(w io.Writer, s CorpusStats) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Total input audiofiles: %d\n", s.TotalFiles)
	fmt.Fprintf(bw, "Succeeded: %d\n", s.Succeeded)
	fmt.Fprintf(bw, "Failed: %d\n", s.Failed)
	for _, f := range s.Failures {
		fmt.Fprintf(bw, "  [%s] %s: %s\n", f.Kind, f.InputPath, f.Message)
	}

	fmt.Fprintf(bw, "Total dur: %.1fmin\n", s.TotalDurationSec/60)
	fmt.Fprintf(bw, "Total dur: %.1fhours\n", s.TotalDurationSec/3600)
	fmt.Fprintf(bw, "Max dur: %s\n", seconds(s.MaxDurationSec))
	fmt.Fprintf(bw, "Min dur: %s\n", seconds(s.MinDurationSec))
	fmt.Fprintf(bw, "Mean dur: %s\n", seconds(s.MeanDurationSec))
	fmt.Fprintf(bw, "Sampling rates: %s\n", histogram(s.SampleRateHistogram))

	if s.TrimEnabled {
		if s.TrimRatioPercent.Valid {
			fmt.Fprintf(bw, "Total trimmed audio: %.1f%%\n", s.TrimRatioPercent.Value)
		} else {
			fmt.Fprintln(bw, "Total trimmed audio: undefined")
		}
	}

	for _, warn := range s.Warnings {
		fmt.Fprintf(bw, "Warning: %s\n", warn)
	}
	return bw.Flush()
}

func seconds(o Optional) string {
	if !o.Valid {
		return o.String()
	}
	return o.Fixed(2) + "sec"
}

func histogram(h map[int]int) string {
	parts := make([]string, 0, len(h))
	for _, rate := range slices.Sorted(maps.Keys(h)) {
		parts = append(parts, fmt.Sprintf("%d: %d", rate, h[rate]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
