// SPDX-License-Identifier: EPL-2.0

// Package stats reduces per-job results into corpus statistics.
//
// Values that have no meaningful definition for a run, such as the mean
// duration of zero successful jobs or the trim ratio when nothing was
// decoded, are reported as an invalid [Optional] that prints "undefined"
// and marshals to JSON null.
package stats
