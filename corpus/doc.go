// SPDX-License-Identifier: EPL-2.0

// Package corpus enumerates the audio files of a directory tree.
//
// Scan walks the tree once, keeps files whose extension is in the accepted
// set and returns them in lexicographic order, so the same filesystem state
// always yields the same list. Unreadable subdirectories and symlink cycles
// are logged and skipped instead of failing the scan.
package corpus
