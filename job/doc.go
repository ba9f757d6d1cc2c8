// SPDX-License-Identifier: EPL-2.0

// Package job turns scanned input paths into immutable work items.
//
// A run starts from one TransformConfig, validated once with
// [TransformConfig.Validate] before anything is dispatched. [Build] maps
// one input to its output path under the output root; [BuildAll] does the
// same for a whole scan and guarantees that no two items share an output
// path. Every WorkItem references the same read-only config.
package job
