// SPDX-License-Identifier: EPL-2.0

// Package transform runs one work item through a codec backend.
//
// A backend provides two capabilities: a Prober that reads stream metadata,
// and a Transcoder that loads samples, resamples and encodes. [Transformer]
// drives them in a fixed order (load, resample, trim, encode) and turns
// every error into a [Failure] carried by the returned [Result]; nothing
// escapes a job as a panic or error return.
//
// [Native] implements both capabilities in pure Go over the formats
// packages. The ffmpeg subpackage implements them by running ffprobe and
// ffmpeg.
package transform
