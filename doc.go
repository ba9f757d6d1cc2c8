// SPDX-License-Identifier: EPL-2.0

// Package audcorpus prepares directories of audio files for use as a
// dataset.
//
// A run walks an input directory, builds one job per matching file, runs the
// jobs on a bounded worker pool and folds the per-file results into corpus
// statistics. Two kinds of run exist:
//
//   - ProbeDir reads duration and sample rate of every file.
//   - TransformDir converts every file (channels, sample rate, container and
//     sample format, optional silence trimming) into a mirrored tree under an
//     output directory and records the run in processing_config.json.
//
// A file that fails never stops the run. It is reported in the statistics
// with the reason it failed.
//
// # Quick Start
//
//	cfg := job.DefaultConfig()
//	cfg.Resample = true
//	cfg.TargetSampleRate = 16000
//	cfg.Trim = true
//
//	report, err := audcorpus.TransformDir(ctx, "raw", "prepared", cfg, audcorpus.Options{})
//	if err != nil {
//		return err
//	}
//	stats.WriteSummary(os.Stdout, report.Stats)
//
// # Backends
//
// Decoding, resampling and encoding go through a transform.Backend. The
// native backend (transform.NewNative) is pure Go and handles WAV, AIFF, MP3
// and Ogg Vorbis input with WAV or AIFF output. The ffmpeg backend
// (transform/ffmpeg) shells out to ffmpeg and ffprobe and covers whatever
// formats those binaries were built with.
//
// # Packages
//
//   - audio: sources, decoders, resampling, channel mixing, silence trimming
//   - formats/...: codecs for WAV, AIFF, MP3 and Ogg Vorbis
//   - corpus: directory scanning
//   - job: run configuration and work items
//   - transform: per-file transform and probe
//   - executor: worker pool
//   - stats: aggregation and the summary report
//   - manifest: the run record written to the output directory
package audcorpus
