// SPDX-License-Identifier: EPL-2.0

// Package ffmpeg implements the transform capabilities by running the
// ffprobe and ffmpeg binaries.
//
// Probing makes one ffprobe JSON call per file. Loading decodes the first
// audio stream to raw little-endian float32 on a pipe; resampling feeds
// samples back through ffmpeg's soxr resampler; encoding pipes samples
// into ffmpeg with the requested muxer, codec and channel count. Every
// command is started with exec.CommandContext, so cancelling the run
// context kills in-flight children.
//
// There is no per-call timeout: a stuck ffmpeg process blocks its worker
// until the run context is cancelled.
package ffmpeg
