// SPDX-License-Identifier: EPL-2.0

// Command audcorpus probes or transforms a directory of audio files.
//
//	audcorpus probe <input_dir> [flags]
//	audcorpus transform <input_dir> <output_dir> [flags]
//
// It exits 0 when the run completes, even if some files failed or the
// manifest could not be written, 2 on usage or configuration errors and 1
// when the run could not be set up.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ik5/audcorpus"
	"github.com/ik5/audcorpus/corpus"
	"github.com/ik5/audcorpus/internal/logging"
	"github.com/ik5/audcorpus/job"
	"github.com/ik5/audcorpus/stats"
	"github.com/ik5/audcorpus/transform"
	"github.com/ik5/audcorpus/transform/ffmpeg"
)

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || isHelp(args[0]) {
		printUsage(stdout)
		return exitOK
	}

	switch args[0] {
	case "probe":
		return probeCmd(ctx, args[1:], stdout, stderr)
	case "transform":
		return transformCmd(ctx, args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		printUsage(stderr)
		return exitUsage
	}
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `usage:
  audcorpus probe <input_dir> [flags]
  audcorpus transform <input_dir> <output_dir> [flags]

commands:
  probe      report duration and sample rate statistics
  transform  convert every file into a mirrored output tree

Run "audcorpus <command> -h" for the flags of a command.
`)
}

// listFlag collects extensions given as repeated flags or comma separated
// values. The first Set replaces the default.
type listFlag struct {
	values []string
	set    bool
}

func (l *listFlag) String() string { return strings.Join(l.values, ",") }

func (l *listFlag) Set(s string) error {
	if !l.set {
		l.values, l.set = nil, true
	}
	for _, v := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		l.values = append(l.values, v)
	}
	return nil
}

// common holds the flags shared by both commands.
type common struct {
	workers        int
	backend        string
	jsonOut        bool
	followSymlinks bool
	logLevel       string
	logFile        string
	logFormat      string
	ffmpegBin      string
	ffprobeBin     string
}

func (c *common) register(fs *flag.FlagSet) {
	fs.IntVar(&c.workers, "worker", audcorpus.DefaultWorkers, "number of parallel workers")
	fs.StringVar(&c.backend, "backend", "native", "processing backend: native or ffmpeg")
	fs.BoolVar(&c.jsonOut, "json", false, "print the report as JSON")
	fs.BoolVar(&c.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
	fs.StringVar(&c.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	fs.StringVar(&c.logFile, "log-file", "", "also append logs to this file")
	fs.StringVar(&c.logFormat, "log-format", "text", "log format: text or json")
	fs.StringVar(&c.ffmpegBin, "ffmpeg", "ffmpeg", "ffmpeg binary for the ffmpeg backend")
	fs.StringVar(&c.ffprobeBin, "ffprobe", "ffprobe", "ffprobe binary for the ffmpeg backend")
}

// setup builds the logger and backend. The returned code is non-zero on
// failure.
func (c *common) setup(stderr io.Writer) (*slog.Logger, func() error, transform.Backend, int) {
	if _, err := logging.ParseLevel(c.logLevel); err != nil {
		fmt.Fprintf(stderr, "invalid flag: %v\n", err)
		return nil, nil, nil, exitUsage
	}
	logger, closeLog, err := logging.New(logging.Options{
		Level:  c.logLevel,
		File:   c.logFile,
		Format: c.logFormat,
		Output: stderr,
	})
	if err != nil {
		fmt.Fprintf(stderr, "logging: %v\n", err)
		if errors.Is(err, logging.ErrUnknownFormat) {
			return nil, nil, nil, exitUsage
		}
		return nil, nil, nil, exitFatal
	}

	var backend transform.Backend
	if c.backend == "ffmpeg" {
		backend = ffmpeg.New(ffmpeg.FFmpegPath(c.ffmpegBin), ffmpeg.FFprobePath(c.ffprobeBin))
	} else {
		backend, err = audcorpus.NewBackend(c.backend)
	}
	if err != nil {
		_ = closeLog()
		fmt.Fprintf(stderr, "invalid flag: %v\n", err)
		return nil, nil, nil, exitUsage
	}
	return logger, closeLog, backend, exitOK
}

func (c *common) options(logger *slog.Logger, backend transform.Backend, exts []string) audcorpus.Options {
	return audcorpus.Options{
		Backend:        backend,
		Workers:        c.workers,
		Extensions:     exts,
		FollowSymlinks: c.followSymlinks,
		Logger:         logger,
		Observer:       newProgressLogger(logger),
	}
}

// parse accepts flags before, between and after the positional arguments.
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func newFlagSet(name, usage string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: audcorpus %s\n\nflags:\n", usage)
		fs.PrintDefaults()
	}
	return fs
}

func probeCmd(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("probe", "probe <input_dir> [flags]", stderr)
	var c common
	c.register(fs)
	exts := &listFlag{values: corpus.DefaultExtensions}
	fs.Var(exts, "ext", "input extensions, comma separated or repeated")

	pos, err := parse(fs, args)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		return exitUsage
	}
	if len(pos) != 1 {
		fmt.Fprintf(stderr, "probe takes one input directory, got %d arguments\n", len(pos))
		fs.Usage()
		return exitUsage
	}

	logger, closeLog, backend, code := c.setup(stderr)
	if code != exitOK {
		return code
	}
	defer closeLog()

	started := time.Now()
	report, err := audcorpus.ProbeDir(ctx, pos[0], c.options(logger, backend, exts.values))
	if err != nil {
		logger.Error("probe failed", "error", err)
		return exitFatal
	}
	logger.Info("probe finished", "files", report.Stats.TotalFiles, "elapsed", time.Since(started).Round(time.Millisecond))

	return emit(stdout, stderr, c.jsonOut, report)
}

func transformCmd(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("transform", "transform <input_dir> <output_dir> [flags]", stderr)
	var c common
	c.register(fs)

	cfg := job.DefaultConfig()
	exts := &listFlag{values: corpus.DefaultExtensions}
	fs.Var(exts, "input-ext", "input extensions, comma separated or repeated")
	fs.StringVar(&cfg.OutputExt, "ext", "", "output file extension (default derived from -format)")
	fs.BoolVar(&cfg.Mono, "mono", cfg.Mono, "mix down to one channel")
	fs.BoolVar(&cfg.Resample, "resample", cfg.Resample, "resample to -sr")
	fs.IntVar(&cfg.TargetSampleRate, "sr", cfg.TargetSampleRate, "target sample rate in Hz")
	fs.BoolVar(&cfg.Trim, "trim", cfg.Trim, "trim leading and trailing silence")
	fs.Float64Var(&cfg.TopDB, "top-db", cfg.TopDB, "silence threshold in dB below peak")
	fs.IntVar(&cfg.FrameLength, "frame-length", cfg.FrameLength, "trim analysis frame length in samples")
	fs.IntVar(&cfg.HopLength, "hop-length", cfg.HopLength, "trim analysis hop length in samples")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "output container: WAV, AIFF, and with ffmpeg FLAC, OGG, MP3")
	fs.StringVar(&cfg.Subtype, "subtype", cfg.Subtype, "output sample format, e.g. PCM_16 or PCM_24")
	fs.StringVar(&cfg.Codec, "codec", cfg.Codec, "explicit ffmpeg audio codec")
	fs.IntVar(&cfg.Channels, "ac", cfg.Channels, "output channel count when not -mono")

	pos, err := parse(fs, args)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		return exitUsage
	}
	if len(pos) != 2 {
		fmt.Fprintf(stderr, "transform takes an input and an output directory, got %d arguments\n", len(pos))
		fs.Usage()
		return exitUsage
	}

	logger, closeLog, backend, code := c.setup(stderr)
	if code != exitOK {
		return code
	}
	defer closeLog()

	started := time.Now()
	report, err := audcorpus.TransformDir(ctx, pos[0], pos[1], cfg, c.options(logger, backend, exts.values))
	switch {
	case errors.Is(err, job.ErrConfig):
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return exitUsage
	case err != nil && report == nil:
		logger.Error("transform failed", "error", err)
		return exitFatal
	case err != nil:
		// The run itself completed; only the manifest is missing
		logger.Error("transform finished without manifest", "error", err)
		return emit(stdout, stderr, c.jsonOut, report)
	}
	logger.Info("transform finished",
		"files", report.Stats.TotalFiles,
		"manifest", report.ManifestPath,
		"elapsed", time.Since(started).Round(time.Millisecond),
	)

	return emit(stdout, stderr, c.jsonOut, report)
}

type jsonReport struct {
	Stats        stats.CorpusStats  `json:"stats"`
	Results      []transform.Result `json:"results"`
	ManifestPath string             `json:"manifest_path,omitempty"`
}

func emit(stdout, stderr io.Writer, asJSON bool, r *audcorpus.Report) int {
	var err error
	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(jsonReport{Stats: r.Stats, Results: r.Results, ManifestPath: r.ManifestPath})
	} else {
		err = stats.WriteSummary(stdout, r.Stats)
	}
	if err != nil {
		fmt.Fprintf(stderr, "write report: %v\n", err)
		return exitFatal
	}
	return exitOK
}
