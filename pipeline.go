// SPDX-License-Identifier: EPL-2.0

package audcorpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ik5/audcorpus/corpus"
	"github.com/ik5/audcorpus/executor"
	"github.com/ik5/audcorpus/job"
	"github.com/ik5/audcorpus/manifest"
	"github.com/ik5/audcorpus/stats"
	"github.com/ik5/audcorpus/transform"
	"github.com/ik5/audcorpus/transform/ffmpeg"
)

// DefaultWorkers is the pool size used when Options.Workers is zero.
const DefaultWorkers = 8

// ErrUnknownBackend is returned by NewBackend for an unrecognized name.
var ErrUnknownBackend = errors.New("unknown backend")

// Options tunes a run. The zero value uses the native backend, eight
// workers and corpus.DefaultExtensions.
type Options struct {
	Backend        transform.Backend
	Workers        int
	Extensions     []string
	FollowSymlinks bool
	Logger         *slog.Logger
	Observer       executor.Observer
	Progress       *executor.Progress
}

func (o *Options) defaults() {
	if o.Backend == nil {
		o.Backend = transform.NewNative()
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if len(o.Extensions) == 0 {
		o.Extensions = corpus.DefaultExtensions
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

func (o *Options) executorOptions() []executor.Option {
	opts := []executor.Option{
		executor.Workers(o.Workers),
		executor.WithLogger(o.Logger),
	}
	if o.Observer != nil {
		opts = append(opts, executor.WithObserver(o.Observer))
	}
	if o.Progress != nil {
		opts = append(opts, executor.WithProgress(o.Progress))
	}
	return opts
}

// NewBackend returns the backend registered under name: "native" or
// "ffmpeg".
func NewBackend(name string) (transform.Backend, error) {
	switch name {
	case "", "native":
		return transform.NewNative(), nil
	case "ffmpeg":
		return ffmpeg.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// sameDir reports whether a and b name the same directory, following
// symlinks when both resolve.
func sameDir(a, b string) bool {
	if a == b {
		return true
	}
	ra, errA := filepath.EvalSymlinks(a)
	rb, errB := filepath.EvalSymlinks(b)
	return errA == nil && errB == nil && ra == rb
}

// decodeChecker is implemented by backends with a fixed set of input
// formats.
type decodeChecker interface {
	CanDecode(path string) bool
}

// warnUndecodable logs one warning per scanned extension the backend has no
// decoder for. Those files still run and fail individually.
func warnUndecodable(logger *slog.Logger, backend transform.Backend, inputs []string) {
	dc, ok := backend.(decodeChecker)
	if !ok {
		return
	}
	counts := make(map[string]int)
	for _, in := range inputs {
		if !dc.CanDecode(in) {
			counts[strings.ToLower(filepath.Ext(in))]++
		}
	}
	for _, ext := range slices.Sorted(maps.Keys(counts)) {
		logger.Warn("no decoder for extension", "ext", ext, "files", counts[ext], "backend", backend.Name())
	}
}

// Report is the outcome of a run.
type Report struct {
	Stats stats.CorpusStats
	// Results holds one entry per scanned file, in completion order.
	Results []transform.Result
	// Manifest and ManifestPath are set by TransformDir only.
	Manifest     *manifest.Manifest
	ManifestPath string
}

// ProbeDir reports duration and sample rate of every matching file under
// inputDir.
func ProbeDir(ctx context.Context, inputDir string, opts Options) (*Report, error) {
	opts.defaults()

	root, err := filepath.Abs(inputDir)
	if err != nil {
		return nil, err
	}
	inputs, err := corpus.Scan(root, opts.Extensions,
		corpus.WithLogger(opts.Logger),
		corpus.FollowSymlinks(opts.FollowSymlinks),
	)
	if err != nil {
		return nil, err
	}
	opts.Logger.Info("scan complete", "input_dir", root, "files", len(inputs))
	warnUndecodable(opts.Logger, opts.Backend, inputs)

	cfg := job.DefaultConfig()
	items := make([]job.WorkItem, len(inputs))
	for i, in := range inputs {
		items[i] = job.WorkItem{InputPath: in, Config: &cfg}
	}

	tr := transform.ForBackend(opts.Backend, transform.WithLogger(opts.Logger))
	results := executor.Run(ctx, items, tr.Probe, opts.executorOptions()...)

	return &Report{
		Stats:   stats.Aggregate(results, false),
		Results: results,
	}, nil
}

// TransformDir converts every matching file under inputDir into the same
// relative location under outputDir. cfg is validated against the backend
// before any file is touched; a bad configuration is a *job.ConfigError.
// When outputDir lies inside inputDir it is left out of the scan; the two
// must not be the same directory.
func TransformDir(ctx context.Context, inputDir, outputDir string, cfg job.TransformConfig, opts Options) (*Report, error) {
	opts.defaults()

	if err := cfg.Validate(opts.Backend); err != nil {
		return nil, err
	}

	inRoot, err := filepath.Abs(inputDir)
	if err != nil {
		return nil, err
	}
	outRoot, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, err
	}
	if sameDir(inRoot, outRoot) {
		return nil, &job.ConfigError{Field: "output_dir", Reason: "must differ from the input directory"}
	}

	inputs, err := corpus.Scan(inRoot, opts.Extensions,
		corpus.WithLogger(opts.Logger),
		corpus.FollowSymlinks(opts.FollowSymlinks),
		corpus.Exclude(outRoot),
	)
	if err != nil {
		return nil, err
	}
	opts.Logger.Info("scan complete", "input_dir", inRoot, "files", len(inputs))
	warnUndecodable(opts.Logger, opts.Backend, inputs)

	items, err := job.BuildAll(inputs, inRoot, outRoot, &cfg, opts.Logger)
	if err != nil {
		return nil, err
	}

	exts := slices.Clone(opts.Extensions)
	m := manifest.New(inRoot, outRoot, exts, opts.Workers, opts.Backend.Name(), cfg)

	tr := transform.ForBackend(opts.Backend, transform.WithLogger(opts.Logger))
	results := executor.Run(ctx, items, tr.Run, opts.executorOptions()...)

	report := &Report{
		Stats:    stats.Aggregate(results, cfg.Trim),
		Results:  results,
		Manifest: &m,
	}

	path, err := manifest.Write(outRoot, m)
	if err != nil {
		opts.Logger.Error("manifest not written", "output_dir", outRoot, "error", err)
		return report, err
	}
	report.ManifestPath = path
	return report, nil
}
