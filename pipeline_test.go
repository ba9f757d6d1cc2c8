// SPDX-License-Identifier: EPL-2.0

package audcorpus

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audcorpus/executor"
	"github.com/ik5/audcorpus/internal/audiotest"
	"github.com/ik5/audcorpus/job"
	"github.com/ik5/audcorpus/manifest"
	"github.com/ik5/audcorpus/transform"
)

func writeCorpus(t *testing.T, dir string) {
	t.Helper()
	audiotest.WriteToneWAV(t, filepath.Join(dir, "a.wav"), 16000, 10)
	audiotest.WriteToneWAV(t, filepath.Join(dir, "speaker1", "b.wav"), 16000, 20)
	audiotest.WriteToneWAV(t, filepath.Join(dir, "speaker2", "deep", "c.wav"), 16000, 30)
	audiotest.WriteFile(t, filepath.Join(dir, "notes.txt"), []byte("not audio"))
}

func inputPaths(results []transform.Result) []string {
	paths := make([]string, len(results))
	for i, r := range results {
		paths[i] = r.InputPath
	}
	sort.Strings(paths)
	return paths
}

func TestTransformDir_ThreeFiles(t *testing.T) {
	t.Parallel()

	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "prepared")
	writeCorpus(t, in)

	cfg := job.DefaultConfig()
	report, err := TransformDir(context.Background(), in, out, cfg, Options{Workers: 3})
	require.NoError(t, err)

	s := report.Stats
	assert.Equal(t, 3, s.TotalFiles)
	assert.Equal(t, 3, s.Succeeded)
	assert.Equal(t, 0, s.Failed)
	assert.InDelta(t, 60.0, s.TotalDurationSec, 1e-9)
	assert.InDelta(t, 20.0, s.MeanDurationSec.Value, 1e-9)
	assert.InDelta(t, 10.0, s.MinDurationSec.Value, 1e-9)
	assert.InDelta(t, 30.0, s.MaxDurationSec.Value, 1e-9)
	assert.Equal(t, map[int]int{16000: 3}, s.SampleRateHistogram)
	assert.False(t, s.TrimRatioPercent.Valid)

	assert.Equal(t, []string{
		filepath.Join(in, "a.wav"),
		filepath.Join(in, "speaker1", "b.wav"),
		filepath.Join(in, "speaker2", "deep", "c.wav"),
	}, inputPaths(report.Results))

	for _, rel := range []string{"a.wav", "speaker1/b.wav", "speaker2/deep/c.wav"} {
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(rel)))
	}

	require.NotNil(t, report.Manifest)
	assert.Equal(t, filepath.Join(out, manifest.FileName), report.ManifestPath)
	m, err := manifest.Read(report.ManifestPath)
	require.NoError(t, err)
	assert.Equal(t, report.Manifest.RunID, m.RunID)
	assert.Equal(t, "native", m.Backend)
	assert.Equal(t, 3, m.Workers)
}

func TestTransformDir_CorruptedFile(t *testing.T) {
	t.Parallel()

	in := t.TempDir()
	writeCorpus(t, in)
	bad := filepath.Join(in, "speaker1", "broken.wav")
	audiotest.WriteFile(t, bad, []byte("RIFF\x00\x00garbage"))

	report, err := TransformDir(context.Background(), in, t.TempDir(), job.DefaultConfig(), Options{})
	require.NoError(t, err)

	s := report.Stats
	assert.Equal(t, 4, s.TotalFiles)
	assert.Equal(t, 3, s.Succeeded)
	assert.Equal(t, 1, s.Failed)
	require.Len(t, s.Failures, 1)
	assert.Equal(t, bad, s.Failures[0].InputPath)
	assert.Equal(t, transform.UnreadableSource, s.Failures[0].Kind)
	assert.Len(t, report.Results, 4)
}

func TestTransformDir_SilentInput(t *testing.T) {
	t.Parallel()

	in := t.TempDir()
	audiotest.WriteWAV(t, filepath.Join(in, "silence.wav"), 16000, 1, audiotest.Silence(5*16000))

	cfg := job.DefaultConfig()
	cfg.Trim = true
	report, err := TransformDir(context.Background(), in, t.TempDir(), cfg, Options{})
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	res := report.Results[0]
	require.True(t, res.OK(), "%v", res.Err)
	assert.Equal(t, 80000, res.SamplesBeforeTrim)
	assert.Equal(t, 0, res.SamplesAfterTrim)

	s := report.Stats
	assert.Equal(t, 1, s.Succeeded)
	require.True(t, s.TrimRatioPercent.Valid)
	assert.InDelta(t, 100.0, s.TrimRatioPercent.Value, 1e-9)
}

func TestTransformDir_Idempotent(t *testing.T) {
	t.Parallel()

	in := t.TempDir()
	writeCorpus(t, in)

	cfg := job.DefaultConfig()
	cfg.Resample = true
	cfg.TargetSampleRate = 8000
	cfg.Trim = true

	outA, outB := t.TempDir(), t.TempDir()
	first, err := TransformDir(context.Background(), in, outA, cfg, Options{Workers: 1})
	require.NoError(t, err)
	second, err := TransformDir(context.Background(), in, outB, cfg, Options{Workers: 4})
	require.NoError(t, err)

	assert.Equal(t, first.Stats, second.Stats)
	for _, rel := range []string{"a.wav", "speaker1/b.wav", "speaker2/deep/c.wav"} {
		a, err := os.ReadFile(filepath.Join(outA, filepath.FromSlash(rel)))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(outB, filepath.FromSlash(rel)))
		require.NoError(t, err)
		assert.Equal(t, a, b, rel)
	}
	assert.NotEqual(t, first.Manifest.RunID, second.Manifest.RunID)
}

func TestTransformDir_OutputInsideInput(t *testing.T) {
	t.Parallel()

	in := t.TempDir()
	writeCorpus(t, in)
	out := filepath.Join(in, "out")

	for range 2 {
		report, err := TransformDir(context.Background(), in, out, job.DefaultConfig(), Options{})
		require.NoError(t, err)
		assert.Equal(t, 3, report.Stats.TotalFiles)
	}
}

func TestTransformDir_Collisions(t *testing.T) {
	t.Parallel()

	in := t.TempDir()
	audiotest.WriteToneWAV(t, filepath.Join(in, "clip.wav"), 8000, 1)
	audiotest.WriteToneWAV(t, filepath.Join(in, "clip.WAV"), 8000, 1)
	out := t.TempDir()

	report, err := TransformDir(context.Background(), in, out, job.DefaultConfig(), Options{})
	require.NoError(t, err)
	require.Equal(t, 2, report.Stats.Succeeded)

	seen := map[string]bool{}
	for _, r := range report.Results {
		assert.False(t, seen[r.OutputPath], "duplicate output %s", r.OutputPath)
		seen[r.OutputPath] = true
		assert.FileExists(t, r.OutputPath)
	}
}

func TestTransformDir_Errors(t *testing.T) {
	t.Parallel()

	in := t.TempDir()
	writeCorpus(t, in)

	cfg := job.DefaultConfig()
	cfg.Format = "FLAC"
	_, err := TransformDir(context.Background(), in, t.TempDir(), cfg, Options{})
	assert.ErrorIs(t, err, job.ErrConfig)

	cfg = job.DefaultConfig()
	cfg.Resample = true
	_, err = TransformDir(context.Background(), in, t.TempDir(), cfg, Options{})
	var cerr *job.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "sr", cerr.Field)

	_, err = TransformDir(context.Background(), filepath.Join(in, "missing"), t.TempDir(), job.DefaultConfig(), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTransformDir_Canceled(t *testing.T) {
	t.Parallel()

	in := t.TempDir()
	writeCorpus(t, in)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := TransformDir(ctx, in, t.TempDir(), job.DefaultConfig(), Options{Workers: 2})
	require.NoError(t, err)
	assert.Len(t, report.Results, 3)
	assert.Equal(t, 3, report.Stats.Failed)
	for _, f := range report.Stats.Failures {
		assert.Equal(t, transform.Canceled, f.Kind)
	}
}

func TestProbeDir(t *testing.T) {
	t.Parallel()

	in := t.TempDir()
	writeCorpus(t, in)
	audiotest.WriteToneWAV(t, filepath.Join(in, "hi.wav"), 44100, 1)

	var progress executor.Progress
	report, err := ProbeDir(context.Background(), in, Options{Workers: 2, Progress: &progress})
	require.NoError(t, err)

	s := report.Stats
	assert.Equal(t, 4, s.Succeeded)
	assert.InDelta(t, 61.0, s.TotalDurationSec, 1e-9)
	assert.Equal(t, map[int]int{16000: 3, 44100: 1}, s.SampleRateHistogram)
	assert.False(t, s.TrimEnabled)
	assert.Nil(t, report.Manifest)
	assert.Equal(t, 4, progress.Done())

	for _, r := range report.Results {
		assert.Empty(t, r.OutputPath)
	}
}

func TestProbeDir_EmptyCorpus(t *testing.T) {
	t.Parallel()

	report, err := ProbeDir(context.Background(), t.TempDir(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Stats.TotalFiles)
	assert.False(t, report.Stats.MeanDurationSec.Valid)
	assert.NotEmpty(t, report.Stats.Warnings)
}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "native", "ffmpeg"} {
		b, err := NewBackend(name)
		require.NoError(t, err, name)
		if name == "" {
			name = "native"
		}
		assert.Equal(t, name, b.Name())
	}

	_, err := NewBackend("sox")
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestTransformDir_OutputSameAsInput(t *testing.T) {
	t.Parallel()

	in := t.TempDir()
	writeCorpus(t, in)
	link := filepath.Join(t.TempDir(), "alias")
	require.NoError(t, os.Symlink(in, link))

	for _, out := range []string{in, in + string(filepath.Separator), link} {
		report, err := TransformDir(context.Background(), in, out, job.DefaultConfig(), Options{})
		assert.Nil(t, report)
		var cerr *job.ConfigError
		require.ErrorAs(t, err, &cerr, out)
		assert.Equal(t, "output_dir", cerr.Field)
	}
	assert.NoFileExists(t, filepath.Join(in, manifest.FileName))
}

func TestTransformDir_SymlinkedInput(t *testing.T) {
	t.Parallel()

	target := t.TempDir()
	writeCorpus(t, target)
	link := filepath.Join(t.TempDir(), "corpus")
	require.NoError(t, os.Symlink(target, link))

	out := t.TempDir()
	report, err := TransformDir(context.Background(), link, out, job.DefaultConfig(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Stats.Succeeded)
	assert.FileExists(t, filepath.Join(out, "speaker2", "deep", "c.wav"))

	probed, err := ProbeDir(context.Background(), link, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, probed.Stats.TotalFiles)
}

func TestProbeDir_WarnsUndecodableExtensions(t *testing.T) {
	t.Parallel()

	in := t.TempDir()
	writeCorpus(t, in)
	audiotest.WriteFile(t, filepath.Join(in, "x.flac"), []byte("fLaC"))
	audiotest.WriteFile(t, filepath.Join(in, "y.FLAC"), []byte("fLaC"))
	audiotest.WriteFile(t, filepath.Join(in, "z.m4a"), []byte("ftyp"))

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	report, err := ProbeDir(context.Background(), in, Options{Logger: logger})
	require.NoError(t, err)
	assert.Equal(t, 6, report.Stats.TotalFiles)
	assert.Equal(t, 3, report.Stats.Failed)

	out := logs.String()
	assert.Contains(t, out, `msg="no decoder for extension" ext=.flac files=2 backend=native`)
	assert.Contains(t, out, `msg="no decoder for extension" ext=.m4a files=1 backend=native`)
	assert.NotContains(t, out, "ext=.wav")
}
