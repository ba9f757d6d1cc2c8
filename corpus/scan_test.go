// SPDX-License-Identifier: EPL-2.0

package corpus

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, rels ...string) {
	t.Helper()
	for _, rel := range rels {
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
}

func TestScan_FiltersAndSorts(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	touch(t, root,
		"b/two.WAV",
		"a/one.flac",
		"a/notes.txt",
		"c/d/three.mp3",
		"zero.Ogg",
		"noext",
	)

	got, err := Scan(root, []string{"wav", ".FLAC", ".mp3", "ogg"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "a/one.flac"),
		filepath.Join(root, "b/two.WAV"),
		filepath.Join(root, "c/d/three.mp3"),
		filepath.Join(root, "zero.Ogg"),
	}, got)
}

func TestScan_Deterministic(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, name := range []string{"q.wav", "a.wav", "m/z.wav", "m/b.wav", "k.wav"} {
		touch(t, root, name)
	}

	first, err := Scan(root, []string{".wav"})
	require.NoError(t, err)
	second, err := Scan(root, []string{".wav"})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 5)
}

func TestScan_EmptyResult(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	touch(t, root, "readme.md")

	got, err := Scan(root, []string{".wav"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestScan_BadRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	touch(t, root, "file.wav")

	_, err := Scan(filepath.Join(root, "missing"), DefaultExtensions)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Scan(filepath.Join(root, "file.wav"), DefaultExtensions)
	assert.ErrorIs(t, err, ErrNotDir)
}

func TestScan_Exclude(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	touch(t, root, "in/a.wav", "out/a.wav", "out/deep/b.wav")

	got, err := Scan(root, []string{".wav"}, Exclude("out"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "in/a.wav")}, got)
}

func TestScan_Symlinks(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	outside := t.TempDir()
	touch(t, root, "real/a.wav")
	touch(t, outside, "ext.wav")

	require.NoError(t, os.Symlink(outside, filepath.Join(root, "linked")))
	// Cycle back to the root.
	require.NoError(t, os.Symlink(root, filepath.Join(root, "real", "loop")))
	require.NoError(t, os.Symlink(filepath.Join(root, "real/a.wav"), filepath.Join(root, "alias.wav")))

	t.Run("not followed", func(t *testing.T) {
		t.Parallel()

		got, err := Scan(root, []string{".wav"})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "alias.wav"),
			filepath.Join(root, "real/a.wav"),
		}, got)
	})

	t.Run("followed with cycle", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))

		got, err := Scan(root, []string{".wav"}, FollowSymlinks(true), WithLogger(logger))
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "alias.wav"),
			filepath.Join(root, "linked/ext.wav"),
			filepath.Join(root, "real/a.wav"),
		}, got)
		assert.Contains(t, logs.String(), "symlink cycle")
	})
}

func TestScan_UnreadableSubdirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	t.Parallel()

	root := t.TempDir()
	touch(t, root, "ok/a.wav", "locked/b.wav")
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	var logs bytes.Buffer
	got, err := Scan(root, []string{".wav"}, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "ok/a.wav")}, got)
	assert.Contains(t, logs.String(), "skipping unreadable entry")
}

func TestNormalizeExt(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"wav":    ".wav",
		".WAV":   ".wav",
		" mp3 ":  ".mp3",
		"":       "",
		".tar.X": ".tar.x",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeExt(in), "NormalizeExt(%q)", in)
	}
}

func TestScan_SymlinkedRoot(t *testing.T) {
	t.Parallel()

	target := t.TempDir()
	touch(t, target, "a.wav", "spk/b.wav", "spk/deep/c.WAV", "skip/out/d.wav")
	link := filepath.Join(t.TempDir(), "corpus")
	require.NoError(t, os.Symlink(target, link))

	for _, follow := range []bool{false, true} {
		got, err := Scan(link, []string{".wav"}, FollowSymlinks(follow), Exclude("skip"))
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(link, "a.wav"),
			filepath.Join(link, "spk/b.wav"),
			filepath.Join(link, "spk/deep/c.WAV"),
		}, got, "follow=%v", follow)
	}
}
