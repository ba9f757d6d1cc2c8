// SPDX-License-Identifier: EPL-2.0

package corpus

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotDir is returned when the scan root is not a directory.
var ErrNotDir = errors.New("scan root is not a directory")

// DefaultExtensions are the audio containers probed by default.
var DefaultExtensions = []string{".aac", ".wav", ".flac", ".m4a", ".mp4", ".mp3", ".ogg", ".aiff", ".aif"}

type options struct {
	logger         *slog.Logger
	followSymlinks bool
	exclude        []string
}

// Option configures Scan.
type Option func(*options)

// WithLogger sets the logger used for skipped entries.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// FollowSymlinks descends into symlinked directories. Each real directory
// is visited at most once.
func FollowSymlinks(follow bool) Option {
	return func(o *options) { o.followSymlinks = follow }
}

// Exclude skips the given directories and everything below them. Relative
// paths are taken relative to the scan root.
func Exclude(dirs ...string) Option {
	return func(o *options) { o.exclude = append(o.exclude, dirs...) }
}

// NormalizeExt lowercases ext and ensures a leading dot.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

type scanner struct {
	opts     options
	accepted map[string]bool
	excluded []string
	visited  map[string]bool
	files    []string
}

// Scan returns the files under root whose extension matches exts,
// case-insensitively. An empty match is a nil slice and no error.
func Scan(root string, exts []string, opts ...Option) ([]string, error) {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDir, root)
	}

	root = filepath.Clean(root)
	s := &scanner{
		opts:     o,
		accepted: make(map[string]bool, len(exts)),
		visited:  make(map[string]bool),
	}
	for _, e := range exts {
		if e = NormalizeExt(e); e != "" {
			s.accepted[e] = true
		}
	}
	for _, x := range o.exclude {
		if x = strings.TrimSpace(x); x == "" {
			continue
		}
		if !filepath.IsAbs(x) {
			x = filepath.Join(root, x)
		}
		s.excluded = append(s.excluded, filepath.Clean(x))
	}

	// A symlinked root is walked at its target but reported under root
	real, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	s.visited[real] = true
	if err := s.walk(real, root); err != nil {
		return nil, err
	}

	sort.Strings(s.files)
	return s.files, nil
}

// walk visits dir, reporting paths below it as if dir were located at shown.
func (s *scanner) walk(dir, shown string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if dir != shown {
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			path = filepath.Join(shown, rel)
		}

		if walkErr != nil {
			if path == shown && d == nil {
				return fmt.Errorf("scan %s: %w", path, walkErr)
			}
			s.opts.logger.Warn("skipping unreadable entry", "path", path, "error", walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if s.isExcluded(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			return s.symlink(path)
		}
		if d.IsDir() {
			return nil
		}

		s.add(path)
		return nil
	})
}

func (s *scanner) symlink(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		s.opts.logger.Warn("skipping broken symlink", "path", path, "error", err)
		return nil
	}
	if !info.IsDir() {
		s.add(path)
		return nil
	}
	if !s.opts.followSymlinks {
		return nil
	}

	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		s.opts.logger.Warn("skipping unresolvable symlink", "path", path, "error", err)
		return nil
	}
	if s.visited[real] || s.isAncestorVisited(real) {
		s.opts.logger.Warn("skipping symlink cycle", "path", path, "target", real)
		return nil
	}
	s.visited[real] = true

	if err := s.walk(real, path); err != nil {
		s.opts.logger.Warn("skipping symlinked directory", "path", path, "error", err)
	}
	return nil
}

// isAncestorVisited reports whether real lies inside a directory tree that
// is already being walked.
func (s *scanner) isAncestorVisited(real string) bool {
	for v := range s.visited {
		if isUnder(real, v) {
			return true
		}
	}
	return false
}

func (s *scanner) add(path string) {
	if s.accepted[strings.ToLower(filepath.Ext(path))] {
		s.files = append(s.files, path)
	}
}

func (s *scanner) isExcluded(path string) bool {
	path = filepath.Clean(path)
	for _, base := range s.excluded {
		if isUnder(path, base) {
			return true
		}
	}
	return false
}

func isUnder(path, base string) bool {
	if path == base {
		return true
	}
	return strings.HasPrefix(path, base+string(filepath.Separator))
}
