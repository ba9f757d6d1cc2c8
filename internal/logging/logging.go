// SPDX-License-Identifier: EPL-2.0

// Package logging builds the slog logger used by the command line tool.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat is returned for a handler format other than text or json.
var ErrUnknownFormat = errors.New("unknown log format")

// Options configures New.
type Options struct {
	// Level is one of debug, info, warn or error. Empty means info.
	Level string
	// File, when set, receives a copy of every record. It is opened in
	// append mode and its directory is created.
	File string
	// Format selects the handler: "text" (default) or "json".
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}

// New returns a logger and a function closing the file sink, if any.
func New(opts Options) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, noop, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	closer := noop
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, noop, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, noop, fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(out, f)
		closer = f.Close
	}

	hopts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		h = slog.NewTextHandler(out, hopts)
	case "json":
		h = slog.NewJSONHandler(out, hopts)
	default:
		_ = closer()
		return nil, noop, fmt.Errorf("%w: %s", ErrUnknownFormat, opts.Format)
	}

	return slog.New(h), closer, nil
}

