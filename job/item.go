// SPDX-License-Identifier: EPL-2.0

package job

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// WorkItem is one unit of work. It is never modified after it is built.
type WorkItem struct {
	InputPath  string
	OutputPath string
	Config     *TransformConfig
}

// Build derives the output path of inputPath: its path relative to
// inputRoot, re-rooted under outputRoot, with the extension replaced.
func Build(inputPath, inputRoot, outputRoot string, cfg *TransformConfig) (WorkItem, error) {
	rel, err := filepath.Rel(filepath.Clean(inputRoot), filepath.Clean(inputPath))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return WorkItem{}, &PathError{Input: inputPath, Root: inputRoot}
	}

	stem := strings.TrimSuffix(rel, filepath.Ext(rel))
	return WorkItem{
		InputPath:  inputPath,
		OutputPath: filepath.Join(outputRoot, stem+cfg.OutputExtension()),
		Config:     cfg,
	}, nil
}

// BuildAll builds one item per input, in input order. Inputs whose output
// paths would coincide (a.flac and a.wav both becoming a.wav) get a
// " - dupN" suffix in order of appearance, and a warning is logged.
func BuildAll(inputs []string, inputRoot, outputRoot string, cfg *TransformConfig, logger *slog.Logger) ([]WorkItem, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	resolver := NewCollisionResolver()
	items := make([]WorkItem, 0, len(inputs))
	for _, in := range inputs {
		item, err := Build(in, inputRoot, outputRoot, cfg)
		if err != nil {
			return nil, err
		}

		resolved := resolver.Resolve(item.InputPath, item.OutputPath)
		if resolved != item.OutputPath {
			logger.Warn("output path collision", "input", item.InputPath, "requested", item.OutputPath, "output", resolved)
			item.OutputPath = resolved
		}
		items = append(items, item)
	}
	return items, nil
}
