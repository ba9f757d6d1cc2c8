// SPDX-License-Identifier: EPL-2.0

package main

import (
	"log/slog"
	"time"

	"github.com/ik5/audcorpus/transform"
)

// progressLogger reports pool progress through the logger: every failure,
// plus a progress line roughly every five percent.
type progressLogger struct {
	logger *slog.Logger
	step   int
}

func newProgressLogger(l *slog.Logger) *progressLogger {
	return &progressLogger{logger: l}
}

func (p *progressLogger) OnStart(total, workers int) {
	p.step = max(total/20, 1)
	p.logger.Info("processing", "files", total, "workers", workers)
}

func (p *progressLogger) OnItemDone(done, total int, res transform.Result, dur time.Duration) {
	if !res.OK() {
		p.logger.Warn("file failed", "input", res.InputPath, "kind", res.Err.Kind, "error", res.Err.Message)
	} else {
		p.logger.Debug("file done", "input", res.InputPath, "elapsed", dur.Round(time.Millisecond))
	}
	if done%p.step == 0 || done == total {
		p.logger.Info("progress", "done", done, "total", total)
	}
}
