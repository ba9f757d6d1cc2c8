// SPDX-License-Identifier: EPL-2.0

package executor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/ik5/audcorpus/job"
	"github.com/ik5/audcorpus/transform"
)

// Func processes one item. Both Transformer.Run and Transformer.Probe
// have this shape.
type Func func(ctx context.Context, item job.WorkItem) transform.Result

// Observer receives run events. Calls come from a single goroutine.
type Observer interface {
	OnStart(total, workers int)
	OnItemDone(done, total int, res transform.Result, dur time.Duration)
}

type options struct {
	workers  int
	observer Observer
	progress *Progress
	logger   *slog.Logger
}

// Option configures Run.
type Option func(*options)

// Workers sets the pool size. Values below 1 mean 1.
func Workers(n int) Option {
	return func(o *options) { o.workers = max(n, 1) }
}

// WithObserver registers obs for progress events.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithProgress publishes counters to p while the run is in flight.
func WithProgress(p *Progress) Option {
	return func(o *options) { o.progress = p }
}

// WithLogger sets the logger for crashes and cancellation.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

type outcome struct {
	res transform.Result
	dur time.Duration
}

// Run executes fn over items with a bounded pool and returns one result
// per item in completion order.
func Run(ctx context.Context, items []job.WorkItem, fn Func, opts ...Option) []transform.Result {
	o := options{
		workers: 1,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.progress == nil {
		o.progress = &Progress{}
	}

	total := len(items)
	o.progress.start(total)
	if o.observer != nil {
		o.observer.OnStart(total, o.workers)
	}
	if total == 0 {
		return nil
	}

	jobs := make(chan job.WorkItem)
	results := make(chan outcome, total)

	var wg sync.WaitGroup
	for range min(o.workers, total) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for it := range jobs {
				started := time.Now()
				res := runOne(ctx, fn, it, o.logger)
				results <- outcome{res: res, dur: time.Since(started)}
			}
		}()
	}

	go func() {
		defer func() {
			close(jobs)
			wg.Wait()
			close(results)
		}()

		for i, it := range items {
			select {
			case <-ctx.Done():
				o.logger.Warn("run canceled, skipping remaining items", "skipped", total-i)
				for _, rest := range items[i:] {
					results <- outcome{res: transform.Failed(rest.InputPath, transform.Canceled, ctx.Err())}
				}
				return
			case jobs <- it:
			}
		}
	}()

	out := make([]transform.Result, 0, total)
	for r := range results {
		out = append(out, r.res)
		done := o.progress.record(r.res)
		if o.observer != nil {
			o.observer.OnItemDone(done, total, r.res, r.dur)
		}
	}
	return out
}

// runOne calls fn, converting a panic into a Crash failure.
func runOne(ctx context.Context, fn Func, it job.WorkItem, logger *slog.Logger) (res transform.Result) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("job panicked", "input", it.InputPath, "panic", p, "stack", string(debug.Stack()))
			res = transform.Failed(it.InputPath, transform.Crash, fmt.Errorf("panic: %v", p))
		}
	}()

	res = fn(ctx, it)
	if res.InputPath == "" {
		res.InputPath = it.InputPath
	}
	return res
}
