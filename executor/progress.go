// SPDX-License-Identifier: EPL-2.0

package executor

import (
	"sync/atomic"

	"github.com/ik5/audcorpus/transform"
)

// Progress exposes run counters that can be read from any goroutine
// while the run is in flight.
type Progress struct {
	total  atomic.Int64
	done   atomic.Int64
	failed atomic.Int64
}

func (p *Progress) start(total int) {
	p.total.Store(int64(total))
	p.done.Store(0)
	p.failed.Store(0)
}

func (p *Progress) record(res transform.Result) int {
	if !res.OK() {
		p.failed.Add(1)
	}
	return int(p.done.Add(1))
}

// Total is the number of items in the run.
func (p *Progress) Total() int { return int(p.total.Load()) }

// Done is the number of results collected so far.
func (p *Progress) Done() int { return int(p.done.Load()) }

// Failed is the number of failure results collected so far.
func (p *Progress) Failed() int { return int(p.failed.Load()) }
