// SPDX-License-Identifier: EPL-2.0

package job

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// CollisionResolver tracks output paths claimed by input files and resolves
// duplicates by appending " - dupN" suffixes. All methods are goroutine-safe.
type CollisionResolver struct {
	mu       sync.Mutex
	owners   map[string]string // output path → input path that owns it
	counters map[string]int    // requested output path → next dup counter
}

func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{
		owners:   make(map[string]string),
		counters: make(map[string]int),
	}
}

// Resolve returns the final output path for input. An unclaimed request,
// or one already owned by input, is returned unchanged.
func (cr *CollisionResolver) Resolve(input, requested string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if owner, ok := cr.owners[requested]; !ok || owner == input {
		cr.owners[requested] = input
		return requested
	}

	dir := filepath.Dir(requested)
	base := filepath.Base(requested)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	counter := max(cr.counters[requested], 1)
	for {
		candidate := filepath.Join(dir, fmt.Sprintf("%s - dup%d%s", stem, counter, ext))
		if owner, ok := cr.owners[candidate]; !ok || owner == input {
			cr.counters[requested] = counter + 1
			cr.owners[candidate] = input
			return candidate
		}
		counter++
	}
}
