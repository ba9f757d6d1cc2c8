// SPDX-License-Identifier: EPL-2.0

// Package executor runs work items on a fixed-size goroutine pool.
//
// Results come back in completion order, not submission order; each one
// carries the input path of its item. Run always returns exactly one
// result per item: a panicking job yields a Crash failure, and items not
// yet dispatched when the context is cancelled yield Canceled failures.
// Jobs already running are allowed to finish.
package executor
