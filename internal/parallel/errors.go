// Package parallel provides the concurrency primitives used by the harness:
// a blocking work queue with explicit close signalling, static chunking and
// a first-error collector.
package parallel

import (
	"sync"
	"sync/atomic"
)

// ErrorCollector keeps the first error reported by a set of goroutines and
// counts every non-nil report. It is safe for concurrent use.
//
// Usage:
//
//	var ec parallel.ErrorCollector
//	var wg sync.WaitGroup
//	for _, w := range workers {
//	    wg.Add(1)
//	    go func() {
//	        defer wg.Done()
//	        ec.SetError(w.Run())
//	    }()
//	}
//	wg.Wait()
//	if err := ec.Err(); err != nil {
//	    return err
//	}
type ErrorCollector struct {
	once  sync.Once
	err   error
	count atomic.Int64
}

// SetError records err if it is the first non-nil error. Nil errors are
// ignored.
//
// Parameters:
//   - err: The error to record (nil is ignored).
func (c *ErrorCollector) SetError(err error) {
	if err == nil {
		return
	}
	c.count.Add(1)
	c.once.Do(func() {
		c.err = err
	})
}

// Err returns the first recorded error, or nil. It should be read after all
// reporting goroutines have finished.
func (c *ErrorCollector) Err() error {
	return c.err
}

// Count returns how many non-nil errors were reported.
func (c *ErrorCollector) Count() int {
	return int(c.count.Load())
}

// Reset clears the collector for reuse. It must not race with SetError.
func (c *ErrorCollector) Reset() {
	c.once = sync.Once{}
	c.err = nil
	c.count.Store(0)
}
