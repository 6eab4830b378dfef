// Package leaktest flags goroutines left running by concurrent code under test.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

const (
	settleTimeout = 2 * time.Second
	pollInterval  = 10 * time.Millisecond
)

// GoroutineChecker compares the goroutine count against a baseline.
type GoroutineChecker struct {
	t       testing.TB
	before  int
	timeout time.Duration
}

// NewGoroutineChecker records the current goroutine count as the baseline.
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	runtime.Gosched()
	return &GoroutineChecker{t: t, before: runtime.NumGoroutine(), timeout: settleTimeout}
}

// Check polls until at most tolerance goroutines above the baseline remain,
// failing the test when they do not wind down within the settle timeout.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()
	if after, ok := settle(g.before+tolerance, g.timeout); !ok {
		g.t.Errorf("goroutine leak: before=%d after=%d tolerance=%d", g.before, after, tolerance)
	}
}

// settle waits for the goroutine count to drop to target.
func settle(target int, timeout time.Duration) (int, bool) {
	deadline := time.Now().Add(timeout)
	for {
		runtime.Gosched()
		n := runtime.NumGoroutine()
		if n <= target {
			return n, true
		}
		if time.Now().After(deadline) {
			return n, false
		}
		time.Sleep(pollInterval)
	}
}
