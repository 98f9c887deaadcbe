// Package utils holds small test helpers shared across packages.
package utils

import (
	"runtime"
	"testing"
	"time"
)

// LeakCheck fails the test if the goroutine count grew between Start
// and Check. The transport spawns a read loop and a stderr drain per
// session; a close that strands either shows up here.
type LeakCheck struct {
	t             *testing.T
	baseline      int
	allowedGrowth int
	settle        time.Duration
}

// NewLeakCheck creates a leak check bound to the test.
func NewLeakCheck(t *testing.T) *LeakCheck {
	return &LeakCheck{t: t, settle: 200 * time.Millisecond}
}

// AllowGrowth permits n extra goroutines at Check time.
func (c *LeakCheck) AllowGrowth(n int) *LeakCheck {
	c.allowedGrowth = n
	return c
}

// Start records the baseline goroutine count.
func (c *LeakCheck) Start() {
	time.Sleep(c.settle)
	c.baseline = runtime.NumGoroutine()
}

// Check compares the current count against the baseline. Goroutines in
// teardown can linger briefly, so the count is sampled a few times and
// the minimum wins.
func (c *LeakCheck) Check() {
	time.Sleep(c.settle)

	final := runtime.NumGoroutine()
	for i := 0; i < 2; i++ {
		time.Sleep(100 * time.Millisecond)
		if n := runtime.NumGoroutine(); n < final {
			final = n
		}
	}

	leaked := final - c.baseline
	if leaked > c.allowedGrowth {
		buf := make([]byte, 1<<20)
		n := runtime.Stack(buf, true)
		c.t.Errorf("goroutine leak: %d at baseline, %d now (allowed growth %d)\n%s",
			c.baseline, final, c.allowedGrowth, buf[:n])
	}
}
