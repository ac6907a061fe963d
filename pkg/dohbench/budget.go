package dohbench

import "time"

// timeoutBudget is the adaptive timeout of a single server test.
// The timeout starts at BaseTimeout, halves on every failure and never grows. Once a probe succeeds,
// the fastest observed latency becomes the floor of the timeout.
type timeoutBudget struct {
	timeout    time.Duration
	minSuccess time.Duration
	hasSuccess bool
}

func newTimeoutBudget() timeoutBudget {
	return timeoutBudget{timeout: BaseTimeout}
}

func (b *timeoutBudget) success(latency time.Duration) {
	if !b.hasSuccess || latency < b.minSuccess {
		b.minSuccess = latency
	}
	b.hasSuccess = true
}

func (b *timeoutBudget) failure() {
	next := b.timeout / 2
	if b.hasSuccess && next < b.minSuccess {
		next = b.minSuccess
	}
	// a success slower than the current timeout must not raise the timeout
	if next < b.timeout {
		b.timeout = next
	}
}

// exhausted reports whether the server should be abandoned.
func (b *timeoutBudget) exhausted() bool {
	return !b.hasSuccess && b.timeout <= GiveupTimeout
}
