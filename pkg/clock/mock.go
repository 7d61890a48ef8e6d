package clock

import "sync/atomic"

// Mock is a settable clock for deterministic tests. It panics if advanced
// backwards, the same invariant the system clock guarantees implicitly.
type Mock struct {
	nanos int64
}

// NewMock creates a Mock starting at the given nanosecond value.
func NewMock(startNanos int64) *Mock {
	m := &Mock{}
	atomic.StoreInt64(&m.nanos, startNanos)
	return m
}

func (m *Mock) NowNanos() int64 {
	return atomic.LoadInt64(&m.nanos)
}

// Set moves the clock to an absolute nanosecond value. Panics if it would
// move the clock backwards.
func (m *Mock) Set(nanos int64) {
	if nanos < atomic.LoadInt64(&m.nanos) {
		panic("clock: mock clock cannot move backwards")
	}
	atomic.StoreInt64(&m.nanos, nanos)
}

// Advance moves the clock forward by delta nanoseconds. Panics on a
// negative delta.
func (m *Mock) Advance(delta int64) {
	if delta < 0 {
		panic("clock: mock clock cannot advance by a negative delta")
	}
	atomic.AddInt64(&m.nanos, delta)
}
