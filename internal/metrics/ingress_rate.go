package metrics

import (
	"sync/atomic"

	"github.com/MacMoment/ac/pkg/clock"
)

// IngressRateCounter tracks events-per-second since the last Reset,
// backed by clock.Clock rather than time.Now so it can be tested
// deterministically.
type IngressRateCounter struct {
	clock     clock.Clock
	processed uint64
	startNanos int64
}

func NewIngressRateCounter(clk clock.Clock) *IngressRateCounter {
	return &IngressRateCounter{clock: clk, startNanos: clk.NowNanos()}
}

func (r *IngressRateCounter) Increment() {
	atomic.AddUint64(&r.processed, 1)
}

// Rate returns events/second since the last Reset (or construction).
func (r *IngressRateCounter) Rate() float64 {
	events := atomic.LoadUint64(&r.processed)
	elapsed := r.clock.NowNanos() - atomic.LoadInt64(&r.startNanos)
	if elapsed <= 0 {
		return 0
	}
	return float64(events) / (float64(elapsed) / 1e9)
}

func (r *IngressRateCounter) Count() uint64 {
	return atomic.LoadUint64(&r.processed)
}

func (r *IngressRateCounter) Reset() {
	atomic.StoreUint64(&r.processed, 0)
	atomic.StoreInt64(&r.startNanos, r.clock.NowNanos())
}
