package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/MacMoment/ac/pkg/clock"
)

func TestLatencyHistogramRecordsMinMaxAvg(t *testing.T) {
	h := NewLatencyHistogram()
	h.Record(1000)
	h.Record(3000)
	h.Record(2000)

	stats := h.Stats()
	if stats.Count != 3 {
		t.Fatalf("expected count 3, got %d", stats.Count)
	}
	if stats.Min != 1000 || stats.Max != 3000 {
		t.Fatalf("expected min/max 1000/3000, got %d/%d", stats.Min, stats.Max)
	}
	if stats.Avg != 2000 {
		t.Fatalf("expected avg 2000, got %d", stats.Avg)
	}
}

func TestIngressRateCounterComputesRate(t *testing.T) {
	mock := clock.NewMock(0)
	r := NewIngressRateCounter(mock)
	for i := 0; i < 10; i++ {
		r.Increment()
	}
	mock.Advance(1_000_000_000) // 1 second
	if got := r.Rate(); got != 10 {
		t.Fatalf("expected rate 10/s, got %v", got)
	}
}

func TestIngressRateCounterResetClearsCount(t *testing.T) {
	mock := clock.NewMock(0)
	r := NewIngressRateCounter(mock)
	r.Increment()
	r.Reset()
	if r.Count() != 0 {
		t.Fatal("expected Reset to zero the counter")
	}
}

func TestRegistryRecordDecisionIncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRegistry(reg, clock.NewMock(0))
	m.RecordDecision("PUNISH")
	m.RecordDecision("PUNISH")
	got := testutil.ToFloat64(m.decisionsTotal.WithLabelValues("PUNISH"))
	if got != 2 {
		t.Fatalf("expected counter value 2, got %v", got)
	}
}

func TestRegistryPublishSetsGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	mock := clock.NewMock(0)
	m := NewRegistry(reg, mock)
	m.IngestLatency.Record(5000)
	m.IngressRate.Increment()
	mock.Advance(1_000_000_000)

	m.Publish(3)
	if got := testutil.ToFloat64(m.trackedPlayers); got != 3 {
		t.Fatalf("expected tracked players gauge 3, got %v", got)
	}
	if got := testutil.ToFloat64(m.ingestLatencyAvgNs); got != 5000 {
		t.Fatalf("expected avg latency gauge 5000, got %v", got)
	}
}
