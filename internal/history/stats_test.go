package history

import (
	"math"
	"testing"
)

func TestAnomalyToConfidenceMonotoneAndZero(t *testing.T) {
	if got := AnomalyToConfidence(0, 2.0); got != 0 {
		t.Fatalf("AnomalyToConfidence(0, s) = %v, want 0", got)
	}
	prev := 0.0
	for _, x := range []float64{0.1, 0.5, 1, 2, 5, 20} {
		got := AnomalyToConfidence(x, 2.0)
		if got < prev {
			t.Fatalf("AnomalyToConfidence not monotone at x=%v: got %v < prev %v", x, got, prev)
		}
		if got < 0 || got >= 1 {
			t.Fatalf("AnomalyToConfidence(%v) = %v out of [0,1)", x, got)
		}
		prev = got
	}
}

func TestAnomalyToConfidenceHandlesInvalidInputs(t *testing.T) {
	cases := []struct{ score, scale float64 }{
		{-1, 2},
		{2, -1},
		{math.NaN(), 2},
		{2, math.NaN()},
	}
	for _, c := range cases {
		if got := AnomalyToConfidence(c.score, c.scale); got != 0 {
			t.Fatalf("AnomalyToConfidence(%v,%v) = %v, want 0", c.score, c.scale, got)
		}
	}
}

func TestFuseMaxAssociativeCommutative(t *testing.T) {
	if FuseMax(0, 0, 0) != 0 {
		t.Fatal("FuseMax(0,0,0) should be 0")
	}
	a, b, c := 0.2, 0.7, 0.5
	if FuseMax(a, b, c) != FuseMax(c, b, a) {
		t.Fatal("FuseMax should be commutative")
	}
	if FuseMax(FuseMax(a, b), c) != FuseMax(a, FuseMax(b, c)) {
		t.Fatal("FuseMax should be associative")
	}
}

func TestFuseWeighted(t *testing.T) {
	cs := []float64{1.0, 0.0}
	ws := []float64{1.0, 1.0}
	if got := FuseWeighted(cs, ws); got != 0.5 {
		t.Fatalf("FuseWeighted = %v, want 0.5", got)
	}
	if got := FuseWeighted([]float64{1}, []float64{1, 2}); got != 0 {
		t.Fatalf("length mismatch should yield 0, got %v", got)
	}
	if got := FuseWeighted([]float64{1}, []float64{0}); got != 0 {
		t.Fatalf("zero total weight should yield 0, got %v", got)
	}
}

func TestBoundConfidenceClampsAndHandlesNaN(t *testing.T) {
	if BoundConfidence(-5) != 0 {
		t.Fatal("expected clamp to 0")
	}
	if BoundConfidence(5) != 1 {
		t.Fatal("expected clamp to 1")
	}
	if BoundConfidence(math.NaN()) != 0 {
		t.Fatal("expected NaN to map to 0")
	}
}

func TestRollingWindowStatsEmptyAreZero(t *testing.T) {
	w := NewRollingWindow(10)
	if w.Median() != 0 || w.MAD() != 0 || w.Mean() != 0 || w.StdDev() != 0 {
		t.Fatal("empty window stats should all be 0")
	}
}

func TestRollingWindowOverwritesOldest(t *testing.T) {
	w := NewRollingWindow(3)
	for _, v := range []float64{1, 2, 3, 4} {
		w.Add(v)
	}
	if w.Size() != 3 {
		t.Fatalf("size = %d, want 3", w.Size())
	}
	got := w.ToArray()
	want := []float64{2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ToArray()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
