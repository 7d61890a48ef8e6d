package features

import (
	"testing"

	"github.com/MacMoment/ac/internal/models"
	"github.com/MacMoment/ac/internal/state"
)

func pushTelemetry(ctx *state.PlayerContext, t models.TelemetryInput) models.Features {
	ctx.TelemetryHistory.Push(t)
	f := Extract(t, ctx)
	ctx.FeatureHistory.Push(f)
	return f
}

func TestExtractStationaryHasZeroSpeed(t *testing.T) {
	ctx := state.NewPlayerContext(models.Identity{Name: "a"}, state.DefaultParams())
	f := pushTelemetry(ctx, models.TelemetryInput{OnGround: true, Ping: 20, TickDelta: 50_000_000})
	if f.HorizSpeed != 0 || f.VertSpeed != 0 || f.Speed3D != 0 {
		t.Fatalf("expected zero speeds, got %+v", f)
	}
}

func TestExtractSampleCountTracksHistorySize(t *testing.T) {
	ctx := state.NewPlayerContext(models.Identity{Name: "a"}, state.DefaultParams())
	var last models.Features
	for i := 0; i < 5; i++ {
		last = pushTelemetry(ctx, models.TelemetryInput{OnGround: true, Ping: 20, TickDelta: 50_000_000})
	}
	if last.SampleCount != 5 {
		t.Fatalf("expected sample count 5, got %d", last.SampleCount)
	}
}

func TestExtractLaggingOnLargeTickDelta(t *testing.T) {
	ctx := state.NewPlayerContext(models.Identity{Name: "a"}, state.DefaultParams())
	f := pushTelemetry(ctx, models.TelemetryInput{OnGround: true, Ping: 20, TickDelta: 300_000_000})
	if !f.IsLagging {
		t.Fatal("expected isLagging for a 300ms tick delta")
	}
}

func TestExtractJitterRequiresMinimumSamples(t *testing.T) {
	ctx := state.NewPlayerContext(models.Identity{Name: "a"}, state.DefaultParams())
	var f models.Features
	for i := 0; i < 4; i++ {
		f = pushTelemetry(ctx, models.TelemetryInput{DX: float64(i) * 0.1, OnGround: true, Ping: 20, TickDelta: 50_000_000})
	}
	if f.JitterScore != 0 {
		t.Fatalf("expected zero jitter with fewer than 5 samples, got %v", f.JitterScore)
	}
}
