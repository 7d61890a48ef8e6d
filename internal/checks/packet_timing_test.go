package checks

import (
	"testing"

	"github.com/MacMoment/ac/internal/models"
	"github.com/MacMoment/ac/internal/state"
)

func TestPacketTimingDisabledIsClean(t *testing.T) {
	chk := NewPacketTimingCheck()
	chk.Configure(PacketTimingConfig{CommonConfig: CommonConfig{Enabled: false}})
	ctx := state.NewPlayerContext(models.Identity{Name: "a"}, state.DefaultParams())
	for i := 0; i < 10; i++ {
		ctx.PacketDeltaWindow.Add(50)
	}
	res := chk.Analyze(models.TelemetryInput{TickDelta: 50_000_000}, models.Features{}, ctx)
	if !res.IsClean() {
		t.Fatalf("expected clean result when disabled, got %+v", res)
	}
}

func TestPacketTimingUndersampledIsClean(t *testing.T) {
	chk := NewPacketTimingCheck()
	ctx := state.NewPlayerContext(models.Identity{Name: "a"}, state.DefaultParams())
	ctx.PacketDeltaWindow.Add(50)
	res := chk.Analyze(models.TelemetryInput{TickDelta: 50_000_000, Ping: 20}, models.Features{}, ctx)
	if !res.IsClean() {
		t.Fatalf("expected clean result for under-sampled window, got %+v", res)
	}
}

func TestPacketTimingNominalCadenceIsClean(t *testing.T) {
	chk := NewPacketTimingCheck()
	ctx := state.NewPlayerContext(models.Identity{Name: "a"}, state.DefaultParams())
	for i := 0; i < 20; i++ {
		ctx.PacketDeltaWindow.Add(50 + float64(i%3))
		ctx.PingWindow.Add(20)
	}
	res := chk.Analyze(models.TelemetryInput{TickDelta: 50_000_000, Ping: 20}, models.Features{}, ctx)
	if !res.IsClean() {
		t.Fatalf("expected clean result for steady ~50ms cadence, got %+v", res)
	}
}

func TestPacketTimingBurstTriggers(t *testing.T) {
	chk := NewPacketTimingCheck()
	ctx := state.NewPlayerContext(models.Identity{Name: "a"}, state.DefaultParams())
	for i := 0; i < 20; i++ {
		ctx.PacketDeltaWindow.Add(1)
		ctx.PingWindow.Add(20)
	}
	res := chk.Analyze(models.TelemetryInput{TickDelta: 1_000_000, Ping: 20}, models.Features{}, ctx)
	if res.IsClean() {
		t.Fatal("expected a flag for a sustained packet burst")
	}
	if res.Confidence < 0 || res.Confidence > 1 || res.Severity < 0 || res.Severity > 1 {
		t.Fatalf("confidence/severity out of bounds: %+v", res)
	}
}
