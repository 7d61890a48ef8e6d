package checks

import (
	"testing"

	"github.com/MacMoment/ac/internal/models"
	"github.com/MacMoment/ac/internal/state"
)

func TestMovementCheckSetRunReturnsAllEnabled(t *testing.T) {
	set := NewMovementCheckSet()
	ctx := state.NewPlayerContext(models.Identity{Name: "a"}, state.DefaultParams())
	results := set.Run(models.TelemetryInput{OnGround: true, Ping: 20, TickDelta: 50_000_000}, models.Features{}, ctx)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
}

func TestMovementCheckSetSkipsDisabled(t *testing.T) {
	set := NewMovementCheckSet()
	set.PacketTiming.Configure(PacketTimingConfig{CommonConfig: CommonConfig{Enabled: false}})
	ctx := state.NewPlayerContext(models.Identity{Name: "a"}, state.DefaultParams())
	results := set.Run(models.TelemetryInput{OnGround: true, Ping: 20, TickDelta: 50_000_000}, models.Features{}, ctx)
	if len(results) != 2 {
		t.Fatalf("expected 2 results with one check disabled, got %d", len(results))
	}
}

func TestCombatCheckSetRunReturnsAllEnabled(t *testing.T) {
	set := NewCombatCheckSet()
	ctx := state.NewCombatContext(models.Identity{Name: "a"}, state.DefaultParams())
	in := models.CombatInput{Hit: true}
	ctx.RecordEvent(in)
	results := set.Run(in, ctx)
	ctx.AdvanceTarget(in.TargetId, in.HasTarget)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
}

func TestMovementCheckSetConfigureRoundTrips(t *testing.T) {
	set := NewMovementCheckSet()
	cfg := DefaultMovementCheckConfig()
	cfg.PacketTiming.Enabled = false
	set.Configure(cfg)
	if set.PacketTiming.IsEnabled() {
		t.Fatal("expected PacketTiming to be disabled after Configure")
	}
}

func TestCombatCheckSetConfigureRoundTrips(t *testing.T) {
	set := NewCombatCheckSet()
	cfg := DefaultCombatCheckConfig()
	cfg.Reach.Enabled = false
	set.Configure(cfg)
	if set.Reach.IsEnabled() {
		t.Fatal("expected Reach to be disabled after Configure")
	}
}
