package checks

import (
	"testing"

	"github.com/MacMoment/ac/internal/models"
	"github.com/MacMoment/ac/internal/state"
)

func TestMovementConsistencyUndersampledIsClean(t *testing.T) {
	chk := NewMovementConsistencyCheck()
	ctx := state.NewPlayerContext(models.Identity{Name: "a"}, state.DefaultParams())
	ctx.FeatureHistory.Push(models.Features{HorizSpeed: 0.2})
	res := chk.Analyze(models.TelemetryInput{OnGround: true, Ping: 20}, models.Features{HorizSpeed: 0.2}, ctx)
	if !res.IsClean() {
		t.Fatalf("expected clean result with fewer than 2 feature samples, got %+v", res)
	}
}

func TestMovementConsistencySpecialMovementIsClean(t *testing.T) {
	chk := NewMovementConsistencyCheck()
	ctx := state.NewPlayerContext(models.Identity{Name: "a"}, state.DefaultParams())
	ctx.FeatureHistory.Push(models.Features{HorizSpeed: 0.2})
	ctx.FeatureHistory.Push(models.Features{HorizSpeed: 0.2})
	res := chk.Analyze(models.TelemetryInput{Teleporting: true, Ping: 20}, models.Features{HorizSpeed: 50}, ctx)
	if !res.IsClean() {
		t.Fatalf("expected clean result during special movement, got %+v", res)
	}
}

func TestMovementConsistencyExcessiveSpeedTriggers(t *testing.T) {
	chk := NewMovementConsistencyCheck()
	ctx := state.NewPlayerContext(models.Identity{Name: "a"}, state.DefaultParams())
	ctx.PingWindow.Add(20)
	ctx.FeatureHistory.Push(models.Features{HorizSpeed: 0.2})
	ctx.FeatureHistory.Push(models.Features{HorizSpeed: 0.2})
	res := chk.Analyze(models.TelemetryInput{OnGround: true, Ping: 20}, models.Features{HorizSpeed: 5.0}, ctx)
	if res.IsClean() {
		t.Fatal("expected a flag for a 5 blocks/tick horizontal speed")
	}
	if res.Confidence < 0 || res.Confidence > 1 || res.Severity < 0 || res.Severity > 1 {
		t.Fatalf("confidence/severity out of bounds: %+v", res)
	}
}

func TestMovementConsistencyGroundedRiseTriggers(t *testing.T) {
	chk := NewMovementConsistencyCheck()
	ctx := state.NewPlayerContext(models.Identity{Name: "a"}, state.DefaultParams())
	ctx.PingWindow.Add(20)
	ctx.FeatureHistory.Push(models.Features{HorizSpeed: 0.1})
	ctx.FeatureHistory.Push(models.Features{HorizSpeed: 0.1})
	res := chk.Analyze(models.TelemetryInput{OnGround: true, DY: 0.5, Ping: 20}, models.Features{HorizSpeed: 0.1}, ctx)
	if res.IsClean() {
		t.Fatal("expected a flag for rising while flagged on-ground")
	}
}
