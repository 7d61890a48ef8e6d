package checks

import (
	"testing"

	"github.com/MacMoment/ac/internal/models"
	"github.com/MacMoment/ac/internal/state"
)

func pushCombatEvent(ctx *state.CombatContext, in models.CombatInput) {
	ctx.RecordEvent(in)
}

func TestCombatAutoClickerUndersampledIsClean(t *testing.T) {
	chk := NewCombatAutoClickerCheck()
	ctx := state.NewCombatContext(models.Identity{Name: "a"}, state.DefaultParams())
	pushCombatEvent(ctx, models.CombatInput{Hit: true, NanoTime: 0})
	res := chk.Analyze(models.CombatInput{Hit: true, NanoTime: 0}, ctx)
	if !res.IsClean() {
		t.Fatalf("expected clean result below MinSamples, got %+v", res)
	}
}

func TestCombatAutoClickerImpossibleCpsTriggers(t *testing.T) {
	chk := NewCombatAutoClickerCheck()
	ctx := state.NewCombatContext(models.Identity{Name: "a"}, state.DefaultParams())
	var res models.CheckResult
	nanos := int64(0)
	for i := 0; i < 25; i++ {
		in := models.CombatInput{Hit: true, NanoTime: nanos}
		pushCombatEvent(ctx, in)
		res = chk.Analyze(in, ctx)
		nanos += 10_000_000 // 10ms between attacks => 100 clicks/sec
	}
	if res.IsClean() {
		t.Fatal("expected a flag for a sustained 100 cps attack rate")
	}
	if res.Confidence < 0 || res.Confidence > 1 || res.Severity < 0 || res.Severity > 1 {
		t.Fatalf("confidence/severity out of bounds: %+v", res)
	}
}

func TestCombatAutoClickerHumanCadenceIsClean(t *testing.T) {
	chk := NewCombatAutoClickerCheck()
	ctx := state.NewCombatContext(models.Identity{Name: "a"}, state.DefaultParams())
	var res models.CheckResult
	nanos := int64(0)
	for i := 0; i < 25; i++ {
		hit := i%3 != 0
		in := models.CombatInput{Hit: hit, NanoTime: nanos}
		pushCombatEvent(ctx, in)
		res = chk.Analyze(in, ctx)
		nanos += int64(300+(i*97)%400) * 1_000_000
	}
	if !res.IsClean() {
		t.Fatalf("expected clean result for a varied human cadence, got %+v", res)
	}
}
