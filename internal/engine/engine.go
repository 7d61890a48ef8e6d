// Package engine is the orchestrator: it wires state, feature
// extraction, checks, aggregation and mitigation into the per-event
// pipeline, and exposes the lifecycle hooks (join/quit/teleport/world
// change) that open and close exemption windows around them.
package engine

import (
	"github.com/google/uuid"

	"github.com/MacMoment/ac/internal/aggregator"
	"github.com/MacMoment/ac/internal/checks"
	"github.com/MacMoment/ac/internal/features"
	"github.com/MacMoment/ac/internal/host"
	"github.com/MacMoment/ac/internal/logging"
	"github.com/MacMoment/ac/internal/mitigation"
	"github.com/MacMoment/ac/internal/models"
	"github.com/MacMoment/ac/internal/state"
)

// Scheduler runs fn after roughly delayMs milliseconds. The host or a
// production wiring layer supplies a real implementation (e.g. a
// time.AfterFunc wrapper); tests can supply one that runs fn inline.
type Scheduler interface {
	Schedule(delayMs int64, fn func())
}

// Engine owns the live player state and the detection battery, and is
// the single call site where a check panic is recovered rather than
// allowed to fail the event or take down the ingest goroutine.
type Engine struct {
	Store *state.HistoryStore

	movementChecks *checks.MovementCheckSet
	combatChecks   *checks.CombatCheckSet
	agg            *aggregator.Aggregator
	policy         *mitigation.Policy
	scheduler      Scheduler
	whitelist      *state.Whitelist
}

// New builds an Engine over an already-configured store, check sets,
// aggregator and mitigation policy.
func New(store *state.HistoryStore, movementChecks *checks.MovementCheckSet, combatChecks *checks.CombatCheckSet, agg *aggregator.Aggregator, policy *mitigation.Policy, scheduler Scheduler) *Engine {
	return &Engine{
		Store:          store,
		movementChecks: movementChecks,
		combatChecks:   combatChecks,
		agg:            agg,
		policy:         policy,
		scheduler:      scheduler,
	}
}

// SetWhitelist attaches the admin-mutated whitelist, consulted on every
// ingest call in addition to whatever the host already set on
// PlayerStatus.IsWhitelisted. Nil is a valid value: no engine-side
// whitelist, host status is authoritative.
func (e *Engine) SetWhitelist(w *state.Whitelist) {
	e.whitelist = w
}

func (e *Engine) applyWhitelist(id uuid.UUID, status host.PlayerStatus) host.PlayerStatus {
	if e.whitelist != nil && e.whitelist.Contains(id) {
		status.IsWhitelisted = true
	}
	return status
}

// IngestTelemetry runs one movement packet through the full pipeline:
// history bookkeeping, feature extraction, the movement check battery,
// aggregation and mitigation. A lagging player's event is recorded but
// never checked, per spec.md's lag-grace behavior.
func (e *Engine) IngestTelemetry(id models.Identity, t models.TelemetryInput, status host.PlayerStatus) models.Decision {
	status = e.applyWhitelist(id.Id, status)
	ctx := e.Store.GetOrCreatePlayer(id.Id, id.Name)

	ctx.TelemetryHistory.Push(t)
	f := features.Extract(t, ctx)
	ctx.FeatureHistory.Push(f)
	ctx.SetLastTelemetryNanos(t.NanoTime)

	if f.IsLagging {
		e.policy.MarkLagExempt(ctx)
		return models.NoneDecision("lag grace")
	}

	results := e.runMovementChecks(t, f, ctx)
	v, ok := e.agg.Aggregate(id.Id, id.Name, t.NanoTime, t.Ping, results)
	if !ok {
		return models.NoneDecision("no significant violation")
	}
	return e.policy.Evaluate(v, status, ctx)
}

// IngestCombat runs one attack event through the combat pipeline.
// RecordEvent must run before the checks see the event and AdvanceTarget
// after, so CombatAimbotCheck can still observe the pre-event target
// during its own analysis.
func (e *Engine) IngestCombat(id models.Identity, in models.CombatInput, status host.PlayerStatus) models.Decision {
	status = e.applyWhitelist(id.Id, status)
	ctx := e.Store.GetOrCreateCombat(id.Id, id.Name)

	ctx.RecordEvent(in)
	results := e.runCombatChecks(in, ctx)
	ctx.AdvanceTarget(in.TargetId, in.HasTarget)

	v, ok := e.agg.Aggregate(id.Id, id.Name, in.NanoTime, in.Ping, results)
	if !ok {
		return models.NoneDecision("no significant violation")
	}
	return e.policy.EvaluateCombat(v, status, ctx)
}

// runMovementChecks runs every enabled movement check with a per-check
// recover, so one check panicking degrades that check's contribution to
// omitted rather than failing the whole event.
func (e *Engine) runMovementChecks(t models.TelemetryInput, f models.Features, ctx *state.PlayerContext) []models.CheckResult {
	all := e.movementChecks.All()
	results := make([]models.CheckResult, 0, len(all))
	for _, chk := range all {
		if !chk.IsEnabled() {
			continue
		}
		results = append(results, e.safeAnalyzeMovement(chk, t, f, ctx))
	}
	return results
}

func (e *Engine) safeAnalyzeMovement(chk checks.MovementCheck, t models.TelemetryInput, f models.Features, ctx *state.PlayerContext) (result models.CheckResult) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("check %s panicked, treating as clean: %v", chk.Name(), r)
			result = models.Clean(chk.Name())
		}
	}()
	return chk.Analyze(t, f, ctx)
}

func (e *Engine) runCombatChecks(in models.CombatInput, ctx *state.CombatContext) []models.CheckResult {
	all := e.combatChecks.All()
	results := make([]models.CheckResult, 0, len(all))
	for _, chk := range all {
		if !chk.IsEnabled() {
			continue
		}
		results = append(results, e.safeAnalyzeCombat(chk, in, ctx))
	}
	return results
}

func (e *Engine) safeAnalyzeCombat(chk checks.CombatCheck, in models.CombatInput, ctx *state.CombatContext) (result models.CheckResult) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("check %s panicked, treating as clean: %v", chk.Name(), r)
			result = models.Clean(chk.Name())
		}
	}()
	return chk.Analyze(in, ctx)
}

// Join registers id's contexts and opens the join exemption window,
// scheduling its own clear after the configured grace period.
func (e *Engine) Join(id uuid.UUID, name string) {
	ctx := e.Store.GetOrCreatePlayer(id, name)
	e.policy.SetRecentJoin(ctx, true)
	joinMs := e.policy.Config().JoinExemptionMs
	e.scheduler.Schedule(joinMs, func() {
		e.policy.SetRecentJoin(ctx, false)
	})
}

// Quit destroys id's movement and combat contexts. Any exemption-clear
// task scheduled by Join/Teleport/WorldChange still fires against the
// now-orphaned context object, which is a harmless no-op: nothing else
// holds a reference to it once it is out of the store.
func (e *Engine) Quit(id uuid.UUID) {
	e.Store.Remove(id)
}

// Teleport opens the teleport exemption window for id, if it is a
// tracked player, and schedules the window's clear.
func (e *Engine) Teleport(id uuid.UUID) {
	ctx, ok := e.Store.GetPlayer(id)
	if !ok {
		return
	}
	e.policy.SetTeleporting(ctx, true)
	teleportMs := e.policy.Config().TeleportExemptionMs
	e.scheduler.Schedule(teleportMs, func() {
		e.policy.SetTeleporting(ctx, false)
	})
}

// WorldChange resets id's rolling histories (the stats they hold no
// longer describe the player's current world) and opens a short
// exemption window over the reset, reusing the teleport window's length
// since both cover a discontinuity in position/physics rather than a
// distinct grace period of their own.
func (e *Engine) WorldChange(id uuid.UUID) {
	ctx, ok := e.Store.GetPlayer(id)
	if !ok {
		return
	}
	e.policy.SetWorldChanging(ctx, true)
	ctx.ResetHistories()
	worldChangeMs := e.policy.Config().TeleportExemptionMs
	e.scheduler.Schedule(worldChangeMs, func() {
		e.policy.SetWorldChanging(ctx, false)
	})
}
