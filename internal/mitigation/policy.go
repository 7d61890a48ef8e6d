// Package mitigation evaluates a Violation against a player's exemption
// and cooldown state and turns it into a Decision, or into NONE.
package mitigation

import (
	"github.com/MacMoment/ac/internal/models"
	"github.com/MacMoment/ac/internal/state"
	"github.com/MacMoment/ac/pkg/clock"
)

// PunishmentType is the configured punishment mode. Evaluate acts only on
// PunishmentFlagOnly (every passing violation becomes FLAG); Kick and
// TempMute both yield PUNISH, and the Decision does not say which.
type PunishmentType int

const (
	PunishmentKick PunishmentType = iota
	PunishmentTempMute
	PunishmentFlagOnly
)

// Config is the mitigation policy's tunable state, reloadable without
// restarting the engine.
type Config struct {
	CooldownMs           int64
	ExemptionMs          int64
	LagGraceMs           int64
	JoinExemptionMs      int64
	TeleportExemptionMs  int64
	PunishmentEnabled    bool
	PunishmentType       PunishmentType
	PunishmentThreshold  float64
	BypassCapability     string
	ExemptCreative       bool
	ExemptSpectator      bool
}

// DefaultConfig matches spec.md's stated defaults.
func DefaultConfig() Config {
	return Config{
		CooldownMs:          1500,
		ExemptionMs:         250,
		LagGraceMs:          500,
		JoinExemptionMs:     1000,
		TeleportExemptionMs: 500,
		PunishmentEnabled:   true,
		PunishmentType:      PunishmentTempMute,
		PunishmentThreshold: 0.999,
		ExemptCreative:      true,
		ExemptSpectator:     true,
	}
}

// PlayerStatus is the subset of host-supplied, out-of-scope player state
// the policy needs to evaluate gamemode and capability exemptions: the
// host-game integration layer fills this in per event.
type PlayerStatus struct {
	Gamemode       string // "creative", "spectator", or anything else
	HasBypass      bool
	IsWhitelisted  bool
}

// Policy applies the ordered exemption/cooldown gate from spec.md §4.7.
type Policy struct {
	cfg   Config
	clock clock.Clock
}

func New(cfg Config, clk clock.Clock) *Policy {
	return &Policy{cfg: cfg, clock: clk}
}

// Configure replaces the policy's thresholds, taking effect on the next
// Evaluate call.
func (p *Policy) Configure(cfg Config) {
	p.cfg = cfg
}

// Config returns the policy's current thresholds, for callers (the
// engine's lifecycle hooks) that need to schedule work off of them
// without duplicating the values.
func (p *Policy) Config() Config {
	return p.cfg
}

// Evaluate applies the first-match-wins exemption/cooldown checks and,
// on pass-through, the punishment-threshold gate. It mutates ctx's
// cooldown/violation-counter state as a side effect of a non-NONE
// decision, matching spec.md's "advances only on non-NONE" invariant.
func (p *Policy) Evaluate(v models.Violation, status PlayerStatus, ctx *state.PlayerContext) models.Decision {
	now := p.clock.NowNanos()

	if status.IsWhitelisted {
		return models.NoneDecision("whitelisted")
	}
	if status.HasBypass {
		return models.NoneDecision("bypass capability")
	}
	if (status.Gamemode == "creative" && p.cfg.ExemptCreative) ||
		(status.Gamemode == "spectator" && p.cfg.ExemptSpectator) {
		return models.NoneDecision("gamemode exemption")
	}
	if now < ctx.ExemptUntilNanos() || ctx.IsTeleporting() || ctx.IsWorldChanging() || ctx.IsRecentJoin() {
		return models.NoneDecision("exemption window")
	}
	if now < ctx.CooldownUntilNanos() {
		return models.NoneDecision("cooldown")
	}

	ctx.SetCooldownUntilNanos(now + p.cfg.CooldownMs*1_000_000)
	ctx.SetLastAlertNanos(now)
	ctx.RecordViolation()

	return p.decide(v)
}

// EvaluateCombat is the CombatContext analog of Evaluate.
func (p *Policy) EvaluateCombat(v models.Violation, status PlayerStatus, ctx *state.CombatContext) models.Decision {
	now := p.clock.NowNanos()

	if status.IsWhitelisted {
		return models.NoneDecision("whitelisted")
	}
	if status.HasBypass {
		return models.NoneDecision("bypass capability")
	}
	if (status.Gamemode == "creative" && p.cfg.ExemptCreative) ||
		(status.Gamemode == "spectator" && p.cfg.ExemptSpectator) {
		return models.NoneDecision("gamemode exemption")
	}
	if now < ctx.ExemptUntilNanos() {
		return models.NoneDecision("exemption window")
	}
	if now < ctx.CooldownUntilNanos() {
		return models.NoneDecision("cooldown")
	}

	ctx.SetCooldownUntilNanos(now + p.cfg.CooldownMs*1_000_000)
	ctx.SetLastAlertNanos(now)
	ctx.RecordViolation()

	return p.decide(v)
}

func (p *Policy) decide(v models.Violation) models.Decision {
	violation := v
	if p.cfg.PunishmentType == PunishmentFlagOnly {
		return models.Decision{Action: models.ActionFlag, Violation: &violation, Reason: "flag-only punishment mode"}
	}
	if p.cfg.PunishmentEnabled && v.Confidence >= p.cfg.PunishmentThreshold {
		return models.Decision{Action: models.ActionPunish, Violation: &violation, Reason: "confidence over punishment threshold"}
	}
	return models.Decision{Action: models.ActionAlert, Violation: &violation, Reason: "significant violation"}
}

// MarkExempt opens a short exemption window to absorb transient noise
// (e.g. after a teleport or join clears).
func (p *Policy) MarkExempt(ctx *state.PlayerContext) {
	ctx.SetExemptUntilNanos(p.clock.NowNanos() + p.cfg.ExemptionMs*1_000_000)
}

// MarkExemptCombat is the CombatContext analog of MarkExempt.
func (p *Policy) MarkExemptCombat(ctx *state.CombatContext) {
	ctx.SetExemptUntilNanos(p.clock.NowNanos() + p.cfg.ExemptionMs*1_000_000)
}

// MarkLagExempt opens the longer lag grace window.
func (p *Policy) MarkLagExempt(ctx *state.PlayerContext) {
	ctx.SetExemptUntilNanos(p.clock.NowNanos() + p.cfg.LagGraceMs*1_000_000)
}

// SetTeleporting sets or clears the teleporting flag. Clearing opens the
// short exemption window in the same call, matching spec.md §4.7's
// "on clearing, invoke markExempt".
func (p *Policy) SetTeleporting(ctx *state.PlayerContext, v bool) {
	ctx.SetTeleporting(v)
	if !v {
		p.MarkExempt(ctx)
	}
}

// SetWorldChanging sets or clears the world-changing flag, opening the
// exemption window on clear.
func (p *Policy) SetWorldChanging(ctx *state.PlayerContext, v bool) {
	ctx.SetWorldChanging(v)
	if !v {
		p.MarkExempt(ctx)
	}
}

// SetRecentJoin sets or clears the recent-join flag, opening the
// exemption window on clear.
func (p *Policy) SetRecentJoin(ctx *state.PlayerContext, v bool) {
	ctx.SetRecentJoin(v)
	if !v {
		p.MarkExempt(ctx)
	}
}
