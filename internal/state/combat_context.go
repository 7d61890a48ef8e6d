package state

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/MacMoment/ac/internal/history"
	"github.com/MacMoment/ac/internal/models"
	"github.com/MacMoment/ac/pkg/memory"
)

// CombatContext is the mutable, single-owner state for one live player's
// combat stream. Analogous to PlayerContext but windows track aim,
// reach and attack cadence instead of movement.
type CombatContext struct {
	Id   models.Identity
	Name string

	CombatHistory *history.RingBuffer[models.CombatInput]

	AimErrorWindow       *history.RollingWindow
	SnapAngleWindow      *history.RollingWindow
	ReachWindow          *history.RollingWindow
	AttackIntervalWindow *history.RollingWindow
	HitRateWindow        *history.RollingWindow

	AimErrorEWMA *history.EWMA
	ReachEWMA    *history.EWMA

	attackCount   int64
	hitCount      int64
	criticalCount int64

	lastTargetId          uuid.UUID
	hasLastTarget         int32
	consecutiveTargetHits int64

	exemptUntilNanos   int64
	cooldownUntilNanos int64
	lastAlertNanos     int64

	counters *memory.ViolationCounters
}

// NewCombatContext constructs a context sized per params for id/name.
func NewCombatContext(id models.Identity, params Params) *CombatContext {
	return &CombatContext{
		Id:                   id,
		Name:                 id.Name,
		CombatHistory:        history.NewRingBuffer[models.CombatInput](params.HistorySize),
		AimErrorWindow:       history.NewRollingWindow(params.WindowSize),
		SnapAngleWindow:      history.NewRollingWindow(params.WindowSize),
		ReachWindow:          history.NewRollingWindow(params.WindowSize),
		AttackIntervalWindow: history.NewRollingWindow(params.WindowSize),
		HitRateWindow:        history.NewRollingWindow(params.WindowSize),
		AimErrorEWMA:         history.NewEWMA(params.EWMAAlpha),
		ReachEWMA:            history.NewEWMA(params.EWMAAlpha),
		counters:             memory.NewViolationCounters(),
	}
}

func (c *CombatContext) RecordAttack(hit, critical bool) {
	atomic.AddInt64(&c.attackCount, 1)
	if hit {
		atomic.AddInt64(&c.hitCount, 1)
	}
	if critical {
		atomic.AddInt64(&c.criticalCount, 1)
	}
}

// RecordEvent performs the per-event bookkeeping combat checks assume has
// already happened: it pushes in onto CombatHistory, updates the attack
// interval and hit-rate windows, and increments the attack/hit/critical
// counters. It must run before any check analyzes in, mirroring how the
// feature extractor updates a PlayerContext's ping/packet-delta windows
// before movement checks run. Target tracking is intentionally not
// touched here — CombatAimbotCheck needs the previous target still
// visible during analysis; call AdvanceTarget once every check has run.
func (c *CombatContext) RecordEvent(in models.CombatInput) {
	if last, ok := c.CombatHistory.Peek(); ok && in.NanoTime > last.NanoTime {
		intervalMs := float64(in.NanoTime-last.NanoTime) / 1e6
		c.AttackIntervalWindow.Add(intervalMs)
	}
	if in.Hit {
		c.HitRateWindow.Add(1)
	} else {
		c.HitRateWindow.Add(0)
	}
	c.RecordAttack(in.Hit, in.Critical)
	c.CombatHistory.Push(in)
}

// AdvanceTarget updates last-target tracking for the next event. Call
// after all checks for the current event have run.
func (c *CombatContext) AdvanceTarget(targetId uuid.UUID, hasTarget bool) {
	if !hasTarget {
		return
	}
	c.SetLastTarget(targetId)
}

func (c *CombatContext) AttackCount() int64   { return atomic.LoadInt64(&c.attackCount) }
func (c *CombatContext) HitCount() int64      { return atomic.LoadInt64(&c.hitCount) }
func (c *CombatContext) CriticalCount() int64 { return atomic.LoadInt64(&c.criticalCount) }

// LastTarget returns the last-attacked target id and whether one has been
// recorded yet.
func (c *CombatContext) LastTarget() (uuid.UUID, bool) {
	if atomic.LoadInt32(&c.hasLastTarget) == 0 {
		return uuid.Nil, false
	}
	return c.lastTargetId, true
}

// SetLastTarget records targetId as the most recent attack target,
// incrementing the consecutive-hit streak if it matches the previous
// target or resetting it otherwise.
func (c *CombatContext) SetLastTarget(targetId uuid.UUID) {
	if atomic.LoadInt32(&c.hasLastTarget) != 0 && c.lastTargetId == targetId {
		atomic.AddInt64(&c.consecutiveTargetHits, 1)
	} else {
		atomic.StoreInt64(&c.consecutiveTargetHits, 1)
	}
	c.lastTargetId = targetId
	atomic.StoreInt32(&c.hasLastTarget, 1)
}

func (c *CombatContext) ConsecutiveTargetHits() int64 {
	return atomic.LoadInt64(&c.consecutiveTargetHits)
}

func (c *CombatContext) ExemptUntilNanos() int64     { return atomic.LoadInt64(&c.exemptUntilNanos) }
func (c *CombatContext) SetExemptUntilNanos(v int64) { atomic.StoreInt64(&c.exemptUntilNanos, v) }

func (c *CombatContext) CooldownUntilNanos() int64     { return atomic.LoadInt64(&c.cooldownUntilNanos) }
func (c *CombatContext) SetCooldownUntilNanos(v int64) { atomic.StoreInt64(&c.cooldownUntilNanos, v) }

func (c *CombatContext) LastAlertNanos() int64     { return atomic.LoadInt64(&c.lastAlertNanos) }
func (c *CombatContext) SetLastAlertNanos(v int64) { atomic.StoreInt64(&c.lastAlertNanos, v) }

func (c *CombatContext) TotalViolations() uint64 {
	return atomic.LoadUint64(&c.counters.TotalViolations)
}
func (c *CombatContext) RecentViolations() uint64 {
	return atomic.LoadUint64(&c.counters.RecentViolations)
}

func (c *CombatContext) RecordViolation() {
	atomic.AddUint64(&c.counters.TotalViolations, 1)
	atomic.AddUint64(&c.counters.RecentViolations, 1)
}

func (c *CombatContext) ResetRecentViolations() {
	atomic.StoreUint64(&c.counters.RecentViolations, 0)
}

// ResetHistories clears all history buffers and windows. Used on world
// change.
func (c *CombatContext) ResetHistories() {
	c.CombatHistory.Clear()
	c.AimErrorWindow.Clear()
	c.SnapAngleWindow.Clear()
	c.ReachWindow.Clear()
	c.AttackIntervalWindow.Clear()
	c.HitRateWindow.Clear()
	c.AimErrorEWMA.Reset()
	c.ReachEWMA.Reset()
	c.ResetRecentViolations()
}
