package state

import (
	"sync/atomic"

	"github.com/MacMoment/ac/internal/history"
	"github.com/MacMoment/ac/internal/models"
	"github.com/MacMoment/ac/pkg/memory"
)

// Params configures the shape of newly created contexts: history ring
// capacity, rolling-window capacity, and EWMA smoothing factor. HistoryStore
// applies the current Params to every context it constructs.
type Params struct {
	HistorySize int
	WindowSize  int
	EWMAAlpha   float64
}

// DefaultParams matches spec.md's stated defaults (history 64, window 20,
// alpha 0.3).
func DefaultParams() Params {
	return Params{HistorySize: 64, WindowSize: 20, EWMAAlpha: 0.3}
}

// PlayerContext is the mutable, single-owner state for one live player's
// movement stream. All mutation must come from that player's single
// ingest owner (see the concurrency model); the atomic fields below may
// be read from other goroutines for status reporting.
type PlayerContext struct {
	Id   models.Identity
	Name string

	TelemetryHistory *history.RingBuffer[models.TelemetryInput]
	FeatureHistory   *history.RingBuffer[models.Features]

	PingWindow       *history.RollingWindow
	PacketDeltaWindow *history.RollingWindow

	PingEWMA       *history.EWMA
	HorizSpeedEWMA *history.EWMA
	HorizAccelEWMA *history.EWMA

	lastTelemetryNanos int64
	lastAlertNanos     int64
	exemptUntilNanos   int64
	cooldownUntilNanos int64

	teleporting   int32
	worldChanging int32
	recentJoin    int32

	counters *memory.ViolationCounters
}

// NewPlayerContext constructs a context sized per params for id/name.
func NewPlayerContext(id models.Identity, params Params) *PlayerContext {
	return &PlayerContext{
		Id:                id,
		Name:              id.Name,
		TelemetryHistory:  history.NewRingBuffer[models.TelemetryInput](params.HistorySize),
		FeatureHistory:    history.NewRingBuffer[models.Features](params.HistorySize),
		PingWindow:        history.NewRollingWindow(params.WindowSize),
		PacketDeltaWindow: history.NewRollingWindow(params.WindowSize),
		PingEWMA:          history.NewEWMA(params.EWMAAlpha),
		HorizSpeedEWMA:    history.NewEWMA(params.EWMAAlpha),
		HorizAccelEWMA:    history.NewEWMA(params.EWMAAlpha),
		counters:          memory.NewViolationCounters(),
	}
}

func (p *PlayerContext) LastTelemetryNanos() int64 { return atomic.LoadInt64(&p.lastTelemetryNanos) }
func (p *PlayerContext) SetLastTelemetryNanos(v int64) {
	atomic.StoreInt64(&p.lastTelemetryNanos, v)
}

func (p *PlayerContext) LastAlertNanos() int64      { return atomic.LoadInt64(&p.lastAlertNanos) }
func (p *PlayerContext) SetLastAlertNanos(v int64)  { atomic.StoreInt64(&p.lastAlertNanos, v) }

func (p *PlayerContext) ExemptUntilNanos() int64     { return atomic.LoadInt64(&p.exemptUntilNanos) }
func (p *PlayerContext) SetExemptUntilNanos(v int64) { atomic.StoreInt64(&p.exemptUntilNanos, v) }

func (p *PlayerContext) CooldownUntilNanos() int64     { return atomic.LoadInt64(&p.cooldownUntilNanos) }
func (p *PlayerContext) SetCooldownUntilNanos(v int64) { atomic.StoreInt64(&p.cooldownUntilNanos, v) }

func (p *PlayerContext) IsTeleporting() bool { return atomic.LoadInt32(&p.teleporting) != 0 }
func (p *PlayerContext) SetTeleporting(v bool) {
	atomic.StoreInt32(&p.teleporting, boolToInt32(v))
}

func (p *PlayerContext) IsWorldChanging() bool { return atomic.LoadInt32(&p.worldChanging) != 0 }
func (p *PlayerContext) SetWorldChanging(v bool) {
	atomic.StoreInt32(&p.worldChanging, boolToInt32(v))
}

func (p *PlayerContext) IsRecentJoin() bool { return atomic.LoadInt32(&p.recentJoin) != 0 }
func (p *PlayerContext) SetRecentJoin(v bool) {
	atomic.StoreInt32(&p.recentJoin, boolToInt32(v))
}

func (p *PlayerContext) TotalViolations() uint64 {
	return atomic.LoadUint64(&p.counters.TotalViolations)
}
func (p *PlayerContext) RecentViolations() uint64 {
	return atomic.LoadUint64(&p.counters.RecentViolations)
}

// RecordViolation increments both violation counters. Called by the
// mitigation policy on any pass-through (non-exempt, non-cooldown) event.
func (p *PlayerContext) RecordViolation() {
	atomic.AddUint64(&p.counters.TotalViolations, 1)
	atomic.AddUint64(&p.counters.RecentViolations, 1)
}

// ResetRecentViolations zeroes the recent-violation counter, typically on
// a world change.
func (p *PlayerContext) ResetRecentViolations() {
	atomic.StoreUint64(&p.counters.RecentViolations, 0)
}

// ResetHistories clears all history buffers, windows and EWMAs, and
// zeroes the recent-violation counter. Used on world change.
func (p *PlayerContext) ResetHistories() {
	p.TelemetryHistory.Clear()
	p.FeatureHistory.Clear()
	p.PingWindow.Clear()
	p.PacketDeltaWindow.Clear()
	p.PingEWMA.Reset()
	p.HorizSpeedEWMA.Reset()
	p.HorizAccelEWMA.Reset()
	p.ResetRecentViolations()
}

func boolToInt32(v bool) int32 {
	if v {
		return 1
	}
	return 0
}
