package checks

import (
	"sync"

	"github.com/MacMoment/ac/internal/history"
	"github.com/MacMoment/ac/internal/models"
	"github.com/MacMoment/ac/internal/state"
)

// CombatAutoClickerConfig is the tunable threshold set for
// CombatAutoClickerCheck.
type CombatAutoClickerConfig struct {
	CommonConfig
	MinSamples             int
	MaxHitRate             float64
	MinAttackIntervalMs    float64
	MaxIntervalConsistency float64
}

func DefaultCombatAutoClickerConfig() CombatAutoClickerConfig {
	return CombatAutoClickerConfig{
		CommonConfig:           CommonConfig{Enabled: true, Weight: 1.0},
		MinSamples:             10,
		MaxHitRate:             0.85,
		MinAttackIntervalMs:    50,
		MaxIntervalConsistency: 0.1,
	}
}

// CombatAutoClickerCheck detects impossibly high or impossibly regular
// click cadence, look-away hits, and rapid target switching.
type CombatAutoClickerCheck struct {
	mu  sync.RWMutex
	cfg CombatAutoClickerConfig
}

func NewCombatAutoClickerCheck() *CombatAutoClickerCheck {
	return &CombatAutoClickerCheck{cfg: DefaultCombatAutoClickerConfig()}
}

func (c *CombatAutoClickerCheck) Name() string     { return "CombatAutoClickerCheck" }
func (c *CombatAutoClickerCheck) Category() string { return "combat" }

func (c *CombatAutoClickerCheck) config() CombatAutoClickerConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

func (c *CombatAutoClickerCheck) IsEnabled() bool { return c.config().Enabled }
func (c *CombatAutoClickerCheck) Weight() float64 { return c.config().Weight }

func (c *CombatAutoClickerCheck) Configure(cfg CombatAutoClickerConfig) {
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
}

// Analyze assumes ctx.RecordEvent(in) has already run for this event, so
// CombatHistory, AttackIntervalWindow and HitRateWindow already reflect it.
func (c *CombatAutoClickerCheck) Analyze(in models.CombatInput, ctx *state.CombatContext) models.CheckResult {
	cfg := c.config()
	if !cfg.Enabled || ctx.CombatHistory.Size() < cfg.MinSamples {
		return models.Clean(c.Name())
	}

	score := 0.0

	if ctx.HitRateWindow.Size() > 0 {
		recentHitRate := ctx.HitRateWindow.Mean()
		if recentHitRate > cfg.MaxHitRate {
			score += 2 * (recentHitRate - cfg.MaxHitRate) / (1 - cfg.MaxHitRate)
		}
	}

	attacks, hits := ctx.AttackCount(), ctx.HitCount()
	if attacks >= int64(3*cfg.MinSamples) && attacks > 0 {
		totalHitRate := float64(hits) / float64(attacks)
		if totalHitRate > 0.90 {
			score += 2 * (totalHitRate - 0.9)
		}
	}

	meanInterval := ctx.AttackIntervalWindow.Mean()
	if meanInterval > 0 {
		cps := 1000.0 / meanInterval
		if cps > 20 {
			score += 2.5 * (cps - 20) / 20
		}
	}

	if minInterval := ctx.AttackIntervalWindow.Min(); minInterval > 0 && minInterval < cfg.MinAttackIntervalMs {
		score += (cfg.MinAttackIntervalMs - minInterval) / cfg.MinAttackIntervalMs
	}

	if meanInterval > 0 {
		ratio := ctx.AttackIntervalWindow.MAD() / meanInterval
		if ratio < cfg.MaxIntervalConsistency {
			score += 1.5 * (1 - ratio/cfg.MaxIntervalConsistency)
		}
	}

	aimError := currentAimError(in)
	if in.Hit {
		switch {
		case aimError > 90:
			score += 3 * (aimError - 90) / 90
		case aimError >= 45:
			score += 0.5 * (aimError - 45) / 45
		}
	}

	if switches := recentTargetSwitchCount(ctx); switches >= 3 {
		score += 0.3 * float64(switches)
	}

	if hits >= int64(cfg.MinSamples) {
		critRate := float64(ctx.CriticalCount()) / float64(hits)
		if critRate > 0.7 {
			score += history.BoundConfidence(1.5 * (critRate - 0.5))
		}
	}

	confidence := history.AnomalyToConfidence(score, 1.8)

	if confidence < significanceThreshold {
		return models.Clean(c.Name())
	}
	severity := history.BoundConfidence(score / 3.0)

	return models.CheckResult{
		CheckName:  c.Name(),
		Confidence: confidence,
		Severity:   severity,
		Explanation: explain(
			"score", score,
		),
	}
}

// recentTargetSwitchCount counts target switches among the last 5 combat
// events, including the current one, separated by less than 500ms.
// CombatHistory already contains the current event by the time this runs.
func recentTargetSwitchCount(ctx *state.CombatContext) int {
	window := ctx.CombatHistory.ToArray()
	if len(window) > 5 {
		window = window[len(window)-5:]
	}

	count := 0
	for i := 1; i < len(window); i++ {
		prev, cur := window[i-1], window[i]
		if !prev.HasTarget || !cur.HasTarget {
			continue
		}
		if prev.TargetId == cur.TargetId {
			continue
		}
		gapMs := float64(cur.NanoTime-prev.NanoTime) / 1e6
		if gapMs < 500 {
			count++
		}
	}
	return count
}
