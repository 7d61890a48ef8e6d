package checks

import (
	"sync"

	"github.com/MacMoment/ac/internal/history"
	"github.com/MacMoment/ac/internal/models"
	"github.com/MacMoment/ac/internal/state"
)

// PacketTimingConfig is the tunable threshold set for PacketTimingCheck.
type PacketTimingConfig struct {
	CommonConfig
	MinDeltaMs     float64
	BurstRatio     float64
	MaxJitterCoeff float64
	SkewThreshold  float64
}

// DefaultPacketTimingConfig matches spec.md's stated defaults.
func DefaultPacketTimingConfig() PacketTimingConfig {
	return PacketTimingConfig{
		CommonConfig:   CommonConfig{Enabled: true, Weight: 1.0},
		MinDeltaMs:     5.0,
		BurstRatio:     0.3,
		MaxJitterCoeff: 3.0,
		SkewThreshold:  0.5,
	}
}

// PacketTimingCheck detects timer manipulation, packet bursts, or
// machine-perfect cadence in a player's packet-delta window.
type PacketTimingCheck struct {
	mu  sync.RWMutex
	cfg PacketTimingConfig
}

// NewPacketTimingCheck constructs the check with default thresholds.
func NewPacketTimingCheck() *PacketTimingCheck {
	return &PacketTimingCheck{cfg: DefaultPacketTimingConfig()}
}

func (c *PacketTimingCheck) Name() string     { return "PacketTimingCheck" }
func (c *PacketTimingCheck) Category() string { return "timing" }

func (c *PacketTimingCheck) config() PacketTimingConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

func (c *PacketTimingCheck) IsEnabled() bool {
	return c.config().Enabled
}

func (c *PacketTimingCheck) Weight() float64 {
	return c.config().Weight
}

// Configure replaces the check's thresholds, taking effect on the next
// Analyze call.
func (c *PacketTimingCheck) Configure(cfg PacketTimingConfig) {
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
}

func (c *PacketTimingCheck) Analyze(t models.TelemetryInput, f models.Features, ctx *state.PlayerContext) models.CheckResult {
	cfg := c.config()
	if !cfg.Enabled || ctx.PacketDeltaWindow.Size() < 5 || t.HasSpecialMovement() {
		return models.Clean(c.Name())
	}

	deltas := ctx.PacketDeltaWindow.ToArray()
	score := 0.0

	burstCount := 0
	for _, d := range deltas {
		if d < cfg.MinDeltaMs {
			burstCount++
		}
	}
	burstRatio := float64(burstCount) / float64(len(deltas))
	if burstRatio > cfg.BurstRatio {
		score += 2 * burstRatio
	}

	mad := history.MAD(deltas)
	if mad < 1.0 && len(deltas) >= 10 {
		score += 1 - mad
	}

	mean := history.Mean(deltas)
	stdDev := history.StdDev(deltas)
	if mean > 0 {
		ratio := stdDev / mean
		if ratio > cfg.MaxJitterCoeff {
			score += (ratio - cfg.MaxJitterCoeff) / cfg.MaxJitterCoeff
		}
	}

	medianDelta := history.Median(deltas)
	medianPing := ctx.PingWindow.Median()
	expected := 50.0 + 0.05*medianPing
	var skew float64
	if expected > 0 {
		skew = abs(medianDelta-expected) / expected
		if skew > cfg.SkewThreshold {
			score += skew
		}
	}

	confidence := history.AnomalyToConfidence(score, 2.0)
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
			"burst_ratio", burstRatio,
			"mad", mad,
			"skew", skew,
		),
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
