package checks

import (
	"sync"

	"github.com/MacMoment/ac/internal/history"
	"github.com/MacMoment/ac/internal/models"
	"github.com/MacMoment/ac/internal/state"
)

// CombatReachConfig is the tunable threshold set for CombatReachCheck.
type CombatReachConfig struct {
	CommonConfig
	MaxReach    float64
	ReachBuffer float64
	MinSamples  int
}

func DefaultCombatReachConfig() CombatReachConfig {
	return CombatReachConfig{
		CommonConfig: CommonConfig{Enabled: true, Weight: 1.0},
		MaxReach:     3.0,
		ReachBuffer:  0.1,
		MinSamples:   10,
	}
}

// CombatReachCheck only analyses hits, comparing the recorded attack
// distance against a ping-adjusted vanilla reach envelope.
type CombatReachCheck struct {
	mu  sync.RWMutex
	cfg CombatReachConfig
}

func NewCombatReachCheck() *CombatReachCheck {
	return &CombatReachCheck{cfg: DefaultCombatReachConfig()}
}

func (c *CombatReachCheck) Name() string     { return "CombatReachCheck" }
func (c *CombatReachCheck) Category() string { return "combat" }

func (c *CombatReachCheck) config() CombatReachConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

func (c *CombatReachCheck) IsEnabled() bool { return c.config().Enabled }
func (c *CombatReachCheck) Weight() float64 { return c.config().Weight }

func (c *CombatReachCheck) Configure(cfg CombatReachConfig) {
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
}

func (c *CombatReachCheck) Analyze(in models.CombatInput, ctx *state.CombatContext) models.CheckResult {
	cfg := c.config()
	if !cfg.Enabled || !in.Hit || !in.HasTarget {
		return models.Clean(c.Name())
	}

	reach := distance3D(in.AttackerX, in.AttackerY, in.AttackerZ, in.TargetX, in.TargetY, in.TargetZ)
	horizDist := distanceHoriz(in.AttackerX, in.AttackerZ, in.TargetX, in.TargetZ)
	deltaY := in.TargetY - in.AttackerY

	pingComp := 0.001 * in.Ping
	adjustedMax := cfg.MaxReach + cfg.ReachBuffer + pingComp
	horizMax := 3.0 + pingComp + 0.5

	score := 0.0

	if reach > adjustedMax {
		score += 3 * (reach - adjustedMax) / adjustedMax
	}

	if horizDist > horizMax {
		score += 2 * (horizDist - horizMax) / 3.0
	}

	if ctx.ReachWindow.Size() >= cfg.MinSamples {
		median := ctx.ReachWindow.Median()
		mad := ctx.ReachWindow.MAD()
		if median >= 2.7 && mad < 0.3 {
			score += 0.5 * (median - 2.5) / 0.5
		}
		if windowMax := ctx.ReachWindow.Max(); windowMax > adjustedMax {
			score += (windowMax - adjustedMax) / adjustedMax
		}
	}

	if abs(deltaY) > 2 && reach > 3.0 {
		score += 0.3 * (abs(deltaY) - 2) * (reach - 3.0)
	}

	confidence := history.AnomalyToConfidence(score, 2.0)

	ctx.ReachWindow.Add(reach)

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
			"reach", reach,
			"adjusted_max", adjustedMax,
		),
	}
}
