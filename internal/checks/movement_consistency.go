package checks

import (
	"sync"

	"github.com/MacMoment/ac/internal/history"
	"github.com/MacMoment/ac/internal/models"
	"github.com/MacMoment/ac/internal/state"
)

// MovementConsistencyConfig is the tunable threshold set for
// MovementConsistencyCheck.
type MovementConsistencyConfig struct {
	CommonConfig
	MaxHoriz       float64
	MaxVert        float64
	AccelTolerance float64
}

// DefaultMovementConsistencyConfig matches a typical vanilla-physics
// envelope: 0.8 blocks/tick horizontal sprint cap (matching S2's
// "below 0.8 b/tick" example), elytra-ceiling vertical cap, generous
// acceleration tolerance.
func DefaultMovementConsistencyConfig() MovementConsistencyConfig {
	return MovementConsistencyConfig{
		CommonConfig:   CommonConfig{Enabled: true, Weight: 1.0},
		MaxHoriz:       0.8,
		MaxVert:        0.5,
		AccelTolerance: 0.6,
	}
}

// MovementConsistencyCheck detects speed/fly hacks using coarse physics
// envelopes, adjusted for reported ping.
type MovementConsistencyCheck struct {
	mu  sync.RWMutex
	cfg MovementConsistencyConfig
}

func NewMovementConsistencyCheck() *MovementConsistencyCheck {
	return &MovementConsistencyCheck{cfg: DefaultMovementConsistencyConfig()}
}

func (c *MovementConsistencyCheck) Name() string     { return "MovementConsistencyCheck" }
func (c *MovementConsistencyCheck) Category() string { return "movement" }

func (c *MovementConsistencyCheck) config() MovementConsistencyConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

func (c *MovementConsistencyCheck) IsEnabled() bool { return c.config().Enabled }
func (c *MovementConsistencyCheck) Weight() float64 { return c.config().Weight }

func (c *MovementConsistencyCheck) Configure(cfg MovementConsistencyConfig) {
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
}

func (c *MovementConsistencyCheck) Analyze(t models.TelemetryInput, f models.Features, ctx *state.PlayerContext) models.CheckResult {
	cfg := c.config()
	if !cfg.Enabled || ctx.FeatureHistory.Size() < 2 || t.HasSpecialMovement() {
		return models.Clean(c.Name())
	}

	medianPing := ctx.PingWindow.Median()
	p := 1 + medianPing/500

	maxHoriz := cfg.MaxHoriz * p
	maxVert := cfg.MaxVert * p
	if t.DY < 0 {
		maxVert *= 2
	}

	score := 0.0

	if f.HorizSpeed > maxHoriz {
		score += (f.HorizSpeed - maxHoriz) / maxHoriz
	}

	vertSpeedAbs := abs(f.VertSpeed)
	if vertSpeedAbs > maxVert {
		score += (vertSpeedAbs - maxVert) / maxVert
	}

	accelLimit := cfg.MaxHoriz * cfg.AccelTolerance * p
	if abs(f.HorizAccel) > accelLimit {
		score += 0.5 * (abs(f.HorizAccel) - accelLimit) / accelLimit
	}

	if t.OnGround && t.DY > 0.1 {
		score += 0.5
	}

	if prev, ok := ctx.FeatureHistory.Get(1); ok {
		if prev.HorizSpeed > 0.2 && f.HorizSpeed > 0.2 && abs(f.HorizAccel) > 2*prev.HorizSpeed {
			score += 0.3
		}
	}

	confidence := history.AnomalyToConfidence(score, 1.5)
	if confidence < significanceThreshold {
		return models.Clean(c.Name())
	}
	severity := history.BoundConfidence(score / 2.0)

	return models.CheckResult{
		CheckName:   c.Name(),
		Confidence:  confidence,
		Severity:    severity,
		Explanation: explain("score", score, "horiz_speed", f.HorizSpeed, "max_horiz", maxHoriz),
	}
}
