package checks

import (
	"sync"

	"github.com/MacMoment/ac/internal/history"
	"github.com/MacMoment/ac/internal/models"
	"github.com/MacMoment/ac/internal/state"
)

// CombatAimbotConfig is the tunable threshold set for CombatAimbotCheck.
type CombatAimbotConfig struct {
	CommonConfig
	MinSamples       int
	MaxSnapAngle     float64
	MinAimVariance   float64
	MaxAimPerfection float64
}

func DefaultCombatAimbotConfig() CombatAimbotConfig {
	return CombatAimbotConfig{
		CommonConfig:     CommonConfig{Enabled: true, Weight: 1.0},
		MinSamples:       10,
		MaxSnapAngle:     60,
		MinAimVariance:   1.0,
		MaxAimPerfection: 3.0,
	}
}

// CombatAimbotCheck detects snap-to-target aim, unnaturally consistent
// aim error, and rotation speeds that exceed a human's tick-rate limit.
type CombatAimbotCheck struct {
	mu  sync.RWMutex
	cfg CombatAimbotConfig
}

func NewCombatAimbotCheck() *CombatAimbotCheck {
	return &CombatAimbotCheck{cfg: DefaultCombatAimbotConfig()}
}

func (c *CombatAimbotCheck) Name() string     { return "CombatAimbotCheck" }
func (c *CombatAimbotCheck) Category() string { return "combat" }

func (c *CombatAimbotCheck) config() CombatAimbotConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

func (c *CombatAimbotCheck) IsEnabled() bool { return c.config().Enabled }
func (c *CombatAimbotCheck) Weight() float64 { return c.config().Weight }

func (c *CombatAimbotCheck) Configure(cfg CombatAimbotConfig) {
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
}

func (c *CombatAimbotCheck) Analyze(in models.CombatInput, ctx *state.CombatContext) models.CheckResult {
	cfg := c.config()
	if !cfg.Enabled || ctx.AimErrorWindow.Size() < cfg.MinSamples {
		ctx.AimErrorWindow.Add(currentAimError(in))
		ctx.SnapAngleWindow.Add(snapAngleOf(in))
		return models.Clean(c.Name())
	}

	aimError := currentAimError(in)
	snap := snapAngleOf(in)

	score := 0.0

	if snap > cfg.MaxSnapAngle && aimError < 2 {
		score += (snap / cfg.MaxSnapAngle) * (1 - aimError/2)
	}

	stdDev := ctx.AimErrorWindow.StdDev()
	mean := ctx.AimErrorWindow.Mean()
	if stdDev < cfg.MinAimVariance && mean < cfg.MaxAimPerfection {
		score += (1 - stdDev/cfg.MinAimVariance) * (1 - mean/cfg.MaxAimPerfection)
	}

	mad := ctx.AimErrorWindow.MAD()
	if mad < 0.5 && ctx.AimErrorWindow.Size() >= 2*cfg.MinSamples {
		score += 0.5 * (1 - mad/0.5)
	}

	if lastTarget, ok := ctx.LastTarget(); ok && in.HasTarget && lastTarget != in.TargetId {
		if snap > 30 && aimError < 2 {
			score += (snap / 90) * 0.5
		}
	}

	if in.TimeSinceLastAttackMs > 0 {
		degPerTick := (snap / in.TimeSinceLastAttackMs) * 50
		if degPerTick > 180 {
			score += 0.3 * (degPerTick - 180) / 180
		}
	}

	confidence := history.AnomalyToConfidence(score, 1.5)

	ctx.AimErrorWindow.Add(aimError)
	ctx.SnapAngleWindow.Add(snap)

	if confidence < significanceThreshold {
		return models.Clean(c.Name())
	}
	severity := history.BoundConfidence(score / 2.0)

	return models.CheckResult{
		CheckName:  c.Name(),
		Confidence: confidence,
		Severity:   severity,
		Explanation: explain(
			"score", score,
			"aim_error", aimError,
			"snap", snap,
		),
	}
}

func currentAimError(in models.CombatInput) float64 {
	if !in.HasTarget {
		return 0
	}
	return aimErrorDegrees(in.AttackerX, in.AttackerY, in.AttackerZ, in.AttackerYaw, in.AttackerPitch, in.TargetX, in.TargetY, in.TargetZ)
}

func snapAngleOf(in models.CombatInput) float64 {
	return angularDiffMagnitude(in.AttackerYaw, in.AttackerPitch, in.PreAttackYaw, in.PreAttackPitch)
}
