package checks

import (
	"sync"

	"github.com/MacMoment/ac/internal/history"
	"github.com/MacMoment/ac/internal/models"
	"github.com/MacMoment/ac/internal/state"
)

const gravityPerTick = 0.08

// PredictionDriftConfig is the tunable threshold set for
// PredictionDriftCheck.
type PredictionDriftConfig struct {
	CommonConfig
	MinDriftSamples  int
	MaxDriftThreshold float64
}

func DefaultPredictionDriftConfig() PredictionDriftConfig {
	return PredictionDriftConfig{
		CommonConfig:      CommonConfig{Enabled: true, Weight: 1.0},
		MinDriftSamples:   5,
		MaxDriftThreshold: 0.5,
	}
}

// PredictionDriftCheck flags sustained deviation from a simple
// linear-plus-gravity extrapolation of a player's recent trajectory.
//
// The originating spec leaves ambiguous whether "consecutive drift"
// should be measured against a fixed linear predictor or by re-deriving
// the predictor at each prior event; this implementation re-derives it
// at each prior event (a sliding window), which is the interpretation
// that keeps the sustained-evidence property well defined for windows
// shorter than the full telemetry history.
type PredictionDriftCheck struct {
	mu  sync.RWMutex
	cfg PredictionDriftConfig
}

func NewPredictionDriftCheck() *PredictionDriftCheck {
	return &PredictionDriftCheck{cfg: DefaultPredictionDriftConfig()}
}

func (c *PredictionDriftCheck) Name() string     { return "PredictionDriftCheck" }
func (c *PredictionDriftCheck) Category() string { return "movement" }

func (c *PredictionDriftCheck) config() PredictionDriftConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

func (c *PredictionDriftCheck) IsEnabled() bool { return c.config().Enabled }
func (c *PredictionDriftCheck) Weight() float64 { return c.config().Weight }

func (c *PredictionDriftCheck) Configure(cfg PredictionDriftConfig) {
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
}

func (c *PredictionDriftCheck) Analyze(t models.TelemetryInput, f models.Features, ctx *state.PlayerContext) models.CheckResult {
	cfg := c.config()
	minSamples := cfg.MinDriftSamples
	if !cfg.Enabled || ctx.TelemetryHistory.Size() < minSamples+2 || t.HasSpecialMovement() {
		return models.Clean(c.Name())
	}

	events := ctx.TelemetryHistory.ToArray() // oldest -> newest, last is current
	n := len(events)
	medianPing := ctx.PingWindow.Median()
	threshold := cfg.MaxDriftThreshold * (1 + medianPing/300)

	drift := driftAt(events, n-1, minSamples)
	if drift <= threshold {
		return models.Clean(c.Name())
	}

	consecutive := 0
	for j := n - 2; j-minSamples >= 0; j-- {
		d := driftAt(events, j, minSamples)
		if d > threshold/2 {
			consecutive++
		} else {
			break
		}
	}
	if consecutive < minSamples {
		return models.Clean(c.Name())
	}

	score := (drift-threshold)/threshold + 0.2*float64(consecutive-minSamples)
	confidence := history.AnomalyToConfidence(score, 2.0)
	if confidence < significanceThreshold {
		return models.Clean(c.Name())
	}
	severity := history.BoundConfidence(score / 2.0)

	return models.CheckResult{
		CheckName:  c.Name(),
		Confidence: confidence,
		Severity:   severity,
		Explanation: explain(
			"drift", drift,
			"threshold", threshold,
			"consecutive", consecutive,
		),
	}
}

// driftAt computes the 3D drift magnitude at events[idx] given the mean
// velocity of the minSamples events immediately preceding it.
func driftAt(events []models.TelemetryInput, idx, minSamples int) float64 {
	if idx-minSamples < 0 {
		return 0
	}
	var avgDx, avgDy, avgDz float64
	for k := idx - minSamples; k < idx; k++ {
		avgDx += events[k].DX
		avgDy += events[k].DY
		avgDz += events[k].DZ
	}
	avgDx /= float64(minSamples)
	avgDy /= float64(minSamples)
	avgDz /= float64(minSamples)

	predictedDy := avgDy - gravityPerTick
	actual := events[idx]
	return distance3D(actual.DX, actual.DY, actual.DZ, avgDx, predictedDy, avgDz)
}
