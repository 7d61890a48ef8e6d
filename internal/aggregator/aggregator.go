// Package aggregator fuses one event's per-check results into at most
// one Violation, gating on both confidence and severity before the
// mitigation policy ever sees the event.
package aggregator

import (
	"github.com/google/uuid"

	"github.com/MacMoment/ac/internal/history"
	"github.com/MacMoment/ac/internal/models"
)

// significanceThreshold mirrors internal/checks' own early-return cutoff;
// results below it are noise and never reach the fusion step.
const significanceThreshold = 0.1

// Config is the aggregator's threshold gate.
type Config struct {
	// ActionConfidence is the minimum fused confidence required to emit a
	// Violation at all.
	ActionConfidence float64
	// MinSeverity is the minimum fused severity required alongside
	// ActionConfidence.
	MinSeverity float64
}

// DefaultConfig matches spec.md's stated defaults.
func DefaultConfig() Config {
	return Config{ActionConfidence: 0.997, MinSeverity: 0.3}
}

// Aggregator fuses check results into violations under a fixed
// max-confidence/max-severity gate, with an experimental weighted-fusion
// helper exposed alongside for tuning.
type Aggregator struct {
	cfg Config
}

func New(cfg Config) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Configure replaces the gate thresholds, taking effect on the next
// Aggregate call.
func (a *Aggregator) Configure(cfg Config) {
	a.cfg = cfg
}

// Aggregate filters results by significance, fuses the survivors by
// max-confidence/max-severity, and returns a Violation only if both
// thresholds in cfg are met. The bool return reports whether a
// Violation was produced.
func (a *Aggregator) Aggregate(playerId uuid.UUID, playerName string, timestampNanos int64, ping float64, results []models.CheckResult) (models.Violation, bool) {
	significant := make([]models.CheckResult, 0, len(results))
	for _, r := range results {
		if r.Confidence > significanceThreshold {
			significant = append(significant, r)
		}
	}
	if len(significant) == 0 {
		return models.Violation{}, false
	}

	maxConf, maxSev := 0.0, 0.0
	for _, r := range significant {
		if r.Confidence > maxConf {
			maxConf = r.Confidence
		}
		if r.Severity > maxSev {
			maxSev = r.Severity
		}
	}
	if maxConf < a.cfg.ActionConfidence || maxSev < a.cfg.MinSeverity {
		return models.Violation{}, false
	}

	return models.BuildViolation(playerId, playerName, timestampNanos, ping, significant), true
}

// FuseWeighted is the aggregator's experimental alternative to the
// max-confidence gate: a weighted average of confidences, exposed for
// offline tuning. The decision gate in Aggregate never calls this.
func FuseWeighted(results []models.CheckResult, weightByCheck map[string]float64) float64 {
	cs := make([]float64, len(results))
	ws := make([]float64, len(results))
	for i, r := range results {
		cs[i] = r.Confidence
		w, ok := weightByCheck[r.CheckName]
		if !ok {
			w = 1.0
		}
		ws[i] = w
	}
	return history.FuseWeighted(cs, ws)
}
