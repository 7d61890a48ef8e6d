package models

import "github.com/google/uuid"

// Violation is the aggregator's output for one event: the fused
// confidence/severity across all significant contributing checks.
type Violation struct {
	PlayerId   uuid.UUID
	PlayerName string

	// Category is the name of the highest-confidence contributing check.
	// Open question in the originating spec: this is the check's name,
	// not its declared category string — preserved here deliberately.
	Category string

	Confidence float64 // max over contributors
	Severity   float64 // max over contributors

	TimestampNanos int64
	Ping           float64

	Contributors []CheckResult

	// Explanation is merged from all contributors, first-writer-wins on
	// key collision.
	Explanation map[string]any
}

// BuildViolation fuses the significant results (caller has already
// filtered by significance) into a Violation for playerId/name at the
// given timestamp and ping.
func BuildViolation(playerId uuid.UUID, playerName string, timestampNanos int64, ping float64, significant []CheckResult) Violation {
	maxConf, maxSev := 0.0, 0.0
	category := ""
	explanation := make(map[string]any)

	for _, r := range significant {
		if r.Confidence > maxConf {
			maxConf = r.Confidence
			category = r.CheckName
		}
		if r.Severity > maxSev {
			maxSev = r.Severity
		}
		for k, v := range r.Explanation {
			if _, exists := explanation[k]; !exists {
				explanation[k] = v
			}
		}
	}

	return Violation{
		PlayerId:       playerId,
		PlayerName:     playerName,
		Category:       category,
		Confidence:     maxConf,
		Severity:       maxSev,
		TimestampNanos: timestampNanos,
		Ping:           ping,
		Contributors:   significant,
		Explanation:    explanation,
	}
}
