// Package forensics keeps a durable, best-effort audit trail of every
// non-NONE mitigation decision, independent of the analytics uplink (so
// the audit trail survives a collector outage).
package forensics

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MacMoment/ac/internal/models"
)

// DecisionLogEntry is one line of the NDJSON audit log.
type DecisionLogEntry struct {
	Timestamp   int64          `json:"timestamp"`
	PlayerId    uuid.UUID      `json:"playerId"`
	PlayerName  string         `json:"playerName"`
	Action      string         `json:"action"`
	Category    string         `json:"category"`
	Confidence  float64        `json:"confidence"`
	Severity    float64        `json:"severity"`
	Reason      string         `json:"reason"`
	Explanation map[string]any `json:"explanation,omitempty"`
}

// DecisionLogger writes DecisionLogEntry lines to an append-only NDJSON
// file on a single background worker, so a slow or stalled disk never
// blocks the caller recording a decision.
type DecisionLogger struct {
	file    *os.File
	entries chan DecisionLogEntry
	wg      sync.WaitGroup
}

// NewDecisionLogger opens path for append and starts the background
// writer. Capacity bounds the number of entries that may be in flight
// before Record starts dropping them.
func NewDecisionLogger(path string, capacity int) (*DecisionLogger, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	if capacity <= 0 {
		capacity = 1000
	}

	l := &DecisionLogger{
		file:    file,
		entries: make(chan DecisionLogEntry, capacity),
	}
	l.wg.Add(1)
	go l.worker()
	return l, nil
}

func (l *DecisionLogger) worker() {
	defer l.wg.Done()
	for entry := range l.entries {
		data, err := json.Marshal(entry)
		if err != nil {
			continue
		}
		data = append(data, '\n')
		l.file.Write(data)
	}
}

// Record enqueues decision for playerId, non-blocking: if the queue is
// full the entry is dropped so a stalled writer never backs up the
// caller. NONE decisions are not logged.
func (l *DecisionLogger) Record(playerId uuid.UUID, playerName string, decision models.Decision) {
	if decision.Action == models.ActionNone {
		return
	}
	entry := DecisionLogEntry{
		Timestamp:  time.Now().UnixNano(),
		PlayerId:   playerId,
		PlayerName: playerName,
		Action:     decision.Action.String(),
		Reason:     decision.Reason,
	}
	if decision.Violation != nil {
		entry.Category = decision.Violation.Category
		entry.Confidence = decision.Violation.Confidence
		entry.Severity = decision.Violation.Severity
		entry.Explanation = decision.Violation.Explanation
	}

	select {
	case l.entries <- entry:
	default:
	}
}

// Close drains the remaining queued entries and closes the file.
func (l *DecisionLogger) Close() error {
	close(l.entries)
	l.wg.Wait()
	return l.file.Close()
}
