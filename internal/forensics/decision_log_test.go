package forensics

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/MacMoment/ac/internal/models"
)

func TestRecordWritesNonNoneDecisionsAsNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.ndjson")
	l, err := NewDecisionLogger(path, 10)
	require.NoError(t, err)

	v := models.Violation{PlayerId: uuid.New(), PlayerName: "steve", Category: "combat", Confidence: 0.999, Severity: 0.8}
	l.Record(v.PlayerId, v.PlayerName, models.Decision{Action: models.ActionPunish, Violation: &v, Reason: "threshold exceeded"})
	l.Record(v.PlayerId, v.PlayerName, models.NoneDecision("clean"))

	require.NoError(t, l.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.Len(t, lines, 1, "expected exactly one logged line (NONE skipped)")

	var entry DecisionLogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "PUNISH", entry.Action)
	require.Equal(t, "steve", entry.PlayerName)
	require.Equal(t, "combat", entry.Category)
}

func TestRecordDropsWhenQueueFull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.ndjson")
	l, err := NewDecisionLogger(path, 1)
	require.NoError(t, err)
	defer l.Close()

	v := models.Violation{PlayerId: uuid.New(), PlayerName: "steve"}
	for i := 0; i < 1000; i++ {
		l.Record(v.PlayerId, v.PlayerName, models.Decision{Action: models.ActionFlag, Violation: &v})
	}
	time.Sleep(10 * time.Millisecond)
}
