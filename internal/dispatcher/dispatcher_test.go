package dispatcher

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MacMoment/ac/internal/models"
)

type fakeExecutor struct {
	mu       sync.Mutex
	kicks    []string
	tempMute []string
}

func (f *fakeExecutor) Kick(playerId, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kicks = append(f.kicks, playerId)
	return nil
}

func (f *fakeExecutor) TempMute(playerId, reason string, durationMs int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tempMute = append(f.tempMute, playerId)
	return nil
}

func (f *fakeExecutor) count() (kicks, mutes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.kicks), len(f.tempMute)
}

type fakeSink struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSink) SendAlert(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func TestDispatchNoneDoesNothing(t *testing.T) {
	sink := &fakeSink{}
	exec := &fakeExecutor{}
	d := New(DefaultConfig(), sink, exec)
	d.Dispatch(models.NoneDecision("clean"))
	assert.Zero(t, sink.count(), "expected no alert sent for NONE decision")
}

func testViolation() models.Violation {
	return models.Violation{
		PlayerId:       uuid.New(),
		PlayerName:     "steve",
		Category:       "combat",
		Confidence:     0.9,
		Severity:       0.8,
		TimestampNanos: 1000,
	}
}

func TestDispatchAlertSendsThroughSink(t *testing.T) {
	sink := &fakeSink{}
	exec := &fakeExecutor{}
	d := New(DefaultConfig(), sink, exec)
	v := testViolation()
	d.Dispatch(models.Decision{Action: models.ActionAlert, Violation: &v})
	assert.Equal(t, 1, sink.count())
}

func TestDispatchPunishEnqueuesAndWorkerExecutesIt(t *testing.T) {
	exec := &fakeExecutor{}
	d := New(DefaultConfig(), nil, exec)
	v := testViolation()
	d.Dispatch(models.Decision{Action: models.ActionPunish, Violation: &v})

	d.Start()
	defer d.Stop()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, mutes := exec.count(); mutes == 1 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("expected punishment job to be drained and executed")
}

func TestDispatchPunishWithNilExecutorIsHarmless(t *testing.T) {
	d := New(Config{QueueCapacity: 4, WorkerCount: 1, AlertFormat: "{player}"}, nil, nil)
	v := testViolation()
	d.Dispatch(models.Decision{Action: models.ActionPunish, Violation: &v})
	d.Start()
	defer d.Stop()
	time.Sleep(10 * time.Millisecond)
}

func TestWebhookSinkWithEmptyURLIsNoOp(t *testing.T) {
	sink := NewWebhookSink(NewHTTPPool(1), "")
	require.NoError(t, sink.SendAlert("hello"))
}
