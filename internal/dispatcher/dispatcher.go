// Package dispatcher turns a mitigation Decision into the side effects
// it implies: a webhook alert, or a queued punishment job carried out
// by the host's own thin punishment API. Nothing in this package runs
// on the ingest path itself — Dispatch only ever enqueues or fires a
// best-effort async send.
package dispatcher

import (
	"encoding/json"
	"sync/atomic"

	"github.com/MacMoment/ac/internal/host"
	"github.com/MacMoment/ac/internal/logging"
	"github.com/MacMoment/ac/internal/models"
	"github.com/MacMoment/ac/internal/notifier"
)

// WebhookSink posts alert text to a configured webhook URL using a
// pooled fasthttp client. Implements host.AlertSink.
type WebhookSink struct {
	pool *HTTPPool
	url  string
}

func NewWebhookSink(pool *HTTPPool, url string) *WebhookSink {
	return &WebhookSink{pool: pool, url: url}
}

func (w *WebhookSink) SendAlert(text string) error {
	if w.url == "" {
		return nil
	}
	body, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return err
	}
	return w.pool.PostJSON(w.url, body)
}

// Dispatcher turns Decisions into alert sends and queued punishment
// jobs, draining the job queue with a fixed pool of worker goroutines.
type Dispatcher struct {
	queue         *JobQueue
	sink          host.AlertSink
	executor      host.PunishmentExecutor
	alertFormat   string
	tempMuteMs    int64
	running       uint32
	workerCount   int
}

// Config configures a Dispatcher.
type Config struct {
	QueueCapacity uint32
	WorkerCount   int
	AlertFormat   string
	TempMuteMs    int64
}

// DefaultConfig returns reasonable defaults: a 256-job queue, two
// drain workers, spec.md's default alert format, and a 30s temp-mute.
func DefaultConfig() Config {
	return Config{QueueCapacity: 256, WorkerCount: 2, AlertFormat: notifier.DefaultFormat, TempMuteMs: 30_000}
}

// New constructs a Dispatcher. sink may be nil if alerts are disabled;
// executor may be nil if punishment is disabled (DispatchError: logged,
// engine state unaffected, in both cases).
func New(cfg Config, sink host.AlertSink, executor host.PunishmentExecutor) *Dispatcher {
	return &Dispatcher{
		queue:       NewJobQueue(cfg.QueueCapacity),
		sink:        sink,
		executor:    executor,
		alertFormat: cfg.AlertFormat,
		tempMuteMs:  cfg.TempMuteMs,
		workerCount: cfg.WorkerCount,
	}
}

// Configure replaces the alert format and temp-mute duration used by
// future dispatches.
func (d *Dispatcher) Configure(cfg Config) {
	d.alertFormat = cfg.AlertFormat
	d.tempMuteMs = cfg.TempMuteMs
}

// Start launches the job-queue drain workers.
func (d *Dispatcher) Start() {
	atomic.StoreUint32(&d.running, 1)
	for i := 0; i < d.workerCount; i++ {
		go d.drainLoop()
	}
}

// Stop halts the drain workers. Already-dequeued jobs in flight still
// complete.
func (d *Dispatcher) Stop() {
	atomic.StoreUint32(&d.running, 0)
}

func (d *Dispatcher) drainLoop() {
	for atomic.LoadUint32(&d.running) == 1 {
		job, ok := d.queue.Dequeue()
		if !ok {
			continue
		}
		d.execute(job)
	}
}

func (d *Dispatcher) execute(job Job) {
	if d.executor == nil {
		return
	}
	var err error
	switch job.Type {
	case JobTypeKick:
		err = d.executor.Kick(job.PlayerId.String(), job.Reason)
	case JobTypeTempMute:
		err = d.executor.TempMute(job.PlayerId.String(), job.Reason, job.DurationMs)
	}
	if err != nil {
		logging.Warn("dispatcher: punishment job %v for %s failed: %v", job.Type, job.PlayerId, err)
	}
}

// Dispatch turns d's decision into the appropriate side effect: PUNISH
// enqueues a temp-mute job (dropped and logged if the queue is full),
// ALERT and FLAG send alert text, NONE does nothing. The configured
// punishment type is not consulted, so Dispatch never enqueues a kick job.
func (d *Dispatcher) Dispatch(decision models.Decision) {
	switch decision.Action {
	case models.ActionNone:
		return
	case models.ActionPunish:
		d.dispatchPunish(decision)
	case models.ActionAlert, models.ActionFlag:
		d.dispatchAlert(decision)
	}
}

func (d *Dispatcher) dispatchPunish(decision models.Decision) {
	if decision.Violation == nil {
		return
	}
	v := *decision.Violation
	job := NewTempMuteJob(v.PlayerId, v.Category, d.tempMuteMs, v.TimestampNanos)
	if !d.queue.Enqueue(job) {
		logging.Warn("dispatcher: punishment job queue full, dropping job for %s", v.PlayerId)
	}
}

func (d *Dispatcher) dispatchAlert(decision models.Decision) {
	if d.sink == nil || decision.Violation == nil {
		return
	}
	text := notifier.Format(d.alertFormat, *decision.Violation)
	if err := d.sink.SendAlert(text); err != nil {
		logging.Warn("dispatcher: alert send failed: %v", err)
	}
}
