// Package analytics uplinks every emitted Violation to an external
// collector over a websocket connection, one newline-delimited JSON
// object per line, without ever blocking the ingest path that produces
// them.
package analytics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MacMoment/ac/internal/logging"
	"github.com/MacMoment/ac/internal/models"
)

// wireViolation is the exact §6 wire format: one JSON object per line.
type wireViolation struct {
	Type       string  `json:"type"`
	PlayerUUID string  `json:"player_uuid"`
	PlayerName string  `json:"player_name"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Severity   float64 `json:"severity"`
	TimestampUnixMs int64 `json:"timestamp"`
}

// Config configures one uplink connection.
type Config struct {
	CollectorURL     string
	QueueCapacity    int
	ReconnectDelayMs int64
}

// DefaultConfig matches spec.md's stated defaults.
func DefaultConfig() Config {
	return Config{QueueCapacity: 1000, ReconnectDelayMs: 5000}
}

// Uplink owns the bounded outbound queue and the single background
// worker draining it over a websocket connection. The queue is a
// buffered channel rather than history.RingBuffer: a single consumer
// worker needs to dequeue and advance, which a fixed-capacity ring built
// for "read the last N snapshots" (as every player context uses it)
// does not support. Capacity still matches spec.md's "bounded queue
// (capacity 1000)".
type Uplink struct {
	cfg Config

	queue   chan models.Violation
	dropped uint64

	connMu sync.Mutex
	conn   *websocket.Conn

	running uint32
	done    chan struct{}
}

// New constructs an Uplink with its outbound queue sized to
// cfg.QueueCapacity.
func New(cfg Config) *Uplink {
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = 1000
	}
	return &Uplink{
		cfg:   cfg,
		queue: make(chan models.Violation, cfg.QueueCapacity),
		done:  make(chan struct{}),
	}
}

// Configure replaces the uplink's reconnect delay and collector URL,
// taking effect on the next reconnect attempt.
func (u *Uplink) Configure(cfg Config) {
	u.cfg.CollectorURL = cfg.CollectorURL
	u.cfg.ReconnectDelayMs = cfg.ReconnectDelayMs
}

// Offer enqueues v without blocking. If the queue is full, v is dropped
// and the drop counter is incremented (AnalyticsTransportError: queue
// full → drop the offending violation, count the drop).
func (u *Uplink) Offer(v models.Violation) {
	select {
	case u.queue <- v:
	default:
		atomic.AddUint64(&u.dropped, 1)
	}
}

// Dropped returns the number of violations dropped so far.
func (u *Uplink) Dropped() uint64 {
	return atomic.LoadUint64(&u.dropped)
}

// Start launches the background drain worker. Heartbeat, if non-nil, is
// called once per drain iteration for the watchdog.
func (u *Uplink) Start(heartbeat func()) {
	atomic.StoreUint32(&u.running, 1)
	go u.run(heartbeat)
}

// Stop halts the background worker and closes the active connection, if
// any.
func (u *Uplink) Stop() {
	if !atomic.CompareAndSwapUint32(&u.running, 1, 0) {
		return
	}
	close(u.done)
	u.connMu.Lock()
	if u.conn != nil {
		u.conn.Close()
	}
	u.connMu.Unlock()
}

func (u *Uplink) run(heartbeat func()) {
	for atomic.LoadUint32(&u.running) == 1 {
		if heartbeat != nil {
			heartbeat()
		}
		select {
		case <-u.done:
			return
		case v := <-u.queue:
			u.sendWithReconnect(v)
		case <-time.After(200 * time.Millisecond):
		}
	}
}

func (u *Uplink) sendWithReconnect(v models.Violation) {
	conn, err := u.ensureConnected()
	if err != nil {
		logging.Warn("analytics: collector unreachable, dropping violation: %v", err)
		atomic.AddUint64(&u.dropped, 1)
		return
	}

	line, err := json.Marshal(toWire(v))
	if err != nil {
		logging.Error("analytics: failed to marshal violation: %v", err)
		return
	}
	line = append(line, '\n')

	if err := conn.WriteMessage(websocket.TextMessage, line); err != nil {
		logging.Warn("analytics: write failed, will reconnect: %v", err)
		u.disconnect()
		atomic.AddUint64(&u.dropped, 1)
	}
}

func (u *Uplink) ensureConnected() (*websocket.Conn, error) {
	u.connMu.Lock()
	defer u.connMu.Unlock()
	if u.conn != nil {
		return u.conn, nil
	}
	if u.cfg.CollectorURL == "" {
		return nil, errNoCollectorURL
	}

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, _, err := dialer.Dial(u.cfg.CollectorURL, nil)
	if err != nil {
		time.Sleep(time.Duration(u.cfg.ReconnectDelayMs) * time.Millisecond)
		return nil, err
	}
	u.conn = conn
	return conn, nil
}

func (u *Uplink) disconnect() {
	u.connMu.Lock()
	defer u.connMu.Unlock()
	if u.conn != nil {
		u.conn.Close()
		u.conn = nil
	}
}

func toWire(v models.Violation) wireViolation {
	return wireViolation{
		Type:            "violation",
		PlayerUUID:      v.PlayerId.String(),
		PlayerName:      v.PlayerName,
		Category:        v.Category,
		Confidence:      v.Confidence,
		Severity:        v.Severity,
		TimestampUnixMs: v.TimestampNanos / 1_000_000,
	}
}

var errNoCollectorURL = &uplinkError{"analytics: no collector URL configured"}

type uplinkError struct{ msg string }

func (e *uplinkError) Error() string { return e.msg }
