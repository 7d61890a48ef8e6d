// Package watchdog tracks per-component liveness via heartbeats and
// samples host resource usage on the same ticker; Status and LastSample
// expose the two readings.
package watchdog

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/MacMoment/ac/internal/logging"
)

// ComponentHealth tracks one component's last heartbeat and derived
// health flag.
type ComponentHealth struct {
	Name          string
	LastHeartbeat int64
	IsHealthy     uint32
	Threshold     time.Duration
}

// HostSample is the most recent CPU/memory reading.
type HostSample struct {
	CPUPercent    float64
	MemoryPercent float64
	SampledAt     int64
}

// Watchdog polls registered components for staleness and samples host
// resource usage on the same ticker.
type Watchdog struct {
	mu         sync.RWMutex
	components map[string]*ComponentHealth

	checkInterval time.Duration
	running       uint32

	sample atomic.Pointer[HostSample]
}

// New creates a Watchdog that checks component liveness and samples host
// usage every checkInterval.
func New(checkInterval time.Duration) *Watchdog {
	return &Watchdog{
		components:    make(map[string]*ComponentHealth),
		checkInterval: checkInterval,
	}
}

// RegisterComponent adds name to the watchdog's tracked set, unhealthy
// until its first Heartbeat, considered stale if threshold elapses
// between heartbeats.
func (w *Watchdog) RegisterComponent(name string, threshold time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.components[name] = &ComponentHealth{Name: name, Threshold: threshold}
}

// Heartbeat records that name is alive right now. bootstrap has the
// analytics uplink worker call it once per loop iteration; nothing calls
// it for the registered "engine" component.
func (w *Watchdog) Heartbeat(name string) {
	w.mu.RLock()
	comp, ok := w.components[name]
	w.mu.RUnlock()
	if !ok {
		return
	}
	atomic.StoreInt64(&comp.LastHeartbeat, time.Now().UnixNano())
	atomic.StoreUint32(&comp.IsHealthy, 1)
}

// Start launches the monitor loop in the background.
func (w *Watchdog) Start() {
	atomic.StoreUint32(&w.running, 1)
	go w.monitorLoop()
}

// Stop halts the monitor loop. Safe to call more than once.
func (w *Watchdog) Stop() {
	atomic.StoreUint32(&w.running, 0)
}

func (w *Watchdog) monitorLoop() {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for atomic.LoadUint32(&w.running) == 1 {
		<-ticker.C
		w.checkAllComponents()
		w.sampleHost()
	}
}

func (w *Watchdog) checkAllComponents() {
	now := time.Now().UnixNano()

	w.mu.RLock()
	defer w.mu.RUnlock()
	for name, comp := range w.components {
		lastBeat := atomic.LoadInt64(&comp.LastHeartbeat)
		if lastBeat == 0 {
			continue
		}
		elapsed := time.Duration(now - lastBeat)
		if elapsed > comp.Threshold {
			atomic.StoreUint32(&comp.IsHealthy, 0)
			logging.Warn("watchdog: %s unhealthy, no heartbeat for %v", name, elapsed)
		}
	}
}

func (w *Watchdog) sampleHost() {
	cpuPercents, err := cpu.Percent(0, false)
	if err != nil || len(cpuPercents) == 0 {
		return
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return
	}
	w.sample.Store(&HostSample{
		CPUPercent:    cpuPercents[0],
		MemoryPercent: vm.UsedPercent,
		SampledAt:     time.Now().UnixNano(),
	})
}

// LastSample returns the most recent host resource reading, or the zero
// value if none has been taken yet.
func (w *Watchdog) LastSample() HostSample {
	if s := w.sample.Load(); s != nil {
		return *s
	}
	return HostSample{}
}

// IsHealthy reports whether name's last heartbeat is within its
// threshold. An unregistered name is reported unhealthy.
func (w *Watchdog) IsHealthy(name string) bool {
	w.mu.RLock()
	comp, ok := w.components[name]
	w.mu.RUnlock()
	if !ok {
		return false
	}
	return atomic.LoadUint32(&comp.IsHealthy) == 1
}

// Status returns a snapshot of every component's health flag.
func (w *Watchdog) Status() map[string]bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	status := make(map[string]bool, len(w.components))
	for name, comp := range w.components {
		status[name] = atomic.LoadUint32(&comp.IsHealthy) == 1
	}
	return status
}
