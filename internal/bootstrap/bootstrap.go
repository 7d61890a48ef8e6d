// Package bootstrap wires every component into a running engine: load
// config, build the detection battery and policy, the metrics registry
// and the admin HTTP handler, and start the watchdog, analytics uplink
// and dispatcher. cmd/acengine calls Initialize then Start, and mounts
// the admin handler and the metrics endpoint itself.
package bootstrap

import (
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MacMoment/ac/internal/aggregator"
	"github.com/MacMoment/ac/internal/analytics"
	"github.com/MacMoment/ac/internal/checks"
	"github.com/MacMoment/ac/internal/commands"
	"github.com/MacMoment/ac/internal/config"
	"github.com/MacMoment/ac/internal/dispatcher"
	"github.com/MacMoment/ac/internal/engine"
	"github.com/MacMoment/ac/internal/forensics"
	"github.com/MacMoment/ac/internal/host"
	"github.com/MacMoment/ac/internal/logging"
	"github.com/MacMoment/ac/internal/metrics"
	"github.com/MacMoment/ac/internal/mitigation"
	"github.com/MacMoment/ac/internal/state"
	"github.com/MacMoment/ac/internal/sys"
	"github.com/MacMoment/ac/internal/watchdog"
	"github.com/MacMoment/ac/pkg/clock"
	"github.com/MacMoment/ac/pkg/memory"
)

// Components holds every long-lived piece wired together by Initialize.
type Components struct {
	ConfigManager *config.Manager
	Store         *state.HistoryStore
	Engine        *engine.Engine
	Watchdog      *watchdog.Watchdog
	Metrics       *metrics.Registry
	Uplink        *analytics.Uplink
	Dispatcher    *dispatcher.Dispatcher
	DecisionLog   *forensics.DecisionLogger
	Whitelist     *state.Whitelist
	AdminHandler  *commands.Handler
}

// Bootstrap owns the load/wire/start/shutdown lifecycle.
type Bootstrap struct {
	ConfigPath string
	Components *Components
	started    bool
}

func New(configPath string) *Bootstrap {
	return &Bootstrap{ConfigPath: configPath}
}

// Initialize loads config and wires every component, but starts none of
// them — Start does that separately so tests can inspect the wiring
// first.
func (b *Bootstrap) Initialize(sink AlertSinkFactory, executor PunishmentExecutorFactory) error {
	if err := ensureLogsDirectory(); err != nil {
		return fmt.Errorf("logs directory: %w", err)
	}
	if err := logging.InitGlobalLogger(logging.LevelInfo, "logs/acengine.log"); err != nil {
		return fmt.Errorf("logging init failed: %w", err)
	}

	cfgManager := config.NewManager(b.ConfigPath)
	cfg := cfgManager.Current()

	if cfg.Runtime.CPUIsolation {
		if err := sys.PinToCore(cfg.Runtime.PinnedCore); err != nil {
			logging.Warn("CPU pinning failed: %v", err)
		}
	}
	if cfg.Runtime.MemoryLock {
		if err := memory.MlockAll(); err != nil {
			logging.Warn("memory lock failed: %v", err)
		} else {
			logging.Info("memory locked")
		}
	}

	clk := clock.System()
	store := state.NewHistoryStore(cfg.ToParams())

	movementChecks := checks.NewMovementCheckSet()
	movementChecks.Configure(cfg.ToMovementCheckConfig())
	combatChecks := checks.NewCombatCheckSet()
	combatChecks.Configure(cfg.ToCombatCheckConfig())

	agg := aggregator.New(cfg.ToAggregatorConfig())
	policy := mitigation.New(cfg.ToMitigationConfig(), clk)

	eng := engine.New(store, movementChecks, combatChecks, agg, policy, engine.TimerScheduler{})
	whitelist := state.NewWhitelist()
	eng.SetWhitelist(whitelist)

	wd := watchdog.New(5 * time.Second)
	wd.RegisterComponent("engine", 10*time.Second)
	wd.RegisterComponent("analytics_uplink", 15*time.Second)

	reg := prometheus.NewRegistry()
	metricsRegistry := metrics.NewRegistry(reg, clk)

	uplink := analytics.New(analytics.Config{
		CollectorURL:     cfg.Analytics.CollectorURL,
		QueueCapacity:    cfg.Analytics.QueueCapacity,
		ReconnectDelayMs: cfg.Analytics.ReconnectDelayMs,
	})

	decisionLog, err := forensics.NewDecisionLogger("logs/decisions.ndjson", 1000)
	if err != nil {
		logging.Warn("decision log init failed: %v", err)
	}

	var alertSink host.AlertSink
	httpPool := dispatcher.NewHTTPPool(8)
	if sink != nil {
		alertSink = sink(httpPool)
	}
	var punishExecutor host.PunishmentExecutor
	if executor != nil {
		punishExecutor = executor()
	}

	disp := dispatcher.New(dispatcher.Config{
		QueueCapacity: uint32(cfg.Analytics.QueueCapacity),
		WorkerCount:   2,
		AlertFormat:   cfg.Alerts.Format,
		TempMuteMs:    cfg.Punishment.DelayMs,
	}, alertSink, punishExecutor)

	adminHandler := &commands.Handler{
		Store:          store,
		ConfigManager:  cfgManager,
		Whitelist:      whitelist,
		MovementChecks: movementChecks,
		CombatChecks:   combatChecks,
	}

	cfgManager.OnReload(func(c *config.Config) {
		movementChecks.Configure(c.ToMovementCheckConfig())
		combatChecks.Configure(c.ToCombatCheckConfig())
		agg.Configure(c.ToAggregatorConfig())
		policy.Configure(c.ToMitigationConfig())
		uplink.Configure(analytics.Config{
			CollectorURL:     c.Analytics.CollectorURL,
			QueueCapacity:    c.Analytics.QueueCapacity,
			ReconnectDelayMs: c.Analytics.ReconnectDelayMs,
		})
		disp.Configure(dispatcher.Config{AlertFormat: c.Alerts.Format, TempMuteMs: c.Punishment.DelayMs})
	})

	b.Components = &Components{
		ConfigManager: cfgManager,
		Store:         store,
		Engine:        eng,
		Watchdog:      wd,
		Metrics:       metricsRegistry,
		Uplink:        uplink,
		Dispatcher:    disp,
		DecisionLog:   decisionLog,
		Whitelist:     whitelist,
		AdminHandler:  adminHandler,
	}

	logging.Info("bootstrap: component wiring complete")
	return nil
}

// AlertSinkFactory builds an AlertSink from the pooled HTTP client,
// deferred until Initialize so callers can point it at a real webhook.
type AlertSinkFactory func(pool *dispatcher.HTTPPool) host.AlertSink

// PunishmentExecutorFactory builds the host punishment glue.
type PunishmentExecutorFactory func() host.PunishmentExecutor

// Start launches every background worker. Safe to call once.
func (b *Bootstrap) Start() error {
	if b.Components == nil {
		return fmt.Errorf("bootstrap: Initialize must run before Start")
	}
	c := b.Components
	c.Watchdog.Start()
	c.Uplink.Start(func() { c.Watchdog.Heartbeat("analytics_uplink") })
	c.Dispatcher.Start()
	b.started = true
	logging.Info("bootstrap: all components started")
	return nil
}

// Shutdown stops every background worker, in roughly reverse start
// order, and flushes the decision log.
func (b *Bootstrap) Shutdown() error {
	if b.Components == nil {
		return nil
	}
	c := b.Components
	logging.Info("bootstrap: shutting down")
	c.Dispatcher.Stop()
	c.Uplink.Stop()
	c.Watchdog.Stop()
	if c.DecisionLog != nil {
		if err := c.DecisionLog.Close(); err != nil {
			logging.Warn("decision log close failed: %v", err)
		}
	}
	time.Sleep(50 * time.Millisecond)
	logging.Info("bootstrap: shutdown complete")
	return nil
}

func ensureLogsDirectory() error {
	if _, err := os.Stat("logs"); os.IsNotExist(err) {
		return os.Mkdir("logs", 0755)
	}
	return nil
}
