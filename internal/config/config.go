// Package config defines the engine's reloadable configuration: every
// key in the external configuration surface, loaded from YAML, with
// conversions into the typed config structs each component actually
// consumes.
package config

import (
	"fmt"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/MacMoment/ac/internal/aggregator"
	"github.com/MacMoment/ac/internal/checks"
	"github.com/MacMoment/ac/internal/mitigation"
	"github.com/MacMoment/ac/internal/state"
)

// Thresholds gates how confident/severe a fused violation must be
// before it is emitted at all.
type Thresholds struct {
	ActionConfidence float64 `yaml:"action_confidence"`
	MinSeverity      float64 `yaml:"min_severity"`
}

// Windows holds every exemption/cooldown duration, in milliseconds.
type Windows struct {
	ExemptionMs         int64 `yaml:"exemption_ms"`
	CooldownMs          int64 `yaml:"cooldown_ms"`
	LagGraceMs          int64 `yaml:"lag_grace_ms"`
	JoinExemptionMs     int64 `yaml:"join_exemption_ms"`
	TeleportExemptionMs int64 `yaml:"teleport_exemption_ms"`
}

// History sizes the per-player ring buffers and rolling windows.
type History struct {
	Size int `yaml:"size"`
}

// Stats configures the rolling-window/EWMA smoothing shared by every
// check.
type Stats struct {
	MedianWindow int     `yaml:"median_window"`
	EWMAAlpha    float64 `yaml:"ewma_alpha"`
}

// CheckConfig is one check's generic configuration: whether it runs,
// its fusion weight, and any check-specific numeric parameters named in
// its own default-config struct. Unrecognized Params keys are tolerated
// (ConfigurationError: unknown fields tolerated).
type CheckConfig struct {
	Enabled bool               `yaml:"enabled"`
	Weight  float64            `yaml:"weight"`
	Params  map[string]float64 `yaml:"params,omitempty"`
}

// Alerts configures non-punitive notifications.
type Alerts struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"`
}

// PunishmentType mirrors mitigation.PunishmentType for YAML purposes,
// decoded from its string name.
type PunishmentType string

const (
	PunishmentKick     PunishmentType = "KICK"
	PunishmentTempMute PunishmentType = "TEMP_MUTE"
	PunishmentFlagOnly PunishmentType = "FLAG_ONLY"
)

func (p PunishmentType) toMitigation() mitigation.PunishmentType {
	switch p {
	case PunishmentKick:
		return mitigation.PunishmentKick
	case PunishmentFlagOnly:
		return mitigation.PunishmentFlagOnly
	default:
		return mitigation.PunishmentTempMute
	}
}

// Punishment configures the mitigation policy's punitive action.
type Punishment struct {
	Enabled   bool           `yaml:"enabled"`
	Type      PunishmentType `yaml:"type"`
	Threshold float64        `yaml:"threshold"`
	DelayMs   int64          `yaml:"delay_ms"`
}

// Exemptions configures who the policy never acts against.
type Exemptions struct {
	Whitelist         []string `yaml:"whitelist"`
	BypassPermission  string   `yaml:"bypass_permission"`
	ExemptCreative    bool     `yaml:"exempt_creative"`
	ExemptSpectator   bool     `yaml:"exempt_spectator"`
}

// Analytics configures the outbound violation uplink.
type Analytics struct {
	Enabled         bool   `yaml:"enabled"`
	CollectorURL    string `yaml:"collector_url"`
	QueueCapacity   int    `yaml:"queue_capacity"`
	ReconnectDelayMs int64 `yaml:"reconnect_delay_ms"`
}

// Runtime configures process-level tuning.
type Runtime struct {
	CPUIsolation bool `yaml:"cpu_isolation"`
	PinnedCore   int  `yaml:"pinned_core"`
	MemoryLock   bool `yaml:"memory_lock"`
}

// Config is the complete reloadable configuration surface.
type Config struct {
	Thresholds Thresholds             `yaml:"thresholds"`
	Windows    Windows                `yaml:"windows"`
	History    History                `yaml:"history"`
	Stats      Stats                  `yaml:"stats"`
	Checks     map[string]CheckConfig `yaml:"checks"`
	Alerts     Alerts                 `yaml:"alerts"`
	Punishment Punishment             `yaml:"punishment"`
	Exemptions Exemptions             `yaml:"exemptions"`
	Analytics  Analytics              `yaml:"analytics"`
	Runtime    Runtime                `yaml:"runtime"`
}

// DefaultConfig matches every default named in spec.md §6 and the
// default structs of internal/state, internal/aggregator,
// internal/mitigation and internal/checks.
func DefaultConfig() *Config {
	return &Config{
		Thresholds: Thresholds{ActionConfidence: 0.997, MinSeverity: 0.3},
		Windows: Windows{
			ExemptionMs:         250,
			CooldownMs:          1500,
			LagGraceMs:          500,
			JoinExemptionMs:     1000,
			TeleportExemptionMs: 500,
		},
		History: History{Size: 64},
		Stats:   Stats{MedianWindow: 20, EWMAAlpha: 0.3},
		Checks:  map[string]CheckConfig{},
		Alerts: Alerts{
			Enabled: true,
			Format:  "{player} flagged for {category} (confidence {confidence}, severity {severity}) {explanation}",
		},
		Punishment: Punishment{
			Enabled:   true,
			Type:      PunishmentTempMute,
			Threshold: 0.999,
		},
		Exemptions: Exemptions{ExemptCreative: true, ExemptSpectator: true},
		Analytics:  Analytics{QueueCapacity: 1000, ReconnectDelayMs: 5000},
	}
}

// Load reads and parses the YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.clamp()
	return cfg, nil
}

// LoadOrDefault behaves like Load, but falls back to DefaultConfig on
// any read or parse error (logged by the caller).
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// clamp applies the numeric clamps spec.md §7 requires of a
// ConfigurationError: alpha into (0,1], confidences into [0,1].
func (c *Config) clamp() {
	if c.Stats.EWMAAlpha <= 0 || c.Stats.EWMAAlpha > 1 {
		c.Stats.EWMAAlpha = 0.3
	}
	c.Thresholds.ActionConfidence = clamp01(c.Thresholds.ActionConfidence)
	c.Thresholds.MinSeverity = clamp01(c.Thresholds.MinSeverity)
	c.Punishment.Threshold = clamp01(c.Punishment.Threshold)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ToParams converts History/Stats into the state.Params a HistoryStore
// uses to size newly created contexts.
func (c *Config) ToParams() state.Params {
	return state.Params{
		HistorySize: c.History.Size,
		WindowSize:  c.Stats.MedianWindow,
		EWMAAlpha:   c.Stats.EWMAAlpha,
	}
}

// ToAggregatorConfig converts Thresholds into the aggregator's gate.
func (c *Config) ToAggregatorConfig() aggregator.Config {
	return aggregator.Config{
		ActionConfidence: c.Thresholds.ActionConfidence,
		MinSeverity:      c.Thresholds.MinSeverity,
	}
}

// ToMitigationConfig converts Windows/Punishment/Exemptions into the
// mitigation policy's config.
func (c *Config) ToMitigationConfig() mitigation.Config {
	return mitigation.Config{
		CooldownMs:          c.Windows.CooldownMs,
		ExemptionMs:         c.Windows.ExemptionMs,
		LagGraceMs:          c.Windows.LagGraceMs,
		JoinExemptionMs:     c.Windows.JoinExemptionMs,
		TeleportExemptionMs: c.Windows.TeleportExemptionMs,
		PunishmentEnabled:   c.Punishment.Enabled,
		PunishmentType:      c.Punishment.Type.toMitigation(),
		PunishmentThreshold: c.Punishment.Threshold,
		BypassCapability:    c.Exemptions.BypassPermission,
		ExemptCreative:      c.Exemptions.ExemptCreative,
		ExemptSpectator:     c.Exemptions.ExemptSpectator,
	}
}

// ToMovementCheckConfig merges each named movement check's Enabled/
// Weight/Params onto its compiled-in defaults.
func (c *Config) ToMovementCheckConfig() checks.MovementCheckConfig {
	cfg := checks.DefaultMovementCheckConfig()

	if cc, ok := c.Checks["packet_timing"]; ok {
		cfg.PacketTiming.Enabled = cc.Enabled
		cfg.PacketTiming.Weight = cc.Weight
		if v, ok := cc.Params["min_delta_ms"]; ok {
			cfg.PacketTiming.MinDeltaMs = v
		}
		if v, ok := cc.Params["burst_ratio"]; ok {
			cfg.PacketTiming.BurstRatio = v
		}
		if v, ok := cc.Params["max_jitter_coeff"]; ok {
			cfg.PacketTiming.MaxJitterCoeff = v
		}
		if v, ok := cc.Params["skew_threshold"]; ok {
			cfg.PacketTiming.SkewThreshold = v
		}
	}
	if cc, ok := c.Checks["movement_consistency"]; ok {
		cfg.MovementConsistency.Enabled = cc.Enabled
		cfg.MovementConsistency.Weight = cc.Weight
		if v, ok := cc.Params["max_horiz"]; ok {
			cfg.MovementConsistency.MaxHoriz = v
		}
		if v, ok := cc.Params["max_vert"]; ok {
			cfg.MovementConsistency.MaxVert = v
		}
		if v, ok := cc.Params["accel_tolerance"]; ok {
			cfg.MovementConsistency.AccelTolerance = v
		}
	}
	if cc, ok := c.Checks["prediction_drift"]; ok {
		cfg.PredictionDrift.Enabled = cc.Enabled
		cfg.PredictionDrift.Weight = cc.Weight
		if v, ok := cc.Params["min_drift_samples"]; ok {
			cfg.PredictionDrift.MinDriftSamples = int(v)
		}
		if v, ok := cc.Params["max_drift_threshold"]; ok {
			cfg.PredictionDrift.MaxDriftThreshold = v
		}
	}
	return cfg
}

// ToCombatCheckConfig merges each named combat check's Enabled/Weight/
// Params onto its compiled-in defaults.
func (c *Config) ToCombatCheckConfig() checks.CombatCheckConfig {
	cfg := checks.DefaultCombatCheckConfig()

	if cc, ok := c.Checks["combat_aimbot"]; ok {
		cfg.Aimbot.Enabled = cc.Enabled
		cfg.Aimbot.Weight = cc.Weight
		if v, ok := cc.Params["min_samples"]; ok {
			cfg.Aimbot.MinSamples = int(v)
		}
		if v, ok := cc.Params["max_snap_angle"]; ok {
			cfg.Aimbot.MaxSnapAngle = v
		}
		if v, ok := cc.Params["min_aim_variance"]; ok {
			cfg.Aimbot.MinAimVariance = v
		}
		if v, ok := cc.Params["max_aim_perfection"]; ok {
			cfg.Aimbot.MaxAimPerfection = v
		}
	}
	if cc, ok := c.Checks["combat_reach"]; ok {
		cfg.Reach.Enabled = cc.Enabled
		cfg.Reach.Weight = cc.Weight
		if v, ok := cc.Params["max_reach"]; ok {
			cfg.Reach.MaxReach = v
		}
		if v, ok := cc.Params["reach_buffer"]; ok {
			cfg.Reach.ReachBuffer = v
		}
		if v, ok := cc.Params["min_samples"]; ok {
			cfg.Reach.MinSamples = int(v)
		}
	}
	if cc, ok := c.Checks["combat_autoclicker"]; ok {
		cfg.AutoClicker.Enabled = cc.Enabled
		cfg.AutoClicker.Weight = cc.Weight
		if v, ok := cc.Params["min_samples"]; ok {
			cfg.AutoClicker.MinSamples = int(v)
		}
		if v, ok := cc.Params["max_hit_rate"]; ok {
			cfg.AutoClicker.MaxHitRate = v
		}
		if v, ok := cc.Params["min_attack_interval_ms"]; ok {
			cfg.AutoClicker.MinAttackIntervalMs = v
		}
		if v, ok := cc.Params["max_interval_consistency"]; ok {
			cfg.AutoClicker.MaxIntervalConsistency = v
		}
	}
	return cfg
}

// Manager holds a hot-reloadable *Config behind an atomic pointer and
// fans a Reload out to every registered component.
type Manager struct {
	path      string
	current   atomic.Pointer[Config]
	consumers []func(*Config)
}

// NewManager loads path (or falls back to defaults) and returns a
// Manager ready to accept consumers.
func NewManager(path string) *Manager {
	m := &Manager{path: path}
	m.current.Store(LoadOrDefault(path))
	return m
}

// Current returns the active configuration.
func (m *Manager) Current() *Config {
	return m.current.Load()
}

// OnReload registers fn to be called with the new config every time
// Reload succeeds, including once immediately with the current config.
func (m *Manager) OnReload(fn func(*Config)) {
	m.consumers = append(m.consumers, fn)
	fn(m.current.Load())
}

// Reload re-reads the config file, swaps it in atomically, and fans it
// out to every registered consumer (checks, aggregator, mitigation
// policy). On a read/parse error, the previous config is kept and the
// error is returned.
func (m *Manager) Reload() error {
	cfg, err := Load(m.path)
	if err != nil {
		return err
	}
	m.current.Store(cfg)
	for _, fn := range m.consumers {
		fn(cfg)
	}
	return nil
}
