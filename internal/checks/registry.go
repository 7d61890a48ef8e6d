package checks

import (
	"github.com/MacMoment/ac/internal/models"
	"github.com/MacMoment/ac/internal/state"
)

// MovementCheckSet holds the three movement checks in run order and
// exposes a single Configure/RunAll surface, mirroring how the teacher's
// DetectorBindings collects its detectors behind one binding point.
type MovementCheckSet struct {
	PacketTiming        *PacketTimingCheck
	MovementConsistency *MovementConsistencyCheck
	PredictionDrift     *PredictionDriftCheck
}

// NewMovementCheckSet constructs all three movement checks with their
// default configuration.
func NewMovementCheckSet() *MovementCheckSet {
	return &MovementCheckSet{
		PacketTiming:        NewPacketTimingCheck(),
		MovementConsistency: NewMovementConsistencyCheck(),
		PredictionDrift:     NewPredictionDriftCheck(),
	}
}

// All returns the set as a MovementCheck slice, in the order they should
// be run against an event.
func (s *MovementCheckSet) All() []MovementCheck {
	return []MovementCheck{s.PacketTiming, s.MovementConsistency, s.PredictionDrift}
}

// Run executes every enabled movement check against t/f/ctx and returns
// their results in the same order as All.
func (s *MovementCheckSet) Run(t models.TelemetryInput, f models.Features, ctx *state.PlayerContext) []models.CheckResult {
	all := s.All()
	results := make([]models.CheckResult, 0, len(all))
	for _, chk := range all {
		if !chk.IsEnabled() {
			continue
		}
		results = append(results, chk.Analyze(t, f, ctx))
	}
	return results
}

// MovementCheckConfig bundles one config per movement check, so a config
// reload can replace all three in one call.
type MovementCheckConfig struct {
	PacketTiming        PacketTimingConfig
	MovementConsistency MovementConsistencyConfig
	PredictionDrift     PredictionDriftConfig
}

// Configure applies cfg to each movement check.
func (s *MovementCheckSet) Configure(cfg MovementCheckConfig) {
	s.PacketTiming.Configure(cfg.PacketTiming)
	s.MovementConsistency.Configure(cfg.MovementConsistency)
	s.PredictionDrift.Configure(cfg.PredictionDrift)
}

// DefaultMovementCheckConfig returns the default config for every
// movement check.
func DefaultMovementCheckConfig() MovementCheckConfig {
	return MovementCheckConfig{
		PacketTiming:        DefaultPacketTimingConfig(),
		MovementConsistency: DefaultMovementConsistencyConfig(),
		PredictionDrift:     DefaultPredictionDriftConfig(),
	}
}

// CombatCheckSet holds the three combat checks in run order.
type CombatCheckSet struct {
	Aimbot      *CombatAimbotCheck
	Reach       *CombatReachCheck
	AutoClicker *CombatAutoClickerCheck
}

// NewCombatCheckSet constructs all three combat checks with their
// default configuration.
func NewCombatCheckSet() *CombatCheckSet {
	return &CombatCheckSet{
		Aimbot:      NewCombatAimbotCheck(),
		Reach:       NewCombatReachCheck(),
		AutoClicker: NewCombatAutoClickerCheck(),
	}
}

// All returns the set as a CombatCheck slice, in the order they should be
// run against an event.
func (s *CombatCheckSet) All() []CombatCheck {
	return []CombatCheck{s.Aimbot, s.Reach, s.AutoClicker}
}

// Run executes every enabled combat check against in/ctx and returns
// their results in the same order as All. Callers must have already
// called ctx.RecordEvent(in) and must call ctx.AdvanceTarget afterward;
// Run does neither, since CombatAimbotCheck depends on seeing the
// pre-event target during analysis.
func (s *CombatCheckSet) Run(in models.CombatInput, ctx *state.CombatContext) []models.CheckResult {
	all := s.All()
	results := make([]models.CheckResult, 0, len(all))
	for _, chk := range all {
		if !chk.IsEnabled() {
			continue
		}
		results = append(results, chk.Analyze(in, ctx))
	}
	return results
}

// CombatCheckConfig bundles one config per combat check.
type CombatCheckConfig struct {
	Aimbot      CombatAimbotConfig
	Reach       CombatReachConfig
	AutoClicker CombatAutoClickerConfig
}

// Configure applies cfg to each combat check.
func (s *CombatCheckSet) Configure(cfg CombatCheckConfig) {
	s.Aimbot.Configure(cfg.Aimbot)
	s.Reach.Configure(cfg.Reach)
	s.AutoClicker.Configure(cfg.AutoClicker)
}

// DefaultCombatCheckConfig returns the default config for every combat
// check.
func DefaultCombatCheckConfig() CombatCheckConfig {
	return CombatCheckConfig{
		Aimbot:      DefaultCombatAimbotConfig(),
		Reach:       DefaultCombatReachConfig(),
		AutoClicker: DefaultCombatAutoClickerConfig(),
	}
}
