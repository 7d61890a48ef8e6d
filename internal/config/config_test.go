package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigMatchesSpecDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Thresholds.ActionConfidence != 0.997 || cfg.Thresholds.MinSeverity != 0.3 {
		t.Fatalf("unexpected threshold defaults: %+v", cfg.Thresholds)
	}
	if cfg.Windows.CooldownMs != 1500 || cfg.Windows.ExemptionMs != 250 {
		t.Fatalf("unexpected window defaults: %+v", cfg.Windows)
	}
	if cfg.History.Size != 64 || cfg.Stats.MedianWindow != 20 || cfg.Stats.EWMAAlpha != 0.3 {
		t.Fatalf("unexpected history/stats defaults: %+v %+v", cfg.History, cfg.Stats)
	}
}

func TestLoadParsesYAMLAndOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
thresholds:
  action_confidence: 0.9
  min_severity: 0.2
checks:
  combat_reach:
    enabled: true
    weight: 2.0
    params:
      max_reach: 4.5
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Thresholds.ActionConfidence != 0.9 || cfg.Thresholds.MinSeverity != 0.2 {
		t.Fatalf("expected overridden thresholds, got %+v", cfg.Thresholds)
	}

	combat := cfg.ToCombatCheckConfig()
	if combat.Reach.MaxReach != 4.5 || combat.Reach.Weight != 2.0 {
		t.Fatalf("expected merged reach config, got %+v", combat.Reach)
	}
	// An untouched check keeps its compiled-in defaults.
	if combat.Aimbot.MaxSnapAngle != 60 {
		t.Fatalf("expected untouched aimbot default to survive, got %+v", combat.Aimbot)
	}
}

func TestLoadClampsOutOfRangeConfidence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "thresholds:\n  action_confidence: 1.5\n  min_severity: -0.2\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Thresholds.ActionConfidence != 1 || cfg.Thresholds.MinSeverity != 0 {
		t.Fatalf("expected clamped thresholds, got %+v", cfg.Thresholds)
	}
}

func TestLoadOrDefaultFallsBackOnMissingFile(t *testing.T) {
	cfg := LoadOrDefault("/nonexistent/path/config.yaml")
	if cfg.Thresholds.ActionConfidence != 0.997 {
		t.Fatal("expected LoadOrDefault to fall back to DefaultConfig")
	}
}

func TestManagerReloadFansOutToConsumers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("thresholds:\n  action_confidence: 0.9\n  min_severity: 0.3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(path)
	var seen []float64
	m.OnReload(func(c *Config) { seen = append(seen, c.Thresholds.ActionConfidence) })
	if len(seen) != 1 || seen[0] != 0.9 {
		t.Fatalf("expected OnReload to fire immediately with the loaded config, got %v", seen)
	}

	if err := os.WriteFile(path, []byte("thresholds:\n  action_confidence: 0.5\n  min_severity: 0.3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := m.Reload(); err != nil {
		t.Fatalf("unexpected reload error: %v", err)
	}
	if len(seen) != 2 || seen[1] != 0.5 {
		t.Fatalf("expected Reload to fan out the new config, got %v", seen)
	}
}

func TestManagerReloadKeepsOldConfigOnError(t *testing.T) {
	m := NewManager("/nonexistent/path/config.yaml")
	before := m.Current()
	if err := m.Reload(); err == nil {
		t.Fatal("expected an error reloading a nonexistent file")
	}
	if m.Current() != before {
		t.Fatal("expected the current config to be unchanged after a failed reload")
	}
}
