package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"empty terminal_p", func(c *Config) { c.Cost.TerminalP = nil }},
		{"ragged terminal_p", func(c *Config) { c.Cost.TerminalP[0] = c.Cost.TerminalP[0][:2] }},
		{"asymmetric terminal_p", func(c *Config) { c.Cost.TerminalP[0][1] = 5 }},
		{"running_q length", func(c *Config) { c.Cost.RunningQ = []float64{1} }},
		{"wrap index out of range", func(c *Config) { c.Cost.WrapIndices = []int{9} }},
		{"negative tolerance", func(c *Config) { c.Cost.AbsTol = -1 }},
		{"negative epsilon", func(c *Config) { c.Cost.Epsilon = -1 }},
		{"setpoint length", func(c *Config) { c.Reference.Setpoint = []float64{1} }},
		{"unknown reference", func(c *Config) { c.Reference.Type = "spline" }},
		{"circle radius", func(c *Config) { c.Reference.Type = "circle"; c.Reference.Radius = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate should fail")
			}
		})
	}
}

func TestConfig_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eval.yaml")

	cfg := DefaultConfig()
	cfg.Duration = 3.5
	cfg.Cost.Epsilon = 1e-6

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Duration != 3.5 || loaded.Cost.Epsilon != 1e-6 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
	if err := loaded.Validate(); err != nil {
		t.Errorf("round-tripped config invalid: %v", err)
	}
}

func TestLoad_PartialOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eval.yaml")
	if err := os.WriteFile(path, []byte("duration: 2.0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Duration != 2.0 {
		t.Errorf("duration = %v, want 2.0", cfg.Duration)
	}
	if cfg.Cost.Epsilon != DefaultEpsilon {
		t.Errorf("epsilon default lost: %v", cfg.Cost.Epsilon)
	}
}

func TestConfig_Builders(t *testing.T) {
	cfg := DefaultConfig()

	term, err := cfg.TerminalModel()
	if err != nil {
		t.Fatalf("TerminalModel: %v", err)
	}
	if term.Dim() != 6 {
		t.Errorf("terminal dim = %d, want 6", term.Dim())
	}

	run, err := cfg.RunningModel()
	if err != nil {
		t.Fatalf("RunningModel: %v", err)
	}
	if run.Dim() != 6 {
		t.Errorf("running dim = %d, want 6", run.Dim())
	}

	ref, err := cfg.BuildReference()
	if err != nil {
		t.Fatalf("BuildReference: %v", err)
	}
	if ref.Dim() != 6 {
		t.Errorf("reference dim = %d, want 6", ref.Dim())
	}
}
