package snowflake

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"snowflake-ca/internal/lattice"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"zero rows", func(c *Config) { c.Rows = 0 }, "dimensions"},
		{"negative cols", func(c *Config) { c.Cols = -3 }, "dimensions"},
		{"too many cells", func(c *Config) { c.Rows, c.Cols = 1<<16, 1<<16 }, "exceeds"},
		{"zero ticks", func(c *Config) { c.Ticks = 0 }, "ticks"},
		{"negative every", func(c *Config) { c.Every = -1 }, "every"},
		{"negative approximation", func(c *Config) { c.Approximation = -1 }, "approximation"},
		{"negative workers", func(c *Config) { c.Workers = -2 }, "workers"},
		{"kappa above one", func(c *Config) { c.Params.Kappa = 1.2 }, "kappa"},
		{"negative mu", func(c *Config) { c.Params.Mu = -0.1 }, "mu"},
		{"NaN gamma", func(c *Config) { c.Params.Gamma = math.NaN() }, "gamma"},
		{"negative beta", func(c *Config) { c.Params.Beta = -1 }, "beta"},
		{"zero rho", func(c *Config) { c.Params.Rho = 0 }, "rho"},
		{"sigma too large", func(c *Config) { c.Params.Sigma = 2.5 }, "sigma"},
		{"origin outside", func(c *Config) { c.Origin = &lattice.Coord{Row: c.Rows, Col: 0} }, "origin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Params.Kappa = 3
	cfg.Params.Mu = 3
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "kappa") || !strings.Contains(err.Error(), "mu") {
		t.Fatalf("expected both kappa and mu failures, got %v", err)
	}
}

func TestSeedCoordDefaultsToCentre(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rows, cfg.Cols = 80, 115
	if got := cfg.SeedCoord(); got != (lattice.Coord{Row: 40, Col: 57}) {
		t.Fatalf("expected centre (40,57), got %v", got)
	}
	cfg.Origin = &lattice.Coord{Row: 3, Col: 4}
	if got := cfg.SeedCoord(); got != (lattice.Coord{Row: 3, Col: 4}) {
		t.Fatalf("expected explicit origin, got %v", got)
	}
}

func TestLoadConfigLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flake.yaml")
	content := `
rows: 80
cols: 115
ticks: 500
origin:
  row: 10
  col: 12
params:
  sigma: 0.01
  beta: 0.55
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Rows != 80 || cfg.Cols != 115 || cfg.Ticks != 500 {
		t.Fatalf("dimensions not loaded: %+v", cfg)
	}
	if cfg.Origin == nil || *cfg.Origin != (lattice.Coord{Row: 10, Col: 12}) {
		t.Fatalf("origin not loaded: %v", cfg.Origin)
	}
	if cfg.Params.Sigma != 0.01 || cfg.Params.Beta != 0.55 {
		t.Fatalf("params not loaded: %+v", cfg.Params)
	}
	if cfg.Params.Alpha != 0.7 || cfg.Approximation != 40 {
		t.Fatalf("unset fields should keep defaults: %+v", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("rows: [oops"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "parsing") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestFromMap(t *testing.T) {
	cfg := FromMap(map[string]string{
		"rows":     "21",
		"cols":     "31",
		"kappa":    "0.4",
		"seed":     "99",
		"seed_row": "2",
		"seed_col": "3",
		"beta":     "not-a-number",
	})
	if cfg.Rows != 21 || cfg.Cols != 31 || cfg.Seed != 99 {
		t.Fatalf("ints not parsed: %+v", cfg)
	}
	if cfg.Params.Kappa != 0.4 {
		t.Fatalf("kappa not parsed: %v", cfg.Params.Kappa)
	}
	if cfg.Params.Beta != DefaultParams().Beta {
		t.Fatalf("bad value should keep default beta, got %v", cfg.Params.Beta)
	}
	if cfg.Origin == nil || *cfg.Origin != (lattice.Coord{Row: 2, Col: 3}) {
		t.Fatalf("origin not parsed: %v", cfg.Origin)
	}
}
