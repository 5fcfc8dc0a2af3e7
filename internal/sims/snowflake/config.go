package snowflake

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"snowflake-ca/internal/lattice"
)

// ErrInvalidConfig wraps every configuration rejected before a run starts.
var ErrInvalidConfig = errors.New("snowflake: invalid config")

// Params holds the physical coefficients of the growth model.
type Params struct {
	// Alpha is the liquid needed to attach with three crystal neighbours on dry ground.
	Alpha float64 `yaml:"alpha"`
	// Beta is the liquid needed to attach with one or two crystal neighbours.
	Beta float64 `yaml:"beta"`
	// Theta caps the neighbouring vapour for the dry three-neighbour rule.
	Theta float64 `yaml:"theta"`
	// Gamma is the share of ice that melts back to vapour each tick.
	Gamma float64 `yaml:"gamma"`
	// Mu is the share of liquid that evaporates each tick.
	Mu float64 `yaml:"mu"`
	// Kappa is the share of frozen vapour that becomes ice rather than liquid.
	Kappa float64 `yaml:"kappa"`
	// Rho is the initial vapour density of every non-crystal cell.
	Rho float64 `yaml:"rho"`
	// Sigma is the interference amplitude; zero disables interference.
	Sigma float64 `yaml:"sigma"`
}

// Config controls a snowflake run.
type Config struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`

	Ticks int `yaml:"ticks"`
	// Every emits a snapshot when tick%Every == 0. Zero disables periodic snapshots.
	Every int `yaml:"every"`
	// Approximation limits diffusion to the crystal extent plus this margin.
	// Zero diffuses the whole grid.
	Approximation int `yaml:"approximation"`
	// Origin is the seed coordinate. Nil seeds the grid centre.
	Origin *lattice.Coord `yaml:"origin,omitempty"`

	// Seed drives the interference RNG.
	Seed int64 `yaml:"seed"`
	// Workers splits the phase sweeps across goroutines. Zero or one runs inline.
	Workers int `yaml:"workers"`

	Params Params `yaml:"params"`
}

// DefaultParams returns the reference coefficients.
func DefaultParams() Params {
	return Params{
		Alpha: 0.7,
		Beta:  0.6,
		Theta: 0.7,
		Gamma: 0.5,
		Mu:    0.5,
		Kappa: 0.6,
		Rho:   1.1,
		Sigma: 0,
	}
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Rows:          401,
		Cols:          401,
		Ticks:         1000,
		Every:         20,
		Approximation: 40,
		Seed:          1337,
		Workers:       1,
		Params:        DefaultParams(),
	}
}

// SeedCoord resolves the seed coordinate.
func (c Config) SeedCoord() lattice.Coord {
	if c.Origin != nil {
		return *c.Origin
	}
	return lattice.Coord{Row: c.Rows / 2, Col: c.Cols / 2}
}

// Validate rejects configurations that cannot run. All problems are reported.
func (c Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Rows <= 0 || c.Cols <= 0 {
		fail("dimensions must be positive, got %dx%d", c.Rows, c.Cols)
	} else if c.Rows > lattice.MaxCells/c.Cols {
		fail("%dx%d grid exceeds %d cells", c.Rows, c.Cols, lattice.MaxCells)
	}
	if c.Ticks <= 0 {
		fail("ticks must be positive, got %d", c.Ticks)
	}
	if c.Every < 0 {
		fail("every must be non-negative, got %d", c.Every)
	}
	if c.Approximation < 0 {
		fail("approximation must be non-negative, got %d", c.Approximation)
	}
	if c.Workers < 0 {
		fail("workers must be non-negative, got %d", c.Workers)
	}
	if c.Rows > 0 && c.Cols > 0 {
		o := c.SeedCoord()
		if o.Row < 0 || o.Col < 0 || o.Row >= c.Rows || o.Col >= c.Cols {
			fail("origin (%d,%d) outside %dx%d grid", o.Row, o.Col, c.Rows, c.Cols)
		}
	}

	p := c.Params
	for _, r := range []struct {
		name string
		v    float64
	}{{"gamma", p.Gamma}, {"mu", p.Mu}, {"kappa", p.Kappa}} {
		if math.IsNaN(r.v) || r.v < 0 || r.v > 1 {
			fail("%s must be between 0 and 1, got %v", r.name, r.v)
		}
	}
	for _, r := range []struct {
		name string
		v    float64
	}{{"alpha", p.Alpha}, {"beta", p.Beta}, {"theta", p.Theta}} {
		if math.IsNaN(r.v) || r.v < 0 {
			fail("%s must be non-negative, got %v", r.name, r.v)
		}
	}
	if math.IsNaN(p.Rho) || p.Rho <= 0 {
		fail("rho must be positive, got %v", p.Rho)
	}
	if math.IsNaN(p.Sigma) || p.Sigma < 0 || p.Sigma > 2 {
		fail("sigma must be between 0 and 2, got %v", p.Sigma)
	}
	return errors.Join(errs...)
}

// LoadConfig reads a YAML config file layered over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unparseable values keep their defaults; range checks are left to Validate.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	ints := map[string]*int{
		"rows":          &c.Rows,
		"cols":          &c.Cols,
		"ticks":         &c.Ticks,
		"every":         &c.Every,
		"approximation": &c.Approximation,
		"workers":       &c.Workers,
	}
	for key, dst := range ints {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.Atoi(v); err == nil {
				*dst = parsed
			}
		}
	}
	floats := map[string]*float64{
		"alpha": &c.Params.Alpha,
		"beta":  &c.Params.Beta,
		"theta": &c.Params.Theta,
		"gamma": &c.Params.Gamma,
		"mu":    &c.Params.Mu,
		"kappa": &c.Params.Kappa,
		"rho":   &c.Params.Rho,
		"sigma": &c.Params.Sigma,
	}
	for key, dst := range floats {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = parsed
			}
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	row, hasRow := cfg["seed_row"]
	col, hasCol := cfg["seed_col"]
	if hasRow && hasCol {
		r, errR := strconv.Atoi(row)
		cc, errC := strconv.Atoi(col)
		if errR == nil && errC == nil {
			c.Origin = &lattice.Coord{Row: r, Col: cc}
		}
	}
	return c
}
