package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"snowflake-ca/internal/lattice"
	"snowflake-ca/internal/sims/snowflake"
)

// bindConfigFlags registers the run configuration flags. Defaults shown in
// help come from snowflake.DefaultConfig; flags only override the loaded
// config when set explicitly.
func bindConfigFlags(cmd *cobra.Command) {
	def := snowflake.DefaultConfig()
	f := cmd.Flags()
	f.Int("rows", def.Rows, "Number of rows")
	f.Int("cols", def.Cols, "Number of columns")
	f.IntP("ticks", "n", def.Ticks, "Number of ticks to run")
	f.Int("every", def.Every, "Emit a frame every N ticks (0 emits only the final frame)")
	f.Int("approximation", def.Approximation, "Diffusion margin around the crystal (0 diffuses the whole grid)")
	f.Int64("seed", def.Seed, "RNG seed for interference")
	f.Int("workers", def.Workers, "Goroutines per phase sweep")
	f.Int("seed-row", -1, "Seed row (default: grid centre)")
	f.Int("seed-col", -1, "Seed column (default: grid centre)")

	f.Float64P("alpha", "a", def.Params.Alpha, "Liquid needed to attach with three crystal neighbours")
	f.Float64P("beta", "b", def.Params.Beta, "Liquid needed to attach with one or two crystal neighbours")
	f.Float64P("theta", "t", def.Params.Theta, "Vapour cap for the three-neighbour rule")
	f.Float64P("gamma", "g", def.Params.Gamma, "Share of ice melting back to vapour")
	f.Float64P("mu", "m", def.Params.Mu, "Share of liquid evaporating")
	f.Float64P("kappa", "k", def.Params.Kappa, "Share of frozen vapour turning to ice")
	f.Float64P("rho", "r", def.Params.Rho, "Initial vapour density")
	f.Float64("sigma", def.Params.Sigma, "Interference amplitude (0 disables)")
}

// resolveConfig loads --config, applies explicitly set flags and validates.
func resolveConfig(cmd *cobra.Command) (snowflake.Config, error) {
	cfg := snowflake.DefaultConfig()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := snowflake.LoadConfig(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	f := cmd.Flags()
	ints := map[string]*int{
		"rows":          &cfg.Rows,
		"cols":          &cfg.Cols,
		"ticks":         &cfg.Ticks,
		"every":         &cfg.Every,
		"approximation": &cfg.Approximation,
		"workers":       &cfg.Workers,
	}
	for name, dst := range ints {
		if f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}
	floats := map[string]*float64{
		"alpha": &cfg.Params.Alpha,
		"beta":  &cfg.Params.Beta,
		"theta": &cfg.Params.Theta,
		"gamma": &cfg.Params.Gamma,
		"mu":    &cfg.Params.Mu,
		"kappa": &cfg.Params.Kappa,
		"rho":   &cfg.Params.Rho,
		"sigma": &cfg.Params.Sigma,
	}
	for name, dst := range floats {
		if f.Changed(name) {
			*dst, _ = f.GetFloat64(name)
		}
	}
	if f.Changed("seed") {
		cfg.Seed, _ = f.GetInt64("seed")
	}
	if f.Changed("seed-row") || f.Changed("seed-col") {
		if !f.Changed("seed-row") || !f.Changed("seed-col") {
			return cfg, fmt.Errorf("--seed-row and --seed-col must be set together")
		}
		row, _ := f.GetInt("seed-row")
		col, _ := f.GetInt("seed-col")
		cfg.Origin = &lattice.Coord{Row: row, Col: col}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
