package snowflake

import (
	"strconv"

	"snowflake-ca/internal/core"
)

// Parameters lists the run configuration grouped for display.
func (c Config) Parameters() core.ParameterSnapshot {
	seed := c.SeedCoord()
	params := c.Params
	groups := []core.ParameterGroup{
		{
			Name: "Plate",
			Params: []core.Parameter{
				intParam("rows", "Rows", c.Rows),
				intParam("cols", "Columns", c.Cols),
				intParam("seed_row", "Seed row", seed.Row),
				intParam("seed_col", "Seed column", seed.Col),
			},
		},
		{
			Name: "Run",
			Params: []core.Parameter{
				intParam("ticks", "Ticks", c.Ticks),
				intParam("every", "Snapshot every", c.Every),
				intParam("approximation", "Approximation radius", c.Approximation),
				int64Param("seed", "RNG seed", c.Seed),
				intParam("workers", "Workers", c.Workers),
			},
		},
		{
			Name:    "Attachment",
			Summary: "Thresholds on quasi-liquid mass by crystal neighbour count.",
			Params: []core.Parameter{
				floatParam("alpha", "Alpha", params.Alpha),
				floatParam("beta", "Beta", params.Beta),
				floatParam("theta", "Theta", params.Theta),
			},
		},
		{
			Name: "Phases",
			Params: []core.Parameter{
				floatParam("kappa", "Freezing rate", params.Kappa),
				floatParam("mu", "Liquid melt rate", params.Mu),
				floatParam("gamma", "Ice melt rate", params.Gamma),
				floatParam("rho", "Vapour density", params.Rho),
				floatParam("sigma", "Interference", params.Sigma),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}
