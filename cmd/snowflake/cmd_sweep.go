package main

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"snowflake-ca/internal/lattice"
	"snowflake-ca/internal/sims/snowflake"
)

type paramSet struct {
	alpha, beta, theta float64
}

func (p paramSet) String() string {
	return fmt.Sprintf("alpha=%.3f beta=%.3f theta=%.3f", p.alpha, p.beta, p.theta)
}

type scenarioResult struct {
	params   paramSet
	result   snowflake.Result
	fraction float64
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run a grid of attachment thresholds and rank them by crystal size",
		Long: `Sweep every combination of the --alphas, --betas and --thetas values over
the base configuration, running scenarios in parallel. No frames are written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			alphas, _ := cmd.Flags().GetFloat64Slice("alphas")
			betas, _ := cmd.Flags().GetFloat64Slice("betas")
			thetas, _ := cmd.Flags().GetFloat64Slice("thetas")
			jobs, _ := cmd.Flags().GetInt("jobs")
			top, _ := cmd.Flags().GetInt("top")

			sets := paramGrid(alphas, betas, thetas)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sweeping %d parameter sets (%d jobs, %d ticks on %dx%d)\n",
				len(sets), jobs, base.Ticks, base.Rows, base.Cols)

			start := time.Now()
			results, err := sweep(cmd.Context(), base, sets, jobs)
			if err != nil {
				return err
			}

			au := colors(cmd)
			fmt.Fprintf(out, "\nTop %d results (elapsed %s):\n", min(top, len(results)), time.Since(start).Round(time.Millisecond))
			for i := 0; i < len(results) && i < top; i++ {
				res := results[i]
				fmt.Fprintf(out, "%2d) crystal=%d (%.2f%%) distance=%d ticks=%d %s params=%s\n",
					i+1, res.result.CrystalCells, 100*res.fraction, res.result.MaxDistance,
					res.result.Ticks, stateColor(au, res.result.State), res.params)
			}
			return nil
		},
	}
	bindConfigFlags(cmd)
	cmd.Flags().Float64Slice("alphas", []float64{0.6, 0.7, 0.8}, "Alpha values to try")
	cmd.Flags().Float64Slice("betas", []float64{0.5, 0.6, 0.7}, "Beta values to try")
	cmd.Flags().Float64Slice("thetas", []float64{0.7}, "Theta values to try")
	cmd.Flags().Int("jobs", runtime.NumCPU(), "Scenarios run concurrently")
	cmd.Flags().Int("top", 5, "Results to print")
	return cmd
}

func paramGrid(alphas, betas, thetas []float64) []paramSet {
	var sets []paramSet
	for _, a := range alphas {
		for _, b := range betas {
			for _, t := range thetas {
				sets = append(sets, paramSet{alpha: a, beta: b, theta: t})
			}
		}
	}
	return sets
}

// sweep runs every set against base and returns the results ordered by
// crystal size, largest first. Ties keep grid order.
func sweep(ctx context.Context, base snowflake.Config, sets []paramSet, jobs int) ([]scenarioResult, error) {
	topo, err := lattice.New(base.Rows, base.Cols)
	if err != nil {
		return nil, err
	}
	if jobs < 1 {
		jobs = 1
	}

	// Each scenario writes only its own slot.
	results := make([]scenarioResult, len(sets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, set := range sets {
		g.Go(func() error {
			cfg := base
			cfg.Workers = 1
			cfg.Params.Alpha, cfg.Params.Beta, cfg.Params.Theta = set.alpha, set.beta, set.theta
			d, err := snowflake.NewDriver(cfg, snowflake.WithTopology(topo))
			if err != nil {
				return fmt.Errorf("%s: %w", set, err)
			}
			res, err := d.Run(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", set, err)
			}
			results[i] = scenarioResult{
				params:   set,
				result:   res,
				fraction: float64(res.CrystalCells) / float64(cfg.Rows*cfg.Cols),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("sweep interrupted: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].result.CrystalCells > results[j].result.CrystalCells
	})
	return results, nil
}
