package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"

	"snowflake-ca/internal/logging"
	"snowflake-ca/internal/render"
	"snowflake-ca/internal/sims/snowflake"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Grow a snowflake and write its frames",
		Long: `Run a single simulation. Every --every ticks a PNG frame is written under
<out>/pixels (and <out>/hexagons with --hexagons); the final state is always
written. Interrupting the run stops it after the current tick and still
writes the final frame.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = runDirName(cfg)
			}
			scale, _ := cmd.Flags().GetInt("scale")
			hexagons, _ := cmd.Flags().GetBool("hexagons")
			buffer, _ := cmd.Flags().GetInt("buffer")
			tracePath, _ := cmd.Flags().GetString("trace")

			fw, err := render.NewFrameWriter(out, render.FrameOptions{Scale: scale, Hexagons: hexagons})
			if err != nil {
				return err
			}
			trace, err := logging.OpenTrace(tracePath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			res, err := runWithProgress(ctx, cmd.OutOrStdout(), colors(cmd), cfg,
				snowflake.WithLogger(newLogger(cmd)),
				snowflake.WithSink(fw, buffer),
				snowflake.WithTrace(trace),
			)
			traceErr := trace.Close()
			if err != nil {
				return fmt.Errorf("run %s after %d ticks: %w", res.State, res.Ticks, err)
			}
			if traceErr != nil {
				return fmt.Errorf("trace %s: %w", tracePath, traceErr)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d frames to %s\n", fw.Written(), fw.Dir())
			return nil
		},
	}
	bindConfigFlags(cmd)
	cmd.Flags().StringP("out", "o", "", "Output directory (default: named after the parameters)")
	cmd.Flags().Int("scale", 1, "Pixel frame upscaling factor")
	cmd.Flags().Bool("hexagons", false, "Also write hexagon-tiled frames")
	cmd.Flags().Int("buffer", 8, "Frames queued for the writer before periodic frames are dropped")
	cmd.Flags().String("trace", "", "Write a JSONL tick trace to this file")
	return cmd
}

// runWithProgress drives a run and prints the frame/distance table, one row
// per emitted frame.
func runWithProgress(ctx context.Context, w io.Writer, au aurora.Aurora, cfg snowflake.Config, opts ...snowflake.Option) (snowflake.Result, error) {
	width := len(strconv.Itoa(cfg.Ticks)) + 2
	fmt.Fprintln(w, "\n    Frames    |   Distance")
	fmt.Fprintln(w, "- - - - - - - - - - - - - - -")

	progress := snowflake.WithObserver(func(r snowflake.TickReport) {
		if cfg.Every > 0 && r.Tick%cfg.Every == 0 {
			fmt.Fprintln(w, progressLine(width, r.Tick, cfg.Ticks, r.MaxDistance))
		}
	})
	d, err := snowflake.NewDriver(cfg, append(opts, progress)...)
	if err != nil {
		return snowflake.Result{}, err
	}
	res, err := d.Run(ctx)

	fmt.Fprintf(w, "\n%s after %d ticks: %d crystal cells, distance %d",
		stateColor(au, res.State), res.Ticks, res.CrystalCells, res.MaxDistance)
	if res.Dropped > 0 {
		fmt.Fprintf(w, ", %s", au.Yellow(fmt.Sprintf("%d frames dropped", res.Dropped)))
	}
	fmt.Fprintln(w)
	return res, err
}

func progressLine(width, tick, total, distance int) string {
	return fmt.Sprintf("%*d / %d |   %d", width, tick, total, distance)
}

// runDirName names the output directory after the run parameters.
func runDirName(cfg snowflake.Config) string {
	p := cfg.Params
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	name := fmt.Sprintf("a,%s - b,%s - t,%s - m,%s - g,%s - k,%s - r,%s - approx,%d",
		f(p.Alpha), f(p.Beta), f(p.Theta), f(p.Mu), f(p.Gamma), f(p.Kappa), f(p.Rho), cfg.Approximation)
	return filepath.Clean(name)
}
