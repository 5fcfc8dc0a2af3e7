//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"snowflake-ca/internal/app"
	"snowflake-ca/internal/core"
	_ "snowflake-ca/internal/sims/snowflake"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	factory, ok := core.Sims()[cfg.Sim]
	if !ok {
		log.Fatalf("unknown sim %q (available: %v)", cfg.Sim, core.SimNames())
	}

	sim, err := factory(cfg.Options)
	if err != nil {
		log.Fatalf("creating %s: %v", cfg.Sim, err)
	}

	game := app.New(sim, cfg)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("snowflake-ca - " + sim.Name())
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
