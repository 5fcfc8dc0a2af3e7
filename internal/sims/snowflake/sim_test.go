package snowflake

import (
	"image"
	"testing"

	"snowflake-ca/internal/core"
)

func TestSimRegistered(t *testing.T) {
	factory, ok := core.Sims()["snowflake"]
	if !ok {
		t.Fatal("snowflake sim not registered")
	}
	sim, err := factory(map[string]string{"rows": "9", "cols": "11", "ticks": "4"})
	if err != nil {
		t.Fatal(err)
	}
	if got := sim.Size(); got != (core.Size{W: 11, H: 9}) {
		t.Fatalf("size = %+v", got)
	}
	for !sim.Done() {
		sim.Step()
	}
	if got := sim.(*Sim).Plate().Ticks(); got != 4 {
		t.Fatalf("ran %d ticks, want 4", got)
	}

	if _, err := factory(map[string]string{"rows": "-3"}); err == nil {
		t.Fatal("expected invalid config error")
	}
}

func TestSimResetRestartsRun(t *testing.T) {
	cfg := testConfig(9, 9)
	cfg.Ticks = 3
	sim, err := NewSim(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for !sim.Done() {
		sim.Step()
	}
	sim.Reset(0)
	if sim.Done() || sim.Plate().Ticks() != 0 || sim.Err() != nil {
		t.Fatalf("reset did not restart: done=%v ticks=%d err=%v", sim.Done(), sim.Plate().Ticks(), sim.Err())
	}
	if sim.Plate().Topology() != sim.topo {
		t.Fatal("reset should reuse the topology")
	}
}

func TestSimOverlayData(t *testing.T) {
	cfg := testConfig(9, 9)
	cfg.Approximation = 1
	sim, err := NewSim(cfg)
	if err != nil {
		t.Fatal(err)
	}
	mask := sim.BorderMask()
	marked := 0
	for _, v := range mask {
		if v == 1 {
			marked++
		}
	}
	if marked != 6 {
		t.Fatalf("border mask marks %d cells, want 6", marked)
	}
	if got := sim.WindowRect(); got != image.Rect(3, 3, 6, 6) {
		t.Fatalf("window rect = %v", got)
	}
}

func TestSimStats(t *testing.T) {
	sim, err := NewSim(testConfig(9, 9))
	if err != nil {
		t.Fatal(err)
	}
	sim.Step()
	stats := map[string]string{}
	for _, st := range sim.Stats() {
		stats[st.Label] = st.Value
	}
	if stats["State"] != "running" || stats["Tick"] != "1/100" || stats["Border"] != "6" {
		t.Fatalf("unexpected stats %v", stats)
	}
}
