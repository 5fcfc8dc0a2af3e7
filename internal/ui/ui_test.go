package ui

import (
	"image/color"
	"testing"

	"snowflake-ca/internal/core"
	"snowflake-ca/internal/sims/snowflake"
)

func TestLinesIncludeStatsAndParameters(t *testing.T) {
	cfg := snowflake.DefaultConfig()
	cfg.Rows, cfg.Cols = 9, 9
	sim, err := snowflake.NewSim(cfg)
	if err != nil {
		t.Fatal(err)
	}
	lines := Lines(sim, true)
	if len(lines) == 0 || lines[0].Kind != LineTitle || lines[0].Label != "Snowflake (paused)" {
		t.Fatalf("unexpected title %+v", lines)
	}

	values := map[string]string{}
	groups := 0
	for _, l := range lines {
		switch l.Kind {
		case LineGroup:
			groups++
		case LineValue:
			values[l.Label] = l.Value
		}
	}
	if groups != 5 {
		t.Fatalf("expected statistics plus four parameter groups, got %d", groups)
	}
	if values["State"] != "initializing" || values["Crystal"] != "1" || values["Alpha"] != "0.7" {
		t.Fatalf("unexpected values %v", values)
	}
}

type bareSim struct{}

func (bareSim) Name() string      { return "" }
func (bareSim) Size() core.Size   { return core.Size{W: 1, H: 1} }
func (bareSim) Reset(int64)       {}
func (bareSim) Step()             {}
func (bareSim) Done() bool        { return false }
func (bareSim) Frame() core.Frame { return nil }

func TestLinesForBareSim(t *testing.T) {
	lines := Lines(bareSim{}, false)
	if len(lines) != 1 || lines[0].Label != "" {
		t.Fatalf("expected a lone empty title, got %+v", lines)
	}
	if Lines(nil, false) != nil {
		t.Fatal("nil sim should produce no lines")
	}
}

func TestMaskPixels(t *testing.T) {
	buf := make([]byte, 12)
	MaskPixels(buf, []float32{0, 1, 2}, color.RGBA{R: 255, G: 100})
	if buf[3] != 0 || buf[0] != 0 {
		t.Fatalf("zero intensity should be transparent, got %v", buf[:4])
	}
	if buf[7] != 160 {
		t.Fatalf("full intensity alpha = %d, want 160", buf[7])
	}
	if buf[4] > buf[7] {
		t.Fatalf("premultiplied red %d exceeds alpha %d", buf[4], buf[7])
	}
	for k := 0; k < 4; k++ {
		if buf[4+k] != buf[8+k] {
			t.Fatalf("intensity above one should clamp: %v vs %v", buf[4:8], buf[8:12])
		}
	}
}
