package render

import (
	"context"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"snowflake-ca/internal/core"
	"snowflake-ca/internal/sims/snowflake"
)

type paletteFrame struct {
	size   core.Size
	colors []color.RGBA
}

func (f paletteFrame) Size() core.Size { return f.size }

func (f paletteFrame) ColorAt(i int) color.RGBA { return f.colors[i] }

func testFrame() paletteFrame {
	return paletteFrame{
		size: core.Size{W: 2, H: 2},
		colors: []color.RGBA{
			{R: 10, A: 255},
			{G: 20, A: 255},
			{B: 30, A: 255},
			{R: 40, G: 40, A: 255},
		},
	}
}

func TestFillRGBA(t *testing.T) {
	f := testFrame()
	buf := make([]byte, 16)
	FillRGBA(buf, f)
	for i, c := range f.colors {
		got := color.RGBA{R: buf[i*4], G: buf[i*4+1], B: buf[i*4+2], A: buf[i*4+3]}
		if got != c {
			t.Fatalf("pixel %d = %v, want %v", i, got, c)
		}
	}
}

func TestScaleNearestNeighbour(t *testing.T) {
	img := Scale(ToImage(testFrame()), 3)
	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 6 {
		t.Fatalf("scaled bounds = %v", b)
	}
	if got := img.RGBAAt(5, 0); got != (color.RGBA{G: 20, A: 255}) {
		t.Fatalf("top-right pixel = %v", got)
	}
	if got := img.RGBAAt(1, 4); got != (color.RGBA{B: 30, A: 255}) {
		t.Fatalf("bottom-left pixel = %v", got)
	}
}

func TestHexImage(t *testing.T) {
	f := testFrame()
	img := HexImage(f)
	if img.Bounds() != HexBounds(2, 2) {
		t.Fatalf("bounds = %v, want %v", img.Bounds(), HexBounds(2, 2))
	}
	if got := img.RGBAAt(6, 7); got != f.colors[0] {
		t.Errorf("tile (0,0) centre = %v, want %v", got, f.colors[0])
	}
	// Odd rows are shifted by half a tile.
	if got := img.RGBAAt(12+6+6, 10+7); got != f.colors[3] {
		t.Errorf("tile (1,1) centre = %v, want %v", got, f.colors[3])
	}
	if HexBounds(0, 3) != (HexBounds(0, 0)) {
		t.Error("empty grid should have empty bounds")
	}
}

func TestFrameNamePadding(t *testing.T) {
	fw, err := NewFrameWriter(t.TempDir(), FrameOptions{})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		tick, total int
		want        string
	}{
		{0, 1000, "snowflake0000.png"},
		{20, 1000, "snowflake0020.png"},
		{999, 1000, "snowflake0999.png"},
		{7, 9, "snowflake7.png"},
	}
	for _, tt := range tests {
		if got := fw.FrameName(tt.tick, tt.total); got != tt.want {
			t.Errorf("FrameName(%d, %d) = %q, want %q", tt.tick, tt.total, got, tt.want)
		}
	}
}

func TestFrameWriterWritesRun(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFrameWriter(dir, FrameOptions{Prefix: "flake", Scale: 2, Hexagons: true})
	if err != nil {
		t.Fatal(err)
	}

	cfg := snowflake.DefaultConfig()
	cfg.Rows, cfg.Cols = 11, 13
	cfg.Ticks, cfg.Every = 10, 5
	d, err := snowflake.NewDriver(cfg, snowflake.WithSink(fw, 4))
	if err != nil {
		t.Fatal(err)
	}
	res, err := d.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Emitted != 3 || fw.Written() != 3 {
		t.Fatalf("emitted %d written %d", res.Emitted, fw.Written())
	}

	for _, name := range []string{"flake00.png", "flake05.png", "flake09.png"} {
		file, err := os.Open(filepath.Join(dir, "pixels", name))
		if err != nil {
			t.Fatalf("missing frame: %v", err)
		}
		img, err := png.Decode(file)
		file.Close()
		if err != nil {
			t.Fatalf("decoding %s: %v", name, err)
		}
		if b := img.Bounds(); b.Dx() != 26 || b.Dy() != 22 {
			t.Fatalf("%s bounds = %v", name, b)
		}
		if _, err := os.Stat(filepath.Join(dir, "hexagons", name)); err != nil {
			t.Fatalf("missing hexagon frame: %v", err)
		}
	}
}
