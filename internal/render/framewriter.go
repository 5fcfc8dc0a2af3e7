package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"

	"snowflake-ca/internal/sims/snowflake"
)

// FrameOptions controls how a FrameWriter lays out its files.
type FrameOptions struct {
	// Prefix is prepended to every file name.
	Prefix string
	// Scale enlarges pixel frames by an integer factor.
	Scale int
	// Hexagons additionally writes tiled hexagon frames.
	Hexagons bool
}

// FrameWriter is a snowflake.Sink that writes each snapshot as PNG files
// under dir/pixels and, optionally, dir/hexagons.
type FrameWriter struct {
	dir     string
	opts    FrameOptions
	written int
}

// NewFrameWriter creates the output directories.
func NewFrameWriter(dir string, opts FrameOptions) (*FrameWriter, error) {
	if opts.Prefix == "" {
		opts.Prefix = "snowflake"
	}
	if opts.Scale < 1 {
		opts.Scale = 1
	}
	fw := &FrameWriter{dir: dir, opts: opts}
	for _, sub := range fw.subdirs() {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("creating frame directory: %w", err)
		}
	}
	return fw, nil
}

func (fw *FrameWriter) subdirs() []string {
	if fw.opts.Hexagons {
		return []string{"pixels", "hexagons"}
	}
	return []string{"pixels"}
}

// FrameName returns the file name used for tick, zero-padded to the width
// of total.
func (fw *FrameWriter) FrameName(tick, total int) string {
	width := len(strconv.Itoa(total))
	return fmt.Sprintf("%s%0*d.png", fw.opts.Prefix, width, tick)
}

// Consume writes s to disk.
func (fw *FrameWriter) Consume(s snowflake.Snapshot) error {
	name := fw.FrameName(s.Tick, s.TotalTicks)
	if err := writePNG(filepath.Join(fw.dir, "pixels", name), Scale(ToImage(&s), fw.opts.Scale)); err != nil {
		return err
	}
	if fw.opts.Hexagons {
		if err := writePNG(filepath.Join(fw.dir, "hexagons", name), HexImage(&s)); err != nil {
			return err
		}
	}
	fw.written++
	return nil
}

// Written returns the number of snapshots written.
func (fw *FrameWriter) Written() int { return fw.written }

// Dir returns the output directory.
func (fw *FrameWriter) Dir() string { return fw.dir }

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating frame: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", filepath.Base(path), err)
	}
	return nil
}
