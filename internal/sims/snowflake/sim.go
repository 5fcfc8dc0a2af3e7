package snowflake

import (
	"image"
	"strconv"

	"snowflake-ca/internal/core"
	"snowflake-ca/internal/lattice"
)

// Sim adapts a Driver to the interactive viewer.
type Sim struct {
	cfg    Config
	topo   *lattice.Topology
	driver *Driver
	err    error
	mask   []float32
}

// NewSim validates cfg and builds a ready-to-step sim.
func NewSim(cfg Config) (*Sim, error) {
	d, err := NewDriver(cfg)
	if err != nil {
		return nil, err
	}
	return &Sim{cfg: cfg, topo: d.Plate().Topology(), driver: d}, nil
}

func (s *Sim) Name() string { return "snowflake" }

func (s *Sim) Size() core.Size { return core.Size{W: s.cfg.Cols, H: s.cfg.Rows} }

// Reset reseeds the plate. A zero seed keeps the configured one.
func (s *Sim) Reset(seed int64) {
	cfg := s.cfg
	if seed != 0 {
		cfg.Seed = seed
	}
	d, err := NewDriver(cfg, WithTopology(s.topo))
	if err != nil {
		s.err = err
		return
	}
	s.driver, s.err = d, nil
}

// Step advances one tick unless the run is over.
func (s *Sim) Step() {
	if s.Done() {
		return
	}
	if _, err := s.driver.Step(); err != nil {
		s.err = err
	}
}

func (s *Sim) Done() bool { return s.driver.State().Terminal() }

// Err returns the error that stopped the run, if any.
func (s *Sim) Err() error { return s.err }

func (s *Sim) Frame() core.Frame { return plateFrame{p: s.driver.Plate()} }

// Plate exposes the live plate for overlays.
func (s *Sim) Plate() *Plate { return s.driver.Plate() }

// BorderMask marks border cells with 1 and everything else with 0.
func (s *Sim) BorderMask() []float32 {
	p := s.driver.Plate()
	if len(s.mask) != p.Topology().Len() {
		s.mask = make([]float32, p.Topology().Len())
	}
	clear(s.mask)
	for _, i := range p.border.Members() {
		s.mask[i] = 1
	}
	return s.mask
}

// WindowRect returns the next diffusion window in cell coordinates, with an
// exclusive upper corner.
func (s *Sim) WindowRect() image.Rectangle {
	w := s.driver.Plate().Window()
	return image.Rect(w.Left, w.Top, w.Right+1, w.Bottom+1)
}

func (s *Sim) Parameters() core.ParameterSnapshot { return s.cfg.Parameters() }

func (s *Sim) Stats() []core.Stat {
	p := s.driver.Plate()
	return []core.Stat{
		{Label: "State", Value: s.driver.State().String()},
		{Label: "Tick", Value: strconv.Itoa(p.Ticks()) + "/" + strconv.Itoa(s.cfg.Ticks)},
		{Label: "Crystal", Value: strconv.Itoa(p.CrystalCells())},
		{Label: "Border", Value: strconv.Itoa(p.BorderLen())},
		{Label: "Distance", Value: strconv.Itoa(p.MaxDistance())},
	}
}

func init() {
	core.Register("snowflake", func(cfg map[string]string) (core.Sim, error) {
		return NewSim(FromMap(cfg))
	})
}
