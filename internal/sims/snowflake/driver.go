package snowflake

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"snowflake-ca/internal/lattice"
	"snowflake-ca/internal/logging"
)

// ErrNotRunning is returned by Step once the driver reached a terminal state.
var ErrNotRunning = errors.New("snowflake: driver is not running")

// State is the driver lifecycle state.
type State int32

const (
	StateInitializing State = iota
	StateRunning
	StateCompleted
	StateExhausted
	StateStopped
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateExhausted:
		return "exhausted"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further ticks will run.
func (s State) Terminal() bool { return s >= StateCompleted }

// Result summarises a finished run.
type Result struct {
	State        State
	Ticks        int
	CrystalCells int
	BorderCells  int
	MaxDistance  int
	Emitted      int64
	Dropped      int64
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the driver logger.
func WithLogger(log *slog.Logger) Option {
	return func(d *Driver) {
		if log != nil {
			d.log = log
		}
	}
}

// WithSink emits snapshots to sink through an Emitter with the given buffer.
func WithSink(sink Sink, buffer int) Option {
	return func(d *Driver) {
		d.sink, d.buffer = sink, buffer
	}
}

// WithTopology shares a prebuilt topology between drivers of equal size.
func WithTopology(topo *lattice.Topology) Option {
	return func(d *Driver) { d.topo = topo }
}

// WithObserver registers fn to be called after every tick on the driving
// goroutine.
func WithObserver(fn func(TickReport)) Option {
	return func(d *Driver) {
		if fn != nil {
			d.observers = append(d.observers, fn)
		}
	}
}

// WithTrace writes every tick report to tw.
func WithTrace(tw *logging.TraceWriter) Option {
	return func(d *Driver) {
		if tw != nil {
			d.observers = append(d.observers, func(r TickReport) { tw.Log("tick", r) })
		}
	}
}

// Driver runs a plate through its state machine and hands snapshots to a
// sink. Step and Run must be called from one goroutine; State and Stop are
// safe from any.
type Driver struct {
	cfg   Config
	plate *Plate
	log   *slog.Logger
	topo  *lattice.Topology

	sink      Sink
	buffer    int
	emitter   *Emitter
	observers []func(TickReport)

	state atomic.Int32
	stop  atomic.Bool

	warnedNegative bool
	warnedAboveOne bool
}

// NewDriver validates cfg and seeds the plate. The driver starts in
// StateInitializing.
func NewDriver(cfg Config, opts ...Option) (*Driver, error) {
	d := &Driver{cfg: cfg, log: logging.Discard()}
	for _, opt := range opts {
		opt(d)
	}
	plate, err := NewPlate(cfg, d.topo)
	if err != nil {
		return nil, err
	}
	d.plate = plate
	d.topo = plate.Topology()
	if d.sink != nil {
		d.emitter = NewEmitter(d.sink, d.buffer, d.log)
	}
	d.state.Store(int32(StateInitializing))
	return d, nil
}

// State returns the current state.
func (d *Driver) State() State { return State(d.state.Load()) }

// Plate returns the driven plate. It must only be read from the goroutine
// calling Step.
func (d *Driver) Plate() *Plate { return d.plate }

// Config returns the run configuration.
func (d *Driver) Config() Config { return d.cfg }

// Stop asks Run to halt before the next tick.
func (d *Driver) Stop() { d.stop.Store(true) }

// Step runs exactly one tick, emitting a snapshot when the cadence is due
// and finishing the run when a terminal condition is reached.
func (d *Driver) Step() (TickReport, error) {
	switch st := d.State(); {
	case st.Terminal():
		return TickReport{}, ErrNotRunning
	case st == StateInitializing:
		d.state.Store(int32(StateRunning))
		d.log.Info("run started",
			"rows", d.cfg.Rows, "cols", d.cfg.Cols, "ticks", d.cfg.Ticks,
			"seed", d.plate.Origin(), "workers", d.cfg.Workers)
	}

	report, err := d.plate.Tick()
	if err != nil {
		d.log.Error("tick failed", "tick", d.plate.Ticks(), "err", err)
		d.finish(StateFailed)
		return report, err
	}

	d.log.Log(context.Background(), logging.LevelTrace, "tick",
		"tick", report.Tick, "attached", report.Attached,
		"crystal", report.CrystalCells, "border", report.BorderCells,
		"distance", report.MaxDistance)
	d.diagnostics(report)
	for _, fn := range d.observers {
		fn(report)
	}

	if d.emitter != nil && d.cfg.Every > 0 && report.Tick%d.cfg.Every == 0 {
		if !d.emitter.Offer(d.plate.Snapshot()) {
			d.log.Debug("snapshot dropped", "tick", report.Tick, "dropped", d.emitter.Dropped())
		}
	}

	switch {
	case report.BorderCells == 0:
		d.finish(StateExhausted)
	case d.plate.Ticks() >= d.cfg.Ticks:
		d.finish(StateCompleted)
	}
	return report, nil
}

// Run steps until the run completes, the border is exhausted, ctx is done or
// Stop is called. Cancellation is observed between ticks. Run closes the
// sink pipeline before returning.
func (d *Driver) Run(ctx context.Context) (Result, error) {
	var runErr error
	for !d.State().Terminal() {
		if ctx.Err() != nil || d.stop.Load() {
			d.finish(StateStopped)
			break
		}
		if _, err := d.Step(); err != nil {
			runErr = err
			break
		}
	}
	if err := d.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return d.Result(), runErr
}

// Close waits for pending snapshots to reach the sink and returns the first
// sink error. It is safe to call more than once.
func (d *Driver) Close() error {
	if d.emitter == nil {
		return nil
	}
	return d.emitter.Close()
}

// Result reports the run counters so far.
func (d *Driver) Result() Result {
	r := Result{
		State:        d.State(),
		Ticks:        d.plate.Ticks(),
		CrystalCells: d.plate.CrystalCells(),
		BorderCells:  d.plate.BorderLen(),
		MaxDistance:  d.plate.MaxDistance(),
	}
	if d.emitter != nil {
		r.Emitted = d.emitter.Delivered()
		r.Dropped = d.emitter.Dropped()
	}
	return r
}

func (d *Driver) finish(st State) {
	d.state.Store(int32(st))
	if d.emitter != nil && st != StateFailed && d.plate.Ticks() > 0 {
		snap := d.plate.Snapshot()
		snap.Final = true
		d.emitter.Deliver(snap)
	}
	d.log.Info("run finished",
		"state", st, "ticks", d.plate.Ticks(),
		"crystal", d.plate.CrystalCells(), "distance", d.plate.MaxDistance())
}

func (d *Driver) diagnostics(r TickReport) {
	if n := r.Diagnostics.Negative; n > 0 {
		if !d.warnedNegative {
			d.warnedNegative = true
			d.log.Warn("negative fractions on border", "tick", r.Tick, "cells", n)
		} else {
			d.log.Debug("negative fractions on border", "tick", r.Tick, "cells", n)
		}
	}
	if n := r.Diagnostics.AboveOne; n > 0 {
		if !d.warnedAboveOne {
			d.warnedAboveOne = true
			d.log.Warn("fractions above one on border", "tick", r.Tick, "cells", n)
		} else {
			d.log.Debug("fractions above one on border", "tick", r.Tick, "cells", n)
		}
	}
}
