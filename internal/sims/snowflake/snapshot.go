package snowflake

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"snowflake-ca/internal/core"
	"snowflake-ca/internal/logging"
)

// CellView is the per-cell payload handed to renderers.
type CellView struct {
	InCrystal bool
	D         float64
	I         int
}

// Snapshot is an immutable copy of the plate after a tick.
type Snapshot struct {
	Rows, Cols int
	// Tick is the index of the tick that produced the snapshot.
	Tick       int
	TotalTicks int
	Rho        float64
	Final      bool

	CrystalCells int
	BorderCells  int
	MaxDistance  int

	Cells []CellView
}

// Size reports the grid dimensions.
func (s *Snapshot) Size() core.Size { return core.Size{W: s.Cols, H: s.Rows} }

// Snapshot copies the renderer-facing state of the plate.
func (p *Plate) Snapshot() Snapshot {
	cells := p.cells.Cells()
	views := make([]CellView, len(cells))
	for i := range cells {
		views[i] = CellView{InCrystal: cells[i].InCrystal, D: cells[i].D, I: cells[i].I}
	}
	return Snapshot{
		Rows:         p.topo.Rows(),
		Cols:         p.topo.Cols(),
		Tick:         p.tick - 1,
		TotalTicks:   p.cfg.Ticks,
		Rho:          p.params.Rho,
		CrystalCells: p.crystal,
		BorderCells:  p.border.Len(),
		MaxDistance:  p.maxDist,
		Cells:        views,
	}
}

// Sink consumes snapshots off the tick loop.
type Sink interface {
	Consume(Snapshot) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Snapshot) error

// Consume calls f.
func (f SinkFunc) Consume(s Snapshot) error { return f(s) }

// Emitter hands snapshots to a Sink on its own goroutine. Offer never blocks
// the caller; a full buffer drops the snapshot.
type Emitter struct {
	sink Sink
	log  *slog.Logger
	ch   chan Snapshot
	done chan struct{}

	once      sync.Once
	mu        sync.Mutex
	err       error
	dropped   atomic.Int64
	delivered atomic.Int64
}

// NewEmitter starts the consumer goroutine. Buffer sizes below one are
// raised to one.
func NewEmitter(sink Sink, buffer int, log *slog.Logger) *Emitter {
	if buffer < 1 {
		buffer = 1
	}
	if log == nil {
		log = logging.Discard()
	}
	e := &Emitter{
		sink: sink,
		log:  log,
		ch:   make(chan Snapshot, buffer),
		done: make(chan struct{}),
	}
	go e.loop()
	return e
}

func (e *Emitter) loop() {
	defer close(e.done)
	for s := range e.ch {
		if err := e.sink.Consume(s); err != nil {
			e.log.Error("snapshot sink failed", "tick", s.Tick, "err", err)
			e.mu.Lock()
			if e.err == nil {
				e.err = err
			}
			e.mu.Unlock()
			continue
		}
		e.delivered.Add(1)
	}
}

// Offer queues s if there is room and reports whether it was queued.
func (e *Emitter) Offer(s Snapshot) bool {
	select {
	case e.ch <- s:
		return true
	default:
		e.dropped.Add(1)
		return false
	}
}

// Deliver queues s, waiting for room. Use it only outside the tick loop.
func (e *Emitter) Deliver(s Snapshot) {
	e.ch <- s
}

// Close drains the queue, stops the consumer and returns the first sink error.
func (e *Emitter) Close() error {
	e.once.Do(func() { close(e.ch) })
	<-e.done
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Dropped returns the number of snapshots rejected by Offer.
func (e *Emitter) Dropped() int64 { return e.dropped.Load() }

// Delivered returns the number of snapshots the sink accepted.
func (e *Emitter) Delivered() int64 { return e.delivered.Load() }
