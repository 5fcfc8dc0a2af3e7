// Package lattice builds the neighbour topology of an offset-row hexagonal
// grid. Even and odd rows use different offset tables; the result is computed
// once per grid and never changes.
package lattice

import (
	"errors"
	"fmt"
	"math"
)

// ErrDimensions is returned for grids with a non-positive dimension or more
// than MaxCells cells.
var ErrDimensions = errors.New("lattice: invalid dimensions")

// MaxCells is the largest grid New accepts. The neighbour table holds up to
// six int32 entries per cell.
const MaxCells = math.MaxInt32 / 6

// Coord addresses a cell by row and column.
type Coord struct {
	Row int `yaml:"row"`
	Col int `yaml:"col"`
}

// Chebyshev returns max(|dRow|, |dCol|) between a and b.
func Chebyshev(a, b Coord) int {
	dr := a.Row - b.Row
	if dr < 0 {
		dr = -dr
	}
	dc := a.Col - b.Col
	if dc < 0 {
		dc = -dc
	}
	if dr > dc {
		return dr
	}
	return dc
}

// Candidate offsets in neighbour order: W, NW, NE, E, SE, SW for the row parity.
var (
	evenOffsets = [6]Coord{{0, -1}, {-1, -1}, {-1, 0}, {0, 1}, {1, 0}, {1, -1}}
	oddOffsets  = [6]Coord{{0, -1}, {-1, 0}, {-1, 1}, {0, 1}, {1, 1}, {1, 0}}
)

// Candidates returns the six raw neighbour candidates of c, including ones
// that fall outside any grid.
func Candidates(c Coord) [6]Coord {
	offsets := &evenOffsets
	if c.Row%2 != 0 {
		offsets = &oddOffsets
	}
	var out [6]Coord
	for i, o := range offsets {
		out[i] = Coord{Row: c.Row + o.Row, Col: c.Col + o.Col}
	}
	return out
}

// Topology is the immutable neighbour table of a rows x cols grid. Cells are
// addressed by row-major index, matching core.Grid.
type Topology struct {
	rows, cols int
	start      []int32
	nbr        []int32
}

// New precomputes the in-bounds neighbours of every cell.
func New(rows, cols int) (*Topology, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d is not positive", ErrDimensions, rows, cols)
	}
	if rows > MaxCells/cols {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d cells", ErrDimensions, rows, cols, MaxCells)
	}
	n := rows * cols
	t := &Topology{
		rows:  rows,
		cols:  cols,
		start: make([]int32, n+1),
		nbr:   make([]int32, 0, 6*n),
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			idx := r*cols + c
			t.start[idx] = int32(len(t.nbr))
			for _, cand := range Candidates(Coord{Row: r, Col: c}) {
				if !t.Contains(cand) {
					continue
				}
				t.nbr = append(t.nbr, int32(t.Index(cand)))
			}
		}
	}
	t.start[n] = int32(len(t.nbr))
	return t, nil
}

// Rows returns the number of rows.
func (t *Topology) Rows() int { return t.rows }

// Cols returns the number of columns.
func (t *Topology) Cols() int { return t.cols }

// Len returns the number of cells.
func (t *Topology) Len() int { return t.rows * t.cols }

// Contains reports whether c lies inside the grid.
func (t *Topology) Contains(c Coord) bool {
	return c.Row >= 0 && c.Col >= 0 && c.Row < t.rows && c.Col < t.cols
}

// Index converts a coordinate to its row-major index.
func (t *Topology) Index(c Coord) int { return c.Row*t.cols + c.Col }

// Coord converts a row-major index back to a coordinate.
func (t *Topology) Coord(i int) Coord { return Coord{Row: i / t.cols, Col: i % t.cols} }

// Neighbors returns the neighbour indices of cell i. The slice aliases the
// shared table and must not be modified.
func (t *Topology) Neighbors(i int) []int32 {
	return t.nbr[t.start[i]:t.start[i+1]:t.start[i+1]]
}

// NeighborCoords returns the in-bounds neighbours of c in candidate order.
func (t *Topology) NeighborCoords(c Coord) []Coord {
	if !t.Contains(c) {
		return nil
	}
	idx := t.Neighbors(t.Index(c))
	out := make([]Coord, len(idx))
	for k, j := range idx {
		out[k] = t.Coord(int(j))
	}
	return out
}
