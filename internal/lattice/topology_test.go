package lattice

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestNeighborCoordsFiveByFive(t *testing.T) {
	topo, err := New(5, 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tests := []struct {
		name string
		at   Coord
		want []Coord
	}{
		{"top-left corner", Coord{0, 0}, []Coord{{0, 1}, {1, 0}}},
		{"bottom-left corner", Coord{4, 0}, []Coord{{3, 0}, {4, 1}}},
		{"right edge", Coord{2, 4}, []Coord{{2, 3}, {1, 3}, {1, 4}, {3, 4}, {3, 3}}},
		{"interior even row", Coord{2, 2}, []Coord{{2, 1}, {1, 1}, {1, 2}, {2, 3}, {3, 2}, {3, 1}}},
		{"interior odd row", Coord{1, 2}, []Coord{{1, 1}, {0, 2}, {0, 3}, {1, 3}, {2, 3}, {2, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := topo.NeighborCoords(tt.at)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("NeighborCoords(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestCandidatesIncludeOutOfBounds(t *testing.T) {
	got := Candidates(Coord{0, 0})
	want := [6]Coord{{0, -1}, {-1, -1}, {-1, 0}, {0, 1}, {1, 0}, {1, -1}}
	if got != want {
		t.Fatalf("Candidates(0,0) = %v, want %v", got, want)
	}
	got = Candidates(Coord{4, 2})
	want = [6]Coord{{4, 1}, {3, 1}, {3, 2}, {4, 3}, {5, 2}, {5, 1}}
	if got != want {
		t.Fatalf("Candidates(4,2) = %v, want %v", got, want)
	}
}

func TestInteriorCellsHaveSixInBoundsNeighbours(t *testing.T) {
	topo, err := New(9, 11)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for r := 1; r < topo.Rows()-1; r++ {
		for c := 1; c < topo.Cols()-1; c++ {
			nbrs := topo.NeighborCoords(Coord{r, c})
			if len(nbrs) != 6 {
				t.Fatalf("cell (%d,%d) has %d neighbours", r, c, len(nbrs))
			}
			for _, n := range nbrs {
				if !topo.Contains(n) {
					t.Fatalf("neighbour %v of (%d,%d) out of bounds", n, r, c)
				}
			}
		}
	}
}

func TestNeighbourRelationIsSymmetric(t *testing.T) {
	for _, dims := range [][2]int{{1, 1}, {1, 7}, {6, 1}, {5, 5}, {8, 13}} {
		topo, err := New(dims[0], dims[1])
		if err != nil {
			t.Fatalf("New(%v): %v", dims, err)
		}
		for i := 0; i < topo.Len(); i++ {
			for _, j := range topo.Neighbors(i) {
				if !slices.Contains(topo.Neighbors(int(j)), int32(i)) {
					t.Fatalf("%v: %v lists %v but not the reverse", dims, topo.Coord(i), topo.Coord(int(j)))
				}
			}
		}
	}
}

func TestIndexRoundTrip(t *testing.T) {
	topo, _ := New(4, 7)
	for i := 0; i < topo.Len(); i++ {
		if got := topo.Index(topo.Coord(i)); got != i {
			t.Fatalf("Index(Coord(%d)) = %d", i, got)
		}
	}
}

func TestNewRejectsBadDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 5}, {5, 0}, {-1, 3}, {1 << 16, 1 << 16}, {MaxCells, 2}, {math.MaxInt, 2}} {
		if _, err := New(dims[0], dims[1]); !errors.Is(err, ErrDimensions) {
			t.Fatalf("New(%v) error = %v, want ErrDimensions", dims, err)
		}
	}
}

func TestChebyshev(t *testing.T) {
	if d := Chebyshev(Coord{2, 2}, Coord{5, 0}); d != 3 {
		t.Fatalf("expected 3, got %d", d)
	}
	if d := Chebyshev(Coord{2, 2}, Coord{2, 2}); d != 0 {
		t.Fatalf("expected 0, got %d", d)
	}
}
