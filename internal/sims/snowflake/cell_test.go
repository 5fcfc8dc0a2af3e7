package snowflake

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-12

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestFreezeConservesMass(t *testing.T) {
	for _, kappa := range []float64{0, 0.25, 0.6, 1} {
		c := Cell{B: 0.2, C: 0.3, D: 1.1, I: NotAttached}
		before := c.B + c.C + c.D
		if err := c.Freeze(kappa); err != nil {
			t.Fatalf("Freeze: %v", err)
		}
		if c.D != 0 {
			t.Fatalf("kappa=%v: vapour should be zero after freezing, got %v", kappa, c.D)
		}
		if !near(c.B+c.C, before) {
			t.Fatalf("kappa=%v: mass %v != %v", kappa, c.B+c.C, before)
		}
	}
}

func TestFreezeMatchesReferenceValues(t *testing.T) {
	c := VaporCell(1.1)
	if err := c.Freeze(0.6); err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	if !near(c.B, 0.44) || !near(c.C, 0.66) {
		t.Fatalf("expected b=0.44 c=0.66, got b=%v c=%v", c.B, c.C)
	}
}

func TestMeltMatchesReferenceValues(t *testing.T) {
	c := Cell{B: 0.44, C: 0.66, I: NotAttached}
	if err := c.Melt(0.5, 0.5); err != nil {
		t.Fatalf("Melt: %v", err)
	}
	if !near(c.D, 0.55) || !near(c.B, 0.22) || !near(c.C, 0.33) {
		t.Fatalf("expected d=0.55 b=0.22 c=0.33, got %+v", c)
	}
}

func TestMeltIdleCellIsIdentity(t *testing.T) {
	c := Cell{D: 0.8, I: NotAttached}
	want := c
	if err := c.Melt(0.5, 0.5); err != nil {
		t.Fatalf("Melt: %v", err)
	}
	if c != want {
		t.Fatalf("melting b=c=0 changed the cell: %+v -> %+v", want, c)
	}
}

func TestAttachMovesLiquidIntoIce(t *testing.T) {
	c := Cell{B: 0.7, C: 0.2, D: 0.1, I: NotAttached}
	if err := c.Attach(12); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if !c.InCrystal || c.I != 12 || c.B != 0 || c.D != 0 || !near(c.C, 0.9) {
		t.Fatalf("expected crystal with c=0.9 attached at 12, got %+v", c)
	}
}

func TestPhasesRejectCrystalCells(t *testing.T) {
	ops := map[string]func(c *Cell) error{
		"freeze": func(c *Cell) error { return c.Freeze(0.5) },
		"attach": func(c *Cell) error { return c.Attach(1) },
		"melt":   func(c *Cell) error { return c.Melt(0.5, 0.5) },
	}
	for name, op := range ops {
		c := SeedCell()
		want := c
		if err := op(&c); !errors.Is(err, ErrCrystalCell) {
			t.Fatalf("%s on crystal cell: error %v, want ErrCrystalCell", name, err)
		}
		if c != want {
			t.Fatalf("%s mutated a crystal cell", name)
		}
	}
}

func TestAttachRulePrecedence(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		name string
		b    float64
		n    int
		v    float64
		want Rule
	}{
		{"no crystal neighbour", 5, 0, 0, RuleNone},
		{"one neighbour above beta", 0.61, 1, 0, RuleFewNeighbors},
		{"two neighbours at beta", 0.6, 2, 0, RuleNone},
		{"three neighbours saturated", 1, 3, 10, RuleThreeNeighbors},
		{"three neighbours dry and above alpha", 0.7, 3, 0.69, RuleThreeNeighbors},
		{"three neighbours humid", 0.7, 3, 0.7, RuleNone},
		{"three neighbours below alpha", 0.69, 3, 0, RuleNone},
		{"four neighbours empty cell", 0, 4, 0, RuleSurrounded},
		{"six neighbours", 0, 6, 0, RuleSurrounded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AttachRule(tt.b, tt.n, tt.v, p); got != tt.want {
				t.Fatalf("AttachRule(b=%v, n=%d, v=%v) = %v, want %v", tt.b, tt.n, tt.v, got, tt.want)
			}
		})
	}
}
