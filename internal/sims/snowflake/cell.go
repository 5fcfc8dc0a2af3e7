package snowflake

import (
	"errors"
	"fmt"
)

// NotAttached marks the attach tick of a cell outside the crystal.
const NotAttached = -1

// ErrCrystalCell reports a border-phase rule applied to a crystal cell.
var ErrCrystalCell = errors.New("snowflake: phase applied to crystal cell")

// Cell is the physical state of one lattice site.
type Cell struct {
	InCrystal bool
	// B is the quasi-liquid fraction.
	B float64
	// C is the ice fraction.
	C float64
	// D is the vapour quantity.
	D float64
	// I is the tick at which the cell attached, or NotAttached.
	I int
}

// VaporCell returns a non-crystal cell holding rho vapour.
func VaporCell(rho float64) Cell {
	return Cell{D: rho, I: NotAttached}
}

// SeedCell returns the initial crystal cell.
func SeedCell() Cell {
	return Cell{InCrystal: true, C: 1, I: 0}
}

// Freeze converts the cell's vapour into liquid and ice.
func (c *Cell) Freeze(kappa float64) error {
	if c.InCrystal {
		return fmt.Errorf("freeze: %w", ErrCrystalCell)
	}
	c.B += (1 - kappa) * c.D
	c.C += kappa * c.D
	c.D = 0
	return nil
}

// Attach moves the cell into the crystal at the given tick.
func (c *Cell) Attach(tick int) error {
	if c.InCrystal {
		return fmt.Errorf("attach: %w", ErrCrystalCell)
	}
	c.C += c.B
	c.B = 0
	c.D = 0
	c.InCrystal = true
	c.I = tick
	return nil
}

// Melt returns part of the cell's liquid and ice to vapour.
func (c *Cell) Melt(mu, gamma float64) error {
	if c.InCrystal {
		return fmt.Errorf("melt: %w", ErrCrystalCell)
	}
	c.D += mu*c.B + gamma*c.C
	c.B *= 1 - mu
	c.C *= 1 - gamma
	return nil
}

// Rule identifies which attachment rule fired.
type Rule uint8

const (
	RuleNone Rule = iota
	RuleFewNeighbors
	RuleThreeNeighbors
	RuleSurrounded
)

// AttachRule evaluates the attachment rules in order for a frozen border cell
// with n crystal neighbours whose vapour sums to v. The first rule that holds
// wins; RuleNone means the cell stays on the border.
func AttachRule(b float64, n int, v float64, p Params) Rule {
	switch {
	case (n == 1 || n == 2) && b > p.Beta:
		return RuleFewNeighbors
	case n == 3 && (b >= 1 || (v < p.Theta && b >= p.Alpha)):
		return RuleThreeNeighbors
	case n > 3:
		return RuleSurrounded
	default:
		return RuleNone
	}
}
