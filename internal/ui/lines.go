package ui

import (
	"strings"

	"snowflake-ca/internal/core"
)

// LineKind tells the HUD how to style a line.
type LineKind int

const (
	LineTitle LineKind = iota
	LineGroup
	LineValue
)

// Line is one row of the HUD panel.
type Line struct {
	Kind  LineKind
	Label string
	Value string
}

// Lines flattens a sim's statistics and parameters into panel rows. Sims that
// expose neither only get a title.
func Lines(sim core.Sim, paused bool) []Line {
	if sim == nil {
		return nil
	}
	title := sim.Name()
	if title != "" {
		title = strings.ToUpper(title[:1]) + title[1:]
	}
	if paused {
		title += " (paused)"
	}
	lines := []Line{{Kind: LineTitle, Label: title}}

	if provider, ok := sim.(core.StatsProvider); ok {
		lines = append(lines, Line{Kind: LineGroup, Label: "Statistics"})
		for _, st := range provider.Stats() {
			lines = append(lines, Line{Kind: LineValue, Label: st.Label, Value: st.Value})
		}
	}
	if provider, ok := sim.(core.ParameterProvider); ok {
		for _, group := range provider.Parameters().Groups {
			lines = append(lines, Line{Kind: LineGroup, Label: group.Name})
			for _, p := range group.Params {
				lines = append(lines, Line{Kind: LineValue, Label: p.Label, Value: p.Value})
			}
		}
	}
	return lines
}
