package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Jitter returns 1 + amplitude*(U-0.5) for a fresh uniform sample U.
func (r *RNG) Jitter(amplitude float64) float64 {
	return 1 + amplitude*(r.r.Float64()-0.5)
}
