package activity

// RandomSource implements the RANDOM external-interface contract in
// §6: a per-activation 64-bit seed scrambled by a fixed LCG-like
// recurrence, applied at least 13 times whenever the seed is set
// explicitly and once per draw thereafter.
type RandomSource struct {
	seed uint64
}

// NewRandomSource seeds a RandomSource and runs the mandatory 13-round
// warm-up scramble.
func NewRandomSource(seed uint64) *RandomSource {
	r := &RandomSource{seed: seed}
	for i := 0; i < 13; i++ {
		r.scramble()
	}
	return r
}

// Seed reports the current internal seed (for RANDOM() with no draw).
func (r *RandomSource) Seed() uint64 { return r.seed }

// SetSeed replaces the seed and re-runs the warm-up scramble.
func (r *RandomSource) SetSeed(seed uint64) {
	r.seed = seed
	for i := 0; i < 13; i++ {
		r.scramble()
	}
}

func (r *RandomSource) scramble() {
	// A 64-bit linear congruential step; constants from Knuth's MMIX.
	r.seed = r.seed*6364136223846793005 + 1442695040888963407
}

// Draw returns a pseudo-random integer in [min, max]. The spread
// min..max must not exceed 999,999,999 per the RANDOM spec.
func (r *RandomSource) Draw(min, max int64) int64 {
	spread := max - min
	if spread < 0 || spread > 999_999_999 {
		panic("RANDOM: spread exceeds 999,999,999")
	}
	r.scramble()
	if spread == 0 {
		return min
	}
	return min + int64(r.seed%uint64(spread+1))
}
