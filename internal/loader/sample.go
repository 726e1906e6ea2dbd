package loader

import (
	"math/rand"
	"sort"
	"time"
)

// SampleOptions configures random subset selection for large collections
type SampleOptions struct {
	Count int     // evaluate at most N samples (0: no cap)
	Rate  float64 // evaluate this fraction (0: no fraction)
	Seed  int64   // 0 derives a seed from the clock
}

// Subsample selects a random subset per the options, preserving the relative
// order of the survivors. Returns the (possibly original) slice of indices
// into the full collection and whether sampling actually happened. The same
// seed over the same input always selects the same subset.
func Subsample(total int, opts SampleOptions) ([]int, bool) {
	target := total
	if opts.Rate > 0 && opts.Rate < 1 {
		target = int(float64(total) * opts.Rate)
		if target < 1 {
			target = 1
		}
	}
	if opts.Count > 0 && opts.Count < target {
		target = opts.Count
	}
	if target >= total {
		return nil, false
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	picked := rng.Perm(total)[:target]
	sort.Ints(picked)
	return picked, true
}
