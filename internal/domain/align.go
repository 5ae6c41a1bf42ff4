package domain

import (
	"fmt"
	"time"
)

// AlignLayouts selects, for each named time layout, the index of the sample
// timestamp nearest the reference instant. Ties break toward the earlier
// index. An empty layout fails the whole alignment: callers must never build
// a half-populated observation from a partial result.
func AlignLayouts(layouts map[string][]time.Time, reference time.Time) (map[string]int, error) {
	indices := make(map[string]int, len(layouts))
	for key, samples := range layouts {
		if len(samples) == 0 {
			return nil, fmt.Errorf("%w: layout %q is empty", ErrTimeAlignment, key)
		}
		best := 0
		bestDiff := absDuration(samples[0].Sub(reference))
		for i := 1; i < len(samples); i++ {
			if diff := absDuration(samples[i].Sub(reference)); diff < bestDiff {
				best = i
				bestDiff = diff
			}
		}
		indices[key] = best
	}
	return indices, nil
}

// AlignedIndex looks up the selected index for the layout a data element
// references. A missing key means the document referenced a layout it never
// declared, which fails the alignment.
func AlignedIndex(indices map[string]int, layoutKey string) (int, error) {
	idx, ok := indices[layoutKey]
	if !ok {
		return 0, fmt.Errorf("%w: element references undeclared layout %q", ErrTimeAlignment, layoutKey)
	}
	return idx, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
