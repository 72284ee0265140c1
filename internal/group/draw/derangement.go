package draw

// =============================================================================
// DERANGEMENT STRATEGY
// Shuffles the recipients and rejects any shuffle that leaves someone drawing
// their own name. Every derangement is equally likely.
// =============================================================================

// maxAttempts bounds the rejection loop. A fair source needs about e shuffles
// on average, so hitting the bound means the source is broken.
const maxAttempts = 1000

// DerangementStrategy implements the Strategy interface with rejection sampling
type DerangementStrategy struct {
	observeAttempts func(attempts int)
}

// Type returns the draw type identifier
func (s *DerangementStrategy) Type() DrawType {
	return DrawTypeDerangement
}

// Draw shuffles [0, n) with Fisher-Yates until the permutation has no fixed point
func (s *DerangementStrategy) Draw(n int, src Source) ([]int, error) {
	if n < 2 {
		return nil, ErrNotEnoughParticipants
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		perm := identity(n)
		for i := n - 1; i > 0; i-- {
			j := src.IntN(i + 1)
			perm[i], perm[j] = perm[j], perm[i]
		}
		if !hasFixedPoint(perm) {
			if s.observeAttempts != nil {
				s.observeAttempts(attempt)
			}
			return perm, nil
		}
	}

	return nil, ErrDrawExhausted
}

func hasFixedPoint(perm []int) bool {
	for i, j := range perm {
		if i == j {
			return true
		}
	}
	return false
}
