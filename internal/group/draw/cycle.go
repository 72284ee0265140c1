package draw

// =============================================================================
// CYCLE STRATEGY
// Sattolo's algorithm: everyone ends up in one gift chain, A -> B -> ... -> A
// =============================================================================

// CycleStrategy implements the Strategy interface with a single random cycle
type CycleStrategy struct{}

// Type returns the draw type identifier
func (s *CycleStrategy) Type() DrawType {
	return DrawTypeCycle
}

// Draw returns a uniformly random cyclic permutation of [0, n)
func (s *CycleStrategy) Draw(n int, src Source) ([]int, error) {
	if n < 2 {
		return nil, ErrNotEnoughParticipants
	}

	perm := identity(n)
	for i := n - 1; i > 0; i-- {
		// j < i, unlike Fisher-Yates, which is what keeps the result one cycle
		j := src.IntN(i)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm, nil
}
