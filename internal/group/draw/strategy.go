package draw

import (
	"errors"
	"fmt"
)

// DrawType identifies a draw strategy
type DrawType string

const (
	DrawTypeDerangement DrawType = "derangement"
	DrawTypeCycle       DrawType = "cycle"
)

// Source is the randomness a strategy draws from. *math/rand/v2.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// Strategy is the interface that all draw strategies must implement
type Strategy interface {
	// Draw returns a permutation of [0, n) without fixed points: index i gives
	// a gift to the participant at index perm[i].
	Draw(n int, src Source) ([]int, error)

	// Type returns the type identifier for this strategy
	Type() DrawType
}

// Factory creates draw strategies based on the requested type
type Factory struct {
	observeAttempts func(attempts int)
}

// NewDrawStrategyFactory creates a new factory instance. observeAttempts, when
// not nil, receives the number of shuffles each derangement draw needed.
func NewDrawStrategyFactory(observeAttempts func(attempts int)) *Factory {
	return &Factory{observeAttempts: observeAttempts}
}

// Create returns the appropriate strategy implementation based on the type
func (f *Factory) Create(drawType DrawType) (Strategy, error) {
	switch drawType {
	case DrawTypeDerangement, "":
		return &DerangementStrategy{observeAttempts: f.observeAttempts}, nil
	case DrawTypeCycle:
		return &CycleStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown draw type: %s", drawType)
	}
}

// CreateFromString creates a strategy from a string type (useful for configuration)
func (f *Factory) CreateFromString(drawType string) (Strategy, error) {
	return f.Create(DrawType(drawType))
}

var (
	ErrNotEnoughParticipants = errors.New("at least two participants are required")
	ErrDuplicateParticipant  = errors.New("participant ids must be unique")
	ErrDrawExhausted         = errors.New("no derangement found within the attempt limit")
	ErrInvalidDraw           = errors.New("draw is not a derangement")
)

// Assign pairs every id with a recipient id using the given strategy. The
// result is aligned with ids: ids[i] gives a gift to result[i]. The input is
// never modified.
func Assign(strategy Strategy, ids []string, src Source) ([]string, error) {
	if len(ids) < 2 {
		return nil, ErrNotEnoughParticipants
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateParticipant, id)
		}
		seen[id] = struct{}{}
	}

	perm, err := strategy.Draw(len(ids), src)
	if err != nil {
		return nil, err
	}
	if err := Verify(perm); err != nil {
		return nil, err
	}

	receivers := make([]string, len(ids))
	for i, j := range perm {
		receivers[i] = ids[j]
	}
	return receivers, nil
}

// Verify checks that perm is a permutation of [0, len(perm)) with no fixed point
func Verify(perm []int) error {
	taken := make([]bool, len(perm))
	for i, j := range perm {
		if j < 0 || j >= len(perm) {
			return fmt.Errorf("%w: index %d out of range", ErrInvalidDraw, j)
		}
		if i == j {
			return fmt.Errorf("%w: %d assigned to itself", ErrInvalidDraw, i)
		}
		if taken[j] {
			return fmt.Errorf("%w: %d assigned twice", ErrInvalidDraw, j)
		}
		taken[j] = true
	}
	return nil
}

func identity(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return perm
}
