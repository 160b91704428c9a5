package cost

import (
	"fmt"
	"math"

	"github.com/schweinebauch/iSAC-quadrotor/internal/dynamo"
)

// Wrap maps an angle to its equivalent in (-π, π].
func Wrap(theta float64) float64 {
	w := math.Mod(theta+math.Pi, 2*math.Pi)
	if w <= 0 {
		w += 2 * math.Pi
	}
	return w - math.Pi
}

// WrapStates wraps the indexed components of x in place. Components
// outside the index set are left untouched.
func WrapStates(x dynamo.State, indices []int) {
	for _, i := range indices {
		x[i] = Wrap(x[i])
	}
}

// ValidateWrapIndices checks an angle-wrap index set against the state
// dimension. Indices must be unique and in [0, stateDim).
func ValidateWrapIndices(indices []int, stateDim int) error {
	seen := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i < 0 || i >= stateDim {
			return fmt.Errorf("cost: wrap index %d out of range for state dimension %d", i, stateDim)
		}
		if seen[i] {
			return fmt.Errorf("cost: duplicate wrap index %d", i)
		}
		seen[i] = true
	}
	return nil
}
