package cost

import (
	"fmt"

	"github.com/schweinebauch/iSAC-quadrotor/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// Projector maps a full (post-wrap) state vector to the reduced
// coordinate vector the cost model penalizes. Implementations must be
// deterministic and side-effect free.
type Projector interface {
	Dim() int
	Project(x dynamo.State) *mat.VecDense
}

// Select projects by picking state components, in order.
type Select struct {
	indices []int
}

func NewSelect(indices []int, stateDim int) (*Select, error) {
	for _, i := range indices {
		if i < 0 || i >= stateDim {
			return nil, fmt.Errorf("cost: projection index %d out of range for state dimension %d", i, stateDim)
		}
	}
	return &Select{indices: append([]int(nil), indices...)}, nil
}

// NewIdentity projects the full state unchanged.
func NewIdentity(stateDim int) *Select {
	indices := make([]int, stateDim)
	for i := range indices {
		indices[i] = i
	}
	return &Select{indices: indices}
}

func (s *Select) Dim() int { return len(s.indices) }

func (s *Select) Project(x dynamo.State) *mat.VecDense {
	out := mat.NewVecDense(len(s.indices), nil)
	for j, i := range s.indices {
		out.SetVec(j, x[i])
	}
	return out
}
