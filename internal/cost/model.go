package cost

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Model scores a projected state against a desired state. The default is
// the quadratic form (x−x_des)ᵀ P (x−x_des); alternative shapes (barrier
// terms, non-quadratic penalties) plug in here without touching the
// integration logic.
type Model interface {
	Dim() int
	Cost(x, xdes mat.Vector) float64
	Gradient(x, xdes mat.Vector) *mat.VecDense
}

// Quadratic is the quadratic-form cost model. P must be symmetric
// positive-semidefinite for Cost to be non-negative; positive-definite P
// makes Cost zero exactly when x equals xdes.
type Quadratic struct {
	p *mat.SymDense
}

func NewQuadratic(p *mat.SymDense) (*Quadratic, error) {
	if p == nil || p.SymmetricDim() == 0 {
		return nil, fmt.Errorf("cost: quadratic model requires a non-empty symmetric matrix")
	}
	return &Quadratic{p: p}, nil
}

func (q *Quadratic) Dim() int { return q.p.SymmetricDim() }

// Cost returns (x−x_des)ᵀ P (x−x_des).
func (q *Quadratic) Cost(x, xdes mat.Vector) float64 {
	d := mat.NewVecDense(q.p.SymmetricDim(), nil)
	d.SubVec(x, xdes)
	return mat.Inner(d, q.p, d)
}

// Gradient returns the components of the row gradient (x−x_des)ᵀ P.
func (q *Quadratic) Gradient(x, xdes mat.Vector) *mat.VecDense {
	n := q.p.SymmetricDim()
	d := mat.NewVecDense(n, nil)
	d.SubVec(x, xdes)
	g := mat.NewVecDense(n, nil)
	g.MulVec(q.p, d)
	return g
}
