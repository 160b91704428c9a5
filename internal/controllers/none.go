package controllers

import "github.com/schweinebauch/iSAC-quadrotor/internal/dynamo"

// None outputs zero control of the given dimension.
type None struct {
	dim int
}

func NewNone(dim int) *None {
	return &None{dim: dim}
}

func (n *None) Compute(x dynamo.State, t float64) dynamo.Control {
	return make(dynamo.Control, n.dim)
}
