// Package controllers provides the feedback laws used to generate
// candidate trajectories for cost evaluation.
package controllers

import (
	"github.com/schweinebauch/iSAC-quadrotor/internal/dynamo"
	"github.com/schweinebauch/iSAC-quadrotor/internal/quad"
)

// LQR applies u = feedforward - K (x - target).
type LQR struct {
	K           [][]float64
	Target      dynamo.State
	Feedforward dynamo.Control
}

func NewLQR(k [][]float64, target dynamo.State, feedforward dynamo.Control) *LQR {
	return &LQR{K: k, Target: target, Feedforward: feedforward}
}

func (l *LQR) Compute(x dynamo.State, t float64) dynamo.Control {
	u := make(dynamo.Control, len(l.K))

	for i := range u {
		if i < len(l.Feedforward) {
			u[i] = l.Feedforward[i]
		}
		for j := range x {
			target := 0.0
			if j < len(l.Target) {
				target = l.Target[j]
			}
			u[i] -= l.K[i][j] * (x[j] - target)
		}
	}

	return u
}

// NewQuadHoverLQR returns a hand-tuned hover-stabilizing gain set for the
// planar quadrotor around the given position target [x, y]. Rows map to
// the left and right rotor; the lateral channel acts antisymmetrically
// through tilt, the altitude channel symmetrically.
func NewQuadHoverLQR(q *quad.Quad, targetX, targetY float64) *LQR {
	const (
		kx  = 0.4
		ky  = 2.0
		kth = 3.0
		kvx = 0.6
		kvy = 2.5
		kom = 0.8
	)
	hover := q.HoverThrust()
	k := [][]float64{
		{kx, ky, -kth, kvx, kvy, -kom},
		{-kx, ky, kth, -kvx, kvy, kom},
	}
	return NewLQR(k,
		dynamo.State{targetX, targetY, 0, 0, 0, 0},
		dynamo.Control{hover, hover})
}
