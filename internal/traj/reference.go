package traj

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Reference supplies the desired projected state as a pure function of
// time. Implementations must be total over the evaluation window and
// side-effect free; the cost tracker may call them at arbitrary times,
// repeatedly, during gradient probing.
type Reference interface {
	Desired(t float64) *mat.VecDense
	Dim() int
}

// Hover is a constant reference: hold a fixed setpoint.
type Hover struct {
	Setpoint *mat.VecDense
}

func NewHover(setpoint []float64) *Hover {
	return &Hover{Setpoint: mat.NewVecDense(len(setpoint), setpoint)}
}

func (h *Hover) Dim() int { return h.Setpoint.Len() }

func (h *Hover) Desired(t float64) *mat.VecDense {
	out := mat.NewVecDense(h.Setpoint.Len(), nil)
	out.CopyVec(h.Setpoint)
	return out
}

// Circle traces a circular position reference in the x/y plane at
// constant angular rate, upright and with matching velocities. It targets
// the 6-dimensional quadrotor projection [x, y, theta, vx, vy, omega].
type Circle struct {
	CenterX, CenterY float64
	Radius           float64
	Omega            float64
}

func (c *Circle) Dim() int { return 6 }

func (c *Circle) Desired(t float64) *mat.VecDense {
	phase := c.Omega * t
	sin, cos := math.Sin(phase), math.Cos(phase)
	return mat.NewVecDense(6, []float64{
		c.CenterX + c.Radius*cos,
		c.CenterY + c.Radius*sin,
		0,
		-c.Radius * c.Omega * sin,
		c.Radius * c.Omega * cos,
		0,
	})
}
