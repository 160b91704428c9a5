// Package quad models a planar quadrotor: a rigid body with two rotors,
// free to translate in the vertical plane and rotate about its center.
//
// State layout (dimension 6): [x, y, theta, vx, vy, omega], where theta is
// the tilt angle measured from upright. theta is the only periodic state
// component; see [AngleIndices].
package quad

import (
	"fmt"
	"math"

	"github.com/schweinebauch/iSAC-quadrotor/internal/dynamo"
)

// AngleIndices lists the periodic components of the quadrotor state.
var AngleIndices = []int{2}

type Quad struct {
	Mass, Inertia, ArmLength float64
	Gravity, DragCoeff       float64
	AngDrag                  float64
}

func New() *Quad {
	return &Quad{
		Mass:      1.0,
		Inertia:   0.1,
		ArmLength: 0.25,
		Gravity:   9.81,
		DragCoeff: 0.1,
		AngDrag:   0.05,
	}
}

func (q *Quad) StateDim() int   { return 6 }
func (q *Quad) ControlDim() int { return 2 }

func (q *Quad) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	theta, vx, vy, omega := x[2], x[3], x[4], x[5]

	thrustL, thrustR := 0.0, 0.0
	if len(u) >= 2 {
		thrustL, thrustR = u[0], u[1]
	} else if len(u) >= 1 {
		thrustL, thrustR = u[0]/2, u[0]/2
	}

	// Rotors cannot pull.
	thrustL = math.Max(0, thrustL)
	thrustR = math.Max(0, thrustR)

	totalThrust := thrustL + thrustR
	torque := (thrustR - thrustL) * q.ArmLength

	sin, cos := math.Sin(theta), math.Cos(theta)
	fx := -totalThrust*sin - q.DragCoeff*vx
	fy := totalThrust*cos - q.Mass*q.Gravity - q.DragCoeff*vy

	ax := fx / q.Mass
	ay := fy / q.Mass
	alpha := (torque - q.AngDrag*omega) / q.Inertia

	return dynamo.State{vx, vy, omega, ax, ay, alpha}
}

// HoverThrust returns the per-rotor thrust that balances gravity.
func (q *Quad) HoverThrust() float64 {
	return q.Mass * q.Gravity / 2.0
}

func (q *Quad) Energy(x dynamo.State) float64 {
	y, vx, vy, omega := x[1], x[3], x[4], x[5]
	ke := 0.5 * q.Mass * (vx*vx + vy*vy)
	keRot := 0.5 * q.Inertia * omega * omega
	pe := q.Mass * q.Gravity * y
	return ke + keRot + pe
}

func (q *Quad) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":       q.Mass,
		"gravity":    q.Gravity,
		"drag":       q.DragCoeff,
		"ang_drag":   q.AngDrag,
		"arm_length": q.ArmLength,
		"inertia":    q.Inertia,
	}
}

func (q *Quad) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		q.Mass = value
	case "gravity":
		q.Gravity = value
	case "drag":
		q.DragCoeff = value
	case "ang_drag":
		q.AngDrag = value
	case "arm_length":
		q.ArmLength = value
	case "inertia":
		q.Inertia = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
