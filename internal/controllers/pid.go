package controllers

import "github.com/schweinebauch/iSAC-quadrotor/internal/dynamo"

// AltitudePID regulates the quadrotor's height with symmetric thrust on
// both rotors around a feedforward term.
type AltitudePID struct {
	Kp          float64
	Ki          float64
	Kd          float64
	Target      float64
	Feedforward float64

	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewAltitudePID(kp, ki, kd, target, feedforward float64) *AltitudePID {
	return &AltitudePID{
		Kp:          kp,
		Ki:          ki,
		Kd:          kd,
		Target:      target,
		Feedforward: feedforward,
		first:       true,
	}
}

func (p *AltitudePID) Compute(x dynamo.State, t float64) dynamo.Control {
	if len(x) < 2 {
		return dynamo.Control{p.Feedforward, p.Feedforward}
	}

	err := p.Target - x[1]

	u := p.Kp * err
	if p.first {
		p.first = false
	} else if dt := t - p.prevT; dt > 0 {
		p.integral += err * dt
		derivative := (err - p.prevErr) / dt
		u = p.Kp*err + p.Ki*p.integral + p.Kd*derivative
	}
	p.prevErr = err
	p.prevT = t

	half := u / 2
	return dynamo.Control{p.Feedforward + half, p.Feedforward + half}
}
