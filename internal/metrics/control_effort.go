// Package metrics provides per-step rollout diagnostics.
package metrics

import (
	"math"

	"github.com/schweinebauch/iSAC-quadrotor/internal/dynamo"
)

// ControlEffort accumulates the mean absolute deviation of the applied
// control from a baseline, summed over actuators. For the quadrotor the
// baseline is the per-rotor hover thrust, so a perfect hover scores
// zero. A zero baseline measures raw actuation.
type ControlEffort struct {
	name     string
	baseline float64
	sum      float64
	samples  int
}

func NewControlEffort(baseline float64) *ControlEffort {
	return &ControlEffort{
		name:     "control_effort",
		baseline: baseline,
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(x dynamo.State, u dynamo.Control, t float64) {
	for _, val := range u {
		c.sum += math.Abs(val - c.baseline)
	}
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
