// Package traj holds sampled state trajectories and reference providers.
//
// A [Trajectory] is the record of a rollout: monotonically increasing
// sample times with one state vector per time. [Trajectory.Sample]
// linearly interpolates between samples and is the state-interpolation
// source the cost tracker evaluates against. A [Reference] supplies the
// desired projected state as a function of time.
package traj

import (
	"errors"
	"fmt"
	"sort"

	"github.com/schweinebauch/iSAC-quadrotor/internal/dynamo"
)

// ErrOutOfRange indicates a sample time outside the trajectory's
// recorded time range.
var ErrOutOfRange = errors.New("traj: sample time outside trajectory range")

// ErrEmpty indicates an operation on a trajectory with no samples.
var ErrEmpty = errors.New("traj: empty trajectory")

// Interpolator produces system states at arbitrary times within a window.
type Interpolator interface {
	Sample(t float64) (dynamo.State, error)
	Begin() float64
	End() float64
}

// Trajectory is a time-ordered sequence of sampled states.
type Trajectory struct {
	times  []float64
	states []dynamo.State
}

func New(capacity int) *Trajectory {
	return &Trajectory{
		times:  make([]float64, 0, capacity),
		states: make([]dynamo.State, 0, capacity),
	}
}

// Append records a state at time t. Times must be strictly increasing.
func (tr *Trajectory) Append(t float64, x dynamo.State) error {
	if n := len(tr.times); n > 0 && t <= tr.times[n-1] {
		return fmt.Errorf("traj: non-increasing sample time %v after %v", t, tr.times[n-1])
	}
	tr.times = append(tr.times, t)
	tr.states = append(tr.states, x.Clone())
	return nil
}

func (tr *Trajectory) Len() int { return len(tr.times) }

func (tr *Trajectory) Begin() float64 {
	if len(tr.times) == 0 {
		return 0
	}
	return tr.times[0]
}

func (tr *Trajectory) End() float64 {
	if len(tr.times) == 0 {
		return 0
	}
	return tr.times[len(tr.times)-1]
}

// At returns the i-th recorded time and state without interpolation.
func (tr *Trajectory) At(i int) (float64, dynamo.State) {
	return tr.times[i], tr.states[i]
}

// Sample returns the state at time t, linearly interpolated between the
// two bracketing samples. Fails with [ErrOutOfRange] if t lies outside
// [Begin, End]; no extrapolation is performed.
func (tr *Trajectory) Sample(t float64) (dynamo.State, error) {
	n := len(tr.times)
	if n == 0 {
		return nil, ErrEmpty
	}
	if t < tr.times[0] || t > tr.times[n-1] {
		return nil, fmt.Errorf("%w: t=%v not in [%v, %v]", ErrOutOfRange, t, tr.times[0], tr.times[n-1])
	}

	i := sort.SearchFloat64s(tr.times, t)
	if i < n && tr.times[i] == t {
		return tr.states[i].Clone(), nil
	}

	// times[i-1] < t < times[i]
	t0, t1 := tr.times[i-1], tr.times[i]
	x0, x1 := tr.states[i-1], tr.states[i]

	frac := (t - t0) / (t1 - t0)
	x := make(dynamo.State, len(x0))
	for j := range x {
		x[j] = x0[j] + frac*(x1[j]-x0[j])
	}
	return x, nil
}
