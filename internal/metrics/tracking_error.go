package metrics

import (
	"math"

	"github.com/schweinebauch/iSAC-quadrotor/internal/dynamo"
	"github.com/schweinebauch/iSAC-quadrotor/internal/traj"
)

// TrackingError accumulates the mean Euclidean distance between the
// observed state and the reference over a rollout.
type TrackingError struct {
	name    string
	ref     traj.Reference
	sum     float64
	samples int
}

func NewTrackingError(ref traj.Reference) *TrackingError {
	return &TrackingError{
		name: "tracking_error",
		ref:  ref,
	}
}

func (e *TrackingError) Name() string {
	return e.name
}

func (e *TrackingError) Observe(x dynamo.State, u dynamo.Control, t float64) {
	desired := e.ref.Desired(t)

	n := desired.Len()
	if len(x) < n {
		n = len(x)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		d := x[i] - desired.AtVec(i)
		sum += d * d
	}
	e.sum += math.Sqrt(sum)
	e.samples++
}

func (e *TrackingError) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *TrackingError) Reset() {
	e.sum = 0
	e.samples = 0
}
