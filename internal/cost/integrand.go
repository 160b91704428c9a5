package cost

import (
	"fmt"

	"github.com/schweinebauch/iSAC-quadrotor/internal/traj"
)

// Integrand is the running-cost ODE right-hand side dJ/dt = l(x(t)).
// Begin and End are the authoritative trajectory window bounds, re-read
// on every evaluation. Rate receives the accumulated cost j alongside t
// for generality; tracking costs normally ignore it.
type Integrand interface {
	Begin() float64
	End() float64
	Rate(t, j float64) (float64, error)
}

// TrackingIntegrand is the standard quadratic running cost
// l(x) = (x−x_des)ᵀ Q (x−x_des) over the same wrap/project/reference
// pipeline as the terminal cost. Its window bounds delegate to the bound
// interpolator, keeping a single source of truth for the horizon.
type TrackingIntegrand struct {
	interp traj.Interpolator
	ref    traj.Reference
	proj   Projector
	form   Model
	wrap   []int
}

func NewTrackingIntegrand(interp traj.Interpolator, ref traj.Reference, proj Projector, form Model, wrap []int) (*TrackingIntegrand, error) {
	if interp == nil || ref == nil || proj == nil || form == nil {
		return nil, fmt.Errorf("cost: tracking integrand requires interpolator, reference, projector and model")
	}
	if proj.Dim() != form.Dim() || ref.Dim() != form.Dim() {
		return nil, fmt.Errorf("cost: tracking integrand dimension mismatch: projector %d, reference %d, model %d",
			proj.Dim(), ref.Dim(), form.Dim())
	}
	return &TrackingIntegrand{
		interp: interp,
		ref:    ref,
		proj:   proj,
		form:   form,
		wrap:   append([]int(nil), wrap...),
	}, nil
}

func (g *TrackingIntegrand) Begin() float64 { return g.interp.Begin() }
func (g *TrackingIntegrand) End() float64   { return g.interp.End() }

func (g *TrackingIntegrand) Rate(t, j float64) (float64, error) {
	x, err := g.interp.Sample(t)
	if err != nil {
		return 0, err
	}
	WrapStates(x, g.wrap)
	return g.form.Cost(g.proj.Project(x), g.ref.Desired(t)), nil
}
