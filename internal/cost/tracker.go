package cost

import (
	"fmt"
	"math"

	"github.com/schweinebauch/iSAC-quadrotor/internal/integrators"
	"github.com/schweinebauch/iSAC-quadrotor/internal/traj"
	"gonum.org/v1/gonum/mat"
)

// DefaultEpsilon is subtracted from the integration upper bound so the
// integrand is never evaluated exactly at the trajectory boundary, where
// the underlying representation may be undefined. Configurable via
// Options.Epsilon; no deeper semantics are attached to the value.
const DefaultEpsilon = 1e-7

// Options configures a Tracker. Terminal, Running, Projector and
// Reference are required; zero tolerances and epsilon fall back to
// defaults (1e-5 absolute/relative, 1e-7 epsilon, initial step 0.01).
type Options struct {
	Terminal    Model
	Running     Integrand
	Projector   Projector
	Reference   traj.Reference
	WrapIndices []int
	StateDim    int
	Epsilon     float64
	Integration integrators.Config
}

// Result is the outcome of one Update.
type Result struct {
	TotalCost float64
	Steps     int
}

// Tracker accumulates the trajectory-tracking cost over the window
// reported by its running-cost integrand. The bound interpolator is
// referenced, not owned, and must outlive the Tracker.
type Tracker struct {
	interp   traj.Interpolator
	running  Integrand
	terminal Model
	proj     Projector
	ref      traj.Reference
	wrap     []int
	eps      float64
	icfg     integrators.Config
	stepper  *integrators.DormandPrince

	total     float64
	steps     int
	evaluated bool
}

// New validates the configuration and binds a Tracker to its state
// interpolation source. Dimension mismatches between projector, cost
// model and reference, and out-of-range wrap indices, are rejected here
// rather than per evaluation.
func New(interp traj.Interpolator, opts Options) (*Tracker, error) {
	if interp == nil {
		return nil, fmt.Errorf("cost: tracker requires a state interpolator")
	}
	if opts.Terminal == nil || opts.Running == nil {
		return nil, fmt.Errorf("cost: tracker requires a terminal model and a running-cost integrand")
	}
	if opts.Reference == nil {
		return nil, fmt.Errorf("cost: tracker requires a reference trajectory")
	}
	if opts.StateDim <= 0 {
		return nil, fmt.Errorf("cost: state dimension must be positive, got %d", opts.StateDim)
	}

	proj := opts.Projector
	if proj == nil {
		proj = NewIdentity(opts.StateDim)
	}
	if proj.Dim() != opts.Terminal.Dim() {
		return nil, fmt.Errorf("cost: projector dimension %d does not match cost matrix dimension %d",
			proj.Dim(), opts.Terminal.Dim())
	}
	if opts.Reference.Dim() != opts.Terminal.Dim() {
		return nil, fmt.Errorf("cost: reference dimension %d does not match cost matrix dimension %d",
			opts.Reference.Dim(), opts.Terminal.Dim())
	}
	if err := ValidateWrapIndices(opts.WrapIndices, opts.StateDim); err != nil {
		return nil, err
	}

	eps := opts.Epsilon
	if eps < 0 {
		return nil, fmt.Errorf("cost: epsilon must be non-negative, got %g", eps)
	}
	if eps == 0 {
		eps = DefaultEpsilon
	}

	return &Tracker{
		interp:   interp,
		running:  opts.Running,
		terminal: opts.Terminal,
		proj:     proj,
		ref:      opts.Reference,
		wrap:     append([]int(nil), opts.WrapIndices...),
		eps:      eps,
		icfg:     opts.Integration,
		stepper:  integrators.NewDormandPrince(),
	}, nil
}

// window re-reads the horizon from the running-cost integrand. Bounds are
// never cached across updates.
func (tr *Tracker) window() (t0, tf float64, err error) {
	t0, tf = tr.running.Begin(), tr.running.End()
	if math.IsNaN(t0) || math.IsNaN(tf) || t0 > tf {
		return 0, 0, fmt.Errorf("%w: [%v, %v]", ErrInvalidWindow, t0, tf)
	}
	return t0, tf, nil
}

// sampleProjected runs the shared pipeline: sample state at t, wrap
// angles, project, look up the desired state.
func (tr *Tracker) sampleProjected(t float64) (x, xdes *mat.VecDense, err error) {
	state, err := tr.interp.Sample(t)
	if err != nil {
		return nil, nil, err
	}
	WrapStates(state, tr.wrap)
	return tr.proj.Project(state), tr.ref.Desired(t), nil
}

// TerminalCost returns m(x(tf)) for the current window.
func (tr *Tracker) TerminalCost() (float64, error) {
	_, tf, err := tr.window()
	if err != nil {
		return 0, err
	}
	return tr.terminalAt(tf)
}

func (tr *Tracker) terminalAt(tf float64) (float64, error) {
	x, xdes, err := tr.sampleProjected(tf)
	if err != nil {
		return 0, err
	}
	return tr.terminal.Cost(x, xdes), nil
}

// TerminalGradient returns the gradient of the terminal cost with
// respect to the projected terminal state, recomputed from scratch. It
// does not require a prior Update.
func (tr *Tracker) TerminalGradient() (*mat.VecDense, error) {
	_, tf, err := tr.window()
	if err != nil {
		return nil, err
	}
	x, xdes, err := tr.sampleProjected(tf)
	if err != nil {
		return nil, err
	}
	return tr.terminal.Gradient(x, xdes), nil
}

// Update recomputes the total cost: the accumulator is seeded with the
// terminal cost and the running cost is integrated from t0 to tf−ε on
// top of it, so the integrator output is J1 directly. A window shorter
// than ε skips integration and reports zero steps. On failure the stored
// result is left untouched.
func (tr *Tracker) Update() error {
	t0, tf, err := tr.window()
	if err != nil {
		return err
	}

	term, err := tr.terminalAt(tf)
	if err != nil {
		return err
	}

	j := []float64{term}
	steps := 0
	if upper := tf - tr.eps; upper > t0 {
		stats, err := tr.stepper.Integrate(func(t float64, y, dy []float64) error {
			rate, err := tr.running.Rate(t, y[0])
			if err != nil {
				return err
			}
			dy[0] = rate
			return nil
		}, j, t0, upper, tr.icfg)
		if err != nil {
			return err
		}
		steps = stats.Accepted
	}

	tr.total = j[0]
	tr.steps = steps
	tr.evaluated = true
	return nil
}

// Value returns the total cost from the last successful Update.
func (tr *Tracker) Value() (float64, error) {
	if !tr.evaluated {
		return 0, ErrNotEvaluated
	}
	return tr.total, nil
}

// Steps returns the accepted integration step count from the last
// Update. Diagnostic only.
func (tr *Tracker) Steps() int { return tr.steps }

// Last returns the last evaluation as a Result.
func (tr *Tracker) Last() (Result, error) {
	if !tr.evaluated {
		return Result{}, ErrNotEvaluated
	}
	return Result{TotalCost: tr.total, Steps: tr.steps}, nil
}
