package cost

import (
	"errors"
	"math"
	"testing"

	"github.com/schweinebauch/iSAC-quadrotor/internal/dynamo"
	"github.com/schweinebauch/iSAC-quadrotor/internal/traj"
	"gonum.org/v1/gonum/mat"
)

// rampTrajectory records x(t) = [t, 2t] on a uniform grid over [0, end].
func rampTrajectory(t *testing.T, end float64) *traj.Trajectory {
	t.Helper()
	n := int(end/0.01) + 1
	tr := traj.New(n)
	for i := 0; i < n; i++ {
		tm := float64(i) * 0.01
		if err := tr.Append(tm, dynamo.State{tm, 2 * tm}); err != nil {
			t.Fatal(err)
		}
	}
	return tr
}

type constIntegrand struct {
	t0, tf, c float64
}

func (c constIntegrand) Begin() float64 { return c.t0 }
func (c constIntegrand) End() float64   { return c.tf }

func (c constIntegrand) Rate(t, j float64) (float64, error) { return c.c, nil }

func identityQuadratic(t *testing.T, dim int) *Quadratic {
	t.Helper()
	data := make([]float64, dim*dim)
	for i := 0; i < dim; i++ {
		data[i*dim+i] = 1
	}
	q, err := NewQuadratic(mat.NewSymDense(dim, data))
	if err != nil {
		t.Fatal(err)
	}
	return q
}

func newRampTracker(t *testing.T, running Integrand) *Tracker {
	t.Helper()
	tr, err := New(rampTrajectory(t, 1.0), Options{
		Terminal:  identityQuadratic(t, 2),
		Running:   running,
		Reference: traj.NewHover([]float64{0, 0}),
		StateDim:  2,
	})
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestTracker_ZeroWindow(t *testing.T) {
	tr := newRampTracker(t, constIntegrand{t0: 0.5, tf: 0.5, c: 99})

	if err := tr.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	// x(0.5) = [0.5, 1.0], terminal cost 0.25 + 1.0
	got, err := tr.Value()
	if err != nil {
		t.Fatal(err)
	}
	if got != 1.25 {
		t.Errorf("zero-window total = %v, want exactly 1.25", got)
	}
	if tr.Steps() != 0 {
		t.Errorf("zero-window steps = %d, want 0", tr.Steps())
	}
}

func TestTracker_ConstantRunningCost(t *testing.T) {
	const c = 2.0
	tr := newRampTracker(t, constIntegrand{t0: 0, tf: 1, c: c})

	if err := tr.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	// terminal: x(1) = [1, 2] against zero reference
	want := 5.0 + c*1.0
	got, err := tr.Value()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-want) > 1e-4 {
		t.Errorf("total = %v, want %v", got, want)
	}
	if tr.Steps() == 0 {
		t.Error("expected nonzero integration steps")
	}
}

func TestTracker_ValueBeforeUpdate(t *testing.T) {
	tr := newRampTracker(t, constIntegrand{t0: 0, tf: 1})

	if _, err := tr.Value(); !errors.Is(err, ErrNotEvaluated) {
		t.Errorf("Value before Update = %v, want ErrNotEvaluated", err)
	}
	if _, err := tr.Last(); !errors.Is(err, ErrNotEvaluated) {
		t.Errorf("Last before Update = %v, want ErrNotEvaluated", err)
	}
}

func TestTracker_InvalidWindow(t *testing.T) {
	tests := []struct {
		name   string
		t0, tf float64
	}{
		{"reversed", 1, 0},
		{"nan start", math.NaN(), 1},
		{"nan end", 0, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newRampTracker(t, constIntegrand{t0: tt.t0, tf: tt.tf})
			if err := tr.Update(); !errors.Is(err, ErrInvalidWindow) {
				t.Errorf("Update = %v, want ErrInvalidWindow", err)
			}
			if _, err := tr.TerminalGradient(); !errors.Is(err, ErrInvalidWindow) {
				t.Errorf("TerminalGradient = %v, want ErrInvalidWindow", err)
			}
		})
	}
}

func TestTracker_SamplingOutOfRange(t *testing.T) {
	// window extends beyond the recorded trajectory
	tr := newRampTracker(t, constIntegrand{t0: 0, tf: 2})

	if err := tr.Update(); !errors.Is(err, traj.ErrOutOfRange) {
		t.Errorf("Update = %v, want traj.ErrOutOfRange", err)
	}

	// a failed update must not report a stale value as fresh
	if _, err := tr.Value(); !errors.Is(err, ErrNotEvaluated) {
		t.Errorf("Value after failed Update = %v, want ErrNotEvaluated", err)
	}
}

func TestTracker_TerminalGradient(t *testing.T) {
	trj := rampTrajectory(t, 1.0)
	q, err := NewQuadratic(mat.NewSymDense(2, []float64{2, 0, 0, 3}))
	if err != nil {
		t.Fatal(err)
	}
	tr, err := New(trj, Options{
		Terminal:  q,
		Running:   constIntegrand{t0: 0, tf: 1},
		Reference: traj.NewHover([]float64{0, 0}),
		StateDim:  2,
	})
	if err != nil {
		t.Fatal(err)
	}

	grad, err := tr.TerminalGradient()
	if err != nil {
		t.Fatal(err)
	}

	// x(1) = [1, 2], grad = (x - 0)^T diag(2,3) = [2, 6]
	want := []float64{2, 6}
	for i, w := range want {
		if math.Abs(grad.AtVec(i)-w) > 1e-9 {
			t.Errorf("grad[%d] = %v, want %v", i, grad.AtVec(i), w)
		}
	}
}

func TestTracker_AngleWrapInPipeline(t *testing.T) {
	// constant state with the angle component three half-turns out of range
	trj := traj.New(3)
	for _, tm := range []float64{0, 0.5, 1.0} {
		if err := trj.Append(tm, dynamo.State{3 * math.Pi, 0}); err != nil {
			t.Fatal(err)
		}
	}

	tr, err := New(trj, Options{
		Terminal:    identityQuadratic(t, 2),
		Running:     constIntegrand{t0: 0, tf: 1},
		Reference:   traj.NewHover([]float64{math.Pi, 0}),
		WrapIndices: []int{0},
		StateDim:    2,
	})
	if err != nil {
		t.Fatal(err)
	}

	term, err := tr.TerminalCost()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(term) > 1e-9 {
		t.Errorf("terminal cost with wrapped angle = %v, want ~0", term)
	}
}

func TestTracker_Idempotent(t *testing.T) {
	trj := rampTrajectory(t, 1.0)
	form := identityQuadratic(t, 2)
	ref := traj.NewHover([]float64{0, 0})

	running, err := NewTrackingIntegrand(trj, ref, NewIdentity(2), form, nil)
	if err != nil {
		t.Fatal(err)
	}
	tr, err := New(trj, Options{
		Terminal:  form,
		Running:   running,
		Reference: ref,
		StateDim:  2,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := tr.Update(); err != nil {
		t.Fatalf("first Update: %v", err)
	}
	v1, _ := tr.Value()
	s1 := tr.Steps()

	if err := tr.Update(); err != nil {
		t.Fatalf("second Update: %v", err)
	}
	v2, _ := tr.Value()
	s2 := tr.Steps()

	if v1 != v2 || s1 != s2 {
		t.Errorf("repeated Update not idempotent: (%v, %d) vs (%v, %d)", v1, s1, v2, s2)
	}
}

func TestTracker_TrackingIntegrandAgainstClosedForm(t *testing.T) {
	// l(x(t)) = t^2 + (2t)^2 = 5t^2, integral over [0,1] is 5/3;
	// terminal cost at tf=1 is 5.
	trj := rampTrajectory(t, 1.0)
	form := identityQuadratic(t, 2)
	ref := traj.NewHover([]float64{0, 0})

	running, err := NewTrackingIntegrand(trj, ref, NewIdentity(2), form, nil)
	if err != nil {
		t.Fatal(err)
	}
	tr, err := New(trj, Options{
		Terminal:  form,
		Running:   running,
		Reference: ref,
		StateDim:  2,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := tr.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := tr.Value()
	want := 5.0 + 5.0/3.0
	if math.Abs(got-want) > 1e-3 {
		t.Errorf("total = %v, want %v", got, want)
	}

	// trapezoidal cross-check over the recorded grid
	integral, intervals, err := Trapezoid(running, trj)
	if err != nil {
		t.Fatal(err)
	}
	if intervals != trj.Len()-1 {
		t.Errorf("intervals = %d, want %d", intervals, trj.Len()-1)
	}
	if math.Abs(integral-5.0/3.0) > 1e-3 {
		t.Errorf("trapezoid integral = %v, want %v", integral, 5.0/3.0)
	}
}

func TestTracker_PerfectTrackingIsFree(t *testing.T) {
	setpoint := []float64{1.0, -2.0}
	trj := traj.New(11)
	for i := 0; i <= 10; i++ {
		if err := trj.Append(float64(i)*0.1, dynamo.State(setpoint)); err != nil {
			t.Fatal(err)
		}
	}

	form := identityQuadratic(t, 2)
	ref := traj.NewHover(setpoint)
	running, err := NewTrackingIntegrand(trj, ref, NewIdentity(2), form, nil)
	if err != nil {
		t.Fatal(err)
	}
	tr, err := New(trj, Options{
		Terminal:  form,
		Running:   running,
		Reference: ref,
		StateDim:  2,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := tr.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := tr.Value()
	if math.Abs(got) > 1e-12 {
		t.Errorf("perfect tracking cost = %v, want 0", got)
	}
}

func TestNew_ConfigurationErrors(t *testing.T) {
	trj := rampTrajectory(t, 1.0)
	form := identityQuadratic(t, 2)
	ref := traj.NewHover([]float64{0, 0})
	running := constIntegrand{t0: 0, tf: 1}

	tests := []struct {
		name string
		opts Options
	}{
		{"missing terminal", Options{Running: running, Reference: ref, StateDim: 2}},
		{"missing running", Options{Terminal: form, Reference: ref, StateDim: 2}},
		{"missing reference", Options{Terminal: form, Running: running, StateDim: 2}},
		{"zero state dim", Options{Terminal: form, Running: running, Reference: ref}},
		{"wrap index out of range", Options{Terminal: form, Running: running, Reference: ref, StateDim: 2, WrapIndices: []int{5}}},
		{"negative epsilon", Options{Terminal: form, Running: running, Reference: ref, StateDim: 2, Epsilon: -1}},
		{"reference dim mismatch", Options{Terminal: form, Running: running, Reference: traj.NewHover([]float64{0, 0, 0}), StateDim: 2}},
		{"projector dim mismatch", Options{Terminal: form, Running: running, Reference: ref, StateDim: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(trj, tt.opts); err == nil {
				t.Error("New should fail")
			}
		})
	}

	if _, err := New(nil, Options{Terminal: form, Running: running, Reference: ref, StateDim: 2}); err == nil {
		t.Error("New(nil interpolator) should fail")
	}
}
