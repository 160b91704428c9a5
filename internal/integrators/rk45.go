package integrators

import (
	"errors"
	"fmt"
	"math"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

var (
	// ErrStepTooSmall indicates the controller could not meet the error
	// tolerance without shrinking the step below Config.MinStep.
	ErrStepTooSmall = errors.New("integrators: adaptive step below minimum")

	// ErrMaxSteps indicates the step budget was exhausted before
	// reaching the end time.
	ErrMaxSteps = errors.New("integrators: maximum step count exceeded")

	// ErrBackwardWindow indicates an end time before the start time.
	ErrBackwardWindow = errors.New("integrators: end time before start time")
)

// Func is an ODE right-hand side: it writes dy/dt at (t, y) into dy.
// A returned error aborts integration and propagates to the caller.
type Func func(t float64, y, dy []float64) error

// Config controls adaptive integration. Zero values fall back to
// defaults in the same spirit as a controlled dopri5 stepper:
// both tolerances 1e-5, initial step 0.01.
type Config struct {
	InitialStep float64
	MinStep     float64
	MaxStep     float64
	AbsTol      float64
	RelTol      float64
	MaxSteps    int
}

func (c *Config) applyDefaults(span float64) {
	if c.InitialStep <= 0 {
		c.InitialStep = 0.01
	}
	if c.MinStep <= 0 {
		c.MinStep = 1e-10
	}
	if c.MaxStep <= 0 {
		c.MaxStep = span
	}
	if c.AbsTol <= 0 {
		c.AbsTol = 1e-5
	}
	if c.RelTol <= 0 {
		c.RelTol = c.AbsTol
	}
	if c.MaxSteps <= 0 {
		c.MaxSteps = 1000000
	}
}

// Stats reports the work done by one Integrate call.
type Stats struct {
	Accepted    int
	Rejected    int
	Evaluations int
	LastStep    float64
}

type DormandPrince struct {
	safety   float64
	minScale float64
	maxScale float64
}

func NewDormandPrince() *DormandPrince {
	return &DormandPrince{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

// Integrate advances y from t0 to t1 under local error control, mutating
// y in place. The per-component tolerance is AbsTol + RelTol*|y|; a step
// is accepted when the RMS of the scaled embedded-error estimate is at
// most one. t1 == t0 is a no-op. t1 < t0 fails with ErrBackwardWindow.
func (d *DormandPrince) Integrate(f Func, y []float64, t0, t1 float64, cfg Config) (Stats, error) {
	var stats Stats

	if math.IsNaN(t0) || math.IsNaN(t1) {
		return stats, fmt.Errorf("integrators: NaN integration bound [%v, %v]", t0, t1)
	}
	if t1 < t0 {
		return stats, fmt.Errorf("%w: [%v, %v]", ErrBackwardWindow, t0, t1)
	}
	if t1 == t0 {
		return stats, nil
	}

	cfg.applyDefaults(t1 - t0)

	n := len(y)
	k1 := make([]float64, n)
	k2 := make([]float64, n)
	k3 := make([]float64, n)
	k4 := make([]float64, n)
	k5 := make([]float64, n)
	k6 := make([]float64, n)
	k7 := make([]float64, n)
	ytmp := make([]float64, n)
	ynew := make([]float64, n)

	if err := f(t0, y, k1); err != nil {
		return stats, err
	}
	stats.Evaluations++

	t := t0
	h := math.Min(cfg.InitialStep, cfg.MaxStep)

	for t < t1 {
		if stats.Accepted+stats.Rejected >= cfg.MaxSteps {
			return stats, fmt.Errorf("%w (%d)", ErrMaxSteps, cfg.MaxSteps)
		}

		if t+h > t1 {
			h = t1 - t
		}

		for i := 0; i < n; i++ {
			ytmp[i] = y[i] + h*b21*k1[i]
		}
		if err := f(t+a2*h, ytmp, k2); err != nil {
			return stats, err
		}

		for i := 0; i < n; i++ {
			ytmp[i] = y[i] + h*(b31*k1[i]+b32*k2[i])
		}
		if err := f(t+a3*h, ytmp, k3); err != nil {
			return stats, err
		}

		for i := 0; i < n; i++ {
			ytmp[i] = y[i] + h*(b41*k1[i]+b42*k2[i]+b43*k3[i])
		}
		if err := f(t+a4*h, ytmp, k4); err != nil {
			return stats, err
		}

		for i := 0; i < n; i++ {
			ytmp[i] = y[i] + h*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
		}
		if err := f(t+a5*h, ytmp, k5); err != nil {
			return stats, err
		}

		for i := 0; i < n; i++ {
			ytmp[i] = y[i] + h*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
		}
		if err := f(t+h, ytmp, k6); err != nil {
			return stats, err
		}

		for i := 0; i < n; i++ {
			ynew[i] = y[i] + h*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
		}
		if err := f(t+h, ynew, k7); err != nil {
			return stats, err
		}
		stats.Evaluations += 6

		errNorm := 0.0
		for i := 0; i < n; i++ {
			errEst := h * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
			tol := cfg.AbsTol + cfg.RelTol*math.Max(math.Abs(y[i]), math.Abs(ynew[i]))
			errNorm += (errEst / tol) * (errEst / tol)
		}
		errNorm = math.Sqrt(errNorm / float64(n))

		if errNorm <= 1 {
			t += h
			copy(y, ynew)
			copy(k1, k7) // first-same-as-last
			stats.Accepted++
			stats.LastStep = h

			var scale float64
			if errNorm > 0 {
				scale = math.Min(d.maxScale, d.safety*math.Pow(errNorm, -0.2))
			} else {
				scale = d.maxScale
			}
			h = math.Min(h*scale, cfg.MaxStep)
		} else {
			stats.Rejected++
			scale := math.Max(d.minScale, d.safety*math.Pow(errNorm, -0.25))
			h *= scale
			if h < cfg.MinStep {
				return stats, fmt.Errorf("%w: h=%g at t=%g", ErrStepTooSmall, h, t)
			}
		}
	}

	return stats, nil
}
