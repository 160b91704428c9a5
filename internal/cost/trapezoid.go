package cost

import "github.com/schweinebauch/iSAC-quadrotor/internal/traj"

// Trapezoid integrates the running cost by the trapezoidal rule over the
// trajectory's own sample grid and returns the integral plus the number
// of intervals used. It is an alternative to adaptive integration for
// cross-checks and for callers that want cost on exactly the recorded
// samples.
func Trapezoid(g Integrand, trj *traj.Trajectory) (float64, int, error) {
	n := trj.Len()
	if n == 0 {
		return 0, 0, traj.ErrEmpty
	}

	tPrev, _ := trj.At(0)
	rPrev, err := g.Rate(tPrev, 0)
	if err != nil {
		return 0, 0, err
	}

	integral := 0.0
	for i := 1; i < n; i++ {
		t, _ := trj.At(i)
		r, err := g.Rate(t, 0)
		if err != nil {
			return 0, 0, err
		}
		integral += 0.5 * (r + rPrev) * (t - tPrev)
		tPrev, rPrev = t, r
	}

	return integral, n - 1, nil
}
