// Package cost computes the trajectory-tracking cost
//
//	J1 = ∫_{t0}^{tf} l(x(t)) dt + m(x(tf))
//
// and the gradient of the terminal cost m with respect to the projected
// terminal state. The [Tracker] is bound to a state interpolation source
// at construction; after the surrounding control loop modifies states or
// controls, a single [Tracker.Update] recomputes the total cost.
//
// The evaluation pipeline for the terminal term samples the state at tf,
// wraps the configured angle components into (-π, π], projects the state
// into the coordinates penalized by the cost [Model], and scores it
// against the desired state from the bound [traj.Reference]. The running
// term is accumulated by adaptive Dormand-Prince integration of the
// [Integrand] from t0 to tf−ε, seeded with the terminal cost so the
// integrator output is the total cost directly.
//
// Trackers keep no scratch state between calls besides the cached result;
// calls are re-entrant but a single Tracker must not be used from
// multiple goroutines at once.
package cost
