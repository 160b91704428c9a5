// Package sim rolls a dynamical system forward under a controller and
// records the resulting trajectory for cost evaluation.
package sim

import (
	"context"
	"fmt"

	"github.com/schweinebauch/iSAC-quadrotor/internal/dynamo"
	"github.com/schweinebauch/iSAC-quadrotor/internal/traj"
)

type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		ValidateState: true,
	}
}

type Runner struct {
	dyn     dynamo.System
	stepper dynamo.Stepper
	ctrl    dynamo.Controller
	metrics []dynamo.Metric
}

func New(dyn dynamo.System, stepper dynamo.Stepper, ctrl dynamo.Controller) *Runner {
	return &Runner{
		dyn:     dyn,
		stepper: stepper,
		ctrl:    ctrl,
	}
}

func (r *Runner) AddMetric(m dynamo.Metric) { r.metrics = append(r.metrics, m) }

// MetricValues returns the current value of each attached metric.
func (r *Runner) MetricValues() map[string]float64 {
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Run integrates the system from x0 over cfg.Duration and returns the
// recorded trajectory.
func (r *Runner) Run(ctx context.Context, x0 dynamo.State, cfg Config) (*traj.Trajectory, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != r.dyn.StateDim() {
		return nil, fmt.Errorf("%w: x0 has %d components, system wants %d",
			dynamo.ErrDimensionMismatch, len(x0), r.dyn.StateDim())
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	steps := int(cfg.Duration / cfg.Dt)
	trajectory := traj.New(steps + 1)

	x := x0.Clone()
	t := 0.0
	if err := trajectory.Append(t, x); err != nil {
		return nil, err
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return trajectory, ctx.Err()
		default:
		}

		u := r.ctrl.Compute(x, t)

		for _, m := range r.metrics {
			m.Observe(x, u, t)
		}

		x = r.stepper.Step(r.dyn, x, u, t, cfg.Dt)
		t = float64(i+1) * cfg.Dt

		if cfg.ValidateState && !x.IsValid() {
			return trajectory, fmt.Errorf("%w at t=%.4f (step %d)", dynamo.ErrInvalidState, t, i)
		}

		if err := trajectory.Append(t, x); err != nil {
			return trajectory, err
		}
	}

	return trajectory, nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("sim: dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("sim: duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
