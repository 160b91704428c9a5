// Package dynamo provides the core primitives shared by the cost
// evaluation pipeline and the rollout driver:
//
//   - [State]: vector representing full system state
//   - [Control]: actuator input vector
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Stepper]: fixed-step numerical integrator interface
//   - [Controller]: feedback controller interface
//   - [Metric]: per-step diagnostic accumulator
//
// # Thread Safety
//
// Types in this package hold no hidden shared state, but implementations
// of [Controller] and [Metric] typically accumulate across steps and are
// NOT safe for concurrent use. Use one instance per rollout.
package dynamo
