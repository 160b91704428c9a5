// Package integrators provides numerical ODE integration.
//
// Two surfaces are exposed:
//
//   - [RK4]: fixed-step Runge-Kutta stepper over a [dynamo.System],
//     used by the rollout driver to generate candidate trajectories.
//   - [DormandPrince]: embedded 5(4) pair with adaptive step control
//     over a plain right-hand-side [Func], used by the cost tracker to
//     accumulate the running-cost integral under absolute and relative
//     local error tolerances.
package integrators
