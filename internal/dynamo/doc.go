// Package dynamo drives a [physics.Universe] through a fixed number of ticks.
//
// The package ties the integration kernel to its callers:
//
//   - [Mode]: serial or parallel execution
//   - [Stepper]: one tick of the kernel in the chosen mode
//   - [Simulator]: runs ticks sequentially, timing each one and feeding
//     metrics and observers
//   - [Verify]: steps serial and parallel copies side by side and reports
//     the largest deviation between them
//
// # Example
//
//	stepper, _ := dynamo.NewStepper(dynamo.ModeParallel, 0)
//	sim := dynamo.New(stepper)
//	result, err := sim.Run(ctx, universe, dynamo.DefaultConfig())
//	fmt.Println(result.Elapsed, result.PerTick())
//
// # Thread Safety
//
// A Simulator is not safe for concurrent use. Ticks never overlap: the
// parallel stepper returns only after every worker has finished the update
// phase of the current tick.
package dynamo
