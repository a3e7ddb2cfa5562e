// Package optimizer trains polyfit polynomials by finite-difference
// gradient descent.
//
// Each epoch of [Trainer.Run]:
//
//   - estimates the gradient for every coefficient slot by forward
//     difference and damps slot k by 1/(k+1)^1.5 ([Gradient]),
//   - clips the gradient to MaxGradNorm ([ClipGradient]),
//   - steps the coefficients and re-evaluates the loss,
//   - adapts the learning rate to the loss delta ([LearningRateSchedule]),
//   - every ConvergenceInterval epochs, asks the [ConvergenceTracker]
//     whether to unlock the next polynomial term.
//
// Training always runs the full epoch budget.
//
// # Usage
//
//	t, err := optimizer.NewTrainer(optimizer.DefaultConfig(), math.Cos,
//	    optimizer.WithLogger(log.Default()),
//	    optimizer.WithReporter(report.NewHTMLReporter("")))
//	res, err := t.Run(ctx)
//
// # Diagnostics
//
// Gradient clipping, learning-rate clamping and convergence events are
// expected outcomes, not errors. They are logged, recorded per epoch in
// [Result.Epochs] and counted in [Result.Events].
package optimizer
