// Package polyfit fits a fixed-size polynomial to a scalar target function.
//
// The root package holds the model and the loss: [Infer] evaluates a
// coefficient vector with only its leading terms active, and
// [LossEvaluator] measures the mean squared error against the target over a
// deterministic [SampleGrid]. [LeastSquares] computes the closed-form fit for
// comparison.
//
// Training lives in the polyfit/optimizer subpackage: finite-difference
// gradient descent with degree damping, gradient clipping, an adaptive
// learning rate, and a curriculum that unlocks higher-order terms on
// convergence events. The polyfit/report subpackage renders loss curves and
// function comparisons as self-contained HTML.
//
// Basic usage:
//
//	t, err := optimizer.NewTrainer(optimizer.DefaultConfig(), math.Cos)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := t.Run(context.Background())
//	fmt.Println(res.Polynomial.Eval(1.0))
package polyfit
