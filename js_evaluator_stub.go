//go:build !js_eval

package formstate

// NewJSEvaluator is unavailable without the js_eval build tag and returns nil;
// NewCalculator then falls back to the expr engine.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	_ = newJSSettings(opts)
	return nil
}

func isJSEvaluator(Evaluator) bool {
	return false
}
