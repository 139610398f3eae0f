//go:build !js_eval

package fields

// NewJSEvaluator returns nil unless the module is built with the js_eval
// tag, which links in the goja runtime.
func NewJSEvaluator(...EvaluatorOption) Evaluator {
	return nil
}

func jsEvaluatorAvailable() bool {
	return false
}
