//go:build js_eval

package fields

import (
	"fmt"

	"github.com/dop251/goja"
)

// jsEvaluator runs rules as JavaScript expressions with goja.
type jsEvaluator struct {
	evaluatorConfig
}

// NewJSEvaluator constructs an Evaluator backed by goja.
func NewJSEvaluator(opts ...EvaluatorOption) Evaluator {
	return &jsEvaluator{evaluatorConfig: newEvaluatorConfig(opts)}
}

// Engine names the evaluator in evaluation errors.
func (e *jsEvaluator) Engine() string {
	return "js"
}

func (e *jsEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

func (e *jsEvaluator) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, emptyExpressionError("js")
	}
	program, err := cachedProgram(e.cache, cacheKey("js", expression), func() (*goja.Program, error) {
		return goja.Compile("", fmt.Sprintf("(function(){ return (%s); })()", expression), false)
	})
	if err != nil {
		return nil, ruleError("js", expression, RuleContext{}, err)
	}
	return jsRule{evaluator: e, program: program, expression: expression}, nil
}

type jsRule struct {
	evaluator  *jsEvaluator
	program    *goja.Program
	expression string
}

// Evaluate uses a fresh runtime per call; goja runtimes are not safe for
// concurrent use.
func (r jsRule) Evaluate(ctx RuleContext) (any, error) {
	vm := goja.New()
	if err := r.evaluator.inject(vm, ctx); err != nil {
		return nil, engineError("js", err)
	}
	value, err := vm.RunProgram(r.program)
	if err != nil {
		return nil, ruleError("js", r.expression, ctx, err)
	}
	return value.Export(), nil
}

func (e *jsEvaluator) inject(vm *goja.Runtime, ctx RuleContext) error {
	for name, value := range ctx.binding() {
		if err := vm.Set(name, value); err != nil {
			return err
		}
	}
	if err := vm.Set("call", func(name string, args ...any) (any, error) {
		return e.functions.Call(name, args...)
	}); err != nil {
		return err
	}
	for _, name := range e.functions.Names() {
		fn, _ := e.functions.Lookup(name)
		if err := vm.Set(name, func(args ...any) (any, error) { return fn(args...) }); err != nil {
			return err
		}
	}
	return nil
}

func jsEvaluatorAvailable() bool {
	return true
}
