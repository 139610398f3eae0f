package fields

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// exprEvaluator runs rules with github.com/expr-lang/expr. Every registered
// function is callable by name and through call("name", args...).
type exprEvaluator struct {
	evaluatorConfig
	options []exprlang.Option
}

// NewExprEvaluator constructs the evaluator a Resolver uses unless
// WithEvaluator says otherwise.
func NewExprEvaluator(opts ...EvaluatorOption) Evaluator {
	e := &exprEvaluator{evaluatorConfig: newEvaluatorConfig(opts)}
	e.options = []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
		exprlang.Function("call", func(args ...any) (any, error) {
			if len(args) == 0 {
				return nil, fmt.Errorf("call requires a function name")
			}
			name, ok := args[0].(string)
			if !ok {
				return nil, fmt.Errorf("call name must be a string, got %T", args[0])
			}
			return e.functions.Call(name, args[1:]...)
		}),
	}
	for _, name := range e.functions.Names() {
		fn, _ := e.functions.Lookup(name)
		e.options = append(e.options, exprlang.Function(name, func(args ...any) (any, error) {
			return fn(args...)
		}))
	}
	return e
}

func (e *exprEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

// Engine returns "expr".
func (e *exprEvaluator) Engine() string { return "expr" }

// Compile checks expression once. Variables are resolved at run time, so a
// compiled rule serves any sibling set.
func (e *exprEvaluator) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, emptyExpressionError("expr")
	}
	program, err := cachedProgram(e.cache, cacheKey("expr", expression), func() (*exprvm.Program, error) {
		return exprlang.Compile(expression, e.options...)
	})
	if err != nil {
		return nil, ruleError("expr", expression, RuleContext{}, err)
	}
	return exprRule{program: program, expression: expression}, nil
}

type exprRule struct {
	program    *exprvm.Program
	expression string
}

func (r exprRule) Evaluate(ctx RuleContext) (any, error) {
	result, err := exprlang.Run(r.program, ctx.binding())
	if err != nil {
		return nil, ruleError("expr", r.expression, ctx, err)
	}
	return result, nil
}
