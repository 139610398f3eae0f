package fields

import (
	"reflect"
	"sort"
	"strings"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// celEvaluator runs rules with cel-go. CEL type-checks variables when it
// compiles, so programs are built per sibling-name set and cached under the
// names together with the expression. Registered functions are reachable
// through call("name", [args...]).
type celEvaluator struct {
	evaluatorConfig
}

// NewCELEvaluator constructs an Evaluator backed by cel-go.
func NewCELEvaluator(opts ...EvaluatorOption) Evaluator {
	return &celEvaluator{evaluatorConfig: newEvaluatorConfig(opts)}
}

func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	if expression == "" {
		return nil, emptyExpressionError("cel")
	}
	activation := ctx.binding()
	names := make([]string, 0, len(activation))
	for name := range activation {
		names = append(names, name)
	}
	sort.Strings(names)

	key := cacheKey("cel", strings.Join(names, ",")+"|"+expression)
	program, err := cachedProgram(e.cache, key, func() (celgo.Program, error) {
		return e.compile(names, expression)
	})
	if err != nil {
		return nil, ruleError("cel", expression, ctx, err)
	}
	out, _, err := program.Eval(activation)
	if err != nil {
		return nil, ruleError("cel", expression, ctx, err)
	}
	return out.Value(), nil
}

// Engine returns "cel".
func (e *celEvaluator) Engine() string { return "cel" }

// Compile validates nothing up front; the program is built on first use.
func (e *celEvaluator) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, emptyExpressionError("cel")
	}
	return celRule{evaluator: e, expression: expression}, nil
}

func (e *celEvaluator) compile(names []string, expression string) (celgo.Program, error) {
	opts := make([]celgo.EnvOption, 0, len(names)+1)
	for _, name := range names {
		opts = append(opts, celgo.Variable(name, celgo.DynType))
	}
	opts = append(opts, celgo.Function("call",
		celgo.Overload("call_string_list",
			[]*celgo.Type{celgo.StringType, celgo.ListType(celgo.DynType)},
			celgo.DynType,
			celgo.BinaryBinding(e.call),
		),
	))
	env, err := celgo.NewEnv(opts...)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	return env.Program(ast)
}

func (e *celEvaluator) call(nameVal, argsVal ref.Val) ref.Val {
	name, ok := nameVal.Value().(string)
	if !ok {
		return types.NewErr("call name must be a string")
	}
	native, err := argsVal.ConvertToNative(reflect.TypeOf([]any{}))
	if err != nil {
		return types.NewErr("call arguments: %v", err)
	}
	args, _ := native.([]any)
	result, err := e.functions.Call(name, args...)
	if err != nil {
		return types.NewErr("%v", err)
	}
	if result == nil {
		return types.NullValue
	}
	return types.DefaultTypeAdapter.NativeToValue(result)
}

type celRule struct {
	evaluator  *celEvaluator
	expression string
}

func (r celRule) Evaluate(ctx RuleContext) (any, error) {
	return r.evaluator.Evaluate(ctx, r.expression)
}
