package fields

import (
	"fmt"
	"time"
)

// RuleContext carries the inputs bound while evaluating a field rule.
type RuleContext struct {
	Subject string
	Field   string
	Key     string
	// Value is the field's resolved value.
	Value any
	// Siblings holds the fields resolved before this one at the same level.
	Siblings *Values
	Args     map[string]any
}

// binding flattens the context into the variable set exposed to expressions.
// Sibling names are bound first so the reserved names always win.
func (ctx RuleContext) binding() map[string]any {
	env := map[string]any{}
	if ctx.Siblings != nil {
		for _, name := range ctx.Siblings.Keys() {
			value, _ := ctx.Siblings.Get(name)
			env[name] = plainValue(value)
		}
	}
	args := ctx.Args
	if args == nil {
		args = map[string]any{}
	}
	env["value"] = plainValue(ctx.Value)
	env["subject"] = ctx.Subject
	env["field"] = ctx.Field
	env["key"] = ctx.Key
	env["args"] = args
	return env
}

// Evaluator executes rule expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// ProgramCache stores compiled expression programs keyed by expression strings.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// WithProgramCache registers a program cache shared by the resolver's
// evaluator.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *config) {
		cfg.programCache = cache
	}
}

// WithEvaluator sets the evaluator used for Condition and Format rules.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *config) {
		cfg.evaluator = e
	}
}

// WithRuleArgs exposes args to every rule as the "args" variable.
func WithRuleArgs(args map[string]any) Option {
	return func(cfg *config) {
		cfg.ruleArgs = cloneMap(args)
	}
}

// evaluateRule runs expr for field and reports the outcome to the logger.
func (r *Resolver) evaluateRule(ctx RuleContext, expr string) (any, error) {
	evaluator := r.cfg.evaluator
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	if ctx.Args == nil {
		ctx.Args = r.cfg.ruleArgs
	}
	start := time.Now()
	value, err := evaluator.Evaluate(ctx, expr)
	err = ruleError(evaluatorEngineName(evaluator), expr, ctx, err)
	level := LogLevelDebug
	message := fmt.Sprintf("rule evaluated in %s", time.Since(start))
	if err != nil {
		level = LogLevelWarn
		message = "rule failed"
	}
	r.cfg.logger.Log(LogEvent{
		Level:   level,
		Subject: ctx.Subject,
		Field:   ctx.Field,
		Key:     ctx.Key,
		Message: message,
		Err:     err,
	})
	return value, err
}

// evaluatorEngineName names the engine in errors. Evaluators outside this
// package may implement Engine() string to name themselves.
func evaluatorEngineName(e Evaluator) string {
	if named, ok := e.(interface{ Engine() string }); ok {
		return named.Engine()
	}
	return "custom"
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
