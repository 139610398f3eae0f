package fields

import "fmt"

// EvaluatorOption configures the bundled evaluators (expr, CEL and JS).
type EvaluatorOption func(*evaluatorConfig)

type evaluatorConfig struct {
	cache     ProgramCache
	functions *FunctionRegistry
}

// EvaluatorCache stores compiled programs in cache. Keys are namespaced by
// engine, so one cache can back several evaluators.
func EvaluatorCache(cache ProgramCache) EvaluatorOption {
	return func(cfg *evaluatorConfig) {
		cfg.cache = cache
	}
}

// EvaluatorFunctions exposes the functions in registry to rules, next to the
// built-in helpers. A registered name replaces the helper of the same name.
func EvaluatorFunctions(registry *FunctionRegistry) EvaluatorOption {
	return func(cfg *evaluatorConfig) {
		cfg.functions = registry
	}
}

func newEvaluatorConfig(opts []EvaluatorOption) evaluatorConfig {
	cfg := evaluatorConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	cfg.functions = builtinFunctions().overlay(cfg.functions)
	return cfg
}

// cachedProgram returns the program stored under key, compiling and storing
// it on a miss. Entries of another type are treated as misses.
func cachedProgram[P any](cache ProgramCache, key string, compile func() (P, error)) (P, error) {
	if cache != nil {
		if stored, ok := cache.Get(key); ok {
			if program, ok := stored.(P); ok {
				return program, nil
			}
		}
	}
	program, err := compile()
	if err != nil {
		return program, err
	}
	if cache != nil {
		cache.Set(key, program)
	}
	return program, nil
}

// cacheKey namespaces cached programs by engine.
func cacheKey(engine, expression string) string {
	return engine + ":" + expression
}

func emptyExpressionError(engine string) error {
	return engineError(engine, fmt.Errorf("expression must not be empty"))
}
