package fields

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Function is a helper callable from Condition and Format rules.
type Function func(args ...any) (any, error)

// FunctionRegistry stores rule helpers keyed by case-insensitive name. It is
// safe for concurrent use.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{functions: map[string]Function{}}
}

func normalizeFunctionName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register stores fn under name. Registering a name twice is an error.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	key := normalizeFunctionName(name)
	switch {
	case key == "":
		return fmt.Errorf("fields: function name must not be empty")
	case fn == nil:
		return fmt.Errorf("fields: function %q is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = map[string]Function{}
	}
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("fields: function %q already registered", name)
	}
	r.functions[key] = fn
	return nil
}

// Lookup returns the function registered under name.
func (r *FunctionRegistry) Lookup(name string) (Function, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.functions[normalizeFunctionName(name)]
	return fn, ok
}

// Call executes the function registered under name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("fields: function registry is nil")
	}
	fn, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("fields: function %q not registered", name)
	}
	return fn(args...)
}

// Names returns the registered names, lower-cased and sorted.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of the registry.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	return NewFunctionRegistry().overlay(r)
}

// overlay returns a copy of r with every function of top added, replacing
// entries of the same name.
func (r *FunctionRegistry) overlay(top *FunctionRegistry) *FunctionRegistry {
	out := NewFunctionRegistry()
	for _, src := range []*FunctionRegistry{r, top} {
		if src == nil {
			continue
		}
		src.mu.RLock()
		for name, fn := range src.functions {
			out.functions[name] = fn
		}
		src.mu.RUnlock()
	}
	return out
}

// WithFunctionRegistry exposes registry to the resolver's default evaluator.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *config) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers fn under name for the resolver's default
// evaluator. Duplicate names keep the first registration.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *config) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}
