package fields

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSource indicates a resolver was built without a value source.
	ErrNoSource = errors.New("fields: value source not configured")
	// ErrNoEvaluator indicates a rule could not be evaluated because no
	// evaluator is available.
	ErrNoEvaluator = errors.New("fields: evaluator not configured")
)

// ReadError records a value source failure for one storage key. The resolver
// treats the key as absent and keeps going; all read errors of a pass are
// returned joined next to the resolved values.
type ReadError struct {
	Subject string
	Key     string
	Err     error
}

func (e *ReadError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("fields: read subject=%q key=%q: %v", e.Subject, e.Key, e.Err)
}

func (e *ReadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// EvaluationError reports a rule that failed to compile or run. Field and
// Key are empty when the failure happened outside a resolution pass, such as
// an eager Compile.
type EvaluationError struct {
	Engine string
	Expr   string
	Field  string
	Key    string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "fields: %s rule", e.Engine)
	if e.Expr == "" {
		b.WriteString(" <empty>")
	} else {
		fmt.Fprintf(&b, " %q", e.Expr)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " field=%s", e.Field)
	}
	if e.Key != "" && e.Key != e.Field {
		fmt.Fprintf(&b, " key=%s", e.Key)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// engineError prefixes a failure that is not tied to one expression.
func engineError(engine string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) || strings.HasPrefix(err.Error(), "fields:") {
		return err
	}
	return fmt.Errorf("fields: %s evaluator: %w", engine, err)
}

// ruleError attaches rule metadata to err. An EvaluationError already in the
// chain keeps what it has and only gains the blanks.
func ruleError(engine, expr string, ctx RuleContext, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		return &EvaluationError{Engine: engine, Expr: expr, Field: ctx.Field, Key: ctx.Key, Err: err}
	}
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&evalErr.Engine, engine)
	fill(&evalErr.Expr, expr)
	fill(&evalErr.Field, ctx.Field)
	fill(&evalErr.Key, ctx.Key)
	return evalErr
}
