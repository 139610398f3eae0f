package fields

import (
	"errors"
	"strings"
	"testing"
)

func TestRuleErrorCarriesContext(t *testing.T) {
	base := errors.New("boom")
	err := ruleError("expr", "flag && missing", RuleContext{Field: "title", Key: "hero_title"}, base)

	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	want := EvaluationError{Engine: "expr", Expr: "flag && missing", Field: "title", Key: "hero_title", Err: base}
	if *evalErr != want {
		t.Fatalf("unexpected metadata %+v", evalErr)
	}
	if got := err.Error(); got != `fields: expr rule "flag && missing" field=title key=hero_title: boom` {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestRuleErrorFillsBlanksOnly(t *testing.T) {
	base := errors.New("compile failure")
	existing := &EvaluationError{Engine: "expr", Err: base}

	err := ruleError("cel", "rule", RuleContext{Field: "items", Key: "items"}, existing)
	if !errors.Is(err, base) {
		t.Fatalf("expected base error to unwrap")
	}
	if existing.Engine != "expr" || existing.Expr != "rule" || existing.Field != "items" {
		t.Fatalf("unexpected merge %+v", existing)
	}
	if got := err.Error(); got != `fields: expr rule "rule" field=items: compile failure` {
		t.Fatalf("key equal to field should be omitted, got %q", got)
	}
}

func TestEngineErrorPrefixesOnce(t *testing.T) {
	err := engineError("js", errors.New("runtime gone"))
	if err.Error() != "fields: js evaluator: runtime gone" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if again := engineError("cel", err); again != err {
		t.Fatalf("expected already prefixed error to pass through, got %v", again)
	}
	if engineError("expr", nil) != nil {
		t.Fatalf("nil should stay nil")
	}
}

func TestReadErrorUnwraps(t *testing.T) {
	base := errors.New("connection reset")
	err := &ReadError{Subject: "post_12", Key: "title", Err: base}
	if !errors.Is(err, base) {
		t.Fatalf("expected read error to unwrap to base error")
	}
	if !strings.Contains(err.Error(), `key="title"`) {
		t.Fatalf("expected key in message, got %q", err.Error())
	}
}
