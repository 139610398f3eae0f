package fields

import (
	"encoding/json"
	"testing"
)

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"":                 KindScalar,
		"text":             KindScalar,
		" Group ":          KindGroup,
		"repeater":         KindRepeater,
		"flexible_content": KindVariants,
		"variants":         KindVariants,
		"clone":            KindReference,
		"reference":        KindReference,
	}
	for input, want := range cases {
		got, err := ParseKind(input)
		if err != nil {
			t.Fatalf("ParseKind(%q): unexpected error %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseKind(%q) = %s, want %s", input, got, want)
		}
	}
	if _, err := ParseKind("matrix"); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}

func TestKindJSON(t *testing.T) {
	field := FieldSchema{Name: "rows", Kind: KindRepeater}
	raw, err := json.Marshal(field)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"name":"rows","kind":"repeater"}` {
		t.Fatalf("unexpected JSON %s", raw)
	}
	var decoded FieldSchema
	if err := json.Unmarshal([]byte(`{"name":"x","kind":"clone","references":["g"]}`), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Kind != KindReference {
		t.Fatalf("expected reference kind, got %s", decoded.Kind)
	}
	if Kind(42).String() != "kind(42)" {
		t.Fatalf("unexpected String for unknown kind")
	}
}
