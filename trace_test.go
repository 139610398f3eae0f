package fields

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveWithTraceRecordsReads(t *testing.T) {
	roots := []*FieldSchema{
		{Name: "title"},
		{Name: "items", Kind: KindRepeater, Children: []*FieldSchema{{Name: "label"}}},
		{Name: "blocks", Kind: KindVariants, Variants: []Variant{{Tag: "a"}}},
	}
	source := newMapSource(map[string]any{"title": "T", "items": 1, "items_0_label": "L"})

	_, trace, err := New(source).ResolveWithTrace(context.Background(), "post_3", roots)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &Trace{
		Subject: "post_3",
		Reads: []Read{
			{Key: "title", Found: true, Value: "T"},
			{Key: "items", Found: true, Value: 1},
			{Key: "items_0_label", Found: true, Value: "L"},
			{Key: "blocks"},
		},
	}
	if diff := cmp.Diff(want, trace); diff != "" {
		t.Fatalf("trace mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"title", "items", "items_0_label", "blocks"}, trace.Keys()); diff != "" {
		t.Fatalf("trace keys mismatch (-want +got):\n%s", diff)
	}
}

func TestTraceJSONRoundTrip(t *testing.T) {
	original := Trace{
		Subject: "options",
		Reads:   []Read{{Key: "options_title", Found: true, Value: "Site"}, {Key: "options_footer", Err: "timeout"}},
		Drift:   []Drift{{Field: "blocks", Key: "options_blocks", Reason: DriftUnknownVariant, Ref: "ghost", Row: 2}},
	}
	payload, err := original.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	decoded, err := TraceFromJSON(payload)
	if err != nil {
		t.Fatalf("TraceFromJSON: %v", err)
	}
	if diff := cmp.Diff(original, decoded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	if _, err := TraceFromJSON([]byte("{")); err == nil {
		t.Fatalf("expected malformed payload error")
	}
	var nilTrace *Trace
	if nilTrace.Keys() != nil {
		t.Fatalf("nil trace must have no keys")
	}
}
