package fields

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type decodedPage struct {
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle"`
	Items    []decodedItem   `json:"items"`
	Sections decodedSections `json:"sections"`
	SEO      struct {
		Description string `json:"description"`
		NoIndex     bool   `json:"noindex"`
	} `json:"seo"`
	Banner struct {
		CTA decodedCTA `json:"cta"`
	} `json:"banner"`
}

type decodedItem struct {
	Label string `json:"label"`
}

type decodedCTA struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

type decodedSections struct {
	Hero []struct {
		Heading string     `json:"heading"`
		CTA     decodedCTA `json:"cta"`
	} `json:"hero"`
	Text []struct {
		Body string `json:"body"`
	} `json:"text"`
}

func TestResolveIntoGroupsVariants(t *testing.T) {
	roots, known := loadPageGroups(t)
	resolver := New(newMapSource(pageValues()))

	page, err := ResolveInto(context.Background(), resolver, "post_12", roots, known,
		DecodeVariantsByType[decodedPage]("sections", ""),
		DecodeDefaults[decodedPage](map[string]any{"subtitle": "none"}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if page.Title != "Launch" || page.Subtitle != "none" {
		t.Fatalf("unexpected title fields %q %q", page.Title, page.Subtitle)
	}
	if diff := cmp.Diff([]decodedItem{{Label: "A"}, {Label: "B"}}, page.Items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if len(page.Sections.Hero) != 1 || page.Sections.Hero[0].CTA.URL != "/start" {
		t.Fatalf("unexpected hero rows %+v", page.Sections.Hero)
	}
	if len(page.Sections.Text) != 1 || page.Sections.Text[0].Body != "Body!" {
		t.Fatalf("unexpected text rows %+v", page.Sections.Text)
	}
	if page.Banner.CTA.Text != "Banner" || page.SEO.Description != "About launch" {
		t.Fatalf("unexpected nested groups %+v", page)
	}
}

func TestResolveIntoStrictReportsSubject(t *testing.T) {
	type titleOnly struct {
		Title string `json:"title"`
	}
	source := newMapSource(map[string]any{"title": "x", "extra": "y"})
	roots := []*FieldSchema{scalar("title"), scalar("extra")}

	_, err := ResolveInto(context.Background(), New(source), "post_3", roots, nil, DecodeStrict[titleOnly]())
	if err == nil {
		t.Fatalf("expected unknown field error")
	}
	want := `hydrate: decode for subject "post_3": json: unknown field "extra"`
	if err.Error() != want {
		t.Fatalf("error = %q, want %q", err.Error(), want)
	}
}

func TestResolveIntoKeepsReadErrors(t *testing.T) {
	type titleOnly struct {
		Title string `json:"title"`
	}
	boom := errors.New("store offline")
	source := newMapSource(map[string]any{"title": "kept"})
	source.fail = map[string]error{"subtitle": boom}
	roots := []*FieldSchema{scalar("title"), scalar("subtitle")}

	page, err := ResolveInto[titleOnly](context.Background(), New(source), "post_1", roots, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected read error to surface, got %v", err)
	}
	if page.Title != "kept" {
		t.Fatalf("expected decoded value alongside read error, got %+v", page)
	}
}

func TestResolveIntoWithoutSource(t *testing.T) {
	_, err := ResolveInto[map[string]any](context.Background(), New(nil), "post_1", nil, nil)
	if !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
}

func TestDecodeValuesPostHook(t *testing.T) {
	values := NewValues()
	values.Set("title", "hello")

	type titled struct {
		Title string `json:"title"`
		Slug  string `json:"-"`
	}
	got, err := DecodeValues("post_5", values, DecodeWithPostHook(func(ctx DecodeContext, out *titled) error {
		out.Slug = ctx.Subject + "/" + out.Title
		return nil
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Slug != "post_5/hello" {
		t.Fatalf("unexpected slug %q", got.Slug)
	}
}
