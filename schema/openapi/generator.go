package openapi

import (
	"encoding/json"

	fields "github.com/goliatone/go-fields"
)

// Generator describes the values a resolver produces for a field list as an
// OpenAPI document with a single read operation. A Generator holds only
// configuration and is safe for concurrent use.
type Generator struct {
	settings settings
}

// NewGenerator constructs a generator. Without options the document serves
// GET /fields/{subject} with a 200 application/json response.
func NewGenerator(opts ...GeneratorOption) *Generator {
	s := defaultSettings()
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return &Generator{settings: s}
}

// Generate builds the document for roots, expanding reference fields from
// catalog. References that catalog cannot satisfy are left out, matching
// what the resolver returns for them.
func (g *Generator) Generate(roots []*fields.FieldSchema, catalog fields.Catalog) (map[string]any, error) {
	root := newShapeBuilder(catalog, g.settings).object(roots, 0)
	doc := &document{settings: g.settings, registry: newComponentRegistry()}
	return doc.render(root)
}

// GenerateJSON is Generate encoded as indented JSON.
func (g *Generator) GenerateJSON(roots []*fields.FieldSchema, catalog fields.Catalog) ([]byte, error) {
	document, err := g.Generate(roots, catalog)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(document, "", "  ")
}

// Generate builds a document with a one-off generator.
func Generate(roots []*fields.FieldSchema, catalog fields.Catalog, opts ...GeneratorOption) (map[string]any, error) {
	return NewGenerator(opts...).Generate(roots, catalog)
}
