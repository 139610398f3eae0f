package openapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	fields "github.com/goliatone/go-fields"
)

// Extension keys attached to every generated property.
const (
	extKind       = "x-fields-kind"
	extStorageKey = "x-fields-storage-key"
	extCondition  = "x-fields-condition"
	extFormat     = "x-fields-format"
)

type schemaNode struct {
	Type          string
	Nullable      bool
	Properties    map[string]*schemaNode
	Required      []string
	Items         *schemaNode
	OneOf         []*schemaNode
	Discriminator string
	Enum          []any
	extensions    map[string]any
}

func newObjectNode() *schemaNode {
	return &schemaNode{
		Type:       "object",
		Properties: map[string]*schemaNode{},
	}
}

func (n *schemaNode) extend(key string, value any) {
	if n.extensions == nil {
		n.extensions = map[string]any{}
	}
	n.extensions[key] = value
}

func (n *schemaNode) propertyNames() []string {
	names := make([]string, 0, len(n.Properties))
	for name := range n.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (n *schemaNode) baseMap() map[string]any {
	result := map[string]any{}
	if n.Type != "" {
		result["type"] = n.Type
	}
	if n.Nullable {
		result["nullable"] = true
	}
	if len(n.Enum) > 0 {
		result["enum"] = n.Enum
	}
	if len(n.Required) > 0 {
		required := append([]string{}, n.Required...)
		sort.Strings(required)
		result["required"] = required
	}
	if n.Discriminator != "" {
		result["discriminator"] = map[string]any{"propertyName": n.Discriminator}
	}
	for key, value := range n.extensions {
		result[key] = value
	}
	return result
}

// inlineOpenAPI renders the node with every descendant inlined.
func (n *schemaNode) inlineOpenAPI() map[string]any {
	result := n.baseMap()
	if n.Type == "object" {
		props := make(map[string]any, len(n.Properties))
		for _, name := range n.propertyNames() {
			props[name] = n.Properties[name].inlineOpenAPI()
		}
		result["properties"] = props
	}
	if n.Items != nil {
		result["items"] = n.Items.inlineOpenAPI()
	}
	if len(n.OneOf) > 0 {
		oneOf := make([]any, len(n.OneOf))
		for i, option := range n.OneOf {
			oneOf[i] = option.inlineOpenAPI()
		}
		result["oneOf"] = oneOf
	}
	return result
}

func (n *schemaNode) digest() string {
	data, err := json.Marshal(n.inlineOpenAPI())
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// shapeBuilder derives the shape of a resolved tree from field schemas. It
// follows the resolver's rules: groups and references become objects,
// repeaters arrays of objects, variants arrays of tagged rows.
type shapeBuilder struct {
	catalog    fields.Catalog
	typeMarker string
	maxDepth   int
	// expanding holds the reference fields currently being expanded so a
	// clone that reaches itself is cut at the first repeat.
	expanding map[*fields.FieldSchema]bool
}

func newShapeBuilder(catalog fields.Catalog, s settings) *shapeBuilder {
	return &shapeBuilder{
		catalog:    catalog,
		typeMarker: s.marker,
		maxDepth:   s.depth,
		expanding:  map[*fields.FieldSchema]bool{},
	}
}

func (b *shapeBuilder) object(list []*fields.FieldSchema, depth int) *schemaNode {
	node := newObjectNode()
	b.fill(node, list, depth)
	return node
}

func (b *shapeBuilder) fill(node *schemaNode, list []*fields.FieldSchema, depth int) {
	for _, field := range list {
		if field == nil || field.Name == "" {
			continue
		}
		child := b.field(field, depth)
		if child == nil {
			continue
		}
		node.Properties[field.Name] = child
	}
}

func (b *shapeBuilder) field(field *fields.FieldSchema, depth int) *schemaNode {
	var node *schemaNode
	switch field.Kind {
	case fields.KindScalar:
		node = &schemaNode{Nullable: true}
		if field.Format != "" {
			node.extend(extFormat, field.Format)
		}
	case fields.KindGroup:
		node = b.object(field.Children, depth)
	case fields.KindRepeater:
		node = &schemaNode{Type: "array", Items: b.object(field.Children, depth)}
	case fields.KindVariants:
		node = b.variants(field, depth)
	case fields.KindReference:
		node = b.reference(field, depth)
	}
	if node == nil {
		return nil
	}
	node.extend(extKind, field.Kind.String())
	if field.StorageKey != "" && field.StorageKey != field.Name {
		node.extend(extStorageKey, field.StorageKey)
	}
	if field.Condition != "" {
		node.extend(extCondition, field.Condition)
	}
	return node
}

func (b *shapeBuilder) variants(field *fields.FieldSchema, depth int) *schemaNode {
	items := &schemaNode{}
	for _, variant := range field.Variants {
		row := newObjectNode()
		row.Properties[b.typeMarker] = &schemaNode{Type: "string", Enum: []any{variant.Tag}}
		b.fill(row, variant.Fields, depth)
		row.Required = []string{b.typeMarker}
		items.OneOf = append(items.OneOf, row)
	}
	if len(items.OneOf) == 0 {
		items = newObjectNode()
	} else {
		items.Discriminator = b.typeMarker
	}
	return &schemaNode{Type: "array", Items: items}
}

func (b *shapeBuilder) reference(field *fields.FieldSchema, depth int) *schemaNode {
	if b.expanding[field] || depth >= b.maxDepth {
		return nil
	}
	var spliced []*fields.FieldSchema
	for _, ref := range field.References {
		if found, ok := b.catalog.Find(ref); ok {
			spliced = append(spliced, found...)
		}
	}
	if len(spliced) == 0 {
		return nil
	}
	b.expanding[field] = true
	defer delete(b.expanding, field)
	return b.object(spliced, depth+1)
}
