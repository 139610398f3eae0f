package fields

import (
	"fmt"
	"strings"
)

// Kind identifies how a field resolves its value.
type Kind int

const (
	// KindScalar stores the raw value read for the field.
	KindScalar Kind = iota
	// KindGroup nests its children under the field name.
	KindGroup
	// KindRepeater repeats its children once per stored row.
	KindRepeater
	// KindVariants selects one variant field list per stored row.
	KindVariants
	// KindReference splices in fields found elsewhere in the catalog.
	KindReference
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindGroup:
		return "group"
	case KindRepeater:
		return "repeater"
	case KindVariants:
		return "variants"
	case KindReference:
		return "reference"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts a textual kind into a Kind. The aliases accepted match
// the names field authoring tools commonly use for the same shapes.
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "scalar", "text", "value":
		return KindScalar, nil
	case "group":
		return KindGroup, nil
	case "repeater":
		return KindRepeater, nil
	case "variants", "variant", "flexible", "flexible_content":
		return KindVariants, nil
	case "reference", "clone":
		return KindReference, nil
	default:
		return KindScalar, fmt.Errorf("fields: unknown kind %q", value)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// FieldSchema describes one field. Schemas are read-only input: the resolver
// never mutates them and carries key prefixes as recursion parameters.
type FieldSchema struct {
	// Key is the stable identifier references use to find this field.
	Key string `json:"key,omitempty" yaml:"key,omitempty"`
	// Name is the output key. An empty name makes the schema inert.
	Name string `json:"name" yaml:"name"`
	// StorageKey is the base key used for reads; defaults to Name.
	StorageKey string `json:"storage_key,omitempty" yaml:"storage_key,omitempty"`
	Kind       Kind   `json:"kind" yaml:"kind"`

	Children     []*FieldSchema `json:"children,omitempty" yaml:"children,omitempty"`
	Variants     []Variant      `json:"variants,omitempty" yaml:"variants,omitempty"`
	References   []string       `json:"references,omitempty" yaml:"references,omitempty"`
	OwnNamespace bool           `json:"own_namespace,omitempty" yaml:"own_namespace,omitempty"`

	// Condition is a rule expression; when it evaluates false the field is
	// left out of the result.
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`
	// Format is a rule expression whose result replaces a scalar value.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// Variant is one named alternative of a variants field.
type Variant struct {
	Tag    string         `json:"tag" yaml:"tag"`
	Fields []*FieldSchema `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Group is a named, top-level list of fields. Groups make up the catalog
// searched by reference fields.
type Group struct {
	Key    string         `json:"key,omitempty" yaml:"key,omitempty"`
	Title  string         `json:"title,omitempty" yaml:"title,omitempty"`
	Fields []*FieldSchema `json:"fields" yaml:"fields"`
}

func (f *FieldSchema) storageKey() string {
	if f.StorageKey != "" {
		return f.StorageKey
	}
	return f.Name
}

// variant returns the field list registered for tag.
func (f *FieldSchema) variant(tag string) ([]*FieldSchema, bool) {
	for _, v := range f.Variants {
		if v.Tag == tag {
			return v.Fields, true
		}
	}
	return nil, false
}

// childLists yields every nested field list a schema search may descend into,
// in definition order. Reference fields yield nothing so that searches never
// follow clones into themselves.
func (f *FieldSchema) childLists() [][]*FieldSchema {
	switch f.Kind {
	case KindGroup, KindRepeater:
		if len(f.Children) == 0 {
			return nil
		}
		return [][]*FieldSchema{f.Children}
	case KindVariants:
		lists := make([][]*FieldSchema, 0, len(f.Variants))
		for _, v := range f.Variants {
			lists = append(lists, v.Fields)
		}
		return lists
	default:
		return nil
	}
}
