package fields

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Values is a resolved field tree. Keys keep the order in which the fields
// were declared. A value is a scalar, a nested *Values (groups, references)
// or a []*Values (repeater and variant rows).
type Values struct {
	keys []string
	data map[string]any
}

// NewValues returns an empty tree.
func NewValues() *Values {
	return &Values{data: map[string]any{}}
}

// Set stores value under name. Re-setting an existing name keeps its
// original position.
func (v *Values) Set(name string, value any) {
	if v.data == nil {
		v.data = map[string]any{}
	}
	if _, exists := v.data[name]; !exists {
		v.keys = append(v.keys, name)
	}
	v.data[name] = value
}

// Get returns the value stored under name.
func (v *Values) Get(name string) (any, bool) {
	if v == nil {
		return nil, false
	}
	value, ok := v.data[name]
	return value, ok
}

// Has reports whether name is present.
func (v *Values) Has(name string) bool {
	_, ok := v.Get(name)
	return ok
}

// Keys returns the field names in declaration order.
func (v *Values) Keys() []string {
	if v == nil || len(v.keys) == 0 {
		return nil
	}
	out := make([]string, len(v.keys))
	copy(out, v.keys)
	return out
}

// Len returns the number of fields.
func (v *Values) Len() int {
	if v == nil {
		return 0
	}
	return len(v.keys)
}

// Group returns the nested tree stored under name.
func (v *Values) Group(name string) (*Values, bool) {
	value, ok := v.Get(name)
	if !ok {
		return nil, false
	}
	group, ok := value.(*Values)
	return group, ok
}

// Rows returns the rows stored under name by a repeater or variants field.
func (v *Values) Rows(name string) ([]*Values, bool) {
	value, ok := v.Get(name)
	if !ok {
		return nil, false
	}
	rows, ok := value.([]*Values)
	return rows, ok
}

// Map converts the tree into plain maps and slices. Key order is lost.
func (v *Values) Map() map[string]any {
	if v == nil {
		return nil
	}
	out := make(map[string]any, len(v.keys))
	for _, key := range v.keys {
		out[key] = plainValue(v.data[key])
	}
	return out
}

func plainValue(value any) any {
	switch typed := value.(type) {
	case *Values:
		return typed.Map()
	case []*Values:
		rows := make([]any, len(typed))
		for i, row := range typed {
			rows[i] = row.Map()
		}
		return rows
	default:
		return value
	}
}

// MarshalJSON encodes the tree as a JSON object in declaration order.
func (v *Values) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range v.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(v.data[key])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the tree as a YAML mapping in declaration order.
func (v *Values) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if v == nil {
		return node, nil
	}
	for _, key := range v.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(v.data[key]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valueNode)
	}
	return node, nil
}
