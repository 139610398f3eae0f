package source

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fixtureDocument maps subjects to their bare storage keys.
//
//	subjects:
//	  post_12:
//	    title: Hello
//	    items: 2
//	    items_0_label: A
//	  options:
//	    site_name: Example
type fixtureDocument struct {
	Subjects map[string]map[string]any `yaml:"subjects"`
}

// ParseYAML builds a MemoryStore from a fixture document.
func ParseYAML(data []byte) (*MemoryStore, error) {
	store := NewMemoryStore()
	if len(bytes.TrimSpace(data)) == 0 {
		return store, nil
	}
	var doc fixtureDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("source: parse fixture: %w", err)
	}
	for subject, values := range doc.Subjects {
		if err := store.SetAll(subject, values); err != nil {
			return nil, fmt.Errorf("source: parse fixture: %w", err)
		}
	}
	return store, nil
}

// LoadYAML reads a fixture document from path.
func LoadYAML(path string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: load fixture %q: %w", path, err)
	}
	return ParseYAML(data)
}
