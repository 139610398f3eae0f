package fields

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// groupDocument is the on-disk layout of a field group file.
type groupDocument struct {
	Groups []Group `yaml:"groups"`
}

// ParseGroups decodes field groups from a YAML (or JSON) document of the form
//
//	groups:
//	  - key: group_page
//	    fields:
//	      - name: title
//	      - name: items
//	        kind: repeater
//	        children:
//	          - name: label
//
// Kinds are given by name (see ParseKind). Empty documents yield no groups.
func ParseGroups(data []byte) ([]Group, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var doc groupDocument
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("fields: parse groups: %w", err)
	}
	return doc.Groups, nil
}

// LoadGroups reads and parses the field group file at path.
func LoadGroups(path string) ([]Group, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fields: load groups %q: %w", path, err)
	}
	groups, err := ParseGroups(data)
	if err != nil {
		return nil, fmt.Errorf("fields: load groups %q: %w", path, err)
	}
	return groups, nil
}

// FindGroup returns the group registered under key.
func FindGroup(groups []Group, key string) (Group, bool) {
	for _, group := range groups {
		if group.Key == key {
			return group, true
		}
	}
	return Group{}, false
}
