package fields

// Catalog is the ordered search space for reference fields. Entry zero is the
// root field list of the current resolution.
type Catalog struct {
	groups []Group
}

// NewCatalog builds a catalog whose first group holds roots, followed by the
// known groups in the order given.
func NewCatalog(roots []*FieldSchema, known ...Group) Catalog {
	groups := make([]Group, 0, len(known)+1)
	groups = append(groups, Group{Fields: roots})
	groups = append(groups, known...)
	return Catalog{groups: groups}
}

// Groups returns the catalog entries in search order.
func (c Catalog) Groups() []Group {
	out := make([]Group, len(c.groups))
	copy(out, c.groups)
	return out
}

// Find locates the fields a reference key names. A matching group yields its
// field list, a matching field yields itself. The search is depth-first in
// definition order and the first match wins; ok is false when nothing in the
// catalog carries key.
func (c Catalog) Find(key string) (found []*FieldSchema, ok bool) {
	if key == "" {
		return nil, false
	}
	for _, group := range c.groups {
		if group.Key == key {
			return group.Fields, true
		}
		if found, ok := findField(group.Fields, key); ok {
			return found, true
		}
	}
	return nil, false
}

func findField(candidates []*FieldSchema, key string) ([]*FieldSchema, bool) {
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		if candidate.Key == key {
			return []*FieldSchema{candidate}, true
		}
		for _, list := range candidate.childLists() {
			if found, ok := findField(list, key); ok {
				return found, true
			}
		}
	}
	return nil, false
}
