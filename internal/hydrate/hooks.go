package hydrate

import "fmt"

// GroupRowsByType replaces the row list stored under field with an object
// keyed by each row's marker value. Rows keep their order within a bucket and
// rows without a string marker are dropped. Payloads without field are left
// untouched.
func GroupRowsByType(field, marker string) PreHook {
	return func(_ Context, payload map[string]any) (map[string]any, error) {
		raw, ok := payload[field]
		if !ok || raw == nil {
			return payload, nil
		}
		rows, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("field %q is %T, want a row list", field, raw)
		}
		grouped := map[string]any{}
		for _, item := range rows {
			row, ok := item.(map[string]any)
			if !ok {
				continue
			}
			tag, ok := row[marker].(string)
			if !ok || tag == "" {
				continue
			}
			list, _ := grouped[tag].([]any)
			grouped[tag] = append(list, row)
		}
		payload[field] = grouped
		return payload, nil
	}
}

// FillDefaults sets top-level fields that are absent or nil to the value in
// defaults. Scalars the resolver found nothing for come back as nil, so this
// is where fallbacks for them belong.
func FillDefaults(defaults map[string]any) PreHook {
	return func(_ Context, payload map[string]any) (map[string]any, error) {
		for name, fallback := range defaults {
			if current, ok := payload[name]; !ok || current == nil {
				payload[name] = deepCopy(fallback)
			}
		}
		return payload, nil
	}
}
