package fields

import (
	"fmt"
	"reflect"
)

// builtinFunctions are available to every rule unless a registered function
// of the same name replaces them.
//
//	blank(v)          true for nil, "", and empty lists or groups
//	rows(v)           row count of a repeater or variants value, or of a raw count
//	coalesce(a, ...)  first argument that is not blank
func builtinFunctions() *FunctionRegistry {
	r := NewFunctionRegistry()
	_ = r.Register("blank", func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("blank takes one argument, got %d", len(args))
		}
		return isBlank(args[0]), nil
	})
	_ = r.Register("rows", func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("rows takes one argument, got %d", len(args))
		}
		return countRows(args[0]), nil
	})
	_ = r.Register("coalesce", func(args ...any) (any, error) {
		for _, arg := range args {
			if !isBlank(arg) {
				return arg, nil
			}
		}
		return nil, nil
	})
	return r
}

func isBlank(value any) bool {
	if value == nil {
		return true
	}
	switch typed := value.(type) {
	case *Values:
		return typed.Len() == 0
	case []*Values:
		return len(typed) == 0
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// countRows accepts resolved rows as well as the raw counts stores keep for
// repeaters.
func countRows(value any) int {
	switch typed := value.(type) {
	case []*Values:
		return len(typed)
	case []any:
		return len(typed)
	case []map[string]any:
		return len(typed)
	default:
		return rowCount(value)
	}
}
