package fields

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ValueSource reads the raw value stored for one storage key of one subject.
// found is false when nothing is stored. Implementations must be read-only:
// the resolver may call Read any number of times for the same key.
type ValueSource interface {
	Read(ctx context.Context, subject, key string) (value any, found bool, err error)
}

// SourceFunc adapts a function to ValueSource.
type SourceFunc func(ctx context.Context, subject, key string) (any, bool, error)

// Read implements ValueSource.
func (f SourceFunc) Read(ctx context.Context, subject, key string) (any, bool, error) {
	if f == nil {
		return nil, false, nil
	}
	return f(ctx, subject, key)
}

// rowCount interprets a raw repeater value. Stores commonly persist counts as
// strings, and decoders may hand back floats or json.Number; anything that is
// not a whole number, or is not positive, counts as zero rows.
func rowCount(raw any) int {
	switch n := raw.(type) {
	case int:
		return positive(int64(n))
	case int8:
		return positive(int64(n))
	case int16:
		return positive(int64(n))
	case int32:
		return positive(int64(n))
	case int64:
		return positive(n)
	case uint:
		return positive(int64(n))
	case uint8:
		return positive(int64(n))
	case uint16:
		return positive(int64(n))
	case uint32:
		return positive(int64(n))
	case uint64:
		if n > math.MaxInt32 {
			return 0
		}
		return int(n)
	case float32:
		return wholeFloat(float64(n))
	case float64:
		return wholeFloat(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return positive(i)
		}
		return 0
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0
		}
		return positive(i)
	default:
		return 0
	}
}

func positive(n int64) int {
	if n <= 0 || n > math.MaxInt32 {
		return 0
	}
	return int(n)
}

func wholeFloat(f float64) int {
	if f != math.Trunc(f) {
		return 0
	}
	return positive(int64(f))
}

// rowTags interprets a raw variants value as one tag per row. ok is false when
// the value is not a tag list. Entries that are not strings keep their slot
// as an empty tag so the row indexes of later rows are preserved.
func rowTags(raw any) (tags []string, ok bool) {
	switch list := raw.(type) {
	case []string:
		return list, true
	case []any:
		tags = make([]string, len(list))
		for i, item := range list {
			if tag, isString := item.(string); isString {
				tags[i] = tag
			}
		}
		return tags, true
	default:
		return nil, false
	}
}
