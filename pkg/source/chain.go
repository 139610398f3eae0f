package source

import (
	"context"
	"fmt"

	fields "github.com/goliatone/go-fields"
)

// Chain reads from each source in order and returns the first value found.
// A source error stops the chain so failures are never masked by a later
// source.
type Chain []fields.ValueSource

// Read implements fields.ValueSource.
func (c Chain) Read(ctx context.Context, subject, key string) (any, bool, error) {
	for i, src := range c {
		if src == nil {
			continue
		}
		value, found, err := src.Read(ctx, subject, key)
		if err != nil {
			return nil, false, fmt.Errorf("source: chain[%d]: %w", i, err)
		}
		if found {
			return value, true, nil
		}
	}
	return nil, false, nil
}

// Pinned reads every key of src for a fixed subject, whatever subject the
// resolver asks for. Chaining a record source with Pinned("options", src)
// falls back to global options.
func Pinned(subject string, src fields.ValueSource) fields.ValueSource {
	return fields.SourceFunc(func(ctx context.Context, _ string, key string) (any, bool, error) {
		if src == nil {
			return nil, false, nil
		}
		return src.Read(ctx, subject, key)
	})
}
