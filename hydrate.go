package fields

import (
	"context"
	"errors"

	"github.com/goliatone/go-fields/internal/hydrate"
)

// DecodeOption configures how ResolveInto decodes a resolved tree.
type DecodeOption[T any] = hydrate.DecoderOption[T]

// ResolveInto resolves roots for subject and decodes the result into T using
// the values' JSON shape. Read errors are returned alongside the decoded
// value, as with ResolveAll; a decode failure returns the zero T.
func ResolveInto[T any](ctx context.Context, r *Resolver, subject string, roots []*FieldSchema, known []Group, opts ...DecodeOption[T]) (T, error) {
	var zero T
	values, readErr := r.ResolveAll(ctx, subject, roots, known...)
	if errors.Is(readErr, ErrNoSource) {
		return zero, readErr
	}
	decoded, err := DecodeValues(subject, values, opts...)
	if err != nil {
		return zero, errors.Join(err, readErr)
	}
	return decoded, readErr
}

// DecodeValues converts an already resolved tree into T.
func DecodeValues[T any](subject string, values *Values, opts ...DecodeOption[T]) (T, error) {
	payload := values.Map()
	if payload == nil {
		payload = map[string]any{}
	}
	return hydrate.NewDecoder[T](opts...).Decode(hydrate.Context{Subject: subject}, payload)
}

// DecodeContext identifies the tree handed to decode hooks.
type DecodeContext = hydrate.Context

// DecodeWithPreHook reshapes the plain tree before it is decoded.
func DecodeWithPreHook[T any](hook func(DecodeContext, map[string]any) (map[string]any, error)) DecodeOption[T] {
	return hydrate.WithPreHook[T](hook)
}

// DecodeWithPostHook adjusts or validates the decoded value.
func DecodeWithPostHook[T any](hook func(DecodeContext, *T) error) DecodeOption[T] {
	return hydrate.WithPostHook[T](hook)
}

// DecodeUseNumber keeps numbers as json.Number while decoding.
func DecodeUseNumber[T any]() DecodeOption[T] {
	return hydrate.WithUseNumber[T]()
}

// DecodeStrict fails when the tree holds fields T does not declare.
func DecodeStrict[T any]() DecodeOption[T] {
	return hydrate.WithDisallowUnknownFields[T]()
}

// DecodeVariantsByType buckets the variant rows stored under field by their
// type marker before decoding, so T can declare one slice per variant.
func DecodeVariantsByType[T any](field, marker string) DecodeOption[T] {
	if marker == "" {
		marker = DefaultTypeMarker
	}
	return hydrate.WithPreHook[T](hydrate.GroupRowsByType(field, marker))
}

// DecodeDefaults fills top-level fields that resolved to nothing before the
// tree is decoded.
func DecodeDefaults[T any](defaults map[string]any) DecodeOption[T] {
	return hydrate.WithPreHook[T](hydrate.FillDefaults(defaults))
}
