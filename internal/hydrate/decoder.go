// Package hydrate decodes resolved field trees into typed structs through
// their JSON shape, with hooks around the decode step.
package hydrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNilPayload is returned when there is no tree to decode.
var ErrNilPayload = errors.New("payload is nil")

// Context identifies the resolved field tree being decoded.
type Context struct {
	// Subject is the subject identifier the values were resolved for.
	Subject string
	// Group is the catalog group key the root fields came from, if any.
	Group string
}

// Stage names the step of a decode that failed.
type Stage string

const (
	StageInput    Stage = "input"
	StagePreHook  Stage = "pre-hook"
	StageDecode   Stage = "decode"
	StagePostHook Stage = "post-hook"
)

// DecodeError reports which stage of decoding a subject's tree failed.
type DecodeError struct {
	Subject string
	Stage   Stage
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("hydrate: %s for subject %q: %v", e.Stage, e.Subject, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// PreHook reshapes the plain tree before decoding. Returning a nil map keeps
// the current tree.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook adjusts or validates the decoded value.
type PostHook[T any] func(Context, *T) error

// CustomDecoder replaces the JSON decode step.
type CustomDecoder[T any] func(Context, map[string]any) (T, error)

// DecoderOption configures a Decoder.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts resolved field trees into values of type T. A Decoder is
// immutable once built and safe for concurrent use.
type Decoder[T any] struct {
	preHooks  []PreHook
	postHooks []PostHook[T]
	useNumber bool
	strict    bool
	custom    CustomDecoder[T]
}

// WithPreHook appends hook to the pre-decode chain.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.preHooks = append(d.preHooks, hook)
		}
	}
}

// WithPostHook appends hook to the post-decode chain.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.postHooks = append(d.postHooks, hook)
		}
	}
}

// WithUseNumber decodes numbers into json.Number for interface targets.
func WithUseNumber[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.useNumber = true
	}
}

// WithDisallowUnknownFields fails when the tree holds fields T lacks.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.strict = true
	}
}

// WithCustomDecoder replaces the JSON decode step.
func WithCustomDecoder[T any](decoder CustomDecoder[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.custom = decoder
	}
}

// NewDecoder builds a Decoder applying opts in order.
func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode runs the pre-hooks on a copy of payload, decodes the result into T
// and runs the post-hooks. The caller's payload is never modified.
func (d *Decoder[T]) Decode(ctx Context, payload map[string]any) (T, error) {
	var zero T
	fail := func(stage Stage, err error) (T, error) {
		return zero, &DecodeError{Subject: ctx.Subject, Stage: stage, Err: err}
	}

	if payload == nil {
		return fail(StageInput, ErrNilPayload)
	}

	current := payload
	if len(d.preHooks) > 0 {
		current = deepCopy(payload).(map[string]any)
	}
	for _, hook := range d.preHooks {
		next, err := hook(ctx, current)
		if err != nil {
			return fail(StagePreHook, err)
		}
		if next != nil {
			current = next
		}
	}

	result, err := d.decode(ctx, current)
	if err != nil {
		return fail(StageDecode, err)
	}

	for _, hook := range d.postHooks {
		if err := hook(ctx, &result); err != nil {
			return fail(StagePostHook, err)
		}
	}
	return result, nil
}

func (d *Decoder[T]) decode(ctx Context, payload map[string]any) (T, error) {
	if d.custom != nil {
		return d.custom(ctx, payload)
	}
	var result T
	buffer, err := json.Marshal(payload)
	if err != nil {
		return result, err
	}
	decoder := json.NewDecoder(bytes.NewReader(buffer))
	if d.useNumber {
		decoder.UseNumber()
	}
	if d.strict {
		decoder.DisallowUnknownFields()
	}
	err = decoder.Decode(&result)
	return result, err
}

// deepCopy copies the maps and slices of a plain tree. Leaves are shared.
func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, child := range typed {
			out[key] = deepCopy(child)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, child := range typed {
			out[i] = deepCopy(child)
		}
		return out
	default:
		return value
	}
}
