package fields

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// Resolver turns field schemas into resolved value trees for a subject. A
// Resolver holds only configuration, so one instance can serve concurrent
// resolutions.
type Resolver struct {
	source ValueSource
	cfg    config
}

// New constructs a Resolver reading from source.
func New(source ValueSource, opts ...Option) *Resolver {
	cfg := applyOptions(opts)
	if cfg.evaluator == nil {
		cfg.evaluator = NewExprEvaluator(EvaluatorCache(cfg.programCache), EvaluatorFunctions(cfg.functions))
	}
	return &Resolver{source: source, cfg: cfg}
}

// ResolveAll resolves roots for subject with a default Resolver. See
// (*Resolver).ResolveAll.
func ResolveAll(ctx context.Context, source ValueSource, subject string, roots []*FieldSchema, known ...Group) (*Values, error) {
	return New(source).ResolveAll(ctx, subject, roots, known...)
}

// ResolveAll resolves roots for subject. Reference fields are looked up in a
// catalog made of roots followed by known. The returned tree is always
// complete; a non-nil error joins the *ReadError of every value source read
// that failed, each of which was treated as absent.
func (r *Resolver) ResolveAll(ctx context.Context, subject string, roots []*FieldSchema, known ...Group) (*Values, error) {
	values, _, err := r.ResolveWithTrace(ctx, subject, roots, known...)
	return values, err
}

// ResolveWithTrace is ResolveAll that also reports every read and every
// drift record of the pass.
func (r *Resolver) ResolveWithTrace(ctx context.Context, subject string, roots []*FieldSchema, known ...Group) (*Values, *Trace, error) {
	catalog := NewCatalog(roots, known...)
	values, trace, err := r.run(ctx, subject, roots, "", catalog)
	if trace != nil {
		r.emitActivity(ctx, subject, values, trace)
	}
	return values, trace, err
}

// Resolve resolves one field list under an explicit key prefix, searching
// catalog for references. ResolveAll is Resolve with an empty prefix and a
// catalog seeded with the roots.
func (r *Resolver) Resolve(ctx context.Context, subject string, fields []*FieldSchema, prefix string, catalog Catalog) (*Values, error) {
	values, _, err := r.run(ctx, subject, fields, prefix, catalog)
	return values, err
}

func (r *Resolver) run(ctx context.Context, subject string, fields []*FieldSchema, prefix string, catalog Catalog) (*Values, *Trace, error) {
	if r == nil || r.source == nil {
		return NewValues(), nil, ErrNoSource
	}
	if ctx == nil {
		ctx = context.Background()
	}
	p := &pass{
		resolver: r,
		ctx:      ctx,
		subject:  subject,
		catalog:  catalog,
		trace:    &Trace{Subject: subject},
	}
	values := p.resolve(fields, prefix, 0)
	return values, p.trace, errors.Join(p.errs...)
}

// pass carries the read-only inputs of one resolution together with the
// diagnostics it collects. The recursion itself only depends on the
// (fields, prefix) pair it is handed.
type pass struct {
	resolver *Resolver
	ctx      context.Context
	subject  string
	catalog  Catalog
	trace    *Trace
	errs     []error
}

func (p *pass) resolve(fields []*FieldSchema, prefix string, depth int) *Values {
	out := NewValues()
	for _, field := range fields {
		if field == nil || field.Name == "" {
			continue
		}
		key := prefix + field.storageKey()

		var (
			value any
			ok    bool
		)
		switch field.Kind {
		case KindScalar:
			value, ok = p.scalar(field, key, out)
		case KindGroup:
			value, ok = p.resolve(field.Children, key+"_", depth), true
		case KindRepeater:
			value, ok = p.repeater(field, key, depth)
		case KindVariants:
			value, ok = p.variants(field, key, depth)
		case KindReference:
			value, ok = p.reference(field, prefix, key, depth)
		default:
			continue
		}
		if !ok {
			continue
		}
		if !p.visible(field, key, value, out) {
			continue
		}
		out.Set(field.Name, value)
	}
	return out
}

// scalar stores whatever was read, nil when absent.
func (p *pass) scalar(field *FieldSchema, key string, siblings *Values) (any, bool) {
	value, _ := p.read(key)
	if field.Format == "" {
		return value, true
	}
	formatted, err := p.resolver.evaluateRule(RuleContext{
		Subject:  p.subject,
		Field:    field.Name,
		Key:      key,
		Value:    value,
		Siblings: siblings,
	}, field.Format)
	if err != nil {
		return value, true
	}
	return formatted, true
}

func (p *pass) repeater(field *FieldSchema, key string, depth int) (any, bool) {
	raw, found := p.read(key)
	if !found {
		return nil, false
	}
	count := rowCount(raw)
	if count == 0 {
		return nil, false
	}
	rows := newRows(count)
	for i := 0; i < count; i++ {
		rows = append(rows, p.resolve(field.Children, rowPrefix(key, i), depth))
	}
	return rows, true
}

func (p *pass) variants(field *FieldSchema, key string, depth int) (any, bool) {
	raw, found := p.read(key)
	if !found {
		return nil, false
	}
	tags, ok := rowTags(raw)
	if !ok || len(tags) == 0 {
		return nil, false
	}
	marker := p.resolver.cfg.typeMarker
	rows := make([]*Values, 0, len(tags))
	for i, tag := range tags {
		fields, known := field.variant(tag)
		if !known {
			p.drift(field, key, DriftUnknownVariant, tag, i)
			continue
		}
		row := NewValues()
		row.Set(marker, tag)
		resolved := p.resolve(fields, rowPrefix(key, i), depth)
		for _, name := range resolved.Keys() {
			value, _ := resolved.Get(name)
			row.Set(name, value)
		}
		rows = append(rows, row)
	}
	return rows, true
}

// reference splices the fields every reference key names and resolves them
// under the current prefix, namespaced by the field name when OwnNamespace
// is set. depth counts the references already being expanded; only they can
// cycle, so only they are bounded.
func (p *pass) reference(field *FieldSchema, prefix, key string, depth int) (any, bool) {
	if depth >= p.resolver.cfg.maxDepth {
		p.drift(field, key, DriftDepthExceeded, "", -1)
		return nil, false
	}
	var spliced []*FieldSchema
	for _, ref := range field.References {
		found, ok := p.catalog.Find(ref)
		if !ok {
			p.drift(field, key, DriftMissingReference, ref, -1)
			continue
		}
		spliced = append(spliced, found...)
	}
	if len(spliced) == 0 {
		return nil, false
	}
	refPrefix := prefix
	if field.OwnNamespace {
		refPrefix = prefix + field.Name + "_"
	}
	return p.resolve(spliced, refPrefix, depth+1), true
}

// visible applies the field's Condition rule. Rules that fail to evaluate or
// do not produce a boolean leave the field visible.
func (p *pass) visible(field *FieldSchema, key string, value any, siblings *Values) bool {
	if field.Condition == "" {
		return true
	}
	result, err := p.resolver.evaluateRule(RuleContext{
		Subject:  p.subject,
		Field:    field.Name,
		Key:      key,
		Value:    value,
		Siblings: siblings,
	}, field.Condition)
	if err != nil {
		return true
	}
	show, ok := result.(bool)
	if !ok {
		p.resolver.cfg.logger.Log(LogEvent{
			Level:   LogLevelWarn,
			Subject: p.subject,
			Field:   field.Name,
			Key:     key,
			Message: fmt.Sprintf("condition returned %T, want bool", result),
		})
		return true
	}
	return show
}

func (p *pass) read(key string) (any, bool) {
	value, found, err := p.resolver.source.Read(p.ctx, p.subject, key)
	if err != nil {
		readErr := &ReadError{Subject: p.subject, Key: key, Err: err}
		p.errs = append(p.errs, readErr)
		p.trace.Reads = append(p.trace.Reads, Read{Key: key, Err: err.Error()})
		p.resolver.cfg.logger.Log(LogEvent{
			Level:   LogLevelError,
			Subject: p.subject,
			Key:     key,
			Message: "value source read failed",
			Err:     readErr,
		})
		return nil, false
	}
	if !found {
		value = nil
	}
	p.trace.Reads = append(p.trace.Reads, Read{Key: key, Found: found, Value: value})
	return value, found
}

func (p *pass) drift(field *FieldSchema, key string, reason DriftReason, ref string, row int) {
	p.trace.Drift = append(p.trace.Drift, Drift{
		Field:  field.Name,
		Key:    key,
		Reason: reason,
		Ref:    ref,
		Row:    row,
	})
	message := string(reason)
	if ref != "" {
		message = fmt.Sprintf("%s %q", reason, ref)
	}
	p.resolver.cfg.logger.Log(LogEvent{
		Level:   LogLevelDebug,
		Subject: p.subject,
		Field:   field.Name,
		Key:     key,
		Message: message,
	})
}

// maxRowPrealloc caps the capacity reserved from a stored row count, which
// may be corrupt; larger repeaters grow by append.
const maxRowPrealloc = 64

func newRows(count int) []*Values {
	return make([]*Values, 0, min(count, maxRowPrealloc))
}

func rowPrefix(key string, row int) string {
	return key + "_" + strconv.Itoa(row) + "_"
}
