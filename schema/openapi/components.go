package openapi

import (
	"fmt"
	"regexp"
	"strings"
)

const componentRefPrefix = "#/components/schemas/"

// componentRegistry publishes object shapes that occur more than once, such
// as a group cloned into several places, as shared components. The first
// occurrence stays inline; every later one becomes a $ref.
type componentRegistry struct {
	byDigest map[string]*component
	taken    map[string]bool
}

type component struct {
	name   string
	schema map[string]any
	seen   int
	forced bool
}

func (c *component) shared() bool {
	return c.forced || c.seen > 1
}

func newComponentRegistry() *componentRegistry {
	return &componentRegistry{byDigest: map[string]*component{}, taken: map[string]bool{}}
}

// register records node under hint and returns a $ref once the shape is
// shared, or "" while it should stay inline.
func (r *componentRegistry) register(hint string, node *schemaNode) string {
	return r.record(hint, node, false)
}

// forceReference publishes node as a component on first sight.
func (r *componentRegistry) forceReference(name string, node *schemaNode) string {
	return r.record(name, node, true)
}

func (r *componentRegistry) record(hint string, node *schemaNode, forced bool) string {
	if node == nil {
		return ""
	}
	digest := node.digest()
	if digest == "" {
		return ""
	}
	c, ok := r.byDigest[digest]
	if !ok {
		c = &component{name: r.claim(hint)}
		r.byDigest[digest] = c
	}
	c.seen++
	c.forced = c.forced || forced
	if !c.shared() {
		return ""
	}
	if c.schema == nil {
		c.schema = node.inlineOpenAPI()
	}
	return componentRefPrefix + c.name
}

// claim reserves a component name derived from hint, numbering repeats from 2.
func (r *componentRegistry) claim(hint string) string {
	base := componentName(hint)
	if base == "" {
		base = "Fields"
	}
	name := base
	for n := 2; r.taken[name]; n++ {
		name = fmt.Sprintf("%s%d", base, n)
	}
	r.taken[name] = true
	return name
}

func (r *componentRegistry) componentsMap() map[string]any {
	out := map[string]any{}
	for _, c := range r.byDigest {
		if c.shared() {
			out[c.name] = c.schema
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

var componentSeparator = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// componentName turns a field path hint such as "hero_banner.item" into
// "HeroBannerItem".
func componentName(hint string) string {
	var b strings.Builder
	for _, part := range componentSeparator.Split(hint, -1) {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	name := b.String()
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "F" + name
	}
	return name
}

// combineComponentName joins the non-blank parts of a component path.
func combineComponentName(parts ...string) string {
	kept := parts[:0:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, "_")
}
