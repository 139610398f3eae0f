package openapi

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// document assembles the OpenAPI document around a root shape. Object shapes
// seen more than once become components.
type document struct {
	settings settings
	registry *componentRegistry
}

func (d *document) render(root *schemaNode) (map[string]any, error) {
	if root == nil {
		return nil, errors.New("openapi: no root shape")
	}

	var body map[string]any
	if name := d.settings.component; name != "" {
		body = map[string]any{"$ref": d.registry.forceReference(name, root)}
		d.publishChildren(name, root)
	} else {
		body = d.schema(root, "")
	}

	out := map[string]any{
		"openapi": d.settings.version,
		"info":    d.info(),
		"paths": map[string]any{
			d.settings.endpoint.Path: map[string]any{
				d.settings.endpoint.verb(): d.operation(body),
			},
		},
	}
	if schemas := d.registry.componentsMap(); schemas != nil {
		out["components"] = map[string]any{"schemas": schemas}
	}
	if err := validateDocument(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *document) info() map[string]any {
	info := d.settings.info
	out := map[string]any{"title": info.Title, "version": info.Version}
	if info.Description != "" {
		out["description"] = info.Description
	}
	return out
}

func (d *document) operation(body map[string]any) map[string]any {
	endpoint := d.settings.endpoint
	op := map[string]any{
		"operationId": endpoint.id(),
		"responses":   d.responses(body),
	}
	if params := pathParameters(endpoint.Path); len(params) > 0 {
		op["parameters"] = params
	}
	if endpoint.Summary != "" {
		op["summary"] = endpoint.Summary
	}
	return op
}

func (d *document) responses(body map[string]any) map[string]any {
	out := make(map[string]any, len(d.settings.responses))
	for status, description := range d.settings.responses {
		response := map[string]any{"description": description}
		if status == d.settings.success {
			response["content"] = map[string]any{
				d.settings.media: map[string]any{"schema": body},
			}
		}
		out[status] = response
	}
	return out
}

var pathParam = regexp.MustCompile(`\{([^{}]+)\}`)

func pathParameters(path string) []any {
	var params []any
	for _, match := range pathParam.FindAllStringSubmatch(path, -1) {
		params = append(params, map[string]any{
			"name":     match[1],
			"in":       "path",
			"required": true,
			"schema":   map[string]any{"type": "string"},
		})
	}
	return params
}

// schema renders node. hint names the component a shared object would be
// published under; an empty hint keeps the node inline.
func (d *document) schema(node *schemaNode, hint string) map[string]any {
	if node == nil {
		return map[string]any{}
	}
	if hint != "" && node.Type == "object" && len(node.Properties) > 0 {
		if ref := d.registry.register(hint, node); ref != "" {
			return map[string]any{"$ref": ref}
		}
	}

	out := node.baseMap()
	if node.Type == "object" {
		props := make(map[string]any, len(node.Properties))
		for _, name := range node.propertyNames() {
			props[name] = d.schema(node.Properties[name], combineComponentName(hint, name))
		}
		out["properties"] = props
	}
	if node.Items != nil {
		out["items"] = d.schema(node.Items, combineComponentName(hint, "item"))
	}
	if len(node.OneOf) > 0 {
		options := make([]any, 0, len(node.OneOf))
		for _, row := range node.OneOf {
			options = append(options, d.schema(row, combineComponentName(hint, variantTag(row, node.Discriminator))))
		}
		out["oneOf"] = options
	}
	return out
}

// publishChildren registers the shapes under a forced root component so
// shared children are still deduplicated.
func (d *document) publishChildren(hint string, node *schemaNode) {
	for _, name := range node.propertyNames() {
		d.schema(node.Properties[name], combineComponentName(hint, name))
	}
	if node.Items != nil {
		d.schema(node.Items, combineComponentName(hint, "item"))
	}
}

// variantTag reads the tag a variant row pins its marker property to.
func variantTag(row *schemaNode, marker string) string {
	if row == nil || marker == "" {
		return ""
	}
	prop, ok := row.Properties[marker]
	if !ok || len(prop.Enum) == 0 {
		return ""
	}
	tag, _ := prop.Enum[0].(string)
	return tag
}

// validateDocument checks the structural minimum: version, titled and
// versioned info, and every operation with an id and a response that has
// content.
func validateDocument(doc map[string]any) error {
	if v, _ := doc["openapi"].(string); v == "" {
		return errors.New("openapi: missing version")
	}
	info, _ := doc["info"].(map[string]any)
	for _, key := range []string{"title", "version"} {
		if v, _ := info[key].(string); v == "" {
			return fmt.Errorf("openapi: info.%s must be set", key)
		}
	}
	paths, _ := doc["paths"].(map[string]any)
	if len(paths) == 0 {
		return errors.New("openapi: no paths")
	}
	for _, path := range sortedKeys(paths) {
		item, _ := paths[path].(map[string]any)
		if len(item) == 0 {
			return fmt.Errorf("openapi: path %q has no operations", path)
		}
		for _, method := range sortedKeys(item) {
			op, _ := item[method].(map[string]any)
			if id, _ := op["operationId"].(string); id == "" {
				return fmt.Errorf("openapi: %s %s has no operationId", method, path)
			}
			responses, _ := op["responses"].(map[string]any)
			if !anyContent(responses) {
				return fmt.Errorf("openapi: %s %s has no response content", method, path)
			}
		}
	}
	return nil
}

func anyContent(responses map[string]any) bool {
	for _, value := range responses {
		response, _ := value.(map[string]any)
		if content, _ := response["content"].(map[string]any); len(content) > 0 {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
