package openapi

import (
	"strings"

	fields "github.com/goliatone/go-fields"
)

// Info is the document's info block.
type Info struct {
	Title       string
	Version     string
	Description string
}

// Endpoint is the single read operation the document declares.
type Endpoint struct {
	Path        string
	Method      string
	OperationID string
	Summary     string
}

// id returns the operation id, deriving "method:path" when none is set.
func (e Endpoint) id() string {
	if e.OperationID != "" {
		return e.OperationID
	}
	return e.verb() + ":" + e.Path
}

func (e Endpoint) verb() string {
	if e.Method == "" {
		return "get"
	}
	return strings.ToLower(e.Method)
}

type settings struct {
	version  string
	info     Info
	endpoint Endpoint
	media    string
	// success is the status whose response carries the values schema.
	success   string
	responses map[string]string
	component string
	marker    string
	depth     int
}

func defaultSettings() settings {
	resolver := fields.DefaultConfig()
	return settings{
		version:   "3.0.3",
		info:      Info{Title: "Field Values", Version: "1.0.0"},
		endpoint:  Endpoint{Path: "/fields/{subject}", Method: "get"},
		media:     "application/json",
		success:   "200",
		responses: map[string]string{"200": "Resolved field values"},
		marker:    resolver.TypeMarker,
		depth:     resolver.MaxDepth,
	}
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*settings)

// WithOpenAPIVersion overrides the document version (default 3.0.3).
func WithOpenAPIVersion(version string) GeneratorOption {
	return func(s *settings) {
		if version != "" {
			s.version = version
		}
	}
}

// InfoOption sets optional info fields.
type InfoOption func(*Info)

// WithInfoDescription sets info.description.
func WithInfoDescription(description string) InfoOption {
	return func(info *Info) { info.Description = description }
}

// WithInfo sets the info title and version. Empty strings keep the current
// values.
func WithInfo(title, version string, opts ...InfoOption) GeneratorOption {
	return func(s *settings) {
		if title != "" {
			s.info.Title = title
		}
		if version != "" {
			s.info.Version = version
		}
		for _, opt := range opts {
			if opt != nil {
				opt(&s.info)
			}
		}
	}
}

// EndpointOption sets optional operation fields.
type EndpointOption func(*Endpoint)

// WithOperationSummary sets the operation summary.
func WithOperationSummary(summary string) EndpointOption {
	return func(e *Endpoint) { e.Summary = strings.TrimSpace(summary) }
}

// WithOperation moves the operation serving resolved values. Path parameters
// written as {name} are declared automatically. Changing the path or method
// without an explicit operationID re-derives it.
func WithOperation(path, method, operationID string, opts ...EndpointOption) GeneratorOption {
	return func(s *settings) {
		next := s.endpoint
		if path != "" {
			next.Path = path
		}
		if method != "" {
			next.Method = strings.ToLower(method)
		}
		if operationID != "" {
			next.OperationID = operationID
		} else if next.Path != s.endpoint.Path || next.Method != s.endpoint.Method {
			next.OperationID = ""
		}
		for _, opt := range opts {
			if opt != nil {
				opt(&next)
			}
		}
		s.endpoint = next
	}
}

// WithContentType sets the media type of the success response.
func WithContentType(media string) GeneratorOption {
	return func(s *settings) {
		if media != "" {
			s.media = media
		}
	}
}

// WithResponse declares a response for status. Only the success status
// carries the values schema; others are description only.
func WithResponse(status, description string) GeneratorOption {
	return func(s *settings) {
		if status == "" {
			return
		}
		if description == "" {
			description = s.responses[status]
		}
		s.responses[status] = description
	}
}

// WithSuccessStatus moves the values schema to another status code.
func WithSuccessStatus(status string) GeneratorOption {
	return func(s *settings) {
		if status == "" {
			return
		}
		if _, ok := s.responses[status]; !ok {
			s.responses[status] = s.responses[s.success]
		}
		s.success = status
	}
}

// WithRootComponent publishes the root schema as a named component and
// references it from the response.
func WithRootComponent(name string) GeneratorOption {
	return func(s *settings) { s.component = name }
}

// WithTypeMarker sets the property variant rows carry their tag under. It
// should match the resolver's marker.
func WithTypeMarker(marker string) GeneratorOption {
	return func(s *settings) {
		if marker != "" {
			s.marker = marker
		}
	}
}

// WithMaxDepth bounds nested reference expansion the same way the resolver
// does.
// Values below one keep the default.
func WithMaxDepth(depth int) GeneratorOption {
	return func(s *settings) {
		if depth > 0 {
			s.depth = depth
		}
	}
}
