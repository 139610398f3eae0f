package fields

import "github.com/goliatone/go-fields/pkg/activity"

const (
	// DefaultTypeMarker is the key variant rows use to record their tag.
	DefaultTypeMarker = "_type"
	// DefaultMaxDepth bounds how many references a resolution may expand
	// inside one another before the next one is dropped. Groups, repeaters
	// and variants nest without a limit.
	DefaultMaxDepth = 32
)

// Option configures a Resolver.
type Option func(*config)

type config struct {
	typeMarker   string
	maxDepth     int
	logger       Logger
	evaluator    Evaluator
	programCache ProgramCache
	functions    *FunctionRegistry
	ruleArgs     map[string]any
	emitter      *activity.Emitter
}

// Config is the exported view of a resolver's effective settings.
type Config struct {
	TypeMarker string
	MaxDepth   int
}

// DefaultConfig returns the settings a resolver uses when no option overrides
// them.
func DefaultConfig() Config {
	return Config{
		TypeMarker: DefaultTypeMarker,
		MaxDepth:   DefaultMaxDepth,
	}
}

func applyOptions(opts []Option) config {
	defaults := DefaultConfig()
	cfg := config{
		typeMarker: defaults.TypeMarker,
		maxDepth:   defaults.MaxDepth,
		logger:     noopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithTypeMarker overrides the key variant rows store their tag under.
func WithTypeMarker(marker string) Option {
	return func(cfg *config) {
		if marker == "" {
			return
		}
		cfg.typeMarker = marker
	}
}

// WithMaxDepth overrides the nested reference limit. Values below one keep
// the default.
func WithMaxDepth(depth int) Option {
	return func(cfg *config) {
		if depth < 1 {
			return
		}
		cfg.maxDepth = depth
	}
}
