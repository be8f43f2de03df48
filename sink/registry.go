package sink

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mitchellh/mapstructure"
)

var (
	ErrFactoryNotFound  = errors.New("sink factory not found")
	ErrDuplicateFactory = errors.New("duplicate sink factory")
	ErrConfigDecode     = errors.New("sink config decode error")
	ErrFactorySetup     = errors.New("sink factory setup error")
)

// BuilderFactory describes a registerable sink kind. Implementations live
// in the packages providing concrete sinks and register themselves at init
// time, so configuration-driven assembly can build sinks by name.
type BuilderFactory interface {
	// Kind returns the configuration key identifying this sink kind.
	Kind() string
	// ConfigType returns an empty struct representing the sink's
	// configuration. It is populated from the raw config map using
	// mapstructure before Setup runs.
	ConfigType() any
	// Setup builds a sink instance from the decoded configuration.
	Setup(conf any) (Sink, error)
}

// Registry maps sink kinds to their factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]BuilderFactory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]BuilderFactory),
	}
}

// Register adds a factory for its kind. Registering the same kind twice is
// an error.
func (r *Registry) Register(f BuilderFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[f.Kind()]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateFactory, f.Kind())
	}
	r.factories[f.Kind()] = f
	return nil
}

// Build decodes conf into the factory's configuration struct and sets up a
// sink of the given kind.
func (r *Registry) Build(kind string, conf map[string]any) (Sink, error) {
	r.mu.RLock()
	factory, ok := r.factories[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFactoryNotFound, kind)
	}

	target := factory.ConfigType()
	if target == nil {
		return nil, fmt.Errorf("%w: factory %q provided no configuration type", ErrConfigDecode, kind)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create decoder for %q: %v", ErrConfigDecode, kind, err)
	}
	if err := decoder.Decode(conf); err != nil {
		return nil, fmt.Errorf("%w: decode config for %q: %v", ErrConfigDecode, kind, err)
	}

	s, err := factory.Setup(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrFactorySetup, kind, err)
	}
	return s, nil
}

var defaultRegistry = NewRegistry()

// Register adds a factory to the default registry.
func Register(f BuilderFactory) error {
	return defaultRegistry.Register(f)
}

// Build constructs a sink of the given kind from the default registry.
func Build(kind string, conf map[string]any) (Sink, error) {
	return defaultRegistry.Build(kind, conf)
}
