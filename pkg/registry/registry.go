package registry

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/beetflow/pkg/domain"
	"github.com/aretw0/beetflow/pkg/flow"
)

// Factory builds an action from the params of a definition node.
type Factory func(params map[string]any) (flow.Action, error)

// Registry maps action kind names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Default returns a registry holding every built-in action.
func Default() *Registry {
	r := NewRegistry()
	RegisterBuiltins(r)
	return r
}

// Register adds a factory to the registry.
// If a factory with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = fn
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Kinds returns the registered names, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build looks up a factory by name and builds the action.
// Returns an error wrapping domain.ErrUnknownAction if the name is not found.
func (r *Registry) Build(name string, params map[string]any) (flow.Action, error) {
	r.mu.RLock()
	fn, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownAction, name)
	}
	action, err := fn(params)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", name, err)
	}
	return action, nil
}

// Decode builds a factory decoding params into a fresh *T.
func Decode[T any, PT interface {
	*T
	flow.Action
}]() Factory {
	return func(params map[string]any) (flow.Action, error) {
		var v T
		if err := DecodeParams(params, &v); err != nil {
			return nil, err
		}
		return PT(&v), nil
	}
}

// DecodeParams decodes definition params into out. Durations accept strings
// such as "1.5s" and outcomes accept the spellings of domain.ParseOutcome.
// Unknown keys are an error.
func DecodeParams(params map[string]any, out any) error {
	if len(params) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			stringToOutcomeHook,
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("decode params: %w", err)
	}
	return nil
}

var outcomeType = reflect.TypeFor[domain.Outcome]()

func stringToOutcomeHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != outcomeType {
		return data, nil
	}
	return domain.ParseOutcome(data.(string))
}
