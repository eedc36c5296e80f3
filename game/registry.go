package game

import (
	"fmt"
	"sort"

	"github.com/James-Trimble/PlayPalace11/locale"
)

// Factory constructs a blank game instance wired to a catalog.
type Factory func(catalog *locale.Catalog) Game

// Registry maps game type tags to factories. It is an explicitly
// constructed object populated at startup and passed in, not ambient
// global state.
type Registry struct {
	factories   map[string]Factory
	descriptors map[string]Descriptor
	order       []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories:   make(map[string]Factory),
		descriptors: make(map[string]Descriptor),
	}
}

// Register adds a game variant. Registering the same type twice replaces
// the factory.
func (r *Registry) Register(desc Descriptor, factory Factory) {
	if _, exists := r.factories[desc.Type]; !exists {
		r.order = append(r.order, desc.Type)
	}
	r.factories[desc.Type] = factory
	r.descriptors[desc.Type] = desc
}

// New constructs a fresh game of the given type.
func (r *Registry) New(gameType string, catalog *locale.Catalog) (Game, error) {
	factory, ok := r.factories[gameType]
	if !ok {
		return nil, fmt.Errorf("unknown game type %q", gameType)
	}
	return factory(catalog), nil
}

// Restore rehydrates a game from its persisted JSON blob and rebuilds
// its runtime state. Corrupt blobs surface as errors; callers isolate
// them per table so one bad record never blocks a bulk load.
func (r *Registry) Restore(gameType, blob string, catalog *locale.Catalog) (Game, error) {
	g, err := r.New(gameType, catalog)
	if err != nil {
		return nil, err
	}
	if err := g.UnmarshalState([]byte(blob)); err != nil {
		return nil, fmt.Errorf("deserialize %s game: %w", gameType, err)
	}
	g.RebuildRuntime()
	return g, nil
}

// Descriptor returns the metadata for a type.
func (r *Registry) Descriptor(gameType string) (Descriptor, bool) {
	d, ok := r.descriptors[gameType]
	return d, ok
}

// All returns every registered descriptor in registration order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.descriptors[t])
	}
	return out
}

// ByCategory groups descriptors by category key, categories sorted.
func (r *Registry) ByCategory() ([]string, map[string][]Descriptor) {
	grouped := make(map[string][]Descriptor)
	for _, t := range r.order {
		d := r.descriptors[t]
		grouped[d.Category] = append(grouped[d.Category], d)
	}
	categories := make([]string, 0, len(grouped))
	for c := range grouped {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories, grouped
}
