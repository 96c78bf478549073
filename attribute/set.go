package attribute

import (
	"context"

	"github.com/gamesmiths-guild/forge-sub000/forgeerr"
)

// Set is a named lookup of attributes, batch-publishing value changes
// after a mutation pass (spec.md §3's "Attributes container").
type Set struct {
	name       string
	attributes map[string]*Attribute
}

// NewSet creates an empty, named attribute set.
func NewSet(name string) *Set {
	return &Set{name: name, attributes: make(map[string]*Attribute)}
}

// Name returns the set's name (e.g. "primary", "derived", "resources").
func (s *Set) Name() string { return s.name }

// Add registers attr under its own key. Adding a key that already exists
// replaces the existing attribute.
func (s *Set) Add(attr *Attribute) {
	s.attributes[attr.Key()] = attr
}

// Get looks up an attribute by key.
func (s *Set) Get(key string) (*Attribute, error) {
	attr, ok := s.attributes[key]
	if !ok {
		return nil, forgeerr.UnknownAttribute(key)
	}
	return attr, nil
}

// Has reports whether key is registered in this set.
func (s *Set) Has(key string) bool {
	_, ok := s.attributes[key]
	return ok
}

// GetCurrentValue looks up key's current aggregated value. It satisfies
// effect.AttributeSource, letting the effect package capture attribute
// values without importing the concrete Set type.
func (s *Set) GetCurrentValue(key string) (int32, error) {
	attr, err := s.Get(key)
	if err != nil {
		return 0, err
	}
	return attr.GetCurrentValue(), nil
}

// Keys returns every attribute key registered in this set, in no
// particular order.
func (s *Set) Keys() []string {
	keys := make([]string, 0, len(s.attributes))
	for k := range s.attributes {
		keys = append(keys, k)
	}
	return keys
}

// ApplyPendingValueChanges calls ApplyPendingValueChanges on every
// attribute in the set, batching their on_value_changed publications into
// one pass (spec.md §3).
func (s *Set) ApplyPendingValueChanges(ctx context.Context) error {
	for _, attr := range s.attributes {
		if err := attr.ApplyPendingValueChanges(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Sets groups multiple named attribute Sets under one container, the way
// an entity might keep "primary", "derived" and "resource" attributes
// separately organized while still being able to look any of them up by
// key (spec.md §2: "named lookup of attributes organized into sets").
type Sets struct {
	sets map[string]*Set
}

// NewSets creates an empty group of attribute sets.
func NewSets() *Sets {
	return &Sets{sets: make(map[string]*Set)}
}

// AddSet registers set under its own name.
func (g *Sets) AddSet(set *Set) {
	g.sets[set.Name()] = set
}

// Set returns the named set, or nil if it hasn't been registered.
func (g *Sets) Set(name string) *Set {
	return g.sets[name]
}

// Get looks up an attribute by key across every registered set.
func (g *Sets) Get(key string) (*Attribute, error) {
	for _, set := range g.sets {
		if attr, ok := set.attributes[key]; ok {
			return attr, nil
		}
	}
	return nil, forgeerr.UnknownAttribute(key)
}

// GetCurrentValue looks up key's current aggregated value across every
// registered set. It satisfies effect.AttributeSource.
func (g *Sets) GetCurrentValue(key string) (int32, error) {
	attr, err := g.Get(key)
	if err != nil {
		return 0, err
	}
	return attr.GetCurrentValue(), nil
}

// ApplyPendingValueChanges batches publication across every set.
func (g *Sets) ApplyPendingValueChanges(ctx context.Context) error {
	for _, set := range g.sets {
		if err := set.ApplyPendingValueChanges(ctx); err != nil {
			return err
		}
	}
	return nil
}
