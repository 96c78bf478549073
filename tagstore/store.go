package tagstore

import (
	"context"

	"github.com/gamesmiths-guild/forge-sub000/event"
)

// Store is an entity's tag bag: permanent base tags plus reference-counted
// modifier tags contributed by effects (spec.md §3's EntityTags). A tag is
// a member of Combined while it is a base tag or its modifier count is
// greater than zero.
type Store struct {
	entityID string
	registry Registry
	bus      event.EventBus

	base          *Container
	modifierCount map[string]int
	modifierTag   map[string]Tag
}

// NewStore creates an empty tag store for entityID, publishing change
// notifications on bus.
func NewStore(entityID string, registry Registry, bus event.EventBus) *Store {
	return &Store{
		entityID:      entityID,
		registry:      registry,
		bus:           bus,
		base:          NewContainer(registry),
		modifierCount: make(map[string]int),
		modifierTag:   make(map[string]Tag),
	}
}

// Base returns the store's permanent base tags.
func (s *Store) Base() *Container { return s.base }

// Combined returns base ∪ {modifier tags with positive count}, per
// spec.md §3's invariant.
func (s *Store) Combined() *Container {
	c := NewContainer(s.registry, s.base.Tags()...)
	for key, count := range s.modifierCount {
		if count > 0 {
			c.Add(s.modifierTag[key])
		}
	}
	return c
}

// Has reports whether tag is currently in Combined.
func (s *Store) Has(tag Tag) bool {
	if s.base.Has(tag) {
		return true
	}
	return s.modifierCount[tag.String()] > 0
}

func (s *Store) combinedMembership() map[string]bool {
	members := make(map[string]bool)
	for _, t := range s.base.Tags() {
		members[t.String()] = true
	}
	for key, count := range s.modifierCount {
		if count > 0 {
			members[key] = true
		}
	}
	return members
}

func membershipEqual(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// notifyIfChanged compares membership before/after fn runs and publishes
// TagsChangedEvent at most once if combined membership actually changed
// (spec.md §3: count deltas that keep membership must not notify).
func (s *Store) notifyIfChanged(fn func()) {
	before := s.combinedMembership()
	fn()
	after := s.combinedMembership()
	if membershipEqual(before, after) {
		return
	}
	if s.bus == nil {
		return
	}
	_ = s.bus.Publish(context.Background(), NewTagsChangedEvent(s.entityID, s.Combined()))
}

// AddBase permanently adds tag to the entity's base tags.
func (s *Store) AddBase(tag Tag) {
	s.notifyIfChanged(func() { s.base.Add(tag) })
}

// RemoveBase removes tag from the entity's base tags. Removing an absent
// base tag is a silent no-op.
func (s *Store) RemoveBase(tag Tag) {
	s.notifyIfChanged(func() { s.base.Remove(tag) })
}

// AddModifier increments tag's reference count, adding it to Combined on
// the 0→1 transition.
func (s *Store) AddModifier(tag Tag) {
	s.notifyIfChanged(func() {
		s.modifierTag[tag.String()] = tag
		s.modifierCount[tag.String()]++
	})
}

// RemoveModifier decrements tag's reference count, removing it from
// Combined on the 1→0 transition. Removing a tag already at count zero is
// a silent no-op (spec.md §7).
func (s *Store) RemoveModifier(tag Tag) {
	s.notifyIfChanged(func() {
		count := s.modifierCount[tag.String()]
		if count <= 0 {
			return
		}
		count--
		s.modifierCount[tag.String()] = count
		if count == 0 {
			delete(s.modifierCount, tag.String())
			delete(s.modifierTag, tag.String())
		}
	})
}

// AddModifierMany increments the reference count of every tag in tags,
// emitting at most one TagsChangedEvent for the whole batch.
func (s *Store) AddModifierMany(tags *Container) {
	if tags == nil || tags.Len() == 0 {
		return
	}
	s.notifyIfChanged(func() {
		for _, t := range tags.Tags() {
			s.modifierTag[t.String()] = t
			s.modifierCount[t.String()]++
		}
	})
}

// RemoveModifierMany decrements the reference count of every tag in tags,
// emitting at most one TagsChangedEvent for the whole batch.
func (s *Store) RemoveModifierMany(tags *Container) {
	if tags == nil || tags.Len() == 0 {
		return
	}
	s.notifyIfChanged(func() {
		for _, t := range tags.Tags() {
			count := s.modifierCount[t.String()]
			if count <= 0 {
				continue
			}
			count--
			s.modifierCount[t.String()] = count
			if count == 0 {
				delete(s.modifierCount, t.String())
				delete(s.modifierTag, t.String())
			}
		}
	})
}
