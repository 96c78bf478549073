package tagstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamesmiths-guild/forge-sub000/event"
	"github.com/gamesmiths-guild/forge-sub000/forgeref"
	"github.com/gamesmiths-guild/forge-sub000/tagstore"
)

// flatRegistry is a minimal Registry with no hierarchy, enough to drive
// store-level tests without depending on a real tag-tree implementation.
type flatRegistry struct{}

func (flatRegistry) RequestTag(name string) (tagstore.Tag, error) {
	ref, err := forgeref.New(forgeref.Input{Module: "test", Type: "tag", Value: name})
	if err != nil {
		return tagstore.Tag{}, err
	}
	return tagstore.NewTag(ref, flatRegistry{}), nil
}

func (flatRegistry) MatchesQuery(*tagstore.Container, string) bool { return false }

func (flatRegistry) ExtractParents(tagstore.Tag) []tagstore.Tag { return nil }

func tag(t *testing.T, reg tagstore.Registry, name string) tagstore.Tag {
	t.Helper()
	tg, err := reg.RequestTag(name)
	require.NoError(t, err)
	return tg
}

func TestStore_CombinedMembershipInvariant(t *testing.T) {
	reg := flatRegistry{}
	bus := event.NewBus()
	s := tagstore.NewStore("e1", reg, bus)

	burning := tag(t, reg, "burning")
	stunned := tag(t, reg, "stunned")

	s.AddBase(burning)
	assert.True(t, s.Has(burning))
	assert.False(t, s.Has(stunned))

	s.AddModifier(stunned)
	assert.True(t, s.Has(stunned))

	s.AddModifier(stunned) // second source
	s.RemoveModifier(stunned)
	assert.True(t, s.Has(stunned), "still one reference held")

	s.RemoveModifier(stunned)
	assert.False(t, s.Has(stunned), "last reference released")
}

func TestStore_RemoveModifierBelowZeroIsNoop(t *testing.T) {
	reg := flatRegistry{}
	s := tagstore.NewStore("e1", reg, event.NewBus())
	prone := tag(t, reg, "prone")

	require.NotPanics(t, func() { s.RemoveModifier(prone) })
	assert.False(t, s.Has(prone))
}

func TestStore_NotifiesOnlyOnMembershipChange(t *testing.T) {
	reg := flatRegistry{}
	bus := event.NewBus()
	s := tagstore.NewStore("e1", reg, bus)
	poisoned := tag(t, reg, "poisoned")

	var notifications int
	_, err := bus.Subscribe(tagstore.RefTagsChanged, func(e *tagstore.TagsChangedEvent) error {
		notifications++
		return nil
	})
	require.NoError(t, err)

	s.AddModifier(poisoned) // 0->1: notify
	s.AddModifier(poisoned) // 1->2: no notify (membership unchanged)
	s.RemoveModifier(poisoned) // 2->1: no notify
	s.RemoveModifier(poisoned) // 1->0: notify

	assert.Equal(t, 2, notifications)
}

func TestContainer_HasAnyHasAll(t *testing.T) {
	reg := flatRegistry{}
	a := tag(t, reg, "a")
	b := tag(t, reg, "b")
	c := tag(t, reg, "c")

	container := tagstore.NewContainer(reg, a, b)
	query := tagstore.NewContainer(reg, b, c)

	assert.True(t, container.HasAny(query))
	assert.False(t, container.HasAll(query))

	query2 := tagstore.NewContainer(reg, a, b)
	assert.True(t, container.HasAll(query2))
}
