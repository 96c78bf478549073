package ability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamesmiths-guild/forge-sub000/ability"
	"github.com/gamesmiths-guild/forge-sub000/attribute"
	"github.com/gamesmiths-guild/forge-sub000/cue"
	"github.com/gamesmiths-guild/forge-sub000/effect"
	"github.com/gamesmiths-guild/forge-sub000/event"
	"github.com/gamesmiths-guild/forge-sub000/forgeref"
	"github.com/gamesmiths-guild/forge-sub000/tagstore"
)

type flatRegistry struct{}

func (flatRegistry) RequestTag(name string) (tagstore.Tag, error) {
	ref, err := forgeref.New(forgeref.Input{Module: "test", Type: "tag", Value: name})
	if err != nil {
		return tagstore.Tag{}, err
	}
	return tagstore.NewTag(ref, flatRegistry{}), nil
}

func (flatRegistry) MatchesQuery(*tagstore.Container, string) bool { return false }
func (flatRegistry) ExtractParents(tagstore.Tag) []tagstore.Tag    { return nil }

func tag(t *testing.T, name string) tagstore.Tag {
	t.Helper()
	tg, err := flatRegistry{}.RequestTag(name)
	require.NoError(t, err)
	return tg
}

func abilityRef(t *testing.T, value string) *forgeref.Ref {
	t.Helper()
	return forgeref.Must(forgeref.Input{Module: "test", Type: "ability", Value: value})
}

func effectRef(t *testing.T, value string) *forgeref.Ref {
	t.Helper()
	return forgeref.Must(forgeref.Input{Module: "test", Type: "effect", Value: value})
}

type stubEntity struct{ id string }

func (e stubEntity) GetID() string   { return e.id }
func (e stubEntity) GetType() string { return "character" }

func newHarness(t *testing.T) (*ability.EntityAbilities, *effect.Manager, *tagstore.Store, event.EventBus) {
	t.Helper()
	bus := event.NewBus()
	sets := attribute.NewSets()
	set := attribute.NewSet("resources")
	set.Add(attribute.New(attribute.Config{Key: "mana", Channels: 1, Base: 100, Min: 0, Max: 100}, bus))
	sets.AddSet(set)

	ownerTags := tagstore.NewStore("hero", flatRegistry{}, bus)
	effects := effect.NewManager(effect.ManagerConfig{
		OwnerID: "hero", Target: sets, TargetTags: ownerTags, Bus: bus,
		Cues: cue.NewNotifier(cue.NewRegistry(nil)),
	})
	abilities := ability.New(ability.Config{
		OwnerID: "hero", Owner: stubEntity{id: "hero"}, OwnerTags: ownerTags, Effects: effects, Bus: bus,
	})
	return abilities, effects, ownerTags, bus
}

func TestGrant_CoalescesAcrossSourcesAndInhibitsOnlyWhenAllSourcesInhibited(t *testing.T) {
	abilities, _, _, _ := newHarness(t)
	data := &ability.Data{Ref: abilityRef(t, "fireball")}

	h1 := abilities.Grant(data, "effect-a", nil, 1, effect.LevelComparisonHigher, effect.DeactivationIgnore, effect.DeactivationIgnore)
	h2 := abilities.Grant(data, "effect-b", nil, 1, effect.LevelComparisonHigher, effect.DeactivationIgnore, effect.DeactivationIgnore)
	assert.Equal(t, h1, h2, "grants of the same Data coalesce into one handle")

	abilities.SetInhibited(context.Background(), h1, "effect-a", true)
	assert.False(t, abilities.IsInhibited(h1), "not inhibited while any source remains uninhibited")

	abilities.SetInhibited(context.Background(), h1, "effect-b", true)
	assert.True(t, abilities.IsInhibited(h1), "inhibited once every source is inhibited")
}

func TestRevoke_RemovesOnlyAfterLastSource(t *testing.T) {
	abilities, _, _, _ := newHarness(t)
	data := &ability.Data{Ref: abilityRef(t, "shield-bash")}

	h := abilities.Grant(data, "effect-a", nil, 1, effect.LevelComparisonHigher, effect.DeactivationIgnore, effect.DeactivationIgnore)
	abilities.Grant(data, "effect-b", nil, 1, effect.LevelComparisonHigher, effect.DeactivationIgnore, effect.DeactivationIgnore)

	abilities.Revoke(context.Background(), h, "effect-a")
	assert.True(t, abilities.IsValid(h), "still granted while another source remains")

	abilities.Revoke(context.Background(), h, "effect-b")
	assert.False(t, abilities.IsValid(h), "ungranted once the last source is revoked")
}

func TestActivate_FailsFastOnInvalidHandle(t *testing.T) {
	abilities, _, _, _ := newHarness(t)
	ok, failure := abilities.Activate(context.Background(), ability.Handle{}, nil)
	assert.False(t, ok)
	assert.True(t, failure.Has(ability.InvalidHandler))
}

func TestActivate_CollectsCooldownAndCostFailures(t *testing.T) {
	abilities, _, _, _ := newHarness(t)

	cooldownTag := tag(t, "cooldown.fireball")
	data := &ability.Data{
		Ref: abilityRef(t, "fireball"),
		CostEffect: &effect.Data{
			Ref:          effectRef(t, "fireball-cost"),
			DurationType: effect.DurationInstant,
			Modifiers: []effect.Modifier{
				{AttributeKey: "mana", Operation: effect.OpFlat, Magnitude: effect.ScalarMagnitude(-500)},
			},
		},
		CooldownEffects: []*effect.Data{{
			Ref:               effectRef(t, "fireball-cooldown"),
			DurationType:      effect.DurationHasDuration,
			DurationMagnitude: effect.ScalarMagnitude(10),
			Components:        []effect.Component{effect.ModifierTagsComponent{Tags: []tagstore.Tag{cooldownTag}}},
		}},
	}
	h := abilities.GrantPermanently(data, 1)

	require.True(t, abilities.CommitCooldown(context.Background(), h))

	ok, failure := abilities.Activate(context.Background(), h, nil)
	assert.False(t, ok)
	assert.True(t, failure.Has(ability.Cooldown))
	assert.True(t, failure.Has(ability.InsufficientResources))

	remaining := abilities.GetRemainingCooldownTime(h, cooldownTag)
	assert.Equal(t, 10.0, remaining)
}

type recordingBehavior struct {
	started, ended int
	canceled       bool
}

func (b *recordingBehavior) OnStarted(ability.ActivationContext) { b.started++ }
func (b *recordingBehavior) OnEnded(_ ability.ActivationContext, wasCanceled bool) {
	b.ended++
	b.canceled = wasCanceled
}

func TestActivate_StartsBehaviorAndEndCancelStopIt(t *testing.T) {
	abilities, _, _, _ := newHarness(t)
	behavior := &recordingBehavior{}
	data := &ability.Data{
		Ref:             abilityRef(t, "war-cry"),
		BehaviorFactory: func() ability.Behavior { return behavior },
	}
	h := abilities.GrantPermanently(data, 1)

	ok, failure := abilities.Activate(context.Background(), h, nil)
	require.True(t, ok)
	assert.Zero(t, failure)
	assert.Equal(t, 1, behavior.started)
	assert.True(t, abilities.IsActive(h))

	assert.True(t, abilities.End(context.Background(), h))
	assert.Equal(t, 1, behavior.ended)
	assert.False(t, behavior.canceled)
	assert.False(t, abilities.IsActive(h))
}

func TestCancel_MarksInstanceCanceled(t *testing.T) {
	abilities, _, _, _ := newHarness(t)
	behavior := &recordingBehavior{}
	data := &ability.Data{
		Ref:             abilityRef(t, "taunt"),
		InstancingPolicy: ability.InstancingPerEntity,
		BehaviorFactory: func() ability.Behavior { return behavior },
	}
	h := abilities.GrantPermanently(data, 1)

	ok, _ := abilities.Activate(context.Background(), h, nil)
	require.True(t, ok)

	assert.True(t, abilities.Cancel(context.Background(), h))
	assert.Equal(t, 1, behavior.ended)
	assert.True(t, behavior.canceled)
}

func TestCommitCost_ConsumesResourceOnce(t *testing.T) {
	abilities, effects, _, _ := newHarness(t)
	data := &ability.Data{
		Ref: abilityRef(t, "channel"),
		CostEffect: &effect.Data{
			Ref:          effectRef(t, "channel-cost"),
			DurationType: effect.DurationInstant,
			Modifiers: []effect.Modifier{
				{AttributeKey: "mana", Operation: effect.OpFlat, Magnitude: effect.ScalarMagnitude(-20)},
			},
		},
	}
	h := abilities.GrantPermanently(data, 1)

	assert.True(t, abilities.CommitCost(context.Background(), h))
	attr, err := effects.Target().Get("mana")
	require.NoError(t, err)
	assert.Equal(t, int32(80), attr.GetCurrentValue())

	assert.True(t, abilities.CommitCost(context.Background(), h))
	assert.Equal(t, int32(60), attr.GetCurrentValue())
}

func TestTriggerTagAdded_ActivatesOnTagTransition(t *testing.T) {
	abilities, _, ownerTags, _ := newHarness(t)
	behavior := &recordingBehavior{}
	triggerTag := tag(t, "bloodied")
	data := &ability.Data{
		Ref: abilityRef(t, "last-stand"),
		Trigger: &ability.TriggerData{
			Kind: ability.TriggerTagAdded,
			Tag:  triggerTag,
		},
		InstancingPolicy: ability.InstancingPerEntity,
		BehaviorFactory:  func() ability.Behavior { return behavior },
	}
	abilities.GrantPermanently(data, 1)
	assert.Zero(t, behavior.started)

	ownerTags.AddModifier(triggerTag)
	assert.Equal(t, 1, behavior.started, "0->1 tag transition activates the triggered ability")

	ownerTags.RemoveModifier(triggerTag)
	ownerTags.AddModifier(triggerTag)
	assert.Equal(t, 1, behavior.started, "an already-active PerEntity instance does not retrigger without RetriggerInstancedAbility")
}
