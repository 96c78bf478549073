package effect_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamesmiths-guild/forge-sub000/attribute"
	"github.com/gamesmiths-guild/forge-sub000/cue"
	"github.com/gamesmiths-guild/forge-sub000/effect"
	"github.com/gamesmiths-guild/forge-sub000/event"
	"github.com/gamesmiths-guild/forge-sub000/forgeref"
	"github.com/gamesmiths-guild/forge-sub000/tagstore"
)

// recordingCue captures every notification fired for one cue key, in
// call order, so tests can assert both the derived magnitude and the
// relative ordering of apply/execute/update/remove.
type recordingCue struct {
	events []string
	mags   []float64
}

func (r *recordingCue) OnApply(_ forgeref.Entity, p cue.Parameters) {
	r.events = append(r.events, "apply")
	r.mags = append(r.mags, p.Magnitude)
}

func (r *recordingCue) OnExecute(_ forgeref.Entity, p cue.Parameters) {
	r.events = append(r.events, "execute")
	r.mags = append(r.mags, p.Magnitude)
}

func (r *recordingCue) OnUpdate(_ forgeref.Entity, p cue.Parameters) {
	r.events = append(r.events, "update")
	r.mags = append(r.mags, p.Magnitude)
}

func (r *recordingCue) OnRemove(_ forgeref.Entity, _ bool) {
	r.events = append(r.events, "remove")
	r.mags = append(r.mags, 0)
}

func cueRef(t *testing.T, value string) *forgeref.Ref {
	t.Helper()
	return forgeref.Must(forgeref.Input{Module: "test", Type: "cue", Value: value})
}

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

func newHealth(bus event.EventBus) *attribute.Sets {
	sets := attribute.NewSets()
	set := attribute.NewSet("primary")
	set.Add(attribute.New(attribute.Config{Key: "health", Channels: 1, Base: 100, Min: 0, Max: 100}, bus))
	sets.AddSet(set)
	return sets
}

func ref(t *testing.T, value string) *forgeref.Ref {
	t.Helper()
	return forgeref.Must(forgeref.Input{Module: "test", Type: "effect", Value: value})
}

func TestManager_InstantAppliesPermanentDelta(t *testing.T) {
	bus := event.NewBus()
	target := newHealth(bus)
	store := tagstore.NewStore("e1", flatRegistry{}, bus)
	mgr := effect.NewManager(effect.ManagerConfig{OwnerID: "e1", Target: target, TargetTags: store, Bus: bus, Cues: cue.NewNotifier(cue.NewRegistry(nil))})

	data := &effect.Data{
		Ref:          ref(t, "damage"),
		DurationType: effect.DurationInstant,
		Modifiers: []effect.Modifier{
			{AttributeKey: "health", Operation: effect.OpFlat, Magnitude: effect.ScalarMagnitude(-30)},
		},
	}

	h, ok := mgr.ApplyEffect(context.Background(), effect.Application{Data: data, Owner: nil})
	assert.False(t, ok)
	assert.True(t, h.IsZero())

	attr, err := target.Get("health")
	require.NoError(t, err)
	assert.Equal(t, int32(70), attr.GetCurrentValue())
}

func TestManager_DurationalGrantsHandleAndRetractsOnRemove(t *testing.T) {
	bus := event.NewBus()
	target := newHealth(bus)
	store := tagstore.NewStore("e1", flatRegistry{}, bus)
	mgr := effect.NewManager(effect.ManagerConfig{OwnerID: "e1", Target: target, TargetTags: store, Bus: bus, Cues: cue.NewNotifier(cue.NewRegistry(nil))})

	data := &effect.Data{
		Ref:               ref(t, "shield"),
		DurationType:      effect.DurationHasDuration,
		DurationMagnitude: effect.ScalarMagnitude(5),
		Modifiers: []effect.Modifier{
			{AttributeKey: "health", Operation: effect.OpFlat, Magnitude: effect.ScalarMagnitude(20)},
		},
	}

	h, ok := mgr.ApplyEffect(context.Background(), effect.Application{Data: data, Owner: nil})
	require.True(t, ok)
	assert.False(t, h.IsZero())

	attr, _ := target.Get("health")
	assert.Equal(t, int32(100), attr.GetCurrentValue()) // clamped to max

	mgr.UnapplyEffect(context.Background(), h, true)
	assert.False(t, mgr.IsValid(h))
	assert.Equal(t, int32(80), attr.GetCurrentValue())
}

func TestManager_TickExpiresDurationAndRetracts(t *testing.T) {
	bus := event.NewBus()
	target := newHealth(bus)
	store := tagstore.NewStore("e1", flatRegistry{}, bus)
	mgr := effect.NewManager(effect.ManagerConfig{OwnerID: "e1", Target: target, TargetTags: store, Bus: bus, Cues: cue.NewNotifier(cue.NewRegistry(nil))})

	data := &effect.Data{
		Ref:               ref(t, "slow"),
		DurationType:      effect.DurationHasDuration,
		DurationMagnitude: effect.ScalarMagnitude(2),
		Modifiers: []effect.Modifier{
			{AttributeKey: "health", Operation: effect.OpFlat, Magnitude: effect.ScalarMagnitude(-10)},
		},
	}
	h, ok := mgr.ApplyEffect(context.Background(), effect.Application{Data: data})
	require.True(t, ok)

	attr, _ := target.Get("health")
	assert.Equal(t, int32(90), attr.GetCurrentValue())

	mgr.UpdateEffects(context.Background(), 1.5)
	assert.True(t, mgr.IsValid(h))

	mgr.UpdateEffects(context.Background(), 1.0)
	assert.False(t, mgr.IsValid(h))
	assert.Equal(t, int32(100), attr.GetCurrentValue())
}

func TestManager_PeriodicExecutesOnSchedule(t *testing.T) {
	bus := event.NewBus()
	target := newHealth(bus)
	store := tagstore.NewStore("e1", flatRegistry{}, bus)
	mgr := effect.NewManager(effect.ManagerConfig{OwnerID: "e1", Target: target, TargetTags: store, Bus: bus, Cues: cue.NewNotifier(cue.NewRegistry(nil))})

	data := &effect.Data{
		Ref:               ref(t, "poison"),
		DurationType:      effect.DurationInfinite,
		Modifiers: []effect.Modifier{
			{AttributeKey: "health", Operation: effect.OpFlat, Magnitude: effect.ScalarMagnitude(-5)},
		},
		Periodic: &effect.PeriodicData{Period: effect.PeriodicPeriod{Magnitude: effect.ScalarMagnitude(1)}},
	}
	_, ok := mgr.ApplyEffect(context.Background(), effect.Application{Data: data})
	require.True(t, ok)

	attr, _ := target.Get("health")
	base := attr.GetBaseValue()

	mgr.UpdateEffects(context.Background(), 1.0)
	assert.Equal(t, base-5, attr.GetBaseValue())

	mgr.UpdateEffects(context.Background(), 2.0)
	assert.Equal(t, base-15, attr.GetBaseValue())
}

func TestManager_StackingRefusesOverLimit(t *testing.T) {
	bus := event.NewBus()
	target := newHealth(bus)
	store := tagstore.NewStore("e1", flatRegistry{}, bus)
	mgr := effect.NewManager(effect.ManagerConfig{OwnerID: "e1", Target: target, TargetTags: store, Bus: bus, Cues: cue.NewNotifier(cue.NewRegistry(nil))})

	data := &effect.Data{
		Ref:               ref(t, "stacking-buff"),
		DurationType:      effect.DurationInfinite,
		Stacking: &effect.StackingData{
			Limit:           2,
			OverflowPolicy:  effect.StackOverflowDeny,
			MagnitudePolicy: effect.StackMagnitudeSum,
		},
		Modifiers: []effect.Modifier{
			{AttributeKey: "health", Operation: effect.OpFlat, Magnitude: effect.ScalarMagnitude(1)},
		},
	}

	h1, ok := mgr.ApplyEffect(context.Background(), effect.Application{Data: data})
	require.True(t, ok)
	h2, ok := mgr.ApplyEffect(context.Background(), effect.Application{Data: data})
	require.True(t, ok)
	assert.Equal(t, h1, h2)

	ae, ok := mgr.Get(h1)
	require.True(t, ok)
	assert.Equal(t, 2, ae.StackCount)

	_, ok = mgr.ApplyEffect(context.Background(), effect.Application{Data: data})
	assert.False(t, ok, "third application denied at the stack limit")
	ae, _ = mgr.Get(h1)
	assert.Equal(t, 2, ae.StackCount)
}

func TestManager_TagRequirementGatesApplication(t *testing.T) {
	bus := event.NewBus()
	target := newHealth(bus)
	store := tagstore.NewStore("e1", flatRegistry{}, bus)
	mgr := effect.NewManager(effect.ManagerConfig{OwnerID: "e1", Target: target, TargetTags: store, Bus: bus, Cues: cue.NewNotifier(cue.NewRegistry(nil))})

	immune := tag(t, "immune")
	required := tagstore.NewContainer(flatRegistry{}, immune)

	data := &effect.Data{
		Ref:          ref(t, "burn"),
		DurationType: effect.DurationInstant,
		Modifiers: []effect.Modifier{
			{AttributeKey: "health", Operation: effect.OpFlat, Magnitude: effect.ScalarMagnitude(-10)},
		},
		Components: []effect.Component{
			effect.TargetTagRequirementsComponent{Application: effect.TagRequirement{Required: required}},
		},
	}

	_, ok := mgr.ApplyEffect(context.Background(), effect.Application{Data: data})
	assert.False(t, ok)
	attr, _ := target.Get("health")
	assert.Equal(t, int32(100), attr.GetCurrentValue(), "refused application must not mutate the target")

	store.AddBase(immune)
	_, ok = mgr.ApplyEffect(context.Background(), effect.Application{Data: data})
	assert.False(t, ok) // instant never returns a handle, but the mutation below proves it applied
	attr, _ = target.Get("health")
	assert.Equal(t, int32(90), attr.GetCurrentValue())
}

func TestManager_OngoingTagRequirementInhibitsWithoutRemoving(t *testing.T) {
	bus := event.NewBus()
	target := newHealth(bus)
	store := tagstore.NewStore("e1", flatRegistry{}, bus)
	mgr := effect.NewManager(effect.ManagerConfig{OwnerID: "e1", Target: target, TargetTags: store, Bus: bus, Cues: cue.NewNotifier(cue.NewRegistry(nil))})

	blessed := tag(t, "blessed")
	required := tagstore.NewContainer(flatRegistry{}, blessed)

	data := &effect.Data{
		Ref:               ref(t, "regen"),
		DurationType:      effect.DurationInfinite,
		Modifiers: []effect.Modifier{
			{AttributeKey: "health", Operation: effect.OpFlat, Magnitude: effect.ScalarMagnitude(-5)},
		},
		Components: []effect.Component{
			effect.TargetTagRequirementsComponent{Ongoing: effect.TagRequirement{Required: required}},
		},
	}

	store.AddBase(blessed)
	h, ok := mgr.ApplyEffect(context.Background(), effect.Application{Data: data})
	require.True(t, ok)

	attr, _ := target.Get("health")
	assert.Equal(t, int32(95), attr.GetCurrentValue())

	store.RemoveBase(blessed)
	ae, _ := mgr.Get(h)
	assert.True(t, ae.IsInhibited)
	attr, _ = target.Get("health")
	assert.Equal(t, int32(100), attr.GetCurrentValue(), "inhibited modifier is retracted, not the effect")
	assert.True(t, mgr.IsValid(h), "inhibition never removes the ActiveEffect")
}

func TestManager_CueMagnitude_AttributeValueChange(t *testing.T) {
	bus := event.NewBus()
	target := newHealth(bus)
	store := tagstore.NewStore("e1", flatRegistry{}, bus)
	registry := cue.NewRegistry(nil)
	handler := &recordingCue{}
	key := cueRef(t, "damage-tick")
	registry.Register(key, handler)
	mgr := effect.NewManager(effect.ManagerConfig{OwnerID: "e1", Target: target, TargetTags: store, Bus: bus, Cues: cue.NewNotifier(registry)})

	data := &effect.Data{
		Ref:          ref(t, "regen"),
		DurationType: effect.DurationInfinite,
		Modifiers: []effect.Modifier{
			{AttributeKey: "health", Operation: effect.OpFlat, Magnitude: effect.ScalarMagnitude(-5)},
		},
		Cues: []cue.Data{
			{Key: key, Type: cue.MagnitudeAttributeValueChange, SourceAttribute: "health", Min: -10, Max: 0},
		},
	}

	_, ok := mgr.ApplyEffect(context.Background(), effect.Application{Data: data})
	require.True(t, ok)

	require.Equal(t, []string{"apply"}, handler.events)
	assert.Equal(t, -5.0, handler.mags[0], "magnitude is the modifier's resolved delta, not a constant")
}

func TestManager_CueMagnitude_AttributeCurrentValueAndModifier(t *testing.T) {
	bus := event.NewBus()
	target := newHealth(bus)
	store := tagstore.NewStore("e1", flatRegistry{}, bus)
	registry := cue.NewRegistry(nil)
	currentHandler := &recordingCue{}
	modifierHandler := &recordingCue{}
	currentKey := cueRef(t, "health-current")
	modifierKey := cueRef(t, "health-modifier")
	registry.Register(currentKey, currentHandler)
	registry.Register(modifierKey, modifierHandler)
	mgr := effect.NewManager(effect.ManagerConfig{OwnerID: "e1", Target: target, TargetTags: store, Bus: bus, Cues: cue.NewNotifier(registry)})

	data := &effect.Data{
		Ref:          ref(t, "weaken"),
		DurationType: effect.DurationInfinite,
		Modifiers: []effect.Modifier{
			{AttributeKey: "health", Operation: effect.OpFlat, Magnitude: effect.ScalarMagnitude(-20)},
		},
		Cues: []cue.Data{
			{Key: currentKey, Type: cue.MagnitudeAttributeCurrentValue, SourceAttribute: "health", Min: 0, Max: 100},
			{Key: modifierKey, Type: cue.MagnitudeAttributeModifier, SourceAttribute: "health", Min: -100, Max: 0},
		},
	}

	_, ok := mgr.ApplyEffect(context.Background(), effect.Application{Data: data})
	require.True(t, ok)

	assert.Equal(t, 80.0, currentHandler.mags[0], "current-value magnitude reads the attribute's published current value")
	assert.Equal(t, -20.0, modifierHandler.mags[0], "modifier magnitude is current minus base")
}

func TestManager_CueMagnitude_EffectLevelAndStackCount(t *testing.T) {
	bus := event.NewBus()
	target := newHealth(bus)
	store := tagstore.NewStore("e1", flatRegistry{}, bus)
	registry := cue.NewRegistry(nil)
	levelHandler := &recordingCue{}
	stackHandler := &recordingCue{}
	levelKey := cueRef(t, "effect-level")
	stackKey := cueRef(t, "stack-count")
	registry.Register(levelKey, levelHandler)
	registry.Register(stackKey, stackHandler)
	mgr := effect.NewManager(effect.ManagerConfig{OwnerID: "e1", Target: target, TargetTags: store, Bus: bus, Cues: cue.NewNotifier(registry)})

	data := &effect.Data{
		Ref:          ref(t, "stacking-buff"),
		DurationType: effect.DurationInfinite,
		Stacking: &effect.StackingData{
			Limit:           5,
			OverflowPolicy:  effect.StackOverflowAllow,
			MagnitudePolicy: effect.StackMagnitudeSum,
		},
		Modifiers: []effect.Modifier{
			{AttributeKey: "health", Operation: effect.OpFlat, Magnitude: effect.ScalarMagnitude(1)},
		},
		Cues: []cue.Data{
			{Key: levelKey, Type: cue.MagnitudeEffectLevel, Min: 0, Max: 10},
			{Key: stackKey, Type: cue.MagnitudeStackCount, Min: 0, Max: 5},
		},
	}

	_, ok := mgr.ApplyEffect(context.Background(), effect.Application{Data: data, Level: 3})
	require.True(t, ok)
	assert.Equal(t, []float64{3}, levelHandler.mags)
	assert.Equal(t, []float64{1}, stackHandler.mags)

	_, ok = mgr.ApplyEffect(context.Background(), effect.Application{Data: data, Level: 3})
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2}, stackHandler.mags, "restack reports the new stack count, not a constant")
}

func TestManager_PeriodicExecuteOnApplication_AppliesBeforeExecuting(t *testing.T) {
	bus := event.NewBus()
	target := newHealth(bus)
	store := tagstore.NewStore("e1", flatRegistry{}, bus)
	registry := cue.NewRegistry(nil)
	handler := &recordingCue{}
	key := cueRef(t, "poison-tick")
	registry.Register(key, handler)
	mgr := effect.NewManager(effect.ManagerConfig{OwnerID: "e1", Target: target, TargetTags: store, Bus: bus, Cues: cue.NewNotifier(registry)})

	data := &effect.Data{
		Ref:          ref(t, "poison"),
		DurationType: effect.DurationInfinite,
		Modifiers: []effect.Modifier{
			{AttributeKey: "health", Operation: effect.OpFlat, Magnitude: effect.ScalarMagnitude(-5)},
		},
		Periodic: &effect.PeriodicData{
			Period:               effect.PeriodicPeriod{Magnitude: effect.ScalarMagnitude(1)},
			ExecuteOnApplication: true,
		},
		Cues: []cue.Data{
			{Key: key, Type: cue.MagnitudeAttributeValueChange, SourceAttribute: "health", Min: -10, Max: 0},
		},
	}

	_, ok := mgr.ApplyEffect(context.Background(), effect.Application{Data: data})
	require.True(t, ok)

	require.Equal(t, []string{"apply", "execute"}, handler.events,
		"applying a periodic effect with ExecuteOnApplication fires the apply cue before the first execute cue")
}

func TestManager_InhibitionTransition_RetractsTagsAndFiresRemoveCue(t *testing.T) {
	bus := event.NewBus()
	target := newHealth(bus)
	store := tagstore.NewStore("e1", flatRegistry{}, bus)
	registry := cue.NewRegistry(nil)
	handler := &recordingCue{}
	key := cueRef(t, "regen-glow")
	registry.Register(key, handler)
	mgr := effect.NewManager(effect.ManagerConfig{OwnerID: "e1", Target: target, TargetTags: store, Bus: bus, Cues: cue.NewNotifier(registry)})

	blessed := tag(t, "blessed")
	required := tagstore.NewContainer(flatRegistry{}, blessed)
	granted := tag(t, "glowing")

	data := &effect.Data{
		Ref:          ref(t, "regen"),
		DurationType: effect.DurationInfinite,
		Modifiers: []effect.Modifier{
			{AttributeKey: "health", Operation: effect.OpFlat, Magnitude: effect.ScalarMagnitude(-5)},
		},
		Components: []effect.Component{
			effect.TargetTagRequirementsComponent{Ongoing: effect.TagRequirement{Required: required}},
			effect.ModifierTagsComponent{Tags: []tagstore.Tag{granted}},
		},
		Cues: []cue.Data{
			{Key: key, Type: cue.MagnitudeAttributeValueChange, SourceAttribute: "health", Min: -10, Max: 0},
		},
	}

	store.AddBase(blessed)
	h, ok := mgr.ApplyEffect(context.Background(), effect.Application{Data: data})
	require.True(t, ok)
	assert.True(t, store.Combined().Has(granted), "granted modifier tag is present while applied")
	require.Equal(t, []string{"apply"}, handler.events)

	store.RemoveBase(blessed)
	ae, _ := mgr.Get(h)
	require.True(t, ae.IsInhibited)
	assert.False(t, store.Combined().Has(granted), "inhibition retracts the effect's granted tags")
	assert.Equal(t, []string{"apply", "remove"}, handler.events, "inhibition fires the remove cue")

	store.AddBase(blessed)
	ae, _ = mgr.Get(h)
	assert.False(t, ae.IsInhibited)
	assert.True(t, store.Combined().Has(granted), "uninhibiting re-adds the granted tags")
	assert.Equal(t, []string{"apply", "remove", "apply"}, handler.events, "uninhibiting fires the apply cue again")
}

func TestManager_StackMagnitudeMax_KeepsStrongestApplication(t *testing.T) {
	bus := event.NewBus()
	target := newHealth(bus)
	store := tagstore.NewStore("e1", flatRegistry{}, bus)
	mgr := effect.NewManager(effect.ManagerConfig{OwnerID: "e1", Target: target, TargetTags: store, Bus: bus, Cues: cue.NewNotifier(cue.NewRegistry(nil))})

	weak := &effect.Data{
		Ref:          ref(t, "max-stack"),
		DurationType: effect.DurationInfinite,
		Stacking: &effect.StackingData{
			Limit:           5,
			OverflowPolicy:  effect.StackOverflowAllow,
			MagnitudePolicy: effect.StackMagnitudeMax,
		},
		Modifiers: []effect.Modifier{
			{AttributeKey: "health", Operation: effect.OpFlat, Magnitude: effect.ScalarMagnitude(-10)},
		},
	}

	_, ok := mgr.ApplyEffect(context.Background(), effect.Application{Data: weak})
	require.True(t, ok)
	attr, _ := target.Get("health")
	assert.Equal(t, int32(90), attr.GetCurrentValue())

	strong := &effect.Data{
		Ref:          weak.Ref,
		DurationType: weak.DurationType,
		Stacking:     weak.Stacking,
		Modifiers: []effect.Modifier{
			{AttributeKey: "health", Operation: effect.OpFlat, Magnitude: effect.ScalarMagnitude(-30)},
		},
	}
	_, ok = mgr.ApplyEffect(context.Background(), effect.Application{Data: strong})
	require.True(t, ok)
	attr, _ = target.Get("health")
	assert.Equal(t, int32(70), attr.GetCurrentValue(), "stronger application's magnitude wins under StackMagnitudeMax")

	_, ok = mgr.ApplyEffect(context.Background(), effect.Application{Data: weak})
	require.True(t, ok)
	attr, _ = target.Get("health")
	assert.Equal(t, int32(70), attr.GetCurrentValue(), "a weaker re-application does not overwrite the stronger magnitude")
}
