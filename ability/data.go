package ability

import (
	"github.com/gamesmiths-guild/forge-sub000/effect"
	"github.com/gamesmiths-guild/forge-sub000/forgeref"
	"github.com/gamesmiths-guild/forge-sub000/tagstore"
)

// TriggerData registers an ability to activate (and, for TriggerTagPresent,
// end) automatically rather than only on an explicit Activate call
// (spec.md §4.6.5).
type TriggerData struct {
	Kind TriggerKind
	Tag  tagstore.Tag
	// EventRef is only consulted when Kind is TriggerEvent.
	EventRef *forgeref.Ref
}

// ActivationContext is passed to a Behavior's lifecycle hooks.
type ActivationContext struct {
	Handle Handle
	Owner  forgeref.Entity
	Target forgeref.Entity
	Level  int32
}

// Behavior is the host-supplied gameplay logic an ability runs when it
// starts and ends. Forge drives the state machine; Behavior decides what
// the ability actually does (spell effects, animations triggered,
// whatever the host's domain requires).
type Behavior interface {
	OnStarted(ctx ActivationContext)
	OnEnded(ctx ActivationContext, wasCanceled bool)
}

//go:generate mockgen -destination=mock/mock_behavior.go -package=mock github.com/gamesmiths-guild/forge-sub000/ability Behavior

// Data is an ability's immutable configuration (spec.md §3, §4.6).
type Data struct {
	Ref  *forgeref.Ref
	Name string

	// CostEffect, when set, must be a DurationInstant effect applied by
	// CommitCost as a permanent mutation.
	CostEffect *effect.Data
	// CooldownEffects, when set, must each be DurationHasDuration and
	// carry at least one tag identifying the cooldown; CommitCooldown
	// applies all of them.
	CooldownEffects []*effect.Data

	AbilityTags            []tagstore.Tag
	CancelAbilitiesWithTag []tagstore.Tag
	BlockAbilitiesWithTag  []tagstore.Tag
	ActivationOwnedTags    []tagstore.Tag

	OwnerRequirement  effect.TagRequirement
	SourceRequirement effect.TagRequirement
	TargetRequirement effect.TagRequirement

	InstancingPolicy          InstancingPolicy
	RetriggerInstancedAbility bool

	Trigger *TriggerData

	BehaviorFactory func() Behavior
}
