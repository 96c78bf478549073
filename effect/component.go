package effect

import (
	"github.com/gamesmiths-guild/forge-sub000/forgeref"
	"github.com/gamesmiths-guild/forge-sub000/tagstore"
)

// ComponentKind discriminates the Component tagged union.
type ComponentKind int

const (
	// ComponentModifierTags grants the target a set of tags for as long
	// as the owning ActiveEffect is live.
	ComponentModifierTags ComponentKind = iota
	// ComponentTargetTagRequirements gates application, ongoing
	// inhibition, and removal on the target's tag state.
	ComponentTargetTagRequirements
	// ComponentGrantAbility grants one or more abilities for as long as
	// the owning ActiveEffect is live.
	ComponentGrantAbility
)

// Component is one optional, composable piece of effect behavior
// (spec.md §3's effect_components list). EffectData carries zero or more
// of these rather than a fixed set of optional fields, so new component
// kinds can be added without widening EffectData itself.
type Component interface {
	Kind() ComponentKind
}

// ModifierTagsComponent adds Tags to the target's tag store for as long
// as the owning ActiveEffect is live and uninhibited.
type ModifierTagsComponent struct {
	Tags []tagstore.Tag
}

// Kind implements Component.
func (ModifierTagsComponent) Kind() ComponentKind { return ComponentModifierTags }

// TagRequirement is a required/blocked tag pair evaluated against a
// target's combined tag container.
type TagRequirement struct {
	Required *tagstore.Container
	Blocked  *tagstore.Container
}

// Satisfied reports whether combined meets the requirement. A nil
// Required or Blocked container is treated as "no constraint".
func (r TagRequirement) Satisfied(combined *tagstore.Container) bool {
	if r.Required != nil && r.Required.Len() > 0 && !combined.HasAll(r.Required) {
		return false
	}
	if r.Blocked != nil && r.Blocked.Len() > 0 && combined.HasAny(r.Blocked) {
		return false
	}
	return true
}

// TargetTagRequirementsComponent gates an effect's lifecycle on the
// target's tags at three distinct points (spec.md §4.4): Application
// (checked once, before the effect is ever applied), Ongoing (checked
// continuously; failing it inhibits rather than removes a
// duration/infinite effect), and Removal (checked continuously; meeting
// it force-removes the effect).
type TargetTagRequirementsComponent struct {
	Application TagRequirement
	Ongoing     TagRequirement
	Removal     TagRequirement
}

// Kind implements Component.
func (TargetTagRequirementsComponent) Kind() ComponentKind {
	return ComponentTargetTagRequirements
}

// GrantSpec configures one ability grant. AbilityRef is deliberately an
// opaque *forgeref.Ref rather than an *ability.Data: package ability
// depends on package effect (AbilityData embeds cost/cooldown
// *effect.Data), so effect cannot import ability without creating the
// cyclic reference spec.md §9 calls out. The EffectsManager resolves the
// ref to a concrete grant through the pluggable GrantAbilityHook instead.
type GrantSpec struct {
	AbilityRef *forgeref.Ref

	// LevelScaling multiplies the owning ActiveEffect's level to produce
	// the granted ability's effective level, e.g. 1.0 for a 1:1 mapping.
	LevelScaling float64

	// RemovalPolicy governs in-progress activations when the grant is
	// revoked (the owning effect is removed or expires).
	RemovalPolicy DeactivationPolicy
	// InhibitionPolicy governs in-progress activations when the grant is
	// inhibited (the owning effect fails its ongoing tag requirement).
	InhibitionPolicy DeactivationPolicy

	TryActivateOnGrant  bool
	TryActivateOnEnable bool
}

// GrantAbilityComponent grants one or more abilities for as long as the
// owning ActiveEffect is live and uninhibited.
type GrantAbilityComponent struct {
	Grants []GrantSpec
}

// Kind implements Component.
func (GrantAbilityComponent) Kind() ComponentKind { return ComponentGrantAbility }

// GrantAbilityHook bridges the effect package to the ability package
// without an import cycle (see GrantSpec's doc comment). EffectsManager
// calls it whenever a GrantAbilityComponent's lifecycle needs to take
// effect; the forge composition-root package supplies the concrete
// implementation backed by ability.EntityAbilities.
type GrantAbilityHook interface {
	Grant(owner forgeref.Entity, source string, grant GrantSpec, level int32)
	Revoke(owner forgeref.Entity, source string, grant GrantSpec)
	SetInhibited(owner forgeref.Entity, source string, grant GrantSpec, inhibited bool)
}
