package effect

import (
	"github.com/gamesmiths-guild/forge-sub000/cue"
	"github.com/gamesmiths-guild/forge-sub000/forgeref"
)

// PeriodicData configures an effect that executes its modifiers
// repeatedly on a timer rather than continuously for its duration
// (spec.md §3).
type PeriodicData struct {
	// Period is the time, in seconds, between executions. It may itself
	// be attribute-based or curve-based (e.g. haste shortening a tick
	// interval), so it is a Magnitude rather than a bare float64; a
	// MagnitudeScalar Period is the common case.
	Period PeriodicPeriod

	// ExecuteOnApplication fires one execution immediately on apply,
	// before the first timer interval elapses.
	ExecuteOnApplication bool

	InhibitionRemovedPolicy PeriodInhibitionRemovedPolicy
}

// PeriodicPeriod wraps a Magnitude so its resolved value always reads as
// seconds.
type PeriodicPeriod struct {
	Magnitude Magnitude
}

// Seconds resolves the configured period. attributeValue is ignored
// unless the period is attribute-based.
func (p PeriodicPeriod) Seconds(attributeValue int32) float64 {
	v := p.Magnitude.resolveAgainst(attributeValue)
	if v <= 0 {
		return 0
	}
	return v
}

// StackingData configures how repeat applications of the same effect
// onto the same target combine (spec.md §4.5). A nil *StackingData on
// Data means the effect never stacks — each application creates an
// independent ActiveEffect.
type StackingData struct {
	Limit             int
	InitialStackCount int

	Policy      StackPolicy
	LevelPolicy StackLevelPolicy

	// LevelDenialPolicy, when non-zero, refuses a restack whose level
	// relationship to the current stack is not among the permitted
	// comparisons (only meaningful under StackLevelSegregateLevels).
	LevelDenialPolicy LevelComparison

	MagnitudePolicy          StackMagnitudePolicy
	OverflowPolicy           StackOverflowPolicy
	ExpirationPolicy         StackExpirationPolicy
	ApplicationRefreshPolicy StackApplicationRefreshPolicy
	PeriodResetPolicy        PeriodResetPolicy
}

// Data is an effect's immutable configuration — the template an
// Application references and an EffectsManager instantiates into an
// ActiveEffect (spec.md §2 and §3).
type Data struct {
	Ref  *forgeref.Ref
	Name string

	DurationType DurationType
	// DurationMagnitude resolves to the effect's duration in seconds.
	// Unused when DurationType is DurationInstant or DurationInfinite.
	DurationMagnitude Magnitude

	Modifiers []Modifier
	Periodic  *PeriodicData
	Stacking  *StackingData

	// SnapshotLevel freezes the effect's level at apply time; without
	// it, a stacked effect's level can change on restack per
	// StackLevelPolicy.
	SnapshotLevel bool

	// RequireModifierSuccessToTriggerCue suppresses an instant effect's
	// execute cues when none of its modifiers applied (each targeted an
	// unknown attribute or could not resolve its captured attribute).
	// Only instant application checks it: the apply cues of
	// duration/infinite effects and periodic execute cues fire regardless.
	RequireModifierSuccessToTriggerCue bool

	// SuppressStackingCues suppresses the update cue a stack-count change
	// would otherwise fire.
	SuppressStackingCues bool

	Cues []cue.Data

	Components []Component
}

// componentsOfKind filters Data.Components by kind.
func (d *Data) componentsOfKind(kind ComponentKind) []Component {
	var out []Component
	for _, c := range d.Components {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

func (d *Data) tagRequirements() []TargetTagRequirementsComponent {
	var out []TargetTagRequirementsComponent
	for _, c := range d.componentsOfKind(ComponentTargetTagRequirements) {
		out = append(out, c.(TargetTagRequirementsComponent))
	}
	return out
}

func (d *Data) grants() []GrantSpec {
	var out []GrantSpec
	for _, c := range d.componentsOfKind(ComponentGrantAbility) {
		out = append(out, c.(GrantAbilityComponent).Grants...)
	}
	return out
}

func (d *Data) modifierTagComponents() []ModifierTagsComponent {
	var out []ModifierTagsComponent
	for _, c := range d.componentsOfKind(ComponentModifierTags) {
		out = append(out, c.(ModifierTagsComponent))
	}
	return out
}
