package effect

import (
	"github.com/gamesmiths-guild/forge-sub000/forgeref"
	"github.com/gamesmiths-guild/forge-sub000/tagstore"
)

// Ownership names the two entities an effect application involves: the
// target it was applied to, and the entity that caused the application
// (often but not always a different entity; equal to Owner for
// self-applied effects).
type Ownership struct {
	Owner  forgeref.Entity
	Source forgeref.Entity
}

// sourceID returns a stable string identifying Source, or "" if Source is
// nil (no external source, e.g. an environmental or self-applied
// effect). Used as the stacking identity key's source component.
func (o Ownership) sourceID() string {
	if o.Source == nil {
		return ""
	}
	return o.Source.GetID()
}

// AttributeSource is read access to one side of an attribute capture.
// Both *attribute.Set and *attribute.Sets satisfy it.
type AttributeSource interface {
	GetCurrentValue(key string) (int32, error)
}

// Application is a pending effect application (spec.md §2's "Effect: a
// pending application instance", distinct from both Data, the immutable
// template, and ActiveEffect, the live runtime instance).
type Application struct {
	Data   *Data
	Owner  forgeref.Entity
	Source forgeref.Entity

	// SourceAttributes backs CaptureSourceSource modifiers. May be nil if
	// Source has no attribute set (its captures then resolve as
	// unknown-attribute no-ops per spec.md §7).
	SourceAttributes AttributeSource

	Level int32
}

// modifierSlot is the bookkeeping EffectsManager keeps per modifier of a
// live ActiveEffect: the channel contribution most recently applied (so
// it can be retracted on removal or replaced on recompute) and whether
// that contribution is frozen (snapshotted) or re-sampled every tick.
type modifierSlot struct {
	resolved float64
	snapshot bool
}

// ActiveEffect is a live instance of an applied Data with
// DurationHasDuration or DurationInfinite (spec.md §4.4). Instant effects
// never produce one.
type ActiveEffect struct {
	Handle    Handle
	Data      *Data
	Ownership Ownership
	Level     int32
	StackCount int

	// HasDuration distinguishes a finite countdown (RemainingDuration
	// meaningful) from an infinite effect (RemainingDuration unused).
	HasDuration      bool
	RemainingDuration float64

	TimeSincePeriod float64

	modifiers []modifierSlot

	// IsInhibited reflects the most recent TargetTagRequirementsComponent
	// Ongoing evaluation. Modifiers, granted abilities and periodic
	// execution are all suspended while true.
	IsInhibited bool

	grantedTags []tagstore.Tag
}
