// Package effect implements the effect lifecycle state machine described
// in spec.md §3–§4.5: immutable EffectData, live ActiveEffect instances,
// and the EffectsManager that applies, stacks, ticks, inhibits and
// removes them.
package effect

// DurationType classifies how long an effect's modifiers remain live.
type DurationType int

const (
	// DurationInstant effects apply a permanent base-value mutation once
	// and are discarded — no ActiveEffect is kept.
	DurationInstant DurationType = iota
	// DurationHasDuration effects live for a finite number of seconds.
	DurationHasDuration
	// DurationInfinite effects live until explicitly unapplied.
	DurationInfinite
)

// Operation describes how a modifier's magnitude combines with an
// attribute's channel.
type Operation int

const (
	// OpFlat adds magnitude to the channel's flat sum.
	OpFlat Operation = iota
	// OpPercent adds magnitude (a fraction) to the channel's percent sum.
	OpPercent
	// OpOverride pins the channel's output to magnitude.
	OpOverride
)

// StackPolicy decides whether repeat applications from different sources
// collapse onto the same ActiveEffect.
type StackPolicy int

const (
	// StackAggregateBySource only stacks applications sharing a source.
	StackAggregateBySource StackPolicy = iota
	// StackAggregateByTarget stacks regardless of source.
	StackAggregateByTarget
)

// StackLevelPolicy decides how a stacked effect's level is resolved.
type StackLevelPolicy int

const (
	// StackLevelAggregateLevels keeps the maximum of the existing and
	// incoming level.
	StackLevelAggregateLevels StackLevelPolicy = iota
	// StackLevelSegregateLevels refuses to stack applications whose level
	// doesn't already match. When StackingData.LevelDenialPolicy is set,
	// its permitted comparisons decide instead.
	StackLevelSegregateLevels
)

// StackMagnitudePolicy decides how a stacked effect's modifier magnitudes
// combine.
type StackMagnitudePolicy int

const (
	// StackMagnitudeSum adds magnitudes across stacks.
	StackMagnitudeSum StackMagnitudePolicy = iota
	// StackMagnitudeMax keeps the larger magnitude.
	StackMagnitudeMax
	// StackMagnitudeOverride replaces with the newest magnitude.
	StackMagnitudeOverride
)

// StackOverflowPolicy decides what happens when a stack is already at its
// configured limit.
type StackOverflowPolicy int

const (
	// StackOverflowDeny refuses the application entirely once at the
	// limit.
	StackOverflowDeny StackOverflowPolicy = iota
	// StackOverflowAllow applies magnitude/duration effects without
	// incrementing stack count further.
	StackOverflowAllow
)

// StackExpirationPolicy decides how a stacked effect's duration
// expiration is handled.
type StackExpirationPolicy int

const (
	// StackExpirationClearEntireStack removes the whole ActiveEffect on
	// expiration regardless of stack count.
	StackExpirationClearEntireStack StackExpirationPolicy = iota
	// StackExpirationRemoveSingleAndRefresh decrements stack count by one
	// and refreshes duration, only removing the effect once the count
	// reaches zero.
	StackExpirationRemoveSingleAndRefresh
)

// StackApplicationRefreshPolicy decides whether a repeat application
// resets remaining duration.
type StackApplicationRefreshPolicy int

const (
	// StackRefreshNever leaves remaining duration untouched on restack.
	StackRefreshNever StackApplicationRefreshPolicy = iota
	// StackRefreshOnSuccessfulApplication resets remaining duration to
	// the effect's configured duration on every successful restack.
	StackRefreshOnSuccessfulApplication
)

// PeriodResetPolicy decides whether a restack resets the periodic timer.
type PeriodResetPolicy int

const (
	// PeriodKeepOnRefresh leaves the periodic timer untouched on restack.
	PeriodKeepOnRefresh PeriodResetPolicy = iota
	// PeriodResetOnRefresh restarts the periodic timer on restack.
	PeriodResetOnRefresh
)

// PeriodInhibitionRemovedPolicy decides whether the periodic timer resets
// when an effect transitions from inhibited to uninhibited.
type PeriodInhibitionRemovedPolicy int

const (
	// PeriodInhibitionRemovedReset restarts the periodic timer on
	// uninhibit (spec.md §9's Open Question 1 default).
	PeriodInhibitionRemovedReset PeriodInhibitionRemovedPolicy = iota
	// PeriodInhibitionRemovedNeverReset leaves the periodic timer
	// untouched on uninhibit.
	PeriodInhibitionRemovedNeverReset
)

// LevelComparison is a bitflag subset of {Lower, Equal, Higher} describing
// which level comparisons are permitted for a level-denial or
// level-override decision (spec.md §4.6.1).
type LevelComparison uint8

const (
	// LevelComparisonNone permits no comparisons.
	LevelComparisonNone LevelComparison = 0
	// LevelComparisonLower permits when the incoming level is lower.
	LevelComparisonLower LevelComparison = 1 << iota
	// LevelComparisonEqual permits when the incoming level is equal.
	LevelComparisonEqual
	// LevelComparisonHigher permits when the incoming level is higher.
	LevelComparisonHigher
)

// Has reports whether flag is included in lc.
func (lc LevelComparison) Has(flag LevelComparison) bool { return lc&flag != 0 }

// Allows reports whether the comparison between incoming and current
// level is permitted by lc.
func (lc LevelComparison) Allows(incoming, current int32) bool {
	switch {
	case incoming < current:
		return lc.Has(LevelComparisonLower)
	case incoming == current:
		return lc.Has(LevelComparisonEqual)
	default:
		return lc.Has(LevelComparisonHigher)
	}
}

// DeactivationPolicy describes how a granted ability reacts to its
// granting effect being removed or inhibited (spec.md §4.6.1). It lives
// here, not in package ability, because GrantSpec (an effect component)
// needs it and package ability already depends on package effect for
// EffectData — making effect depend on ability would create the cycle
// spec.md §9 calls out between effects and abilities.
type DeactivationPolicy int

const (
	// DeactivationIgnore takes no action.
	DeactivationIgnore DeactivationPolicy = iota
	// DeactivationCancelImmediately ends every active instance
	// immediately.
	DeactivationCancelImmediately
	// DeactivationRemoveOnEnd defers the reaction until the ability's
	// last active instance ends naturally.
	DeactivationRemoveOnEnd
)
