package ability

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/gamesmiths-guild/forge-sub000/effect"
	"github.com/gamesmiths-guild/forge-sub000/event"
	"github.com/gamesmiths-guild/forge-sub000/forgeref"
	"github.com/gamesmiths-guild/forge-sub000/tagstore"
)

// permanentSource is the sentinel grant-source key used for abilities
// granted permanently rather than by an effect (spec.md §4.6.1: "a
// sentinel source that is never removed and never inhibited").
const permanentSource = "\x00permanent"

type sourceGrant struct {
	entity           forgeref.Entity
	inhibited        bool
	removalPolicy    effect.DeactivationPolicy
	inhibitionPolicy effect.DeactivationPolicy
}

type instance struct {
	behavior Behavior
	target   forgeref.Entity
}

type grantedAbility struct {
	handle Handle
	data   *Data
	level  int32

	permanent      bool
	ungranted      bool
	pendingRemoval bool

	grantSources map[string]sourceGrant
	instances    []*instance

	cooldownHandles map[string]effect.Handle

	triggerSubID      string
	triggerWasPresent bool
}

func (ga *grantedAbility) isInhibited() bool {
	if ga.permanent {
		return false
	}
	if len(ga.grantSources) == 0 {
		return false
	}
	inhibited := 0
	for _, sg := range ga.grantSources {
		if sg.inhibited {
			inhibited++
		}
	}
	return inhibited == len(ga.grantSources)
}

// sourceEntity returns an arbitrary granting source's entity, used to
// evaluate source tag requirements at activation time. When an ability
// has multiple concurrent grant sources (rare), the choice among them is
// unspecified.
func (ga *grantedAbility) sourceEntity() forgeref.Entity {
	for _, sg := range ga.grantSources {
		if sg.entity != nil {
			return sg.entity
		}
	}
	return nil
}

// Config wires an EntityAbilities to the one entity it owns.
type Config struct {
	OwnerID   string
	Owner     forgeref.Entity
	OwnerTags *tagstore.Store
	Effects   *effect.Manager
	Bus       event.EventBus
	Log       *logrus.Logger
}

// EntityAbilities tracks every ability granted to one entity: multi-
// source grant/inhibit/remove bookkeeping, gated activation, instance
// lifecycle, cost/cooldown commits and triggers (spec.md §4.6).
type EntityAbilities struct {
	ownerID   string
	owner     forgeref.Entity
	ownerTags *tagstore.Store
	effects   *effect.Manager
	bus       event.EventBus
	log       *logrus.Logger

	blockedAbilityTags map[string]int

	abilities map[Handle]*grantedAbility
	byData    map[string]Handle
}

// New creates an EntityAbilities for cfg.Owner.
func New(cfg Config) *EntityAbilities {
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &EntityAbilities{
		ownerID:            cfg.OwnerID,
		owner:              cfg.Owner,
		ownerTags:          cfg.OwnerTags,
		effects:            cfg.Effects,
		bus:                cfg.Bus,
		log:                log,
		blockedAbilityTags: make(map[string]int),
		abilities:          make(map[Handle]*grantedAbility),
		byData:             make(map[string]Handle),
	}
}

// TryGet returns the handle for data if it (or a coalesced grant of it)
// is currently granted.
func (a *EntityAbilities) TryGet(data *Data) (Handle, bool) {
	h, ok := a.byData[data.Ref.String()]
	return h, ok
}

// IsValid reports whether h refers to a currently granted (not fully
// ungranted) ability.
func (a *EntityAbilities) IsValid(h Handle) bool {
	ga, ok := a.abilities[h]
	return ok && !ga.ungranted
}

// IsActive reports whether h has at least one running instance.
func (a *EntityAbilities) IsActive(h Handle) bool {
	ga, ok := a.abilities[h]
	return ok && len(ga.instances) > 0
}

// IsInhibited reports whether h is currently inhibited.
func (a *EntityAbilities) IsInhibited(h Handle) bool {
	ga, ok := a.abilities[h]
	return ok && ga.isInhibited()
}

// Level returns h's current level.
func (a *EntityAbilities) Level(h Handle) (int32, bool) {
	ga, ok := a.abilities[h]
	if !ok {
		return 0, false
	}
	return ga.level, true
}

// GrantPermanently grants data outside any effect, via a sentinel source
// that is never removed and never inhibited (spec.md §4.6.1). Every call
// sets the ability's level, so among permanent grants the most recent
// one's level wins.
func (a *EntityAbilities) GrantPermanently(data *Data, level int32) Handle {
	h := a.grant(data, permanentSource, nil, level,
		effect.LevelComparisonLower|effect.LevelComparisonEqual|effect.LevelComparisonHigher,
		effect.DeactivationIgnore, effect.DeactivationIgnore)
	a.abilities[h].permanent = true
	return h
}

// GrantAndActivateOnce grants data permanently and immediately activates
// it once.
func (a *EntityAbilities) GrantAndActivateOnce(ctx context.Context, data *Data, target forgeref.Entity) (Handle, bool, ActivationFailure) {
	h := a.GrantPermanently(data, 1)
	ok, failure := a.Activate(ctx, h, target)
	return h, ok, failure
}

// Grant grants data to the owner, attributing the grant to source (a
// stable identifier, typically an ActiveEffect handle string), coalescing
// into any existing grant of the same Data per spec.md §4.6.1.
func (a *EntityAbilities) Grant(data *Data, source string, sourceEntity forgeref.Entity, level int32,
	levelOverride effect.LevelComparison, removalPolicy, inhibitionPolicy effect.DeactivationPolicy,
) Handle {
	return a.grant(data, source, sourceEntity, level, levelOverride, removalPolicy, inhibitionPolicy)
}

func (a *EntityAbilities) grant(data *Data, source string, sourceEntity forgeref.Entity, level int32,
	levelOverride effect.LevelComparison, removalPolicy, inhibitionPolicy effect.DeactivationPolicy,
) Handle {
	key := data.Ref.String()
	if h, ok := a.byData[key]; ok {
		ga := a.abilities[h]
		ga.grantSources[source] = sourceGrant{
			entity: sourceEntity, removalPolicy: removalPolicy, inhibitionPolicy: inhibitionPolicy,
		}
		ga.ungranted = false
		ga.pendingRemoval = false
		if levelOverride.Allows(level, ga.level) {
			ga.level = level
		}
		return h
	}

	h := newHandle()
	ga := &grantedAbility{
		handle: h,
		data:   data,
		level:  level,
		grantSources: map[string]sourceGrant{
			source: {entity: sourceEntity, removalPolicy: removalPolicy, inhibitionPolicy: inhibitionPolicy},
		},
		cooldownHandles: make(map[string]effect.Handle),
	}
	a.abilities[h] = ga
	a.byData[key] = h
	a.subscribeTrigger(ga)
	return h
}

// Revoke removes source's grant reference from h. When the last
// reference is removed the ability is ungranted per the policy that
// reference was configured with.
func (a *EntityAbilities) Revoke(ctx context.Context, h Handle, source string) {
	ga, ok := a.abilities[h]
	if !ok {
		return
	}
	sg, ok := ga.grantSources[source]
	if !ok {
		return
	}
	delete(ga.grantSources, source)
	if len(ga.grantSources) > 0 {
		return
	}

	ga.ungranted = true
	switch sg.removalPolicy {
	case effect.DeactivationCancelImmediately:
		a.Cancel(ctx, h)
		a.finalizeRemoval(h)
	case effect.DeactivationRemoveOnEnd:
		if len(ga.instances) == 0 {
			a.finalizeRemoval(h)
		} else {
			ga.pendingRemoval = true
		}
	default: // DeactivationIgnore
		if len(ga.instances) == 0 {
			a.finalizeRemoval(h)
		} else {
			ga.pendingRemoval = true
		}
	}
}

// SetInhibited updates whether source's grant of h is inhibited.
func (a *EntityAbilities) SetInhibited(ctx context.Context, h Handle, source string, inhibited bool) {
	ga, ok := a.abilities[h]
	if !ok {
		return
	}
	sg, ok := ga.grantSources[source]
	if !ok {
		return
	}
	sg.inhibited = inhibited
	ga.grantSources[source] = sg

	if ga.isInhibited() && sg.inhibitionPolicy == effect.DeactivationCancelImmediately {
		a.Cancel(ctx, h)
	}
}

func (a *EntityAbilities) finalizeRemoval(h Handle) {
	ga, ok := a.abilities[h]
	if !ok {
		return
	}
	if a.bus != nil && ga.triggerSubID != "" {
		_ = a.bus.Unsubscribe(ga.triggerSubID)
	}
	delete(a.abilities, h)
	delete(a.byData, ga.data.Ref.String())
}

// BlockTags reference-counts tags into the owner's blocked-ability-tag
// set (spec.md §4.6.2 step 3).
func (a *EntityAbilities) BlockTags(tags []tagstore.Tag) {
	for _, t := range tags {
		a.blockedAbilityTags[t.String()]++
	}
}

// UnblockTags releases one reference each from the owner's blocked-
// ability-tag set.
func (a *EntityAbilities) UnblockTags(tags []tagstore.Tag) {
	for _, t := range tags {
		key := t.String()
		if a.blockedAbilityTags[key] <= 0 {
			continue
		}
		a.blockedAbilityTags[key]--
		if a.blockedAbilityTags[key] == 0 {
			delete(a.blockedAbilityTags, key)
		}
	}
}

func (a *EntityAbilities) isBlocked(abilityTags []tagstore.Tag) bool {
	for _, t := range abilityTags {
		if a.blockedAbilityTags[t.String()] > 0 {
			return true
		}
	}
	return false
}

// CancelAbilitiesWithTag cancels every currently active ability (other
// than exclude) whose AbilityTags intersect tags.
func (a *EntityAbilities) CancelAbilitiesWithTag(ctx context.Context, exclude Handle, tags []tagstore.Tag) {
	if len(tags) == 0 {
		return
	}
	want := make(map[string]bool, len(tags))
	for _, t := range tags {
		want[t.String()] = true
	}
	for h, ga := range a.abilities {
		if h == exclude || len(ga.instances) == 0 {
			continue
		}
		for _, t := range ga.data.AbilityTags {
			if want[t.String()] {
				a.Cancel(ctx, h)
				break
			}
		}
	}
}

// Activate attempts to start an instance of h, evaluating every gate in
// spec.md §4.6.2's order and collecting every failing bit.
func (a *EntityAbilities) Activate(ctx context.Context, h Handle, target forgeref.Entity) (bool, ActivationFailure) {
	var failure ActivationFailure

	ga, ok := a.abilities[h]
	if !ok || ga.ungranted {
		return false, InvalidHandler
	}
	if ga.isInhibited() {
		failure |= Inhibited
	}

	combined := a.ownerTags.Combined()
	if !ga.data.OwnerRequirement.Satisfied(combined) {
		failure |= OwnerTagRequirements
	}

	if source := ga.sourceEntity(); source != nil {
		if sourceTags, ok := source.(tagged); ok {
			if !ga.data.SourceRequirement.Satisfied(sourceTags.Tags()) {
				failure |= SourceTagRequirements
			}
		}
	}
	if target != nil {
		if targetTags, ok := target.(tagged); ok {
			if !ga.data.TargetRequirement.Satisfied(targetTags.Tags()) {
				failure |= TargetTagRequirements
			}
		}
	} else if ga.data.TargetRequirement.Required != nil && ga.data.TargetRequirement.Required.Len() > 0 {
		failure |= TargetTagNotPresent
	}

	if a.isBlocked(ga.data.AbilityTags) {
		failure |= BlockedByTags
	}

	if ga.data.CostEffect != nil && !a.canAffordCost(ga.data.CostEffect) {
		failure |= InsufficientResources
	}

	if a.remainingCooldown(ga) > 0 {
		failure |= Cooldown
	}

	if ga.data.InstancingPolicy == InstancingPerEntity && !ga.data.RetriggerInstancedAbility && len(ga.instances) > 0 {
		failure |= PersistentInstanceActive
	}

	if !failure.OK() {
		return false, failure
	}

	for _, t := range ga.data.ActivationOwnedTags {
		a.ownerTags.AddModifier(t)
	}
	a.CancelAbilitiesWithTag(ctx, h, ga.data.CancelAbilitiesWithTag)
	a.BlockTags(ga.data.BlockAbilitiesWithTag)

	var behavior Behavior
	if ga.data.BehaviorFactory != nil {
		behavior = ga.data.BehaviorFactory()
	}
	inst := &instance{behavior: behavior, target: target}
	if ga.data.InstancingPolicy == InstancingPerEntity && len(ga.instances) > 0 {
		ga.instances[0] = inst
	} else {
		ga.instances = append(ga.instances, inst)
	}

	actx := ActivationContext{Handle: h, Owner: a.owner, Target: target, Level: ga.level}
	if behavior != nil {
		behavior.OnStarted(actx)
	}

	return true, 0
}

// tagged is satisfied by host entities that expose their own tag
// container for source/target requirement checks. Entities that don't
// implement it are treated as having no tags.
type tagged interface {
	Tags() *tagstore.Container
}

func (a *EntityAbilities) canAffordCost(cost *effect.Data) bool {
	for _, mod := range cost.Modifiers {
		if mod.Operation != effect.OpFlat || mod.Magnitude.Kind != effect.MagnitudeScalar {
			continue
		}
		if mod.Magnitude.Scalar >= 0 {
			continue
		}
		attr, err := a.effects.Target().Get(mod.AttributeKey)
		if err != nil {
			continue
		}
		if float64(attr.GetBaseValue())+mod.Magnitude.Scalar < float64(attr.GetMin()) {
			return false
		}
	}
	return true
}

func (a *EntityAbilities) remainingCooldown(ga *grantedAbility) float64 {
	var remaining float64
	for _, h := range ga.cooldownHandles {
		ae, ok := a.effects.Get(h)
		if !ok {
			continue
		}
		if ae.RemainingDuration > remaining {
			remaining = ae.RemainingDuration
		}
	}
	return remaining
}

// GetRemainingCooldownTime returns the remaining cooldown time associated
// with tag, or 0 if none is active.
func (a *EntityAbilities) GetRemainingCooldownTime(h Handle, tag tagstore.Tag) float64 {
	ga, ok := a.abilities[h]
	if !ok {
		return 0
	}
	ceh, ok := ga.cooldownHandles[tag.String()]
	if !ok {
		return 0
	}
	ae, ok := a.effects.Get(ceh)
	if !ok {
		return 0
	}
	return ae.RemainingDuration
}

// End ends the most recently started instance (or the sole PerEntity
// instance).
func (a *EntityAbilities) End(ctx context.Context, h Handle) bool {
	ga, ok := a.abilities[h]
	if !ok || len(ga.instances) == 0 {
		return false
	}
	last := len(ga.instances) - 1
	a.endInstance(ctx, h, ga, ga.instances[last], false)
	ga.instances = ga.instances[:last]
	a.afterInstanceEnded(h, ga)
	return true
}

// Cancel ends every active instance of h.
func (a *EntityAbilities) Cancel(ctx context.Context, h Handle) bool {
	ga, ok := a.abilities[h]
	if !ok || len(ga.instances) == 0 {
		return false
	}
	for _, inst := range ga.instances {
		a.endInstance(ctx, h, ga, inst, true)
	}
	ga.instances = nil
	a.afterInstanceEnded(h, ga)
	return true
}

func (a *EntityAbilities) endInstance(_ context.Context, h Handle, ga *grantedAbility, inst *instance, canceled bool) {
	for _, t := range ga.data.ActivationOwnedTags {
		a.ownerTags.RemoveModifier(t)
	}
	a.UnblockTags(ga.data.BlockAbilitiesWithTag)

	if inst.behavior != nil {
		inst.behavior.OnEnded(ActivationContext{Handle: h, Owner: a.owner, Target: inst.target, Level: ga.level}, canceled)
	}
	if a.bus != nil {
		ref := endedEventRef(ga.data.Ref)
		_ = a.bus.Publish(context.Background(), newAbilityEndedEvent(ref, h, canceled))
	}
}

func (a *EntityAbilities) afterInstanceEnded(h Handle, ga *grantedAbility) {
	if ga.pendingRemoval && len(ga.instances) == 0 {
		a.finalizeRemoval(h)
	}
}

// CommitCost applies h's cost effect as a permanent mutation.
func (a *EntityAbilities) CommitCost(ctx context.Context, h Handle) bool {
	ga, ok := a.abilities[h]
	if !ok || ga.data.CostEffect == nil {
		return false
	}
	a.effects.ApplyEffect(ctx, effect.Application{Data: ga.data.CostEffect, Owner: a.owner, Level: ga.level})
	return true
}

// CommitCooldown applies every one of h's cooldown effects. Reapplying
// while a cooldown effect from a prior commit is still active does not
// stack a second instance for the same cooldown id (spec.md §8's
// idempotence property): the existing handle is simply refreshed via the
// EffectsManager's own stacking (cooldown effects should be configured to
// stack-aggregate-by-target with a limit of one).
func (a *EntityAbilities) CommitCooldown(ctx context.Context, h Handle) bool {
	ga, ok := a.abilities[h]
	if !ok || len(ga.data.CooldownEffects) == 0 {
		return false
	}
	for _, cd := range ga.data.CooldownEffects {
		key, ok := cooldownTagKey(cd)
		if !ok {
			key = cd.Ref.String()
		}
		handle, ok := a.effects.ApplyEffect(ctx, effect.Application{Data: cd, Owner: a.owner, Level: ga.level})
		if !ok {
			continue
		}
		ga.cooldownHandles[key] = handle
	}
	return true
}

// cooldownTagKey returns the first tag attached to cd via a modifier-tags
// component — CooldownEffects are required to carry at least one tag
// identifying the cooldown (Data.CooldownEffects), and
// GetRemainingCooldownTime looks handles up by that same tag.
func cooldownTagKey(cd *effect.Data) (string, bool) {
	for _, c := range cd.Components {
		mtc, ok := c.(effect.ModifierTagsComponent)
		if !ok || len(mtc.Tags) == 0 {
			continue
		}
		return mtc.Tags[0].String(), true
	}
	return "", false
}

// CommitAbility commits both cost and cooldown.
func (a *EntityAbilities) CommitAbility(ctx context.Context, h Handle) bool {
	cost := a.CommitCost(ctx, h)
	cooldown := a.CommitCooldown(ctx, h)
	return cost || cooldown
}
