package effect

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/gamesmiths-guild/forge-sub000/attribute"
	"github.com/gamesmiths-guild/forge-sub000/cue"
	"github.com/gamesmiths-guild/forge-sub000/event"
	"github.com/gamesmiths-guild/forge-sub000/tagstore"
)

// ManagerConfig wires an EffectsManager to the one target entity it
// owns and its collaborators.
type ManagerConfig struct {
	OwnerID    string
	Target     *attribute.Sets
	TargetTags *tagstore.Store
	Bus        event.EventBus
	Cues       *cue.Notifier
	Log        *logrus.Logger

	// GrantHook is optional; GrantAbilityComponent is a no-op without
	// one.
	GrantHook GrantAbilityHook
}

// Manager applies, ticks, stacks, inhibits and removes effects for a
// single target entity (spec.md §4.4–§4.5). It owns no goroutines of its
// own: the host drives it by calling UpdateEffects once per tick.
type Manager struct {
	ownerID    string
	target     *attribute.Sets
	targetTags *tagstore.Store
	bus        event.EventBus
	cues       *cue.Notifier
	log        *logrus.Logger
	grantHook  GrantAbilityHook

	active     map[Handle]*ActiveEffect
	order      []Handle
	stackIndex map[string]Handle

	tagsSubID string
}

// NewManager creates an EffectsManager for cfg.Target. It subscribes to
// cfg.TargetTags's change notifications so ongoing tag requirements are
// re-evaluated the moment tag membership changes, not merely on the next
// tick.
func NewManager(cfg ManagerConfig) *Manager {
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	m := &Manager{
		ownerID:    cfg.OwnerID,
		target:     cfg.Target,
		targetTags: cfg.TargetTags,
		bus:        cfg.Bus,
		cues:       cfg.Cues,
		log:        log,
		grantHook:  cfg.GrantHook,
		active:     make(map[Handle]*ActiveEffect),
		stackIndex: make(map[string]Handle),
	}

	if m.bus != nil {
		id, err := event.Subscribe[*tagstore.TagsChangedEvent](m.bus, tagstore.RefTagsChanged,
			func(_ context.Context, e *tagstore.TagsChangedEvent) error {
				if e.EntityID != m.ownerID {
					return nil
				}
				m.reevaluateOngoingRequirements(context.Background())
				return nil
			}, nil)
		if err == nil {
			m.tagsSubID = id
		}
	}

	return m
}

// SetGrantHook wires or replaces the manager's GrantAbilityHook after
// construction. The forge composition root uses this: the hook's concrete
// adapter needs an already-built EntityAbilities, which in turn needs an
// already-built Manager, so the two can't both be supplied at each
// other's construction time.
func (m *Manager) SetGrantHook(hook GrantAbilityHook) { m.grantHook = hook }

// Close unsubscribes the manager from its bus topics.
func (m *Manager) Close() {
	if m.bus != nil && m.tagsSubID != "" {
		_ = m.bus.Unsubscribe(m.tagsSubID)
	}
}

// stackKey computes the identity an effect's Data+Ownership stacks
// under, or "" if the effect never stacks.
func (m *Manager) stackKey(app Application) string {
	if app.Data.Stacking == nil {
		return ""
	}
	if app.Data.Stacking.Policy == StackAggregateBySource {
		return fmt.Sprintf("%s|%s", app.Data.Ref.String(), app.Ownership().sourceID())
	}
	return app.Data.Ref.String()
}

// Ownership builds the Ownership pair for an Application.
func (app Application) Ownership() Ownership {
	return Ownership{Owner: app.Owner, Source: app.Source}
}

// sumModifierDelta sums the resolved modifier magnitude for every modifier
// in mods targeting attrKey, reading the value each modifier last resolved
// to from slots (aligned with mods by index). It backs
// cue.MagnitudeAttributeValueChange (spec.md §4.3): the "delta applied by
// this effect's modifier sum" for the attribute a cue cares about.
func sumModifierDelta(mods []Modifier, slots []modifierSlot, attrKey string) float64 {
	var total float64
	for i, mod := range mods {
		if mod.AttributeKey != attrKey || i >= len(slots) {
			continue
		}
		total += slots[i].resolved
	}
	return total
}

// sumModifierDeltaValues is sumModifierDelta's counterpart for instant
// effects, which resolve modifier values inline rather than persisting
// them in modifierSlots.
func sumModifierDeltaValues(mods []Modifier, resolved []float64, attrKey string) float64 {
	var total float64
	for i, mod := range mods {
		if mod.AttributeKey != attrKey || i >= len(resolved) {
			continue
		}
		total += resolved[i]
	}
	return total
}

// cueMagnitude derives a cue's raw magnitude from its configured Type
// (spec.md §4.3): the attribute delta this notification is reporting, the
// attribute's live values, or the owning effect's level/stack count.
// valueChange is ignored except for MagnitudeAttributeValueChange.
func (m *Manager) cueMagnitude(cd cue.Data, valueChange float64, level int32, stackCount int) float64 {
	switch cd.Type {
	case cue.MagnitudeAttributeValueChange:
		return valueChange
	case cue.MagnitudeAttributeCurrentValue:
		attr, err := m.target.Get(cd.SourceAttribute)
		if err != nil {
			return 0
		}
		return float64(attr.GetCurrentValue())
	case cue.MagnitudeAttributeModifier:
		attr, err := m.target.Get(cd.SourceAttribute)
		if err != nil {
			return 0
		}
		return float64(attr.GetCurrentValue() - attr.GetBaseValue())
	case cue.MagnitudeEffectLevel:
		return float64(level)
	case cue.MagnitudeStackCount:
		return float64(stackCount)
	default:
		return 0
	}
}

// Target returns the attribute set this manager mutates. Package ability
// uses it to sample resource attributes when simulating whether an
// ability's cost is affordable (spec.md §4.6.2's InsufficientResources
// check), without EntityAbilities keeping its own attribute reference.
func (m *Manager) Target() *attribute.Sets { return m.target }

// IsValid reports whether h still refers to a live ActiveEffect.
func (m *Manager) IsValid(h Handle) bool {
	_, ok := m.active[h]
	return ok
}

// Get returns the live ActiveEffect for h, if any.
func (m *Manager) Get(h Handle) (*ActiveEffect, bool) {
	ae, ok := m.active[h]
	return ae, ok
}

// Active returns every live ActiveEffect in application order.
func (m *Manager) Active() []*ActiveEffect {
	out := make([]*ActiveEffect, 0, len(m.order))
	for _, h := range m.order {
		if ae, ok := m.active[h]; ok {
			out = append(out, ae)
		}
	}
	return out
}

// ApplyEffect applies app to the manager's target (spec.md §4.4's
// application algorithm). It returns a Handle and true for a
// successfully applied or stacked duration/infinite effect. It returns
// the zero Handle and false for an instant effect (which has nothing to
// hold a handle to) and for a refused application (an Application
// tag requirement was not met, or the stacking policy denied a restack)
// — the host cannot distinguish the two
// from the return value alone, matching the host-facing
// Option<ActiveEffectHandle> interface spec.md §6 describes.
func (m *Manager) ApplyEffect(ctx context.Context, app Application) (Handle, bool) {
	for _, req := range app.Data.tagRequirements() {
		if !req.Application.Satisfied(m.targetTags.Combined()) {
			return Handle{}, false
		}
	}

	switch app.Data.DurationType {
	case DurationInstant:
		m.applyInstant(ctx, app)
		return Handle{}, false
	default:
		return m.applyDurational(ctx, app)
	}
}

func (m *Manager) resolveMagnitude(app Application, mod Modifier, existing *ActiveEffect, index int) (float64, bool) {
	capture, isAttrBased := mod.Magnitude.capture()
	if !isAttrBased {
		return mod.Magnitude.resolveAgainst(0), true
	}

	var src AttributeSource
	switch capture.Source {
	case CaptureSourceTarget:
		src = m.target
	case CaptureSourceSource:
		src = app.SourceAttributes
	}
	if src == nil {
		m.log.WithFields(logrus.Fields{"attribute": capture.AttributeKey, "effect": app.Data.Ref.String()}).
			Warn("forge/effect: attribute-based modifier has no attribute source, treated as no-op")
		return 0, false
	}

	val, err := src.GetCurrentValue(capture.AttributeKey)
	if err != nil {
		m.log.WithFields(logrus.Fields{"attribute": capture.AttributeKey, "effect": app.Data.Ref.String()}).
			Warn("forge/effect: attribute-based modifier references unknown attribute, treated as no-op")
		return 0, false
	}
	return mod.Magnitude.resolveAgainst(val), true
}

func (m *Manager) applyInstant(ctx context.Context, app Application) {
	anySucceeded := false
	resolved := make([]float64, len(app.Data.Modifiers))
	for i, mod := range app.Data.Modifiers {
		attr, err := m.target.Get(mod.AttributeKey)
		if err != nil {
			m.log.WithField("attribute", mod.AttributeKey).Warn("forge/effect: instant modifier targets unknown attribute")
			continue
		}
		value, ok := m.resolveMagnitude(app, mod, nil, 0)
		if !ok {
			continue
		}
		switch mod.Operation {
		case OpOverride:
			attr.ExecuteOverride(int32(value))
		case OpPercent:
			attr.ExecuteFlat(int32(float64(attr.GetBaseValue()) * value))
		case OpFlat:
			fallthrough
		default:
			attr.ExecuteFlat(int32(value))
		}
		resolved[i] = value
		anySucceeded = true
	}
	_ = m.target.ApplyPendingValueChanges(ctx)

	if anySucceeded || !app.Data.RequireModifierSuccessToTriggerCue {
		for _, cd := range app.Data.Cues {
			delta := sumModifierDeltaValues(app.Data.Modifiers, resolved, cd.SourceAttribute)
			m.cues.NotifyExecute(app.Owner, cd, m.cueMagnitude(cd, delta, app.Level, 1))
		}
	}
}

func (m *Manager) applyDurational(ctx context.Context, app Application) (Handle, bool) {
	key := m.stackKey(app)
	if key != "" {
		if h, ok := m.stackIndex[key]; ok {
			if ae, ok := m.active[h]; ok {
				return m.restack(ctx, ae, app)
			}
		}
	}

	ae := &ActiveEffect{
		Handle:      newHandle(),
		Data:        app.Data,
		Ownership:   app.Ownership(),
		Level:       app.Level,
		HasDuration: app.Data.DurationType == DurationHasDuration,
		modifiers:   make([]modifierSlot, len(app.Data.Modifiers)),
	}
	if app.Data.Stacking != nil {
		ae.StackCount = app.Data.Stacking.InitialStackCount
		if ae.StackCount < 1 {
			ae.StackCount = 1
		}
	} else {
		ae.StackCount = 1
	}
	if ae.HasDuration {
		ae.RemainingDuration = app.Data.DurationMagnitude.resolveAgainst(app.Level)
	}

	m.applyModifierSlots(app, ae)
	m.applyModifierTags(ae)
	ae.IsInhibited = !m.evaluateOngoing(ae)
	m.applyGrants(ae)

	m.active[ae.Handle] = ae
	m.order = append(m.order, ae.Handle)
	if key != "" {
		m.stackIndex[key] = ae.Handle
	}

	_ = m.target.ApplyPendingValueChanges(ctx)

	if !ae.IsInhibited {
		for _, cd := range app.Data.Cues {
			delta := sumModifierDelta(ae.Data.Modifiers, ae.modifiers, cd.SourceAttribute)
			m.cues.NotifyApply(ae.Ownership.Owner, cd, m.cueMagnitude(cd, delta, ae.Level, ae.StackCount))
		}
		if app.Data.Periodic != nil && app.Data.Periodic.ExecuteOnApplication {
			m.executePeriodic(ctx, ae)
		}
	}

	return ae.Handle, true
}

// restack folds a new application into an already-stacking ActiveEffect
// per spec.md §4.5.
func (m *Manager) restack(ctx context.Context, ae *ActiveEffect, app Application) (Handle, bool) {
	st := ae.Data.Stacking

	if st.LevelPolicy == StackLevelSegregateLevels {
		denied := app.Level != ae.Level
		if st.LevelDenialPolicy != LevelComparisonNone {
			denied = !st.LevelDenialPolicy.Allows(app.Level, ae.Level)
		}
		if denied {
			m.log.WithField("effect", ae.Data.Ref.String()).Warn("forge/effect: stacking application denied by level policy")
			return Handle{}, false
		}
	}

	if ae.StackCount >= st.Limit && st.Limit > 0 {
		if st.OverflowPolicy == StackOverflowDeny {
			m.log.WithField("effect", ae.Data.Ref.String()).Warn("forge/effect: stacking application denied at stack limit")
			return Handle{}, false
		}
	} else {
		ae.StackCount++
	}

	if st.LevelPolicy == StackLevelAggregateLevels && !ae.Data.SnapshotLevel && app.Level > ae.Level {
		ae.Level = app.Level
	}

	if !ae.Data.SnapshotLevel {
		m.retractModifierSlots(ae)
		m.applyModifierSlots(app, ae)
	}

	if st.ApplicationRefreshPolicy == StackRefreshOnSuccessfulApplication && ae.HasDuration {
		ae.RemainingDuration = ae.Data.DurationMagnitude.resolveAgainst(ae.Level)
	}
	if st.PeriodResetPolicy == PeriodResetOnRefresh {
		ae.TimeSincePeriod = 0
	}

	if !ae.Data.SuppressStackingCues {
		for _, cd := range ae.Data.Cues {
			delta := sumModifierDelta(ae.Data.Modifiers, ae.modifiers, cd.SourceAttribute)
			m.cues.NotifyUpdate(ae.Ownership.Owner, cd, m.cueMagnitude(cd, delta, ae.Level, ae.StackCount))
		}
	}

	_ = m.target.ApplyPendingValueChanges(ctx)
	return ae.Handle, true
}

func (m *Manager) applyModifierSlots(app Application, ae *ActiveEffect) {
	for i, mod := range app.Data.Modifiers {
		value, ok := m.resolveMagnitude(app, mod, nil, i)
		if !ok {
			continue
		}
		capture, isAttrBased := mod.Magnitude.capture()
		snapshot := !isAttrBased || capture.Snapshot

		if ae.Data.Stacking != nil {
			switch ae.Data.Stacking.MagnitudePolicy {
			case StackMagnitudeSum:
				value *= float64(ae.StackCount)
			case StackMagnitudeMax:
				if previous := ae.modifiers[i].resolved; math.Abs(previous) > math.Abs(value) {
					value = previous
				}
			case StackMagnitudeOverride:
				// Newest application wins; value is already this stack's
				// freshly resolved magnitude, so there's nothing to combine.
			}
		}

		attr, err := m.target.Get(mod.AttributeKey)
		if err != nil {
			m.log.WithField("attribute", mod.AttributeKey).Warn("forge/effect: modifier targets unknown attribute")
			continue
		}
		switch mod.Operation {
		case OpOverride:
			_ = attr.SetOverride(mod.Channel, int32(value))
		case OpPercent:
			_ = attr.AddPercentModifier(mod.Channel, value)
		case OpFlat:
			fallthrough
		default:
			_ = attr.AddFlatModifier(mod.Channel, int32(value))
		}
		ae.modifiers[i] = modifierSlot{resolved: value, snapshot: snapshot}
	}
}

func (m *Manager) retractModifierSlots(ae *ActiveEffect) {
	for i, mod := range ae.Data.Modifiers {
		slot := ae.modifiers[i]
		attr, err := m.target.Get(mod.AttributeKey)
		if err != nil {
			continue
		}
		switch mod.Operation {
		case OpOverride:
			_ = attr.ClearOverride(mod.Channel)
		case OpPercent:
			_ = attr.RemovePercentModifier(mod.Channel, slot.resolved)
		case OpFlat:
			fallthrough
		default:
			_ = attr.RemoveFlatModifier(mod.Channel, int32(slot.resolved))
		}
	}
}

func (m *Manager) applyModifierTags(ae *ActiveEffect) {
	for _, comp := range ae.Data.modifierTagComponents() {
		ae.grantedTags = append(ae.grantedTags, comp.Tags...)
		for _, t := range comp.Tags {
			m.targetTags.AddModifier(t)
		}
	}
}

func (m *Manager) retractModifierTags(ae *ActiveEffect) {
	for _, t := range ae.grantedTags {
		m.targetTags.RemoveModifier(t)
	}
	ae.grantedTags = nil
}

func (m *Manager) evaluateOngoing(ae *ActiveEffect) bool {
	combined := m.targetTags.Combined()
	for _, req := range ae.Data.tagRequirements() {
		if !req.Ongoing.Satisfied(combined) {
			return false
		}
	}
	return true
}

func (m *Manager) evaluateRemoval(ae *ActiveEffect) bool {
	combined := m.targetTags.Combined()
	for _, req := range ae.Data.tagRequirements() {
		if req.Removal.Required != nil || req.Removal.Blocked != nil {
			if req.Removal.Satisfied(combined) {
				return true
			}
		}
	}
	return false
}

func (m *Manager) applyGrants(ae *ActiveEffect) {
	if m.grantHook == nil {
		return
	}
	for _, g := range ae.Data.grants() {
		level := int32(float64(ae.Level) * g.LevelScaling)
		m.grantHook.Grant(ae.Ownership.Owner, ae.Handle.String(), g, level)
	}
}

func (m *Manager) revokeGrants(ae *ActiveEffect) {
	if m.grantHook == nil {
		return
	}
	for _, g := range ae.Data.grants() {
		m.grantHook.Revoke(ae.Ownership.Owner, ae.Handle.String(), g)
	}
}

func (m *Manager) setGrantsInhibited(ae *ActiveEffect, inhibited bool) {
	if m.grantHook == nil {
		return
	}
	for _, g := range ae.Data.grants() {
		m.grantHook.SetInhibited(ae.Ownership.Owner, ae.Handle.String(), g, inhibited)
	}
}

// applyInhibitionTransition reacts to ae.IsInhibited flipping (spec.md
// §4.4): an inhibited effect retracts its modifier channel contributions
// and granted tags and fires its remove cue, exactly as if it had been
// unapplied; uninhibiting reapplies both and fires the apply cue again.
// Granted abilities are separately notified via setGrantsInhibited.
func (m *Manager) applyInhibitionTransition(ctx context.Context, ae *ActiveEffect) {
	m.setGrantsInhibited(ae, ae.IsInhibited)

	if ae.IsInhibited {
		m.retractModifierSlots(ae)
		m.retractModifierTags(ae)
		for _, cd := range ae.Data.Cues {
			m.cues.NotifyRemove(ae.Ownership.Owner, cd, false)
		}
		return
	}

	if ae.Data.Periodic != nil && ae.Data.Periodic.InhibitionRemovedPolicy == PeriodInhibitionRemovedReset {
		ae.TimeSincePeriod = 0
	}
	m.applyModifierSlots(Application{Data: ae.Data, Owner: ae.Ownership.Owner, Source: ae.Ownership.Source, Level: ae.Level}, ae)
	m.applyModifierTags(ae)
	for _, cd := range ae.Data.Cues {
		delta := sumModifierDelta(ae.Data.Modifiers, ae.modifiers, cd.SourceAttribute)
		m.cues.NotifyApply(ae.Ownership.Owner, cd, m.cueMagnitude(cd, delta, ae.Level, ae.StackCount))
	}
}

func (m *Manager) reevaluateOngoingRequirements(ctx context.Context) {
	for _, ae := range m.Active() {
		wasInhibited := ae.IsInhibited
		ae.IsInhibited = !m.evaluateOngoing(ae)
		if ae.IsInhibited == wasInhibited {
			continue
		}
		m.applyInhibitionTransition(ctx, ae)
	}
	_ = m.target.ApplyPendingValueChanges(ctx)
}

// UnapplyEffect removes the ActiveEffect identified by h, retracting its
// modifiers, tags and grants and firing its remove cue. interrupted
// should be true unless the removal is a natural expiration driven by
// UpdateEffects.
func (m *Manager) UnapplyEffect(ctx context.Context, h Handle, interrupted bool) bool {
	ae, ok := m.active[h]
	if !ok {
		return false
	}
	m.removeActive(ctx, ae, interrupted)
	return true
}

func (m *Manager) removeActive(ctx context.Context, ae *ActiveEffect, interrupted bool) {
	m.retractModifierSlots(ae)
	m.retractModifierTags(ae)
	m.revokeGrants(ae)

	delete(m.active, ae.Handle)
	for i, h := range m.order {
		if h == ae.Handle {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	for k, h := range m.stackIndex {
		if h == ae.Handle {
			delete(m.stackIndex, k)
			break
		}
	}

	_ = m.target.ApplyPendingValueChanges(ctx)

	for _, cd := range ae.Data.Cues {
		m.cues.NotifyRemove(ae.Ownership.Owner, cd, interrupted)
	}
}

// UpdateEffects advances every live ActiveEffect by dt seconds, in
// application order: inhibition re-check, timer advance, periodic
// execution, then duration decrement and expiration (spec.md §4.4's tick
// algorithm).
func (m *Manager) UpdateEffects(ctx context.Context, dt float64) {
	for _, ae := range m.Active() {
		if m.evaluateRemoval(ae) {
			m.removeActive(ctx, ae, false)
			continue
		}

		wasInhibited := ae.IsInhibited
		ae.IsInhibited = !m.evaluateOngoing(ae)
		if ae.IsInhibited != wasInhibited {
			m.applyInhibitionTransition(ctx, ae)
		}

		if ae.IsInhibited {
			continue
		}

		m.recomputeLiveModifiers(ae)

		if ae.Data.Periodic != nil {
			ae.TimeSincePeriod += dt
			period := ae.Data.Periodic.Period.Seconds(ae.Level)
			for period > 0 && ae.TimeSincePeriod >= period {
				ae.TimeSincePeriod -= period
				m.executePeriodic(ctx, ae)
			}
		}

		if ae.HasDuration {
			ae.RemainingDuration -= dt
			if ae.RemainingDuration <= 0 {
				m.expire(ctx, ae)
			}
		}
	}
	_ = m.target.ApplyPendingValueChanges(ctx)
}

// recomputeLiveModifiers re-samples non-snapshot attribute-based
// modifiers every tick and reapplies their channel contribution if it
// changed.
func (m *Manager) recomputeLiveModifiers(ae *ActiveEffect) {
	changed := false
	deltaByAttr := make(map[string]float64)
	for i, mod := range ae.Data.Modifiers {
		capture, isAttrBased := mod.Magnitude.capture()
		if !isAttrBased || capture.Snapshot {
			continue
		}
		app := Application{Data: ae.Data, Owner: ae.Ownership.Owner, Source: ae.Ownership.Source, Level: ae.Level}
		value, ok := m.resolveMagnitude(app, mod, ae, i)
		if !ok || value == ae.modifiers[i].resolved {
			continue
		}
		attr, err := m.target.Get(mod.AttributeKey)
		if err != nil {
			continue
		}
		switch mod.Operation {
		case OpOverride:
			_ = attr.SetOverride(mod.Channel, int32(value))
		case OpPercent:
			_ = attr.RemovePercentModifier(mod.Channel, ae.modifiers[i].resolved)
			_ = attr.AddPercentModifier(mod.Channel, value)
		case OpFlat:
			fallthrough
		default:
			_ = attr.RemoveFlatModifier(mod.Channel, int32(ae.modifiers[i].resolved))
			_ = attr.AddFlatModifier(mod.Channel, int32(value))
		}
		deltaByAttr[mod.AttributeKey] += value - ae.modifiers[i].resolved
		ae.modifiers[i].resolved = value
		changed = true
	}
	if changed {
		for _, cd := range ae.Data.Cues {
			m.cues.NotifyUpdate(ae.Ownership.Owner, cd, m.cueMagnitude(cd, deltaByAttr[cd.SourceAttribute], ae.Level, ae.StackCount))
		}
	}
}

func (m *Manager) executePeriodic(ctx context.Context, ae *ActiveEffect) {
	for i, mod := range ae.Data.Modifiers {
		attr, err := m.target.Get(mod.AttributeKey)
		if err != nil {
			continue
		}
		value := ae.modifiers[i].resolved
		switch mod.Operation {
		case OpOverride:
			attr.ExecuteOverride(int32(value))
		case OpPercent:
			attr.ExecuteFlat(int32(float64(attr.GetBaseValue()) * value))
		case OpFlat:
			fallthrough
		default:
			attr.ExecuteFlat(int32(value))
		}
	}
	_ = m.target.ApplyPendingValueChanges(ctx)
	for _, cd := range ae.Data.Cues {
		delta := sumModifierDelta(ae.Data.Modifiers, ae.modifiers, cd.SourceAttribute)
		m.cues.NotifyExecute(ae.Ownership.Owner, cd, m.cueMagnitude(cd, delta, ae.Level, ae.StackCount))
	}
}

func (m *Manager) expire(ctx context.Context, ae *ActiveEffect) {
	if ae.Data.Stacking != nil && ae.StackCount > 1 &&
		ae.Data.Stacking.ExpirationPolicy == StackExpirationRemoveSingleAndRefresh {
		ae.StackCount--
		ae.RemainingDuration = ae.Data.DurationMagnitude.resolveAgainst(ae.Level)
		if !ae.Data.SuppressStackingCues {
			for _, cd := range ae.Data.Cues {
				m.cues.NotifyUpdate(ae.Ownership.Owner, cd, m.cueMagnitude(cd, 0, ae.Level, ae.StackCount))
			}
		}
		return
	}
	m.removeActive(ctx, ae, false)
}
