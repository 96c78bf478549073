package ability

import (
	"context"

	"github.com/gamesmiths-guild/forge-sub000/event"
	"github.com/gamesmiths-guild/forge-sub000/tagstore"
)

// subscribeTrigger registers ga.data.Trigger (if any) against the event
// bus, activating (and, for TriggerTagPresent, ending) ga on the
// transitions spec.md §4.6.5 describes. The subscription id is recorded
// on ga so finalizeRemoval can drop it when the ability is fully
// ungranted — triggers must never outlive their ability (spec.md §4.6.5:
// "all subscriptions must be dropped when the ability is ungranted to
// avoid zombie activations").
func (a *EntityAbilities) subscribeTrigger(ga *grantedAbility) {
	trigger := ga.data.Trigger
	if trigger == nil || a.bus == nil {
		return
	}

	switch trigger.Kind {
	case TriggerEvent:
		id, err := a.bus.Subscribe(trigger.EventRef, func(_ context.Context, _ event.Event) error {
			_, _ = a.Activate(context.Background(), ga.handle, nil)
			return nil
		})
		if err == nil {
			ga.triggerSubID = id
		}

	case TriggerTagAdded, TriggerTagPresent:
		ga.triggerWasPresent = a.ownerTags.Has(trigger.Tag)
		id, err := event.Subscribe[*tagstore.TagsChangedEvent](a.bus, tagstore.RefTagsChanged,
			func(_ context.Context, e *tagstore.TagsChangedEvent) error {
				if e.EntityID != a.ownerID {
					return nil
				}
				now := e.Combined.Has(trigger.Tag)
				if now && !ga.triggerWasPresent {
					_, _ = a.Activate(context.Background(), ga.handle, nil)
				} else if !now && ga.triggerWasPresent && trigger.Kind == TriggerTagPresent {
					a.End(context.Background(), ga.handle)
				}
				ga.triggerWasPresent = now
				return nil
			}, nil)
		if err == nil {
			ga.triggerSubID = id
		}
	}
}
