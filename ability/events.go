package ability

import (
	"github.com/gamesmiths-guild/forge-sub000/event"
	"github.com/gamesmiths-guild/forge-sub000/forgeref"
)

// AbilityEndedData is the payload of the on_ability_ended notification
// emitted after every instance end (spec.md §4.6.3).
type AbilityEndedData struct {
	Handle      Handle
	WasCanceled bool
}

// AbilityEndedEvent is published on the entity's bus every time an
// ability instance ends, whether by natural End or by Cancel.
type AbilityEndedEvent struct {
	ref *forgeref.Ref
	ctx *event.Context
	AbilityEndedData
}

// EventRef implements event.Event.
func (e *AbilityEndedEvent) EventRef() *forgeref.Ref { return e.ref }

// Context implements event.Event.
func (e *AbilityEndedEvent) Context() *event.Context { return e.ctx }

func endedEventRef(abilityRef *forgeref.Ref) *forgeref.Ref {
	return forgeref.Must(forgeref.Input{Module: abilityRef.Module, Type: "ability_ended", Value: abilityRef.Value})
}

func newAbilityEndedEvent(ref *forgeref.Ref, h Handle, canceled bool) *AbilityEndedEvent {
	return &AbilityEndedEvent{
		ref:              ref,
		ctx:              event.NewContext(),
		AbilityEndedData: AbilityEndedData{Handle: h, WasCanceled: canceled},
	}
}
