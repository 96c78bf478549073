package attribute

import (
	"github.com/gamesmiths-guild/forge-sub000/event"
	"github.com/gamesmiths-guild/forge-sub000/forgeref"
)

// ValueChangedEvent is published once per ApplyPendingValueChanges call
// for each attribute whose published value actually moved (spec.md §4.1:
// "on_value_changed(Δ) fires if Δ ≠ 0").
type ValueChangedEvent struct {
	ref *forgeref.Ref
	ctx *event.Context

	Key   string
	Delta int32
	Value int32
}

func newValueChangedEvent(ref *forgeref.Ref, key string, delta, value int32) *ValueChangedEvent {
	return &ValueChangedEvent{ref: ref, ctx: event.NewContext(), Key: key, Delta: delta, Value: value}
}

// EventRef implements event.Event.
func (e *ValueChangedEvent) EventRef() *forgeref.Ref { return e.ref }

// Context implements event.Event.
func (e *ValueChangedEvent) Context() *event.Context { return e.ctx }

// RefFor returns the per-attribute ref used to route that attribute's
// ValueChangedEvent, so subscribers can target a single attribute rather
// than every attribute on the entity.
func RefFor(key string) *forgeref.Ref {
	return forgeref.Must(forgeref.Input{Module: "forge", Type: "attribute_changed", Value: key})
}
