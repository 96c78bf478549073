package event

import "github.com/gamesmiths-guild/forge-sub000/forgeref"

// RaisedEvent wraps an arbitrary host payload published under a tag via
// EntityEvents.raise (spec.md §4.7). It is deliberately the only Event
// implementation with an untyped Payload: Forge's own events (attribute
// value changes, tag membership changes) carry typed fields instead,
// since their shape is part of Forge's contract; host-raised events have
// no such fixed shape.
type RaisedEvent struct {
	base
	Payload any
}

// NewRaisedEvent builds a RaisedEvent routed by ref carrying payload.
func NewRaisedEvent(ref *forgeref.Ref, payload any) *RaisedEvent {
	return &RaisedEvent{base: NewBase(ref), Payload: payload}
}
