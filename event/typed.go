package event

import (
	"context"

	"github.com/gamesmiths-guild/forge-sub000/forgeref"
)

// Handler is a typed event handler accepting a context.
type Handler[T Event] func(context.Context, T) error

// TypedFilter is a typed event filter.
type TypedFilter[T Event] func(T) bool

// Subscribe registers a typed handler for events of type T against ref,
// giving callers compile-time typed payloads instead of the untyped Event
// interface that EventBus.Subscribe accepts.
func Subscribe[T Event](bus EventBus, ref *forgeref.Ref, handler Handler[T], filter TypedFilter[T]) (string, error) {
	var busFilter Filter
	if filter != nil {
		busFilter = func(e Event) bool {
			typed, ok := e.(T)
			if !ok {
				return false
			}
			return filter(typed)
		}
	}

	wrapped := func(ctx context.Context, e Event) error {
		typed, ok := e.(T)
		if !ok {
			return nil
		}
		return handler(ctx, typed)
	}

	return bus.SubscribeWithFilter(ref, wrapped, busFilter)
}

// Publish sends a typed event using its own ref for routing.
func Publish[T Event](ctx context.Context, bus EventBus, e T) error {
	return bus.Publish(ctx, e)
}
