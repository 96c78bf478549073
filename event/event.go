// Package event provides the per-entity, single-threaded publish/subscribe
// bus that ties Forge's subsystems together: attribute value changes, tag
// membership changes, ability triggers and host-raised notifications all
// flow through a Bus.
package event

import (
	"sync"

	"github.com/gamesmiths-guild/forge-sub000/forgeref"
)

// Event is the interface every payload published on a Bus must satisfy.
// EventRef identifies the event's type for routing; Context carries
// mutable per-publish data handlers can read or annotate.
type Event interface {
	EventRef() *forgeref.Ref
	Context() *Context
}

// TypedKey provides a collision-resistant, type-safe key for values stored
// in an event Context.
type TypedKey[T any] struct {
	name string
}

// NewTypedKey creates a typed context key. The name should be unique
// within the process.
func NewTypedKey[T any](name string) *TypedKey[T] {
	return &TypedKey[T]{name: name}
}

// Context carries typed, thread-safe scratch data alongside a published
// event. Handlers use it to read event-specific parameters and to leave
// annotations for later handlers in the same publish.
type Context struct {
	mu   sync.RWMutex
	data map[string]any
}

// NewContext creates an empty event context.
func NewContext() *Context {
	return &Context{data: make(map[string]any)}
}

// SetValue stores a typed value under key.
func SetValue[T any](c *Context, key *TypedKey[T], value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = make(map[string]any)
	}
	c.data[key.name] = value
}

// GetValue retrieves a typed value stored under key.
func GetValue[T any](c *Context, key *TypedKey[T]) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var zero T
	v, ok := c.data[key.name]
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// base embeds into concrete event types to satisfy Event with minimal
// boilerplate, the way teacher events embed events.GameEvent.
type base struct {
	ref *forgeref.Ref
	ctx *Context
}

// NewBase creates the shared Event plumbing for a concrete event type.
func NewBase(ref *forgeref.Ref) base {
	return base{ref: ref, ctx: NewContext()}
}

// EventRef implements Event.
func (b base) EventRef() *forgeref.Ref { return b.ref }

// Context implements Event.
func (b base) Context() *Context { return b.ctx }
