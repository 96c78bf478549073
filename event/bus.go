package event

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/gamesmiths-guild/forge-sub000/forgeref"
)

// Filter decides whether a handler should receive a given event.
type Filter func(Event) bool

// EventBus is the interface Forge's subsystems depend on, so that a host
// can substitute a mock bus in tests.
type EventBus interface {
	Publish(ctx context.Context, e Event) error
	Subscribe(ref *forgeref.Ref, handler any) (string, error)
	SubscribeWithFilter(ref *forgeref.Ref, handler any, filter Filter) (string, error)
	Unsubscribe(id string) error
	Clear()
}

//go:generate mockgen -destination=mock/mock_bus.go -package=mock github.com/gamesmiths-guild/forge-sub000/event EventBus

// DefaultMaxDepth bounds re-entrant Publish calls triggered from within a
// handler, guarding against event cascades caused by misconfigured
// effects (e.g. an effect whose apply-cue handler re-triggers the same
// effect's application).
const DefaultMaxDepth = 10

type handlerEntry struct {
	id             string
	ref            *forgeref.Ref
	handler        reflect.Value
	filter         Filter
	acceptsContext bool
}

// Bus is the synchronous, single-threaded-per-entity event bus described
// in spec.md §4.7 and §5: handlers run to completion inline with Publish.
// A Publish made from within a handler is delivered immediately, nested
// inside the outer Publish and bounded by the bus's max depth; it is not
// queued until the current handler returns.
type Bus struct {
	mu           sync.RWMutex
	handlers     map[string][]handlerEntry
	nextID       int
	publishDepth int32
	maxDepth     int32
}

// NewBus creates a Bus with the default recursion guard.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]handlerEntry), maxDepth: DefaultMaxDepth}
}

// NewBusWithMaxDepth creates a Bus with a custom recursion guard.
func NewBusWithMaxDepth(maxDepth int32) *Bus {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Bus{handlers: make(map[string][]handlerEntry), maxDepth: maxDepth}
}

// Publish delivers e to every handler subscribed to e.EventRef(), in
// registration order. Publish snapshots the handler list before calling
// any of them, so a handler that subscribes or unsubscribes during the
// same publish never affects delivery for that publish — including a
// handler that re-entrantly calls Publish, which is bounded by maxDepth
// rather than disallowed outright.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	depth := atomic.AddInt32(&b.publishDepth, 1)
	defer atomic.AddInt32(&b.publishDepth, -1)

	if depth > b.maxDepth {
		return fmt.Errorf("event: cascade depth exceeded (max=%d) publishing %s", b.maxDepth, e.EventRef())
	}

	refStr := e.EventRef().String()

	b.mu.RLock()
	entries := make([]handlerEntry, len(b.handlers[refStr]))
	copy(entries, b.handlers[refStr])
	b.mu.RUnlock()

	for _, entry := range entries {
		if entry.filter != nil && !entry.filter(e) {
			continue
		}

		var results []reflect.Value
		if entry.acceptsContext {
			results = entry.handler.Call([]reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(e)})
		} else {
			results = entry.handler.Call([]reflect.Value{reflect.ValueOf(e)})
		}

		if len(results) > 0 && !results[0].IsNil() {
			if err, ok := results[0].Interface().(error); ok {
				return fmt.Errorf("event: handler %s failed: %w", entry.id, err)
			}
		}
	}

	return nil
}

// Subscribe registers handler for events with the given ref. handler must
// be func(EventType) error or func(context.Context, EventType) error.
func (b *Bus) Subscribe(ref *forgeref.Ref, handler any) (string, error) {
	return b.SubscribeWithFilter(ref, handler, nil)
}

// SubscribeWithFilter registers handler, additionally gated by filter.
func (b *Bus) SubscribeWithFilter(ref *forgeref.Ref, handler any, filter Filter) (string, error) {
	handlerValue := reflect.ValueOf(handler)
	handlerType := handlerValue.Type()

	if handlerType.Kind() != reflect.Func {
		return "", fmt.Errorf("event: handler must be a function")
	}

	acceptsContext := false
	contextType := reflect.TypeOf((*context.Context)(nil)).Elem()
	switch handlerType.NumIn() {
	case 1:
		// func(EventType) error
	case 2:
		if handlerType.In(0) != contextType {
			return "", fmt.Errorf("event: two-argument handler's first parameter must be context.Context")
		}
		acceptsContext = true
	default:
		return "", fmt.Errorf("event: handler must take 1 or 2 parameters")
	}

	if handlerType.NumOut() != 1 || handlerType.Out(0) != reflect.TypeOf((*error)(nil)).Elem() {
		return "", fmt.Errorf("event: handler must return exactly one error value")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := fmt.Sprintf("sub-%d", b.nextID)
	refStr := ref.String()
	b.handlers[refStr] = append(b.handlers[refStr], handlerEntry{
		id:             id,
		ref:            ref,
		handler:        handlerValue,
		filter:         filter,
		acceptsContext: acceptsContext,
	})

	return id, nil
}

// Unsubscribe removes a subscription by id. It is idempotent: removing an
// id that no longer exists is not an error.
func (b *Bus) Unsubscribe(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ref, entries := range b.handlers {
		for i, entry := range entries {
			if entry.id == id {
				b.handlers[ref] = append(entries[:i], entries[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

// Clear removes every subscription. Intended for tests.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[string][]handlerEntry)
}

// Depth returns the current publish recursion depth, for diagnostics.
func (b *Bus) Depth() int32 {
	return atomic.LoadInt32(&b.publishDepth)
}
