package cue

import "github.com/gamesmiths-guild/forge-sub000/forgeref"

// Notifier dispatches the four cue lifecycle notifications spec.md §4.3
// defines (apply/execute/update/remove) to every handler registered for a
// cue's key.
type Notifier struct {
	registry *Registry
}

// NewNotifier creates a Notifier backed by registry.
func NewNotifier(registry *Registry) *Notifier {
	return &Notifier{registry: registry}
}

// NotifyApply fires OnApply for data against target with the given raw
// magnitude, which it normalizes against data's anchors.
func (n *Notifier) NotifyApply(target forgeref.Entity, data Data, magnitude float64) {
	params := NewParameters(magnitude, data)
	for _, h := range n.registry.handlersFor(data.Key) {
		h.OnApply(target, params)
	}
}

// NotifyExecute fires OnExecute for data against target.
func (n *Notifier) NotifyExecute(target forgeref.Entity, data Data, magnitude float64) {
	params := NewParameters(magnitude, data)
	for _, h := range n.registry.handlersFor(data.Key) {
		h.OnExecute(target, params)
	}
}

// NotifyUpdate fires OnUpdate for data against target.
func (n *Notifier) NotifyUpdate(target forgeref.Entity, data Data, magnitude float64) {
	params := NewParameters(magnitude, data)
	for _, h := range n.registry.handlersFor(data.Key) {
		h.OnUpdate(target, params)
	}
}

// NotifyRemove fires OnRemove for data against target.
func (n *Notifier) NotifyRemove(target forgeref.Entity, data Data, interrupted bool) {
	for _, h := range n.registry.handlersFor(data.Key) {
		h.OnRemove(target, interrupted)
	}
}
