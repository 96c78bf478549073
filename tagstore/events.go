package tagstore

import (
	"github.com/gamesmiths-guild/forge-sub000/event"
	"github.com/gamesmiths-guild/forge-sub000/forgeref"
)

// RefTagsChanged identifies the event published whenever an entity's
// combined tag membership changes.
var RefTagsChanged = forgeref.Must(forgeref.Input{Module: "forge", Type: "event", Value: "tags_changed"})

// TagsChangedEvent is published after base or modifier tag mutations that
// change combined-tag membership (spec.md §3: "Emits on_tags_changed
// (combined) after each additive or subtractive commit that changes
// membership").
type TagsChangedEvent struct {
	ref *forgeref.Ref
	ctx *event.Context

	EntityID string
	Combined *Container
}

// NewTagsChangedEvent builds a TagsChangedEvent for entityID reporting
// combined as the new combined-tag state.
func NewTagsChangedEvent(entityID string, combined *Container) *TagsChangedEvent {
	return &TagsChangedEvent{
		ref:      RefTagsChanged,
		ctx:      event.NewContext(),
		EntityID: entityID,
		Combined: combined,
	}
}

// EventRef implements event.Event.
func (e *TagsChangedEvent) EventRef() *forgeref.Ref { return e.ref }

// Context implements event.Event.
func (e *TagsChangedEvent) Context() *event.Context { return e.ctx }
