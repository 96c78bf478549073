package cue

import "github.com/gamesmiths-guild/forge-sub000/forgeref"

// Handler is the host-provided capability interface for cue playback —
// VFX, sound, UI floating text, whatever the host renders in response to
// a gameplay cue. Forge never renders anything itself (spec.md §1).
type Handler interface {
	// OnApply fires when a duration/infinite effect's cue is newly added.
	OnApply(target forgeref.Entity, params Parameters)

	// OnExecute fires for instant effects and periodic executions.
	OnExecute(target forgeref.Entity, params Parameters)

	// OnUpdate fires when a live cue's magnitude, stack count, or level
	// changes.
	OnUpdate(target forgeref.Entity, params Parameters)

	// OnRemove fires when the owning active effect is removed or expires.
	// interrupted is true when removal was not a natural expiration
	// (e.g. unapply_effect called explicitly, or a cancel).
	OnRemove(target forgeref.Entity, interrupted bool)
}

//go:generate mockgen -destination=mock/mock_handler.go -package=mock github.com/gamesmiths-guild/forge-sub000/cue Handler
