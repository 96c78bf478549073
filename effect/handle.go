package effect

import "github.com/google/uuid"

// Handle is an opaque reference to a live ActiveEffect, returned by
// EffectsManager.ApplyEffect for duration/infinite effects (spec.md §9's
// "handles, not back-pointers" design note). It carries no pointer to the
// ActiveEffect itself — validity is only ever checked against the owning
// EffectsManager, so a stale Handle from a since-removed effect is
// inert rather than dangling.
type Handle struct {
	id string
}

// newHandle mints a fresh, universally-unique Handle.
func newHandle() Handle {
	return Handle{id: uuid.NewString()}
}

// IsZero reports whether h is the zero Handle (never issued by
// ApplyEffect; returned when an application produces no handle, e.g. an
// instant effect or a refused application).
func (h Handle) IsZero() bool { return h.id == "" }

// String returns the handle's opaque identifier.
func (h Handle) String() string { return h.id }
