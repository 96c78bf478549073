package ability

import "github.com/google/uuid"

// Handle is an opaque reference to a granted ability, returned by
// EntityAbilities.Grant/TryGet (spec.md §9's "handles, not
// back-pointers"). Every operation the external interface describes as a
// method on AbilityHandle (Activate, End, Cancel, the commit methods,
// GetRemainingCooldownTime) is instead a method on *EntityAbilities
// taking a Handle, so the handle itself never carries a pointer back to
// its owning manager.
type Handle struct {
	id string
}

func newHandle() Handle {
	return Handle{id: uuid.NewString()}
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool { return h.id == "" }

// String returns the handle's opaque identifier.
func (h Handle) String() string { return h.id }
