// Package tagstore provides the symbolic tag bag attached to an entity:
// permanent base tags plus reference-counted modifier tags contributed by
// effects, with change notifications and hierarchical containment backed
// by an external tag registry (spec.md §1 treats the registry itself as
// an opaque collaborator).
package tagstore

import "github.com/gamesmiths-guild/forge-sub000/forgeref"

// Tag is an opaque handle into the host's tag registry. Tags are
// immutable and cheap to copy; equality and hierarchy are delegated to
// the Registry that minted the tag.
type Tag struct {
	ref      *forgeref.Ref
	registry Registry
}

// NewTag wraps ref as a Tag minted by registry. Hosts normally obtain
// Tags via Registry.RequestTag rather than calling this directly.
func NewTag(ref *forgeref.Ref, registry Registry) Tag {
	return Tag{ref: ref, registry: registry}
}

// Ref returns the tag's underlying identifier.
func (t Tag) Ref() *forgeref.Ref { return t.ref }

// String returns the tag's identifier string.
func (t Tag) String() string {
	if t.ref == nil {
		return ""
	}
	return t.ref.String()
}

// IsZero reports whether this Tag is the zero value (no ref).
func (t Tag) IsZero() bool { return t.ref == nil }

// Equals reports whether two tags name the same ref.
func (t Tag) Equals(other Tag) bool {
	return t.ref.Equals(other.ref)
}

// Matches reports whether t is other, or a descendant of other, per the
// registry's hierarchy (spec.md §3: "hierarchical matches(tag) (self or
// descendant-of)").
func (t Tag) Matches(other Tag) bool {
	if t.Equals(other) {
		return true
	}
	if t.registry == nil {
		return false
	}
	for _, parent := range t.registry.ExtractParents(t) {
		if parent.Equals(other) {
			return true
		}
	}
	return false
}

// Registry is the external tag-tree resolver Forge treats as an opaque
// collaborator (spec.md §1, §6): it owns tag naming, hierarchy, and query
// matching. Forge never maintains tree state itself.
type Registry interface {
	// RequestTag resolves name to a stable Tag, minting it if unseen.
	RequestTag(name string) (Tag, error)

	// MatchesQuery reports whether container satisfies a registry-defined
	// query expression (e.g. a boolean tag-query string).
	MatchesQuery(container *Container, query string) bool

	// ExtractParents returns every ancestor of tag, nearest first.
	ExtractParents(tag Tag) []Tag
}

//go:generate mockgen -destination=mock/mock_registry.go -package=mock github.com/gamesmiths-guild/forge-sub000/tagstore Registry
