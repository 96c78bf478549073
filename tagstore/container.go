package tagstore

// Container is an insertion-order-irrelevant set of tags with set-algebra
// queries. It caches its registry-expanded "with parents" set so
// hierarchical containment checks (HasAny/HasAll) are O(1) per query tag
// after the first computation following a mutation (spec.md §3).
type Container struct {
	registry Registry
	tags     map[string]Tag

	expandedDirty bool
	expanded      map[string]Tag
}

// NewContainer creates a Container seeded with tags, backed by registry
// for hierarchy expansion.
func NewContainer(registry Registry, tags ...Tag) *Container {
	c := &Container{registry: registry, tags: make(map[string]Tag, len(tags)), expandedDirty: true}
	for _, t := range tags {
		c.tags[t.String()] = t
	}
	return c
}

// Add inserts tag into the container.
func (c *Container) Add(tag Tag) {
	if _, exists := c.tags[tag.String()]; exists {
		return
	}
	c.tags[tag.String()] = tag
	c.expandedDirty = true
}

// Remove deletes tag from the container. Removing an absent tag is a
// silent no-op per spec.md §7's programmer-error policy.
func (c *Container) Remove(tag Tag) {
	if _, exists := c.tags[tag.String()]; !exists {
		return
	}
	delete(c.tags, tag.String())
	c.expandedDirty = true
}

// Has reports exact (non-hierarchical) membership.
func (c *Container) Has(tag Tag) bool {
	_, ok := c.tags[tag.String()]
	return ok
}

// Tags returns a snapshot of the container's literal tags.
func (c *Container) Tags() []Tag {
	out := make([]Tag, 0, len(c.tags))
	for _, t := range c.tags {
		out = append(out, t)
	}
	return out
}

// Len returns the number of literal tags in the container.
func (c *Container) Len() int { return len(c.tags) }

// withParents returns (and caches) the set of this container's tags
// unioned with every ancestor the registry reports for each.
func (c *Container) withParents() map[string]Tag {
	if !c.expandedDirty && c.expanded != nil {
		return c.expanded
	}

	expanded := make(map[string]Tag, len(c.tags))
	for _, t := range c.tags {
		expanded[t.String()] = t
		if c.registry == nil {
			continue
		}
		for _, parent := range c.registry.ExtractParents(t) {
			expanded[parent.String()] = parent
		}
	}

	c.expanded = expanded
	c.expandedDirty = false
	return expanded
}

// HasAny reports whether any tag in other is present in this container's
// tags-or-ancestors.
func (c *Container) HasAny(other *Container) bool {
	expanded := c.withParents()
	for _, t := range other.tags {
		if _, ok := expanded[t.String()]; ok {
			return true
		}
	}
	return false
}

// HasAll reports whether every tag in other is present in this
// container's tags-or-ancestors.
func (c *Container) HasAll(other *Container) bool {
	if other.Len() == 0 {
		return true
	}
	expanded := c.withParents()
	for _, t := range other.tags {
		if _, ok := expanded[t.String()]; !ok {
			return false
		}
	}
	return true
}

// HasAnyExact reports whether any tag in other is a literal member of
// this container (no hierarchy expansion).
func (c *Container) HasAnyExact(other *Container) bool {
	for _, t := range other.tags {
		if c.Has(t) {
			return true
		}
	}
	return false
}

// HasAllExact reports whether every tag in other is a literal member of
// this container (no hierarchy expansion).
func (c *Container) HasAllExact(other *Container) bool {
	if other.Len() == 0 {
		return true
	}
	for _, t := range other.tags {
		if !c.Has(t) {
			return false
		}
	}
	return true
}

// MatchesQuery delegates to the registry's query language, passing this
// container as the subject.
func (c *Container) MatchesQuery(query string) bool {
	if c.registry == nil {
		return false
	}
	return c.registry.MatchesQuery(c, query)
}
