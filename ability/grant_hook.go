package ability

import (
	"context"

	"github.com/gamesmiths-guild/forge-sub000/effect"
	"github.com/gamesmiths-guild/forge-sub000/forgeref"
)

// DataLookup resolves the opaque ref a GrantSpec carries to the concrete
// Data it names. GrantHookAdapter needs one because effect.GrantSpec
// cannot hold an *ability.Data directly without creating the import cycle
// spec.md §9 calls out.
type DataLookup func(ref *forgeref.Ref) (*Data, bool)

// GrantHookAdapter implements effect.GrantAbilityHook over one entity's
// own EntityAbilities. It is the concrete half of the grant-hook seam
// GrantSpec's doc comment describes: the effect package only ever sees
// the GrantAbilityHook interface, never this type.
type GrantHookAdapter struct {
	abilities *EntityAbilities
	lookup    DataLookup
}

// NewGrantHookAdapter builds a GrantHookAdapter resolving grants against
// abilities via lookup.
func NewGrantHookAdapter(abilities *EntityAbilities, lookup DataLookup) *GrantHookAdapter {
	return &GrantHookAdapter{abilities: abilities, lookup: lookup}
}

// Grant implements effect.GrantAbilityHook.
func (g *GrantHookAdapter) Grant(owner forgeref.Entity, source string, grant effect.GrantSpec, level int32) {
	data, ok := g.lookup(grant.AbilityRef)
	if !ok {
		return
	}
	h := g.abilities.Grant(data, source, owner, level,
		effect.LevelComparisonLower|effect.LevelComparisonEqual|effect.LevelComparisonHigher,
		grant.RemovalPolicy, grant.InhibitionPolicy)
	if grant.TryActivateOnGrant {
		_, _ = g.abilities.Activate(context.Background(), h, nil)
	}
}

// Revoke implements effect.GrantAbilityHook.
func (g *GrantHookAdapter) Revoke(_ forgeref.Entity, source string, grant effect.GrantSpec) {
	data, ok := g.lookup(grant.AbilityRef)
	if !ok {
		return
	}
	h, ok := g.abilities.TryGet(data)
	if !ok {
		return
	}
	g.abilities.Revoke(context.Background(), h, source)
}

// SetInhibited implements effect.GrantAbilityHook.
func (g *GrantHookAdapter) SetInhibited(_ forgeref.Entity, source string, grant effect.GrantSpec, inhibited bool) {
	data, ok := g.lookup(grant.AbilityRef)
	if !ok {
		return
	}
	h, ok := g.abilities.TryGet(data)
	if !ok {
		return
	}
	g.abilities.SetInhibited(context.Background(), h, source, inhibited)
	if !inhibited && grant.TryActivateOnEnable {
		_, _ = g.abilities.Activate(context.Background(), h, nil)
	}
}
