// Package forge is the composition root: it wires one entity's attribute
// sets, tag store, effects manager, ability tracker and event bus
// together into a single host-facing handle, the way the teacher's game
// package assembles its own per-entity subsystems (spec.md §6).
package forge

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/gamesmiths-guild/forge-sub000/ability"
	"github.com/gamesmiths-guild/forge-sub000/attribute"
	"github.com/gamesmiths-guild/forge-sub000/cue"
	"github.com/gamesmiths-guild/forge-sub000/effect"
	"github.com/gamesmiths-guild/forge-sub000/event"
	"github.com/gamesmiths-guild/forge-sub000/forgeref"
	"github.com/gamesmiths-guild/forge-sub000/tagstore"
)

// Config wires a new Entity to the host's collaborators.
type Config struct {
	ID   string
	Type string

	// TagRegistry is the opaque tag-tree collaborator spec.md §6 requires;
	// it must not be nil.
	TagRegistry tagstore.Registry

	Log *logrus.Logger
}

// Entity is the host-facing handle described in spec.md §6: the minimum
// surface a host touches to read attributes, mutate tags, apply effects,
// and grant/activate abilities for one gameplay object.
type Entity struct {
	id   string
	kind string

	bus event.EventBus

	Attributes *attribute.Sets
	TagStore   *tagstore.Store
	Effects    *effect.Manager
	Abilities  *ability.EntityAbilities
	Cues       *cue.Notifier

	abilityData map[string]*ability.Data
}

// NewEntity builds an Entity wiring every subsystem described in
// spec.md §6's external-interface list to one another.
func NewEntity(cfg Config) *Entity {
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	bus := event.NewBus()
	attrs := attribute.NewSets()
	tags := tagstore.NewStore(cfg.ID, cfg.TagRegistry, bus)
	cues := cue.NewNotifier(cue.NewRegistry(log))

	effects := effect.NewManager(effect.ManagerConfig{
		OwnerID: cfg.ID, Target: attrs, TargetTags: tags, Bus: bus, Cues: cues, Log: log,
	})

	e := &Entity{
		id: cfg.ID, kind: cfg.Type, bus: bus,
		Attributes: attrs, TagStore: tags, Effects: effects, Cues: cues,
		abilityData: make(map[string]*ability.Data),
	}

	e.Abilities = ability.New(ability.Config{
		OwnerID: cfg.ID, Owner: e, OwnerTags: tags, Effects: effects, Bus: bus, Log: log,
	})
	effects.SetGrantHook(ability.NewGrantHookAdapter(e.Abilities, e.lookupAbilityData))

	return e
}

// GetID implements forgeref.Entity.
func (e *Entity) GetID() string { return e.id }

// GetType implements forgeref.Entity.
func (e *Entity) GetType() string { return e.kind }

// Tags returns the entity's combined tag view, satisfying the unexported
// `tagged` interface ability.EntityAbilities uses for source/target
// requirement checks.
func (e *Entity) Tags() *tagstore.Container { return e.TagStore.Combined() }

// RegisterAbilityData makes data resolvable by GrantAbilityComponent
// grants naming data.Ref — effect components only ever carry an opaque
// ref (spec.md §9's effect/ability cycle break), so the host must
// register every AbilityData it wants grantable via an effect before
// applying that effect.
func (e *Entity) RegisterAbilityData(data *ability.Data) {
	e.abilityData[data.Ref.String()] = data
}

func (e *Entity) lookupAbilityData(ref *forgeref.Ref) (*ability.Data, bool) {
	data, ok := e.abilityData[ref.String()]
	return data, ok
}

// Raise publishes payload under tag's ref, the transport spec.md §4.7's
// `entity.events.raise(tag, payload)` describes.
func (e *Entity) Raise(ctx context.Context, tag tagstore.Tag, payload any) error {
	return e.bus.Publish(ctx, event.NewRaisedEvent(tag.Ref(), payload))
}
