package forge

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gamesmiths-guild/forge-sub000/ability"
	"github.com/gamesmiths-guild/forge-sub000/effect"
	"github.com/gamesmiths-guild/forge-sub000/forgeref"
	"github.com/gamesmiths-guild/forge-sub000/tagstore"
)

// yamlMagnitude is the declarative form of effect.Magnitude — a bare
// scalar, or an attribute-based capture shaped by coefficient, pre_add
// and post_multiply. Curve-based magnitudes have no declarative form.
type yamlMagnitude struct {
	Scalar *float64 `yaml:"scalar,omitempty"`

	Attribute    string  `yaml:"attribute,omitempty"`
	Source       string  `yaml:"source,omitempty"` // "target" or "source"
	Snapshot     bool    `yaml:"snapshot,omitempty"`
	Coefficient  float64 `yaml:"coefficient,omitempty"`
	PreAdd       float64 `yaml:"pre_add,omitempty"`
	PostMultiply float64 `yaml:"post_multiply,omitempty"`
}

func (m yamlMagnitude) toMagnitude() effect.Magnitude {
	if m.Scalar != nil {
		return effect.ScalarMagnitude(*m.Scalar)
	}
	source := effect.CaptureSourceTarget
	if m.Source == "source" {
		source = effect.CaptureSourceSource
	}
	coefficient := m.Coefficient
	if coefficient == 0 {
		coefficient = 1
	}
	postMultiply := m.PostMultiply
	if postMultiply == 0 {
		postMultiply = 1
	}
	return effect.Magnitude{
		Kind: effect.MagnitudeAttributeBased,
		AttributeBased: effect.AttributeBasedMagnitude{
			Capture: effect.AttributeCapture{
				AttributeKey: m.Attribute,
				Source:       source,
				Snapshot:     m.Snapshot,
			},
			Coefficient:  coefficient,
			PreAdd:       m.PreAdd,
			PostMultiply: postMultiply,
		},
	}
}

type yamlModifier struct {
	Attribute string        `yaml:"attribute"`
	Channel   int           `yaml:"channel"`
	Operation string        `yaml:"operation"` // flat | percent | override
	Magnitude yamlMagnitude `yaml:"magnitude"`
}

func (m yamlModifier) toModifier() effect.Modifier {
	op := effect.OpFlat
	switch m.Operation {
	case "percent":
		op = effect.OpPercent
	case "override":
		op = effect.OpOverride
	}
	return effect.Modifier{AttributeKey: m.Attribute, Channel: m.Channel, Operation: op, Magnitude: m.Magnitude.toMagnitude()}
}

type yamlTagRequirement struct {
	Required []string `yaml:"required,omitempty"`
	Blocked  []string `yaml:"blocked,omitempty"`
}

func (r yamlTagRequirement) toRequirement(registry tagstore.Registry) (effect.TagRequirement, error) {
	required, err := resolveTags(registry, r.Required)
	if err != nil {
		return effect.TagRequirement{}, err
	}
	blocked, err := resolveTags(registry, r.Blocked)
	if err != nil {
		return effect.TagRequirement{}, err
	}
	return effect.TagRequirement{Required: required, Blocked: blocked}, nil
}

func resolveTags(registry tagstore.Registry, names []string) (*tagstore.Container, error) {
	if len(names) == 0 {
		return nil, nil
	}
	tags := make([]tagstore.Tag, 0, len(names))
	for _, name := range names {
		tag, err := registry.RequestTag(name)
		if err != nil {
			return nil, fmt.Errorf("forge: resolving tag %q: %w", name, err)
		}
		tags = append(tags, tag)
	}
	return tagstore.NewContainer(registry, tags...), nil
}

type yamlGrantSpec struct {
	AbilityRef          string  `yaml:"ability_ref"`
	LevelScaling        float64 `yaml:"level_scaling,omitempty"`
	RemovalPolicy       string  `yaml:"removal_policy,omitempty"`
	InhibitionPolicy    string  `yaml:"inhibition_policy,omitempty"`
	TryActivateOnGrant  bool    `yaml:"try_activate_on_grant,omitempty"`
	TryActivateOnEnable bool    `yaml:"try_activate_on_enable,omitempty"`
}

func deactivationPolicyFromString(s string) effect.DeactivationPolicy {
	switch s {
	case "cancel_immediately":
		return effect.DeactivationCancelImmediately
	case "remove_on_end":
		return effect.DeactivationRemoveOnEnd
	default:
		return effect.DeactivationIgnore
	}
}

func (g yamlGrantSpec) toGrantSpec() (effect.GrantSpec, error) {
	ref, err := forgeref.Parse(g.AbilityRef)
	if err != nil {
		return effect.GrantSpec{}, err
	}
	scaling := g.LevelScaling
	if scaling == 0 {
		scaling = 1
	}
	return effect.GrantSpec{
		AbilityRef:          ref,
		LevelScaling:        scaling,
		RemovalPolicy:       deactivationPolicyFromString(g.RemovalPolicy),
		InhibitionPolicy:    deactivationPolicyFromString(g.InhibitionPolicy),
		TryActivateOnGrant:  g.TryActivateOnGrant,
		TryActivateOnEnable: g.TryActivateOnEnable,
	}, nil
}

type yamlPeriodic struct {
	PeriodSeconds        yamlMagnitude `yaml:"period_seconds"`
	ExecuteOnApplication bool          `yaml:"execute_on_application,omitempty"`
}

type yamlStacking struct {
	Limit             int    `yaml:"limit"`
	InitialStackCount int    `yaml:"initial_stack_count,omitempty"`
	Policy            string `yaml:"policy,omitempty"`             // aggregate_by_source | aggregate_by_target
	LevelPolicy       string `yaml:"level_policy,omitempty"`       // aggregate_levels | segregate_levels
	MagnitudePolicy   string `yaml:"magnitude_policy,omitempty"`   // sum | max | override
	OverflowPolicy    string `yaml:"overflow_policy,omitempty"`    // deny | allow
	ExpirationPolicy  string `yaml:"expiration_policy,omitempty"`  // clear_entire_stack | remove_single_and_refresh
	RefreshOnApply    bool   `yaml:"refresh_on_apply,omitempty"`
}

func (s yamlStacking) toStacking() *effect.StackingData {
	st := &effect.StackingData{Limit: s.Limit, InitialStackCount: s.InitialStackCount}
	if s.Policy == "aggregate_by_target" {
		st.Policy = effect.StackAggregateByTarget
	}
	if s.LevelPolicy == "segregate_levels" {
		st.LevelPolicy = effect.StackLevelSegregateLevels
	}
	switch s.MagnitudePolicy {
	case "max":
		st.MagnitudePolicy = effect.StackMagnitudeMax
	case "override":
		st.MagnitudePolicy = effect.StackMagnitudeOverride
	default:
		st.MagnitudePolicy = effect.StackMagnitudeSum
	}
	if s.OverflowPolicy == "allow" {
		st.OverflowPolicy = effect.StackOverflowAllow
	}
	if s.ExpirationPolicy == "remove_single_and_refresh" {
		st.ExpirationPolicy = effect.StackExpirationRemoveSingleAndRefresh
	}
	if s.RefreshOnApply {
		st.ApplicationRefreshPolicy = effect.StackRefreshOnSuccessfulApplication
	}
	return st
}

// yamlEffectData is the declarative form of effect.Data (spec.md §3's
// "new" declarative-loader note), the Go-native analogue of the
// teacher's JSON-peek-then-decode condition loader.
type yamlEffectData struct {
	Ref          string         `yaml:"ref"`
	Name         string         `yaml:"name,omitempty"`
	DurationType string         `yaml:"duration_type"` // instant | has_duration | infinite
	Duration     *yamlMagnitude `yaml:"duration,omitempty"`

	Modifiers []yamlModifier `yaml:"modifiers,omitempty"`
	Periodic  *yamlPeriodic  `yaml:"periodic,omitempty"`
	Stacking  *yamlStacking  `yaml:"stacking,omitempty"`

	SnapshotLevel                      bool `yaml:"snapshot_level,omitempty"`
	RequireModifierSuccessToTriggerCue bool `yaml:"require_modifier_success_to_trigger_cue,omitempty"`
	SuppressStackingCues               bool `yaml:"suppress_stacking_cues,omitempty"`

	ModifierTags []string `yaml:"modifier_tags,omitempty"`

	ApplicationRequirement *yamlTagRequirement `yaml:"application_requirement,omitempty"`
	OngoingRequirement     *yamlTagRequirement `yaml:"ongoing_requirement,omitempty"`
	RemovalRequirement     *yamlTagRequirement `yaml:"removal_requirement,omitempty"`

	Grants []yamlGrantSpec `yaml:"grants,omitempty"`
}

// LoadEffectData decodes one YAML effect document into an effect.Data,
// resolving tag names against registry.
func LoadEffectData(doc []byte, registry tagstore.Registry) (*effect.Data, error) {
	var y yamlEffectData
	if err := yaml.Unmarshal(doc, &y); err != nil {
		return nil, fmt.Errorf("forge: decoding effect data: %w", err)
	}
	return y.toEffectData(registry)
}

func (y yamlEffectData) toEffectData(registry tagstore.Registry) (*effect.Data, error) {
	ref, err := forgeref.Parse(y.Ref)
	if err != nil {
		return nil, err
	}

	data := &effect.Data{
		Ref:                                ref,
		Name:                               y.Name,
		SnapshotLevel:                      y.SnapshotLevel,
		RequireModifierSuccessToTriggerCue: y.RequireModifierSuccessToTriggerCue,
		SuppressStackingCues:               y.SuppressStackingCues,
	}

	switch y.DurationType {
	case "has_duration":
		data.DurationType = effect.DurationHasDuration
	case "infinite":
		data.DurationType = effect.DurationInfinite
	default:
		data.DurationType = effect.DurationInstant
	}
	if y.Duration != nil {
		data.DurationMagnitude = y.Duration.toMagnitude()
	}

	for _, m := range y.Modifiers {
		data.Modifiers = append(data.Modifiers, m.toModifier())
	}

	if y.Periodic != nil {
		data.Periodic = &effect.PeriodicData{
			Period:               effect.PeriodicPeriod{Magnitude: y.Periodic.PeriodSeconds.toMagnitude()},
			ExecuteOnApplication: y.Periodic.ExecuteOnApplication,
		}
	}
	if y.Stacking != nil {
		data.Stacking = y.Stacking.toStacking()
	}

	if len(y.ModifierTags) > 0 {
		tags, err := resolveTags(registry, y.ModifierTags)
		if err != nil {
			return nil, err
		}
		data.Components = append(data.Components, effect.ModifierTagsComponent{Tags: tags.Tags()})
	}

	if y.ApplicationRequirement != nil || y.OngoingRequirement != nil || y.RemovalRequirement != nil {
		comp := effect.TargetTagRequirementsComponent{}
		if y.ApplicationRequirement != nil {
			comp.Application, err = y.ApplicationRequirement.toRequirement(registry)
			if err != nil {
				return nil, err
			}
		}
		if y.OngoingRequirement != nil {
			comp.Ongoing, err = y.OngoingRequirement.toRequirement(registry)
			if err != nil {
				return nil, err
			}
		}
		if y.RemovalRequirement != nil {
			comp.Removal, err = y.RemovalRequirement.toRequirement(registry)
			if err != nil {
				return nil, err
			}
		}
		data.Components = append(data.Components, comp)
	}

	if len(y.Grants) > 0 {
		grants := make([]effect.GrantSpec, 0, len(y.Grants))
		for _, g := range y.Grants {
			spec, err := g.toGrantSpec()
			if err != nil {
				return nil, err
			}
			grants = append(grants, spec)
		}
		data.Components = append(data.Components, effect.GrantAbilityComponent{Grants: grants})
	}

	return data, nil
}

// yamlAbilityData is the declarative form of ability.Data.
type yamlAbilityData struct {
	Ref  string `yaml:"ref"`
	Name string `yaml:"name,omitempty"`

	CostEffect      *yamlEffectData  `yaml:"cost_effect,omitempty"`
	CooldownEffects []yamlEffectData `yaml:"cooldown_effects,omitempty"`

	AbilityTags            []string `yaml:"ability_tags,omitempty"`
	CancelAbilitiesWithTag []string `yaml:"cancel_abilities_with_tag,omitempty"`
	BlockAbilitiesWithTag  []string `yaml:"block_abilities_with_tag,omitempty"`
	ActivationOwnedTags    []string `yaml:"activation_owned_tags,omitempty"`

	OwnerRequirement  *yamlTagRequirement `yaml:"owner_requirement,omitempty"`
	SourceRequirement *yamlTagRequirement `yaml:"source_requirement,omitempty"`
	TargetRequirement *yamlTagRequirement `yaml:"target_requirement,omitempty"`

	InstancingPolicy          string `yaml:"instancing_policy,omitempty"` // per_entity | multiple
	RetriggerInstancedAbility bool   `yaml:"retrigger_instanced_ability,omitempty"`
}

// LoadAbilityData decodes one YAML ability document into an ability.Data,
// resolving tag names against registry. The returned Data's
// BehaviorFactory is always nil — behavior is host gameplay logic and has
// no declarative representation (spec.md §1).
func LoadAbilityData(doc []byte, registry tagstore.Registry) (*ability.Data, error) {
	var y yamlAbilityData
	if err := yaml.Unmarshal(doc, &y); err != nil {
		return nil, fmt.Errorf("forge: decoding ability data: %w", err)
	}

	ref, err := forgeref.Parse(y.Ref)
	if err != nil {
		return nil, err
	}

	data := &ability.Data{Ref: ref, Name: y.Name, RetriggerInstancedAbility: y.RetriggerInstancedAbility}

	if y.CostEffect != nil {
		data.CostEffect, err = y.CostEffect.toEffectData(registry)
		if err != nil {
			return nil, err
		}
	}
	for _, cd := range y.CooldownEffects {
		effectData, err := cd.toEffectData(registry)
		if err != nil {
			return nil, err
		}
		data.CooldownEffects = append(data.CooldownEffects, effectData)
	}

	if data.AbilityTags, err = resolveTagSlice(registry, y.AbilityTags); err != nil {
		return nil, err
	}
	if data.CancelAbilitiesWithTag, err = resolveTagSlice(registry, y.CancelAbilitiesWithTag); err != nil {
		return nil, err
	}
	if data.BlockAbilitiesWithTag, err = resolveTagSlice(registry, y.BlockAbilitiesWithTag); err != nil {
		return nil, err
	}
	if data.ActivationOwnedTags, err = resolveTagSlice(registry, y.ActivationOwnedTags); err != nil {
		return nil, err
	}

	if y.OwnerRequirement != nil {
		if data.OwnerRequirement, err = y.OwnerRequirement.toRequirement(registry); err != nil {
			return nil, err
		}
	}
	if y.SourceRequirement != nil {
		if data.SourceRequirement, err = y.SourceRequirement.toRequirement(registry); err != nil {
			return nil, err
		}
	}
	if y.TargetRequirement != nil {
		if data.TargetRequirement, err = y.TargetRequirement.toRequirement(registry); err != nil {
			return nil, err
		}
	}

	if y.InstancingPolicy == "multiple" {
		data.InstancingPolicy = ability.InstancingMultiple
	}

	return data, nil
}

func resolveTagSlice(registry tagstore.Registry, names []string) ([]tagstore.Tag, error) {
	container, err := resolveTags(registry, names)
	if err != nil {
		return nil, err
	}
	if container == nil {
		return nil, nil
	}
	return container.Tags(), nil
}
