package forge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamesmiths-guild/forge-sub000/ability"
	"github.com/gamesmiths-guild/forge-sub000/effect"
	"github.com/gamesmiths-guild/forge-sub000/forge"
)

const burningEffectYAML = `
ref: test:effect:burning
name: Burning
duration_type: has_duration
duration:
  scalar: 6
modifiers:
  - attribute: health
    channel: 0
    operation: flat
    magnitude:
      scalar: -5
periodic:
  period_seconds:
    scalar: 1
  execute_on_application: true
modifier_tags:
  - status.burning
ongoing_requirement:
  blocked:
    - status.fireproof
stacking:
  limit: 3
  policy: aggregate_by_target
  magnitude_policy: max
  overflow_policy: allow
  expiration_policy: remove_single_and_refresh
  refresh_on_apply: true
`

func TestLoadEffectData_DecodesFullDocument(t *testing.T) {
	data, err := forge.LoadEffectData([]byte(burningEffectYAML), flatRegistry{})
	require.NoError(t, err)

	assert.Equal(t, "test:effect:burning", data.Ref.String())
	assert.Equal(t, "Burning", data.Name)
	assert.Equal(t, effect.DurationHasDuration, data.DurationType)
	assert.InDelta(t, 6.0, data.DurationMagnitude.Scalar, 0)

	require.Len(t, data.Modifiers, 1)
	assert.Equal(t, "health", data.Modifiers[0].AttributeKey)
	assert.Equal(t, effect.OpFlat, data.Modifiers[0].Operation)
	assert.InDelta(t, -5.0, data.Modifiers[0].Magnitude.Scalar, 0)

	require.NotNil(t, data.Periodic)
	assert.True(t, data.Periodic.ExecuteOnApplication)

	require.NotNil(t, data.Stacking)
	assert.Equal(t, 3, data.Stacking.Limit)
	assert.Equal(t, effect.StackAggregateByTarget, data.Stacking.Policy)
	assert.Equal(t, effect.StackMagnitudeMax, data.Stacking.MagnitudePolicy)
	assert.Equal(t, effect.StackOverflowAllow, data.Stacking.OverflowPolicy)
	assert.Equal(t, effect.StackExpirationRemoveSingleAndRefresh, data.Stacking.ExpirationPolicy)
	assert.Equal(t, effect.StackRefreshOnSuccessfulApplication, data.Stacking.ApplicationRefreshPolicy)

	tagsComponents := 0
	requirementComponents := 0
	for _, c := range data.Components {
		switch v := c.(type) {
		case effect.ModifierTagsComponent:
			tagsComponents++
			require.Len(t, v.Tags, 1)
		case effect.TargetTagRequirementsComponent:
			requirementComponents++
			assert.NotNil(t, v.Ongoing.Blocked)
			assert.Equal(t, 1, v.Ongoing.Blocked.Len())
		}
	}
	assert.Equal(t, 1, tagsComponents)
	assert.Equal(t, 1, requirementComponents)
}

const fireballAbilityYAML = `
ref: test:ability:fireball
name: Fireball
cost_effect:
  ref: test:effect:fireball-cost
  duration_type: instant
  modifiers:
    - attribute: mana
      channel: 0
      operation: flat
      magnitude:
        scalar: -25
cooldown_effects:
  - ref: test:effect:fireball-cooldown
    duration_type: has_duration
    duration:
      scalar: 8
    modifier_tags:
      - cooldown.fireball
ability_tags:
  - ability.offensive
  - ability.fire
instancing_policy: multiple
`

func TestLoadAbilityData_DecodesCostAndCooldown(t *testing.T) {
	data, err := forge.LoadAbilityData([]byte(fireballAbilityYAML), flatRegistry{})
	require.NoError(t, err)

	assert.Equal(t, "test:ability:fireball", data.Ref.String())
	assert.Equal(t, "Fireball", data.Name)

	require.NotNil(t, data.CostEffect)
	assert.Equal(t, effect.DurationInstant, data.CostEffect.DurationType)
	assert.InDelta(t, -25.0, data.CostEffect.Modifiers[0].Magnitude.Scalar, 0)

	require.Len(t, data.CooldownEffects, 1)
	assert.Equal(t, effect.DurationHasDuration, data.CooldownEffects[0].DurationType)

	require.Len(t, data.AbilityTags, 2)
	assert.Equal(t, ability.InstancingMultiple, data.InstancingPolicy)
	assert.Nil(t, data.BehaviorFactory, "behavior has no declarative representation")
}

func TestLoadEffectData_RejectsMalformedYAML(t *testing.T) {
	_, err := forge.LoadEffectData([]byte("ref: [this is not a scalar"), flatRegistry{})
	assert.Error(t, err)
}
