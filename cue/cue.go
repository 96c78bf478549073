// Package cue implements the apply/execute/update/remove notification
// system described in spec.md §4.3: host-visible cues parameterized by a
// magnitude derived from effect state, normalized against per-cue
// min/max anchors.
package cue

import "github.com/gamesmiths-guild/forge-sub000/forgeref"

// MagnitudeType selects how a cue's magnitude is derived from the owning
// effect, per spec.md §4.3.
type MagnitudeType int

const (
	// MagnitudeAttributeValueChange uses the delta applied to an
	// attribute by the owning effect's modifier sum on this
	// application/execution.
	MagnitudeAttributeValueChange MagnitudeType = iota
	// MagnitudeAttributeCurrentValue uses the attribute's published
	// current value at notification time.
	MagnitudeAttributeCurrentValue
	// MagnitudeAttributeModifier uses the attribute's aggregated
	// modifier contribution (current - base).
	MagnitudeAttributeModifier
	// MagnitudeEffectLevel uses the active effect's level.
	MagnitudeEffectLevel
	// MagnitudeStackCount uses the active effect's stack count.
	MagnitudeStackCount
)

// Data configures one cue attached to an effect.
type Data struct {
	Key             *forgeref.Ref
	Type            MagnitudeType
	SourceAttribute string // meaningful when Type references an attribute
	Min             float64
	Max             float64
}

// Parameters is the magnitude payload delivered to a CueHandler.
type Parameters struct {
	Magnitude           float64
	NormalizedMagnitude float64
}

// Normalize computes (magnitude-min)/(max-min) clamped to [0,1], or 0 when
// max<=min (spec.md §4.3).
func Normalize(magnitude, min, max float64) float64 {
	if max <= min {
		return 0
	}
	n := (magnitude - min) / (max - min)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// NewParameters builds Parameters for magnitude against data's anchors.
func NewParameters(magnitude float64, data Data) Parameters {
	return Parameters{Magnitude: magnitude, NormalizedMagnitude: Normalize(magnitude, data.Min, data.Max)}
}
