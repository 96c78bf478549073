// Package attribute implements the multi-channel modifier aggregation and
// clamped-value publication described in spec.md §4.1: flat and percent
// modifier sums plus an optional override per channel, channels chained
// in a fixed configuration-time order, changes published once per
// mutation pass via ApplyPendingValueChanges.
package attribute

import (
	"context"
	"math"

	"github.com/gamesmiths-guild/forge-sub000/event"
	"github.com/gamesmiths-guild/forge-sub000/forgeerr"
	"github.com/gamesmiths-guild/forge-sub000/forgeref"
)

// Config describes an Attribute at creation time.
type Config struct {
	Key      string
	Channels int // number of aggregation channels, minimum 1
	Base     int32
	Min      int32
	Max      int32
}

// Attribute is a signed 32-bit integer value aggregated across ordered
// channels and clamped to [Min, Max] (spec.md §3, §4.1).
type Attribute struct {
	key string
	bus event.EventBus
	ref *forgeref.Ref

	channels   int
	base       int32
	min        int32
	max        int32
	flatSum    []int32
	percentSum []float64
	override   []*int32

	published int32
	dirty     bool
}

// New creates an Attribute from cfg, publishing value-changed
// notifications on bus (may be nil for a detached attribute used only in
// tests).
func New(cfg Config, bus event.EventBus) *Attribute {
	channels := cfg.Channels
	if channels < 1 {
		channels = 1
	}
	a := &Attribute{
		key:        cfg.Key,
		bus:        bus,
		ref:        RefFor(cfg.Key),
		channels:   channels,
		base:       cfg.Base,
		min:        cfg.Min,
		max:        cfg.Max,
		flatSum:    make([]int32, channels),
		percentSum: make([]float64, channels),
		override:   make([]*int32, channels),
		dirty:      true,
	}
	a.published = a.compute()
	return a
}

// Key returns the attribute's name.
func (a *Attribute) Key() string { return a.key }

// Ref returns the ref used to route this attribute's ValueChangedEvent.
func (a *Attribute) Ref() *forgeref.Ref { return a.ref }

// compute runs the channel pipeline described in spec.md §4.1:
// in_0 = base; in_{k+1} = override_k, or (in_k + flat_k) * (1 + percent_k);
// final = clamp(in_C, min, max).
func (a *Attribute) compute() int32 {
	in := float64(a.base)
	for k := 0; k < a.channels; k++ {
		if a.override[k] != nil {
			in = float64(*a.override[k])
			continue
		}
		in = (in + float64(a.flatSum[k])) * (1 + a.percentSum[k])
	}
	return clamp(round(in), a.min, a.max)
}

func round(v float64) int32 {
	return int32(math.Round(v))
}

func clamp(v, lo, hi int32) int32 {
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// GetCurrentValue returns the attribute's current aggregated, clamped
// value. This reflects the latest mutation even before
// ApplyPendingValueChanges runs — callers observe the up-to-date value,
// only the on_value_changed notification is deferred.
func (a *Attribute) GetCurrentValue() int32 { return a.compute() }

// GetBaseValue returns the attribute's permanent base value.
func (a *Attribute) GetBaseValue() int32 { return a.base }

// GetMin returns the attribute's current floor.
func (a *Attribute) GetMin() int32 { return a.min }

// GetMax returns the attribute's current ceiling.
func (a *Attribute) GetMax() int32 { return a.max }

// SetMin updates the attribute's floor. It does not mutate base value.
func (a *Attribute) SetMin(v int32) {
	a.min = v
	a.dirty = true
}

// SetMax updates the attribute's ceiling. It does not mutate base value.
func (a *Attribute) SetMax(v int32) {
	a.max = v
	a.dirty = true
}

func (a *Attribute) checkChannel(channel int) error {
	if channel < 0 || channel >= a.channels {
		return forgeerr.ChannelOutOfRange(a.key, channel, a.channels)
	}
	return nil
}

// AddFlatModifier adds v to channel's flat sum. Because each channel is a
// plain sum, the order flat modifiers are added or removed in never
// affects the aggregate (spec.md §4.1's determinism note).
func (a *Attribute) AddFlatModifier(channel int, v int32) error {
	if err := a.checkChannel(channel); err != nil {
		return err
	}
	a.flatSum[channel] += v
	a.dirty = true
	return nil
}

// RemoveFlatModifier withdraws a previously added flat contribution,
// undoing exactly what the matching AddFlatModifier call added.
func (a *Attribute) RemoveFlatModifier(channel int, v int32) error {
	return a.AddFlatModifier(channel, -v)
}

// AddPercentModifier adds v (a fraction, e.g. 0.1 for +10%) to channel's
// percent sum.
func (a *Attribute) AddPercentModifier(channel int, v float64) error {
	if err := a.checkChannel(channel); err != nil {
		return err
	}
	a.percentSum[channel] += v
	a.dirty = true
	return nil
}

// RemovePercentModifier withdraws a previously added percent
// contribution.
func (a *Attribute) RemovePercentModifier(channel int, v float64) error {
	return a.AddPercentModifier(channel, -v)
}

// SetOverride pins channel's output to v, bypassing that channel's flat
// and percent sums (but not downstream channels).
func (a *Attribute) SetOverride(channel int, v int32) error {
	if err := a.checkChannel(channel); err != nil {
		return err
	}
	val := v
	a.override[channel] = &val
	a.dirty = true
	return nil
}

// ClearOverride removes channel's override, if any.
func (a *Attribute) ClearOverride(channel int) error {
	if err := a.checkChannel(channel); err != nil {
		return err
	}
	a.override[channel] = nil
	a.dirty = true
	return nil
}

// ExecuteFlat permanently mutates base value by delta. Instant effects use
// this instead of adding a channel modifier (spec.md §4.4: "apply
// permanent base-value mutations via execute_flat/override").
func (a *Attribute) ExecuteFlat(delta int32) {
	a.base += delta
	a.dirty = true
}

// ExecuteOverride permanently sets base value to v.
func (a *Attribute) ExecuteOverride(v int32) {
	a.base = v
	a.dirty = true
}

// PendingDelta reports the change that ApplyPendingValueChanges would
// publish if called right now, without publishing it.
func (a *Attribute) PendingDelta() int32 {
	return a.compute() - a.published
}

// IsDirty reports whether any slot, base, or bound has changed since the
// last ApplyPendingValueChanges call. A newly created attribute reports
// dirty until its first ApplyPendingValueChanges.
func (a *Attribute) IsDirty() bool { return a.dirty }

// ApplyPendingValueChanges publishes on_value_changed(Δ) if the
// attribute's current value differs from the last published value
// (spec.md §4.1). It is idempotent: calling it twice in a row without an
// intervening mutation publishes nothing the second time.
func (a *Attribute) ApplyPendingValueChanges(ctx context.Context) error {
	current := a.compute()
	delta := current - a.published
	a.published = current
	a.dirty = false

	if delta == 0 || a.bus == nil {
		return nil
	}
	return a.bus.Publish(ctx, newValueChangedEvent(a.ref, a.key, delta, current))
}
