package effect

// CaptureSource selects whose attribute set a modifier's magnitude is
// captured from.
type CaptureSource int

const (
	// CaptureSourceTarget captures from the entity the effect is applied
	// to.
	CaptureSourceTarget CaptureSource = iota
	// CaptureSourceSource captures from the entity that applied the
	// effect.
	CaptureSourceSource
)

// Curve is the opaque, host-supplied magnitude curve collaborator
// (spec.md §6). Forge never interprets its shape — it is an external
// design-time asset (e.g. a damage-over-level table) evaluated at a
// single input.
type Curve interface {
	Evaluate(x float64) float64
}

// AttributeCapture names which attribute a magnitude reads from, and
// whether that read is snapshotted at apply time or re-sampled live on
// every tick.
type AttributeCapture struct {
	AttributeKey string
	Source       CaptureSource
	Snapshot     bool
}

// AttributeBasedMagnitude computes (coefficient*attributeValue + preAdd) *
// postMultiply from a captured attribute value (spec.md §9's
// attribute-based magnitude formula).
type AttributeBasedMagnitude struct {
	Capture      AttributeCapture
	Coefficient  float64
	PreAdd       float64
	PostMultiply float64
}

// Resolve applies the formula to a captured attribute value.
func (m AttributeBasedMagnitude) Resolve(attributeValue int32) float64 {
	return (m.Coefficient*float64(attributeValue) + m.PreAdd) * m.PostMultiply
}

// MagnitudeKind discriminates Magnitude's active field.
type MagnitudeKind int

const (
	// MagnitudeScalar is a fixed numeric value.
	MagnitudeScalar MagnitudeKind = iota
	// MagnitudeAttributeBased is computed from a captured attribute.
	MagnitudeAttributeBased
	// MagnitudeCurveBased is computed by evaluating a Curve collaborator.
	MagnitudeCurveBased
)

// Magnitude is a tagged union over the three ways a modifier's numeric
// value can be produced.
type Magnitude struct {
	Kind           MagnitudeKind
	Scalar         float64
	AttributeBased AttributeBasedMagnitude
	Curve          Curve
	CurveInput     float64
}

// ScalarMagnitude builds a fixed-value Magnitude.
func ScalarMagnitude(v float64) Magnitude {
	return Magnitude{Kind: MagnitudeScalar, Scalar: v}
}

// resolveAgainst evaluates m given a pre-captured attribute value (ignored
// for scalar and curve kinds).
func (m Magnitude) resolveAgainst(attributeValue int32) float64 {
	switch m.Kind {
	case MagnitudeAttributeBased:
		return m.AttributeBased.Resolve(attributeValue)
	case MagnitudeCurveBased:
		if m.Curve == nil {
			return 0
		}
		return m.Curve.Evaluate(m.CurveInput)
	case MagnitudeScalar:
		fallthrough
	default:
		return m.Scalar
	}
}

// capture reports the AttributeCapture a magnitude depends on, if any.
func (m Magnitude) capture() (AttributeCapture, bool) {
	if m.Kind != MagnitudeAttributeBased {
		return AttributeCapture{}, false
	}
	return m.AttributeBased.Capture, true
}

// Modifier describes one attribute channel mutation an effect applies.
type Modifier struct {
	AttributeKey string
	Channel      int
	Operation    Operation
	Magnitude    Magnitude
}
