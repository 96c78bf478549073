// Package forgeref provides module-qualified identifiers used throughout
// Forge to name attributes, effects, abilities and cues without relying on
// bare strings.
package forgeref

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

const (
	separatorChar = ":"
	expectedParts = 3
)

// Ref is a unique identifier for a game mechanic, namespaced by the module
// that defined it. It is the Go analogue of a fully qualified name:
// "forge:attribute:health", "dnd5e:effect:rage".
type Ref struct {
	// Module identifies which module defined this ref ("forge", "dnd5e", ...).
	Module string `json:"module"`

	// Type categorizes the ref ("attribute", "effect", "ability", "cue", ...).
	Type string `json:"type"`

	// Value is the unique identifier within Module and Type.
	Value string `json:"value"`
}

// String returns the ref as "module:type:value".
func (r *Ref) String() string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("%s%s%s%s%s", r.Module, separatorChar, r.Type, separatorChar, r.Value)
}

// Equals reports whether two refs name the same mechanic.
func (r *Ref) Equals(other *Ref) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Module == other.Module && r.Type == other.Type && r.Value == other.Value
}

// Input provides named fields for constructing a Ref.
type Input struct {
	Module string
	Type   string
	Value  string
}

// New creates and validates a Ref from its parts.
func New(in Input) (*Ref, error) {
	r := &Ref{Module: in.Module, Type: in.Type, Value: in.Value}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Must creates a Ref, panicking on validation failure. Intended for
// package-level constants where the value is known-good at compile time.
func Must(in Input) *Ref {
	r, err := New(in)
	if err != nil {
		panic(fmt.Sprintf("forgeref: invalid ref: %v", err))
	}
	return r
}

// Parse parses "module:type:value" into a Ref.
func Parse(s string) (*Ref, error) {
	if s == "" {
		return nil, fmt.Errorf("forgeref: empty ref string")
	}

	parts := strings.Split(s, separatorChar)
	if len(parts) != expectedParts {
		return nil, fmt.Errorf("forgeref: expected %d segments separated by %q, got %d in %q",
			expectedParts, separatorChar, len(parts), s)
	}

	r := &Ref{Module: parts[0], Type: parts[1], Value: parts[2]}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Ref) validate() error {
	if r.Module == "" || r.Type == "" || r.Value == "" {
		return fmt.Errorf("forgeref: module, type and value must all be non-empty (got %+v)", *r)
	}
	for _, part := range []string{r.Module, r.Type, r.Value} {
		if !isValidPart(part) {
			return fmt.Errorf("forgeref: %q contains characters other than letters, digits, underscore, dash and dot", part)
		}
	}
	return nil
}

func isValidPart(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' && r != '.' {
			return false
		}
	}
	return true
}

// MarshalJSON renders the ref as its compact string form.
func (r *Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON parses the compact string form back into a Ref.
func (r *Ref) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*r = *parsed
	return nil
}

// Source identifies what granted, applied, or otherwise caused a piece of
// state to exist (an effect's source, an ability's grant source, ...).
type Source struct {
	Category string
	Name     string
}

// String renders the source as "category:name".
func (s *Source) String() string {
	if s == nil {
		return ""
	}
	return fmt.Sprintf("%s:%s", s.Category, s.Name)
}
