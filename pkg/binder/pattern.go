package binder

import (
	"fmt"
	"strings"
)

// Style selects how a pattern reads its input.
type Style int

const (
	// SequenceStyle reads values positionally. Parameter lists and array
	// destructuring both use it.
	SequenceStyle Style = iota
	// MappingStyle reads values by key.
	MappingStyle
)

func (s Style) String() string {
	switch s {
	case SequenceStyle:
		return "sequence"
	case MappingStyle:
		return "mapping"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// SlotKind identifies what a slot does during binding.
type SlotKind int

const (
	NamedSlot SlotKind = iota
	SkipSlot
	RestSlot
	NestedSlot
)

// Slot is one unit of a Pattern.
type Slot struct {
	Kind SlotKind

	// Name is the bound name for named and rest slots.
	Name string

	// Key is the source key in a mapping pattern. Empty for positional
	// slots.
	Key string

	// Sub is the pattern applied to the value of a nested slot.
	Sub *Pattern

	// Default is evaluated when the slot's value is absent (or nullish,
	// depending on Mode).
	Default Expr
}

// Named binds one positional value, or the value under the same key, to
// name.
func Named(name string) Slot {
	return Slot{Kind: NamedSlot, Name: name, Key: name}
}

// Key binds the value under key to name.
func Key(key, name string) Slot {
	return Slot{Kind: NamedSlot, Name: name, Key: key}
}

// Skip consumes one positional value without binding it.
func Skip() Slot {
	return Slot{Kind: SkipSlot}
}

// Rest collects everything not yet consumed.
func Rest(name string) Slot {
	return Slot{Kind: RestSlot, Name: name}
}

// Nested destructures the next positional value with sub.
func Nested(sub *Pattern) Slot {
	return Slot{Kind: NestedSlot, Sub: sub}
}

// NestedKey destructures the value under key with sub.
func NestedKey(key string, sub *Pattern) Slot {
	return Slot{Kind: NestedSlot, Key: key, Sub: sub}
}

// WithDefault returns a copy of the slot with a default expression.
func (s Slot) WithDefault(expr Expr) Slot {
	s.Default = expr
	return s
}

func (s Slot) label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Key
}

// Pattern is an immutable, validated binding pattern.
type Pattern struct {
	Style Style
	Slots []Slot
	Mode  Mode
}

// NewPattern validates slots and builds a pattern. Names must be unique
// across the pattern and all of its nested patterns, since nested bindings
// are merged into a single result.
func NewPattern(style Style, slots ...Slot) (*Pattern, error) {
	p := &Pattern{
		Style: style,
		Slots: append([]Slot(nil), slots...),
	}
	if err := p.check(); err != nil {
		return nil, err
	}
	return p, nil
}

// Sequence builds a positional pattern.
func Sequence(slots ...Slot) (*Pattern, error) {
	return NewPattern(SequenceStyle, slots...)
}

// Mapping builds a keyed pattern.
func Mapping(slots ...Slot) (*Pattern, error) {
	return NewPattern(MappingStyle, slots...)
}

// MustPattern panics if err is non-nil.
func MustPattern(p *Pattern, err error) *Pattern {
	if err != nil {
		panic(err)
	}
	return p
}

// check validates the pattern and its nested patterns, and that no name is
// bound twice.
func (p *Pattern) check() error {
	if err := p.validate(); err != nil {
		return err
	}
	return collectNames(p, map[string]bool{})
}

func (p *Pattern) validate() error {
	for i, slot := range p.Slots {
		switch slot.Kind {
		case NamedSlot:
			if slot.Name == "" {
				return fmt.Errorf("%w: slot %d has no name", ErrInvalidSlot, i)
			}
			if p.Style == SequenceStyle && slot.Key != slot.Name {
				return fmt.Errorf("%w: keyed slot %q in a sequence pattern", ErrInvalidSlot, slot.Key)
			}
		case SkipSlot:
			if p.Style != SequenceStyle {
				return fmt.Errorf("%w: holes are only allowed in sequence patterns", ErrInvalidSlot)
			}
		case RestSlot:
			if slot.Name == "" {
				return fmt.Errorf("%w: rest slot has no name", ErrInvalidSlot)
			}
			if i != len(p.Slots)-1 {
				return fmt.Errorf("%w: ...%s", ErrRestNotLast, slot.Name)
			}
			if slot.Default != nil {
				return fmt.Errorf("%w: rest slot ...%s cannot have a default", ErrInvalidSlot, slot.Name)
			}
		case NestedSlot:
			if slot.Sub == nil {
				return fmt.Errorf("%w: nested slot %d has no pattern", ErrInvalidSlot, i)
			}
			if p.Style == MappingStyle && slot.Key == "" {
				return fmt.Errorf("%w: nested slot %d has no key", ErrInvalidSlot, i)
			}
			if p.Style == SequenceStyle && slot.Key != "" {
				return fmt.Errorf("%w: keyed slot %q in a sequence pattern", ErrInvalidSlot, slot.Key)
			}
			if err := slot.Sub.validate(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: unknown slot kind %d", ErrInvalidSlot, slot.Kind)
		}
	}
	return nil
}

func collectNames(p *Pattern, seen map[string]bool) error {
	for _, slot := range p.Slots {
		switch slot.Kind {
		case NamedSlot, RestSlot:
			if seen[slot.Name] {
				return &DuplicateNameError{Name: slot.Name}
			}
			seen[slot.Name] = true
		case NestedSlot:
			if err := collectNames(slot.Sub, seen); err != nil {
				return err
			}
		}
	}
	return nil
}

// WithMode returns a copy of the pattern using mode.
func (p *Pattern) WithMode(mode Mode) *Pattern {
	cp := *p
	cp.Mode = mode
	return &cp
}

// Names returns every name the pattern binds, in binding order.
func (p *Pattern) Names() []string {
	var names []string
	for _, slot := range p.Slots {
		switch slot.Kind {
		case NamedSlot, RestSlot:
			names = append(names, slot.Name)
		case NestedSlot:
			names = append(names, slot.Sub.Names()...)
		}
	}
	return names
}

// String renders the pattern in binder notation.
func (p *Pattern) String() string {
	if p.Style == MappingStyle {
		return "{" + p.slotsString() + "}"
	}
	return "[" + p.slotsString() + "]"
}

func (p *Pattern) slotsString() string {
	parts := make([]string, len(p.Slots))
	for i, slot := range p.Slots {
		parts[i] = p.slotString(slot)
	}
	out := strings.Join(parts, ", ")
	if n := len(p.Slots); n > 0 && p.Slots[n-1].Kind == SkipSlot {
		// a trailing comma alone would not count as a hole
		out += ","
	}
	return out
}

func (p *Pattern) slotString(slot Slot) string {
	var s string
	switch slot.Kind {
	case SkipSlot:
		return ""
	case RestSlot:
		return "..." + slot.Name
	case NamedSlot:
		s = slot.Name
		if p.Style == MappingStyle && slot.Key != slot.Name {
			s = formatKey(slot.Key) + ": " + slot.Name
		}
	case NestedSlot:
		s = slot.Sub.String()
		if p.Style == MappingStyle {
			s = formatKey(slot.Key) + ": " + s
		}
	}
	if slot.Default != nil {
		s += " = " + slot.Default.String()
	}
	return s
}
