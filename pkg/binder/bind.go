package binder

import (
	"context"
	"fmt"

	"github.com/vito/binder/pkg/ioctx"
)

// Bind binds input against p with no surrounding scope.
func Bind(ctx context.Context, p *Pattern, input Value) (*Result, error) {
	return p.Bind(ctx, nil, input)
}

// Bind binds input against the pattern. Default expressions see the names
// bound so far, then scope. The input is never modified; rest slots always
// receive fresh collections.
func (p *Pattern) Bind(ctx context.Context, scope Env, input Value) (*Result, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	b := &binding{
		mode:   p.Mode,
		scope:  scope,
		result: newResult(),
	}
	if err := b.bind(ctx, p, input, ""); err != nil {
		return nil, err
	}
	return b.result, nil
}

// binding holds the state of a single Bind call. It is itself the Env that
// default expressions are evaluated in.
type binding struct {
	mode   Mode
	scope  Env
	result *Result
}

var _ Env = (*binding)(nil)

func (b *binding) Get(name string) (Value, bool) {
	if v, ok := b.result.Get(name); ok {
		return v, true
	}
	if b.scope != nil {
		return b.scope.Get(name)
	}
	return nil, false
}

func (b *binding) bind(ctx context.Context, p *Pattern, input Value, path string) error {
	switch p.Style {
	case SequenceStyle:
		return b.bindSequence(ctx, p, input, path)
	case MappingStyle:
		return b.bindMapping(ctx, p, input, path)
	default:
		return fmt.Errorf("unknown pattern style: %s", p.Style)
	}
}

func (b *binding) bindSequence(ctx context.Context, p *Pattern, input Value, path string) error {
	seq, ok := AsSequence(input)
	if !ok {
		return &ShapeError{Path: path, Want: SequenceShape, Got: input}
	}

	cursor := 0
	for _, slot := range p.Slots {
		switch slot.Kind {
		case SkipSlot:
			cursor++

		case RestSlot:
			rest := []Value{}
			for i := cursor; i < seq.Len(); i++ {
				rest = append(rest, seq.At(i))
			}
			b.result.set(slot.Name, ListValue{Elements: rest})
			return nil

		case NamedSlot:
			val, err := b.resolve(ctx, slot, elementAt(seq, cursor))
			if err != nil {
				return err
			}
			b.result.set(slot.Name, val)
			cursor++

		case NestedSlot:
			val, err := b.resolve(ctx, slot, elementAt(seq, cursor))
			if err != nil {
				return err
			}
			if err := b.bind(ctx, slot.Sub, val, fmt.Sprintf("%s[%d]", path, cursor)); err != nil {
				return err
			}
			cursor++
		}
	}
	return nil
}

func (b *binding) bindMapping(ctx context.Context, p *Pattern, input Value, path string) error {
	m, ok := AsMapping(input)
	if !ok {
		return &ShapeError{Path: path, Want: MappingShape, Got: input}
	}

	consumed := make(map[string]bool)
	for _, slot := range p.Slots {
		switch slot.Kind {
		case RestSlot:
			rest := &RecordValue{Fields: []Keyed[Value]{}}
			for _, key := range m.Keys() {
				if consumed[key] {
					continue
				}
				val, _ := m.Lookup(key)
				rest.Fields = append(rest.Fields, Keyed[Value]{Key: key, Value: val})
			}
			b.result.set(slot.Name, rest)
			return nil

		case NamedSlot:
			consumed[slot.Key] = true
			val, err := b.resolve(ctx, slot, lookupKey(m, slot.Key))
			if err != nil {
				return err
			}
			b.result.set(slot.Name, val)

		case NestedSlot:
			consumed[slot.Key] = true
			val, err := b.resolve(ctx, slot, lookupKey(m, slot.Key))
			if err != nil {
				return err
			}
			if err := b.bind(ctx, slot.Sub, val, path+"."+slot.Key); err != nil {
				return err
			}

		case SkipSlot:
			return fmt.Errorf("%w: hole in a mapping pattern", ErrInvalidSlot)
		}
	}
	return nil
}

// resolve applies the slot's default when the mode says val doesn't count.
// The default is evaluated at most once, and only in that case.
func (b *binding) resolve(ctx context.Context, slot Slot, val Value) (Value, error) {
	if !b.mode.triggersDefault(val) || slot.Default == nil {
		return val, nil
	}
	ioctx.LoggerFromContext(ctx).Debug("evaluating default", "slot", slot.label(), "default", slot.Default.String())
	def, err := slot.Default.Eval(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("evaluating default value for %q: %w", slot.label(), err)
	}
	return def, nil
}

func elementAt(seq SequenceView, i int) Value {
	if i >= seq.Len() {
		return AbsentValue{}
	}
	if v := seq.At(i); v != nil {
		return v
	}
	return AbsentValue{}
}

func lookupKey(m MappingView, key string) Value {
	v, ok := m.Lookup(key)
	if !ok || v == nil {
		return AbsentValue{}
	}
	return v
}
