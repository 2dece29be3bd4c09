package binder

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch is returned when an input does not have the sequence or
	// mapping shape a pattern requires.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrDuplicateName is returned by NewPattern when two slots bind the same
	// name.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrEmptySequence is returned by Reduce when there is nothing to reduce
	// and no seed.
	ErrEmptySequence = errors.New("reduce of empty sequence with no seed")

	ErrRestNotLast    = errors.New("rest slot must be last")
	ErrInvalidSlot    = errors.New("invalid slot")
	ErrUnbound        = errors.New("unbound name")
	ErrNotCallable    = errors.New("not callable")
	ErrInvalidOperand = errors.New("invalid operand")
)

// ShapeError reports a value that could not be destructured.
type ShapeError struct {
	Path string
	Want Shape
	Got  Value
}

func (e *ShapeError) Error() string {
	got := "undefined"
	if e.Got != nil {
		got = Inspect(e.Got)
	}
	if e.Path == "" {
		return fmt.Sprintf("cannot destructure %s as a %s", got, e.Want)
	}
	return fmt.Sprintf("cannot destructure %s at %s as a %s", got, e.Path, e.Want)
}

func (e *ShapeError) Is(target error) bool {
	return target == ErrShapeMismatch
}

// DuplicateNameError reports a name bound by more than one slot.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate name %q in pattern", e.Name)
}

func (e *DuplicateNameError) Is(target error) bool {
	return target == ErrDuplicateName
}

// OperandError reports a combiner applied to values it does not support.
type OperandError struct {
	Op          string
	Left, Right Value
}

func (e *OperandError) Error() string {
	return fmt.Sprintf("cannot %s %s and %s", e.Op, Inspect(e.Left), Inspect(e.Right))
}

func (e *OperandError) Is(target error) bool {
	return target == ErrInvalidOperand
}
