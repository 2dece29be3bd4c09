package binder

import (
	"strings"
)

// Env resolves names during expression evaluation.
type Env interface {
	Get(name string) (Value, bool)
}

// Scope is an ordered set of bindings with an optional parent.
type Scope struct {
	Parent Env

	vars  []Keyed[Value]
	index map[string]int
}

var _ Env = (*Scope)(nil)

func NewScope(parent Env) *Scope {
	return &Scope{
		Parent: parent,
		index:  make(map[string]int),
	}
}

func (s *Scope) Get(name string) (Value, bool) {
	if v, ok := s.GetLocal(name); ok {
		return v, true
	}
	if s.Parent != nil {
		return s.Parent.Get(name)
	}
	return nil, false
}

func (s *Scope) GetLocal(name string) (Value, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.vars[i].Value, true
}

// Set binds name in this scope, shadowing any parent binding.
func (s *Scope) Set(name string, val Value) *Scope {
	if i, ok := s.index[name]; ok {
		s.vars[i].Value = val
		return s
	}
	s.index[name] = len(s.vars)
	s.vars = append(s.vars, Keyed[Value]{Key: name, Value: val})
	return s
}

// Bindings returns the local bindings in the order they were first set.
func (s *Scope) Bindings() []Keyed[Value] {
	return append([]Keyed[Value](nil), s.vars...)
}

// Clone copies the local bindings, sharing the parent.
func (s *Scope) Clone() *Scope {
	cp := NewScope(s.Parent)
	for _, kv := range s.vars {
		cp.Set(kv.Key, kv.Value)
	}
	return cp
}

// Fork creates an empty child scope.
func (s *Scope) Fork() *Scope {
	return NewScope(s)
}

// Result is the output of binding a pattern: each declared name mapped to
// its resolved value, in binding order.
type Result struct {
	fields []Keyed[Value]
	index  map[string]int
}

var _ Env = (*Result)(nil)

func newResult() *Result {
	return &Result{index: make(map[string]int)}
}

func (r *Result) set(name string, val Value) {
	if i, ok := r.index[name]; ok {
		r.fields[i].Value = val
		return
	}
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, Keyed[Value]{Key: name, Value: val})
}

func (r *Result) Get(name string) (Value, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.fields[i].Value, true
}

func (r *Result) Len() int { return len(r.fields) }

func (r *Result) Names() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Key
	}
	return names
}

func (r *Result) Bindings() []Keyed[Value] {
	return append([]Keyed[Value](nil), r.fields...)
}

// Record returns the bindings as a fresh record value.
func (r *Result) Record() *RecordValue {
	return &RecordValue{Fields: r.Bindings()}
}

func (r *Result) String() string {
	var out strings.Builder
	for i, f := range r.fields {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(f.Key)
		out.WriteString(" = ")
		out.WriteString(Inspect(f.Value))
	}
	return out.String()
}
