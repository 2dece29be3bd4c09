// Package script runs notation statements against a persistent scope.
package script

import (
	"context"
	"fmt"
	"strings"

	"github.com/vito/binder/pkg/binder"
	"github.com/vito/binder/pkg/ioctx"
	"github.com/vito/binder/pkg/notation"
)

// Session is a scope of user bindings layered over the builtins, plus the
// mode used when let statements bind through a pattern.
type Session struct {
	Scope *binder.Scope
	Mode  binder.Mode
}

func NewSession(mode binder.Mode) *Session {
	return &Session{
		Scope: binder.NewRootScope().Fork(),
		Mode:  mode,
	}
}

// Outcome is what a statement produced: the names a let bound, or the
// value of an expression.
type Outcome struct {
	Bindings []binder.Keyed[binder.Value]
	Value    binder.Value
}

// Lines renders a let as one "name = value" line per binding, and an
// expression as its inspected value.
func (o Outcome) Lines() []string {
	if o.Value != nil {
		return []string{binder.Inspect(o.Value)}
	}
	lines := make([]string, len(o.Bindings))
	for i, kv := range o.Bindings {
		lines[i] = kv.Key + " = " + binder.Inspect(kv.Value)
	}
	return lines
}

func (o Outcome) String() string {
	return strings.Join(o.Lines(), "\n")
}

// Exec parses and runs a single statement.
func (s *Session) Exec(ctx context.Context, src string) (Outcome, error) {
	stmt, err := notation.ParseStatement(src)
	if err != nil {
		return Outcome{}, err
	}
	return s.Run(ctx, stmt)
}

// Run executes an already-parsed statement.
func (s *Session) Run(ctx context.Context, stmt notation.Statement) (Outcome, error) {
	ioctx.LoggerFromContext(ctx).Debug("exec", "statement", stmt.String(), "mode", s.Mode)

	switch stmt := stmt.(type) {
	case notation.Let:
		val, err := stmt.Value.Eval(ctx, s.Scope)
		if err != nil {
			return Outcome{}, err
		}
		if stmt.Pattern == nil {
			s.Scope.Set(stmt.Name, val)
			return Outcome{Bindings: []binder.Keyed[binder.Value]{{Key: stmt.Name, Value: val}}}, nil
		}
		res, err := stmt.Pattern.WithMode(s.Mode).Bind(ctx, s.Scope, val)
		if err != nil {
			return Outcome{}, err
		}
		for _, kv := range res.Bindings() {
			s.Scope.Set(kv.Key, kv.Value)
		}
		return Outcome{Bindings: res.Bindings()}, nil

	case notation.ExprStatement:
		val, err := stmt.Expr.Eval(ctx, s.Scope)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Value: val}, nil

	default:
		return Outcome{}, fmt.Errorf("unsupported statement %T", stmt)
	}
}

// Reset drops every user binding, leaving only the builtins.
func (s *Session) Reset() {
	s.Scope = binder.NewRootScope().Fork()
}
