// Package notation parses a small JavaScript-flavoured syntax for binding
// patterns, expressions and let statements:
//
//	let [first, , , fourth] = raceResults
//	let {country: nation, ...other} = runner
//	(x, y = 1)
//	giveMeFour(..."GOAT")
//	{...canine, legs: 3}
package notation

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/vito/binder/pkg/binder"
)

// Statement is a parsed top-level form.
type Statement interface {
	String() string
}

// Let binds the value of an expression, either to a single name or through
// a pattern.
type Let struct {
	Name    string
	Pattern *binder.Pattern
	Value   binder.Expr
}

func (l Let) String() string {
	if l.Pattern != nil {
		return "let " + l.Pattern.String() + " = " + l.Value.String()
	}
	return "let " + l.Name + " = " + l.Value.String()
}

// ExprStatement evaluates an expression.
type ExprStatement struct {
	Expr binder.Expr
}

func (s ExprStatement) String() string { return s.Expr.String() }

var keywords = map[string]bool{
	"let":       true,
	"const":     true,
	"true":      true,
	"false":     true,
	"null":      true,
	"undefined": true,
}

// ParsePattern parses a destructuring pattern or parameter list.
func ParsePattern(src string) (*binder.Pattern, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	pat, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return pat, nil
}

// ParseExpr parses a single expression.
func ParseExpr(src string) (binder.Expr, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseStatement parses a let statement or an expression.
func ParseStatement(src string) (Statement, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return stmt, nil
}

// IsIncomplete reports whether err was caused by input ending early, e.g.
// an unclosed bracket, so that more input could complete it.
func IsIncomplete(err error) bool {
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		return false
	}
	return errors.Is(syntaxErr.Inner, errUnexpectedEOF)
}

var errUnexpectedEOF = errors.New("unexpected end of input")

type parser struct {
	src  string
	toks []token
	pos  int
}

func newParser(src string) (*parser, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	return &parser{src: src, toks: toks}, nil
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) isPunct(s string) bool {
	tok := p.peek()
	return tok.kind == tokPunct && tok.text == s
}

func (p *parser) errorAt(tok token, err error) error {
	loc := tok.loc
	return &SyntaxError{Inner: err, Location: &loc, Source: p.src}
}

func (p *parser) unexpected(want string) error {
	tok := p.peek()
	if tok.kind == tokEOF {
		return p.errorAt(tok, fmt.Errorf("%w: expected %s", errUnexpectedEOF, want))
	}
	return p.errorAt(tok, fmt.Errorf("unexpected %s, expected %s", tok.describe(), want))
}

func (p *parser) expectPunct(s string) error {
	if !p.isPunct(s) {
		return p.unexpected(strconv.Quote(s))
	}
	p.next()
	return nil
}

func (p *parser) expectEOF() error {
	if p.peek().kind != tokEOF {
		return p.unexpected("end of input")
	}
	return nil
}

func (p *parser) expectName() (string, error) {
	tok := p.peek()
	if tok.kind != tokIdent || keywords[tok.text] {
		return "", p.unexpected("a name")
	}
	p.next()
	return tok.text, nil
}

func (p *parser) parseStatement() (Statement, error) {
	tok := p.peek()
	if tok.kind != tokIdent || (tok.text != "let" && tok.text != "const") {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return ExprStatement{Expr: expr}, nil
	}
	p.next()

	var stmt Let
	if p.peek().kind == tokIdent {
		name, err := p.expectName()
		if err != nil {
			return nil, err
		}
		stmt.Name = name
	} else {
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		stmt.Pattern = pat
	}
	if err := p.expectPunct("="); err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	stmt.Value = val
	return stmt, nil
}

func (p *parser) parsePattern() (*binder.Pattern, error) {
	start := p.peek()
	switch {
	case p.isPunct("["):
		p.next()
		return p.parseSequence(start, "]")
	case p.isPunct("("):
		p.next()
		return p.parseSequence(start, ")")
	case p.isPunct("{"):
		p.next()
		return p.parseMapping(start)
	default:
		return nil, p.unexpected("a pattern")
	}
}

func (p *parser) parseSequence(start token, closer string) (*binder.Pattern, error) {
	var slots []binder.Slot
	for !p.isPunct(closer) {
		if p.isPunct(",") {
			if closer == ")" {
				return nil, p.unexpected("a parameter")
			}
			p.next()
			slots = append(slots, binder.Skip())
			continue
		}
		slot, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
		if p.isPunct(",") {
			if err := p.skipComma(slot, closer); err != nil {
				return nil, err
			}
			continue
		}
		if !p.isPunct(closer) {
			return nil, p.unexpected(fmt.Sprintf("\",\" or %q", closer))
		}
	}
	p.next()

	pat, err := binder.Sequence(slots...)
	if err != nil {
		return nil, p.errorAt(start, err)
	}
	return pat, nil
}

// skipComma consumes the comma after slot. A rest slot may not be followed
// by a trailing comma.
func (p *parser) skipComma(slot binder.Slot, closer string) error {
	comma := p.next()
	if slot.Kind == binder.RestSlot && p.isPunct(closer) {
		return p.errorAt(comma, fmt.Errorf("%w: trailing comma after ...%s", binder.ErrRestNotLast, slot.Name))
	}
	return nil
}

func (p *parser) parseElement() (binder.Slot, error) {
	if p.isPunct("...") {
		p.next()
		name, err := p.expectName()
		if err != nil {
			return binder.Slot{}, err
		}
		return binder.Rest(name), nil
	}

	var slot binder.Slot
	if p.isPunct("[") || p.isPunct("{") {
		sub, err := p.parsePattern()
		if err != nil {
			return binder.Slot{}, err
		}
		slot = binder.Nested(sub)
	} else {
		name, err := p.expectName()
		if err != nil {
			return binder.Slot{}, err
		}
		slot = binder.Named(name)
	}
	return p.parseDefault(slot)
}

func (p *parser) parseMapping(start token) (*binder.Pattern, error) {
	var slots []binder.Slot
	for !p.isPunct("}") {
		slot, err := p.parseProperty()
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
		if p.isPunct(",") {
			if err := p.skipComma(slot, "}"); err != nil {
				return nil, err
			}
			continue
		}
		if !p.isPunct("}") {
			return nil, p.unexpected(`"," or "}"`)
		}
	}
	p.next()

	pat, err := binder.Mapping(slots...)
	if err != nil {
		return nil, p.errorAt(start, err)
	}
	return pat, nil
}

func (p *parser) parseProperty() (binder.Slot, error) {
	if p.isPunct("...") {
		p.next()
		name, err := p.expectName()
		if err != nil {
			return binder.Slot{}, err
		}
		return binder.Rest(name), nil
	}

	keyTok := p.peek()
	key, err := p.parseKey()
	if err != nil {
		return binder.Slot{}, err
	}

	var slot binder.Slot
	switch {
	case p.isPunct(":"):
		p.next()
		if p.isPunct("[") || p.isPunct("{") {
			sub, err := p.parsePattern()
			if err != nil {
				return binder.Slot{}, err
			}
			slot = binder.NestedKey(key, sub)
		} else {
			name, err := p.expectName()
			if err != nil {
				return binder.Slot{}, err
			}
			slot = binder.Key(key, name)
		}
	case keyTok.kind != tokIdent || keywords[key]:
		return binder.Slot{}, p.errorAt(keyTok, fmt.Errorf("key %s needs a name to bind to", keyTok.text))
	default:
		slot = binder.Named(key)
	}
	return p.parseDefault(slot)
}

func (p *parser) parseKey() (string, error) {
	tok := p.peek()
	switch tok.kind {
	case tokIdent, tokNumber:
		p.next()
		return tok.text, nil
	case tokString:
		p.next()
		return tok.val, nil
	default:
		return "", p.unexpected("a key")
	}
}

func (p *parser) parseDefault(slot binder.Slot) (binder.Slot, error) {
	if !p.isPunct("=") {
		return slot, nil
	}
	p.next()
	expr, err := p.parseExpr()
	if err != nil {
		return binder.Slot{}, err
	}
	return slot.WithDefault(expr), nil
}

func (p *parser) parseExpr() (binder.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.isPunct("(") {
		p.next()
		args, err := p.parseElems(")")
		if err != nil {
			return nil, err
		}
		expr = binder.CallExpr{Fn: expr, Args: args}
	}
	return expr, nil
}

func (p *parser) parsePrimary() (binder.Expr, error) {
	tok := p.peek()
	switch tok.kind {
	case tokNumber:
		p.next()
		return p.number(tok, false)

	case tokString:
		p.next()
		return binder.Lit{Value: binder.StringValue{Val: tok.val}}, nil

	case tokIdent:
		p.next()
		switch tok.text {
		case "true":
			return binder.Lit{Value: binder.BoolValue{Val: true}}, nil
		case "false":
			return binder.Lit{Value: binder.BoolValue{Val: false}}, nil
		case "null":
			return binder.Lit{Value: binder.NullValue{}}, nil
		case "undefined":
			return binder.Lit{Value: binder.AbsentValue{}}, nil
		case "let", "const":
			return nil, p.errorAt(tok, fmt.Errorf("unexpected %s in expression", tok.text))
		}
		return binder.Ref{Name: tok.text}, nil
	}

	switch {
	case p.isPunct("-"):
		p.next()
		num := p.peek()
		if num.kind != tokNumber {
			return nil, p.unexpected("a number")
		}
		p.next()
		return p.number(num, true)

	case p.isPunct("["):
		p.next()
		elems, err := p.parseElems("]")
		if err != nil {
			return nil, err
		}
		return binder.ListExpr{Elems: elems}, nil

	case p.isPunct("{"):
		p.next()
		return p.parseRecord()

	case p.isPunct("("):
		p.next()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return expr, nil
	}

	return nil, p.unexpected("an expression")
}

func (p *parser) number(tok token, negative bool) (binder.Expr, error) {
	text := tok.text
	if negative {
		text = "-" + text
	}
	if i, err := strconv.Atoi(text); err == nil {
		return binder.Lit{Value: binder.IntValue{Val: i}}, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.errorAt(tok, fmt.Errorf("invalid number %s", tok.text))
	}
	return binder.Lit{Value: binder.FloatValue{Val: f}}, nil
}

func (p *parser) parseElems(closer string) ([]binder.Elem, error) {
	elems := []binder.Elem{}
	for !p.isPunct(closer) {
		var elem binder.Elem
		if p.isPunct("...") {
			p.next()
			elem.Spread = true
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elem.Expr = expr
		elems = append(elems, elem)
		if p.isPunct(",") {
			p.next()
			continue
		}
		if !p.isPunct(closer) {
			return nil, p.unexpected(fmt.Sprintf("\",\" or %q", closer))
		}
	}
	p.next()
	return elems, nil
}

func (p *parser) parseRecord() (binder.Expr, error) {
	entries := []binder.Entry{}
	for !p.isPunct("}") {
		var entry binder.Entry
		if p.isPunct("...") {
			p.next()
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			entry = binder.Entry{Spread: true, Expr: expr}
		} else {
			keyTok := p.peek()
			key, err := p.parseKey()
			if err != nil {
				return nil, err
			}
			if p.isPunct(":") {
				p.next()
				expr, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				entry = binder.Entry{Key: key, Expr: expr}
			} else if keyTok.kind == tokIdent && !keywords[key] {
				entry = binder.Entry{Key: key, Expr: binder.Ref{Name: key}}
			} else {
				return nil, p.unexpected(`":"`)
			}
		}
		entries = append(entries, entry)
		if p.isPunct(",") {
			p.next()
			continue
		}
		if !p.isPunct("}") {
			return nil, p.unexpected(`"," or "}"`)
		}
	}
	p.next()
	return binder.RecordExpr{Entries: entries}, nil
}
