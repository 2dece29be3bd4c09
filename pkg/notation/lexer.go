package notation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokPunct
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "name"
	case tokNumber:
		return "number"
	case tokString:
		return "string"
	default:
		return "punctuation"
	}
}

type token struct {
	kind tokenKind
	text string // raw source text
	val  string // decoded string literal
	loc  Location
}

func (t token) describe() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.text)
}

// puncts are matched longest first.
var puncts = []string{"...", "[", "]", "{", "}", "(", ")", ",", ":", "=", "-"}

type lexer struct {
	src  string
	pos  int
	line int
	col  int
}

func lex(src string) ([]token, error) {
	l := &lexer{src: src, line: 1, col: 1}
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			return toks, nil
		}
	}
}

func (l *lexer) peekRune() rune {
	if l.pos >= len(l.src) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return r
}

func (l *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		r := l.peekRune()
		switch {
		case unicode.IsSpace(r):
			l.advance()
		case strings.HasPrefix(l.src[l.pos:], "//"):
			for l.pos < len(l.src) && l.peekRune() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	start := l.pos
	loc := Location{Line: l.line, Column: l.col, Length: 1}

	if l.pos >= len(l.src) {
		return token{kind: tokEOF, loc: loc}, nil
	}

	r := l.peekRune()
	switch {
	case isIdentStart(r):
		for l.pos < len(l.src) && isIdentPart(l.peekRune()) {
			l.advance()
		}
		return l.token(tokIdent, start, loc), nil

	case r >= '0' && r <= '9':
		for l.pos < len(l.src) && isDigitByte(l.src[l.pos]) {
			l.advance()
		}
		if l.peekRune() == '.' && l.pos+1 < len(l.src) && isDigitByte(l.src[l.pos+1]) {
			l.advance()
			for l.pos < len(l.src) && isDigitByte(l.src[l.pos]) {
				l.advance()
			}
		}
		return l.token(tokNumber, start, loc), nil

	case r == '"' || r == '\'':
		return l.lexString(r, start, loc)
	}

	for _, p := range puncts {
		if strings.HasPrefix(l.src[l.pos:], p) {
			for range p {
				l.advance()
			}
			return l.token(tokPunct, start, loc), nil
		}
	}

	return token{}, &SyntaxError{
		Inner:    fmt.Errorf("unexpected character %q", r),
		Location: &loc,
		Source:   l.src,
	}
}

func (l *lexer) lexString(quote rune, start int, loc Location) (token, error) {
	l.advance()
	var val strings.Builder
	for {
		if l.pos >= len(l.src) {
			loc.Length = l.pos - start
			return token{}, &SyntaxError{
				Inner:    fmt.Errorf("unterminated string"),
				Location: &loc,
				Source:   l.src,
			}
		}
		r := l.advance()
		switch r {
		case quote:
			tok := l.token(tokString, start, loc)
			tok.val = val.String()
			return tok, nil
		case '\n':
			loc.Length = l.pos - start
			return token{}, &SyntaxError{
				Inner:    fmt.Errorf("newline in string"),
				Location: &loc,
				Source:   l.src,
			}
		case '\\':
			if l.pos >= len(l.src) {
				continue
			}
			// \n, \t, \xXX, \uXXXX and friends; anything else stands for
			// the escaped character itself.
			r, _, tail, err := strconv.UnquoteChar(l.src[l.pos-1:], byte(quote))
			if err != nil {
				val.WriteRune(l.advance())
				continue
			}
			for len(l.src)-l.pos > len(tail) {
				l.advance()
			}
			val.WriteRune(r)
		default:
			val.WriteRune(r)
		}
	}
}

func (l *lexer) token(kind tokenKind, start int, loc Location) token {
	text := l.src[start:l.pos]
	loc.Length = max(1, utf8.RuneCountInString(text))
	return token{kind: kind, text: text, loc: loc}
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func isDigitByte(b byte) bool {
	return b >= '0' && b <= '9'
}
