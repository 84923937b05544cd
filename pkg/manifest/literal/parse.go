// Package literal reads and writes the literal data notation used by module
// manifests.
//
// The grammar is closed: a document is a single value built from dicts with
// string keys, lists, tuples, strings, integers, floats, booleans and None.
// Names other than True, False, None (and their JSON spellings true, false,
// null) are rejected, as is any operator except a sign on a number. Parsing
// never evaluates code.
//
// Parsed values use a small set of Go types:
//
//	map[string]any  dict
//	[]any           list or tuple
//	string          str, unicode or bytes literal
//	int64           int
//	float64         float
//	bool            True / False
//	nil             None
//
// [Format] writes such a value back in the layout produced by the platform's
// own pretty printer, so regenerated manifests diff cleanly against
// hand-maintained ones.
package literal

import (
	"fmt"
)

// Parse parses src as a single literal value.
func Parse(src string) (any, error) {
	p := &parser{lex: newLexer(src)}
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokEOF {
		return nil, p.unexpected(tok)
	}
	return v, nil
}

// ParseDict parses src and requires the top-level value to be a dict.
func ParseDict(src string) (map[string]any, error) {
	v, err := Parse(src)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &SyntaxError{Line: 1, Col: 1, Msg: fmt.Sprintf("expected a dict, got %s", TypeName(v))}
	}
	return m, nil
}

// TypeName returns the literal type name of a parsed value.
func TypeName(v any) string {
	switch v.(type) {
	case map[string]any:
		return "dict"
	case []any:
		return "list"
	case string:
		return "str"
	case int64:
		return "int"
	case float64:
		return "float"
	case bool:
		return "bool"
	case nil:
		return "None"
	default:
		return fmt.Sprintf("%T", v)
	}
}

type parser struct {
	lex  *lexer
	buf  token
	full bool
}

func (p *parser) next() (token, error) {
	if p.full {
		p.full = false
		return p.buf, nil
	}
	return p.lex.next()
}

func (p *parser) peek() (token, error) {
	if !p.full {
		tok, err := p.lex.next()
		if err != nil {
			return token{}, err
		}
		p.buf, p.full = tok, true
	}
	return p.buf, nil
}

func (p *parser) unexpected(tok token) *SyntaxError {
	what := tok.kind.String()
	if tok.text != "" {
		what = fmt.Sprintf("%q", tok.text)
	}
	return &SyntaxError{Line: tok.line, Col: tok.col, Msg: "unexpected " + what}
}

func (p *parser) isPunct(tok token, s string) bool {
	return tok.kind == tokPunct && tok.text == s
}

func (p *parser) value() (any, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokString:
		s := tok.str
		for {
			nt, err := p.peek()
			if err != nil {
				return nil, err
			}
			if nt.kind != tokString {
				return s, nil
			}
			p.full = false
			s += nt.str
		}
	case tokInt:
		return tok.i, nil
	case tokFloat:
		return tok.f, nil
	case tokName:
		switch tok.text {
		case "True", "true":
			return true, nil
		case "False", "false":
			return false, nil
		case "None", "null":
			return nil, nil
		}
		return nil, &SyntaxError{Line: tok.line, Col: tok.col, Msg: fmt.Sprintf("name %q is not a literal", tok.text)}
	case tokPunct:
		switch tok.text {
		case "{":
			return p.dict()
		case "[":
			return p.sequence("]")
		case "(":
			return p.tuple()
		case "-", "+":
			return p.signed(tok)
		}
	}
	return nil, p.unexpected(tok)
}

func (p *parser) signed(sign token) (any, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	neg := sign.text == "-"
	switch tok.kind {
	case tokInt:
		if neg {
			return -tok.i, nil
		}
		return tok.i, nil
	case tokFloat:
		if neg {
			return -tok.f, nil
		}
		return tok.f, nil
	}
	return nil, &SyntaxError{Line: sign.line, Col: sign.col, Msg: fmt.Sprintf("operator %q is only allowed before a number", sign.text)}
}

func (p *parser) dict() (any, error) {
	m := make(map[string]any)
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if p.isPunct(tok, "}") {
			p.full = false
			return m, nil
		}

		key, err := p.value()
		if err != nil {
			return nil, err
		}
		k, ok := key.(string)
		if !ok {
			return nil, &SyntaxError{Line: tok.line, Col: tok.col, Msg: fmt.Sprintf("dict keys must be strings, got %s", TypeName(key))}
		}

		colon, err := p.next()
		if err != nil {
			return nil, err
		}
		if !p.isPunct(colon, ":") {
			return nil, p.unexpected(colon)
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		m[k] = v

		sep, err := p.next()
		if err != nil {
			return nil, err
		}
		switch {
		case p.isPunct(sep, "}"):
			return m, nil
		case !p.isPunct(sep, ","):
			return nil, p.unexpected(sep)
		}
	}
}

// sequence reads comma separated values up to the closing delimiter.
func (p *parser) sequence(closing string) ([]any, error) {
	items := []any{}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if p.isPunct(tok, closing) {
			p.full = false
			return items, nil
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)

		sep, err := p.next()
		if err != nil {
			return nil, err
		}
		switch {
		case p.isPunct(sep, closing):
			return items, nil
		case !p.isPunct(sep, ","):
			return nil, p.unexpected(sep)
		}
	}
}

// tuple reads a parenthesized value. A single value without a trailing
// comma is a grouping, not a tuple.
func (p *parser) tuple() (any, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if p.isPunct(tok, ")") {
		p.full = false
		return []any{}, nil
	}
	first, err := p.value()
	if err != nil {
		return nil, err
	}
	sep, err := p.next()
	if err != nil {
		return nil, err
	}
	if p.isPunct(sep, ")") {
		return first, nil
	}
	if !p.isPunct(sep, ",") {
		return nil, p.unexpected(sep)
	}
	rest, err := p.sequence(")")
	if err != nil {
		return nil, err
	}
	return append([]any{first}, rest...), nil
}
