package literal

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokString
	tokInt
	tokFloat
	tokName
	tokPunct
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokString:
		return "string"
	case tokInt:
		return "integer"
	case tokFloat:
		return "float"
	case tokName:
		return "name"
	default:
		return "punctuation"
	}
}

type token struct {
	kind tokenKind
	text string // raw text for names, numbers and punctuation
	str  string // decoded value for strings
	i    int64
	f    float64
	line int
	col  int
}

// SyntaxError describes input that is not a literal. Line and Col are
// 1-based; Col counts runes.
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Col, e.Msg)
}

type lexer struct {
	src  []rune
	pos  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: []rune(src), line: 1, col: 1}
}

func (l *lexer) errorf(line, col int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) peekRune(off int) rune {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *lexer) advance() rune {
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

// skipSpace consumes whitespace, comments and explicit line joins.
func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		switch {
		case r == '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.advance()
			}
		case r == '\\' && (l.peekRune(1) == '\n' || (l.peekRune(1) == '\r' && l.peekRune(2) == '\n')):
			l.advance()
			for l.src[l.pos] != '\n' {
				l.advance()
			}
			l.advance()
		case unicode.IsSpace(r) || r == '\ufeff':
			l.advance()
		default:
			return
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	line, col := l.line, l.col
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, line: line, col: col}, nil
	}

	r := l.src[l.pos]
	switch {
	case strings.ContainsRune("{}[](),:+-", r):
		l.advance()
		return token{kind: tokPunct, text: string(r), line: line, col: col}, nil
	case r == '\'' || r == '"':
		return l.lexString("", line, col)
	case isDigit(r) || (r == '.' && isDigit(l.peekRune(1))):
		return l.lexNumber(line, col)
	case r == '_' || unicode.IsLetter(r):
		start := l.pos
		for l.pos < len(l.src) && (l.src[l.pos] == '_' || unicode.IsLetter(l.src[l.pos]) || unicode.IsDigit(l.src[l.pos])) {
			l.advance()
		}
		name := string(l.src[start:l.pos])
		if q := l.peekRune(0); (q == '\'' || q == '"') && isStringPrefix(name) {
			return l.lexString(strings.ToLower(name), line, col)
		}
		return token{kind: tokName, text: name, line: line, col: col}, nil
	}
	return token{}, l.errorf(line, col, "unexpected character %q", r)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isStringPrefix(s string) bool {
	switch strings.ToLower(s) {
	case "u", "r", "b", "br", "rb":
		return true
	}
	return false
}

func (l *lexer) lexString(prefix string, line, col int) (token, error) {
	raw := strings.ContainsRune(prefix, 'r')
	quote := l.advance()
	triple := false
	if l.peekRune(0) == quote && l.peekRune(1) == quote {
		l.advance()
		l.advance()
		triple = true
	}

	var sb strings.Builder
	for {
		if l.pos >= len(l.src) {
			return token{}, l.errorf(line, col, "unterminated string")
		}
		r := l.src[l.pos]
		if r == quote {
			if !triple {
				l.advance()
				break
			}
			if l.peekRune(1) == quote && l.peekRune(2) == quote {
				l.advance()
				l.advance()
				l.advance()
				break
			}
		}
		if r == '\n' && !triple {
			return token{}, l.errorf(line, col, "unterminated string")
		}
		if r != '\\' {
			sb.WriteRune(l.advance())
			continue
		}

		escLine, escCol := l.line, l.col
		l.advance()
		if l.pos >= len(l.src) {
			return token{}, l.errorf(line, col, "unterminated string")
		}
		if raw {
			// A raw string keeps the backslash but it still protects the quote.
			sb.WriteRune('\\')
			sb.WriteRune(l.advance())
			continue
		}
		if err := l.lexEscape(&sb, escLine, escCol); err != nil {
			return token{}, err
		}
	}
	return token{kind: tokString, str: sb.String(), line: line, col: col}, nil
}

func (l *lexer) lexEscape(sb *strings.Builder, line, col int) error {
	r := l.advance()
	switch r {
	case '\n':
	case '\\', '\'', '"':
		sb.WriteRune(r)
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'a':
		sb.WriteByte('\a')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'v':
		sb.WriteByte('\v')
	case '0', '1', '2', '3', '4', '5', '6', '7':
		digits := string(r)
		for len(digits) < 3 && l.peekRune(0) >= '0' && l.peekRune(0) <= '7' {
			digits += string(l.advance())
		}
		n, _ := strconv.ParseUint(digits, 8, 32)
		sb.WriteRune(rune(n))
	case 'x', 'u', 'U':
		size := map[rune]int{'x': 2, 'u': 4, 'U': 8}[r]
		if l.pos+size > len(l.src) {
			return l.errorf(line, col, "truncated \\%c escape", r)
		}
		hex := string(l.src[l.pos : l.pos+size])
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil || n > unicode.MaxRune {
			return l.errorf(line, col, "invalid \\%c escape %q", r, hex)
		}
		for range size {
			l.advance()
		}
		sb.WriteRune(rune(n))
	default:
		// Unknown escapes are kept verbatim.
		sb.WriteRune('\\')
		sb.WriteRune(r)
	}
	return nil
}

func (l *lexer) lexNumber(line, col int) (token, error) {
	start := l.pos
	isFloat := false
	if l.src[l.pos] == '0' && strings.ContainsRune("xXoObB", l.peekRune(1)) {
		l.advance()
		l.advance()
		for l.pos < len(l.src) && (isHexDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
			l.advance()
		}
	} else {
		l.digits()
		if l.peekRune(0) == '.' {
			isFloat = true
			l.advance()
			l.digits()
		}
		if e := l.peekRune(0); e == 'e' || e == 'E' {
			isFloat = true
			l.advance()
			if s := l.peekRune(0); s == '+' || s == '-' {
				l.advance()
			}
			l.digits()
		}
	}
	if r := l.peekRune(0); r == '_' || unicode.IsLetter(r) || isDigit(r) || r == '.' {
		return token{}, l.errorf(line, col, "malformed number %q", string(l.src[start:l.pos+1]))
	}

	text := string(l.src[start:l.pos])
	clean := strings.ReplaceAll(text, "_", "")
	if isFloat {
		f, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			return token{}, l.errorf(line, col, "malformed number %q", text)
		}
		return token{kind: tokFloat, text: text, f: f, line: line, col: col}, nil
	}
	base := 10
	if len(clean) > 1 && clean[0] == '0' && strings.ContainsRune("xXoObB", rune(clean[1])) {
		base = 0
	}
	i, err := strconv.ParseInt(clean, base, 64)
	if err != nil {
		return token{}, l.errorf(line, col, "malformed number %q", text)
	}
	return token{kind: tokInt, text: text, i: i, line: line, col: col}, nil
}

func (l *lexer) digits() {
	for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
		l.advance()
	}
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
