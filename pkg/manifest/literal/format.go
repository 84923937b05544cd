package literal

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// Width is the line width the printer tries to stay within.
	Width = 80
	// Indent is the number of spaces added per nesting level.
	Indent = 4
)

// Format renders v in the pretty-print layout used for manifest files:
// dict keys sorted, one item per line once a container exceeds the line
// width, and long strings split into adjacent literals. The result ends with
// a newline. Formatting the same value twice yields identical bytes.
//
// Besides the types produced by [Parse], Format accepts []string, int and
// map[string]string for convenience.
func Format(v any) string {
	p := &printer{}
	p.format(normalize(v), 0, 0, 0)
	p.buf.WriteByte('\n')
	return p.buf.String()
}

// Repr renders v on a single line.
func Repr(v any) string {
	return repr(normalize(v))
}

func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = normalize(e)
		}
		return m
	case map[string]string:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = e
		}
		return m
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case []string:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = e
		}
		return out
	case int:
		return int64(x)
	case float32:
		return float64(x)
	}
	return v
}

type printer struct {
	buf strings.Builder
}

func (p *printer) format(v any, indent, allowance, level int) {
	rep := repr(v)
	if utf8.RuneCountInString(rep) > Width-indent-allowance {
		switch x := v.(type) {
		case map[string]any:
			p.dict(x, indent, allowance, level+1)
			return
		case []any:
			p.list(x, indent, allowance, level+1)
			return
		case string:
			p.str(x, indent, allowance, level+1)
			return
		}
	}
	p.buf.WriteString(rep)
}

func (p *printer) dict(m map[string]any, indent, allowance, level int) {
	p.buf.WriteString("{" + strings.Repeat(" ", Indent-1))
	keys := sortedKeys(m)
	indent += Indent
	for i, k := range keys {
		last := i == len(keys)-1
		rep := quote(k)
		p.buf.WriteString(rep)
		p.buf.WriteString(": ")
		itemAllowance := 1
		if last {
			itemAllowance = allowance + 1
		}
		p.format(m[k], indent+utf8.RuneCountInString(rep)+2, itemAllowance, level)
		if !last {
			p.buf.WriteString(",\n" + strings.Repeat(" ", indent))
		}
	}
	p.buf.WriteByte('}')
}

func (p *printer) list(items []any, indent, allowance, level int) {
	p.buf.WriteString("[" + strings.Repeat(" ", Indent-1))
	indent += Indent
	for i, item := range items {
		last := i == len(items)-1
		if i > 0 {
			p.buf.WriteString(",\n" + strings.Repeat(" ", indent))
		}
		itemAllowance := 1
		if last {
			itemAllowance = allowance + 1
		}
		p.format(item, indent, itemAllowance, level)
	}
	p.buf.WriteByte(']')
}

// str splits a long string into adjacent literals, breaking after line ends
// and then after runs of whitespace. Only a top-level string is wrapped in
// parentheses.
func (p *printer) str(s string, indent, allowance, level int) {
	if s == "" {
		p.buf.WriteString(quote(s))
		return
	}
	if level == 1 {
		indent++
		allowance++
	}
	maxWidth := Width - indent
	maxWidth1 := maxWidth

	var chunks []string
	lines := splitLines(s)
	for i, line := range lines {
		rep := quote(line)
		lastLine := i == len(lines)-1
		if lastLine {
			maxWidth1 -= allowance
		}
		if utf8.RuneCountInString(rep) <= maxWidth1 {
			chunks = append(chunks, rep)
			continue
		}
		parts := splitWords(line)
		maxWidth2 := maxWidth
		current := ""
		for j, part := range parts {
			candidate := current + part
			if j == len(parts)-1 && lastLine {
				maxWidth2 -= allowance
			}
			if utf8.RuneCountInString(quote(candidate)) > maxWidth2 {
				if current != "" {
					chunks = append(chunks, quote(current))
				}
				current = part
			} else {
				current = candidate
			}
		}
		if current != "" {
			chunks = append(chunks, quote(current))
		}
	}

	if len(chunks) == 1 {
		p.buf.WriteString(quote(s))
		return
	}
	if level == 1 {
		p.buf.WriteByte('(')
	}
	for i, c := range chunks {
		if i > 0 {
			p.buf.WriteString("\n" + strings.Repeat(" ", indent))
		}
		p.buf.WriteString(c)
	}
	if level == 1 {
		p.buf.WriteByte(')')
	}
}

// splitLines splits s after each line break, keeping the breaks.
func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n', '\v', '\f':
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		default:
			continue
		}
		lines = append(lines, s[start:i+1])
		start = i + 1
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

// splitWords splits s into runs of non-space followed by trailing space.
func splitWords(s string) []string {
	var parts []string
	start := 0
	inSpace := false
	for i, r := range s {
		space := unicode.IsSpace(r)
		if !space && inSpace {
			parts = append(parts, s[start:i])
			start = i
		}
		inSpace = space
	}
	if start < len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func repr(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case bool:
		if x {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return formatFloat(x)
	case string:
		return quote(x)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = repr(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := sortedKeys(x)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = quote(k) + ": " + repr(x[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return quote(fmt.Sprint(v))
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	if f == 0 || (math.Abs(f) >= 1e-4 && math.Abs(f) < 1e16) {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.ContainsRune(s, '.') {
			s += ".0"
		}
		return s
	}
	return strconv.FormatFloat(f, 'e', -1, 64)
}

// quote renders s as a string literal, preferring single quotes.
func quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}

	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte(q)
	for _, r := range s {
		switch {
		case r == rune(q) || r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r < ' ' || r == 0x7f:
			fmt.Fprintf(&sb, `\x%02x`, r)
		case r < 0x7f:
			sb.WriteRune(r)
		case unicode.IsPrint(r):
			sb.WriteRune(r)
		case r < 0x100:
			fmt.Fprintf(&sb, `\x%02x`, r)
		case r < 0x10000:
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			fmt.Fprintf(&sb, `\U%08x`, r)
		}
	}
	sb.WriteByte(q)
	return sb.String()
}
