package literal

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want any
	}{
		{"empty dict", "{}", map[string]any{}},
		{"int", "42", int64(42)},
		{"negative int", "-7", int64(-7)},
		{"hex int", "0x1F", int64(31)},
		{"underscore int", "1_000", int64(1000)},
		{"float", "1.5", 1.5},
		{"leading dot float", ".5", 0.5},
		{"exponent float", "1e3", 1000.0},
		{"negative float", "-2.25", -2.25},
		{"true", "True", true},
		{"json false", "false", false},
		{"none", "None", nil},
		{"json null", "null", nil},
		{"single quoted", `'sale'`, "sale"},
		{"double quoted", `"it's"`, "it's"},
		{"escapes", `'a\tb\n\'c\'\\'`, "a\tb\n'c'\\"},
		{"hex escape", `'\x41é'`, "Aé"},
		{"octal escape", `'\101'`, "A"},
		{"unknown escape kept", `'\d+'`, `\d+`},
		{"raw string", `r'\d+\''`, `\d+\'`},
		{"unicode prefix", `u'caf\xe9'`, "café"},
		{"bytes prefix", `b'raw'`, "raw"},
		{"triple quoted", "'''line one\nline 'two'\n'''", "line one\nline 'two'\n"},
		{"triple double quoted", `"""x "y" z"""`, `x "y" z`},
		{"adjacent strings", `'a' "b" 'c'`, "abc"},
		{"adjacent across lines", "('Long text '\n 'continued')", "Long text continued"},
		{"line continuation in string", "'a\\\nb'", "ab"},
		{"list", "['a', 1, None]", []any{"a", int64(1), nil}},
		{"list trailing comma", "['a', 'b',]", []any{"a", "b"}},
		{"tuple", "('a', 'b')", []any{"a", "b"}},
		{"single tuple", "('a',)", []any{"a"}},
		{"empty tuple", "()", []any{}},
		{"grouping", "(3)", int64(3)},
		{"nested", "{'a': {'b': [1, (2, 3)]}}", map[string]any{"a": map[string]any{"b": []any{int64(1), []any{int64(2), int64(3)}}}}},
		{"duplicate key keeps last", "{'a': 1, 'a': 2}", map[string]any{"a": int64(2)}},
		{"comments", "{\n    # leading\n    'a': 1,  # trailing\n}", map[string]any{"a": int64(1)}},
		{"hash inside string", "'#not a comment'", "#not a comment"},
		{"explicit line join", "[1, \\\n 2]", []any{int64(1), int64(2)}},
		{"byte order mark", "\ufeff{'a': 1}", map[string]any{"a": int64(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.src)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.src, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.src, got, tt.want)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantLine int
		wantCol  int
	}{
		{"empty input", "", 1, 1},
		{"function call", "{'a': open('x')}", 1, 7},
		{"arbitrary name", "{'a': b}", 1, 7},
		{"arithmetic", "1 + 2", 1, 3},
		{"set", "{'a', 'b'}", 1, 5},
		{"int key", "{1: 'a'}", 1, 2},
		{"unterminated string", "{'a': 'b}", 1, 7},
		{"newline in string", "'a\nb'", 1, 1},
		{"unclosed list", "[1, 2", 1, 6},
		{"missing comma", "[1 2]", 1, 4},
		{"trailing garbage", "{} {}", 1, 4},
		{"sign before string", "-'a'", 1, 1},
		{"complex number", "1j", 1, 1},
		{"f-string", "f'x'", 1, 1},
		{"lambda", "lambda: 1", 1, 1},
		{"error on later line", "{\n  'a': 1,\n  'b': x,\n}", 3, 8},
		{"bad character", "{'a': @}", 1, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			if err == nil {
				t.Fatalf("Parse(%q) expected error", tt.src)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("Parse(%q) error %T, want *SyntaxError", tt.src, err)
			}
			if se.Line != tt.wantLine || se.Col != tt.wantCol {
				t.Errorf("Parse(%q) error at %d:%d, want %d:%d (%v)", tt.src, se.Line, se.Col, tt.wantLine, tt.wantCol, se)
			}
		})
	}
}

func TestParseDict(t *testing.T) {
	m, err := ParseDict("{'depends': ['base']}")
	if err != nil {
		t.Fatalf("ParseDict: %v", err)
	}
	if !reflect.DeepEqual(m["depends"], []any{"base"}) {
		t.Errorf("depends = %#v", m["depends"])
	}

	if _, err := ParseDict("['not', 'a', 'dict']"); err == nil {
		t.Error("ParseDict(list) expected error")
	}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		v    any
		want string
	}{
		{map[string]any{}, "dict"},
		{[]any{}, "list"},
		{"x", "str"},
		{int64(1), "int"},
		{1.0, "float"},
		{true, "bool"},
		{nil, "None"},
	}
	for _, tt := range tests {
		if got := TypeName(tt.v); got != tt.want {
			t.Errorf("TypeName(%#v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
