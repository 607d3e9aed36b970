package parser

import (
	"fmt"
	"strings"
	"testing"
)

var punctNames = map[byte]string{
	',': "comma",
	'{': "l_brace",
	'}': "r_brace",
	'(': "l_paren",
	')': "r_paren",
	'[': "l_square",
	']': "r_square",
	';': "semi",
	'.': "period",
	'*': "star",
	'>': "greater",
	'<': "less",
	'#': "hash",
	'-': "minus",
	'+': "plus",
	'!': "exclaim",
	'/': "slash",
	'=': "equal",
	':': "colon",
	'~': "tilde",
}

// dump renders C source the way `clang -dump-raw-tokens` prints it, so
// tests can be written against plain source text.
func dump(src string) string {
	var b strings.Builder
	line := 1
	emit := func(kind, payload string) {
		fmt.Fprintf(&b, "%s '%s'\tLoc=<test.h:%d:1>\n", kind, payload, line)
		line += strings.Count(payload, "\n")
	}

	isIdent := func(c byte, first bool) bool {
		return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || !first && c >= '0' && c <= '9'
	}

	for i := 0; i < len(src); {
		c := src[i]
		start := i

		switch {
		case c == ' ' || c == '\t' || c == '\n':
			for i < len(src) && strings.IndexByte(" \t\n", src[i]) >= 0 {
				i++
			}
			emit("unknown", src[start:i])
		case strings.HasPrefix(src[i:], "//"):
			for i < len(src) && src[i] != '\n' {
				i++
			}
			emit("comment", src[start:i])
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i:], "*/")
			i += end + 2
			emit("comment", src[start:i])
		case strings.HasPrefix(src[i:], "..."):
			i += 3
			emit("ellipsis", "...")
		case c == '"':
			i++
			for i < len(src) && src[i] != '"' {
				i++
			}
			i++
			emit("string_literal", src[start:i])
		case c >= '0' && c <= '9':
			for i < len(src) && (isIdent(src[i], false) || src[i] == '.') {
				i++
			}
			emit("numeric_constant", src[start:i])
		case isIdent(c, true):
			for i < len(src) && isIdent(src[i], false) {
				i++
			}
			emit("raw_identifier", src[start:i])
		default:
			i++
			name, ok := punctNames[c]
			if !ok {
				name = "unknown"
			}
			emit(name, src[start:i])
		}
	}
	emit("eof", "")

	return b.String()
}

func parseSource(t *testing.T, src string) *Header {
	t.Helper()
	h, err := ParseDump(dump(src))
	if err != nil {
		t.Fatalf("ParseDump() error = %v\nsource:\n%s", err, src)
	}
	return h
}

func parseSourceErr(src string) error {
	_, err := ParseDump(dump(src))
	return err
}
