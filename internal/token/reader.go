package token

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrLex is matched by every error Read returns.
var ErrLex = errors.New("lex error")

// LexError reports a token whose payload cannot be interpreted.
type LexError struct {
	Kind    string // Kind name as printed by the dump
	Payload string
	Err     error
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex: invalid %s payload %q: %v", e.Kind, e.Payload, e.Err)
}

// Is makes errors.Is(err, ErrLex) succeed for every LexError.
func (e *LexError) Is(target error) bool {
	return target == ErrLex
}

func (e *LexError) Unwrap() error {
	return e.Err
}

// dumpLineRe matches `kindname 'payload'`. Comment payloads may span lines
// and whitespace payloads are frequently a bare newline.
var dumpLineRe = regexp.MustCompile(`([a-z_]+) '(//[^\n]*|/\*[\s\S]*?\*/|.*\s*)'`)

var punctuation = map[string]Kind{
	"minus":    Minus,
	"plus":     Plus,
	"hash":     Hash,
	"less":     Less,
	"greater":  Greater,
	"star":     Star,
	"period":   Period,
	"semi":     Semi,
	"l_paren":  LParen,
	"r_paren":  RParen,
	"l_brace":  LBrace,
	"r_brace":  RBrace,
	"l_square": LSquare,
	"r_square": RSquare,
	"comma":    Comma,
	"exclaim":  Bang,
	"slash":    Slash,
	"equal":    Equal,
	"colon":    Colon,
	"ellipsis": Ellipsis,
}

// Read converts the dump text into tokens, preserving their order.
func Read(raw string) ([]Token, error) {
	matches := dumpLineRe.FindAllStringSubmatch(raw, -1)
	tokens := make([]Token, 0, len(matches))

	for _, m := range matches {
		kind, payload := m[1], m[2]

		if k, ok := punctuation[kind]; ok {
			tokens = append(tokens, Token{Kind: k})
			continue
		}

		switch kind {
		case "comment":
			tokens = append(tokens, Token{Kind: Comment, Text: payload})
		case "raw_identifier":
			tokens = append(tokens, Token{Kind: Identifier, Text: payload})
		case "string_literal":
			tokens = append(tokens, Token{Kind: String, Text: payload})
		case "numeric_constant":
			num, err := ParseNumeric(payload)
			if err != nil {
				return nil, &LexError{Kind: kind, Payload: payload, Err: err}
			}
			tokens = append(tokens, Token{Kind: Numeric, Text: payload, Num: num})
		default:
			tokens = append(tokens, Token{Kind: Unknown, Text: payload})
		}
	}

	return tokens, nil
}

// ParseNumeric parses a C numeric literal as a float64. Integer suffixes
// (u, l, ll), the float suffix f and hexadecimal or octal integers are
// accepted.
func ParseNumeric(s string) (float64, error) {
	lit := strings.TrimRight(s, "uUlL")
	lower := strings.ToLower(lit)
	isHex := strings.HasPrefix(lower, "0x")
	if !isHex {
		lit = strings.TrimRight(lit, "fF")
		lower = strings.ToLower(lit)
	}
	if lit == "" {
		return 0, fmt.Errorf("empty literal")
	}

	isFloat := strings.ContainsAny(lower, ".p")
	if !isHex && strings.Contains(lower, "e") {
		isFloat = true
	}

	if isFloat {
		return strconv.ParseFloat(lit, 64)
	}

	if i, err := strconv.ParseInt(lit, 0, 64); err == nil {
		return float64(i), nil
	}
	u, err := strconv.ParseUint(lit, 0, 64)
	if err != nil {
		return 0, err
	}
	return float64(u), nil
}
