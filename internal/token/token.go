// Package token reads the raw token dump produced by
// `clang -fsyntax-only -Xclang -dump-raw-tokens` into a flat token sequence.
package token

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the lexical class of a token.
type Kind int

const (
	Unknown    Kind = iota // whitespace and every kind without its own entry
	Comment                // `//...` or `/*...*/`
	Identifier             // raw_identifier, keywords included
	Numeric                // numeric_constant
	String                 // string_literal, quotes included
	Comma
	LBrace
	RBrace
	LParen
	RParen
	LSquare
	RSquare
	Semi
	Period
	Star
	Greater
	Less
	Hash
	Minus
	Plus
	Bang
	Slash
	Equal
	Colon
	Ellipsis
)

var kindNames = map[Kind]string{
	Unknown:    "unknown",
	Comment:    "comment",
	Identifier: "identifier",
	Numeric:    "numeric",
	String:     "string",
	Comma:      "','",
	LBrace:     "'{'",
	RBrace:     "'}'",
	LParen:     "'('",
	RParen:     "')'",
	LSquare:    "'['",
	RSquare:    "']'",
	Semi:       "';'",
	Period:     "'.'",
	Star:       "'*'",
	Greater:    "'>'",
	Less:       "'<'",
	Hash:       "'#'",
	Minus:      "'-'",
	Plus:       "'+'",
	Bang:       "'!'",
	Slash:      "'/'",
	Equal:      "'='",
	Colon:      "':'",
	Ellipsis:   "'...'",
}

// String returns a human readable name for the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Token is a single lexical item of the dump.
type Token struct {
	Kind Kind
	Text string  // Raw payload for Unknown, Comment, Identifier, Numeric and String
	Num  float64 // Parsed value of a Numeric token
}

// IsWhitespace reports whether the token carries no grammar meaning.
func (t Token) IsWhitespace() bool {
	return t.Kind == Unknown
}

// IsBlank reports whether the token is pure whitespace. Unknown kinds such
// as tilde or amp carry text and are not blank.
func (t Token) IsBlank() bool {
	return t.Kind == Unknown && strings.TrimSpace(t.Text) == ""
}

// IsIdent reports whether the token is the identifier name.
func (t Token) IsIdent(name string) bool {
	return t.Kind == Identifier && t.Text == name
}

// EndsLine reports whether the token is whitespace spanning a line break.
func (t Token) EndsLine() bool {
	if t.Kind != Unknown {
		return false
	}
	for i := 0; i < len(t.Text); i++ {
		if t.Text[i] == '\n' {
			return true
		}
	}
	return false
}

// String renders the token the way it appears in source.
func (t Token) String() string {
	switch t.Kind {
	case Identifier, Comment, String:
		return t.Text
	case Numeric:
		if t.Text != "" {
			return t.Text
		}
		return strconv.FormatFloat(t.Num, 'g', -1, 64)
	case Unknown:
		return strconv.Quote(t.Text)
	default:
		return kindNames[t.Kind]
	}
}
