package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is matched by every *SyntaxError.
	ErrSyntax = errors.New("syntax error")
	// ErrUnsupported is matched by every *UnsupportedError.
	ErrUnsupported = errors.New("unsupported construct")
)

// SyntaxError reports a token stream that does not match the expected
// production.
type SyntaxError struct {
	Pos  int    // Token index
	Decl string // Declaration under construction, if known
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at token %d%s: %s", e.Pos, inDecl(e.Decl), e.Msg)
}

// Is makes errors.Is(err, ErrSyntax) succeed.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// UnsupportedError reports a recognized construct the parser does not
// implement.
type UnsupportedError struct {
	Pos       int
	Decl      string
	Construct string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported at token %d%s: %s", e.Pos, inDecl(e.Decl), e.Construct)
}

// Is makes errors.Is(err, ErrUnsupported) succeed.
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

func inDecl(name string) string {
	if name == "" {
		return ""
	}
	return fmt.Sprintf(" (in %s)", name)
}

func (p *Parser) syntaxErr(decl, format string, args ...any) error {
	return &SyntaxError{Pos: p.cur.Pos(), Decl: decl, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) unsupported(decl, format string, args ...any) error {
	return &UnsupportedError{Pos: p.cur.Pos(), Decl: decl, Construct: fmt.Sprintf(format, args...)}
}
