package parser

import (
	"strconv"
	"strings"

	"github.com/ron96g/cheader-gen/internal/token"
)

// parseDirective handles a `#` line. prior holds the declarations parsed so
// far and is only read, to evaluate conditionals. A nil Decl is returned
// for directives that only steer parsing.
func (p *Parser) parseDirective(prior []Decl, comment string) (Decl, error) {
	p.cur.Next() // #
	p.trailing = ""

	tok, ok := p.nextInLine()
	if !ok {
		return nil, nil // null directive
	}
	if tok.Kind != token.Identifier {
		return nil, p.syntaxErr("#", "expected directive name, got %s", tok)
	}

	switch tok.Text {
	case "include":
		return p.parseInclude()
	case "define":
		return p.parseDefine(comment)
	case "if":
		return nil, p.parseIf(prior)
	case "ifdef":
		name, err := p.directiveName("#ifdef")
		if err != nil {
			return nil, err
		}
		return nil, p.conditional(isTruthy(prior, name))
	case "ifndef":
		name, err := p.directiveName("#ifndef")
		if err != nil {
			return nil, err
		}
		return nil, p.conditional(!isTruthy(prior, name))
	case "endif":
		if p.depth == 0 {
			return nil, p.syntaxErr("#endif", "#endif without matching #if")
		}
		p.depth--
		p.cur.SkipLine()
		return nil, nil
	case "pragma":
		p.cur.SkipLine()
		return nil, nil
	default:
		return nil, p.unsupported("#"+tok.Text, "#%s directive", tok.Text)
	}
}

// nextInLine returns the next significant token of the directive line,
// remembering comments instead of returning them.
func (p *Parser) nextInLine() (token.Token, bool) {
	for {
		tok, ok := p.cur.NextInLine()
		if !ok || tok.Kind != token.Comment {
			return tok, ok
		}
		p.trailing = tok.Text
	}
}

// endLine requires the rest of the directive line to be empty.
func (p *Parser) endLine(where string) error {
	if tok, ok := p.nextInLine(); ok {
		return p.unsupported(where, "unexpected %s in directive", tok)
	}
	p.cur.SkipLine()
	return nil
}

func (p *Parser) directiveName(where string) (string, error) {
	tok, ok := p.nextInLine()
	if !ok || tok.Kind != token.Identifier {
		return "", p.syntaxErr(where, "expected macro name, got %s", describeToken(tok, ok))
	}
	return tok.Text, p.endLine(where)
}

// parseInclude reads `<a/b.h>` or `"a/b.h"`.
func (p *Parser) parseInclude() (Decl, error) {
	tok, ok := p.nextInLine()
	if !ok {
		return nil, p.syntaxErr("#include", "missing path")
	}

	if tok.Kind == token.String {
		path := strings.Trim(tok.Text, `"`)
		if path == "" {
			return nil, p.syntaxErr("#include", "empty path")
		}
		return Include{Path: path}, p.endLine("#include")
	}

	if tok.Kind != token.Less {
		return nil, p.syntaxErr("#include", "expected '<', got %s", tok)
	}

	var b strings.Builder
	for {
		tok, ok := p.nextInLine()
		if !ok {
			return nil, p.syntaxErr("#include", "unterminated path")
		}
		if tok.Kind == token.Greater {
			break
		}

		switch tok.Kind {
		case token.Identifier, token.Numeric:
			b.WriteString(tok.Text)
		case token.Period:
			b.WriteByte('.')
		case token.Slash:
			b.WriteByte('/')
		case token.Minus:
			b.WriteByte('-')
		default:
			return nil, p.syntaxErr("#include", "unexpected %s in path", tok)
		}
	}

	if b.Len() == 0 {
		return nil, p.syntaxErr("#include", "empty path")
	}
	return Include{Path: b.String()}, p.endLine("#include")
}

// parseDefine reads `#define NAME [literal]`. A missing literal yields an
// empty string constant.
func (p *Parser) parseDefine(comment string) (Decl, error) {
	tok, ok := p.nextInLine()
	if !ok || tok.Kind != token.Identifier {
		return nil, p.syntaxErr("#define", "expected macro name, got %s", describeToken(tok, ok))
	}
	name := tok.Text
	where := "#define " + name

	if next, ok := p.cur.Peek(); ok && next.Kind == token.LParen {
		return nil, p.unsupported(where, "function-like macro")
	}

	var value Constant
	tok, ok = p.nextInLine()
	switch {
	case !ok:
		value = Constant{Kind: ConstString}
	case tok.Kind == token.Identifier:
		value = Constant{Kind: ConstString, Str: tok.Text}
	case tok.Kind == token.String:
		value = Constant{Kind: ConstString, Str: unquote(tok.Text)}
	case tok.Kind == token.Numeric:
		value = NumericConstant(tok.Num)
	case tok.Kind == token.Minus:
		num, ok := p.nextInLine()
		if !ok || num.Kind != token.Numeric {
			return nil, p.unsupported(where, "macro expression")
		}
		value = NumericConstant(-num.Num)
	default:
		return nil, p.unsupported(where, "macro expression starting with %s", tok)
	}

	if ok {
		if err := p.endLine(where); err != nil {
			return nil, err
		}
	} else {
		p.cur.SkipLine()
	}

	if comment == "" {
		comment = p.trailing
	}
	return Define{Name: name, Comment: comment, Value: value}, nil
}

// parseIf supports `#if defined(NAME)` and `#if defined NAME`.
func (p *Parser) parseIf(prior []Decl) error {
	tok, ok := p.nextInLine()
	if !ok {
		return p.syntaxErr("#if", "missing condition")
	}
	if tok.Kind == token.Bang {
		return p.unsupported("#if", "#if !defined()")
	}
	if !tok.IsIdent("defined") {
		return p.unsupported("#if", "#if expression starting with %s", tok)
	}

	tok, ok = p.nextInLine()
	parens := ok && tok.Kind == token.LParen
	if parens {
		tok, ok = p.nextInLine()
	}
	if !ok || tok.Kind != token.Identifier {
		return p.syntaxErr("#if", "expected macro name in defined, got %s", describeToken(tok, ok))
	}
	name := tok.Text

	if parens {
		closing, ok := p.nextInLine()
		if !ok || closing.Kind != token.RParen {
			return p.syntaxErr("#if", "expected ')' after defined(%s", name)
		}
	}
	if err := p.endLine("#if"); err != nil {
		return err
	}

	return p.conditional(isTruthy(prior, name))
}

// conditional enters the block when taken, otherwise skips to its #endif.
func (p *Parser) conditional(taken bool) error {
	if taken {
		p.depth++
		return nil
	}
	return p.skipBlock()
}

// skipBlock consumes tokens up to and including the #endif that closes the
// current block, honoring nested conditionals.
func (p *Parser) skipBlock() error {
	depth := 1
	for {
		if !p.cur.SkipUntil(token.Hash) {
			return p.syntaxErr("#if", "unterminated #if block")
		}

		tok, ok := p.cur.NextInLine()
		if !ok || tok.Kind != token.Identifier {
			continue
		}

		switch tok.Text {
		case "if", "ifdef", "ifndef":
			depth++
		case "endif":
			depth--
			if depth == 0 {
				p.cur.SkipLine()
				return nil
			}
		case "elif", "else":
			if depth == 1 {
				return p.unsupported("#if", "#%s", tok.Text)
			}
		}
	}
}

// isTruthy reports whether name is defined among prior declarations with
// a value other than zero or the empty string. The last definition wins.
func isTruthy(prior []Decl, name string) bool {
	d, ok := lookupDefine(prior, name)
	return ok && d.Value.Truthy()
}

func unquote(s string) string {
	if v, err := strconv.Unquote(s); err == nil {
		return v
	}
	return strings.Trim(s, `"`)
}
