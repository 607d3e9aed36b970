package parser

import (
	"strings"

	"github.com/ron96g/cheader-gen/internal/meta"
	"github.com/ron96g/cheader-gen/internal/token"
)

// fieldContext describes where a struct member or parameter is parsed.
type fieldContext struct {
	owner     string // Declaration being built, for error messages
	comment   string // Comment directly preceding the field
	docs      string // Doc comment of the enclosing function
	parameter bool   // Parameter (terminated by ',' or ')') rather than member (';')
}

func (c fieldContext) isTerminator(k token.Kind) bool {
	if c.parameter {
		return k == token.Comma || k == token.RParen
	}
	return k == token.Semi
}

// parseField parses one struct member or function parameter and consumes
// its terminator, which it returns.
func (p *Parser) parseField(ctx fieldContext) (VariableDeclaration, token.Kind, error) {
	var (
		words    []string
		label    string
		isConst  bool
		isStruct bool
		isEnum   bool
		stars    int
		trailing string // Comment between the label and the terminator
	)

	for {
		tok, ok := p.cur.SkipWhitespace()
		if !ok {
			return VariableDeclaration{}, 0, p.syntaxErr(ctx.owner, "unexpected end of input in declaration")
		}
		p.cur.Next()

		if ctx.isTerminator(tok.Kind) {
			// An unnamed parameter such as `int32_t` in `f(int32_t)`.
			if len(words) == 0 && label != "" {
				words, label = []string{label}, ""
			}

			typ, err := p.resolveType(ctx.owner, words, isStruct, isEnum, stars)
			if err != nil {
				return VariableDeclaration{}, 0, err
			}

			comment := ctx.comment
			if comment == "" {
				comment = trailing
			}

			decl := VariableDeclaration{
				Label:   label,
				Comment: comment,
				IsConst: isConst,
				Type:    typ,
			}
			if ctx.parameter {
				decl.Meta = meta.ForParam(ctx.docs, label)
				if decl.Meta == nil {
					decl.Meta = meta.ForDecl(comment)
				}
			} else {
				decl.Meta = meta.ForDecl(comment)
			}
			return decl, tok.Kind, nil
		}

		switch tok.Kind {
		case token.Identifier:
			switch tok.Text {
			case kwConst:
				isConst = true
				continue
			case kwStruct:
				isStruct = true
				continue
			case kwEnum:
				isEnum = true
				continue
			case kwUnion:
				return VariableDeclaration{}, 0, p.unsupported(ctx.owner, "union member")
			}

			if next, ok := p.cur.PeekCode(); ok && ctx.isTerminator(next.Kind) {
				label = tok.Text
				continue
			}
			if label != "" {
				return VariableDeclaration{}, 0, p.syntaxErr(ctx.owner, "unexpected %s after %s", tok, label)
			}
			words = append(words, tok.Text)
		case token.Star:
			stars++
		case token.Comment:
			if label != "" {
				trailing = tok.Text
			}
		case token.LSquare:
			return VariableDeclaration{}, 0, p.unsupported(ctx.owner, "array")
		case token.Colon:
			return VariableDeclaration{}, 0, p.unsupported(ctx.owner, "bitfield")
		case token.LParen:
			return VariableDeclaration{}, 0, p.unsupported(ctx.owner, "function pointer")
		case token.LBrace:
			return VariableDeclaration{}, 0, p.unsupported(ctx.owner, "nested struct or union body")
		case token.Comma:
			return VariableDeclaration{}, 0, p.unsupported(ctx.owner, "multiple declarators")
		default:
			return VariableDeclaration{}, 0, p.syntaxErr(ctx.owner, "unexpected %s in declaration", tok)
		}
	}
}

// resolveType resolves the joined type words against the spelling table.
// Other spellings are accepted as nominal references when qualified with
// struct or enum, or when they name a struct or enum declared earlier.
func (p *Parser) resolveType(owner string, words []string, isStruct, isEnum bool, stars int) (VariableType, error) {
	spelling := strings.Join(words, " ")

	if kind, ok := spellings[spelling]; ok && !isStruct && !isEnum {
		if kind == KindVoid && stars > 0 {
			kind = KindVoidPtr
		}
		return VariableType{Kind: kind, PointerCount: stars}, nil
	}

	if len(words) == 0 {
		return VariableType{}, p.syntaxErr(owner, "missing type")
	}
	if len(words) > 1 {
		return VariableType{}, p.unsupported(owner, "type %q", spelling)
	}

	switch {
	case isStruct:
		return VariableType{Kind: KindStructRef, Name: spelling, IsStruct: true, PointerCount: stars}, nil
	case isEnum:
		return VariableType{Kind: KindEnumRef, Name: spelling, PointerCount: stars}, nil
	}

	kind, name, ok := lookupTypeName(p.decls, spelling)
	if !ok {
		return VariableType{}, p.unsupported(owner, "unknown type %q", spelling)
	}
	return VariableType{Kind: kind, Name: name, IsStruct: kind == KindStructRef, PointerCount: stars}, nil
}
