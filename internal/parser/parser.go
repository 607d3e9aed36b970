package parser

import (
	"strings"

	"github.com/ron96g/cheader-gen/internal/meta"
	"github.com/ron96g/cheader-gen/internal/token"
)

const (
	kwTypedef = "typedef"
	kwStruct  = "struct"
	kwEnum    = "enum"
	kwUnion   = "union"
	kwConst   = "const"
	kwExtern  = "extern"
)

// Parser is a single pass recursive descent parser over a token dump.
type Parser struct {
	cur      *token.Cursor
	decls    []Decl // Completed declarations, in source order
	pending  string // Doc comment waiting for its declaration
	trailing string // Comment seen while reading a directive line
	depth    int    // Open #if blocks whose body is being parsed
}

// NewParser creates a Parser over tokens.
func NewParser(tokens []token.Token) *Parser {
	return &Parser{cur: token.NewCursor(tokens)}
}

// Parse parses tokens into top-level declarations.
func Parse(tokens []token.Token) ([]Decl, error) {
	return NewParser(tokens).Parse()
}

// ParseDump reads a raw clang token dump and assembles its header model.
func ParseDump(raw string) (*Header, error) {
	tokens, err := token.Read(raw)
	if err != nil {
		return nil, err
	}

	decls, err := Parse(tokens)
	if err != nil {
		return nil, err
	}

	return Assemble(decls), nil
}

// Parse runs the parser to the end of input. Any error aborts the run; no
// partial result is returned.
func (p *Parser) Parse() ([]Decl, error) {
	for {
		tok, ok, blank := p.skipSpace()
		if !ok {
			break
		}
		// A blank line detaches plain comments; annotations carry over.
		if blank && !meta.Annotated(p.pending) {
			p.pending = ""
		}

		switch {
		case tok.Kind == token.Comment:
			p.cur.Next()
			p.takeComment(tok.Text)

		case tok.Kind == token.Hash:
			decl, err := p.parseDirective(p.decls, p.takePending())
			if err != nil {
				return nil, err
			}
			if decl != nil {
				p.decls = append(p.decls, decl)
			}

		case tok.IsIdent(kwTypedef):
			p.cur.Next()
			decl, err := p.parseTypedef(p.takePending())
			if err != nil {
				return nil, err
			}
			p.decls = append(p.decls, decl)

		case tok.Kind == token.Identifier:
			decl, err := p.parseFunction(p.takePending())
			if err != nil {
				return nil, err
			}
			p.decls = append(p.decls, decl)

		default:
			return nil, p.syntaxErr("", "unexpected %s at top level", tok)
		}
	}

	if p.depth > 0 {
		return nil, p.syntaxErr("", "unterminated #if: %d block(s) still open", p.depth)
	}

	return p.decls, nil
}

// skipSpace consumes whitespace and reports whether it spanned a blank line.
func (p *Parser) skipSpace() (token.Token, bool, bool) {
	newlines := 0
	for {
		tok, ok := p.cur.Peek()
		if !ok || !tok.IsWhitespace() {
			return tok, ok, newlines > 1
		}
		newlines += strings.Count(tok.Text, "\n")
		p.cur.Next()
	}
}

// takeComment appends to the pending doc comment; consecutive line
// comments form one block.
func (p *Parser) takeComment(text string) {
	if p.pending == "" {
		p.pending = text
		return
	}
	p.pending += "\n" + text
}

func (p *Parser) takePending() string {
	c := p.pending
	p.pending = ""
	return c
}

// parseTypedef dispatches on the keyword following `typedef`.
func (p *Parser) parseTypedef(comment string) (Decl, error) {
	tok, ok := p.cur.SkipWhitespace()
	if !ok {
		return nil, p.syntaxErr("", "unexpected end of input after typedef")
	}

	switch {
	case tok.IsIdent(kwEnum):
		return p.parseEnum(comment)
	case tok.IsIdent(kwStruct):
		return p.parseStruct(comment)
	case tok.IsIdent(kwUnion):
		return nil, p.unsupported("", "union")
	case tok.Kind == token.Identifier:
		return p.parseFunction(comment)
	default:
		return nil, p.syntaxErr("", "expected type after typedef, got %s", tok)
	}
}

// parseEnum parses `enum [Name] { A, B } Name;`.
func (p *Parser) parseEnum(comment string) (Decl, error) {
	p.cur.Next() // enum

	name := ""
	if tok, ok := p.cur.SkipWhitespace(); ok && tok.Kind == token.Identifier {
		name = tok.Text
		p.cur.Next()
	}
	where := describe(kwEnum, name)

	if tok, ok := p.cur.SkipWhitespace(); ok && tok.Kind == token.Identifier {
		return nil, p.unsupported(where, "enum forward declaration")
	}
	if !p.cur.SkipUntil(token.LBrace) {
		return nil, p.syntaxErr(where, "expected '{'")
	}

	var (
		members       []EnumMember
		memberComment string
	)
	for {
		tok, ok := p.cur.SkipWhitespace()
		if !ok {
			return nil, p.syntaxErr(where, "unterminated enum body")
		}
		p.cur.Next()

		switch tok.Kind {
		case token.RBrace:
			closing, err := p.closeBody(where, name)
			if err != nil {
				return nil, err
			}
			return EnumDecl{
				Name:    closing,
				Comment: comment,
				Meta:    meta.ForDecl(comment),
				Members: members,
			}, nil
		case token.Comma:
			continue
		case token.Comment:
			memberComment = tok.Text
		case token.Identifier:
			members = append(members, EnumMember{Name: tok.Text, Comment: memberComment})
			memberComment = ""
		case token.Equal:
			return nil, p.unsupported(where, "explicit enumerator value")
		default:
			return nil, p.syntaxErr(where, "unexpected %s in enum body", tok)
		}
	}
}

// parseStruct parses `struct Name Alias;` (opaque) and
// `struct [Name] { members } Name;`.
func (p *Parser) parseStruct(comment string) (Decl, error) {
	p.cur.Next() // struct

	name := ""
	tok, ok := p.cur.SkipWhitespace()
	if ok && tok.Kind == token.Identifier {
		name = tok.Text
		p.cur.Next()
		tok, ok = p.cur.SkipWhitespace()
	}
	where := describe(kwStruct, name)

	if !ok {
		return nil, p.syntaxErr(where, "unexpected end of input")
	}

	// typedef struct Tag Name;
	if tok.Kind == token.Identifier && name != "" {
		p.cur.Next()
		semi, ok := p.cur.SkipWhitespace()
		if !ok || semi.Kind != token.Semi {
			return nil, p.syntaxErr(where, "expected ';' after %s, got %s", tok.Text, describeToken(semi, ok))
		}
		p.cur.Next()
		s := StructDecl{
			Name:    name,
			Comment: comment,
			Meta:    meta.ForDecl(comment),
		}
		if tok.Text != name {
			s.Alias = tok.Text
		}
		return s, nil
	}

	if tok.Kind == token.Star {
		return nil, p.unsupported(where, "pointer typedef")
	}
	if !p.cur.SkipUntil(token.LBrace) {
		return nil, p.syntaxErr(where, "expected '{'")
	}

	var (
		fields        []VariableDeclaration
		memberComment string
	)
	for {
		tok, ok := p.cur.SkipWhitespace()
		if !ok {
			return nil, p.syntaxErr(where, "unterminated struct body")
		}

		switch tok.Kind {
		case token.RBrace:
			p.cur.Next()
			closing, err := p.closeBody(where, name)
			if err != nil {
				return nil, err
			}
			return StructDecl{
				Name:    closing,
				Comment: comment,
				Meta:    meta.ForDecl(comment),
				Fields:  fields,
			}, nil
		case token.Comment:
			p.cur.Next()
			memberComment = tok.Text
		default:
			field, _, err := p.parseField(fieldContext{owner: where, comment: memberComment})
			if err != nil {
				return nil, err
			}
			fields = append(fields, field)
			memberComment = ""
		}
	}
}

// closeBody consumes the repeated type name and ';' after a closing brace
// and returns the name. Anonymous bodies take the closing name.
func (p *Parser) closeBody(where, name string) (string, error) {
	tok, ok := p.cur.SkipWhitespace()
	if !ok || tok.Kind != token.Identifier {
		return "", p.syntaxErr(where, "expected type name after '}', got %s", describeToken(tok, ok))
	}
	if name != "" && tok.Text != name {
		return "", p.syntaxErr(where, "closing name %q does not match %q", tok.Text, name)
	}
	p.cur.Next()

	semi, ok := p.cur.SkipWhitespace()
	if !ok || semi.Kind != token.Semi {
		return "", p.syntaxErr(where, "expected ';' after %s, got %s", tok.Text, describeToken(semi, ok))
	}
	p.cur.Next()

	return tok.Text, nil
}

// parseFunction parses `ret name(params);`. The word right before '(' is
// the function name.
func (p *Parser) parseFunction(comment string) (Decl, error) {
	var (
		words    []string
		stars    int
		isStruct bool
		isEnum   bool
		isConst  bool
	)

	for {
		tok, ok := p.cur.SkipWhitespace()
		if !ok {
			return nil, p.syntaxErr(describe("function", lastWord(words)), "unexpected end of input")
		}
		if tok.Kind == token.LParen {
			break
		}

		switch tok.Kind {
		case token.Star:
			stars++
		case token.Comment:
		case token.Identifier:
			switch tok.Text {
			case kwStruct:
				isStruct = true
			case kwEnum:
				isEnum = true
			case kwConst:
				isConst = true
			case kwExtern:
			case kwUnion:
				return nil, p.unsupported(describe("function", lastWord(words)), "union")
			default:
				words = append(words, tok.Text)
			}
		case token.Semi:
			return nil, p.unsupported(lastWord(words), "declaration without parameter list (type alias or global variable)")
		default:
			return nil, p.syntaxErr(describe("function", lastWord(words)), "unexpected %s in return type", tok)
		}
		p.cur.Next()
	}

	if len(words) < 2 {
		return nil, p.unsupported(lastWord(words), "function pointer or declaration without return type")
	}
	name := words[len(words)-1]
	words = words[:len(words)-1]
	where := describe("function", name)

	ret, err := p.resolveType(where, words, isStruct, isEnum, stars)
	if err != nil {
		return nil, err
	}

	p.cur.Next() // (

	fn := FunctionDecl{
		Name:          name,
		Comment:       comment,
		Meta:          meta.ForDecl(comment),
		Return:        ret,
		ReturnIsConst: isConst,
	}

	paramComment := ""
params:
	for {
		tok, ok := p.cur.SkipWhitespace()
		if !ok {
			return nil, p.syntaxErr(where, "unterminated parameter list")
		}

		switch tok.Kind {
		case token.RParen:
			p.cur.Next()
			break params
		case token.Comment:
			p.cur.Next()
			paramComment = tok.Text
		case token.Ellipsis:
			p.cur.Next()
			fn.Variadic = true
		default:
			param, term, err := p.parseField(fieldContext{
				owner:     where,
				comment:   paramComment,
				docs:      comment,
				parameter: true,
			})
			if err != nil {
				return nil, err
			}
			if param.Label == "" && param.Type.Kind == KindVoid && param.Type.PointerCount == 0 {
				fn.Params = nil
			} else {
				fn.Params = append(fn.Params, param)
			}
			paramComment = ""
			if term == token.RParen {
				break params
			}
		}
	}

	if !p.cur.SkipUntil(token.Semi) {
		return nil, p.syntaxErr(where, "expected ';' after parameter list")
	}

	return fn, nil
}

func describe(kind, name string) string {
	if name == "" {
		return kind
	}
	return kind + " " + name
}

func describeToken(tok token.Token, ok bool) string {
	if !ok {
		return "end of input"
	}
	return tok.String()
}

func lastWord(words []string) string {
	if len(words) == 0 {
		return ""
	}
	return words[len(words)-1]
}

// lookupDefine returns the last #define of name among prior declarations.
func lookupDefine(prior []Decl, name string) (Define, bool) {
	for i := len(prior) - 1; i >= 0; i-- {
		if d, ok := prior[i].(Define); ok && d.Name == name {
			return d, true
		}
	}
	return Define{}, false
}

// lookupTypeName resolves a typedef name declared earlier in the header and
// returns the declaration's own name, which differs for struct aliases.
func lookupTypeName(prior []Decl, name string) (TypeKind, string, bool) {
	for i := len(prior) - 1; i >= 0; i-- {
		switch d := prior[i].(type) {
		case StructDecl:
			if d.Named(name) {
				return KindStructRef, d.Name, true
			}
		case EnumDecl:
			if d.Name == name {
				return KindEnumRef, d.Name, true
			}
		}
	}
	return KindInvalid, "", false
}
