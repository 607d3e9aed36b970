package parser

import (
	"github.com/ron96g/cheader-gen/internal/meta"
)

// Header is the assembled model of one header file. Each list keeps source
// order.
type Header struct {
	Includes  []string
	Constants []VariableDeclaration
	Enums     []EnumDecl
	Structs   []StructDecl
	Functions []FunctionDecl
}

// Assemble sorts declarations into a Header. Every #define becomes a
// constant typed after its literal.
func Assemble(decls []Decl) *Header {
	h := &Header{}
	for _, d := range decls {
		switch d := d.(type) {
		case Include:
			h.Includes = append(h.Includes, d.Path)
		case Define:
			value := d.Value
			h.Constants = append(h.Constants, VariableDeclaration{
				Label:   d.Name,
				Comment: d.Comment,
				IsConst: true,
				Type:    VariableType{Kind: value.TypeKind()},
				Meta:    meta.ForDecl(d.Comment),
				Value:   &value,
			})
		case EnumDecl:
			h.Enums = append(h.Enums, d)
		case StructDecl:
			h.Structs = append(h.Structs, d)
		case FunctionDecl:
			h.Functions = append(h.Functions, d)
		}
	}
	return h
}

// Struct returns the struct named name.
func (h *Header) Struct(name string) (StructDecl, bool) {
	for _, s := range h.Structs {
		if s.Named(name) {
			return s, true
		}
	}
	return StructDecl{}, false
}

// Enum returns the enum named name.
func (h *Header) Enum(name string) (EnumDecl, bool) {
	for _, e := range h.Enums {
		if e.Name == name {
			return e, true
		}
	}
	return EnumDecl{}, false
}

// Constant returns the constant named name.
func (h *Header) Constant(name string) (VariableDeclaration, bool) {
	for _, c := range h.Constants {
		if c.Label == name {
			return c, true
		}
	}
	return VariableDeclaration{}, false
}

// Function returns the function named name.
func (h *Header) Function(name string) (FunctionDecl, bool) {
	for _, f := range h.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return FunctionDecl{}, false
}

// StructBinding groups the functions annotated for_struct under the struct
// their name prefix refers to.
type StructBinding struct {
	Struct      StructDecl
	Constructor *FunctionDecl
	Destructor  *FunctionDecl
	Methods     []FunctionDecl
}

// Bindings returns one binding per struct, in struct order, and the
// functions that are not attached to any struct. A function is attached
// when it is annotated for_struct and the part of its name before the
// first '_' names a struct of the header. Only the first constructor and
// destructor of a struct take those roles; later ones are methods.
func (h *Header) Bindings() ([]StructBinding, []FunctionDecl) {
	bindings := make([]StructBinding, len(h.Structs))
	index := make(map[string]int, len(h.Structs))
	for i, s := range h.Structs {
		bindings[i].Struct = s
		index[s.Name] = i
		if s.Alias != "" {
			index[s.Alias] = i
		}
	}

	var free []FunctionDecl
	for _, f := range h.Functions {
		owner, _, ok := f.Owner()
		i, known := index[owner]
		if !ok || !known || f.Meta == nil || !f.Meta.ForStruct {
			free = append(free, f)
			continue
		}

		b := &bindings[i]
		switch {
		case f.Meta.IsConstructor && b.Constructor == nil:
			fn := f
			b.Constructor = &fn
		case f.Meta.IsDestructor && b.Destructor == nil:
			fn := f
			b.Destructor = &fn
		default:
			b.Methods = append(b.Methods, f)
		}
	}

	return bindings, free
}
