// Package export converts a parsed header into a serialisable model for
// downstream binding generators.
package export

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/ron96g/cheader-gen/internal/parser"
)

// Model is the language neutral view of one header.
type Model struct {
	Header    string     `json:"header" yaml:"header"`
	Includes  []string   `json:"includes,omitempty" yaml:"includes,omitempty"`
	Constants []Constant `json:"constants,omitempty" yaml:"constants,omitempty"`
	Enums     []Enum     `json:"enums,omitempty" yaml:"enums,omitempty"`
	Structs   []Struct   `json:"structs,omitempty" yaml:"structs,omitempty"`
	Functions []Function `json:"functions,omitempty" yaml:"functions,omitempty"`
}

// Type is a C type reduced to its kind, referenced name and indirection.
type Type struct {
	Kind     string `json:"kind" yaml:"kind"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Pointers int    `json:"pointers,omitempty" yaml:"pointers,omitempty"`
	Const    bool   `json:"const,omitempty" yaml:"const,omitempty"`
}

// Variable is a struct member or a function parameter.
type Variable struct {
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Comment string   `json:"comment,omitempty" yaml:"comment,omitempty"`
	Type    Type     `json:"type" yaml:"type"`
	Meta    []string `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Constant is an object-like macro.
type Constant struct {
	Name    string   `json:"name" yaml:"name"`
	Comment string   `json:"comment,omitempty" yaml:"comment,omitempty"`
	Type    Type     `json:"type" yaml:"type"`
	Value   any      `json:"value" yaml:"value"`
	Meta    []string `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Enum maps member names to their values in declaration order.
type Enum struct {
	Name     string                              `json:"name" yaml:"name"`
	Comment  string                              `json:"comment,omitempty" yaml:"comment,omitempty"`
	Meta     []string                            `json:"meta,omitempty" yaml:"meta,omitempty"`
	Members  *orderedmap.OrderedMap[string, int] `json:"members" yaml:"members"`
	Comments map[string]string                   `json:"member_comments,omitempty" yaml:"member_comments,omitempty"`
}

// Struct is a struct with the functions bound to it.
type Struct struct {
	Name        string     `json:"name" yaml:"name"`
	Alias       string     `json:"alias,omitempty" yaml:"alias,omitempty"`
	Comment     string     `json:"comment,omitempty" yaml:"comment,omitempty"`
	Meta        []string   `json:"meta,omitempty" yaml:"meta,omitempty"`
	Opaque      bool       `json:"opaque,omitempty" yaml:"opaque,omitempty"`
	Fields      []Variable `json:"fields,omitempty" yaml:"fields,omitempty"`
	Constructor string     `json:"constructor,omitempty" yaml:"constructor,omitempty"`
	Destructor  string     `json:"destructor,omitempty" yaml:"destructor,omitempty"`
	Methods     []string   `json:"methods,omitempty" yaml:"methods,omitempty"`
}

// Function is a function prototype.
type Function struct {
	Name     string     `json:"name" yaml:"name"`
	Comment  string     `json:"comment,omitempty" yaml:"comment,omitempty"`
	Meta     []string   `json:"meta,omitempty" yaml:"meta,omitempty"`
	Returns  Type       `json:"returns" yaml:"returns"`
	Params   []Variable `json:"params,omitempty" yaml:"params,omitempty"`
	Variadic bool       `json:"variadic,omitempty" yaml:"variadic,omitempty"`
	Bound    bool       `json:"bound,omitempty" yaml:"bound,omitempty"` // Listed under a struct
}

// FromHeader builds the model of h. name identifies the header in the output.
func FromHeader(name string, h *parser.Header) *Model {
	m := &Model{
		Header:   name,
		Includes: h.Includes,
	}

	for _, c := range h.Constants {
		m.Constants = append(m.Constants, Constant{
			Name:    c.Label,
			Comment: c.Comment,
			Type:    fromType(c.Type, false),
			Value:   c.Value.Value(),
			Meta:    c.Meta.Flags(),
		})
	}

	for _, e := range h.Enums {
		m.Enums = append(m.Enums, fromEnum(e))
	}

	bindings, _ := h.Bindings()
	bound := make(map[string]bool)
	for _, b := range bindings {
		s := fromStruct(b.Struct)
		if b.Constructor != nil {
			s.Constructor = b.Constructor.Name
			bound[b.Constructor.Name] = true
		}
		if b.Destructor != nil {
			s.Destructor = b.Destructor.Name
			bound[b.Destructor.Name] = true
		}
		for _, fn := range b.Methods {
			s.Methods = append(s.Methods, fn.Name)
			bound[fn.Name] = true
		}
		m.Structs = append(m.Structs, s)
	}

	for _, fn := range h.Functions {
		f := fromFunction(fn)
		f.Bound = bound[fn.Name]
		m.Functions = append(m.Functions, f)
	}

	return m
}

func fromType(t parser.VariableType, isConst bool) Type {
	return Type{
		Kind:     t.Kind.String(),
		Name:     t.Name,
		Pointers: t.PointerCount,
		Const:    isConst,
	}
}

func fromVariable(v parser.VariableDeclaration) Variable {
	return Variable{
		Name:    v.Label,
		Comment: v.Comment,
		Type:    fromType(v.Type, v.IsConst),
		Meta:    v.Meta.Flags(),
	}
}

func fromEnum(e parser.EnumDecl) Enum {
	out := Enum{
		Name:    e.Name,
		Comment: e.Comment,
		Meta:    e.Meta.Flags(),
		Members: orderedmap.New[string, int](),
	}
	for i, member := range e.Members {
		out.Members.Set(member.Name, i)
		if member.Comment != "" {
			if out.Comments == nil {
				out.Comments = make(map[string]string)
			}
			out.Comments[member.Name] = member.Comment
		}
	}
	return out
}

func fromStruct(s parser.StructDecl) Struct {
	out := Struct{
		Name:    s.Name,
		Alias:   s.Alias,
		Comment: s.Comment,
		Meta:    s.Meta.Flags(),
		Opaque:  s.Opaque(),
	}
	for _, f := range s.Fields {
		out.Fields = append(out.Fields, fromVariable(f))
	}
	return out
}

func fromFunction(fn parser.FunctionDecl) Function {
	out := Function{
		Name:     fn.Name,
		Comment:  fn.Comment,
		Meta:     fn.Meta.Flags(),
		Returns:  fromType(fn.Return, fn.ReturnIsConst),
		Variadic: fn.Variadic,
	}
	for _, p := range fn.Params {
		out.Params = append(out.Params, fromVariable(p))
	}
	return out
}
