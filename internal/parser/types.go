// Package parser builds the declaration model of a C header from its token
// stream.
package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/ron96g/cheader-gen/internal/meta"
)

// TypeKind represents the kind of a C type.
type TypeKind int

const (
	KindInvalid TypeKind = iota
	KindVoid
	KindVoidPtr
	KindChar
	KindUChar
	KindBool
	KindShort
	KindUShort
	KindInt
	KindUInt
	KindLong
	KindULong
	KindLongLong
	KindULongLong
	KindFloat
	KindDouble
	KindLongDouble
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindIntptr
	KindUintptr
	KindSize
	KindStructRef // Struct referenced by name, see VariableType.Name
	KindEnumRef   // Enum referenced by name, see VariableType.Name
)

// spellings maps the accepted C spellings to their kind.
var spellings = map[string]TypeKind{
	"char":                   KindChar,
	"signed char":            KindChar,
	"unsigned char":          KindUChar,
	"bool":                   KindBool,
	"_Bool":                  KindBool,
	"short":                  KindShort,
	"short int":              KindShort,
	"signed short":           KindShort,
	"signed short int":       KindShort,
	"unsigned short":         KindUShort,
	"unsigned short int":     KindUShort,
	"int":                    KindInt,
	"signed":                 KindInt,
	"signed int":             KindInt,
	"unsigned":               KindUInt,
	"unsigned int":           KindUInt,
	"long":                   KindLong,
	"long int":               KindLong,
	"signed long":            KindLong,
	"signed long int":        KindLong,
	"unsigned long":          KindULong,
	"unsigned long int":      KindULong,
	"long long":              KindLongLong,
	"long long int":          KindLongLong,
	"signed long long":       KindLongLong,
	"signed long long int":   KindLongLong,
	"unsigned long long":     KindULongLong,
	"unsigned long long int": KindULongLong,
	"float":                  KindFloat,
	"double":                 KindDouble,
	"long double":            KindLongDouble,
	"int8_t":                 KindInt8,
	"int16_t":                KindInt16,
	"int32_t":                KindInt32,
	"int64_t":                KindInt64,
	"uint8_t":                KindUint8,
	"uint16_t":               KindUint16,
	"uint32_t":               KindUint32,
	"uint64_t":               KindUint64,
	"intptr_t":               KindIntptr,
	"uintptr_t":              KindUintptr,
	"size_t":                 KindSize,
	"void":                   KindVoid,
	"void *":                 KindVoidPtr,
}

var kindSpellings = map[TypeKind]string{
	KindVoid:       "void",
	KindVoidPtr:    "void",
	KindChar:       "char",
	KindUChar:      "unsigned char",
	KindBool:       "bool",
	KindShort:      "short",
	KindUShort:     "unsigned short",
	KindInt:        "int",
	KindUInt:       "unsigned int",
	KindLong:       "long",
	KindULong:      "unsigned long",
	KindLongLong:   "long long",
	KindULongLong:  "unsigned long long",
	KindFloat:      "float",
	KindDouble:     "double",
	KindLongDouble: "long double",
	KindInt8:       "int8_t",
	KindInt16:      "int16_t",
	KindInt32:      "int32_t",
	KindInt64:      "int64_t",
	KindUint8:      "uint8_t",
	KindUint16:     "uint16_t",
	KindUint32:     "uint32_t",
	KindUint64:     "uint64_t",
	KindIntptr:     "intptr_t",
	KindUintptr:    "uintptr_t",
	KindSize:       "size_t",
	KindStructRef:  "struct",
	KindEnumRef:    "enum",
}

// String returns the C spelling of the kind.
func (k TypeKind) String() string {
	if s, ok := kindSpellings[k]; ok {
		return s
	}
	return "invalid"
}

// IsInteger returns true for every integral kind, char and bool included.
func (k TypeKind) IsInteger() bool {
	switch k {
	case KindChar, KindUChar, KindBool,
		KindShort, KindUShort, KindInt, KindUInt,
		KindLong, KindULong, KindLongLong, KindULongLong,
		KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint8, KindUint16, KindUint32, KindUint64,
		KindIntptr, KindUintptr, KindSize:
		return true
	}
	return false
}

// IsFloat returns true for float, double and long double.
func (k TypeKind) IsFloat() bool {
	return k == KindFloat || k == KindDouble || k == KindLongDouble
}

// IsRef returns true for nominal struct and enum references.
func (k TypeKind) IsRef() bool {
	return k == KindStructRef || k == KindEnumRef
}

// VariableType is the type of a struct member, parameter, return value or
// constant.
type VariableType struct {
	Kind         TypeKind
	Name         string // Referenced type name for KindStructRef and KindEnumRef
	IsStruct     bool   // Set only for KindStructRef
	PointerCount int    // Number of '*' in the declaration
}

// String renders the type in C syntax.
func (t VariableType) String() string {
	base := t.Kind.String()
	if t.Kind.IsRef() {
		base = t.Name
	}
	if t.PointerCount == 0 {
		return base
	}
	return base + " " + strings.Repeat("*", t.PointerCount)
}

// VariableDeclaration models a struct member, a function parameter or a
// macro constant.
type VariableDeclaration struct {
	Label   string
	Comment string
	IsConst bool
	Type    VariableType
	Meta    *meta.Annotation
	Value   *Constant // Literal value, set for macro constants only
}

func (v VariableDeclaration) String() string {
	var b strings.Builder
	if v.IsConst {
		b.WriteString("const ")
	}
	b.WriteString(v.Type.String())
	if v.Label != "" {
		if v.Type.PointerCount == 0 {
			b.WriteByte(' ')
		}
		b.WriteString(v.Label)
	}
	return b.String()
}

// ConstKind identifies the literal held by a Constant.
type ConstKind int

const (
	ConstString ConstKind = iota // Identifier, string literal or empty body
	ConstInt
	ConstFloat
)

// Constant is the literal value of an object-like #define.
type Constant struct {
	Kind  ConstKind
	Int   int64
	Float float64
	Str   string
}

// NumericConstant classifies a parsed numeric literal: integral values
// become ConstInt, everything else ConstFloat.
func NumericConstant(v float64) Constant {
	if v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
		return Constant{Kind: ConstInt, Int: int64(v)}
	}
	return Constant{Kind: ConstFloat, Float: v}
}

// Truthy reports whether the constant enables an #if defined() block:
// zero numbers and empty strings do not.
func (c Constant) Truthy() bool {
	switch c.Kind {
	case ConstInt:
		return c.Int != 0
	case ConstFloat:
		return c.Float != 0
	default:
		return c.Str != ""
	}
}

// TypeKind returns the kind a constant is exposed with in the header model.
func (c Constant) TypeKind() TypeKind {
	switch c.Kind {
	case ConstInt:
		return KindInt
	case ConstFloat:
		return KindDouble
	default:
		return KindChar
	}
}

// Value returns the literal as int64, float64 or string.
func (c Constant) Value() any {
	switch c.Kind {
	case ConstInt:
		return c.Int
	case ConstFloat:
		return c.Float
	default:
		return c.Str
	}
}

func (c Constant) String() string {
	switch c.Kind {
	case ConstInt:
		return strconv.FormatInt(c.Int, 10)
	case ConstFloat:
		return strconv.FormatFloat(c.Float, 'g', -1, 64)
	default:
		return c.Str
	}
}

// Decl is a top-level declaration: Include, Define, EnumDecl, StructDecl or
// FunctionDecl.
type Decl interface {
	DeclName() string
	decl()
}

// Include is an `#include` directive.
type Include struct {
	Path string
}

// Define is an object-like `#define NAME literal`.
type Define struct {
	Name    string
	Comment string
	Value   Constant
}

// EnumMember is one enumerator; its value is its position.
type EnumMember struct {
	Name    string
	Comment string
}

// EnumDecl is a `typedef enum`.
type EnumDecl struct {
	Name    string
	Comment string
	Meta    *meta.Annotation
	Members []EnumMember
}

// StructDecl is a `typedef struct`. A struct without fields is opaque.
type StructDecl struct {
	Name    string
	Alias   string // Typedef name of a forward declaration when it differs from the tag
	Comment string
	Meta    *meta.Annotation
	Fields  []VariableDeclaration
}

// Named reports whether name is the struct's tag or its alias.
func (s StructDecl) Named(name string) bool {
	return s.Name == name || s.Alias != "" && s.Alias == name
}

// FunctionDecl is a function prototype.
type FunctionDecl struct {
	Name          string
	Comment       string
	Meta          *meta.Annotation
	Return        VariableType
	ReturnIsConst bool
	Params        []VariableDeclaration
	Variadic      bool
}

func (d Include) DeclName() string      { return d.Path }
func (d Define) DeclName() string       { return d.Name }
func (d EnumDecl) DeclName() string     { return d.Name }
func (d StructDecl) DeclName() string   { return d.Name }
func (d FunctionDecl) DeclName() string { return d.Name }

func (Include) decl()      {}
func (Define) decl()       {}
func (EnumDecl) decl()     {}
func (StructDecl) decl()   {}
func (FunctionDecl) decl() {}

// Value returns the implicit value of the named member.
func (e EnumDecl) Value(member string) (int, bool) {
	for i, m := range e.Members {
		if m.Name == member {
			return i, true
		}
	}
	return 0, false
}

// Opaque reports whether the struct has no visible members.
func (s StructDecl) Opaque() bool {
	return len(s.Fields) == 0
}

// Field returns the member with the given label.
func (s StructDecl) Field(label string) (VariableDeclaration, bool) {
	for _, f := range s.Fields {
		if f.Label == label {
			return f, true
		}
	}
	return VariableDeclaration{}, false
}

// Param returns the parameter with the given label.
func (f FunctionDecl) Param(label string) (VariableDeclaration, bool) {
	for _, p := range f.Params {
		if p.Label == label {
			return p, true
		}
	}
	return VariableDeclaration{}, false
}

// Owner splits a struct-attached function name such as `Point_new` into
// the struct name and the method name.
func (f FunctionDecl) Owner() (owner, method string, ok bool) {
	owner, method, ok = strings.Cut(f.Name, "_")
	if !ok || owner == "" || method == "" {
		return "", "", false
	}
	return owner, method, true
}

func (f FunctionDecl) String() string {
	params := make([]string, 0, len(f.Params)+1)
	for _, p := range f.Params {
		params = append(params, p.String())
	}
	if f.Variadic {
		params = append(params, "...")
	}
	if len(params) == 0 {
		params = append(params, "void")
	}
	ret := f.Return.String()
	if f.ReturnIsConst {
		ret = "const " + ret
	}
	return ret + " " + f.Name + "(" + strings.Join(params, ", ") + ");"
}
