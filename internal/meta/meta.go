// Package meta parses the annotation micro-language embedded in header
// comments.
//
// Declaration level:
//
//	// #meta: persistent; for_struct;
//
// Parameter level, one line per parameter of the documented function:
//
//	// #meta_param: buf; length(count); nullable;
package meta

import (
	"regexp"
	"strings"
)

const (
	// DeclMarker introduces declaration level flags.
	DeclMarker = "#meta:"
	// ParamMarker introduces the flags of a single function parameter.
	ParamMarker = "#meta_param:"
)

// Annotation holds the generation relevant semantics attached to a
// declaration or parameter.
type Annotation struct {
	IsPersistent  bool
	ForStruct     bool
	IsStatic      bool
	IsNullable    bool
	IsList        bool
	IsThis        bool
	Throws        bool
	IsDestructor  bool
	IsConstructor bool
	IsString      bool
	IsHashmap     bool
	IsError       bool
	IsDuration    bool
	IsDatetime    bool
	IsOutput      bool
	IsURL         bool
	IsTimestamp   bool
	AsPtr         bool
	IsVoid        bool
	IsAsync       bool

	LengthFor   string // Sibling whose length this value holds
	CapacityFor string // Sibling whose capacity this value holds
}

type keyword struct {
	name string
	flag func(a *Annotation) *bool
}

// keywords is ordered; Flags reports set flags in this order.
var keywords = []keyword{
	{"persistent", func(a *Annotation) *bool { return &a.IsPersistent }},
	{"this", func(a *Annotation) *bool { return &a.IsThis }},
	{"for_struct", func(a *Annotation) *bool { return &a.ForStruct }},
	{"list", func(a *Annotation) *bool { return &a.IsList }},
	{"nullable", func(a *Annotation) *bool { return &a.IsNullable }},
	{"static", func(a *Annotation) *bool { return &a.IsStatic }},
	{"throws", func(a *Annotation) *bool { return &a.Throws }},
	{"destructor", func(a *Annotation) *bool { return &a.IsDestructor }},
	{"constructor", func(a *Annotation) *bool { return &a.IsConstructor }},
	{"string", func(a *Annotation) *bool { return &a.IsString }},
	{"hashmap", func(a *Annotation) *bool { return &a.IsHashmap }},
	{"error", func(a *Annotation) *bool { return &a.IsError }},
	{"duration", func(a *Annotation) *bool { return &a.IsDuration }},
	{"datetime", func(a *Annotation) *bool { return &a.IsDatetime }},
	{"output", func(a *Annotation) *bool { return &a.IsOutput }},
	{"url", func(a *Annotation) *bool { return &a.IsURL }},
	{"as_ptr", func(a *Annotation) *bool { return &a.AsPtr }},
	{"timestamp", func(a *Annotation) *bool { return &a.IsTimestamp }},
	{"void", func(a *Annotation) *bool { return &a.IsVoid }},
	{"async", func(a *Annotation) *bool { return &a.IsAsync }},
}

// aliases map older spellings onto their keyword.
var aliases = map[string]string{
	"free": "destructor",
}

var entryRe = regexp.MustCompile(`^(\w+)(?:\((\w+)\))?$`)

// Parse reads semicolon separated entries. Unknown entries are ignored so
// headers written for newer generators still parse. The final entry may
// omit its semicolon. Parse returns nil when no flag is set.
func Parse(text string) *Annotation {
	a := &Annotation{}

	for _, part := range strings.Split(text, ";") {
		part = strings.TrimSpace(part)
		part = strings.TrimSpace(strings.TrimSuffix(part, "*/"))
		m := entryRe.FindStringSubmatch(part)
		if m == nil {
			continue
		}

		name, arg := m[1], m[2]
		if arg != "" {
			switch name {
			case "length":
				a.LengthFor = arg
			case "capacity":
				a.CapacityFor = arg
			}
			continue
		}

		if alias, ok := aliases[name]; ok {
			name = alias
		}
		for _, kw := range keywords {
			if kw.name == name {
				*kw.flag(a) = true
				break
			}
		}
	}

	if a.IsZero() {
		return nil
	}
	return a
}

// Annotated reports whether comment carries either marker.
func Annotated(comment string) bool {
	return strings.Contains(comment, DeclMarker) || strings.Contains(comment, ParamMarker)
}

// ForDecl parses the first line of comment carrying DeclMarker.
func ForDecl(comment string) *Annotation {
	for _, line := range strings.Split(comment, "\n") {
		if idx := strings.Index(line, DeclMarker); idx >= 0 {
			return Parse(line[idx+len(DeclMarker):])
		}
	}
	return nil
}

// ForParam collects every ParamMarker line of comment that names param and
// parses their flags as one annotation.
func ForParam(comment, param string) *Annotation {
	if param == "" {
		return nil
	}

	var entries []string
	for _, line := range strings.Split(comment, "\n") {
		idx := strings.Index(line, ParamMarker)
		if idx < 0 {
			continue
		}
		name, rest, _ := strings.Cut(line[idx+len(ParamMarker):], ";")
		if strings.TrimSpace(name) != param {
			continue
		}
		entries = append(entries, rest)
	}

	if len(entries) == 0 {
		return nil
	}
	return Parse(strings.Join(entries, ";"))
}

// IsZero reports whether no flag and no cross reference is set.
func (a *Annotation) IsZero() bool {
	return a == nil || *a == Annotation{}
}

// Flags returns the set entries in canonical order, compound entries last.
func (a *Annotation) Flags() []string {
	if a == nil {
		return nil
	}

	var flags []string
	for _, kw := range keywords {
		if *kw.flag(a) {
			flags = append(flags, kw.name)
		}
	}
	if a.LengthFor != "" {
		flags = append(flags, "length("+a.LengthFor+")")
	}
	if a.CapacityFor != "" {
		flags = append(flags, "capacity("+a.CapacityFor+")")
	}
	return flags
}

// String renders the annotation in the form Parse accepts.
func (a *Annotation) String() string {
	flags := a.Flags()
	if len(flags) == 0 {
		return ""
	}
	return strings.Join(flags, "; ") + ";"
}
