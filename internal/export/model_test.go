package export

import (
	"strings"
	"testing"

	"github.com/buger/jsonparser"
	"gopkg.in/yaml.v3"

	"github.com/ron96g/cheader-gen/internal/parser"
)

const shapesDump = `raw_identifier 'typedef'	Loc=<shapes.h:1:1>
unknown ' '	Loc=<shapes.h:1:8>
raw_identifier 'enum'	Loc=<shapes.h:1:9>
unknown ' '	Loc=<shapes.h:1:13>
l_brace '{'	Loc=<shapes.h:1:14>
unknown ' '	Loc=<shapes.h:1:15>
raw_identifier 'ZED'	Loc=<shapes.h:1:16>
comma ','	Loc=<shapes.h:1:19>
unknown ' '	Loc=<shapes.h:1:20>
raw_identifier 'ALPHA'	Loc=<shapes.h:1:21>
comma ','	Loc=<shapes.h:1:26>
unknown ' '	Loc=<shapes.h:1:27>
raw_identifier 'MID'	Loc=<shapes.h:1:28>
unknown ' '	Loc=<shapes.h:1:31>
r_brace '}'	Loc=<shapes.h:1:32>
unknown ' '	Loc=<shapes.h:1:33>
raw_identifier 'Kind'	Loc=<shapes.h:1:34>
semi ';'	Loc=<shapes.h:1:38>
unknown '
'	Loc=<shapes.h:1:39>
hash '#'	[StartOfLine]	Loc=<shapes.h:2:1>
raw_identifier 'define'	Loc=<shapes.h:2:2>
unknown ' '	Loc=<shapes.h:2:8>
raw_identifier 'SHAPES_VERSION'	Loc=<shapes.h:2:9>
unknown ' '	Loc=<shapes.h:2:23>
numeric_constant '3'	Loc=<shapes.h:2:24>
unknown '
'	Loc=<shapes.h:2:25>
raw_identifier 'typedef'	[StartOfLine]	Loc=<shapes.h:3:1>
unknown ' '	Loc=<shapes.h:3:8>
raw_identifier 'struct'	Loc=<shapes.h:3:9>
unknown ' '	Loc=<shapes.h:3:15>
raw_identifier 'Shape'	Loc=<shapes.h:3:16>
unknown ' '	Loc=<shapes.h:3:21>
raw_identifier 'Shape'	Loc=<shapes.h:3:22>
semi ';'	Loc=<shapes.h:3:27>
unknown '
'	Loc=<shapes.h:3:28>
comment '// #meta: for_struct; constructor;'	[StartOfLine]	Loc=<shapes.h:4:1>
unknown '
'	Loc=<shapes.h:4:35>
raw_identifier 'Shape'	[StartOfLine]	Loc=<shapes.h:5:1>
star '*'	Loc=<shapes.h:5:6>
unknown ' '	Loc=<shapes.h:5:7>
raw_identifier 'Shape_new'	Loc=<shapes.h:5:8>
l_paren '('	Loc=<shapes.h:5:17>
raw_identifier 'Kind'	Loc=<shapes.h:5:18>
unknown ' '	Loc=<shapes.h:5:22>
raw_identifier 'kind'	Loc=<shapes.h:5:23>
r_paren ')'	Loc=<shapes.h:5:27>
semi ';'	Loc=<shapes.h:5:28>
unknown '
'	Loc=<shapes.h:5:29>
raw_identifier 'int'	[StartOfLine]	Loc=<shapes.h:6:1>
unknown ' '	Loc=<shapes.h:6:4>
raw_identifier 'shapes_count'	Loc=<shapes.h:6:5>
l_paren '('	Loc=<shapes.h:6:17>
raw_identifier 'void'	Loc=<shapes.h:6:18>
r_paren ')'	Loc=<shapes.h:6:22>
semi ';'	Loc=<shapes.h:6:23>
unknown '
'	Loc=<shapes.h:6:24>
eof ''	Loc=<shapes.h:7:1>
`

func shapesModel(t *testing.T) *Model {
	t.Helper()
	h, err := parser.ParseDump(shapesDump)
	if err != nil {
		t.Fatalf("ParseDump() error = %v", err)
	}
	return FromHeader("shapes.h", h)
}

func TestFromHeader(t *testing.T) {
	m := shapesModel(t)

	if m.Header != "shapes.h" {
		t.Fatalf("m.Header wrong. expected=%q, got=%q", "shapes.h", m.Header)
	}
	if len(m.Constants) != 1 || m.Constants[0].Value != int64(3) {
		t.Fatalf("m.Constants wrong. got=%+v", m.Constants)
	}
	if m.Constants[0].Type.Kind != "int" {
		t.Fatalf("constant kind wrong. expected=%q, got=%q", "int", m.Constants[0].Type.Kind)
	}

	if len(m.Structs) != 1 {
		t.Fatalf("len(m.Structs) wrong. expected=1, got=%d", len(m.Structs))
	}
	s := m.Structs[0]
	if !s.Opaque || s.Constructor != "Shape_new" {
		t.Fatalf("struct wrong. got=%+v", s)
	}

	tests := []struct {
		name  string
		bound bool
	}{
		{"Shape_new", true},
		{"shapes_count", false},
	}
	if len(m.Functions) != len(tests) {
		t.Fatalf("len(m.Functions) wrong. expected=%d, got=%d", len(tests), len(m.Functions))
	}
	for i, tt := range tests {
		if m.Functions[i].Name != tt.name || m.Functions[i].Bound != tt.bound {
			t.Fatalf("tests[%d] - function wrong. expected=%s/%t, got=%s/%t",
				i, tt.name, tt.bound, m.Functions[i].Name, m.Functions[i].Bound)
		}
	}

	ret := m.Functions[0].Returns
	if ret.Kind != "struct" || ret.Name != "Shape" || ret.Pointers != 1 {
		t.Fatalf("return type wrong. got=%+v", ret)
	}
	param := m.Functions[0].Params[0]
	if param.Name != "kind" || param.Type.Kind != "enum" || param.Type.Name != "Kind" {
		t.Fatalf("param wrong. got=%+v", param)
	}
	if len(m.Functions[1].Params) != 0 {
		t.Fatalf("void parameter list not cleared. got=%+v", m.Functions[1].Params)
	}
}

func TestEncodeStructAlias(t *testing.T) {
	h := &parser.Header{Structs: []parser.StructDecl{
		{Name: "_Ctx", Alias: "Ctx"},
		{Name: "Handle"},
	}}

	data, err := FromHeader("ctx", h).Encode(FormatJSON)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	alias, err := jsonparser.GetString(data, "structs", "[0]", "alias")
	if err != nil || alias != "Ctx" {
		t.Fatalf("alias wrong. expected=%q, got=%q (%v)", "Ctx", alias, err)
	}
	if _, _, _, err := jsonparser.Get(data, "structs", "[1]", "alias"); err == nil {
		t.Fatalf("alias emitted for struct without one")
	}
}

func TestEncodeJSONKeepsEnumOrder(t *testing.T) {
	data, err := shapesModel(t).Encode(FormatJSON)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	name, err := jsonparser.GetString(data, "enums", "[0]", "name")
	if err != nil || name != "Kind" {
		t.Fatalf("enum name wrong. expected=%q, got=%q (%v)", "Kind", name, err)
	}

	var keys []string
	var values []int64
	err = jsonparser.ObjectEach(data, func(key, value []byte, _ jsonparser.ValueType, _ int) error {
		keys = append(keys, string(key))
		v, err := jsonparser.ParseInt(value)
		values = append(values, v)
		return err
	}, "enums", "[0]", "members")
	if err != nil {
		t.Fatalf("ObjectEach() error = %v", err)
	}

	expected := []string{"ZED", "ALPHA", "MID"}
	if len(keys) != len(expected) {
		t.Fatalf("len(keys) wrong. expected=%d, got=%d", len(expected), len(keys))
	}
	for i, key := range expected {
		if keys[i] != key || values[i] != int64(i) {
			t.Fatalf("tests[%d] - member wrong. expected=%s=%d, got=%s=%d", i, key, i, keys[i], values[i])
		}
	}

	value, err := jsonparser.GetInt(data, "constants", "[0]", "value")
	if err != nil || value != 3 {
		t.Fatalf("constant value wrong. expected=3, got=%d (%v)", value, err)
	}
	opaque, err := jsonparser.GetBoolean(data, "structs", "[0]", "opaque")
	if err != nil || !opaque {
		t.Fatalf("opaque wrong. expected=true, got=%t (%v)", opaque, err)
	}
}

func TestEncodeYAMLKeepsEnumOrder(t *testing.T) {
	data, err := shapesModel(t).Encode(FormatYAML)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var doc struct {
		Enums []struct {
			Name    string    `yaml:"name"`
			Members yaml.Node `yaml:"members"`
		} `yaml:"enums"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v\n%s", err, data)
	}
	if len(doc.Enums) != 1 {
		t.Fatalf("len(doc.Enums) wrong. expected=1, got=%d", len(doc.Enums))
	}

	members := doc.Enums[0].Members
	if members.Kind != yaml.MappingNode {
		t.Fatalf("members node kind wrong. expected=%d, got=%d", yaml.MappingNode, members.Kind)
	}

	expected := []string{"ZED", "ALPHA", "MID"}
	if len(members.Content) != 2*len(expected) {
		t.Fatalf("len(members.Content) wrong. expected=%d, got=%d", 2*len(expected), len(members.Content))
	}
	for i, key := range expected {
		if got := members.Content[2*i].Value; got != key {
			t.Fatalf("tests[%d] - member wrong. expected=%q, got=%q", i, key, got)
		}
	}

	if !strings.HasPrefix(string(data), "header: shapes.h\n") {
		t.Fatalf("yaml document wrong. got=\n%s", data)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"toml", "", true},
		{"", "", true},
	}

	for i, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("tests[%d] - error wrong. wantErr=%t, got=%v", i, tt.wantErr, err)
		}
		if got != tt.expected {
			t.Fatalf("tests[%d] - format wrong. expected=%q, got=%q", i, tt.expected, got)
		}
	}
}
