package codegen

import "github.com/bobmcallan/mcpforge/internal/toolset"

// TypeMapping is the target language type for a parameter kind and the
// literal used when the parameter is optional.
type TypeMapping struct {
	Type    string
	Default string
}

// TypeMap maps declared kinds to target language types.
type TypeMap map[toolset.Kind]TypeMapping

// Lookup returns the mapping for k. Unrecognized kinds use the string row.
func (m TypeMap) Lookup(k toolset.Kind) TypeMapping {
	if tm, ok := m[k]; ok {
		return tm
	}
	return m[toolset.KindString]
}

var pythonTypes = TypeMap{
	toolset.KindString:  {Type: "str", Default: `""`},
	toolset.KindNumber:  {Type: "float", Default: "0.0"},
	toolset.KindInteger: {Type: "int", Default: "0"},
	toolset.KindBoolean: {Type: "bool", Default: "False"},
	toolset.KindArray:   {Type: "list", Default: "[]"},
	toolset.KindObject:  {Type: "dict", Default: "{}"},
}

var goTypes = TypeMap{
	toolset.KindString:  {Type: "string", Default: `""`},
	toolset.KindNumber:  {Type: "float64", Default: "0.0"},
	toolset.KindInteger: {Type: "int", Default: "0"},
	toolset.KindBoolean: {Type: "bool", Default: "false"},
	toolset.KindArray:   {Type: "[]any", Default: "[]any{}"},
	toolset.KindObject:  {Type: "map[string]any", Default: "map[string]any{}"},
}
