package toolset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind is the declared type of a tool parameter.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
)

// Kinds lists the declared kinds in table order.
var Kinds = []Kind{KindString, KindNumber, KindInteger, KindBoolean, KindArray, KindObject}

// Known reports whether k is one of the six declared kinds.
func (k Kind) Known() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts a type name or a JSON Schema type list. For a list the
// first member other than "null" is used.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*k = Kind(name)
		return nil
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("type must be a string or a list of strings")
	}
	*k = ""
	for _, n := range names {
		if n != "null" {
			*k = Kind(n)
			break
		}
	}
	return nil
}

// Property describes one named tool parameter.
type Property struct {
	Type        Kind     `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// UnmarshalJSON decodes a property. Enum members of any JSON type are accepted;
// only the string members are kept, since enums are rendered for string
// parameters alone.
func (p *Property) UnmarshalJSON(data []byte) error {
	var fields struct {
		Type        Kind   `json:"type"`
		Description string `json:"description"`
		Enum        []any  `json:"enum"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*p = Property{Type: fields.Type, Description: fields.Description}
	for _, member := range fields.Enum {
		if s, ok := member.(string); ok {
			p.Enum = append(p.Enum, s)
		}
	}
	return nil
}

// Param is a property together with its name and required flag, as yielded
// by Schema.Params in declaration order.
type Param struct {
	Name     string
	Required bool
	Property
}

// SchemaError reports an input schema that is not a well-formed JSON object.
type SchemaError struct {
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Schema is a tool's input schema. Properties keep their declaration order.
//
// A schema decodes from either a JSON object or a string holding the
// serialized object, which is how project stores persist it. A string that
// does not parse leaves the schema empty and records the failure in Err so the
// validator can report it; it is never treated as an empty schema silently.
type Schema struct {
	Type       string
	Properties *orderedmap.OrderedMap[string, Property]
	Required   []string

	raw       json.RawMessage
	persisted string
	err       error
}

type schemaFields struct {
	Type       string                                  `json:"type,omitempty"`
	Properties *orderedmap.OrderedMap[string, Property] `json:"properties,omitempty"`
	Required   []string                                `json:"required,omitempty"`
}

// NewSchema returns an empty object schema ready for AddProperty.
func NewSchema() Schema {
	return Schema{
		Type:       "object",
		Properties: orderedmap.New[string, Property](),
	}
}

// ParseSchema parses a serialized input schema. The returned Schema carries
// the error as well, so it can still be placed in a ToolDefinition and
// reported by validation.
func ParseSchema(text string) (Schema, error) {
	var s Schema
	s.persisted = text
	if strings.TrimSpace(text) != "" {
		s.parse([]byte(text))
	}
	return s, s.err
}

// AddProperty appends a property. Adding an existing name replaces it in place.
func (s *Schema) AddProperty(name string, p Property, required bool) *Schema {
	if s.Properties == nil {
		s.Properties = orderedmap.New[string, Property]()
	}
	s.Properties.Set(name, p)
	if required && !s.IsRequired(name) {
		s.Required = append(s.Required, name)
	}
	s.raw = nil
	return s
}

// Err returns the parse failure of a persisted schema, if any.
func (s Schema) Err() error { return s.err }

// Len returns the number of declared properties.
func (s Schema) Len() int {
	if s.Properties == nil {
		return 0
	}
	return s.Properties.Len()
}

// IsRequired reports whether name is listed in required.
func (s Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Lookup returns the property declared under name.
func (s Schema) Lookup(name string) (Property, bool) {
	if s.Properties == nil {
		return Property{}, false
	}
	return s.Properties.Get(name)
}

// Params returns the properties in declaration order.
func (s Schema) Params() []Param {
	if s.Properties == nil {
		return nil
	}
	params := make([]Param, 0, s.Properties.Len())
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		params = append(params, Param{
			Name:     pair.Key,
			Required: s.IsRequired(pair.Key),
			Property: pair.Value,
		})
	}
	return params
}

// Raw returns the schema as compact JSON. Decoded schemas return their
// original bytes; schemas built in memory are marshalled from their fields;
// an absent schema is "{}".
func (s Schema) Raw() (json.RawMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.raw != nil {
		return s.raw, nil
	}
	if s.Type == "" && s.Len() == 0 && len(s.Required) == 0 {
		return json.RawMessage(`{}`), nil
	}
	fields := schemaFields{Type: s.Type, Required: s.Required}
	if s.Len() > 0 {
		fields.Properties = s.Properties
	}
	return json.Marshal(fields)
}

// MarshalJSON writes the schema object. A persisted schema that failed to
// parse is written back as the original string so nothing is lost.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s.err != nil {
		return json.Marshal(s.persisted)
	}
	return s.Raw()
}

// UnmarshalJSON accepts null, an object, or a string holding a serialized
// object. Malformed content is recorded in Err instead of failing the decode.
func (s *Schema) UnmarshalJSON(data []byte) error {
	*s = Schema{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		s.persisted = text
		if strings.TrimSpace(text) != "" {
			s.parse([]byte(text))
		}
		return nil
	}
	s.persisted = string(trimmed)
	s.parse(trimmed)
	return nil
}

func (s *Schema) parse(data []byte) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		s.err = &SchemaError{Reason: "input schema must be a JSON object"}
		return
	}
	fields := schemaFields{Properties: orderedmap.New[string, Property]()}
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		s.err = &SchemaError{Reason: "input schema is not well-formed", Err: err}
		return
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		s.err = &SchemaError{Reason: "input schema is not well-formed", Err: err}
		return
	}
	s.Type = fields.Type
	s.Properties = fields.Properties
	s.Required = fields.Required
	s.raw = compact.Bytes()
}

// JSONSchema describes the accepted document shapes for reflection.
func (Schema) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Description: "JSON Schema object describing the tool parameters, or a string holding it",
		OneOf: []*jsonschema.Schema{
			{Type: "object"},
			{Type: "string"},
			{Type: "null"},
		},
	}
}
