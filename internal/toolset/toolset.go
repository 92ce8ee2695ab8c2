// Package toolset holds the tool definitions that mcpforge generates servers
// from, and decodes them from JSON and YAML documents.
package toolset

import (
	"strings"

	"github.com/invopop/jsonschema"
)

// DefaultServerName is used when a tool set has no server name.
const DefaultServerName = "My MCP Server"

// HandlerType selects how a generated tool function behaves.
type HandlerType string

const (
	// HandlerStatic returns a fixed result without any external call.
	HandlerStatic HandlerType = "static"
	// HandlerAPI delegates to an HTTP endpoint described by HandlerCode.
	HandlerAPI HandlerType = "api"
)

// Resolved returns the effective handler type; empty means static.
func (h HandlerType) Resolved() HandlerType {
	if h == "" {
		return HandlerStatic
	}
	return h
}

// Valid reports whether h is empty, static or api.
func (h HandlerType) Valid() bool {
	switch h.Resolved() {
	case HandlerStatic, HandlerAPI:
		return true
	}
	return false
}

// ToolDefinition is one user-defined tool.
type ToolDefinition struct {
	Name         string      `json:"name" jsonschema:"description=Tool name; becomes the generated function identifier after normalization"`
	Description  string      `json:"description,omitempty"`
	InputSchema  Schema      `json:"input_schema"`
	OutputSchema string      `json:"output_schema,omitempty" jsonschema:"description=Free-text description of the returned value"`
	HandlerType  HandlerType `json:"handler_type,omitempty" jsonschema:"description=static or api"`
	HandlerCode  string      `json:"handler_code,omitempty" jsonschema:"description=URL template with {param} placeholders for api handlers"`
}

// StoreKeys are bookkeeping fields of persisted tool records. Documents
// exported from a project store carry them; decoding ignores them.
var StoreKeys = []string{"id", "project_id", "created_at", "updated_at"}

// JSONSchemaExtend admits StoreKeys on tools while other unknown keys stay
// rejected.
func (ToolDefinition) JSONSchemaExtend(s *jsonschema.Schema) {
	for _, key := range StoreKeys {
		s.Properties.Set(key, &jsonschema.Schema{Description: "Ignored store record field"})
	}
}

// IsAPI reports whether the tool delegates to an HTTP endpoint.
func (t ToolDefinition) IsAPI() bool {
	return t.HandlerType.Resolved() == HandlerAPI
}

// ToolSet is the ordered collection of tools for one generated server.
type ToolSet struct {
	ServerName string           `json:"server_name,omitempty" jsonschema:"description=Display name of the generated server"`
	Tools      []ToolDefinition `json:"tools" jsonschema:"required"`
}

// DisplayName returns the server name, falling back to DefaultServerName.
func (ts ToolSet) DisplayName() string {
	if name := strings.TrimSpace(ts.ServerName); name != "" {
		return name
	}
	return DefaultServerName
}

// Names returns the declared tool names in order.
func (ts ToolSet) Names() []string {
	names := make([]string, len(ts.Tools))
	for i, t := range ts.Tools {
		names[i] = t.Name
	}
	return names
}
