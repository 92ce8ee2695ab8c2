package mcp

import (
	"encoding/json"
	"fmt"

	invopopSchema "github.com/invopop/jsonschema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Tool names exposed by the mcpforge MCP server.
const (
	ToolValidate = "validate_toolset"
	ToolGenerate = "generate_program"
	ToolManifest = "generate_manifest"
	ToolTargets  = "list_targets"
	ToolVersion  = "get_version"
)

// definitionArgs are the arguments shared by the tool set tools. The
// document travels as text so property order survives JSON-RPC decoding.
type definitionArgs struct {
	Definition string `json:"definition" jsonschema:"required,minLength=1,description=Tool set document (server_name and tools) as JSON or YAML text"`
	Format     string `json:"format,omitempty" jsonschema:"enum=json,enum=yaml,default=json,description=Encoding of the definition"`
	Target     string `json:"target,omitempty" jsonschema:"enum=python,enum=go,description=Target language of the generated server"`
}

// argumentSchema is the reflected input schema of definitionArgs, with the
// compiled form used to check incoming arguments.
type argumentSchema struct {
	raw      json.RawMessage
	compiled *jsonschema.Schema
}

func newArgumentSchema() (*argumentSchema, error) {
	reflector := invopopSchema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		ExpandedStruct:            true,
	}
	s := reflector.Reflect(&definitionArgs{})
	s.Version = ""
	s.ID = ""

	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to reflect tool arguments: %w", err)
	}
	compiled, err := jsonschema.CompileString("definition-args.json", string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to compile tool arguments schema: %w", err)
	}
	return &argumentSchema{raw: raw, compiled: compiled}, nil
}

// decode checks args against the schema and unpacks them.
func (a *argumentSchema) decode(args map[string]any) (definitionArgs, error) {
	var out definitionArgs
	if args == nil {
		args = map[string]any{}
	}
	if err := a.compiled.Validate(args); err != nil {
		return out, fmt.Errorf("invalid arguments: %w", err)
	}
	data, err := json.Marshal(args)
	if err != nil {
		return out, fmt.Errorf("invalid arguments: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("invalid arguments: %w", err)
	}
	return out, nil
}

// RegisterTools adds every mcpforge tool to s.
func RegisterTools(s *server.MCPServer, t *Tools) int {
	defs := []struct {
		tool    mcp.Tool
		handler server.ToolHandlerFunc
	}{
		{mcp.NewToolWithRawSchema(ToolValidate,
			"Validate an MCP tool set definition and list every problem found.",
			t.args.raw), t.handleValidate},
		{mcp.NewToolWithRawSchema(ToolGenerate,
			"Generate the source of an MCP server implementing the tool set. Fails with the full problem list when the tool set does not validate.",
			t.args.raw), t.handleGenerate},
		{mcp.NewToolWithRawSchema(ToolManifest,
			"Generate the language-neutral JSON manifest of a tool set.",
			t.args.raw), t.handleManifest},
		{mcp.NewTool(ToolTargets,
			mcp.WithDescription("List the languages mcpforge can generate servers in."),
		), t.handleTargets},
		{VersionTool(), VersionToolHandler()},
	}
	for _, d := range defs {
		s.AddTool(d.tool, d.handler)
	}
	return len(defs)
}
