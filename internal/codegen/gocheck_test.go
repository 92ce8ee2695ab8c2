package codegen

import (
	"errors"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"github.com/bobmcallan/mcpforge/internal/toolset"
)

// mcpGoStubs declare the subset of the mcp-go API generated programs use,
// with the upstream signatures, so programs can be type-checked offline.
var mcpGoStubs = map[string]string{
	"github.com/mark3labs/mcp-go/mcp": `package mcp

type Tool struct{ Name string }

type ToolOption func(*Tool)

type PropertyOption func(map[string]any)

func NewTool(name string, opts ...ToolOption) Tool { return Tool{Name: name} }

func WithDescription(description string) ToolOption { return nil }

func WithString(name string, opts ...PropertyOption) ToolOption  { return nil }
func WithNumber(name string, opts ...PropertyOption) ToolOption  { return nil }
func WithBoolean(name string, opts ...PropertyOption) ToolOption { return nil }
func WithArray(name string, opts ...PropertyOption) ToolOption   { return nil }
func WithObject(name string, opts ...PropertyOption) ToolOption  { return nil }

func Required() PropertyOption                 { return nil }
func Description(desc string) PropertyOption   { return nil }
func Enum(values ...string) PropertyOption     { return nil }

type CallToolRequest struct{ arguments map[string]any }

func (r CallToolRequest) GetArguments() map[string]any { return r.arguments }

type CallToolResult struct{ IsError bool }

func NewToolResultText(text string) *CallToolResult  { return &CallToolResult{} }
func NewToolResultError(text string) *CallToolResult { return &CallToolResult{IsError: true} }
`,
	"github.com/mark3labs/mcp-go/server": `package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

type MCPServer struct{ name, version string }

type ServerOption func(*MCPServer)

type StdioOption func(any)

func NewMCPServer(name, version string, opts ...ServerOption) *MCPServer {
	return &MCPServer{name: name, version: version}
}

func WithToolCapabilities(listChanged bool) ServerOption { return nil }

func (s *MCPServer) AddTool(tool mcp.Tool, handler ToolHandlerFunc) {}

func ServeStdio(server *MCPServer, opts ...StdioOption) error { return nil }
`,
}

// stubImporter resolves mcp-go from mcpGoStubs and everything else from the
// installed standard library.
type stubImporter struct {
	fset  *token.FileSet
	std   types.Importer
	cache map[string]*types.Package
}

func (im *stubImporter) Import(path string) (*types.Package, error) {
	if pkg, ok := im.cache[path]; ok {
		return pkg, nil
	}
	src, ok := mcpGoStubs[path]
	if !ok {
		return im.std.Import(path)
	}
	f, err := parser.ParseFile(im.fset, path+"/stub.go", src, 0)
	if err != nil {
		return nil, err
	}
	conf := types.Config{Importer: im}
	pkg, err := conf.Check(path, im.fset, []*ast.File{f}, nil)
	if err != nil {
		return nil, err
	}
	im.cache[path] = pkg
	return pkg, nil
}

// checkGo type-checks a generated program and returns every type error.
func checkGo(src string) error {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "server.go", src, 0)
	if err != nil {
		return err
	}
	var errs []error
	conf := types.Config{
		Importer: &stubImporter{fset: fset, std: importer.Default(), cache: map[string]*types.Package{}},
		Error:    func(err error) { errs = append(errs, err) },
	}
	conf.Check("main", fset, []*ast.File{f}, nil)
	return errors.Join(errs...)
}

func typeCheckGo(t *testing.T, src string) {
	t.Helper()
	if err := checkGo(src); err != nil {
		t.Fatalf("generated Go does not type-check: %v\n%s", err, src)
	}
}

func TestGo_ProgramsTypeCheck(t *testing.T) {
	schema := toolset.NewSchema()
	schema.AddProperty("items", toolset.Property{Type: toolset.KindArray}, true)
	schema.AddProperty("filters", toolset.Property{Type: toolset.KindObject}, false)
	schema.AddProperty("ratio", toolset.Property{Type: toolset.KindNumber}, false)
	schema.AddProperty("loose", toolset.Property{}, false)

	tests := []struct {
		name string
		ts   toolset.ToolSet
	}{
		{"demo", mustDecode(t, demoJSON, toolset.FormatJSON)},
		{"forecast", mustDecode(t, forecastYAML, toolset.FormatYAML)},
		{"parameterless", toolSetOf(staticTool("ping"))},
		{"every kind", toolSetOf(toolset.ToolDefinition{Name: "collect", InputSchema: schema})},
		{"api without substitutions", toolSetOf(toolset.ToolDefinition{
			Name: "status", HandlerType: toolset.HandlerAPI, HandlerCode: "https://example.com/status",
		})},
		{"api with environment only", toolSetOf(toolset.ToolDefinition{
			Name: "status", HandlerType: toolset.HandlerAPI, HandlerCode: "https://example.com/status?k=${KEY}",
		})},
		{"tools named after closure results", toolSetOf(
			toolset.ToolDefinition{Name: "out", InputSchema: schema},
			staticTool("err"),
		)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := New(Go).GenerateProgram(tt.ts)
			if err != nil {
				t.Fatalf("GenerateProgram: %v", err)
			}
			typeCheckGo(t, src)
		})
	}
}

func TestGo_TypeCheckCatchesShadowedHandlerLocals(t *testing.T) {
	schema := toolset.NewSchema()
	schema.AddProperty("q", toolset.Property{Type: toolset.KindString}, false)
	for _, name := range []string{"ctx", "req", "args"} {
		t.Run(name, func(t *testing.T) {
			// Render directly, since validation rejects these names.
			src, err := GenerateServer(Go, toolSetOf(toolset.ToolDefinition{Name: name, InputSchema: schema}))
			if err != nil {
				t.Fatalf("GenerateServer: %v", err)
			}
			err = checkGo(src)
			if err == nil {
				t.Fatalf("a tool named %q should not type-check", name)
			}
			if !strings.Contains(err.Error(), "server.go") {
				t.Errorf("error should point into the program: %v", err)
			}
		})
	}
}
