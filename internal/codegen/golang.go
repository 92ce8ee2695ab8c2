package codegen

import (
	"fmt"
	"go/format"
	"sort"
	"strconv"
	"strings"

	"github.com/bobmcallan/mcpforge/internal/toolset"
)

// mcpGoVersion is the mcp-go release generated programs require.
const mcpGoVersion = "v0.43.2"

type goTarget struct{}

var goKeywords = wordSet(
	"break", "case", "chan", "const", "continue", "default", "defer", "else",
	"fallthrough", "for", "func", "go", "goto", "if", "import", "interface",
	"map", "package", "range", "return", "select", "struct", "switch", "type", "var",
)

var goPredeclared = wordSet(
	"any", "bool", "byte", "comparable", "complex64", "complex128", "error",
	"float32", "float64", "int", "int8", "int16", "int32", "int64", "rune",
	"string", "uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
	"true", "false", "iota", "nil",
	"append", "cap", "clear", "close", "complex", "copy", "delete", "imag",
	"len", "make", "max", "min", "new", "panic", "print", "println", "real", "recover",
)

// goBound are package-level names of the generated program, including the
// imported package names.
var goBound = wordSet(
	"_", "main", "init", "context", "fmt", "log", "io", "http", "os", "strings", "time",
	"mcp", "server", "mcpServer", "arguments", "httpGet", "httpClient",
)

var goLocals = wordSet("ctx", "endpoint")

// goHandlerLocals are bound inside each registration closure, where the tool
// function is called by name.
var goHandlerLocals = wordSet("ctx", "req", "args")

var goAccessors = map[toolset.Kind]string{
	toolset.KindString:  "str",
	toolset.KindNumber:  "number",
	toolset.KindInteger: "integer",
	toolset.KindBoolean: "boolean",
	toolset.KindArray:   "list",
	toolset.KindObject:  "object",
}

var goToolOptions = map[toolset.Kind]string{
	toolset.KindString:  "WithString",
	toolset.KindNumber:  "WithNumber",
	toolset.KindInteger: "WithNumber",
	toolset.KindBoolean: "WithBoolean",
	toolset.KindArray:   "WithArray",
	toolset.KindObject:  "WithObject",
}

func (goTarget) Name() string        { return "go" }
func (goTarget) ProgramFile() string { return "server.go" }
func (goTarget) Types() TypeMap      { return goTypes }

func (goTarget) ReservedName(identifier string) bool {
	return goKeywords[identifier] || goPredeclared[identifier] || goBound[identifier] ||
		goHandlerLocals[identifier]
}

func (goTarget) ReservedParameter(name string) bool {
	return goKeywords[name] || goPredeclared[name] || goBound[name] || goLocals[name]
}

// goImports lists the standard packages the program needs. Go rejects unused
// imports, so each one is tied to the code that uses it.
func goImports(ts toolset.ToolSet) []string {
	imports := []string{"context", "fmt", "log"}
	var needStrings, needOS bool
	for _, tool := range ts.Tools {
		if !usesEndpoint(tool) {
			continue
		}
		ep := parseEndpoint(tool.HandlerCode)
		if len(ep.substitutions(paramNames(tool.InputSchema.Params()))) > 0 || len(ep.Env) > 0 {
			needStrings = true
		}
		if len(ep.Env) > 0 {
			needOS = true
		}
	}
	if hasEndpoint(ts) {
		imports = append(imports, "io", "net/http", "time")
	}
	if needStrings {
		imports = append(imports, "strings")
	}
	if needOS {
		imports = append(imports, "os")
	}
	sort.Strings(imports)
	return imports
}

func (goTarget) Preamble(ts toolset.ToolSet) string {
	var b strings.Builder
	b.WriteString("// Code generated by mcpforge. DO NOT EDIT.\n\n")
	b.WriteString("package main\n\n")
	b.WriteString("import (\n")
	for _, imp := range goImports(ts) {
		fmt.Fprintf(&b, "\t%q\n", imp)
	}
	b.WriteString("\n\t\"github.com/mark3labs/mcp-go/mcp\"\n\t\"github.com/mark3labs/mcp-go/server\"\n)\n\n")
	fmt.Fprintf(&b, "var mcpServer = server.NewMCPServer(\n\t%s,\n\t%q,\n\tserver.WithToolCapabilities(true),\n)\n\n",
		strconv.Quote(ts.DisplayName()), ManifestVersion)
	b.WriteString(goArgumentsHelpers)
	if hasEndpoint(ts) {
		b.WriteString(goHTTPHelpers)
	}
	return b.String()
}

func (t goTarget) Function(tool toolset.ToolDefinition) string {
	name := Normalize(tool.Name)
	params := tool.InputSchema.Params()

	var b strings.Builder
	t.writeRegistration(&b, name, tool, params)
	t.writeDoc(&b, name, tool, params)
	fmt.Fprintf(&b, "func %s(%s) (string, error) {\n", name, strings.Join(t.signature(params), ", "))
	t.writeBody(&b, tool, params)
	b.WriteString("}\n\n")
	return b.String()
}

func (goTarget) signature(params []toolset.Param) []string {
	out := []string{"ctx context.Context"}
	for _, p := range params {
		out = append(out, p.Name+" "+goTypes.Lookup(p.Type).Type)
	}
	return out
}

func (goTarget) writeRegistration(b *strings.Builder, name string, tool toolset.ToolDefinition, params []toolset.Param) {
	b.WriteString("func init() {\n\tmcpServer.AddTool(\n")
	fmt.Fprintf(b, "\t\tmcp.NewTool(%s,\n", strconv.Quote(name))
	if d := strings.TrimSpace(tool.Description); d != "" {
		fmt.Fprintf(b, "\t\t\tmcp.WithDescription(%s),\n", strconv.Quote(d))
	}
	for _, p := range params {
		fmt.Fprintf(b, "\t\t\t%s,\n", goToolOption(p))
	}
	b.WriteString("\t\t),\n")
	if len(params) == 0 {
		b.WriteString("\t\tfunc(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {\n")
	} else {
		b.WriteString("\t\tfunc(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {\n")
		b.WriteString("\t\t\targs := arguments(req.GetArguments())\n")
	}

	var required []string
	for _, p := range params {
		if p.Required {
			required = append(required, strconv.Quote(p.Name))
		}
	}
	if len(required) > 0 {
		fmt.Fprintf(b, "\t\t\tif err := args.require(%s); err != nil {\n", strings.Join(required, ", "))
		b.WriteString("\t\t\t\treturn mcp.NewToolResultError(err.Error()), nil\n\t\t\t}\n")
	}

	fmt.Fprintf(b, "\t\t\tout, err := %s(ctx", name)
	for _, p := range params {
		kind := effectiveKind(p.Type)
		fmt.Fprintf(b, ",\n\t\t\t\targs.%s(%s, %s)", goAccessors[kind], strconv.Quote(p.Name), goTypes.Lookup(kind).Default)
	}
	b.WriteString(")\n")
	b.WriteString("\t\t\tif err != nil {\n\t\t\t\treturn mcp.NewToolResultError(err.Error()), nil\n\t\t\t}\n")
	b.WriteString("\t\t\treturn mcp.NewToolResultText(out), nil\n")
	b.WriteString("\t\t},\n\t)\n}\n\n")
}

func goToolOption(p toolset.Param) string {
	kind := effectiveKind(p.Type)
	args := []string{strconv.Quote(p.Name)}
	if p.Required {
		args = append(args, "mcp.Required()")
	}
	if d := oneLine(p.Description); d != "" {
		args = append(args, "mcp.Description("+strconv.Quote(d)+")")
	}
	if kind == toolset.KindString && len(p.Enum) > 0 {
		values := make([]string, len(p.Enum))
		for i, v := range p.Enum {
			values[i] = strconv.Quote(v)
		}
		args = append(args, "mcp.Enum("+strings.Join(values, ", ")+")")
	}
	return "mcp." + goToolOptions[kind] + "(" + strings.Join(args, ", ") + ")"
}

func (goTarget) writeDoc(b *strings.Builder, name string, tool toolset.ToolDefinition, params []toolset.Param) {
	fmt.Fprintf(b, "// %s implements the %s tool.\n//\n", name, strconv.Quote(tool.Name))
	for _, line := range strings.Split(toolDescription(tool), "\n") {
		if line = strings.TrimRight(line, " \t"); line == "" {
			b.WriteString("//\n")
			continue
		}
		b.WriteString("// " + line + "\n")
	}

	var lines []string
	for _, p := range params {
		doc := paramDoc(p)
		if doc == "" {
			continue
		}
		tm := goTypes.Lookup(p.Type)
		qualifier := "default " + tm.Default
		if p.Required {
			qualifier = "required"
		}
		lines = append(lines, fmt.Sprintf("//   - %s (%s, %s): %s", p.Name, tm.Type, qualifier, doc))
	}
	if len(lines) > 0 {
		b.WriteString("//\n// Parameters:\n//\n")
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}
	if out := oneLine(tool.OutputSchema); out != "" {
		b.WriteString("//\n// Returns: " + out + "\n")
	}
}

func (goTarget) writeBody(b *strings.Builder, tool toolset.ToolDefinition, params []toolset.Param) {
	if !usesEndpoint(tool) {
		fmt.Fprintf(b, "\treturn %s, nil\n", strconv.Quote(staticResult(tool)))
		return
	}
	ep := parseEndpoint(tool.HandlerCode)
	fmt.Fprintf(b, "\tendpoint := %s\n", strconv.Quote(tool.HandlerCode))
	// Environment references first so a parameter sharing their name
	// cannot rewrite them.
	for _, env := range ep.Env {
		fmt.Fprintf(b, "\tendpoint = strings.ReplaceAll(endpoint, %s, os.Getenv(%s))\n", strconv.Quote("${"+env+"}"), strconv.Quote(env))
	}
	for _, name := range ep.substitutions(paramNames(params)) {
		fmt.Fprintf(b, "\tendpoint = strings.ReplaceAll(endpoint, %s, fmt.Sprint(%s))\n", strconv.Quote("{"+name+"}"), name)
	}
	b.WriteString("\treturn httpGet(ctx, endpoint)\n")
}

func (goTarget) Trailer(toolset.ToolSet) string {
	return "func main() {\n\tif err := server.ServeStdio(mcpServer); err != nil {\n\t\tlog.Fatal(err)\n\t}\n}\n"
}

// Finish runs the program through gofmt. A failure means the generator
// produced invalid syntax.
func (goTarget) Finish(source string) (string, error) {
	out, err := format.Source([]byte(source))
	if err != nil {
		return "", fmt.Errorf("failed to format generated Go program: %w", err)
	}
	return string(out), nil
}

func (goTarget) DependencyFile(ts toolset.ToolSet) Entry {
	content := fmt.Sprintf("module %s\n\ngo 1.23\n\nrequire github.com/mark3labs/mcp-go %s\n", slug(ts.DisplayName()), mcpGoVersion)
	return Entry{Filename: "go.mod", Content: content}
}

func (goTarget) Setup() Setup {
	return Setup{
		Install: []string{"go mod tidy"},
		Run:     "go run .",
		Command: "go",
		Args:    []string{"run", "."},
	}
}

const goArgumentsHelpers = `// arguments reads tool call arguments with typed fallbacks.
type arguments map[string]any

func (a arguments) require(names ...string) error {
	for _, name := range names {
		if _, ok := a[name]; !ok {
			return fmt.Errorf("missing required argument %q", name)
		}
	}
	return nil
}

func (a arguments) str(name string, fallback string) string {
	if v, ok := a[name].(string); ok {
		return v
	}
	return fallback
}

func (a arguments) number(name string, fallback float64) float64 {
	if v, ok := a[name].(float64); ok {
		return v
	}
	return fallback
}

func (a arguments) integer(name string, fallback int) int {
	if v, ok := a[name].(float64); ok {
		return int(v)
	}
	return fallback
}

func (a arguments) boolean(name string, fallback bool) bool {
	if v, ok := a[name].(bool); ok {
		return v
	}
	return fallback
}

func (a arguments) list(name string, fallback []any) []any {
	if v, ok := a[name].([]any); ok {
		return v
	}
	return fallback
}

func (a arguments) object(name string, fallback map[string]any) map[string]any {
	if v, ok := a[name].(map[string]any); ok {
		return v
	}
	return fallback
}

`

const goHTTPHelpers = `var httpClient = &http.Client{Timeout: 30 * time.Second}

func httpGet(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

`
