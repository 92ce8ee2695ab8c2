package codegen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bobmcallan/mcpforge/internal/toolset"
)

type pythonTarget struct{}

var pythonKeywords = wordSet(
	"False", "None", "True", "and", "as", "assert", "async", "await", "break",
	"class", "continue", "def", "del", "elif", "else", "except", "finally",
	"for", "from", "global", "if", "import", "in", "is", "lambda", "nonlocal",
	"not", "or", "pass", "raise", "return", "try", "while", "with", "yield",
)

// pythonBound are module-level names the generated program binds or uses in
// annotations and bodies.
var pythonBound = wordSet("mcp", "FastMCP", "os", "httpx", "str", "float", "int", "bool", "list", "dict")

var pythonLocals = wordSet("_url", "_resp")

func (pythonTarget) Name() string        { return "python" }
func (pythonTarget) ProgramFile() string { return "server.py" }
func (pythonTarget) Types() TypeMap      { return pythonTypes }

func (pythonTarget) ReservedName(identifier string) bool {
	return pythonKeywords[identifier] || pythonBound[identifier]
}

func (pythonTarget) ReservedParameter(name string) bool {
	return pythonKeywords[name] || pythonBound[name] || pythonLocals[name]
}

func (pythonTarget) Preamble(ts toolset.ToolSet) string {
	var b strings.Builder
	b.WriteString("# Generated by mcpforge. Do not edit by hand.\n")
	if hasEndpoint(ts) {
		b.WriteString("import os\n\nimport httpx\n")
	}
	b.WriteString("from mcp.server.fastmcp import FastMCP\n\n")
	fmt.Fprintf(&b, "mcp = FastMCP(%s)\n\n\n", pyString(ts.DisplayName()))
	return b.String()
}

func (t pythonTarget) Function(tool toolset.ToolDefinition) string {
	params := tool.InputSchema.Params()

	var b strings.Builder
	b.WriteString("@mcp.tool()\n")
	fmt.Fprintf(&b, "def %s(%s) -> str:\n", Normalize(tool.Name), strings.Join(t.signature(params), ", "))
	t.writeDocstring(&b, tool, params)
	t.writeBody(&b, tool, params)
	b.WriteString("\n\n")
	return b.String()
}

// signature declares required parameters first because Python rejects a
// non-default parameter after a defaulted one. Relative order is kept.
func (pythonTarget) signature(params []toolset.Param) []string {
	var required, optional []string
	for _, p := range params {
		tm := pythonTypes.Lookup(p.Type)
		if p.Required {
			required = append(required, fmt.Sprintf("%s: %s", p.Name, tm.Type))
		} else {
			optional = append(optional, fmt.Sprintf("%s: %s = %s", p.Name, tm.Type, tm.Default))
		}
	}
	return append(required, optional...)
}

func (pythonTarget) writeDocstring(b *strings.Builder, tool toolset.ToolDefinition, params []toolset.Param) {
	lines := strings.Split(pyDoc(toolDescription(tool)), "\n")
	b.WriteString(`    """` + strings.TrimRight(lines[0], " \t") + "\n")
	for _, line := range lines[1:] {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString("    " + line + "\n")
	}

	// Documentation follows declaration order, not signature order.
	var args []string
	for _, p := range params {
		if doc := paramDoc(p); doc != "" {
			args = append(args, fmt.Sprintf("        %s: %s", p.Name, pyDoc(doc)))
		}
	}
	if len(args) > 0 {
		b.WriteString("\n    Args:\n")
		b.WriteString(strings.Join(args, "\n"))
		b.WriteString("\n")
	}
	if out := oneLine(tool.OutputSchema); out != "" {
		b.WriteString("\n    Returns:\n        " + pyDoc(out) + "\n")
	}
	b.WriteString(`    """` + "\n")
}

func (pythonTarget) writeBody(b *strings.Builder, tool toolset.ToolDefinition, params []toolset.Param) {
	if !usesEndpoint(tool) {
		fmt.Fprintf(b, "    return %s\n", pyString(staticResult(tool)))
		return
	}
	ep := parseEndpoint(tool.HandlerCode)
	fmt.Fprintf(b, "    _url = %s\n", pyString(tool.HandlerCode))
	for _, env := range ep.Env {
		fmt.Fprintf(b, "    _url = _url.replace(%s, os.environ.get(%s, \"\"))\n", pyString("${"+env+"}"), pyString(env))
	}
	for _, name := range ep.substitutions(paramNames(params)) {
		fmt.Fprintf(b, "    _url = _url.replace(%s, str(%s))\n", pyString("{"+name+"}"), name)
	}
	b.WriteString("    _resp = httpx.get(_url, timeout=30.0)\n")
	b.WriteString("    return _resp.text\n")
}

func (pythonTarget) Trailer(toolset.ToolSet) string {
	return "if __name__ == \"__main__\":\n    mcp.run()\n"
}

func (pythonTarget) Finish(source string) (string, error) { return source, nil }

func (pythonTarget) DependencyFile(ts toolset.ToolSet) Entry {
	content := "mcp>=1.2.0\n"
	if hasEndpoint(ts) {
		content += "httpx>=0.27\n"
	}
	return Entry{Filename: "requirements.txt", Content: content}
}

func (pythonTarget) Setup() Setup {
	return Setup{
		Install: []string{"pip install -r requirements.txt"},
		Run:     "python server.py",
		Command: "python",
		Args:    []string{"server.py"},
	}
}

// pyString renders s as a Python string literal. JSON string syntax is a
// subset of Python's.
func pyString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// pyDoc escapes text for a triple-quoted docstring.
func pyDoc(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"""`, `\"\"\"`)
}
