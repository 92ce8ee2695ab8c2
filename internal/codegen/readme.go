package codegen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bobmcallan/mcpforge/internal/toolset"
)

// ReadmeFile is the instructions entry name inside a package.
const ReadmeFile = "README.md"

type clientServer struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

type clientConfig struct {
	MCPServers map[string]clientServer `json:"mcpServers"`
}

// environment lists the ${NAME} references of all api tools, first
// appearance first.
func environment(ts toolset.ToolSet) []string {
	seen := map[string]bool{}
	var out []string
	for _, tool := range ts.Tools {
		if !usesEndpoint(tool) {
			continue
		}
		for _, name := range parseEndpoint(tool.HandlerCode).Env {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

// Instructions renders the package README for ts and target.
func Instructions(target Target, ts toolset.ToolSet) string {
	setup := target.Setup()
	name := slug(ts.DisplayName())

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", ts.DisplayName())
	fmt.Fprintf(&b, "MCP server generated by mcpforge (%s target).\n\n", target.Name())

	b.WriteString("## Setup\n\n```sh\n")
	for _, step := range setup.Install {
		b.WriteString(step + "\n")
	}
	b.WriteString(setup.Run + "\n```\n\n")

	if env := environment(ts); len(env) > 0 {
		b.WriteString("## Environment\n\nAPI tools read these variables at call time:\n\n")
		for _, name := range env {
			fmt.Fprintf(&b, "- `%s`\n", name)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Tools\n\n")
	for _, tool := range ts.Tools {
		fmt.Fprintf(&b, "- **%s**: %s\n", Normalize(tool.Name), oneLine(toolDescription(tool)))
	}

	cfg := clientConfig{MCPServers: map[string]clientServer{
		name: {Command: setup.Command, Args: setup.Args},
	}}
	// clientConfig holds only strings, so marshalling cannot fail in practice.
	snippet, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return b.String()
	}
	b.WriteString("\n## Client configuration\n\nRegister the server with an MCP client:\n\n```json\n")
	b.Write(snippet)
	b.WriteString("\n```\n")
	return b.String()
}
