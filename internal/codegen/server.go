package codegen

import (
	"strings"

	"github.com/bobmcallan/mcpforge/internal/toolset"
)

// GenerateFunction renders a single tool for target. It does not validate.
func GenerateFunction(target Target, tool toolset.ToolDefinition) string {
	return target.Function(tool)
}

// GenerateServer assembles preamble, functions in tool set order and the
// entry point. It does not validate; callers go through Generator.
func GenerateServer(target Target, ts toolset.ToolSet) (string, error) {
	var b strings.Builder
	b.WriteString(target.Preamble(ts))
	for _, tool := range ts.Tools {
		b.WriteString(target.Function(tool))
	}
	b.WriteString(target.Trailer(ts))
	return target.Finish(b.String())
}
