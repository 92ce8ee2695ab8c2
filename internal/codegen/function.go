package codegen

import (
	"strings"

	"github.com/bobmcallan/mcpforge/internal/toolset"
)

// noDescription documents tools declared without a description.
const noDescription = "No description"

// staticResult is the placeholder a static tool returns.
func staticResult(tool toolset.ToolDefinition) string {
	return "Executed " + tool.Name
}

// usesEndpoint reports whether the tool gets an HTTP body. An api tool
// without a URL cannot pass validation; rendering it as static keeps the
// generator total.
func usesEndpoint(tool toolset.ToolDefinition) bool {
	return tool.IsAPI() && tool.HandlerCode != ""
}

func hasEndpoint(ts toolset.ToolSet) bool {
	for _, tool := range ts.Tools {
		if usesEndpoint(tool) {
			return true
		}
	}
	return false
}

func toolDescription(tool toolset.ToolDefinition) string {
	if d := strings.TrimSpace(tool.Description); d != "" {
		return d
	}
	return noDescription
}

// paramDoc is the documentation text for one parameter, empty when the
// parameter has no description.
func paramDoc(p toolset.Param) string {
	desc := oneLine(p.Description)
	if desc == "" {
		return ""
	}
	if len(p.Enum) > 0 {
		desc += " (one of: " + strings.Join(p.Enum, ", ") + ")"
	}
	return desc
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func paramNames(params []toolset.Param) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}

// effectiveKind maps unrecognized kinds to string, matching TypeMap.Lookup.
func effectiveKind(k toolset.Kind) toolset.Kind {
	if k.Known() {
		return k
	}
	return toolset.KindString
}
