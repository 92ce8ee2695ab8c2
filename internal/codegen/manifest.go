package codegen

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/bobmcallan/mcpforge/internal/toolset"
)

// ManifestVersion is the version written into every manifest.
const ManifestVersion = "1.0.0"

// ManifestFile is the manifest entry name inside a package.
const ManifestFile = "manifest.json"

// Manifest is the language-neutral descriptor of a tool set's public contract.
type Manifest struct {
	Name    string         `json:"name"`
	Version string         `json:"version"`
	Tools   []ManifestTool `json:"tools"`
}

// ManifestTool is one tool's public contract. Name is the declared name,
// not the normalized function identifier.
type ManifestTool struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// ProjectTool is the single projection from a tool definition to its
// manifest entry. Every caller that needs a tool's public form uses it.
func ProjectTool(tool toolset.ToolDefinition) (ManifestTool, error) {
	schema, err := tool.InputSchema.Raw()
	if err != nil {
		return ManifestTool{}, fmt.Errorf("tool %q: %w", tool.Name, err)
	}
	mt := ManifestTool{Name: tool.Name, InputSchema: schema}
	if tool.Description != "" {
		desc := tool.Description
		mt.Description = &desc
	}
	return mt, nil
}

// GenerateManifest projects ts into a Manifest. It fails only when a stored
// input schema could not be parsed, because such a schema cannot be
// reproduced faithfully.
func GenerateManifest(ts toolset.ToolSet) (*Manifest, error) {
	m := &Manifest{
		Name:    ts.DisplayName(),
		Version: ManifestVersion,
		Tools:   make([]ManifestTool, 0, len(ts.Tools)),
	}
	for _, tool := range ts.Tools {
		mt, err := ProjectTool(tool)
		if err != nil {
			return nil, err
		}
		m.Tools = append(m.Tools, mt)
	}
	return m, nil
}

// JSON renders the manifest with two-space indentation and a final newline.
func (m *Manifest) JSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}
