package toolset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	invopopSchema "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Format is the encoding of a tool set document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a user supplied format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported tool set format %q (want json or yaml)", name)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("cannot infer tool set format from %q (want .json, .yaml or .yml)", path)
}

// Load reads and decodes a tool set document from disk.
func Load(path string) (*ToolSet, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tool set %s: %w", path, err)
	}
	ts, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load tool set %s: %w", path, err)
	}
	return ts, nil
}

// Decode parses a tool set document. The document shape is checked against
// DocumentSchema first; semantic problems are left to validation so they can
// be reported together.
func Decode(data []byte, format Format) (*ToolSet, error) {
	var doc []byte
	switch format {
	case FormatJSON:
		doc = data
	case FormatYAML:
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		doc = converted
	default:
		return nil, fmt.Errorf("unsupported tool set format %q", format)
	}

	if err := ValidateDocument(doc); err != nil {
		return nil, err
	}

	var ts ToolSet
	if err := json.Unmarshal(doc, &ts); err != nil {
		return nil, fmt.Errorf("failed to decode tool set: %w", err)
	}
	return &ts, nil
}

var (
	documentOnce   sync.Once
	documentSchema *jsonschema.Schema
	documentText   string
	documentErr    error
)

// DocumentSchema returns the JSON Schema of a tool set document, reflected
// from ToolSet.
func DocumentSchema() string {
	compiledDocumentSchema()
	return documentText
}

func compiledDocumentSchema() (*jsonschema.Schema, error) {
	documentOnce.Do(func() {
		reflector := invopopSchema.Reflector{
			AllowAdditionalProperties:  false,
			DoNotReference:             true,
			RequiredFromJSONSchemaTags: true,
			Anonymous:                  true,
		}
		b, err := json.MarshalIndent(reflector.Reflect(&ToolSet{}), "", "  ")
		if err != nil {
			documentErr = fmt.Errorf("failed to reflect tool set schema: %w", err)
			return
		}
		documentText = string(b)
		documentSchema, documentErr = jsonschema.CompileString("toolset.schema.json", documentText)
	})
	return documentSchema, documentErr
}

// ValidateDocument checks raw JSON against the tool set document schema.
func ValidateDocument(doc []byte) error {
	schema, err := compiledDocumentSchema()
	if err != nil {
		return err
	}
	var v interface{}
	if err := json.Unmarshal(doc, &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if v == nil {
		return fmt.Errorf("tool set document is empty")
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("tool set document does not match schema: %w", err)
	}
	return nil
}
