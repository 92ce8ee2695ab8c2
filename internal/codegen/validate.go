package codegen

import (
	"fmt"

	"github.com/bobmcallan/mcpforge/internal/toolset"
)

// ProblemKind classifies a validation problem.
type ProblemKind string

const (
	// ProblemValidation is a structural or semantic problem in a definition.
	ProblemValidation ProblemKind = "validation"
	// ProblemSchemaParse is a stored input schema that is not well-formed.
	ProblemSchemaParse ProblemKind = "schema_parse"
)

// unnamedTool labels tools with an empty name in messages.
const unnamedTool = "Unnamed"

// Problem is one finding of the schema validator.
type Problem struct {
	// Index is the tool position, or -1 for tool set level problems.
	Index   int         `json:"index"`
	Tool    string      `json:"tool,omitempty"`
	Field   string      `json:"field,omitempty"`
	Kind    ProblemKind `json:"kind"`
	Message string      `json:"message"`
}

func (p Problem) String() string { return p.Message }

// Report is the full result of a validation pass.
type Report struct {
	Problems []Problem `json:"problems"`
}

// OK reports whether no problems were found.
func (r Report) OK() bool { return len(r.Problems) == 0 }

// Messages returns the problem messages in discovery order. The slice is
// empty, not nil, for a clean report.
func (r Report) Messages() []string {
	out := make([]string, len(r.Problems))
	for i, p := range r.Problems {
		out[i] = p.Message
	}
	return out
}

// Check validates a tool set independently of any target language.
func Check(ts toolset.ToolSet) Report {
	return check(ts, nil)
}

// Validate returns every problem in ts as a human-readable message. An empty
// list means the tool set is safe to generate.
func Validate(ts toolset.ToolSet) []string {
	return Check(ts).Messages()
}

type checker struct {
	report Report
	target Target
}

func (c *checker) add(index int, tool, field string, kind ProblemKind, format string, args ...interface{}) {
	label := tool
	if label == "" {
		label = unnamedTool
	}
	c.report.Problems = append(c.report.Problems, Problem{
		Index:   index,
		Tool:    tool,
		Field:   field,
		Kind:    kind,
		Message: fmt.Sprintf("Tool %q: ", label) + fmt.Sprintf(format, args...),
	})
}

// check runs every rule. With a non-nil target it also rejects identifiers
// reserved in that language.
func check(ts toolset.ToolSet, target Target) Report {
	c := &checker{target: target}
	if len(ts.Tools) == 0 {
		c.report.Problems = append(c.report.Problems, Problem{
			Index:   -1,
			Kind:    ProblemValidation,
			Message: "at least one tool is required",
		})
		return c.report
	}

	firstByID := make(map[string]string, len(ts.Tools))
	for i, tool := range ts.Tools {
		c.checkName(i, tool)
		if tool.Name != "" {
			id := Normalize(tool.Name)
			if first, dup := firstByID[id]; dup {
				c.add(i, tool.Name, "name", ProblemValidation,
					"duplicate tool name: %q and %q both normalize to %q", first, tool.Name, id)
			} else {
				firstByID[id] = tool.Name
			}
		}
		c.checkHandler(i, tool)
		c.checkSchema(i, tool)
	}
	return c.report
}

func (c *checker) checkName(i int, tool toolset.ToolDefinition) {
	switch {
	case tool.Name == "":
		c.add(i, tool.Name, "name", ProblemValidation, "field \"name\" is required")
	case !IsValidIdentifier(tool.Name):
		c.add(i, tool.Name, "name", ProblemValidation,
			"field \"name\" is not a valid identifier (must start with a letter or underscore and contain only letters, digits and underscores)")
	case c.target != nil && c.target.ReservedName(Normalize(tool.Name)):
		c.add(i, tool.Name, "name", ProblemValidation,
			"field \"name\" is reserved in the %s target", c.target.Name())
	}
}

func (c *checker) checkHandler(i int, tool toolset.ToolDefinition) {
	if !tool.HandlerType.Valid() {
		c.add(i, tool.Name, "handler_type", ProblemValidation,
			"field \"handler_type\" must be %q or %q, got %q", toolset.HandlerStatic, toolset.HandlerAPI, tool.HandlerType)
		return
	}
	if tool.IsAPI() && tool.HandlerCode == "" {
		c.add(i, tool.Name, "handler_code", ProblemValidation,
			"API endpoint URL is required for API handler type")
	}
}

func (c *checker) checkSchema(i int, tool toolset.ToolDefinition) {
	if err := tool.InputSchema.Err(); err != nil {
		c.add(i, tool.Name, "input_schema", ProblemSchemaParse,
			"field \"input_schema\" could not be parsed: %v", err)
		return
	}

	var declared []string
	for _, p := range tool.InputSchema.Params() {
		declared = append(declared, p.Name)
		switch {
		case !IsValidIdentifier(p.Name):
			c.add(i, tool.Name, "input_schema", ProblemValidation,
				"parameter %q is not a valid identifier", p.Name)
		case c.target != nil && c.target.ReservedParameter(p.Name):
			c.add(i, tool.Name, "input_schema", ProblemValidation,
				"parameter %q is reserved in the %s target", p.Name, c.target.Name())
		}
	}

	if !tool.IsAPI() || tool.HandlerCode == "" {
		return
	}
	known := make(map[string]bool, len(declared))
	for _, name := range declared {
		known[name] = true
	}
	for _, name := range parseEndpoint(tool.HandlerCode).Params {
		if !known[name] {
			c.add(i, tool.Name, "handler_code", ProblemValidation,
				"API endpoint URL references undeclared parameter \"{%s}\"", name)
		}
	}
}
