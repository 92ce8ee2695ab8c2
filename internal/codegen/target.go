package codegen

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/mcpforge/internal/toolset"
)

// Target renders a tool set as a program in one language.
type Target interface {
	// Name is the short target name used in config and flags.
	Name() string
	// ProgramFile is the name of the generated program inside a package.
	ProgramFile() string
	// Types maps parameter kinds to the language's types and defaults.
	Types() TypeMap
	// ReservedName reports identifiers a generated function must not use.
	ReservedName(identifier string) bool
	// ReservedParameter reports identifiers a parameter must not use.
	ReservedParameter(name string) bool

	// Preamble is the import and server bootstrap block.
	Preamble(ts toolset.ToolSet) string
	// Function renders one tool as a registered callable, ending with a
	// blank line.
	Function(tool toolset.ToolDefinition) string
	// Trailer is the entry point that starts the server.
	Trailer(ts toolset.ToolSet) string
	// Finish post-processes the assembled program.
	Finish(source string) (string, error)

	// DependencyFile is the manifest of runtime dependencies.
	DependencyFile(ts toolset.ToolSet) Entry
	// Setup describes how to install and run the generated program.
	Setup() Setup
}

// Setup is the install and run recipe rendered into the package README.
type Setup struct {
	Install []string
	Run     string
	Command string
	Args    []string
}

var (
	// Python generates a FastMCP server.
	Python Target = pythonTarget{}
	// Go generates an mcp-go server.
	Go Target = goTarget{}
)

// Targets returns the available targets, default first.
func Targets() []Target {
	return []Target{Python, Go}
}

// TargetByName resolves a target name. Empty selects Python.
func TargetByName(name string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "python", "py":
		return Python, nil
	case "go", "golang":
		return Go, nil
	}
	return nil, fmt.Errorf("unknown target %q (want python or go)", name)
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
