package codegen

import (
	"fmt"

	"github.com/bobmcallan/mcpforge/internal/toolset"
)

// Generator validates tool sets and renders them for one target. It holds
// no mutable state and is safe for concurrent use.
type Generator struct {
	target Target
}

// New returns a Generator for target. A nil target selects Python.
func New(target Target) *Generator {
	if target == nil {
		target = Python
	}
	return &Generator{target: target}
}

// Target returns the generator's target language.
func (g *Generator) Target() Target { return g.target }

// Check runs every validation rule, including the target's reserved
// identifiers.
func (g *Generator) Check(ts toolset.ToolSet) Report {
	return check(ts, g.target)
}

// Validate returns the messages of Check.
func (g *Generator) Validate(ts toolset.ToolSet) []string {
	return g.Check(ts).Messages()
}

func (g *Generator) precondition(ts toolset.ToolSet) error {
	if report := g.Check(ts); !report.OK() {
		return &PreconditionError{Problems: report.Problems}
	}
	return nil
}

// GenerateProgram renders the full server program. A tool set that does not
// validate yields a *PreconditionError.
func (g *Generator) GenerateProgram(ts toolset.ToolSet) (string, error) {
	if err := g.precondition(ts); err != nil {
		return "", err
	}
	return GenerateServer(g.target, ts)
}

// GenerateManifest projects ts into its manifest. It does not require a valid
// tool set.
func (g *Generator) GenerateManifest(ts toolset.ToolSet) (*Manifest, error) {
	return GenerateManifest(ts)
}

// Artifact is one complete generation result. It is recomputed on every call.
type Artifact struct {
	Program      string
	Manifest     *Manifest
	Instructions string
}

// Generate validates ts and renders program, manifest and instructions.
func (g *Generator) Generate(ts toolset.ToolSet) (*Artifact, error) {
	program, err := g.GenerateProgram(ts)
	if err != nil {
		return nil, err
	}
	manifest, err := GenerateManifest(ts)
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Program:      program,
		Manifest:     manifest,
		Instructions: Instructions(g.target, ts),
	}, nil
}

// GeneratePackage bundles the program, manifest, README and dependency file.
func (g *Generator) GeneratePackage(ts toolset.ToolSet) (*Package, error) {
	art, err := g.Generate(ts)
	if err != nil {
		return nil, err
	}
	manifest, err := art.Manifest.JSON()
	if err != nil {
		return nil, fmt.Errorf("failed to build package: %w", err)
	}
	return &Package{
		Name:   slug(ts.DisplayName()),
		Target: g.target.Name(),
		Entries: []Entry{
			{Filename: g.target.ProgramFile(), Content: art.Program},
			{Filename: ManifestFile, Content: string(manifest)},
			{Filename: ReadmeFile, Content: art.Instructions},
			g.target.DependencyFile(ts),
		},
	}, nil
}
