package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/mcpforge/internal/codegen"
	"github.com/bobmcallan/mcpforge/internal/common"
	"github.com/bobmcallan/mcpforge/internal/toolset"
)

// Tools holds the state shared by the tool handlers. It is read-only after
// construction.
type Tools struct {
	target codegen.Target
	logger *common.Logger
	args   *argumentSchema
}

// NewTools creates the tool handlers. target is used when a call names none.
func NewTools(target codegen.Target, logger *common.Logger) (*Tools, error) {
	args, err := newArgumentSchema()
	if err != nil {
		return nil, err
	}
	if target == nil {
		target = codegen.Python
	}
	return &Tools{target: target, logger: logger, args: args}, nil
}

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(text)}}
}

func jsonResult(v interface{}) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("failed to marshal result")
	}
	return textResult(string(out))
}

// callLogger tags the logger with the request's correlation ID.
func (t *Tools) callLogger(ctx context.Context) *common.Logger {
	id, ok := common.GetCorrelationID(ctx)
	if !ok {
		id = common.NewCorrelationID()
	}
	return t.logger.WithCorrelationId(id)
}

// prepare decodes arguments and the tool set document they carry.
func (t *Tools) prepare(r mcp.CallToolRequest) (*toolset.ToolSet, *codegen.Generator, error) {
	args, err := t.args.decode(r.GetArguments())
	if err != nil {
		return nil, nil, err
	}
	format, err := toolset.ParseFormat(args.Format)
	if err != nil {
		return nil, nil, err
	}
	ts, err := toolset.Decode([]byte(args.Definition), format)
	if err != nil {
		return nil, nil, err
	}
	target := t.target
	if args.Target != "" {
		if target, err = codegen.TargetByName(args.Target); err != nil {
			return nil, nil, err
		}
	}
	return ts, codegen.New(target), nil
}

// validationResult is the payload of validate_toolset.
type validationResult struct {
	Valid    bool              `json:"valid"`
	Target   string            `json:"target"`
	Errors   []string          `json:"errors"`
	Problems []codegen.Problem `json:"problems"`
}

func (t *Tools) handleValidate(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := t.callLogger(ctx)
	ts, g, err := t.prepare(r)
	if err != nil {
		logger.Warn().Str("tool", ToolValidate).Str("error", err.Error()).Msg("rejected tool call")
		return errorResult(fmt.Sprintf("Error: %v", err)), nil
	}
	report := g.Check(*ts)
	problems := report.Problems
	if problems == nil {
		problems = []codegen.Problem{}
	}
	logger.Info().
		Str("tool", ToolValidate).
		Int("tools", len(ts.Tools)).
		Int("problems", len(problems)).
		Msg("validated tool set")
	return jsonResult(validationResult{
		Valid:    report.OK(),
		Target:   g.Target().Name(),
		Errors:   report.Messages(),
		Problems: problems,
	}), nil
}

func (t *Tools) handleGenerate(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := t.callLogger(ctx)
	ts, g, err := t.prepare(r)
	if err != nil {
		logger.Warn().Str("tool", ToolGenerate).Str("error", err.Error()).Msg("rejected tool call")
		return errorResult(fmt.Sprintf("Error: %v", err)), nil
	}
	program, err := g.GenerateProgram(*ts)
	if err != nil {
		var pe *codegen.PreconditionError
		if errors.As(err, &pe) {
			logger.Info().Str("tool", ToolGenerate).Int("problems", len(pe.Problems)).Msg("refused invalid tool set")
			return errorResult("Tool set is invalid:\n- " + strings.Join(pe.Messages(), "\n- ")), nil
		}
		logger.Error().Str("tool", ToolGenerate).Err(err).Msg("generation failed")
		return errorResult(fmt.Sprintf("Error: %v", err)), nil
	}
	logger.Info().
		Str("tool", ToolGenerate).
		Str("target", g.Target().Name()).
		Int("tools", len(ts.Tools)).
		Msg("generated program")
	return textResult(program), nil
}

func (t *Tools) handleManifest(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := t.callLogger(ctx)
	ts, g, err := t.prepare(r)
	if err != nil {
		logger.Warn().Str("tool", ToolManifest).Str("error", err.Error()).Msg("rejected tool call")
		return errorResult(fmt.Sprintf("Error: %v", err)), nil
	}
	m, err := g.GenerateManifest(*ts)
	if err != nil {
		return errorResult(fmt.Sprintf("Error: %v", err)), nil
	}
	out, err := m.JSON()
	if err != nil {
		return errorResult(fmt.Sprintf("Error: %v", err)), nil
	}
	logger.Info().Str("tool", ToolManifest).Int("tools", len(m.Tools)).Msg("generated manifest")
	return textResult(string(out)), nil
}

// targetInfo describes one generation target.
type targetInfo struct {
	Name           string `json:"name"`
	ProgramFile    string `json:"program_file"`
	DependencyFile string `json:"dependency_file"`
	Default        bool   `json:"default"`
}

func (t *Tools) handleTargets(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var out []targetInfo
	for _, target := range codegen.Targets() {
		out = append(out, targetInfo{
			Name:           target.Name(),
			ProgramFile:    target.ProgramFile(),
			DependencyFile: target.DependencyFile(toolset.ToolSet{}).Filename,
			Default:        target == t.target,
		})
	}
	return jsonResult(out), nil
}
