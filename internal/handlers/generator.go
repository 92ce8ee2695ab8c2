package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bobmcallan/mcpforge/internal/codegen"
	"github.com/bobmcallan/mcpforge/internal/common"
	"github.com/bobmcallan/mcpforge/internal/toolset"
)

// GeneratorHandler serves the tool set endpoints. The request body is the
// tool set document itself; ?format= and ?target= select the encoding and
// the generated language.
type GeneratorHandler struct {
	logger *common.Logger
	target codegen.Target
}

// NewGeneratorHandler creates a generator handler. target is used when a
// request names none.
func NewGeneratorHandler(logger *common.Logger, target codegen.Target) *GeneratorHandler {
	if target == nil {
		target = codegen.Python
	}
	return &GeneratorHandler{logger: logger, target: target}
}

// validateResponse is the body of POST /api/validate.
type validateResponse struct {
	Valid    bool              `json:"valid"`
	Target   string            `json:"target"`
	Errors   []string          `json:"errors"`
	Problems []codegen.Problem `json:"problems"`
}

// generateResponse is the body of POST /api/generate.
type generateResponse struct {
	Target       string            `json:"target"`
	ProgramFile  string            `json:"program_file"`
	Program      string            `json:"program"`
	Manifest     *codegen.Manifest `json:"manifest"`
	Instructions string            `json:"instructions"`
}

// prepare reads the tool set and resolves the generator for the request.
// It writes the error response itself and returns ok=false on failure.
func (h *GeneratorHandler) prepare(w http.ResponseWriter, r *http.Request) (*toolset.ToolSet, *codegen.Generator, bool) {
	if !RequireMethod(w, r, http.MethodPost) {
		return nil, nil, false
	}
	target := h.target
	if name := r.URL.Query().Get("target"); name != "" {
		var err error
		if target, err = codegen.TargetByName(name); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return nil, nil, false
		}
	}
	ts, err := readToolSet(r)
	if err != nil {
		requestLogger(h.logger, r).Warn().
			Str("path", r.URL.Path).
			Str("error", err.Error()).
			Msg("rejected tool set document")
		WriteError(w, decodeStatus(err), err.Error())
		return nil, nil, false
	}
	return ts, codegen.New(target), true
}

// refuse renders a generation error. Validation failures become 422 with
// every problem; anything else is a 500.
func (h *GeneratorHandler) refuse(w http.ResponseWriter, r *http.Request, err error) {
	logger := requestLogger(h.logger, r)
	var pe *codegen.PreconditionError
	if errors.As(err, &pe) {
		logger.Info().
			Str("path", r.URL.Path).
			Int("problems", len(pe.Problems)).
			Msg("refused invalid tool set")
		WriteProblems(w, pe.Problems)
		return
	}
	var se *toolset.SchemaError
	if errors.As(err, &se) {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	logger.Error().Str("path", r.URL.Path).Err(err).Msg("generation failed")
	WriteError(w, http.StatusInternalServerError, "generation failed")
}

// Validate handles POST /api/validate. Invalid tool sets answer 422.
func (h *GeneratorHandler) Validate(w http.ResponseWriter, r *http.Request) {
	ts, g, ok := h.prepare(w, r)
	if !ok {
		return
	}
	report := g.Check(*ts)
	problems := report.Problems
	if problems == nil {
		problems = []codegen.Problem{}
	}
	status := http.StatusOK
	if !report.OK() {
		status = http.StatusUnprocessableEntity
	}
	requestLogger(h.logger, r).Debug().
		Int("tools", len(ts.Tools)).
		Int("problems", len(problems)).
		Msg("validated tool set")
	WriteJSON(w, status, validateResponse{
		Valid:    report.OK(),
		Target:   g.Target().Name(),
		Errors:   report.Messages(),
		Problems: problems,
	})
}

// Generate handles POST /api/generate.
func (h *GeneratorHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ts, g, ok := h.prepare(w, r)
	if !ok {
		return
	}
	art, err := g.Generate(*ts)
	if err != nil {
		h.refuse(w, r, err)
		return
	}
	requestLogger(h.logger, r).Info().
		Str("target", g.Target().Name()).
		Int("tools", len(ts.Tools)).
		Msg("generated program")
	WriteJSON(w, http.StatusOK, generateResponse{
		Target:       g.Target().Name(),
		ProgramFile:  g.Target().ProgramFile(),
		Program:      art.Program,
		Manifest:     art.Manifest,
		Instructions: art.Instructions,
	})
}

// Manifest handles POST /api/manifest. Manifests do not require a valid tool
// set.
func (h *GeneratorHandler) Manifest(w http.ResponseWriter, r *http.Request) {
	ts, g, ok := h.prepare(w, r)
	if !ok {
		return
	}
	m, err := g.GenerateManifest(*ts)
	if err != nil {
		h.refuse(w, r, err)
		return
	}
	out, err := m.JSON()
	if err != nil {
		h.refuse(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// Package handles POST /api/package, answering with a zip download.
func (h *GeneratorHandler) Package(w http.ResponseWriter, r *http.Request) {
	ts, g, ok := h.prepare(w, r)
	if !ok {
		return
	}
	pkg, err := g.GeneratePackage(*ts)
	if err != nil {
		h.refuse(w, r, err)
		return
	}
	data, err := pkg.Zip()
	if err != nil {
		h.refuse(w, r, err)
		return
	}
	requestLogger(h.logger, r).Info().
		Str("archive", pkg.ArchiveName()).
		Int("bytes", len(data)).
		Msg("packaged server")
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pkg.ArchiveName()))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
