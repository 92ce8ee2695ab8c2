package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/bobmcallan/mcpforge/internal/codegen"
	"github.com/bobmcallan/mcpforge/internal/common"
	"github.com/bobmcallan/mcpforge/internal/toolset"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method || (method == http.MethodGet && r.Method == http.MethodHead) {
		return true
	}
	w.Header().Set("Allow", method)
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// problemsResponse is the body of a 422 response.
type problemsResponse struct {
	Errors   []string          `json:"errors"`
	Problems []codegen.Problem `json:"problems"`
}

// WriteProblems writes 422 with every validation problem.
func WriteProblems(w http.ResponseWriter, problems []codegen.Problem) error {
	if problems == nil {
		problems = []codegen.Problem{}
	}
	return WriteJSON(w, http.StatusUnprocessableEntity, problemsResponse{
		Errors:   codegen.Report{Problems: problems}.Messages(),
		Problems: problems,
	})
}

// requestLogger tags the logger with the correlation ID set by middleware.
func requestLogger(logger *common.Logger, r *http.Request) *common.Logger {
	if logger == nil {
		return common.NewSilentLogger()
	}
	if id, ok := common.GetCorrelationID(r.Context()); ok {
		return logger.WithCorrelationId(id)
	}
	return logger
}

// requestFormat picks the document format from the format query parameter,
// falling back to the Content-Type. JSON is the default.
func requestFormat(r *http.Request) (toolset.Format, error) {
	if name := r.URL.Query().Get("format"); name != "" {
		return toolset.ParseFormat(name)
	}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if media, _, err := mime.ParseMediaType(ct); err == nil && strings.Contains(media, "yaml") {
			return toolset.FormatYAML, nil
		}
	}
	return toolset.FormatJSON, nil
}

// errBodyTooLarge is returned when the body limit middleware cut the request.
var errBodyTooLarge = errors.New("request body too large")

// readToolSet decodes the request body as a tool set document.
func readToolSet(r *http.Request) (*toolset.ToolSet, error) {
	format, err := requestFormat(r)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errBodyTooLarge
		}
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("request body is empty")
	}
	return toolset.Decode(data, format)
}

// decodeStatus maps a request decoding error to its HTTP status.
func decodeStatus(err error) int {
	if errors.Is(err, errBodyTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
