package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bobmcallan/mcpforge/internal/app"
	"github.com/bobmcallan/mcpforge/internal/common"
	"github.com/bobmcallan/mcpforge/internal/config"
)

const demoDoc = `{"server_name":"Demo","tools":[{"name":"get_weather","description":"Get weather","input_schema":{"properties":{"city":{"type":"string"}},"required":["city"]},"handler_type":"static"}]}`

func newTestApp(t *testing.T, mutate ...func(*config.Config)) *app.App {
	t.Helper()

	cfg := config.NewDefaultConfig()
	for _, m := range mutate {
		m(cfg)
	}

	application, err := app.New(cfg, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("failed to create test app: %v", err)
	}

	t.Cleanup(func() {
		application.Close()
	})

	return application
}

func serve(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestRoutes_HealthEndpoint(t *testing.T) {
	srv := New(newTestApp(t))

	w := serve(srv, "GET", "/api/health", "")

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
}

func TestRoutes_VersionEndpoint(t *testing.T) {
	srv := New(newTestApp(t))

	w := serve(srv, "GET", "/api/version", "")

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"version"`) {
		t.Errorf("expected version in body, got %s", w.Body.String())
	}
}

func TestRoutes_APINotFound(t *testing.T) {
	srv := New(newTestApp(t))

	for _, path := range []string{"/api/nonexistent", "/"} {
		w := serve(srv, "GET", path, "")
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: expected status 404, got %d", path, w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("%s: expected JSON 404, got %s", path, ct)
		}
	}
}

func TestRoutes_GeneratorEndpoints(t *testing.T) {
	srv := New(newTestApp(t))

	tests := []struct {
		path        string
		contentType string
	}{
		{"/api/validate", "application/json"},
		{"/api/generate", "application/json"},
		{"/api/manifest", "application/json"},
		{"/api/package", "application/zip"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := serve(srv, "POST", tt.path, demoDoc)
			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
			}
			if ct := w.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("expected %s, got %s", tt.contentType, ct)
			}
		})
	}
}

func TestRoutes_ConfiguredTargetIsDefault(t *testing.T) {
	srv := New(newTestApp(t, func(c *config.Config) { c.Generator.Target = "go" }))

	w := serve(srv, "POST", "/api/generate", demoDoc)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"program_file":"server.go"`) {
		t.Errorf("expected go output, got %s", w.Body.String())
	}
}

func TestRoutes_InvalidToolSetIs422(t *testing.T) {
	srv := New(newTestApp(t))

	w := serve(srv, "POST", "/api/generate", `{"tools":[{"name":"123bad","input_schema":{}}]}`)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", w.Code)
	}
	var body struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if len(body.Errors) != 1 || !strings.Contains(body.Errors[0], "123bad") {
		t.Errorf("unexpected errors: %v", body.Errors)
	}
}

func TestRoutes_BodyLimitFromConfig(t *testing.T) {
	srv := New(newTestApp(t, func(c *config.Config) { c.Server.MaxBodyBytes = 32 }))

	w := serve(srv, "POST", "/api/validate", demoDoc)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected status 413, got %d", w.Code)
	}
}

func TestRoutes_MiddlewareApplied(t *testing.T) {
	srv := New(newTestApp(t))

	w := serve(srv, "GET", "/api/health", "")

	if w.Header().Get("X-Correlation-ID") == "" {
		t.Error("expected X-Correlation-ID header from middleware")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers from middleware")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS headers from middleware")
	}
}

func TestRoutes_MCPEndpoint(t *testing.T) {
	srv := New(newTestApp(t))

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1.0.0"}}}`
	req := httptest.NewRequest("POST", "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"serverInfo"`) {
		t.Errorf("expected initialize result, got %s", w.Body.String())
	}
}
