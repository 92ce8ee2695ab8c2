package toolset

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const weatherYAML = `server_name: Demo
tools:
  - name: get_weather
    description: Get weather
    input_schema:
      type: object
      properties:
        units:
          type: string
          enum: [c, f]
        city:
          type: string
          description: City name
        days:
          type: integer
      required: [city]
    handler_type: api
    handler_code: "https://api.example.com/{city}?days={days}&key=${WEATHER_KEY}"
`

func TestDecode_YAML_PreservesOrder(t *testing.T) {
	ts, err := Decode([]byte(weatherYAML), FormatYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if ts.ServerName != "Demo" {
		t.Errorf("server name = %q", ts.ServerName)
	}
	if len(ts.Tools) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(ts.Tools))
	}
	tool := ts.Tools[0]
	if !tool.IsAPI() {
		t.Error("expected api handler")
	}
	if got := paramNames(tool.InputSchema); !reflect.DeepEqual(got, []string{"units", "city", "days"}) {
		t.Errorf("param order = %v", got)
	}
	units, _ := tool.InputSchema.Lookup("units")
	if !reflect.DeepEqual(units.Enum, []string{"c", "f"}) {
		t.Errorf("enum = %v", units.Enum)
	}
}

func TestDecode_JSON(t *testing.T) {
	doc := `{"server_name":"Demo","tools":[{"name":"ping","handler_type":"static","input_schema":"{\"properties\":{}}"}]}`
	ts, err := Decode([]byte(doc), FormatJSON)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if ts.Tools[0].Name != "ping" || ts.Tools[0].InputSchema.Err() != nil {
		t.Errorf("tool = %+v", ts.Tools[0])
	}
}

func TestDecode_ShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"tools not array", `{"tools":{}}`},
		{"tools missing", `{"server_name":"x"}`},
		{"unknown key", `{"tools":[],"servername":"x"}`},
		{"unknown tool key", `{"tools":[{"name":"a","input_shema":{}}]}`},
		{"name not string", `{"tools":[{"name":5}]}`},
		{"schema is number", `{"tools":[{"name":"a","input_schema":5}]}`},
		{"empty", ``},
		{"null", `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.doc), FormatJSON); err == nil {
				t.Errorf("expected error for %s", tt.doc)
			}
		})
	}
}

func TestDecode_StoreRecordKeysAccepted(t *testing.T) {
	doc := `{"tools":[{"id":7,"project_id":"p-1","name":"ping","created_at":"2026-01-02T03:04:05Z","updated_at":null,"handler_type":"static"}]}`
	ts, err := Decode([]byte(doc), FormatJSON)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(ts.Tools) != 1 || ts.Tools[0].Name != "ping" {
		t.Errorf("tools = %+v", ts.Tools)
	}
	if _, err := Decode([]byte(`{"tools":[{"name":"a","project":"p-1"}]}`), FormatJSON); err == nil {
		t.Error("keys outside the store record set must still be rejected")
	}
	if _, err := Decode([]byte(`{"id":1,"tools":[]}`), FormatJSON); err == nil {
		t.Error("store keys are only admitted on tools")
	}
}

func TestDecode_MalformedPersistedSchemaIsNotADecodeError(t *testing.T) {
	doc := `{"tools":[{"name":"a","input_schema":"{oops"}]}`
	ts, err := Decode([]byte(doc), FormatJSON)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if ts.Tools[0].InputSchema.Err() == nil {
		t.Error("expected schema error to be carried on the tool")
	}
}

func TestDecode_EmptyYAML(t *testing.T) {
	if _, err := Decode([]byte(""), FormatYAML); err == nil {
		t.Error("expected error for empty YAML document")
	}
}

func TestDecode_UnsupportedFormat(t *testing.T) {
	if _, err := Decode([]byte(`{}`), Format("toml")); err == nil {
		t.Error("expected error")
	}
}

func TestLoad_PicksFormatFromExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tools.yml")
	if err := os.WriteFile(path, []byte(weatherYAML), 0644); err != nil {
		t.Fatal(err)
	}
	ts, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ts.Tools) != 1 {
		t.Errorf("expected 1 tool")
	}

	if _, err := Load(filepath.Join(dir, "tools.txt")); err == nil {
		t.Error("expected error for unknown extension")
	}
	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatJSON, "JSON": FormatJSON, "yaml": FormatYAML, "yml": FormatYAML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error")
	}
}

func TestDocumentSchema_IsReflected(t *testing.T) {
	s := DocumentSchema()
	for _, want := range []string{`"tools"`, `"server_name"`, `"handler_code"`, `"additionalProperties": false`} {
		if !strings.Contains(s, want) {
			t.Errorf("document schema missing %s", want)
		}
	}
}

func TestYAMLToJSON_Aliases(t *testing.T) {
	doc := "base: &b\n  type: string\nprops:\n  a: *b\n  n: 3\n  ok: true\n"
	out, err := yamlToJSON([]byte(doc))
	if err != nil {
		t.Fatalf("yamlToJSON: %v", err)
	}
	want := `{"base":{"type":"string"},"props":{"a":{"type":"string"},"n":3,"ok":true}}`
	if string(out) != want {
		t.Errorf("got  %s\nwant %s", out, want)
	}
}
