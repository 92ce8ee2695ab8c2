package codegen

import (
	"strings"
	"testing"

	"github.com/bobmcallan/mcpforge/internal/toolset"
)

func countContaining(msgs []string, sub string) int {
	n := 0
	for _, m := range msgs {
		if strings.Contains(m, sub) {
			n++
		}
	}
	return n
}

func TestValidate_Demo(t *testing.T) {
	ts := mustDecode(t, demoJSON, toolset.FormatJSON)
	if msgs := Validate(ts); len(msgs) != 0 {
		t.Errorf("expected no problems, got %v", msgs)
	}
}

func TestValidate_CleanReportIsEmptyNotNil(t *testing.T) {
	msgs := Validate(toolSetOf(staticTool("ping")))
	if msgs == nil || len(msgs) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", msgs)
	}
}

func TestValidate_EmptyToolSet(t *testing.T) {
	msgs := Validate(toolset.ToolSet{ServerName: "x"})
	if len(msgs) != 1 || msgs[0] != "at least one tool is required" {
		t.Errorf("got %v", msgs)
	}
}

func TestValidate_InvalidIdentifier(t *testing.T) {
	msgs := Validate(toolSetOf(staticTool("123bad")))
	if len(msgs) != 1 {
		t.Fatalf("expected 1 problem, got %v", msgs)
	}
	if !strings.Contains(msgs[0], `"123bad"`) || !strings.Contains(msgs[0], "not a valid identifier") {
		t.Errorf("message = %q", msgs[0])
	}
}

func TestValidate_EmptyNameReportedAsUnnamed(t *testing.T) {
	msgs := Validate(toolSetOf(staticTool(""), staticTool("")))
	if len(msgs) != 2 {
		t.Fatalf("expected one problem per empty name, got %v", msgs)
	}
	for _, m := range msgs {
		if !strings.HasPrefix(m, `Tool "Unnamed":`) || !strings.Contains(m, "is required") {
			t.Errorf("message = %q", m)
		}
	}
	if countContaining(msgs, "duplicate") != 0 {
		t.Error("empty names must not be reported as duplicates")
	}
}

func TestValidate_Duplicates(t *testing.T) {
	tests := []struct {
		name  string
		tools []string
		want  int
	}{
		{"case and space", []string{"Get Weather", "get_weather"}, 1},
		{"space and hyphen", []string{"Send Email", "send-email"}, 1},
		{"three way", []string{"a_b", "A_B", "a-b"}, 2},
		{"distinct", []string{"alpha", "beta"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tools []toolset.ToolDefinition
			for _, n := range tt.tools {
				tools = append(tools, staticTool(n))
			}
			msgs := Validate(toolSetOf(tools...))
			if got := countContaining(msgs, "duplicate"); got != tt.want {
				t.Errorf("duplicate errors = %d, want %d (%v)", got, tt.want, msgs)
			}
		})
	}
}

func TestValidate_SendEmailNamesAnOffender(t *testing.T) {
	msgs := Validate(toolSetOf(staticTool("Send Email"), staticTool("send-email")))
	for _, m := range msgs {
		if strings.Contains(m, "duplicate") {
			if !strings.Contains(m, "Send Email") && !strings.Contains(m, "send-email") {
				t.Errorf("duplicate message names neither tool: %q", m)
			}
			return
		}
	}
	t.Errorf("no duplicate message in %v", msgs)
}

func TestValidate_APIRequiresURL(t *testing.T) {
	tool := toolset.ToolDefinition{Name: "fetch", HandlerType: toolset.HandlerAPI}
	msgs := Validate(toolSetOf(tool))
	if countContaining(msgs, "API endpoint URL is required for API handler type") != 1 {
		t.Errorf("got %v", msgs)
	}
}

func TestValidate_UnknownHandlerType(t *testing.T) {
	tool := toolset.ToolDefinition{Name: "fetch", HandlerType: "python"}
	msgs := Validate(toolSetOf(tool))
	if countContaining(msgs, `"handler_type"`) != 1 {
		t.Errorf("got %v", msgs)
	}
}

func TestValidate_EmptyHandlerTypeIsStatic(t *testing.T) {
	if msgs := Validate(toolSetOf(toolset.ToolDefinition{Name: "ping"})); len(msgs) != 0 {
		t.Errorf("got %v", msgs)
	}
}

func TestCheck_SchemaParseErrorIsSurfaced(t *testing.T) {
	schema, err := toolset.ParseSchema(`{"properties": {"city": `)
	if err == nil {
		t.Fatal("expected parse error")
	}
	tool := toolset.ToolDefinition{Name: "broken", InputSchema: schema}
	report := Check(toolSetOf(tool))
	if report.OK() {
		t.Fatal("a malformed schema must not validate as empty")
	}
	p := report.Problems[0]
	if p.Kind != ProblemSchemaParse || p.Field != "input_schema" || p.Tool != "broken" || p.Index != 0 {
		t.Errorf("problem = %+v", p)
	}
}

func TestValidate_Parameters(t *testing.T) {
	schema := toolset.NewSchema()
	schema.AddProperty("ok_name", toolset.Property{Type: toolset.KindString}, false)
	schema.AddProperty("bad-name", toolset.Property{Type: toolset.KindString}, false)
	tool := toolset.ToolDefinition{
		Name:        "fetch",
		InputSchema: schema,
		HandlerType: toolset.HandlerAPI,
		HandlerCode: "https://example.com/{ok_name}/{missing}?k=${API_KEY}",
	}
	msgs := Validate(toolSetOf(tool))
	if countContaining(msgs, `parameter "bad-name" is not a valid identifier`) != 1 {
		t.Errorf("missing parameter identifier problem: %v", msgs)
	}
	if countContaining(msgs, `undeclared parameter "{missing}"`) != 1 {
		t.Errorf("missing undeclared placeholder problem: %v", msgs)
	}
	if countContaining(msgs, "API_KEY") != 0 {
		t.Errorf("environment references are not parameters: %v", msgs)
	}
}

func TestValidate_AccumulatesAcrossTools(t *testing.T) {
	ts := toolSetOf(
		staticTool("1st"),
		toolset.ToolDefinition{Name: "api_tool", HandlerType: toolset.HandlerAPI},
		staticTool("API Tool"),
	)
	report := Check(ts)
	if len(report.Problems) != 4 {
		t.Fatalf("expected 4 problems, got %v", report.Messages())
	}
	wantIndex := []int{0, 1, 2, 2}
	for i, p := range report.Problems {
		if p.Index != wantIndex[i] {
			t.Errorf("problem %d index = %d, want %d (%s)", i, p.Index, wantIndex[i], p.Message)
		}
	}
}

func TestValidate_CoreIgnoresReservedWords(t *testing.T) {
	if msgs := Validate(toolSetOf(staticTool("class"))); len(msgs) != 0 {
		t.Errorf("core validation is target independent, got %v", msgs)
	}
}

func TestValidate_NonStringEnumSchema(t *testing.T) {
	doc := `{"server_name":"Pager","tools":[{"name":"page","input_schema":{"properties":{"n":{"type":"integer","enum":[1,2]},"mode":{"type":"string","enum":["fast",3]}}}}]}`
	ts := mustDecode(t, doc, toolset.FormatJSON)
	for _, target := range Targets() {
		t.Run(target.Name(), func(t *testing.T) {
			g := New(target)
			if msgs := g.Validate(ts); len(msgs) != 0 {
				t.Fatalf("expected no problems, got %v", msgs)
			}
			if _, err := g.GenerateProgram(ts); err != nil {
				t.Fatalf("GenerateProgram: %v", err)
			}
		})
	}
}
