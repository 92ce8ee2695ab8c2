package codegen

import (
	"testing"

	"github.com/bobmcallan/mcpforge/internal/toolset"
)

const demoJSON = `{
  "server_name": "Demo",
  "tools": [
    {
      "name": "get_weather",
      "description": "Get weather",
      "input_schema": {"properties": {"city": {"type": "string"}}, "required": ["city"]},
      "handler_type": "static"
    }
  ]
}`

const forecastYAML = `server_name: Weather Desk
tools:
  - name: forecast
    description: |-
      Fetch a forecast.
      Uses the upstream API.
    output_schema: Forecast text
    input_schema:
      type: object
      properties:
        units:
          type: string
          description: Temperature units
          enum: [c, f]
        city:
          type: string
          description: City name
        days:
          type: integer
        verbose:
          type: boolean
      required: [city]
    handler_type: api
    handler_code: "https://api.example.com/{city}?days={days}&units={units}&key=${WEATHER_KEY}"
  - name: ping
`

func mustDecode(t *testing.T, doc string, format toolset.Format) toolset.ToolSet {
	t.Helper()
	ts, err := toolset.Decode([]byte(doc), format)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return *ts
}

func staticTool(name string) toolset.ToolDefinition {
	return toolset.ToolDefinition{Name: name, HandlerType: toolset.HandlerStatic}
}

func toolSetOf(tools ...toolset.ToolDefinition) toolset.ToolSet {
	return toolset.ToolSet{ServerName: "Test", Tools: tools}
}
