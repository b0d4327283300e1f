package handlers

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/mark3labs/mcp-go/mcp"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// APIResponse is the envelope every tool returns
type APIResponse struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Summary  string      `json:"summary"`
	Error    string      `json:"error,omitempty"`
	Metadata Metadata    `json:"metadata"`
}

// Metadata contains response metadata
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	Source      string    `json:"source"`
	CurrentWeek int       `json:"current_week,omitempty"`
	IsLiveData  bool      `json:"is_live_data"`
}

func sourceOf(live bool) string {
	if live {
		return "espn_api"
	}
	return "snapshot"
}

// formatJSONResponse converts a response struct to a formatted JSON string
func formatJSONResponse(response interface{}) (string, error) {
	jsonBytes, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal response: %w", err)
	}

	return string(jsonBytes), nil
}

func textResult(text string, isError bool) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
		IsError: isError,
	}
}

// jsonResult renders response as the tool's text content
func jsonResult(response APIResponse) *mcp.CallToolResult {
	text, err := formatJSONResponse(response)
	if err != nil {
		return textResult(fmt.Sprintf("Error formatting response: %s", err.Error()), true)
	}
	return textResult(text, false)
}

// optionalInt reads an optional numeric argument. JSON numbers arrive as float64.
func optionalInt(args map[string]interface{}, name string) (int, bool, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, false, fmt.Errorf("%s must be a whole number", name)
		}
		return int(v), true, nil
	case int:
		return v, true, nil
	default:
		return 0, false, fmt.Errorf("%s must be a number", name)
	}
}

// optionalString reads an optional string argument
func optionalString(args map[string]interface{}, name string) (string, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", name)
	}
	return s, nil
}
