package mcpserver

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	coreerrors "github.com/standardbeagle/tldrs/internal/errors"
)

// jsonResult wraps data as the single text block of a CallToolResult, the
// same shape the teacher's createJSONResponse produces.
func jsonResult(data any) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal tool response: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(content)}},
	}, nil
}

// textResult wraps a pre-rendered string (e.g. a serialize.Render output) as
// the tool's text content.
func textResult(text string) (*mcp.CallToolResult, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil
}

// errorResult reports a core error as a tool-level result with IsError set,
// per the MCP convention: protocol errors hide the cause from the model,
// in-result errors let it read and self-correct.
func errorResult(op string, err error) (*mcp.CallToolResult, error) {
	kind := "unknown"
	var coreErr *coreerrors.CoreError
	if ce, ok := err.(*coreerrors.CoreError); ok {
		coreErr = ce
		kind = string(ce.Kind)
	}

	data := map[string]any{
		"success":   false,
		"operation": op,
		"error":     err.Error(),
		"kind":      kind,
	}
	if coreErr != nil && coreErr.Detail != "" {
		data["detail"] = coreErr.Detail
	}

	result, marshalErr := jsonResult(data)
	if marshalErr != nil {
		return nil, marshalErr
	}
	result.IsError = true
	return result, nil
}
