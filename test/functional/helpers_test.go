package functional_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// toolSession wraps a connected MCP client session.
type toolSession struct {
	session *sdkmcp.ClientSession
}

func (s *toolSession) call(t *testing.T, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := s.session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err, "CallTool %s failed", name)
	return result
}

// callTool calls a tool that must succeed and returns its text payload.
func (s *toolSession) callTool(t *testing.T, name string, args map[string]any) json.RawMessage {
	t.Helper()
	result := s.call(t, name, args)
	require.False(t, result.IsError, "tool %s returned error: %s", name, text(result))
	require.NotEmpty(t, result.Content, "tool %s returned no content", name)
	return json.RawMessage(text(result))
}

// callToolError calls a tool that must fail and returns the error text,
// whether it arrives as a protocol error or as an error result.
func (s *toolSession) callToolError(t *testing.T, name string, args map[string]any) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := s.session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return err.Error()
	}
	require.True(t, result.IsError, "tool %s unexpectedly succeeded", name)
	return text(result)
}

func text(result *sdkmcp.CallToolResult) string {
	for _, content := range result.Content {
		if tc, ok := content.(*sdkmcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

type itemResponse[T any] struct {
	Section  string `json:"section"`
	Item     T      `json:"item"`
	Watching bool   `json:"watching"`
}

type listResponse[T any] struct {
	Section  string  `json:"section"`
	Filter   string  `json:"filter"`
	Total    int     `json:"total"`
	Items    []T     `json:"items"`
	Watching []int64 `json:"watching"`
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}
