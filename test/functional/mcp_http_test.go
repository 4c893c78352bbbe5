package functional_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/scriptdesk/internal/adapter"
	"github.com/rpggio/scriptdesk/internal/desk"
	"github.com/rpggio/scriptdesk/internal/domain/execution"
	"github.com/rpggio/scriptdesk/internal/domain/restscript"
	"github.com/rpggio/scriptdesk/internal/domain/scheduled"
	"github.com/rpggio/scriptdesk/internal/mcp"
	"github.com/rpggio/scriptdesk/internal/testserver"
	"github.com/rpggio/scriptdesk/internal/transport"
	"github.com/stretchr/testify/require"
)

const mcpToken = "mcp-secret"

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(req)
}

// newHTTPSession serves the MCP tools over streamable HTTP, backed by an
// in-process emulator, and connects a client with token.
func newHTTPSession(t *testing.T, token string) (*toolSession, error) {
	t.Helper()

	emulator := testserver.New(t, "upstream-token", "admin")
	client := emulator.Client()
	d := desk.New(desk.Clients{
		Listeners:   client.Listeners(),
		Scheduled:   client.Scheduled(),
		Registry:    client.Registry(),
		RestScripts: client.RestScripts(),
		Executions:  client.Executions(),
		Watches:     client.Watches(),
		Jira:        client.Jira(),
	}, desk.Options{Confirmer: adapter.ContextConfirmer{}})
	t.Cleanup(d.Unmount)

	server := mcp.NewServer(mcp.Config{
		Desk:          d,
		Resolver:      transport.StaticToken{Token: mcpToken, User: "agent"},
		TransportMode: "http",
		Version:       "test",
	})
	handler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute},
	)
	httpServer := httptest.NewServer(handler)
	t.Cleanup(httpServer.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	mcpClient := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := mcpClient.Connect(ctx, &sdkmcp.StreamableClientTransport{
		Endpoint:   httpServer.URL,
		HTTPClient: &http.Client{Transport: bearerTransport{token: token, base: http.DefaultTransport}},
	}, nil)
	if err != nil {
		return nil, err
	}
	t.Cleanup(func() { _ = session.Close() })
	return &toolSession{session: session}, nil
}

func TestHTTPFunctional_ScheduledTaskFlow(t *testing.T) {
	s, err := newHTTPSession(t, mcpToken)
	require.NoError(t, err)

	msg := s.callToolError(t, "list_items", map[string]any{"section": "scheduled"})
	require.Contains(t, msg, "NOT_READY")

	s.callTool(t, "reload", map[string]any{})

	created := decode[itemResponse[scheduled.Task]](t, s.callTool(t, "create_scheduled_task", map[string]any{
		"form": map[string]any{
			"name":               "Hourly sync",
			"type":               "BASIC_SCRIPT",
			"scheduleExpression": "0 0 * * * ?",
			"userKey":            "admin",
			"scriptBody":         "sync()",
			"enabled":            true,
		},
	}))
	id := created.Item.ID
	require.NotZero(t, id)
	require.Nil(t, created.Item.LastRunInfo)

	msg = s.callToolError(t, "run_scheduled_task", map[string]any{"id": id})
	require.Contains(t, msg, "CONFIRMATION_REQUIRED")
	s.callTool(t, "run_scheduled_task", map[string]any{"id": id, "confirm": true})

	s.callTool(t, "set_scheduled_task_enabled", map[string]any{"id": id, "enabled": false})
	s.callTool(t, "watch_item", map[string]any{"section": "scheduled", "id": id, "watching": true})

	s.callTool(t, "reload", map[string]any{"section": "scheduled"})
	got := decode[itemResponse[scheduled.Task]](t, s.callTool(t, "get_item", map[string]any{"section": "scheduled", "id": id}))
	require.False(t, got.Item.Enabled)
	require.True(t, got.Watching)
	require.NotNil(t, got.Item.LastRunInfo)
	require.Equal(t, scheduled.OutcomeSuccess, got.Item.LastRunInfo.Outcome)

	runs := decode[mcp.ExecutionsResponse](t, s.callTool(t, "get_executions", map[string]any{"section": "scheduled", "id": id}))
	require.Len(t, runs.Executions, 1)
	require.Equal(t, execution.Summary{Runs: 1}, runs.Summary)
}

func TestHTTPFunctional_RestScript(t *testing.T) {
	s, err := newHTTPSession(t, mcpToken)
	require.NoError(t, err)
	s.callTool(t, "reload", map[string]any{})

	created := decode[itemResponse[restscript.Script]](t, s.callTool(t, "create_rest_script", map[string]any{
		"form": map[string]any{
			"name":       "issue-count",
			"methods":    []string{"GET"},
			"scriptBody": "return 1",
		},
	}))
	require.NotZero(t, created.Item.ID)

	list := decode[listResponse[restscript.Script]](t, s.callTool(t, "list_items", map[string]any{"section": "rest"}))
	require.Equal(t, 1, list.Total)

	runs := decode[mcp.ExecutionsResponse](t, s.callTool(t, "get_executions", map[string]any{"section": "rest", "id": created.Item.ID}))
	require.Empty(t, runs.Executions)
}

func TestHTTPFunctional_InvalidInput(t *testing.T) {
	s, err := newHTTPSession(t, mcpToken)
	require.NoError(t, err)
	s.callTool(t, "reload", map[string]any{})

	msg := s.callToolError(t, "create_scheduled_task", map[string]any{
		"form": map[string]any{
			"name":               "Broken",
			"type":               "BASIC_SCRIPT",
			"scheduleExpression": "hourly",
			"userKey":            "admin",
			"scriptBody":         "sync()",
		},
	})
	require.Contains(t, msg, "INVALID_INPUT")
}

func TestHTTPFunctional_RejectsBadToken(t *testing.T) {
	s, err := newHTTPSession(t, "wrong")
	if err != nil {
		// Rejected during the handshake.
		require.ErrorContains(t, err, "unauthorized")
		return
	}
	msg := s.callToolError(t, "list_items", map[string]any{"section": "listeners"})
	require.Contains(t, msg, "unauthorized")
}
