package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// auditMiddleware logs every tool call with the section it touched and the
// caller it ran as. Protocol traffic is logged at debug only.
func auditMiddleware(logger *slog.Logger) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			c := callerFrom(ctx)
			call, ok := req.(*sdkmcp.CallToolRequest)
			if !ok || call.Params == nil {
				if !strings.HasPrefix(method, "notifications/") {
					logger.Debug("mcp request", "method", method, "user", c.User, "session_id", c.Session)
				}
				return next(ctx, method, req)
			}

			start := time.Now()
			result, err := next(ctx, method, req)
			attrs := []any{
				"tool", call.Params.Name,
				"section", sectionArg(call.Params.Arguments),
				"user", c.User,
				"session_id", c.Session,
				"duration", time.Since(start),
			}
			switch {
			case err != nil:
				logger.Warn("tool call failed", append(attrs, "error", err)...)
			case toolRejected(result):
				logger.Info("tool call rejected", attrs...)
			default:
				logger.Info("tool call", attrs...)
			}
			return result, err
		}
	}
}

// sectionArg pulls the section argument out of raw tool arguments. Tools
// bound to one section have none.
func sectionArg(raw json.RawMessage) string {
	var args struct {
		Section string `json:"section"`
	}
	if len(raw) == 0 || json.Unmarshal(raw, &args) != nil {
		return ""
	}
	return args.Section
}

func toolRejected(result sdkmcp.Result) bool {
	r, ok := result.(*sdkmcp.CallToolResult)
	return ok && r != nil && r.IsError
}
