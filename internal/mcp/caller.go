package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/scriptdesk/internal/transport"
)

// caller identifies who issued a request. Watches are stored per User.
type caller struct {
	User    string
	Session string
}

type callerKey struct{}

func callerFrom(ctx context.Context) caller {
	c, _ := ctx.Value(callerKey{}).(caller)
	return c
}

// identityMiddleware attaches the caller to the context. With a resolver the
// user comes from the bearer token; without one every request acts as
// defaultUser. The handshake methods never need a user.
func identityMiddleware(resolver transport.UserResolver, defaultUser string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			c := caller{User: defaultUser}
			extra := req.GetExtra()
			if extra != nil && extra.Header != nil {
				c.Session = extra.Header.Get("Mcp-Session-Id")
			}

			if resolver != nil && method != "initialize" && method != "ping" && !strings.HasPrefix(method, "notifications/") {
				user, err := bearerUser(ctx, resolver, extra)
				if err != nil {
					return nil, err
				}
				c.User = user
			}

			return next(context.WithValue(ctx, callerKey{}, c), method, req)
		}
	}
}

func bearerUser(ctx context.Context, resolver transport.UserResolver, extra *sdkmcp.RequestExtra) (string, error) {
	if extra == nil || extra.Header == nil {
		return "", fmt.Errorf("%w: missing headers", errUnauthorized)
	}
	token := strings.TrimSpace(strings.TrimPrefix(extra.Header.Get("Authorization"), "Bearer "))
	if token == "" {
		return "", fmt.Errorf("%w: missing bearer token", errUnauthorized)
	}
	user, err := resolver.ResolveUser(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errUnauthorized, err)
	}
	if user == "" {
		return "", fmt.Errorf("%w: unknown token", errUnauthorized)
	}
	return user, nil
}
