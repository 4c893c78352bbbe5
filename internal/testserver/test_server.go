package testserver

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/scriptdesk/internal/rest"
	"github.com/rpggio/scriptdesk/internal/sqlite"
	"github.com/rpggio/scriptdesk/internal/transport"
	"github.com/stretchr/testify/require"
)

// TestServer is an emulator backed by a per-test in-memory database.
type TestServer struct {
	Server  *httptest.Server
	DB      *sqlite.DB
	Token   string
	UserKey string
}

func New(t *testing.T, token, userKey string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	keys := sqlite.NewAPIKeyRepository(db)
	handler := transport.NewServer(transport.Repositories{
		Listeners:   sqlite.NewListenerRepository(db),
		Tasks:       sqlite.NewTaskRepository(db),
		Registry:    sqlite.NewRegistryRepository(db),
		RestScripts: sqlite.NewRestScriptRepository(db),
		Executions:  sqlite.NewExecutionRepository(db),
		Watches:     sqlite.NewWatchRepository(db),
		Reference:   sqlite.NewReferenceRepository(db),
	}, transport.AuthMiddleware(keys), nil)
	server := httptest.NewServer(handler)

	ts := &TestServer{
		Server:  server,
		DB:      db,
		Token:   token,
		UserKey: userKey,
	}

	require.NoError(t, keys.Add(context.Background(), token, userKey, "test"))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// Client returns a REST client authenticated as the server's user.
func (ts *TestServer) Client() *rest.Client {
	return rest.New(rest.Config{
		BaseURL: ts.Server.URL,
		Token:   ts.Token,
		Timeout: 5 * time.Second,
	})
}
