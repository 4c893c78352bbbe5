package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/scriptdesk/internal/domain/listener"
	"github.com/rpggio/scriptdesk/internal/domain/restscript"
	"github.com/rpggio/scriptdesk/internal/domain/scheduled"
	"github.com/rpggio/scriptdesk/internal/domain/watch"
	"github.com/rpggio/scriptdesk/internal/rest"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, routes func(r chi.Router)) *rest.Client {
	t.Helper()
	r := chi.NewRouter()
	r.Route(rest.PluginPath, routes)
	r.Get(rest.TrackerPath+"/project", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"10000","key":"ABC","name":"Alpha"}]`))
	})
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return rest.New(rest.Config{BaseURL: server.URL + "/", Token: "secret"})
}

func TestListenerClient_GetAll(t *testing.T) {
	client := newClient(t, func(r chi.Router) {
		r.Get("/listener/all", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`[{"id":1,"name":"Alpha","uuid":"u1","scriptBody":"x","condition":{"type":"ISSUE","typeIds":[1]}}]`))
		})
	})

	got, err := client.Listeners().GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Alpha", got[0].Name)
	require.Equal(t, []int64{1}, got[0].Condition.TypeIDs)
}

func TestListenerClient_CreateSendsForm(t *testing.T) {
	client := newClient(t, func(r chi.Router) {
		r.Post("/listener", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var form listener.Form
			require.NoError(t, json.NewDecoder(r.Body).Decode(&form))
			_ = json.NewEncoder(w).Encode(listener.Listener{ID: 5, Name: form.Name, ScriptBody: form.ScriptBody})
		})
	})

	got, err := client.Listeners().Create(context.Background(), listener.Form{Name: "New", ScriptBody: "s"})
	require.NoError(t, err)
	require.Equal(t, int64(5), got.ID)
	require.Equal(t, "New", got.Name)
}

func TestClient_ErrorMessage(t *testing.T) {
	client := newClient(t, func(r chi.Router) {
		r.Put("/listener/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"field":"name","message":"Name is already taken"}`))
		})
		r.Delete("/listener/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Event listener is deleted"}`))
		})
		r.Get("/listener/all", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
	})

	_, err := client.Listeners().Update(context.Background(), 1, listener.Form{})
	var restErr *rest.Error
	require.True(t, errors.As(err, &restErr))
	require.Equal(t, http.StatusBadRequest, restErr.Status)
	require.Equal(t, "name: Name is already taken", restErr.Message)

	err = client.Listeners().Delete(context.Background(), 1)
	require.ErrorAs(t, err, &restErr)
	require.Equal(t, "Event listener is deleted", restErr.Message)

	_, err = client.Listeners().GetAll(context.Background())
	require.ErrorAs(t, err, &restErr)
	require.Equal(t, "Bad Gateway", restErr.Message)
}

func TestScheduledClient_Actions(t *testing.T) {
	var calls []string
	client := newClient(t, func(r chi.Router) {
		r.Post("/scheduled/{id}/runNow", func(w http.ResponseWriter, r *http.Request) {
			calls = append(calls, "run "+chi.URLParam(r, "id"))
			w.WriteHeader(http.StatusNoContent)
		})
		r.Post("/scheduled/{id}/enabled/{enabled}", func(w http.ResponseWriter, r *http.Request) {
			calls = append(calls, "enabled "+chi.URLParam(r, "id")+" "+chi.URLParam(r, "enabled"))
			w.WriteHeader(http.StatusOK)
		})
	})

	require.NoError(t, client.Scheduled().RunNow(context.Background(), 7))
	require.NoError(t, client.Scheduled().SetEnabled(context.Background(), 7, false))
	require.Equal(t, []string{"run 7", "enabled 7 false"}, calls)
}

func TestScheduledClient_GetAllDecodesRunInfo(t *testing.T) {
	client := newClient(t, func(r chi.Router) {
		r.Get("/scheduled/all", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `[{"id":3,"name":"Nightly","type":"BASIC_SCRIPT","scheduleExpression":"0 0 3 * * ?","enabled":true,
				"lastRunInfo":{"startDate":"2026-01-02T03:00:00Z","duration":1200,"outcome":"SUCCESS"}}]`)
		})
	})

	tasks, err := client.Scheduled().GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "0 0 3 * * ?", tasks[0].Schedule)
	require.NotNil(t, tasks[0].LastRunInfo)
	require.Equal(t, scheduled.OutcomeSuccess, tasks[0].LastRunInfo.Outcome)
	require.Equal(t, time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC), tasks[0].LastRunInfo.StartDate)
}

func TestWatchClient(t *testing.T) {
	var method string
	client := newClient(t, func(r chi.Router) {
		r.Get("/watch/{type}/all", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "LISTENER", chi.URLParam(r, "type"))
			_, _ = w.Write([]byte(`[2,5]`))
		})
		r.HandleFunc("/watch/{type}/{id}", func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			w.WriteHeader(http.StatusNoContent)
		})
	})

	watches, err := client.Watches().GetAllWatches(context.Background(), watch.EntityListener)
	require.NoError(t, err)
	require.Equal(t, []watch.Watch{{EntityID: 2, Watching: true}, {EntityID: 5, Watching: true}}, watches)

	require.NoError(t, client.Watches().Unwatch(context.Background(), watch.EntityListener, 2))
	require.Equal(t, http.MethodDelete, method)
	require.NoError(t, client.Watches().Watch(context.Background(), watch.EntityListener, 2))
	require.Equal(t, http.MethodPost, method)
}

func TestRestScriptClient(t *testing.T) {
	var got restscript.Form
	client := newClient(t, func(r chi.Router) {
		r.Get("/rest/all", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[{"id":1,"name":"count","uuid":"u1","methods":["GET"],"scriptBody":"1"}]`))
		})
		r.Put("/rest/{id}", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "1", chi.URLParam(r, "id"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = w.Write([]byte(`{"id":1,"name":"count","uuid":"u1","methods":["GET","POST"],"scriptBody":"2"}`))
		})
	})

	scripts, err := client.RestScripts().GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, scripts, 1)
	require.Equal(t, []restscript.Method{restscript.MethodGet}, scripts[0].Methods)

	form := restscript.Form{Name: "count", Methods: []restscript.Method{restscript.MethodGet, restscript.MethodPost}, ScriptBody: "2"}
	updated, err := client.RestScripts().Update(context.Background(), 1, form)
	require.NoError(t, err)
	require.Equal(t, form.Methods, got.Methods)
	require.Equal(t, "2", updated.ScriptBody)
}

func TestExecutionClient(t *testing.T) {
	client := newClient(t, func(r chi.Router) {
		r.Get("/execution/forRegistry/{id}", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "7", chi.URLParam(r, "id"))
			_, _ = w.Write([]byte(`[{"id":1,"time":12,"success":false,"error":"boom","date":"2024-05-01T10:00:00Z"}]`))
		})
		r.Get("/execution/forInline/{uuid}", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "a-b", chi.URLParam(r, "uuid"))
			_, _ = w.Write([]byte(`[]`))
		})
	})

	runs, err := client.Executions().GetRegistryExecutions(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, "boom", runs[0].Error)
	require.Equal(t, 12*time.Millisecond, runs[0].Duration())

	runs, err = client.Executions().GetInlineExecutions(context.Background(), "a-b")
	require.NoError(t, err)
	require.Empty(t, runs)
}

func TestJiraClient_Projects(t *testing.T) {
	client := newClient(t, func(chi.Router) {})

	projects, err := client.Jira().GetAllProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, int64(10000), projects[0].ID)
	require.Equal(t, "ABC", projects[0].Key)
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)

	client := rest.New(rest.Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	_, err := client.Jira().GetEventTypes(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_ResponseTooLarge(t *testing.T) {
	client := newClient(t, func(r chi.Router) {
		r.Get("/listener/all", func(w http.ResponseWriter, _ *http.Request) {
			chunk := make([]byte, 1<<20)
			for i := range chunk {
				chunk[i] = ' '
			}
			_, _ = w.Write([]byte("["))
			for range rest.MaxResponseBytes>>20 + 1 {
				if _, err := w.Write(chunk); err != nil {
					return
				}
			}
			_, _ = w.Write([]byte("]"))
		})
	})

	_, err := client.Listeners().GetAll(context.Background())
	require.ErrorIs(t, err, rest.ErrResponseTooLarge)
}
