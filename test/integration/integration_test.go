package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/rpggio/scriptdesk/internal/adapter"
	"github.com/rpggio/scriptdesk/internal/console"
	"github.com/rpggio/scriptdesk/internal/desk"
	"github.com/rpggio/scriptdesk/internal/domain/execution"
	"github.com/rpggio/scriptdesk/internal/domain/listener"
	"github.com/rpggio/scriptdesk/internal/domain/registry"
	"github.com/rpggio/scriptdesk/internal/domain/restscript"
	"github.com/rpggio/scriptdesk/internal/domain/scheduled"
	"github.com/rpggio/scriptdesk/internal/metrics"
	"github.com/rpggio/scriptdesk/internal/rest"
	"github.com/rpggio/scriptdesk/internal/testserver"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	emulator *testserver.TestServer
	desk     *desk.Desk
	console  *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	emulator := testserver.New(t, "integration-token", "admin")
	client := emulator.Client()

	d := desk.New(desk.Clients{
		Listeners:   client.Listeners(),
		Scheduled:   client.Scheduled(),
		Registry:    client.Registry(),
		RestScripts: client.RestScripts(),
		Executions:  client.Executions(),
		Watches:     client.Watches(),
		Jira:        client.Jira(),
	}, desk.Options{Confirmer: adapter.ContextConfirmer{}, Metrics: metrics.New()})
	t.Cleanup(d.Unmount)

	server := httptest.NewServer(console.NewRouter(d, console.Options{}))
	t.Cleanup(server.Close)

	return &testEnv{emulator: emulator, desk: d, console: server}
}

type page struct {
	Kind console.Kind    `json:"kind"`
	Page json.RawMessage `json:"page"`
}

func (env *testEnv) do(t *testing.T, method, path string, body any) (int, page, string) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(data))
	}
	req, err := http.NewRequest(method, env.console.URL+path, reader)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var p page
	_ = json.Unmarshal(raw, &p)
	return resp.StatusCode, p, string(raw)
}

func decode[T any](t *testing.T, p page) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(p.Page, &out))
	return out
}

func issueListener(name string) listener.Form {
	return listener.Form{
		Name:       name,
		ScriptBody: "log.warn(event.issue.key)",
		Condition: listener.Condition{
			Type:       listener.ConditionIssue,
			TypeIDs:    []int64{1},
			ProjectIDs: []int64{10000},
		},
	}
}

func TestIntegration_ListenerLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	status, p, _ := env.do(t, http.MethodGet, "/listeners", nil)
	require.Equal(t, http.StatusServiceUnavailable, status)
	require.Equal(t, console.KindLoading, p.Kind)

	require.NoError(t, env.desk.Load(ctx))

	status, p, body := env.do(t, http.MethodPost, "/listeners", issueListener("Escalate"))
	require.Equal(t, http.StatusCreated, status, body)
	created := decode[console.ViewPage[listener.Listener]](t, p)
	require.NotZero(t, created.Item.ID)
	require.NotEmpty(t, created.Item.UUID)

	status, _, body = env.do(t, http.MethodPost, "/listeners", issueListener("Escalate"))
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, body, "Name is already taken")
	require.Equal(t, 1, env.desk.Listeners.Store().Len())

	status, p, _ = env.do(t, http.MethodGet, "/listeners", nil)
	require.Equal(t, http.StatusOK, status)
	list := decode[console.ListPage[listener.Listener]](t, p)
	require.Len(t, list.Items, 1)
	require.Equal(t, "DEMO - Demonstration", list.Reference.Projects[10000])
	require.Equal(t, "Issue Created", list.Reference.EventTypes[1])

	id := created.Item.ID
	path := "/listeners/" + itoa(id)

	update := issueListener("Escalate blockers")
	status, p, body = env.do(t, http.MethodPut, path, update)
	require.Equal(t, http.StatusOK, status, body)
	updated := decode[console.ViewPage[listener.Listener]](t, p)
	require.Equal(t, "Escalate blockers", updated.Item.Name)
	require.NotEqual(t, created.Item.UUID, updated.Item.UUID)

	status, _, _ = env.do(t, http.MethodPut, path+"/watch", nil)
	require.Equal(t, http.StatusNoContent, status)
	status, p, _ = env.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, status)
	require.True(t, decode[console.ViewPage[listener.Listener]](t, p).Watching)

	status, _, _ = env.do(t, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusPreconditionRequired, status)

	status, _, _ = env.do(t, http.MethodDelete, path+"?confirm=true", nil)
	require.Equal(t, http.StatusNoContent, status)
	status, p, _ = env.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, console.KindNotFound, p.Kind)

	// The emulator keeps deleted rows; updating one is rejected.
	_, err := env.emulator.Client().Listeners().Update(ctx, id, update)
	require.ErrorContains(t, err, "Event listener is deleted")

	// A reload agrees with the local state.
	require.NoError(t, env.desk.LoadSection(ctx, desk.SectionListeners))
	require.Zero(t, env.desk.Listeners.Store().Len())
}

func TestIntegration_ScheduledRunNow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.desk.Load(ctx))

	status, p, body := env.do(t, http.MethodPost, "/scheduled", scheduled.Form{
		Name:       "Nightly cleanup",
		Type:       scheduled.TypeIssueJQLScript,
		Schedule:   "0 0 2 * * ?",
		UserKey:    "admin",
		IssueJQL:   "status = Done",
		ScriptBody: "issue.delete()",
		Enabled:    true,
	})
	require.Equal(t, http.StatusCreated, status, body)
	task := decode[console.ViewPage[scheduled.Task]](t, p).Item
	path := "/scheduled/" + itoa(task.ID)

	status, _, _ = env.do(t, http.MethodPost, path+"/run", nil)
	require.Equal(t, http.StatusPreconditionRequired, status)

	status, _, _ = env.do(t, http.MethodPost, path+"/run?confirm=true", nil)
	require.Equal(t, http.StatusAccepted, status)

	local, _ := env.desk.Scheduled.Store().Get(task.ID)
	require.Nil(t, local.LastRunInfo)

	require.NoError(t, env.desk.LoadSection(ctx, desk.SectionScheduled))
	local, _ = env.desk.Scheduled.Store().Get(task.ID)
	require.NotNil(t, local.LastRunInfo)
	require.Equal(t, scheduled.OutcomeSuccess, local.LastRunInfo.Outcome)

	status, p, _ = env.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, status)
	view := decode[console.ViewPage[scheduled.Task]](t, p)
	require.Len(t, view.Executions, 1)
	require.Equal(t, "admin", view.Executions[0].ExtraParams["user"])
	require.Equal(t, &execution.Summary{Runs: 1}, view.Runs)

	status, _, _ = env.do(t, http.MethodPost, path+"/disable", nil)
	require.Equal(t, http.StatusNoContent, status)
	require.NoError(t, env.desk.LoadSection(ctx, desk.SectionScheduled))
	local, _ = env.desk.Scheduled.Store().Get(task.ID)
	require.False(t, local.Enabled)
}

func TestIntegration_RegistryDirectories(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.desk.Load(ctx))

	status, _, body := env.do(t, http.MethodPost, "/registry/directories", registry.DirectoryForm{Name: "Checks"})
	require.Equal(t, http.StatusCreated, status, body)
	var checks registry.Directory
	require.NoError(t, json.Unmarshal([]byte(body), &checks))
	require.NotZero(t, checks.ID)

	parent := checks.ID
	status, _, body = env.do(t, http.MethodPost, "/registry/directories", registry.DirectoryForm{Name: "Assignee", ParentID: &parent})
	require.Equal(t, http.StatusCreated, status, body)
	var assignee registry.Directory
	require.NoError(t, json.Unmarshal([]byte(body), &assignee))

	status, p, body := env.do(t, http.MethodPost, "/registry", registry.ScriptForm{
		Name:        "Has assignee",
		DirectoryID: assignee.ID,
		Types:       []registry.ScriptType{registry.TypeCondition},
		ScriptBody:  "issue.assignee != null",
	})
	require.Equal(t, http.StatusCreated, status, body)
	script := decode[console.ViewPage[registry.Script]](t, p).Item

	require.NoError(t, env.desk.LoadSection(ctx, desk.SectionRegistry))
	got, ok := env.desk.Registry.Store().Get(script.ID)
	require.True(t, ok)
	require.Equal(t, "Checks/Assignee", got.ParentName)

	paths := env.desk.Registry.Store().Reference().Snapshot().Directories
	require.Equal(t, "Checks/Assignee", paths[assignee.ID])

	status, _, _ = env.do(t, http.MethodDelete, "/registry/directories/"+itoa(assignee.ID)+"?confirm=true", nil)
	require.Equal(t, http.StatusConflict, status)
}

func TestIntegration_RestScriptHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.desk.Load(ctx))

	form := restscript.Form{
		Name:       "issue-count",
		Methods:    []restscript.Method{restscript.MethodGet},
		ScriptBody: "return issueManager.issueCount",
	}
	status, p, body := env.do(t, http.MethodPost, "/rest", form)
	require.Equal(t, http.StatusCreated, status, body)
	script := decode[console.ViewPage[restscript.Script]](t, p).Item
	require.NotEmpty(t, script.UUID)

	status, _, body = env.do(t, http.MethodPost, "/rest", restscript.Form{Name: "bad name", ScriptBody: "x"})
	require.Equal(t, http.StatusBadRequest, status, body)

	env.track(t, script.UUID, execution.Execution{Time: 12, Success: true})
	env.track(t, script.UUID, execution.Execution{Time: 40, Error: "NullPointerException"})

	status, p, _ = env.do(t, http.MethodGet, "/rest/"+itoa(script.ID), nil)
	require.Equal(t, http.StatusOK, status)
	view := decode[console.ViewPage[restscript.Script]](t, p)
	require.Len(t, view.Executions, 2)
	require.Equal(t, &execution.Summary{Runs: 2, Failures: 1}, view.Runs)

	require.NoError(t, env.desk.LoadSection(ctx, desk.SectionRest))
	require.Equal(t, 1, env.desk.Rest.Store().Len())
}

// track records a run through the emulator's tracking endpoint.
func (env *testEnv) track(t *testing.T, uuid string, run execution.Execution) {
	t.Helper()
	data, err := json.Marshal(run)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost,
		env.emulator.Server.URL+rest.PluginPath+"/execution/forInline/"+uuid, strings.NewReader(string(data)))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+env.emulator.Token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
