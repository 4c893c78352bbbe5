package transport

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/scriptdesk/internal/domain/execution"
	"github.com/rpggio/scriptdesk/internal/domain/listener"
	"github.com/rpggio/scriptdesk/internal/domain/registry"
	"github.com/rpggio/scriptdesk/internal/domain/restscript"
	"github.com/rpggio/scriptdesk/internal/domain/scheduled"
	"github.com/rpggio/scriptdesk/internal/domain/watch"
	"github.com/rpggio/scriptdesk/internal/repository"
	"github.com/rpggio/scriptdesk/internal/rest"
)

// Repositories backs the emulated add-on API.
type Repositories struct {
	Listeners   repository.ListenerRepository
	Tasks       repository.TaskRepository
	Registry    repository.RegistryRepository
	RestScripts repository.RestScriptRepository
	Executions  repository.ExecutionRepository
	Watches     repository.WatchRepository
	Reference   repository.ReferenceRepository
}

// Server serves the emulated add-on API.
type Server struct {
	repos  Repositories
	logger *slog.Logger
	now    func() time.Time
}

// NewServer creates the emulator router. authMiddleware must attach a user
// to the request context; see AuthMiddleware and StaticUser.
func NewServer(repos Repositories, authMiddleware func(http.Handler) http.Handler, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{repos: repos, logger: logger, now: time.Now}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}

		r.Get(rest.TrackerPath+"/project", srv.handleProjects)

		r.Route(rest.PluginPath, func(r chi.Router) {
			r.Get("/jira/eventType/all", srv.handleEventTypes)

			r.Get("/listener/all", srv.handleListListeners)
			r.Post("/listener", srv.handleCreateListener)
			r.Put("/listener/{id}", srv.handleUpdateListener)
			r.Delete("/listener/{id}", srv.handleDeleteListener)

			r.Get("/scheduled/all", srv.handleListTasks)
			r.Post("/scheduled", srv.handleCreateTask)
			r.Put("/scheduled/{id}", srv.handleUpdateTask)
			r.Delete("/scheduled/{id}", srv.handleDeleteTask)
			r.Post("/scheduled/{id}/runNow", srv.handleRunTask)
			r.Post("/scheduled/{id}/enabled/{enabled}", srv.handleSetTaskEnabled)

			r.Get("/registry/directory/all", srv.handleRegistryTree)
			r.Post("/registry/directory", srv.handleCreateDirectory)
			r.Put("/registry/directory/{id}", srv.handleUpdateDirectory)
			r.Delete("/registry/directory/{id}", srv.handleDeleteDirectory)
			r.Post("/registry/script", srv.handleCreateScript)
			r.Put("/registry/script/{id}", srv.handleUpdateScript)
			r.Delete("/registry/script/{id}", srv.handleDeleteScript)

			r.Get("/rest/all", srv.handleListRestScripts)
			r.Post("/rest", srv.handleCreateRestScript)
			r.Put("/rest/{id}", srv.handleUpdateRestScript)
			r.Delete("/rest/{id}", srv.handleDeleteRestScript)

			r.Get("/execution/forRegistry/{id}", srv.handleRegistryExecutions)
			r.Get("/execution/forInline/{uuid}", srv.handleInlineExecutions)
			// Emulator only: the real add-on records runs itself.
			r.Post("/execution/forRegistry/{id}", srv.handleTrackRegistry)
			r.Post("/execution/forInline/{uuid}", srv.handleTrackInline)

			r.Get("/watch/{type}/all", srv.handleListWatches)
			r.Post("/watch/{type}/{id}", srv.handleWatch)
			r.Delete("/watch/{type}/{id}", srv.handleUnwatch)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) user(r *http.Request) string {
	user, _ := UserFromContext(r.Context())
	return user
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// validator is implemented by every form type.
type validator interface {
	Validate() error
}

func decodeForm(w http.ResponseWriter, r *http.Request, form validator) bool {
	if err := DecodeJSON(r.Body, form); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return false
	}
	if err := form.Validate(); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.repos.Reference.Projects(r.Context())
	if err != nil {
		writeRepoError(w, err, "")
		return
	}
	WriteJSON(w, http.StatusOK, projects)
}

func (s *Server) handleEventTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.repos.Reference.EventTypes(r.Context())
	if err != nil {
		writeRepoError(w, err, "")
		return
	}
	WriteJSON(w, http.StatusOK, types)
}

func (s *Server) handleListListeners(w http.ResponseWriter, r *http.Request) {
	list, err := s.repos.Listeners.List(r.Context())
	if err != nil {
		writeRepoError(w, err, "")
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateListener(w http.ResponseWriter, r *http.Request) {
	var form listener.Form
	if !decodeForm(w, r, &form) {
		return
	}
	created, err := s.repos.Listeners.Create(r.Context(), s.user(r), form)
	if err != nil {
		writeRepoError(w, err, "")
		return
	}
	s.logger.Info("listener created", "id", created.ID, "user", s.user(r))
	WriteJSON(w, http.StatusOK, created)
}

func (s *Server) handleUpdateListener(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var form listener.Form
	if !decodeForm(w, r, &form) {
		return
	}
	updated, err := s.repos.Listeners.Update(r.Context(), s.user(r), id, form)
	if err != nil {
		writeRepoError(w, err, "Event listener is deleted")
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteListener(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := s.repos.Listeners.Delete(r.Context(), s.user(r), id); err != nil {
		writeRepoError(w, err, "Event listener is deleted")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.repos.Tasks.List(r.Context())
	if err != nil {
		writeRepoError(w, err, "")
		return
	}
	WriteJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var form scheduled.Form
	if !decodeForm(w, r, &form) {
		return
	}
	created, err := s.repos.Tasks.Create(r.Context(), s.user(r), form)
	if err != nil {
		writeRepoError(w, err, "")
		return
	}
	s.logger.Info("scheduled task created", "id", created.ID, "user", s.user(r))
	WriteJSON(w, http.StatusOK, created)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var form scheduled.Form
	if !decodeForm(w, r, &form) {
		return
	}
	updated, err := s.repos.Tasks.Update(r.Context(), s.user(r), id, form)
	if err != nil {
		writeRepoError(w, err, "Scheduled task is deleted")
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := s.repos.Tasks.Delete(r.Context(), s.user(r), id); err != nil {
		writeRepoError(w, err, "Scheduled task is deleted")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRunTask does not execute anything; it records a successful run.
func (s *Server) handleRunTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	start := s.now()
	task, err := s.repos.Tasks.Get(r.Context(), id)
	if err != nil {
		writeRepoError(w, err, "Scheduled task is deleted")
		return
	}
	run := scheduled.RunInfo{
		StartDate: start.UTC(),
		Duration:  s.now().Sub(start).Milliseconds(),
		Outcome:   scheduled.OutcomeSuccess,
		Message:   "started manually by " + s.user(r),
	}
	if err := s.repos.Tasks.RecordRun(r.Context(), id, run); err != nil {
		writeRepoError(w, err, "Scheduled task is deleted")
		return
	}
	if s.repos.Executions != nil && task.UUID != "" {
		_, err := s.repos.Executions.TrackInline(r.Context(), task.UUID, execution.Execution{
			Time:        run.Duration,
			Success:     true,
			Date:        run.StartDate,
			ExtraParams: map[string]string{"trigger": "manual", "user": s.user(r)},
		})
		if err != nil {
			s.logger.Warn("failed to track task run", "id", id, "error", err)
		}
	}
	s.logger.Info("scheduled task run", "id", id, "user", s.user(r))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetTaskEnabled(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	enabled, err := strconv.ParseBool(chi.URLParam(r, "enabled"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid enabled flag")
		return
	}
	if err := s.repos.Tasks.SetEnabled(r.Context(), id, enabled); err != nil {
		writeRepoError(w, err, "Scheduled task is deleted")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRegistryTree(w http.ResponseWriter, r *http.Request) {
	tree, err := s.repos.Registry.Tree(r.Context())
	if err != nil {
		writeRepoError(w, err, "")
		return
	}
	WriteJSON(w, http.StatusOK, tree)
}

func (s *Server) handleCreateDirectory(w http.ResponseWriter, r *http.Request) {
	var form registry.DirectoryForm
	if !decodeForm(w, r, &form) {
		return
	}
	dir, err := s.repos.Registry.CreateDirectory(r.Context(), form)
	if err != nil {
		writeRepoError(w, err, "")
		return
	}
	WriteJSON(w, http.StatusOK, dir)
}

func (s *Server) handleUpdateDirectory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var form registry.DirectoryForm
	if !decodeForm(w, r, &form) {
		return
	}
	dir, err := s.repos.Registry.UpdateDirectory(r.Context(), id, form)
	if err != nil {
		writeRepoError(w, err, "Directory is deleted")
		return
	}
	WriteJSON(w, http.StatusOK, dir)
}

func (s *Server) handleDeleteDirectory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := s.repos.Registry.DeleteDirectory(r.Context(), id); err != nil {
		writeRepoError(w, err, "Directory is deleted")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateScript(w http.ResponseWriter, r *http.Request) {
	var form registry.ScriptForm
	if !decodeForm(w, r, &form) {
		return
	}
	script, err := s.repos.Registry.CreateScript(r.Context(), s.user(r), form)
	if err != nil {
		writeRepoError(w, err, "")
		return
	}
	WriteJSON(w, http.StatusOK, script)
}

func (s *Server) handleUpdateScript(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var form registry.ScriptForm
	if !decodeForm(w, r, &form) {
		return
	}
	script, err := s.repos.Registry.UpdateScript(r.Context(), s.user(r), id, form)
	if err != nil {
		writeRepoError(w, err, "Script is deleted")
		return
	}
	WriteJSON(w, http.StatusOK, script)
}

func (s *Server) handleDeleteScript(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := s.repos.Registry.DeleteScript(r.Context(), s.user(r), id); err != nil {
		writeRepoError(w, err, "Script is deleted")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListRestScripts(w http.ResponseWriter, r *http.Request) {
	scripts, err := s.repos.RestScripts.List(r.Context())
	if err != nil {
		writeRepoError(w, err, "")
		return
	}
	WriteJSON(w, http.StatusOK, scripts)
}

func (s *Server) handleCreateRestScript(w http.ResponseWriter, r *http.Request) {
	var form restscript.Form
	if !decodeForm(w, r, &form) {
		return
	}
	created, err := s.repos.RestScripts.Create(r.Context(), s.user(r), form)
	if err != nil {
		writeRepoError(w, err, "")
		return
	}
	s.logger.Info("rest script created", "id", created.ID, "user", s.user(r))
	WriteJSON(w, http.StatusOK, created)
}

func (s *Server) handleUpdateRestScript(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var form restscript.Form
	if !decodeForm(w, r, &form) {
		return
	}
	updated, err := s.repos.RestScripts.Update(r.Context(), s.user(r), id, form)
	if err != nil {
		writeRepoError(w, err, "REST script is deleted")
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteRestScript(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := s.repos.RestScripts.Delete(r.Context(), s.user(r), id); err != nil {
		writeRepoError(w, err, "REST script is deleted")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRegistryExecutions(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	runs, err := s.repos.Executions.ForRegistry(r.Context(), id)
	if err != nil {
		writeRepoError(w, err, "")
		return
	}
	WriteJSON(w, http.StatusOK, runs)
}

func (s *Server) handleInlineExecutions(w http.ResponseWriter, r *http.Request) {
	runs, err := s.repos.Executions.ForInline(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		writeRepoError(w, err, "")
		return
	}
	WriteJSON(w, http.StatusOK, runs)
}

func decodeRun(w http.ResponseWriter, r *http.Request) (execution.Execution, bool) {
	var run execution.Execution
	if err := DecodeJSON(r.Body, &run); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return run, false
	}
	if run.Time < 0 {
		WriteError(w, http.StatusBadRequest, "time must not be negative")
		return run, false
	}
	return run, true
}

func (s *Server) handleTrackRegistry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	run, ok := decodeRun(w, r)
	if !ok {
		return
	}
	tracked, err := s.repos.Executions.TrackRegistry(r.Context(), id, run)
	if err != nil {
		writeRepoError(w, err, "")
		return
	}
	WriteJSON(w, http.StatusOK, tracked)
}

func (s *Server) handleTrackInline(w http.ResponseWriter, r *http.Request) {
	run, ok := decodeRun(w, r)
	if !ok {
		return
	}
	tracked, err := s.repos.Executions.TrackInline(r.Context(), chi.URLParam(r, "uuid"), run)
	if err != nil {
		writeRepoError(w, err, "")
		return
	}
	WriteJSON(w, http.StatusOK, tracked)
}

func entityTypeParam(w http.ResponseWriter, r *http.Request) (watch.EntityType, bool) {
	t := watch.EntityType(chi.URLParam(r, "type"))
	if !t.Valid() {
		WriteError(w, http.StatusBadRequest, "unknown entity type")
		return "", false
	}
	return t, true
}

func (s *Server) handleListWatches(w http.ResponseWriter, r *http.Request) {
	entityType, ok := entityTypeParam(w, r)
	if !ok {
		return
	}
	ids, err := s.repos.Watches.List(r.Context(), s.user(r), entityType)
	if err != nil {
		writeRepoError(w, err, "")
		return
	}
	WriteJSON(w, http.StatusOK, ids)
}

func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	entityType, ok := entityTypeParam(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := s.repos.Watches.Watch(r.Context(), s.user(r), entityType, id); err != nil {
		writeRepoError(w, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnwatch(w http.ResponseWriter, r *http.Request) {
	entityType, ok := entityTypeParam(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := s.repos.Watches.Unwatch(r.Context(), s.user(r), entityType, id); err != nil {
		writeRepoError(w, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
