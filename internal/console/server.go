package console

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/scriptdesk/internal/adapter"
	"github.com/rpggio/scriptdesk/internal/collection"
	"github.com/rpggio/scriptdesk/internal/desk"
	"github.com/rpggio/scriptdesk/internal/domain/execution"
	"github.com/rpggio/scriptdesk/internal/domain/listener"
	"github.com/rpggio/scriptdesk/internal/domain/registry"
	"github.com/rpggio/scriptdesk/internal/domain/restscript"
	"github.com/rpggio/scriptdesk/internal/domain/scheduled"
	"github.com/rpggio/scriptdesk/internal/transport"
)

// Options configures the console router.
type Options struct {
	// Metrics is served at /metrics when set.
	Metrics http.Handler
	// Auth guards every route except /health and /metrics when set.
	Auth   func(http.Handler) http.Handler
	Logger *slog.Logger
}

// Server renders desk sections as pages.
type Server struct {
	desk   *desk.Desk
	logger *slog.Logger
}

// NewRouter creates the console router. The desk is expected to be built
// with adapter.ContextConfirmer so that ?confirm=true answers prompts.
func NewRouter(d *desk.Desk, opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{desk: d, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(confirmation)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}
	r.Group(func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth)
		}
		r.Get("/sections", srv.handleSections)
		r.Post("/sections/reload", srv.handleReloadAll)

		r.Route("/"+desk.SectionListeners, func(r chi.Router) {
			mountSection(r, srv, section[listener.Listener, listener.Form]{
				name:    desk.SectionListeners,
				session: d.Listeners,
				formOf:  listener.FormOf,
				blank: func() listener.Form {
					return listener.Form{Condition: listener.Condition{Type: listener.ConditionIssue}}
				},
			})
		})

		r.Route("/"+desk.SectionScheduled, func(r chi.Router) {
			r.Post("/{id}/run", srv.handleRunTask)
			r.Post("/{id}/enable", srv.handleSetTaskEnabled(true))
			r.Post("/{id}/disable", srv.handleSetTaskEnabled(false))
			mountSection(r, srv, section[scheduled.Task, scheduled.Form]{
				name:    desk.SectionScheduled,
				session: d.Scheduled,
				formOf:  scheduled.FormOf,
				blank: func() scheduled.Form {
					return scheduled.Form{Type: scheduled.TypeBasicScript, Enabled: true}
				},
			})
		})

		r.Route("/"+desk.SectionRegistry, func(r chi.Router) {
			r.Post("/directories", srv.handleCreateDirectory)
			r.Put("/directories/{id}", srv.handleUpdateDirectory)
			r.Delete("/directories/{id}", srv.handleDeleteDirectory)
			mountSection(r, srv, section[registry.Script, registry.ScriptForm]{
				name:    desk.SectionRegistry,
				session: d.Registry,
				formOf:  registry.ScriptFormOf,
				blank: func() registry.ScriptForm {
					return registry.ScriptForm{Types: []registry.ScriptType{registry.TypeCondition}}
				},
			})
		})

		r.Route("/"+desk.SectionRest, func(r chi.Router) {
			mountSection(r, srv, section[restscript.Script, restscript.Form]{
				name:    desk.SectionRest,
				session: d.Rest,
				formOf:  restscript.FormOf,
				blank: func() restscript.Form {
					return restscript.Form{Methods: []restscript.Method{restscript.MethodGet}}
				},
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render(w, http.StatusNotFound, NotFoundPage{Path: r.URL.Path})
	})
	return r
}

// form is a draft that can check itself.
type form interface {
	Validate() error
}

// section binds one desk session to its routes.
type section[T collection.Entity, F form] struct {
	name    string
	session *adapter.Session[T, F]
	formOf  func(T) F
	blank   func() F
}

func mountSection[T collection.Entity, F form](r chi.Router, srv *Server, sec section[T, F]) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		if !sec.ready(w) {
			return
		}
		store := sec.session.Store()
		snap := store.SnapshotFor(r.URL.Query().Get("q"))
		render(w, http.StatusOK, ListPage[T]{
			Section:   sec.name,
			Filter:    snap.Filter,
			Items:     snap.Visible,
			Total:     len(snap.Items),
			Watches:   snap.Watches,
			Reference: store.Reference().Snapshot(),
		})
	})

	r.Get("/create", func(w http.ResponseWriter, r *http.Request) {
		if !sec.ready(w) {
			return
		}
		render(w, http.StatusOK, FormPage[F]{
			Section:   sec.name,
			Mode:      ModeCreate,
			Form:      sec.blank(),
			Reference: sec.session.Store().Reference().Snapshot(),
		})
	})

	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
		item, ok := sec.lookup(w, r)
		if !ok {
			return
		}
		page := sec.view(item)
		runs, err := srv.desk.History(r.Context(), sec.name, item.EntityID())
		if err != nil {
			srv.logger.Warn("history unavailable", "section", sec.name, "id", item.EntityID(), "error", err)
			page.HistoryError = messageOf(err)
		} else {
			summary := execution.Summarize(runs)
			page.Executions = runs
			page.Runs = &summary
		}
		render(w, http.StatusOK, page)
	})

	r.Get("/{id}/edit", func(w http.ResponseWriter, r *http.Request) {
		item, ok := sec.lookup(w, r)
		if !ok {
			return
		}
		render(w, http.StatusOK, FormPage[F]{
			Section:   sec.name,
			Mode:      ModeEdit,
			ID:        item.EntityID(),
			Form:      sec.formOf(item),
			Reference: sec.session.Store().Reference().Snapshot(),
		})
	})

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		draft, ok := decodeForm[F](w, r)
		if !ok {
			return
		}
		created, err := sec.session.Create(r.Context(), draft)
		if err != nil {
			srv.fail(w, r, err)
			return
		}
		sec.renderView(w, http.StatusCreated, created)
	})

	r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		draft, ok := decodeForm[F](w, r)
		if !ok {
			return
		}
		updated, err := sec.session.Update(r.Context(), id, draft)
		if err != nil {
			srv.fail(w, r, err)
			return
		}
		sec.renderView(w, http.StatusOK, updated)
	})

	r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		if err := sec.session.Delete(r.Context(), id); err != nil {
			srv.fail(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	watch := func(watching bool) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			id, ok := idParam(w, r)
			if !ok {
				return
			}
			if err := sec.session.Watch(r.Context(), id, watching); err != nil {
				srv.fail(w, r, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		}
	}
	r.Put("/{id}/watch", watch(true))
	r.Delete("/{id}/watch", watch(false))

	r.Post("/reload", func(w http.ResponseWriter, r *http.Request) {
		if err := sec.session.Load(r.Context()); err != nil {
			srv.fail(w, r, err)
			return
		}
		store := sec.session.Store()
		snap := store.SnapshotFor("")
		render(w, http.StatusOK, ListPage[T]{
			Section:   sec.name,
			Items:     snap.Visible,
			Total:     len(snap.Items),
			Watches:   snap.Watches,
			Reference: store.Reference().Snapshot(),
		})
	})
}

// ready renders the loading page unless the session is ready.
func (sec section[T, F]) ready(w http.ResponseWriter) bool {
	phase := sec.session.Phase()
	if phase == adapter.PhaseReady {
		return true
	}
	page := LoadingPage{Section: sec.name, Phase: phase.String(), Reload: "/" + sec.name + "/reload"}
	if err := sec.session.LoadError(); err != nil {
		page.Error = messageOf(err)
	}
	render(w, http.StatusServiceUnavailable, page)
	return false
}

func (sec section[T, F]) lookup(w http.ResponseWriter, r *http.Request) (T, bool) {
	var zero T
	if !sec.ready(w) {
		return zero, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		render(w, http.StatusNotFound, NotFoundPage{Section: sec.name, Path: r.URL.Path})
		return zero, false
	}
	item, ok := sec.session.Store().Get(id)
	if !ok {
		render(w, http.StatusNotFound, NotFoundPage{Section: sec.name, ID: id, Path: r.URL.Path})
		return zero, false
	}
	return item, true
}

func (sec section[T, F]) view(item T) ViewPage[T] {
	store := sec.session.Store()
	return ViewPage[T]{
		Section:   sec.name,
		Item:      item,
		Watching:  store.Watching(item.EntityID()),
		Reference: store.Reference().Snapshot(),
	}
}

func (sec section[T, F]) renderView(w http.ResponseWriter, status int, item T) {
	render(w, status, sec.view(item))
}

type sectionStatus struct {
	Name  string `json:"name"`
	Phase string `json:"phase"`
	Items int    `json:"items"`
	Error string `json:"error,omitempty"`
}

func (s *Server) handleSections(w http.ResponseWriter, _ *http.Request) {
	transport.WriteJSON(w, http.StatusOK, s.statuses())
}

// handleReloadAll reloads every section and reports each one's outcome.
func (s *Server) handleReloadAll(w http.ResponseWriter, r *http.Request) {
	if err := s.desk.Load(r.Context()); err != nil {
		s.logger.Warn("reload incomplete", "error", err)
	}
	transport.WriteJSON(w, http.StatusOK, s.statuses())
}

func (s *Server) statuses() []sectionStatus {
	out := make([]sectionStatus, 0, len(desk.Sections))
	for _, name := range desk.Sections {
		st, _ := s.desk.Status(name)
		status := sectionStatus{Name: name, Phase: st.Phase.String(), Items: st.Items}
		if st.Err != nil {
			status.Error = messageOf(st.Err)
		}
		out = append(out, status)
	}
	return out
}

func (s *Server) handleRunTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := s.desk.Runner.RunNow(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleSetTaskEnabled(enabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		if err := s.desk.Runner.SetEnabled(r.Context(), id, enabled); err != nil {
			s.fail(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleCreateDirectory(w http.ResponseWriter, r *http.Request) {
	draft, ok := decodeForm[registry.DirectoryForm](w, r)
	if !ok {
		return
	}
	dir, err := s.desk.Directories().CreateDirectory(r.Context(), draft)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.reloadRegistry(r)
	transport.WriteJSON(w, http.StatusCreated, dir)
}

func (s *Server) handleUpdateDirectory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	draft, ok := decodeForm[registry.DirectoryForm](w, r)
	if !ok {
		return
	}
	dir, err := s.desk.Directories().UpdateDirectory(r.Context(), id, draft)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.reloadRegistry(r)
	transport.WriteJSON(w, http.StatusOK, dir)
}

func (s *Server) handleDeleteDirectory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm")); !confirmed {
		s.fail(w, r, errConfirmationRequired)
		return
	}
	if err := s.desk.Directories().DeleteDirectory(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.reloadRegistry(r)
	w.WriteHeader(http.StatusNoContent)
}

// reloadRegistry refreshes script paths and directory labels after a
// directory change. A failed reload leaves the previous state in place.
func (s *Server) reloadRegistry(r *http.Request) {
	if err := s.desk.LoadSection(r.Context(), desk.SectionRegistry); err != nil {
		s.logger.Warn("registry reload failed", "error", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("console action failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		s.logger.Debug("console action rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	writeError(w, err)
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func decodeForm[F form](w http.ResponseWriter, r *http.Request) (F, bool) {
	var draft F
	if err := transport.DecodeJSON(r.Body, &draft); err != nil {
		transport.WriteError(w, http.StatusBadRequest, err.Error())
		return draft, false
	}
	if err := draft.Validate(); err != nil {
		writeError(w, err)
		return draft, false
	}
	return draft, true
}

// confirmation turns ?confirm=true into a pre-answered prompt.
func confirmation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
		next.ServeHTTP(w, r.WithContext(adapter.WithConfirmation(r.Context(), confirmed)))
	})
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("console request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}
