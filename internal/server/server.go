package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tasktracker/internal/logging"
	"tasktracker/internal/result"
	"tasktracker/internal/session"
	"tasktracker/internal/task"
	"tasktracker/pkg/mq"
)

type Server struct {
	sessions        *session.Manager
	exporter        *result.Exporter
	pub             mq.Publisher
	logger          logging.Logger
	now             func() time.Time
	shutdownTimeout time.Duration
}

type Option func(*Server)

func WithPublisher(p mq.Publisher) Option {
	return func(s *Server) { s.pub = p }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) { s.shutdownTimeout = d }
}

// WithClock sets the clock used for event timestamps and form defaults.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func New(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		sessions:        sessions,
		exporter:        result.NewExporter(),
		pub:             mq.Noop{},
		logger:          logging.Discard(),
		now:             time.Now,
		shutdownTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the full route table wrapped in session and request
// logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// web form UI
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /tasks/add", s.handleAddForm)
	mux.HandleFunc("POST /tasks/update", s.handleUpdateForm)
	mux.HandleFunc("GET /tasks/search", s.handleSearchForm)

	// JSON API
	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("POST /api/tasks", s.handleAddTask)
	mux.HandleFunc("PATCH /api/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("GET /api/tasks/search", s.handleSearchTasks)
	mux.HandleFunc("GET /api/export", s.handleExport)
	mux.HandleFunc("DELETE /api/session", s.handleEndSession)

	return logging.Middleware(s.logger, s.withSession(mux))
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("shutdown", "err", err)
		}
	}()
	s.logger.Info("listening", "addr", addr)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type sessionKey struct{}

type sessionCtx struct {
	id    string
	store *task.Store
}

func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		var id string
		if c, err := r.Cookie(session.CookieName); err == nil {
			id = c.Value
		}
		id, st, created := s.sessions.Resolve(id)
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     session.CookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, sessionCtx{id: id, store: st})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) sessionCtx {
	sc, _ := r.Context().Value(sessionKey{}).(sessionCtx)
	return sc
}

// publish reports a mutation to the configured sinks. Failures are logged
// only; the user operation has already succeeded.
func (s *Server) publish(r *http.Request, topic string, t task.Task) {
	sc := sessionFrom(r)
	ev, err := mq.NewEvent(sc.id, t.ID, t, s.now())
	if err == nil {
		var payload []byte
		if payload, err = ev.Encode(); err == nil {
			err = s.pub.Publish(topic, payload)
		}
	}
	if err != nil {
		s.logger.Warn("publish event", "topic", topic, "task", t.ID, "err", err)
	}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, task.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, task.ErrInvalidDateFormat),
		errors.Is(err, task.ErrInvalidPriority),
		errors.Is(err, task.ErrInvalidStatus),
		errors.Is(err, result.ErrUnknownFormat),
		errors.Is(err, errMissingField):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

type errStr string

func (e errStr) Error() string { return string(e) }

const errMissingField = errStr("missing required field")
