package server

import (
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"slices"
	"strings"

	"tasktracker/internal/result"
	"tasktracker/internal/session"
	"tasktracker/internal/task"
	"tasktracker/pkg/mq"
)

type addReq struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
}

type updateReq struct {
	Status  string `json:"status"`
	DueDate string `json:"due_date"`
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r).store
	writeJSON(w, http.StatusOK, collect(st.List()))
}

func (s *Server) handleSearchTasks(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r).store
	q := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, collect(st.Search(q)))
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var req addReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.ID) == "" || strings.TrimSpace(req.Description) == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("%w: id and description", errMissingField))
		return
	}
	t, err := sessionFrom(r).store.Add(req.ID, req.Description, req.DueDate, req.Priority)
	if err != nil {
		writeErr(w, statusFor(err), err)
		return
	}
	s.publish(r, mq.TopicTaskAdded, t)
	writeJSON(w, http.StatusCreated, t)
}

// handleUpdateTask answers 400 when the due date is bad even though a
// status in the same request has been applied; the body names the error.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	id := r.PathValue("id")
	st := sessionFrom(r).store
	before, _ := st.Get(id)
	t, err := st.Update(id, req.Status, req.DueDate)
	if t.ID != "" && t != before {
		s.publish(r, mq.TopicTaskUpdated, t)
	}
	if err != nil {
		writeErr(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	st := sessionFrom(r).store
	b, err := s.exporter.Export(collect(st.List()), format)
	if err != nil {
		writeErr(w, statusFor(err), err)
		return
	}
	format = strings.ToLower(format)
	w.Header().Set("Content-Type", result.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="tasks.%s"`, format))
	_, _ = w.Write(b)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.End(sessionFrom(r).id)
	http.SetCookie(w, &http.Cookie{
		Name:   session.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

// collect drains seq into a non-nil slice so empty results encode as [].
func collect(seq iter.Seq[task.View]) []task.View {
	out := slices.Collect(seq)
	if out == nil {
		out = []task.View{}
	}
	return out
}
