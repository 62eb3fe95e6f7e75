package server

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"slices"
	"strings"

	"tasktracker/internal/task"
	"tasktracker/pkg/mq"
)

const (
	msgMissingAddFields = "Please enter Task ID and Description."
	msgMissingUpdateID  = "Please enter a valid Task ID."
	msgInvalidDate      = "Invalid date format! Please use YYYY-MM-DD."
	msgInvalidPriority  = "Invalid priority! Choose High, Medium or Low."
	msgInvalidStatus    = "Invalid status! Choose Pending, In Progress or Completed."
	msgTaskNotFound     = "Task ID not found."
	msgNoTasks          = "No tasks available."
	msgNoMatches        = "No matching tasks found."
)

type message struct {
	Kind string // success, warning or error
	Text string
}

type page struct {
	Tab        string
	Messages   []message
	Tasks      []task.View
	Searched   bool
	Keyword    string
	Results    []task.View
	Statuses   []task.Status
	Priorities []task.Priority
	Today      string
	NoTasks    string
	NoMatches  string
}

func (s *Server) newPage(r *http.Request, tab string) *page {
	return &page{
		Tab:        tab,
		Tasks:      slices.Collect(sessionFrom(r).store.List()),
		Statuses:   task.Statuses,
		Priorities: task.Priorities,
		Today:      task.DateOf(s.now()).String(),
		NoTasks:    msgNoTasks,
		NoMatches:  msgNoMatches,
	}
}

func (p *page) add(kind, format string, args ...any) {
	p.Messages = append(p.Messages, message{Kind: kind, Text: fmt.Sprintf(format, args...)})
}

func (s *Server) render(w http.ResponseWriter, p *page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, p); err != nil {
		s.logger.Error("render page", "err", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tab := r.URL.Query().Get("tab")
	if tab == "" {
		tab = "add"
	}
	s.render(w, s.newPage(r, tab))
}

func (s *Server) handleAddForm(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.FormValue("id"))
	desc := r.FormValue("description")
	due := r.FormValue("due_date")
	prio := r.FormValue("priority")

	if id == "" || strings.TrimSpace(desc) == "" {
		p := s.newPage(r, "add")
		p.add("warning", msgMissingAddFields)
		s.render(w, p)
		return
	}

	t, err := sessionFrom(r).store.Add(id, desc, due, prio)
	if err == nil {
		s.publish(r, mq.TopicTaskAdded, t)
	}
	p := s.newPage(r, "add")
	switch {
	case err == nil:
		p.add("success", "Task '%s' added with ID %s, Due Date: %s, Priority: %s.", t.Description, t.ID, t.DueDate, t.Priority)
	case errors.Is(err, task.ErrInvalidDateFormat):
		p.add("error", msgInvalidDate)
	case errors.Is(err, task.ErrInvalidPriority):
		p.add("error", msgInvalidPriority)
	default:
		p.add("error", "%s", err)
	}
	s.render(w, p)
}

func (s *Server) handleUpdateForm(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.FormValue("id"))
	status := r.FormValue("status")
	due := r.FormValue("due_date")

	if id == "" {
		p := s.newPage(r, "update")
		p.add("warning", msgMissingUpdateID)
		s.render(w, p)
		return
	}

	st := sessionFrom(r).store
	before, _ := st.Get(id)
	t, err := st.Update(id, status, due)
	if t.ID != "" && t != before {
		s.publish(r, mq.TopicTaskUpdated, t)
	}

	p := s.newPage(r, "update")
	switch {
	case errors.Is(err, task.ErrTaskNotFound):
		p.add("error", msgTaskNotFound)
	case errors.Is(err, task.ErrInvalidStatus):
		p.add("error", msgInvalidStatus)
	default:
		if strings.TrimSpace(status) != "" {
			p.add("success", "Task ID %s status updated to '%s'.", id, t.Status)
		}
		switch {
		case errors.Is(err, task.ErrInvalidDateFormat):
			p.add("error", msgInvalidDate)
		case err != nil:
			p.add("error", "%s", err)
		case due != "":
			p.add("success", "Task ID %s due date updated to %s.", id, t.DueDate)
		}
	}
	s.render(w, p)
}

func (s *Server) handleSearchForm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	p := s.newPage(r, "search")
	p.Searched = true
	p.Keyword = q
	p.Results = slices.Collect(sessionFrom(r).store.Search(q))
	s.render(w, p)
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Task Manager</title>
<style>
body { background-color: #f0f2f6; font-family: Arial, sans-serif; color: #333; margin: 2em; }
nav a { margin-right: 1em; text-decoration: none; color: #007BFF; }
nav a.active { font-weight: bold; }
input, select { border-radius: 5px; border: 1px solid #007BFF; padding: 4px; margin: 4px 0; }
button { background-color: #007BFF; color: white; border: 0; border-radius: 5px; font-size: 16px; padding: 6px 12px; }
.msg { padding: 8px; border-radius: 5px; margin: 6px 0; }
.success { background: #d4edda; } .warning { background: #fff3cd; } .error { background: #f8d7da; }
.task { border-top: 1px solid #ccc; padding: 6px 0; }
section { display: none; } section.active { display: block; }
</style>
</head>
<body>
<h1>Task Manager</h1>
<nav>
<a href="/?tab=add" {{if eq .Tab "add"}}class="active"{{end}}>Add Task</a>
<a href="/?tab=update" {{if eq .Tab "update"}}class="active"{{end}}>Update Task</a>
<a href="/?tab=view" {{if eq .Tab "view"}}class="active"{{end}}>View Tasks</a>
<a href="/?tab=search" {{if eq .Tab "search"}}class="active"{{end}}>Search Task</a>
</nav>
{{range .Messages}}<div class="msg {{.Kind}}">{{.Text}}</div>
{{end}}
{{define "task"}}<div class="task">
<b>Task ID:</b> <code>{{.ID}}</code><br>
<b>Description:</b> <code>{{.Description}}</code><br>
<b>Status:</b> <code>{{.Status}}</code><br>
<b>Priority:</b> <code>{{.Priority}}</code><br>
<b>Due Date:</b> <code>{{.DueDate}}</code><br>
<b>Days Remaining:</b> <code>{{.DaysRemaining}}</code> days
</div>{{end}}
<section id="add" {{if eq .Tab "add"}}class="active"{{end}}>
<h2>Add a New Task</h2>
<form method="post" action="/tasks/add">
<label>Task ID <input name="id"></label><br>
<label>Description <input name="description"></label><br>
<label>Due Date <input type="date" name="due_date" value="{{.Today}}" min="{{.Today}}"></label><br>
<label>Priority <select name="priority">{{range .Priorities}}<option>{{.}}</option>{{end}}</select></label><br>
<button type="submit">Add Task</button>
</form>
</section>
<section id="update" {{if eq .Tab "update"}}class="active"{{end}}>
<h2>Update Task Status or Due Date</h2>
<form method="post" action="/tasks/update">
<label>Task ID <input name="id"></label><br>
<label>New Status <select name="status"><option value=""></option>{{range .Statuses}}<option>{{.}}</option>{{end}}</select></label><br>
<label>New Due Date <input type="date" name="due_date" min="{{.Today}}"></label><br>
<button type="submit">Update Task</button>
</form>
</section>
<section id="view" {{if eq .Tab "view"}}class="active"{{end}}>
<h2>View All Tasks</h2>
<p><a href="/api/export?format=csv">CSV</a> <a href="/api/export?format=pdf">PDF</a> <a href="/api/export?format=json">JSON</a></p>
{{range .Tasks}}{{template "task" .}}{{else}}<div class="msg warning">{{$.NoTasks}}</div>{{end}}
</section>
<section id="search" {{if eq .Tab "search"}}class="active"{{end}}>
<h2>Search Task by Description or Status</h2>
<form method="get" action="/tasks/search">
<label>Description or Status <input name="q" value="{{.Keyword}}"></label>
<button type="submit">Search</button>
</form>
{{if .Searched}}{{range .Results}}{{template "task" .}}{{else}}<div class="msg warning">{{$.NoMatches}}</div>{{end}}{{end}}
</section>
</body>
</html>
`))
