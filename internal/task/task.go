// Package task holds the in-memory task store of one user session.
package task

import (
	"fmt"
	"iter"
	"strings"
	"sync"
	"time"
)

// Store maps task ids to tasks. Ids keep the position of their first insert,
// so listing order is stable across overwrites.
type Store struct {
	mu    sync.RWMutex
	tasks map[string]Task
	order []string
	now   func() time.Time
}

type Option func(*Store)

// WithClock overrides the clock used to compute days remaining.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		tasks: make(map[string]Task),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add inserts a Pending task, silently replacing any task with the same id.
// Nothing is stored when the date or priority is invalid.
func (s *Store) Add(id, description, dueDate, priority string) (Task, error) {
	due, err := ParseDate(dueDate)
	if err != nil {
		return Task{}, fmt.Errorf("add %s: %w", id, err)
	}
	prio, err := ParsePriority(priority)
	if err != nil {
		return Task{}, fmt.Errorf("add %s: %w", id, err)
	}

	t := Task{
		ID:          id,
		Description: description,
		Status:      StatusPending,
		Priority:    prio,
		DueDate:     due,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tasks[id]; !exists {
		s.order = append(s.order, id)
	}
	s.tasks[id] = t
	return t, nil
}

// Update changes the status and/or due date of an existing task. Empty
// arguments, and a blank status, are left alone. The status is written before the date is parsed,
// so a bad date still leaves the new status in place.
func (s *Store) Update(id, status, dueDate string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, fmt.Errorf("update %s: %w", id, ErrTaskNotFound)
	}

	if strings.TrimSpace(status) != "" {
		st, err := ParseStatus(status)
		if err != nil {
			return t, fmt.Errorf("update %s: %w", id, err)
		}
		t.Status = st
		s.tasks[id] = t
	}

	if dueDate != "" {
		due, err := ParseDate(dueDate)
		if err != nil {
			return t, fmt.Errorf("update %s: %w", id, err)
		}
		t.DueDate = due
		s.tasks[id] = t
	}

	return t, nil
}

// Get returns the task stored under id.
func (s *Store) Get(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	return t, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// List yields every task in store order. Each iteration reads the store
// afresh.
func (s *Store) List() iter.Seq[View] {
	return s.views(func(Task) bool { return true })
}

// Search yields the tasks whose description contains keyword or whose status
// equals keyword, both compared case-insensitively.
func (s *Store) Search(keyword string) iter.Seq[View] {
	kw := strings.ToLower(keyword)
	return s.views(func(t Task) bool {
		return strings.Contains(strings.ToLower(t.Description), kw) ||
			kw == strings.ToLower(string(t.Status))
	})
}

func (s *Store) views(match func(Task) bool) iter.Seq[View] {
	return func(yield func(View) bool) {
		tasks := s.snapshot()
		today := DateOf(s.now())
		for _, t := range tasks {
			if !match(t) {
				continue
			}
			if !yield(View{Task: t, DaysRemaining: t.DueDate.DaysFrom(today)}) {
				return
			}
		}
	}
}

func (s *Store) snapshot() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tasks[id])
	}
	return out
}
