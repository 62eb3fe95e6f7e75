// Package mq carries task events from the stores to whatever sinks are
// configured.
package mq

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	TopicTaskAdded   = "task.added"
	TopicTaskUpdated = "task.updated"
)

type Publisher interface {
	Publish(topic string, payload []byte) error
}

type Noop struct{}

func (Noop) Publish(topic string, payload []byte) error { return nil }

// Multi fans every message out to all publishers. Each publisher is tried
// even when an earlier one fails; the failures are joined.
type Multi []Publisher

func (m Multi) Publish(topic string, payload []byte) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(topic, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Event is the payload published on the task topics.
type Event struct {
	ID      string          `json:"id"`
	Session string          `json:"session"`
	TaskID  string          `json:"task_id"`
	Task    json.RawMessage `json:"task"`
	At      time.Time       `json:"at"`
}

// NewEvent snapshots task as JSON under a fresh event id.
func NewEvent(session, taskID string, task any, at time.Time) (Event, error) {
	b, err := json.Marshal(task)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:      uuid.NewString(),
		Session: session,
		TaskID:  taskID,
		Task:    b,
		At:      at.UTC(),
	}, nil
}

func (e Event) Encode() ([]byte, error) { return json.Marshal(e) }

func Decode(payload []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(payload, &e)
	return e, err
}
