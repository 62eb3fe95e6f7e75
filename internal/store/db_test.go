package store

import (
	"errors"
	"testing"
	"time"

	"tasktracker/pkg/mq"
)

func TestToRow(t *testing.T) {
	at := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	ev, err := mq.NewEvent("sess-1", "7", map[string]string{"status": "Pending"}, at)
	if err != nil {
		t.Fatal(err)
	}
	payload, err := ev.Encode()
	if err != nil {
		t.Fatal(err)
	}

	row, err := toRow(mq.TopicTaskAdded, payload)
	if err != nil {
		t.Fatalf("toRow: %v", err)
	}
	if row.Kind != "added" {
		t.Errorf("expected kind added, got %q", row.Kind)
	}
	if row.EventID != ev.ID || row.SessionID != "sess-1" || row.TaskID != "7" {
		t.Errorf("unexpected row %+v", row)
	}
	if !row.CreatedAt.Equal(at) {
		t.Errorf("expected created_at %s, got %s", at, row.CreatedAt)
	}
	if row.Payload != string(payload) {
		t.Errorf("payload not stored verbatim")
	}
}

func TestToRowRejects(t *testing.T) {
	ev, _ := mq.NewEvent("s", "1", nil, time.Now())
	good, _ := ev.Encode()

	tests := []struct {
		name    string
		topic   string
		payload []byte
	}{
		{"not json", mq.TopicTaskAdded, []byte("nope")},
		{"missing task id", mq.TopicTaskAdded, []byte(`{"id":"x"}`)},
		{"foreign topic", "user.created", good},
		{"bare prefix", "task.", good},
	}
	for _, tt := range tests {
		if _, err := toRow(tt.topic, tt.payload); !errors.Is(err, ErrBadEvent) {
			t.Errorf("%s: expected ErrBadEvent, got %v", tt.name, err)
		}
	}
}
