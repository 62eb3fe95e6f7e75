package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"tasktracker/pkg/mq"
)

var ErrBadEvent = errors.New("bad event payload")

// Archive appends task events to MySQL. Rows are never read back by
// tasktracker.
type Archive struct {
	db      *sql.DB
	timeout time.Duration
}

func New(dsn string) (*Archive, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	a := &Archive{db: db, timeout: 5 * time.Second}
	if err := a.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

func (a *Archive) Close() error { return a.db.Close() }

func (a *Archive) migrate(ctx context.Context) error {
	createEvents := `CREATE TABLE IF NOT EXISTS task_events (
    id BIGINT PRIMARY KEY AUTO_INCREMENT,
    event_id CHAR(36) NOT NULL,
    session_id VARCHAR(64) NOT NULL,
    kind VARCHAR(32) NOT NULL,
    task_id VARCHAR(200) NOT NULL,
    payload JSON NOT NULL,
    created_at TIMESTAMP(3) NOT NULL,
    UNIQUE KEY uniq_event (event_id)
)`
	if _, err := a.db.ExecContext(ctx, createEvents); err != nil {
		return err
	}
	// MySQL lacks IF NOT EXISTS for CREATE INDEX in some versions
	return a.execIgnoreDupIndex(ctx, `CREATE INDEX idx_session_task ON task_events(session_id, task_id)`)
}

func (a *Archive) execIgnoreDupIndex(ctx context.Context, ddl string) error {
	_, err := a.db.ExecContext(ctx, ddl)
	if err != nil {
		e := err.Error()
		if strings.Contains(e, "Duplicate key name") || strings.Contains(e, "1061") {
			return nil
		}
	}
	return err
}

type eventRow struct {
	EventID   string
	SessionID string
	Kind      string
	TaskID    string
	Payload   string
	CreatedAt time.Time
}

func toRow(topic string, payload []byte) (eventRow, error) {
	ev, err := mq.Decode(payload)
	if err != nil {
		return eventRow{}, fmt.Errorf("%w: %v", ErrBadEvent, err)
	}
	if ev.ID == "" || ev.TaskID == "" {
		return eventRow{}, fmt.Errorf("%w: missing id or task_id", ErrBadEvent)
	}
	kind, ok := strings.CutPrefix(topic, "task.")
	if !ok || kind == "" {
		return eventRow{}, fmt.Errorf("%w: unexpected topic %q", ErrBadEvent, topic)
	}
	return eventRow{
		EventID:   ev.ID,
		SessionID: ev.Session,
		Kind:      kind,
		TaskID:    ev.TaskID,
		Payload:   string(payload),
		CreatedAt: ev.At,
	}, nil
}

// Publish implements mq.Publisher. Replayed events are ignored.
func (a *Archive) Publish(topic string, payload []byte) error {
	row, err := toRow(topic, payload)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	_, err = a.db.ExecContext(ctx, `INSERT IGNORE INTO task_events
    (event_id, session_id, kind, task_id, payload, created_at)
    VALUES(?,?,?,?,?,?)`,
		row.EventID, row.SessionID, row.Kind, row.TaskID, row.Payload, row.CreatedAt)
	if err != nil {
		return fmt.Errorf("archive %s %s: %w", row.Kind, row.TaskID, err)
	}
	return nil
}
