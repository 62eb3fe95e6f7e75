package session

import (
	"context"
	"testing"
	"time"
)

func TestResolveNewSession(t *testing.T) {
	m := NewManager(time.Minute)
	id, st, created := m.Resolve("")
	if !created || id == "" || st == nil {
		t.Fatalf("expected new session, got id=%q created=%v", id, created)
	}

	id2, st2, created := m.Resolve(id)
	if created || id2 != id || st2 != st {
		t.Fatal("expected existing session to be returned")
	}
}

func TestResolveUnknownIDStartsFresh(t *testing.T) {
	m := NewManager(time.Minute)
	id, _, created := m.Resolve("forged")
	if !created || id == "forged" {
		t.Fatalf("unknown id must not be adopted, got %q", id)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	m := NewManager(time.Minute)
	_, a, _ := m.Resolve("")
	_, b, _ := m.Resolve("")
	if _, err := a.Add("1", "only in a", "2024-06-20", "High"); err != nil {
		t.Fatal(err)
	}
	if b.Len() != 0 {
		t.Fatalf("session b sees %d tasks from session a", b.Len())
	}
}

func TestEnd(t *testing.T) {
	m := NewManager(time.Minute)
	id, st, _ := m.Resolve("")
	if _, err := st.Add("1", "x", "2024-06-20", "Low"); err != nil {
		t.Fatal(err)
	}
	m.End(id)
	_, fresh, created := m.Resolve(id)
	if !created || fresh.Len() != 0 {
		t.Fatal("ended session should start over empty")
	}
}

func TestSweep(t *testing.T) {
	m := NewManager(time.Minute)
	m.Resolve("")
	m.Resolve("")
	if n := m.Sweep(time.Now()); n != 0 {
		t.Fatalf("nothing should expire yet, swept %d", n)
	}
	if n := m.Sweep(time.Now().Add(2 * time.Minute)); n != 2 {
		t.Fatalf("expected 2 swept, got %d", n)
	}
	if m.Len() != 0 {
		t.Fatalf("expected no sessions left, got %d", m.Len())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	m := NewManager(time.Millisecond)
	m.Resolve("")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for m.Len() != 0 {
		select {
		case <-deadline:
			t.Fatal("janitor never swept the expired session")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
