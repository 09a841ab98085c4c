package auditlog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/patentvault/patentvault/models"
)

type memorySink struct {
	mu      sync.Mutex
	entries []models.ActionLogEntry
	err     error
}

func (m *memorySink) Append(_ context.Context, entry models.ActionLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memorySink) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *memorySink) last() models.ActionLogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[len(m.entries)-1]
}

func newTestLogger(t *testing.T, sink Sink, window time.Duration) *Logger {
	t.Helper()
	l, err := NewLogger(sink, nil, window)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	return l
}

func TestLog_ThrottleSuppressesBurst(t *testing.T) {
	sink := &memorySink{}
	l := newTestLogger(t, sink, 500*time.Millisecond)

	l.Log(context.Background(), Meta{}, "alice@co.com", "LOGIN", "", nil)
	l.Log(context.Background(), Meta{}, "alice@co.com", "LOGIN", "", nil)
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	if sink.count() != 1 {
		t.Fatalf("expected 1 entry for burst, got %d", sink.count())
	}
}

func TestLog_AdmitsAfterWindowElapsed(t *testing.T) {
	sink := &memorySink{}
	l := newTestLogger(t, sink, 50*time.Millisecond)

	l.Log(context.Background(), Meta{}, "alice@co.com", "LOGIN", "", nil)
	time.Sleep(80 * time.Millisecond)
	l.Log(context.Background(), Meta{}, "alice@co.com", "LOGIN", "", nil)
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	if sink.count() != 2 {
		t.Fatalf("expected 2 entries across windows, got %d", sink.count())
	}
}

func TestLog_DistinctPairsNotThrottled(t *testing.T) {
	sink := &memorySink{}
	l := newTestLogger(t, sink, time.Second)

	l.Log(context.Background(), Meta{}, "alice@co.com", "LOGIN", "", nil)
	l.Log(context.Background(), Meta{}, "bob@co.com", "LOGIN", "", nil)
	l.Log(context.Background(), Meta{}, "alice@co.com", "LOGOUT", "", nil)
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	if sink.count() != 3 {
		t.Fatalf("expected 3 entries, got %d", sink.count())
	}
}

func TestLog_CarriesMetaAndDetails(t *testing.T) {
	sink := &memorySink{}
	l := newTestLogger(t, sink, time.Second)

	meta := Meta{
		ClientIP:  "203.0.113.7",
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
	}
	l.Log(context.Background(), meta, "alice@co.com", "DELETE_PATENT", "patent-9", map[string]any{"name": "Widget"})
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	if sink.count() != 1 {
		t.Fatalf("expected 1 entry, got %d", sink.count())
	}
	e := sink.last()
	if e.IP != "203.0.113.7" {
		t.Fatalf("expected client IP carried through, got %s", e.IP)
	}
	if e.Browser != "Chrome" || e.OS != "Windows" {
		t.Fatalf("unexpected fingerprint: %s/%s", e.Browser, e.OS)
	}
	if e.Target != "patent-9" {
		t.Fatalf("expected target patent-9, got %s", e.Target)
	}
	if len(e.Details) == 0 {
		t.Fatal("expected details payload")
	}
}

func TestLog_UnknownIPWhenNothingResolvable(t *testing.T) {
	sink := &memorySink{}
	l := newTestLogger(t, sink, time.Second)

	l.Log(context.Background(), Meta{}, "alice@co.com", "LOGIN", "", nil)
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	if e := sink.last(); e.IP != "Unknown" {
		t.Fatalf("expected Unknown IP, got %s", e.IP)
	}
}

func TestLog_SinkFailureDoesNotPropagate(t *testing.T) {
	sink := &memorySink{err: context.DeadlineExceeded}
	l := newTestLogger(t, sink, time.Second)

	// Must not panic or block; failure is console-only.
	l.Log(context.Background(), Meta{}, "alice@co.com", "LOGIN", "", nil)
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
}
