// Package auditlog records security-relevant actions. Writes are best-effort
// and fire-and-forget: a failing log write is reported on the console and
// never propagated to the action that triggered it.
package auditlog

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/tidwall/buntdb"

	"github.com/patentvault/patentvault/geoip"
	"github.com/patentvault/patentvault/models"
)

// DefaultThrottleWindow suppresses duplicate (actor, action) pairs fired in
// rapid succession, e.g. re-render-triggered re-logs.
const DefaultThrottleWindow = 2 * time.Second

// Sink appends one audit entry to durable storage.
type Sink interface {
	Append(ctx context.Context, entry models.ActionLogEntry) error
}

// Enricher resolves best-effort network metadata. *geoip.Client satisfies it.
type Enricher interface {
	LookupPublicIP(ctx context.Context) string
	LookupCountry(ctx context.Context, ip string) string
}

// Meta carries the per-request client environment the HTTP layer extracted.
type Meta struct {
	ClientIP  string
	UserAgent string
}

// Logger is the audit pipeline: throttle, enrich, append. The throttle state
// is an explicitly-owned buntdb instance whose keys expire with the window,
// so it stays bounded over long-lived processes.
type Logger struct {
	sink     Sink
	enricher Enricher // nil disables IP/country enrichment
	window   time.Duration
	throttle *buntdb.DB
	wg       sync.WaitGroup
}

// NewLogger builds a Logger. window <= 0 selects DefaultThrottleWindow.
func NewLogger(sink Sink, enricher Enricher, window time.Duration) (*Logger, error) {
	if window <= 0 {
		window = DefaultThrottleWindow
	}
	db, err := buntdb.Open(":memory:")
	if err != nil {
		return nil, err
	}
	return &Logger{sink: sink, enricher: enricher, window: window, throttle: db}, nil
}

// Log records one action. The throttle check runs inline; enrichment and the
// store write happen on a detached goroutine so the caller never waits on
// network I/O. Failures are console noise only.
func (l *Logger) Log(ctx context.Context, meta Meta, actor, action, target string, details map[string]any) {
	if !l.admit(actor, action) {
		return
	}

	l.wg.Add(1)
	bg := context.WithoutCancel(ctx)
	go func() {
		defer l.wg.Done()
		wctx, cancel := context.WithTimeout(bg, 15*time.Second)
		defer cancel()
		l.write(wctx, meta, actor, action, target, details)
	}()
}

// Close waits for in-flight writes and releases the throttle state.
func (l *Logger) Close() error {
	l.wg.Wait()
	return l.throttle.Close()
}

// admit consults the throttle map: the first (actor, action) in a window is
// admitted and stamps a key that expires with the window.
func (l *Logger) admit(actor, action string) bool {
	key := actor + "\x00" + action
	admitted := false
	err := l.throttle.Update(func(tx *buntdb.Tx) error {
		if _, err := tx.Get(key); err == nil {
			return nil // duplicate within window, suppress
		} else if err != buntdb.ErrNotFound {
			return err
		}
		admitted = true
		_, _, err := tx.Set(key, "1", &buntdb.SetOptions{Expires: true, TTL: l.window})
		return err
	})
	if err != nil {
		// Broken throttle state must not silence the audit trail.
		log.Printf("[audit] throttle check failed: %v", err)
		return true
	}
	return admitted
}

func (l *Logger) write(ctx context.Context, meta Meta, actor, action, target string, details map[string]any) {
	entry := models.ActionLogEntry{
		Actor:  actor,
		Action: action,
		Target: target,
		IP:     meta.ClientIP,
	}
	entry.Browser, entry.OS = ParseUserAgent(meta.UserAgent)

	if l.enricher != nil {
		if entry.IP == "" || geoip.IsPrivate(entry.IP) {
			entry.IP = l.enricher.LookupPublicIP(ctx)
		}
		if entry.IP != geoip.UnknownIP {
			entry.Country = l.enricher.LookupCountry(ctx, entry.IP)
		}
	}
	if entry.IP == "" {
		entry.IP = geoip.UnknownIP
	}

	if len(details) > 0 {
		b, err := json.Marshal(details)
		if err != nil {
			log.Printf("[audit] details for %s/%s not serializable: %v", actor, action, err)
		} else {
			entry.Details = b
		}
	}

	if err := l.sink.Append(ctx, entry); err != nil {
		log.Printf("[audit] write failed for %s/%s: %v", actor, action, err)
	}
}
