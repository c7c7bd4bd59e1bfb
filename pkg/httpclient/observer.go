package httpclient

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Exchange describes one request attempt issued through a Client.
type Exchange struct {
	ID         string        `json:"id"`
	Method     string        `json:"method"`
	URL        string        `json:"url"`
	StatusCode int           `json:"status_code,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
	Error      string        `json:"error,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
}

// Failed reports whether the attempt ended without an HTTP response.
func (e Exchange) Failed() bool { return e.Error != "" }

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, ex Exchange) error

func (f ObserverFunc) Observe(ctx context.Context, ex Exchange) error { return f(ctx, ex) }

type logObserver struct {
	log Logger
}

// NewLogObserver logs every exchange as a structured object.
func NewLogObserver(log Logger) Observer {
	return &logObserver{log: EnsureLogger(log)}
}

func (l *logObserver) Observe(_ context.Context, ex Exchange) error {
	meta := map[string]any{
		"id":          ex.ID,
		"method":      ex.Method,
		"url":         ex.URL,
		"status_code": ex.StatusCode,
		"elapsed_ms":  ex.Duration.Milliseconds(),
	}
	if ex.Failed() {
		meta["error"] = ex.Error
		l.log.WarnObj("http exchange failed", "http_exchange", meta)
		return nil
	}
	l.log.DebugObj("http exchange completed", "http_exchange", meta)
	return nil
}

// newExchangeID returns a time-ordered identifier.
func newExchangeID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
