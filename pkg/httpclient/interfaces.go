package httpclient

import (
	"context"
	"net/http"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	Header() http.Header
	URL() string
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// Paths are resolved against the configured base address unless they are absolute URLs.
type Client interface {
	Get(ctx context.Context, path string, opts ...RequestOption) (Response, error)
	Delete(ctx context.Context, path string, opts ...RequestOption) (Response, error)
	Post(ctx context.Context, path string, body any, opts ...RequestOption) (Response, error)
	Put(ctx context.Context, path string, body any, opts ...RequestOption) (Response, error)
	Patch(ctx context.Context, path string, body any, opts ...RequestOption) (Response, error)
	Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (Response, error)
	Configuration() Configuration
}

// Observer is notified once per request attempt, after the response or transport error.
type Observer interface {
	Observe(ctx context.Context, ex Exchange) error
}

// Logger is the structured logging surface shared by the client and the packages built around it.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) InfoObj(string, string, interface{})  {}
func (NopLogger) DebugObj(string, string, interface{}) {}
func (NopLogger) WarnObj(string, string, interface{})  {}
func (NopLogger) ErrorObj(string, string, interface{}) {}

// EnsureLogger returns log, or a NopLogger when log is nil.
func EnsureLogger(log Logger) Logger {
	if log == nil {
		return NopLogger{}
	}
	return log
}
