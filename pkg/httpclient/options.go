package httpclient

import (
	"net/http"
	"strings"
)

// Option customizes a RestyClient at construction time.
type Option func(*clientOptions)

type clientOptions struct {
	observers []Observer
	log       Logger
	transport http.RoundTripper
}

// WithObserver registers an observer notified after every request. Nil observers are ignored.
func WithObserver(o Observer) Option {
	return func(opts *clientOptions) {
		if o != nil {
			opts.observers = append(opts.observers, o)
		}
	}
}

// WithLogger sets the logger used for observer failures.
func WithLogger(log Logger) Option {
	return func(opts *clientOptions) { opts.log = log }
}

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(opts *clientOptions) { opts.transport = rt }
}

// RequestOption applies a per-request override.
type RequestOption func(*requestOptions)

type requestOptions struct {
	headers    map[string]string
	query      map[string]string
	pathParams map[string]string
}

// WithHeader sets a header for one request, replacing a default header of the same name.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if key = strings.TrimSpace(key); key == "" {
			return
		}
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[http.CanonicalHeaderKey(key)] = value
	}
}

// WithHeaders sets several per-request headers.
func WithHeaders(headers map[string]string) RequestOption {
	return func(o *requestOptions) {
		for k, v := range headers {
			WithHeader(k, v)(o)
		}
	}
}

// WithQueryParam adds a query parameter.
func WithQueryParam(key, value string) RequestOption {
	return func(o *requestOptions) {
		if key == "" {
			return
		}
		if o.query == nil {
			o.query = make(map[string]string)
		}
		o.query[key] = value
	}
}

// WithQueryParams adds several query parameters.
func WithQueryParams(params map[string]string) RequestOption {
	return func(o *requestOptions) {
		for k, v := range params {
			WithQueryParam(k, v)(o)
		}
	}
}

// WithPathParam substitutes {key} in the request path.
func WithPathParam(key, value string) RequestOption {
	return func(o *requestOptions) {
		if key == "" {
			return
		}
		if o.pathParams == nil {
			o.pathParams = make(map[string]string)
		}
		o.pathParams[key] = value
	}
}

func buildRequestOptions(opts []RequestOption) requestOptions {
	var ro requestOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&ro)
		}
	}
	return ro
}
