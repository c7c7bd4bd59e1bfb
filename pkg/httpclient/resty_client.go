package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyClient adapts resty.Client to the httpclient.Client interface.
// The underlying resty client is configured once in New and never exposed.
type RestyClient struct {
	cfg       Configuration
	client    *resty.Client
	observers []Observer
	log       Logger
}

var _ Client = (*RestyClient)(nil)

// New builds the client for cfg. It performs no network activity and cannot fail;
// a missing base address only surfaces when a relative path is requested.
func New(cfg Configuration, opts ...Option) *RestyClient {
	var o clientOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	cfg = cfg.normalized()
	cfg.defaultHeaders = cfg.defaultHeaders.Clone()

	return &RestyClient{
		cfg:       cfg,
		client:    newRestyBaseClient(cfg, o.transport),
		observers: o.observers,
		log:       EnsureLogger(o.log),
	}
}

// newRestyBaseClient creates a resty.Client carrying the base address and default headers.
func newRestyBaseClient(cfg Configuration, transport http.RoundTripper) *resty.Client {
	c := resty.New()
	if base, ok := cfg.baseAddress.Value(); ok {
		c.SetBaseURL(base)
	}
	for key, values := range cfg.defaultHeaders {
		if len(values) > 0 {
			c.SetHeader(key, values[0])
		}
	}
	if cfg.timeout > 0 {
		c.SetTimeout(cfg.timeout)
	}
	if transport != nil {
		c.SetTransport(transport)
	}
	return c
}

// Configuration returns a read-only copy of the client configuration.
func (r *RestyClient) Configuration() Configuration {
	cfg := r.cfg
	cfg.defaultHeaders = cfg.defaultHeaders.Clone()
	return cfg
}

// Get performs an HTTP GET request.
func (r *RestyClient) Get(ctx context.Context, path string, opts ...RequestOption) (Response, error) {
	return r.Do(ctx, http.MethodGet, path, nil, opts...)
}

// Delete performs an HTTP DELETE request.
func (r *RestyClient) Delete(ctx context.Context, path string, opts ...RequestOption) (Response, error) {
	return r.Do(ctx, http.MethodDelete, path, nil, opts...)
}

// Post performs an HTTP POST request with body.
func (r *RestyClient) Post(ctx context.Context, path string, body any, opts ...RequestOption) (Response, error) {
	return r.Do(ctx, http.MethodPost, path, body, opts...)
}

// Put performs an HTTP PUT request with body.
func (r *RestyClient) Put(ctx context.Context, path string, body any, opts ...RequestOption) (Response, error) {
	return r.Do(ctx, http.MethodPut, path, body, opts...)
}

// Patch performs an HTTP PATCH request with body.
func (r *RestyClient) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (Response, error) {
	return r.Do(ctx, http.MethodPatch, path, body, opts...)
}

// Do issues a request. Non-2xx statuses are returned as responses, not errors.
func (r *RestyClient) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return nil, fmt.Errorf("%w: method is required", ErrInvalidRequest)
	}

	ex := Exchange{
		ID:        newExchangeID(),
		Method:    method,
		StartedAt: time.Now().UTC(),
	}

	target, err := r.cfg.Resolve(path)
	if err != nil {
		ex.URL = path
		err = fmt.Errorf("%s %s: %w", method, path, err)
		ex.Error = err.Error()
		r.notify(ctx, ex)
		return nil, err
	}
	ex.URL = target

	ro := buildRequestOptions(opts)
	req := r.client.R().SetContext(ctx)
	if len(ro.headers) > 0 {
		req.SetHeaders(ro.headers)
	}
	if len(ro.query) > 0 {
		req.SetQueryParams(ro.query)
	}
	if len(ro.pathParams) > 0 {
		req.SetPathParams(ro.pathParams)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, strings.TrimSpace(path))
	ex.Duration = time.Since(ex.StartedAt)
	if resp != nil {
		if resp.Request != nil && resp.Request.URL != "" {
			ex.URL = resp.Request.URL
		}
		ex.StatusCode = resp.StatusCode()
	}
	if err != nil {
		err = fmt.Errorf("%s %s: %w", method, ex.URL, err)
		ex.Error = err.Error()
		r.notify(ctx, ex)
		return nil, err
	}

	r.notify(ctx, ex)
	return &restyResponseAdapter{resp: resp, url: ex.URL}, nil
}

// notify reports the exchange to every observer. Failures are logged and never surface to the caller.
func (r *RestyClient) notify(ctx context.Context, ex Exchange) {
	if len(r.observers) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, o := range r.observers {
		if err := o.Observe(ctx, ex); err != nil {
			r.log.WarnObj("exchange observer failed", "observer_error", map[string]any{
				"exchange_id": ex.ID,
				"error":       err.Error(),
			})
		}
	}
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
	url  string
}

func (r *restyResponseAdapter) Body() []byte        { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int     { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Header() http.Header { return r.resp.Header() }
func (r *restyResponseAdapter) URL() string         { return r.url }
