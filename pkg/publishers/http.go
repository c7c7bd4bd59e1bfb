package publishers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-api-client/pkg/httpclient"
)

// httpPublisher posts events to a webhook through its own unobserved httpclient instance.
type httpPublisher struct {
	id      string
	method  string
	headers map[string]string
	client  httpclient.Client
	typ     string
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, _ Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	clientCfg := httpclient.NewConfiguration(
		httpclient.ParseBaseAddress(cfg.HTTP.URL),
		httpclient.WithTimeout(time.Duration(cfg.HTTP.TimeoutSeconds)*time.Second),
	)

	return &httpPublisher{
		id:      cfg.ID,
		typ:     TypeHTTP,
		method:  cfg.HTTP.Method,
		headers: cfg.HTTP.Headers,
		client:  httpclient.New(clientCfg),
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return h.typ }

func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	resp, err := h.client.Do(ctx, h.method, "", evt, httpclient.WithHeaders(h.headers))
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		snippet := readBodySnippet(resp.Body())
		return fmt.Errorf("http response status %d: %s", resp.StatusCode(), snippet)
	}
	return nil
}

func readBodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > 512 {
		body = body[:512]
	}
	return strings.TrimSpace(string(body))
}
