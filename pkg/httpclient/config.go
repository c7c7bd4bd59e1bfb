package httpclient

import (
	"errors"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"
)

const (
	// HeaderContentType is the canonical name of the default content type header.
	HeaderContentType = "Content-Type"
	// MIMEApplicationJSON is attached to every request unless overridden.
	MIMEApplicationJSON = "application/json"
)

var (
	// ErrBaseAddressUnset is returned at request time for relative paths when no base address was configured.
	ErrBaseAddressUnset = errors.New("base address is not configured")
	// ErrInvalidRequest is returned when a request cannot be formed (e.g. empty method).
	ErrInvalidRequest = errors.New("invalid request")
)

// BaseAddress is an explicitly optional base network address.
type BaseAddress struct {
	value   string
	present bool
}

// BaseAddressOf wraps a lookup result such as os.LookupEnv.
func BaseAddressOf(value string, present bool) BaseAddress {
	if !present {
		return BaseAddress{}
	}
	return BaseAddress{value: value, present: true}
}

// ParseBaseAddress treats an empty or blank value as absent.
func ParseBaseAddress(value string) BaseAddress {
	value = strings.TrimSpace(value)
	return BaseAddressOf(value, value != "")
}

// NoBaseAddress returns the absent base address.
func NoBaseAddress() BaseAddress { return BaseAddress{} }

// Present reports whether a base address was supplied.
func (b BaseAddress) Present() bool { return b.present }

// Value returns the raw base address and whether it was supplied.
func (b BaseAddress) Value() (string, bool) { return b.value, b.present }

func (b BaseAddress) String() string {
	if !b.present {
		return "<unset>"
	}
	return b.value
}

// ConfigOption customizes a Configuration at construction time.
type ConfigOption func(*Configuration)

// WithDefaultHeader adds or replaces a default header. An empty value is ignored.
// Content-Type is fixed to application/json; override it per request with WithHeader.
func WithDefaultHeader(key, value string) ConfigOption {
	return func(c *Configuration) {
		key = http.CanonicalHeaderKey(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if key == "" || value == "" || key == HeaderContentType {
			return
		}
		c.defaultHeaders.Set(key, value)
	}
}

// WithTimeout bounds each request issued through the client. Zero disables the timeout.
func WithTimeout(d time.Duration) ConfigOption {
	return func(c *Configuration) {
		if d < 0 {
			d = 0
		}
		c.timeout = d
	}
}

// Configuration is the immutable client configuration. The zero value is usable and
// behaves like NewConfiguration(NoBaseAddress()).
type Configuration struct {
	baseAddress    BaseAddress
	defaultHeaders http.Header
	timeout        time.Duration
}

// NewConfiguration builds a configuration carrying the JSON content type default header.
func NewConfiguration(base BaseAddress, opts ...ConfigOption) Configuration {
	cfg := Configuration{
		baseAddress:    base,
		defaultHeaders: http.Header{HeaderContentType: []string{MIMEApplicationJSON}},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	cfg.defaultHeaders.Set(HeaderContentType, MIMEApplicationJSON)
	return cfg
}

// BaseAddress returns the configured base address.
func (c Configuration) BaseAddress() BaseAddress { return c.baseAddress }

// Timeout returns the per-request timeout, zero meaning none.
func (c Configuration) Timeout() time.Duration { return c.timeout }

// DefaultHeaders returns a copy of the default header set.
func (c Configuration) DefaultHeaders() http.Header {
	return c.normalized().defaultHeaders.Clone()
}

// Equal reports whether both configurations would produce equivalent clients.
func (c Configuration) Equal(other Configuration) bool {
	a, b := c.normalized(), other.normalized()
	return a.baseAddress == b.baseAddress &&
		a.timeout == b.timeout &&
		maps.EqualFunc(a.defaultHeaders, b.defaultHeaders, slices.Equal[[]string])
}

// Resolve returns the URL a path is sent to. Absolute URLs bypass the base address.
func (c Configuration) Resolve(path string) (string, error) {
	path = strings.TrimSpace(path)
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path, nil
	}
	base, ok := c.baseAddress.Value()
	if !ok {
		return "", ErrBaseAddressUnset
	}
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(base, "/") + path, nil
}

func (c Configuration) normalized() Configuration {
	if c.defaultHeaders == nil {
		c.defaultHeaders = http.Header{HeaderContentType: []string{MIMEApplicationJSON}}
	}
	return c
}
