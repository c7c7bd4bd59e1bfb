package journal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-api-client/pkg/httpclient"
)

// Package journal keeps a local, expiring record of HTTP exchanges.

// Entry is a recorded exchange plus its expiry.
type Entry struct {
	httpclient.Exchange
	ExpiresAt time.Time `json:"expires_at"`
}

// Store records exchanges issued through the shared client.
type Store interface {
	Close() error
	Record(ex httpclient.Exchange) error
	Get(id string) (Entry, bool, error)
	// Recent returns up to limit live entries, newest first. limit <= 0 means all.
	Recent(limit int) ([]Entry, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	EntryTTL        time.Duration
	CleanupInterval time.Duration
}

const (
	defaultEntryTTL        = 24 * time.Hour
	defaultCleanupInterval = time.Hour
)

// NewStore creates the configured journal backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt journal requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported journal type %q", typ)
	}
}

// Observer records every exchange into store.
func Observer(store Store) httpclient.Observer {
	return httpclient.ObserverFunc(func(_ context.Context, ex httpclient.Exchange) error {
		if store == nil {
			return nil
		}
		return store.Record(ex)
	})
}

func normalizeOptions(opts Options) Options {
	if opts.EntryTTL <= 0 {
		opts.EntryTTL = defaultEntryTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                     { return nil }
func (noopStore) Record(httpclient.Exchange) error { return nil }
func (noopStore) Get(string) (Entry, bool, error)  { return Entry{}, false, nil }
func (noopStore) Recent(int) ([]Entry, error)      { return nil, nil }
