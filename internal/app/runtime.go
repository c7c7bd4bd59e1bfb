package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samvad-hq/samvad-api-client/internal/config"
	"github.com/samvad-hq/samvad-api-client/internal/logger"
	"github.com/samvad-hq/samvad-api-client/pkg/httpclient"
	"github.com/samvad-hq/samvad-api-client/pkg/journal"
	"github.com/samvad-hq/samvad-api-client/pkg/publishers"
)

// Runtime owns the process-wide HTTP client and the optional sinks observing it.
// It is built once at startup and handed to the code issuing requests.
type Runtime struct {
	cfg    *config.Config
	client *httpclient.RestyClient
	store  journal.Store
	fanout *publishers.Fanout
	log    logger.Logger
}

// NewRuntime builds the shared client from config. An absent base address is logged, not rejected,
// unless strict mode already failed config loading.
func NewRuntime(ctx context.Context, cfg *config.Config, log logger.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := journal.NewStore(cfg.JournalType, cfg.JournalPath, journal.Options{
		EntryTTL:        cfg.JournalTTL,
		CleanupInterval: cfg.JournalCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init journal: %w", err)
	}
	log.InfoObj("journal initialized", "journal_config", map[string]any{
		"type":                     cfg.JournalType,
		"path":                     cfg.JournalPath,
		"entry_ttl_seconds":        int(cfg.JournalTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.JournalCleanupInterval.Seconds()),
	})

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, errors.Join(err, store.Close())
	}

	opts := []httpclient.Option{
		httpclient.WithLogger(log),
		httpclient.WithObserver(httpclient.NewLogObserver(log)),
		httpclient.WithObserver(journal.Observer(store)),
	}
	if fanout.Size() > 0 {
		opts = append(opts, httpclient.WithObserver(fanout.Observer(cfg.AppName)))
	}

	clientCfg := cfg.ClientConfiguration()
	client := httpclient.New(clientCfg, opts...)

	base := clientCfg.BaseAddress()
	if !base.Present() {
		log.WarnObj("api address not configured; relative requests will fail", "client_config", map[string]any{
			"env_keys": []string{"API_ADDRESS", "REACT_APP_API_ADDRESS"},
		})
	}
	log.InfoObj("http client initialized", "client_config", map[string]any{
		"base_address":    base.String(),
		"default_headers": clientCfg.DefaultHeaders(),
		"timeout":         clientCfg.Timeout().String(),
		"publishers":      fanout.Size(),
	})

	return &Runtime{
		cfg:    cfg,
		client: client,
		store:  store,
		fanout: fanout,
		log:    log,
	}, nil
}

// buildFanout loads the publishers file when one is configured.
func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(cfg.PublishersFile) == "" {
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := publisherReg.Enabled()
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients, publishers.WithPublishTimeout(cfg.PublishTimeout)), nil
}

// Client returns the shared client handle.
func (r *Runtime) Client() httpclient.Client {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client
}

// Journal returns the exchange journal; it is a no-op store when journaling is disabled.
func (r *Runtime) Journal() journal.Store {
	if r == nil {
		return nil
	}
	return r.store
}

// Close releases the journal and publisher connections. The client itself holds nothing to release.
func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	if r.fanout != nil {
		if err := r.fanout.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publishers: %w", err))
		}
	}
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close journal: %w", err))
		}
	}
	err := errors.Join(errs...)
	if err != nil {
		r.log.ErrorObj("runtime close failed", "error", err)
	}
	return err
}
