package publishers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/samvad-hq/samvad-api-client/pkg/httpclient"
)

// DefaultPublishTimeout bounds one observer-driven fan-out when no timeout is configured.
const DefaultPublishTimeout = 10 * time.Second

// Fanout dispatches events to all configured publishers.
type Fanout struct {
	publishers     []Publisher
	publishTimeout time.Duration
}

// FanoutOption customizes a Fanout.
type FanoutOption func(*Fanout)

// WithPublishTimeout sets the deadline applied by Observer. Non-positive values keep the default.
func WithPublishTimeout(d time.Duration) FanoutOption {
	return func(f *Fanout) {
		if d > 0 {
			f.publishTimeout = d
		}
	}
}

// NewFanout builds a dispatcher that fans out events across publishers.
func NewFanout(pubs []Publisher, opts ...FanoutOption) *Fanout {
	cp := make([]Publisher, 0, len(pubs))
	for _, p := range pubs {
		if p == nil {
			continue
		}
		cp = append(cp, p)
	}
	f := &Fanout{publishers: cp, publishTimeout: DefaultPublishTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Publish forwards the event to every registered publisher.
// It returns the number of publishers that successfully handled the event.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f == nil || len(f.publishers) == 0 {
		return 0, nil
	}

	var errs []error
	successful := 0
	for _, p := range f.publishers {
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("%s publisher[%s]: %w", p.Type(), p.ID(), err))
		} else {
			successful++
		}
	}
	return successful, errors.Join(errs...)
}

// Observer adapts the fanout to the client observer hook, tagging events with source.
// The client hands observers a context detached from request cancellation, so each
// fan-out runs under its own publish timeout.
func (f *Fanout) Observer(source string) httpclient.Observer {
	return httpclient.ObserverFunc(func(ctx context.Context, ex httpclient.Exchange) error {
		ctx, cancel := context.WithTimeout(ctx, f.timeout())
		defer cancel()
		_, err := f.Publish(ctx, NewEvent(source, ex))
		return err
	})
}

func (f *Fanout) timeout() time.Duration {
	if f == nil || f.publishTimeout <= 0 {
		return DefaultPublishTimeout
	}
	return f.publishTimeout
}

// Size returns the number of active publishers.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.publishers)
}

// Close releases publishers holding client connections.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, p := range f.publishers {
		c, ok := p.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s publisher[%s]: %w", p.Type(), p.ID(), err))
		}
	}
	return errors.Join(errs...)
}
