package publishers

import (
	"context"

	"github.com/samvad-hq/samvad-api-client/pkg/httpclient"
)

// Publisher sends exchange events to a downstream sink (SQS, SNS, HTTP, Pub/Sub).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Logger is the client's logging surface; publishers log through the same implementation.
type Logger = httpclient.Logger
