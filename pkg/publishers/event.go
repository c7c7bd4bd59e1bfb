package publishers

import (
	"time"

	"github.com/samvad-hq/samvad-api-client/pkg/httpclient"
)

// Event represents the payload published downstream.
type Event struct {
	Source      string              `json:"source"`
	Exchange    httpclient.Exchange `json:"exchange"`
	PublishedAt time.Time           `json:"published_at"`
}

// NewEvent constructs an Event for an exchange issued by source.
func NewEvent(source string, ex httpclient.Exchange) Event {
	return Event{
		Source:      source,
		Exchange:    ex,
		PublishedAt: time.Now().UTC(),
	}
}

// attributes returns the routing attributes attached to queue and topic messages.
func (e Event) attributes() map[string]string {
	attrs := map[string]string{
		"source": e.Source,
		"method": e.Exchange.Method,
	}
	if e.Exchange.Failed() {
		attrs["outcome"] = "error"
	} else {
		attrs["outcome"] = "response"
	}
	return attrs
}
