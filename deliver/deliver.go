// Package deliver defines the delivery adapter boundary.
//
// Once a body is encoded, the CLI either writes it to a file/stdout or
// hands it to a delivery adapter: an HTTP POST to a webhook, or a PUBLISH
// to a Redis channel for job pipelines. Adapters own their connection
// lifecycle; callers provide configuration only.
package deliver

import (
	"context"

	"github.com/justapithecus/formwire/form"
)

// Deliverer sends an encoded body to a downstream system.
// Implementations consume payload.Body exactly once for streaming bodies;
// buffered bodies may be retried.
type Deliverer interface {
	// Deliver sends the payload. Must respect context cancellation and
	// deadlines.
	Deliver(ctx context.Context, payload *form.Payload) error

	// Close releases adapter resources.
	Close() error
}
