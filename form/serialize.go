// Package form is the top-level dispatcher: it selects a body encoding
// for an ordered field list and returns the wire-ready body plus its
// Content-Type header.
package form

import (
	"io"
	"strings"

	"github.com/justapithecus/formwire/log"
	"github.com/justapithecus/formwire/multipart"
	"github.com/justapithecus/formwire/types"
	"github.com/justapithecus/formwire/urlenc"
)

// Payload is a serialized request body.
type Payload struct {
	// Body streams the body bytes. Urlencoded bodies are fully
	// materialized; multipart bodies are produced lazily as Body is read.
	Body io.ReadCloser
	// ContentType is the Content-Type header value for this body.
	ContentType string
	// ContentLength is the body size in bytes, or -1 when the body is
	// streamed and the size is not known up front.
	ContentLength int64
}

// Streaming reports whether the body is produced lazily.
func (p *Payload) Streaming() bool { return p.ContentLength < 0 }

// Option customizes serialization.
type Option func(*options)

type options struct {
	logger    *log.Logger
	multipart []multipart.Option
}

// WithLogger sets the logger used for non-fatal warnings (unknown
// encoding fallback). Nil disables the warning.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMultipartOptions forwards options to the multipart producer.
func WithMultipartOptions(opts ...multipart.Option) Option {
	return func(o *options) { o.multipart = append(o.multipart, opts...) }
}

// Serialize encodes fields with the requested encoding.
//
// Field order is preserved into output order. An unrecognized encoding
// falls back to urlencoded with a warning; it never fails. Invalid field
// shapes fail synchronously with types.ErrInvalidSource. Source read
// failures in a multipart body surface through Body.Read as
// *multipart.UpstreamReadError.
func Serialize(fields []types.Field, encoding types.Encoding, opts ...Option) (*Payload, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	enc, ok := types.ParseEncoding(string(encoding))
	if !ok && o.logger != nil {
		o.logger.Warn("unknown encoding, falling back to urlencoded", map[string]any{
			"encoding": string(encoding),
			"fallback": string(types.EncodingURL),
		})
	}

	switch enc {
	case types.EncodingMultipart:
		p := multipart.NewProducer(fields, o.multipart...)
		return &Payload{
			Body:          p,
			ContentType:   p.ContentType(),
			ContentLength: -1,
		}, nil
	default:
		body, err := urlenc.Encode(fields)
		if err != nil {
			return nil, err
		}
		return &Payload{
			Body:          io.NopCloser(strings.NewReader(body)),
			ContentType:   types.ContentTypeURL,
			ContentLength: int64(len(body)),
		}, nil
	}
}
