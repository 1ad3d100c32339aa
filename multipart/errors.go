package multipart

import (
	"errors"
	"fmt"
)

// ErrProducerClosed is returned by Read and internal waits after the
// producer has been closed before the field iterator was exhausted.
var ErrProducerClosed = errors.New("multipart: producer closed")

// UpstreamReadError reports a byte-producing source failing while its
// payload was being drained. The body stream fails with this error;
// bytes already emitted for earlier fields are not retracted.
type UpstreamReadError struct {
	// Field is the name of the field whose source failed.
	Field string
	// Err is the error returned by the source.
	Err error
}

func (e *UpstreamReadError) Error() string {
	return fmt.Sprintf("multipart: field %q: upstream read: %v", e.Field, e.Err)
}

func (e *UpstreamReadError) Unwrap() error {
	return e.Err
}

// IsUpstreamReadError reports whether err is (or wraps) an
// UpstreamReadError.
func IsUpstreamReadError(err error) bool {
	var ure *UpstreamReadError
	return errors.As(err, &ure)
}
