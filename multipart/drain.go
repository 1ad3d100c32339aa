package multipart

import (
	"fmt"
	"io"

	"github.com/justapithecus/formwire/types"
)

// drainChunkSize is how many bytes are pulled from a streamed source per
// read. Each chunk is pushed downstream before the next is pulled, so a
// full downstream buffer suspends the drain after at most one chunk.
const drainChunkSize = 32 * 1024

// drain emits the Content-Type header for one payload, flushes the
// accumulated framing text, and moves the payload bytes downstream.
//
// Scalar payloads are pushed as one unit. Streamed payloads are pulled
// chunk by chunk; a push that fills the downstream buffer suspends the
// drain until the reader signals resume. Both cases end with a trailing
// CRLF so the next delimiter starts on its own line.
func (w *frameWriter) drain(v types.Value, contentType string) error {
	w.accum.writeString("Content-Type: " + contentType + crlf + crlf)
	if err := w.accum.flush(w.sink.push); err != nil {
		return err
	}

	if v.IsStream() {
		if err := w.drainStream(v.Reader()); err != nil {
			return err
		}
		return w.sink.push([]byte(crlf))
	}

	if v.Kind() != types.KindScalar {
		return fmt.Errorf("%w: field %q: payload is neither buffer nor stream", types.ErrInvalidSource, w.field)
	}
	if err := w.sink.push(v.Payload()); err != nil {
		return err
	}
	return w.sink.push([]byte(crlf))
}

// drainStream pulls chunks from r until exhaustion, pushing each one
// downstream. Source errors abort the current field without emitting
// further bytes for it.
func (w *frameWriter) drainStream(r io.Reader) error {
	buf := make([]byte, drainChunkSize)
	for {
		// A resume signal can race Close; never pull another chunk once
		// the producer is canceled.
		select {
		case <-w.sink.done:
			return ErrProducerClosed
		default:
		}

		n, err := r.Read(buf)
		if n > 0 {
			// push copies before any backpressure wait, so buf is safe
			// to reuse on the next iteration.
			if perr := w.sink.push(buf[:n]); perr != nil {
				return perr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &UpstreamReadError{Field: w.field, Err: err}
		}
	}
}
