package multipart

import "bytes"

// accumulator batches successive framing fragments (delimiters, header
// lines) so they reach the output as one unit. It is append-only between
// flushes.
//
// Invariant: payload bytes are never interleaved with unflushed text.
// The drainer flushes the accumulator immediately before pushing the first
// payload byte of each part.
type accumulator struct {
	buf bytes.Buffer
}

func (a *accumulator) writeString(s string) {
	a.buf.WriteString(s)
}

// flush pushes the accumulated text downstream as one unit and empties
// the buffer. A flush of an empty accumulator is a no-op.
func (a *accumulator) flush(push func([]byte) error) error {
	if a.buf.Len() == 0 {
		return nil
	}
	err := push(a.buf.Bytes())
	a.buf.Reset()
	return err
}
