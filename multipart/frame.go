package multipart

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/justapithecus/formwire/types"
)

const crlf = "\r\n"

// Default content types per part shape.
const (
	contentTypeText  = "text/plain"
	contentTypeOctet = "application/octet-stream"
)

// frameWriter emits the framing for one field entry: the opening
// delimiter, the Content-Disposition/Content-Type header block, and the
// payload via the drainer. List-valued fields open a nested
// multipart/mixed sub-part with its own boundary and one file sub-frame
// per item.
//
// All framing text goes through the accumulator; only the drainer pushes
// payload bytes.
type frameWriter struct {
	sink     *Producer
	boundary string
	gen      Generator
	accum    accumulator

	// field is the name of the entry currently being framed, used to
	// attribute upstream read failures.
	field string
}

// writeField frames one entry and returns once its bytes (framing and
// payload) have been handed downstream.
func (w *frameWriter) writeField(f types.Field) error {
	w.field = f.Name
	w.accum.writeString("--" + w.boundary + crlf)
	w.accum.writeString(`Content-Disposition: form-data; name="` + escapeQuoted(f.Name) + `"`)

	v := f.Value
	switch v.Kind() {
	case types.KindSource:
		if v.Reader() == nil {
			return fmt.Errorf("%w: field %q: source has no reader", types.ErrInvalidSource, f.Name)
		}
		filename := v.Filename()
		if filename == "" {
			filename = f.Name
		}
		w.accum.writeString(`; filename="` + escapeQuoted(filename) + `"` + crlf)
		return w.drain(v, defaultContentType(v, contentTypeOctet))

	case types.KindList:
		return w.writeList(f.Name, v)

	case types.KindScalar:
		w.accum.writeString(crlf)
		return w.drain(v, defaultContentType(v, contentTypeText))

	default:
		return fmt.Errorf("%w: field %q: value cannot be framed as multipart", types.ErrInvalidSource, f.Name)
	}
}

// writeList emits a nested multipart/mixed block for a list-valued field.
// The nested boundary is owned by this invocation and never reused.
func (w *frameWriter) writeList(name string, v types.Value) error {
	nested := w.gen.Generate()
	w.accum.writeString(crlf)
	w.accum.writeString("Content-Type: multipart/mixed; boundary=" + nested + crlf + crlf)

	for i, item := range v.Items() {
		w.accum.writeString("--" + nested + crlf)

		filename := item.Filename()
		if filename == "" {
			filename = fmt.Sprintf("%s-%d", name, i)
		}
		w.accum.writeString(`Content-Disposition: file; filename="` + escapeQuoted(filename) + `"` + crlf)

		var fallback string
		switch {
		case item.Kind() == types.KindScalar:
			fallback = contentTypeText
		case item.Kind() == types.KindSource && item.Reader() != nil:
			fallback = contentTypeOctet
		default:
			return fmt.Errorf("%w: field %q: list item %d cannot be framed", types.ErrInvalidSource, name, i)
		}
		if err := w.drain(item, defaultContentType(item, fallback)); err != nil {
			return err
		}
	}

	w.accum.writeString("--" + nested + "--" + crlf)
	return w.accum.flush(w.sink.push)
}

// defaultContentType returns the value's declared content type, or the
// given fallback when unspecified.
func defaultContentType(v types.Value, fallback string) string {
	if ct := v.ContentType(); ct != "" {
		return ct
	}
	return fallback
}

// escapeQuoted percent-encodes s for use inside a quoted header parameter
// value. Spaces encode as %20, not +.
func escapeQuoted(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
