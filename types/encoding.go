package types

// Encoding selects the wire encoding for a serialized body.
type Encoding string

// Supported encodings.
const (
	// EncodingURL is percent-encoded query-string form
	// (application/x-www-form-urlencoded).
	EncodingURL Encoding = "urlencoded"
	// EncodingMultipart is RFC 7578 multipart/form-data, produced as a
	// lazy pull-driven stream.
	EncodingMultipart Encoding = "multipart"
)

// Content type header values returned alongside each encoding.
const (
	// ContentTypeURL is the header value for urlencoded bodies.
	ContentTypeURL = "application/x-www-form-urlencoded; charset=UTF-8"
	// ContentTypeMultipartPrefix is the header prefix for multipart
	// bodies; the boundary parameter is appended per body.
	ContentTypeMultipartPrefix = "multipart/form-data; boundary="
)

// ParseEncoding maps a string to an Encoding.
// Unknown strings report ok=false and return the urlencoded fallback;
// callers log a warning but never fail on an unknown encoding.
func ParseEncoding(s string) (enc Encoding, ok bool) {
	switch Encoding(s) {
	case EncodingURL:
		return EncodingURL, true
	case EncodingMultipart:
		return EncodingMultipart, true
	default:
		return EncodingURL, false
	}
}
