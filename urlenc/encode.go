// Package urlenc implements the percent-encoded query-string form
// encoding (application/x-www-form-urlencoded).
//
// Unlike the multipart producer, this is a pure synchronous transform:
// field iteration order is preserved into pair order, keys and values are
// both percent-encoded, lists flatten to repeated "key[]=" pairs, and
// nested string-keyed maps flatten to bracketed key paths.
package urlenc

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/justapithecus/formwire/types"
)

// Encode renders fields as a query-string body.
//
// Byte-producing sources cannot be represented in this encoding and fail
// with ErrInvalidSource. Buffer-backed sources encode their bytes as text.
func Encode(fields []types.Field) (string, error) {
	var b strings.Builder
	first := true
	for _, f := range fields {
		if err := encodeValue(&b, &first, f.Name, f.Value); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func encodeValue(b *strings.Builder, first *bool, path string, v types.Value) error {
	switch v.Kind() {
	case types.KindScalar:
		writePair(b, first, path, v.Text())
		return nil

	case types.KindList:
		for _, item := range v.Items() {
			if err := encodeValue(b, first, path+"[]", item); err != nil {
				return err
			}
		}
		return nil

	case types.KindMap:
		for _, key := range v.MapKeys() {
			inner, ok := v.MapValue(key)
			if !ok {
				continue
			}
			if err := encodeValue(b, first, path+"["+key+"]", inner); err != nil {
				return err
			}
		}
		return nil

	case types.KindSource:
		if v.IsStream() {
			return fmt.Errorf("%w: field %q: streamed sources cannot be urlencoded", types.ErrInvalidSource, path)
		}
		writePair(b, first, path, v.Text())
		return nil

	default:
		return fmt.Errorf("%w: field %q", types.ErrInvalidSource, path)
	}
}

// writePair appends one escaped key=value pair, separated from the
// previous pair by "&".
func writePair(b *strings.Builder, first *bool, key, value string) {
	if !*first {
		b.WriteByte('&')
	}
	*first = false
	b.WriteString(escape(key))
	b.WriteByte('=')
	b.WriteString(escape(value))
}

// escape percent-encodes a key or value per standard URI component
// encoding. Brackets in key paths are escaped too, matching url.Values
// output for bracketed keys.
func escape(s string) string {
	return url.QueryEscape(s)
}
