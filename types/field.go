// Package types defines the field model shared by all formwire encoders.
//
// A form body is an ordered slice of Fields. Each Field carries a Value,
// an explicit tagged variant over the shapes an encoder can emit: scalar
// text or bytes, a byte-producing source, a list of those, or (urlencoded
// only) a nested string-keyed map. Structural discrimination of user input
// happens exactly once, in ValueOf; encoders switch on Value.Kind and never
// re-inspect the original Go value.
package types

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// ErrInvalidSource is returned when a field value is neither scalar-like
// nor stream-like, or when a value cannot be represented in the selected
// encoding.
var ErrInvalidSource = errors.New("invalid field source")

// Kind discriminates the shapes a Value can take.
type Kind int

// Value kinds.
const (
	// KindScalar is plain text or a byte buffer.
	KindScalar Kind = iota
	// KindSource is a byte-producing source with optional filename and
	// content type metadata.
	KindSource
	// KindList is an ordered sequence of scalar-or-source items,
	// rendered as a nested multipart/mixed block.
	KindList
	// KindMap is a nested string-keyed mapping. Only the urlencoded
	// encoder can represent it (bracketed key paths); the multipart
	// frame writer rejects it.
	KindMap
)

// Field is one named entry in the logical form.
// Slices of Field preserve their order into output order.
type Field struct {
	Name  string
	Value Value
}

// Value is the tagged variant for a field value.
// The zero Value is an empty scalar.
type Value struct {
	kind Kind

	text   string
	data   []byte // non-nil for byte-buffer scalars
	reader io.Reader

	filename    string
	contentType string

	items []Value
	keys  []string         // map iteration order
	entry map[string]Value // nested map values
}

// Kind reports which shape this value holds.
func (v Value) Kind() Kind { return v.kind }

// String builds a text scalar value.
func String(s string) Value {
	return Value{kind: KindScalar, text: s}
}

// Bytes builds a byte-buffer scalar value.
func Bytes(b []byte) Value {
	if b == nil {
		b = []byte{}
	}
	return Value{kind: KindScalar, data: b}
}

// SourceOpt customizes a source value.
type SourceOpt func(*Value)

// WithFilename overrides the filename reported for a source.
func WithFilename(name string) SourceOpt {
	return func(v *Value) { v.filename = name }
}

// WithContentType overrides the content type reported for a source.
func WithContentType(ct string) SourceOpt {
	return func(v *Value) { v.contentType = ct }
}

// Source builds a byte-producing source value from a reader.
// An *os.File contributes its basename as the default filename.
func Source(r io.Reader, opts ...SourceOpt) Value {
	v := Value{kind: KindSource, reader: r}
	if f, ok := r.(*os.File); ok {
		v.filename = filepath.Base(f.Name())
	}
	for _, opt := range opts {
		opt(&v)
	}
	return v
}

// List builds a list value from the given items.
// Items must be scalars or sources; nested lists and maps are rejected
// at encode time.
func List(items ...Value) Value {
	return Value{kind: KindList, items: items}
}

// ValueOf builds a Value from an arbitrary Go value by structural
// discrimination:
//
//   - string, []byte, bool, signed/unsigned ints, floats -> scalar
//   - io.Reader -> source (os.File basename becomes the filename)
//   - Value -> passed through unchanged
//   - []any, []string, []Value -> list
//   - map[string]any -> nested map (urlencoded only); iteration order
//     follows the ordered keys argument of MapOrdered, or is unspecified
//     for plain maps
//
// Anything else fails with ErrInvalidSource.
func ValueOf(in any) (Value, error) {
	switch x := in.(type) {
	case Value:
		return x, nil
	case string:
		return String(x), nil
	case []byte:
		return Bytes(x), nil
	case bool:
		return String(strconv.FormatBool(x)), nil
	case int:
		return String(strconv.Itoa(x)), nil
	case int8, int16, int32, int64:
		return String(fmt.Sprintf("%d", x)), nil
	case uint, uint8, uint16, uint32, uint64:
		return String(fmt.Sprintf("%d", x)), nil
	case float32:
		return String(strconv.FormatFloat(float64(x), 'f', -1, 32)), nil
	case float64:
		return String(strconv.FormatFloat(x, 'f', -1, 64)), nil
	case []Value:
		return List(x...), nil
	case []string:
		items := make([]Value, len(x))
		for i, s := range x {
			items[i] = String(s)
		}
		return List(items...), nil
	case []any:
		items := make([]Value, len(x))
		for i, e := range x {
			v, err := ValueOf(e)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return List(items...), nil
	case map[string]any:
		return mapOf(x)
	case io.Reader:
		return Source(x), nil
	case nil:
		return String(""), nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported value type %T", ErrInvalidSource, in)
	}
}

// MapOrdered builds a nested map value with an explicit key order.
// Keys absent from m are skipped; entries of m absent from keys are not
// reachable by encoders.
func MapOrdered(keys []string, m map[string]Value) Value {
	v := Value{
		kind:  KindMap,
		keys:  make([]string, 0, len(keys)),
		entry: make(map[string]Value, len(m)),
	}
	for _, k := range keys {
		inner, ok := m[k]
		if !ok {
			continue
		}
		v.keys = append(v.keys, k)
		v.entry[k] = inner
	}
	return v
}

// mapOf builds a nested map value from a plain Go map.
// Key order is the map's (unspecified) iteration order; callers that need
// deterministic nested output should flatten keys themselves.
func mapOf(m map[string]any) (Value, error) {
	v := Value{
		kind:  KindMap,
		keys:  make([]string, 0, len(m)),
		entry: make(map[string]Value, len(m)),
	}
	for k, raw := range m {
		inner, err := ValueOf(raw)
		if err != nil {
			return Value{}, err
		}
		v.keys = append(v.keys, k)
		v.entry[k] = inner
	}
	return v, nil
}

// IsStream reports whether a scalar-or-source value drains from a reader
// rather than from in-memory bytes.
func (v Value) IsStream() bool {
	return v.kind == KindSource && v.reader != nil
}

// Text returns the scalar text. For byte-buffer scalars it returns the
// bytes as a string.
func (v Value) Text() string {
	if v.data != nil {
		return string(v.data)
	}
	return v.text
}

// Payload returns the in-memory payload bytes for a scalar value.
func (v Value) Payload() []byte {
	if v.data != nil {
		return v.data
	}
	return []byte(v.text)
}

// Reader returns the byte-producing source, or nil for non-source values.
func (v Value) Reader() io.Reader { return v.reader }

// Filename returns the declared or derived filename, or "" when none is
// known. Encoders apply their own fallbacks.
func (v Value) Filename() string { return v.filename }

// ContentType returns the declared content type, or "" when unspecified.
// Encoders apply their own defaults.
func (v Value) ContentType() string { return v.contentType }

// Items returns the list items, or nil for non-list values.
func (v Value) Items() []Value { return v.items }

// MapKeys returns the nested map keys in iteration order.
func (v Value) MapKeys() []string { return v.keys }

// MapValue returns the nested map value for key.
func (v Value) MapValue(key string) (Value, bool) {
	inner, ok := v.entry[key]
	return inner, ok
}

// Fields is an ordered field list with append helpers.
type Fields []Field

// Add appends a field built from an arbitrary Go value.
// Returns ErrInvalidSource when the value shape is not recognized.
func (f Fields) Add(name string, value any) (Fields, error) {
	v, err := ValueOf(value)
	if err != nil {
		return f, fmt.Errorf("field %q: %w", name, err)
	}
	return append(f, Field{Name: name, Value: v}), nil
}

// MustAdd is Add for values known to be valid at compile time.
// Panics on unrecognized shapes; intended for literals in tests and setup
// code.
func (f Fields) MustAdd(name string, value any) Fields {
	out, err := f.Add(name, value)
	if err != nil {
		panic(err)
	}
	return out
}
