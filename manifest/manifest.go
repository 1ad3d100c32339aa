// Package manifest defines declarative field sets for the formwire CLI
// and for programmatic producers.
//
// Two input forms share one schema: a YAML manifest file for humans, and
// a stream of length-prefixed msgpack field frames for producer processes
// piping fields over stdin.
package manifest

import (
	"context"
	"fmt"

	"github.com/justapithecus/formwire/source"
	"github.com/justapithecus/formwire/types"
)

// Manifest is a declarative field set.
type Manifest struct {
	// Encoding selects the body encoding ("urlencoded" or "multipart").
	// Empty defers to the CLI flag or config default.
	Encoding string `yaml:"encoding,omitempty" msgpack:"encoding,omitempty"`
	// Fields are the form fields in output order.
	Fields []FieldSpec `yaml:"fields" msgpack:"fields"`
}

// FieldSpec describes one field. Exactly one of Value, Source, or Items
// must be set.
type FieldSpec struct {
	// Name is the field name. Required on top-level specs; ignored on
	// list items.
	Name string `yaml:"name,omitempty" msgpack:"name,omitempty"`
	// Value is an inline scalar value.
	Value *string `yaml:"value,omitempty" msgpack:"value,omitempty"`
	// Source is a source reference: a local file path or s3://bucket/key.
	Source string `yaml:"source,omitempty" msgpack:"source,omitempty"`
	// Filename overrides the filename reported for a source.
	Filename string `yaml:"filename,omitempty" msgpack:"filename,omitempty"`
	// ContentType overrides the content type reported for a source.
	ContentType string `yaml:"content_type,omitempty" msgpack:"content_type,omitempty"`
	// Items makes this a list field (nested multipart/mixed block).
	Items []FieldSpec `yaml:"items,omitempty" msgpack:"items,omitempty"`
}

// Validate checks that the spec names exactly one value shape.
// top reports whether this is a top-level spec (which requires a name).
func (s *FieldSpec) Validate(top bool) error {
	if top && s.Name == "" {
		return fmt.Errorf("manifest: field spec missing name")
	}
	set := 0
	if s.Value != nil {
		set++
	}
	if s.Source != "" {
		set++
	}
	if len(s.Items) > 0 {
		set++
	}
	if set != 1 {
		return fmt.Errorf("manifest: field %q: exactly one of value, source, or items must be set", s.Name)
	}
	if len(s.Items) > 0 {
		for i := range s.Items {
			item := &s.Items[i]
			if len(item.Items) > 0 {
				return fmt.Errorf("manifest: field %q: list items cannot nest further lists", s.Name)
			}
			if err := item.Validate(false); err != nil {
				return fmt.Errorf("manifest: field %q item %d: %w", s.Name, i, err)
			}
		}
	}
	return nil
}

// Resolve turns the manifest into an ordered field list, opening source
// references through r.
func (m *Manifest) Resolve(ctx context.Context, r *source.Resolver) (types.Fields, error) {
	fields := make(types.Fields, 0, len(m.Fields))
	for i := range m.Fields {
		spec := &m.Fields[i]
		if err := spec.Validate(true); err != nil {
			return nil, err
		}
		v, err := spec.resolve(ctx, r)
		if err != nil {
			return nil, err
		}
		fields = append(fields, types.Field{Name: spec.Name, Value: v})
	}
	return fields, nil
}

// resolve builds the value for one validated spec.
func (s *FieldSpec) resolve(ctx context.Context, r *source.Resolver) (types.Value, error) {
	switch {
	case s.Value != nil:
		return types.String(*s.Value), nil
	case s.Source != "":
		v, err := r.Open(ctx, s.Source)
		if err != nil {
			return types.Value{}, err
		}
		return s.override(v), nil
	default:
		items := make([]types.Value, 0, len(s.Items))
		for i := range s.Items {
			item := &s.Items[i]
			v, err := item.resolve(ctx, r)
			if err != nil {
				return types.Value{}, err
			}
			items = append(items, v)
		}
		return types.List(items...), nil
	}
}

// override reapplies the spec's filename/content-type overrides on top of
// what the resolver derived.
func (s *FieldSpec) override(v types.Value) types.Value {
	if s.Filename == "" && s.ContentType == "" {
		return v
	}
	filename := s.Filename
	if filename == "" {
		filename = v.Filename()
	}
	contentType := s.ContentType
	if contentType == "" {
		contentType = v.ContentType()
	}

	var opts []types.SourceOpt
	if filename != "" {
		opts = append(opts, types.WithFilename(filename))
	}
	if contentType != "" {
		opts = append(opts, types.WithContentType(contentType))
	}
	return types.Source(v.Reader(), opts...)
}
