package manifest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/justapithecus/formwire/source"
	"github.com/justapithecus/formwire/types"
)

const sampleYAML = `
encoding: multipart
fields:
  - name: title
    value: quarterly report
  - name: report
    source: ./report.csv
    content_type: text/csv
  - name: attachments
    items:
      - value: cover note
      - source: ./report.csv
        filename: copy.csv
`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.Encoding != "multipart" {
		t.Errorf("Encoding = %q", m.Encoding)
	}
	if len(m.Fields) != 3 {
		t.Fatalf("len(Fields) = %d, want 3", len(m.Fields))
	}
	if m.Fields[0].Name != "title" || *m.Fields[0].Value != "quarterly report" {
		t.Errorf("field 0 = %+v", m.Fields[0])
	}
	if m.Fields[1].ContentType != "text/csv" {
		t.Errorf("field 1 content type = %q", m.Fields[1].ContentType)
	}
	if len(m.Fields[2].Items) != 2 {
		t.Errorf("field 2 items = %d", len(m.Fields[2].Items))
	}
}

func TestValidate(t *testing.T) {
	v := "x"
	tests := []struct {
		name    string
		spec    FieldSpec
		wantErr bool
	}{
		{"value only", FieldSpec{Name: "a", Value: &v}, false},
		{"source only", FieldSpec{Name: "a", Source: "./f"}, false},
		{"items only", FieldSpec{Name: "a", Items: []FieldSpec{{Value: &v}}}, false},
		{"missing name", FieldSpec{Value: &v}, true},
		{"nothing set", FieldSpec{Name: "a"}, true},
		{"value and source", FieldSpec{Name: "a", Value: &v, Source: "./f"}, true},
		{"nested lists", FieldSpec{Name: "a", Items: []FieldSpec{{Items: []FieldSpec{{Value: &v}}}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate(true)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolve_LocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	v := "hello"
	m := &Manifest{Fields: []FieldSpec{
		{Name: "note", Value: &v},
		{Name: "report", Source: path, Filename: "renamed.csv"},
	}}

	fields, err := m.Resolve(context.Background(), source.NewResolver(source.S3Config{}))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(fields) != 2 {
		t.Fatalf("len(fields) = %d, want 2", len(fields))
	}
	if fields[0].Value.Kind() != types.KindScalar || fields[0].Value.Text() != "hello" {
		t.Errorf("field 0 = %+v", fields[0])
	}
	if fields[1].Value.Kind() != types.KindSource {
		t.Fatalf("field 1 kind = %d, want KindSource", fields[1].Value.Kind())
	}
	if fields[1].Value.Filename() != "renamed.csv" {
		t.Errorf("filename override not applied: %q", fields[1].Value.Filename())
	}
	if c, ok := fields[1].Value.Reader().(interface{ Close() error }); ok {
		_ = c.Close()
	}
}

func TestResolve_MissingSource(t *testing.T) {
	m := &Manifest{Fields: []FieldSpec{
		{Name: "report", Source: filepath.Join(t.TempDir(), "absent.bin")},
	}}

	_, err := m.Resolve(context.Background(), source.NewResolver(source.S3Config{}))
	if err == nil || !strings.Contains(err.Error(), "absent.bin") {
		t.Fatalf("err = %v, want open failure naming the path", err)
	}
}
