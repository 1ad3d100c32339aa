package types

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValueOf_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "hello", "hello"},
		{"bytes", []byte("raw"), "raw"},
		{"bool", true, "true"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"uint", uint(9), "9"},
		{"float", 1.5, "1.5"},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ValueOf(tt.in)
			if err != nil {
				t.Fatalf("ValueOf(%v) failed: %v", tt.in, err)
			}
			if v.Kind() != KindScalar {
				t.Fatalf("Kind = %d, want KindScalar", v.Kind())
			}
			if v.Text() != tt.want {
				t.Errorf("Text() = %q, want %q", v.Text(), tt.want)
			}
		})
	}
}

func TestValueOf_Reader(t *testing.T) {
	v, err := ValueOf(strings.NewReader("stream"))
	if err != nil {
		t.Fatalf("ValueOf failed: %v", err)
	}
	if v.Kind() != KindSource {
		t.Fatalf("Kind = %d, want KindSource", v.Kind())
	}
	if !v.IsStream() {
		t.Error("IsStream() = false for reader-backed source")
	}
	if v.Filename() != "" {
		t.Errorf("Filename() = %q, want empty for anonymous reader", v.Filename())
	}
}

func TestValueOf_FileBasename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.csv")
	if err := os.WriteFile(path, []byte("a,b"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })

	v, err := ValueOf(f)
	if err != nil {
		t.Fatalf("ValueOf failed: %v", err)
	}
	if v.Filename() != "report.csv" {
		t.Errorf("Filename() = %q, want report.csv", v.Filename())
	}
}

func TestValueOf_Lists(t *testing.T) {
	v, err := ValueOf([]any{"a", []byte("b"), strings.NewReader("c")})
	if err != nil {
		t.Fatalf("ValueOf failed: %v", err)
	}
	if v.Kind() != KindList {
		t.Fatalf("Kind = %d, want KindList", v.Kind())
	}
	items := v.Items()
	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}
	if items[0].Kind() != KindScalar || items[2].Kind() != KindSource {
		t.Errorf("item kinds = %d,%d,%d", items[0].Kind(), items[1].Kind(), items[2].Kind())
	}
}

func TestValueOf_Map(t *testing.T) {
	v, err := ValueOf(map[string]any{"inner": "x"})
	if err != nil {
		t.Fatalf("ValueOf failed: %v", err)
	}
	if v.Kind() != KindMap {
		t.Fatalf("Kind = %d, want KindMap", v.Kind())
	}
	inner, ok := v.MapValue("inner")
	if !ok {
		t.Fatal("MapValue(inner) missing")
	}
	if inner.Text() != "x" {
		t.Errorf("inner.Text() = %q, want x", inner.Text())
	}
}

func TestMapOrdered(t *testing.T) {
	v := MapOrdered(
		[]string{"z", "a", "missing"},
		map[string]Value{"a": String("1"), "z": String("2")},
	)
	if v.Kind() != KindMap {
		t.Fatalf("Kind = %d, want KindMap", v.Kind())
	}
	want := []string{"z", "a"}
	keys := v.MapKeys()
	if len(keys) != len(want) {
		t.Fatalf("MapKeys() = %v, want %v", keys, want)
	}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("key %d = %q, want %q", i, keys[i], k)
		}
	}
}

func TestValueOf_Unsupported(t *testing.T) {
	if _, err := ValueOf(struct{ X int }{1}); !errors.Is(err, ErrInvalidSource) {
		t.Fatalf("err = %v, want ErrInvalidSource", err)
	}
}

func TestSourceOptions(t *testing.T) {
	v := Source(strings.NewReader("x"),
		WithFilename("custom.bin"), WithContentType("application/pdf"))
	if v.Filename() != "custom.bin" {
		t.Errorf("Filename() = %q", v.Filename())
	}
	if v.ContentType() != "application/pdf" {
		t.Errorf("ContentType() = %q", v.ContentType())
	}
}

func TestFields_AddPreservesOrder(t *testing.T) {
	fields, err := Fields{}.Add("a", "1")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	fields = fields.MustAdd("b", "2").MustAdd("c", "3")

	want := []string{"a", "b", "c"}
	for i, f := range fields {
		if f.Name != want[i] {
			t.Errorf("field %d name = %q, want %q", i, f.Name, want[i])
		}
	}
}

func TestFields_AddInvalid(t *testing.T) {
	_, err := Fields{}.Add("bad", make(chan int))
	if !errors.Is(err, ErrInvalidSource) {
		t.Fatalf("err = %v, want ErrInvalidSource", err)
	}
	if err != nil && !strings.Contains(err.Error(), `"bad"`) {
		t.Errorf("error does not name the field: %v", err)
	}
}
