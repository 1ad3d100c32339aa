package urlenc

import (
	"errors"
	"strings"
	"testing"

	"github.com/justapithecus/formwire/types"
)

func TestEncode_SingleScalar(t *testing.T) {
	fields := types.Fields{}.MustAdd("a", "1")

	got, err := Encode(fields)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if got != "a=1" {
		t.Errorf("body = %q, want a=1", got)
	}
}

func TestEncode_OrderAndEscaping(t *testing.T) {
	fields := types.Fields{}.
		MustAdd("name", "Ada Lovelace").
		MustAdd("q", "a&b=c").
		MustAdd("n", 3)

	got, err := Encode(fields)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := "name=Ada+Lovelace&q=a%26b%3Dc&n=3"
	if got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

func TestEncode_ListFlattening(t *testing.T) {
	fields := types.Fields{}.MustAdd("tag", []string{"x", "y"})

	got, err := Encode(fields)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := "tag%5B%5D=x&tag%5B%5D=y"
	if got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

func TestEncode_NestedMap(t *testing.T) {
	fields := types.Fields{}.MustAdd("user", map[string]any{"name": "ada"})

	got, err := Encode(fields)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := "user%5Bname%5D=ada"
	if got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

func TestEncode_BufferSourceAsText(t *testing.T) {
	fields := types.Fields{}.MustAdd("blob", []byte("bytes here"))

	got, err := Encode(fields)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if got != "blob=bytes+here" {
		t.Errorf("body = %q", got)
	}
}

func TestEncode_StreamSourceRejected(t *testing.T) {
	fields := types.Fields{}.MustAdd("f", types.Source(strings.NewReader("x")))

	_, err := Encode(fields)
	if !errors.Is(err, types.ErrInvalidSource) {
		t.Fatalf("err = %v, want ErrInvalidSource", err)
	}
}

func TestEncode_Empty(t *testing.T) {
	got, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if got != "" {
		t.Errorf("body = %q, want empty", got)
	}
}
