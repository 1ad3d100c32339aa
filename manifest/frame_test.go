package manifest

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

// encodeFrame encodes a payload with a length prefix (matches producer
// process output).
func encodeFrame(payload []byte) []byte {
	buf := make([]byte, LengthPrefixSize+len(payload))
	binary.BigEndian.PutUint32(buf[:LengthPrefixSize], uint32(len(payload)))
	copy(buf[LengthPrefixSize:], payload)
	return buf
}

// encodeSpecFrame encodes a field spec as a framed msgpack payload.
func encodeSpecFrame(t *testing.T, spec *FieldSpec) []byte {
	t.Helper()
	payload, err := msgpack.Marshal(spec)
	if err != nil {
		t.Fatalf("marshal spec: %v", err)
	}
	return encodeFrame(payload)
}

func TestFrameDecoder_SingleSpec(t *testing.T) {
	v := "1"
	frame := encodeSpecFrame(t, &FieldSpec{Name: "a", Value: &v})

	decoder := NewFrameDecoder(bytes.NewReader(frame))
	payload, err := decoder.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}

	spec, err := DecodeFieldSpec(payload)
	if err != nil {
		t.Fatalf("DecodeFieldSpec failed: %v", err)
	}
	if spec.Name != "a" || spec.Value == nil || *spec.Value != "1" {
		t.Errorf("spec = %+v", spec)
	}
}

func TestReadAll_PreservesFrameOrder(t *testing.T) {
	var buf bytes.Buffer
	names := []string{"first", "second", "third"}
	for _, name := range names {
		v := name + "-value"
		buf.Write(encodeSpecFrame(t, &FieldSpec{Name: name, Value: &v}))
	}

	m, err := ReadAll(&buf)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(m.Fields) != len(names) {
		t.Fatalf("len(Fields) = %d, want %d", len(m.Fields), len(names))
	}
	for i, name := range names {
		if m.Fields[i].Name != name {
			t.Errorf("field %d name = %q, want %q", i, m.Fields[i].Name, name)
		}
	}
}

func TestReadAll_EmptyStream(t *testing.T) {
	m, err := ReadAll(bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(m.Fields) != 0 {
		t.Errorf("len(Fields) = %d, want 0", len(m.Fields))
	}
}

func TestFrameDecoder_PartialFrame(t *testing.T) {
	v := "1"
	frame := encodeSpecFrame(t, &FieldSpec{Name: "a", Value: &v})

	decoder := NewFrameDecoder(bytes.NewReader(frame[:len(frame)-2]))
	_, err := decoder.ReadFrame()
	if err == nil {
		t.Fatal("expected partial frame error")
	}
	if !IsFatalFrameError(err) {
		t.Errorf("partial frame should be fatal: %v", err)
	}
}

func TestFrameDecoder_TruncatedPrefix(t *testing.T) {
	decoder := NewFrameDecoder(bytes.NewReader([]byte{0x00, 0x01}))
	_, err := decoder.ReadFrame()
	if err == nil || err == io.EOF {
		t.Fatalf("err = %v, want partial frame error", err)
	}
	if !IsFatalFrameError(err) {
		t.Errorf("truncated prefix should be fatal: %v", err)
	}
}

func TestFrameDecoder_TooLarge(t *testing.T) {
	var prefix [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(prefix[:], MaxPayloadSize+1)

	decoder := NewFrameDecoder(bytes.NewReader(prefix[:]))
	_, err := decoder.ReadFrame()
	if err == nil {
		t.Fatal("expected too-large frame error")
	}
	var frameErr *FrameError
	if !errors.As(err, &frameErr) || frameErr.Kind != FrameErrorTooLarge {
		t.Errorf("err = %v, want FrameErrorTooLarge", err)
	}
}

func TestDecodeFieldSpec_Garbage(t *testing.T) {
	_, err := DecodeFieldSpec([]byte{0xc1, 0xff})
	if err == nil {
		t.Fatal("expected decode error")
	}
	if IsFatalFrameError(err) {
		t.Errorf("decode failure of one frame should not be fatal: %v", err)
	}
}
