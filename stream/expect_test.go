package stream

import (
	"math"
	"testing"

	"github.com/signadot/mpack-format/go-mpack/tag"
)

func TestExpectScalars(t *testing.T) {
	var buf []byte
	buf = tag.AppendNil(buf)
	buf = tag.AppendBool(buf, true)
	buf = tag.AppendUint(buf, 200)
	buf = tag.AppendInt(buf, -200)
	buf = tag.AppendFloat64(buf, 2.25)

	r := NewReader(buf)
	if err := r.ExpectNil(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := r.ExpectBool()
	if err != nil || !v {
		t.Fatalf("expected true, got %v, %v", v, err)
	}
	u, err := r.ExpectU8()
	if err != nil || u != 200 {
		t.Fatalf("expected 200, got %v, %v", u, err)
	}
	i, err := r.ExpectI16()
	if err != nil || i != -200 {
		t.Fatalf("expected -200, got %v, %v", i, err)
	}
	f, err := r.ExpectFloat64()
	if err != nil || f != 2.25 {
		t.Fatalf("expected 2.25, got %v, %v", f, err)
	}
	if err := r.Destroy(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExpectTypeMismatch(t *testing.T) {
	r := NewReader(tag.AppendStr(nil, "x"))
	_, err := r.ExpectBool()
	if CodeOf(err) != CodeTypeMismatch {
		t.Errorf("expected CodeTypeMismatch, got %v", err)
	}
	// The fault is latched.
	if r.Code() != CodeTypeMismatch {
		t.Errorf("expected latched CodeTypeMismatch, got %v", r.Code())
	}
}

func TestExpectUintRange(t *testing.T) {
	r := NewReader(tag.AppendUint(nil, 300))
	_, err := r.ExpectU8()
	if CodeOf(err) != CodeTypeMismatch {
		t.Errorf("expected CodeTypeMismatch for 300 as u8, got %v", err)
	}
}

func TestExpectCrossSignedness(t *testing.T) {
	// A small negative int is representable as int but not uint.
	r := NewReader(tag.AppendInt(nil, -1))
	if _, err := r.ExpectU64(); CodeOf(err) != CodeTypeMismatch {
		t.Errorf("expected CodeTypeMismatch for -1 as u64, got %v", err)
	}

	// A uint above MaxInt64 is not representable as int.
	r = NewReader(tag.AppendUint(nil, math.MaxInt64+1))
	if _, err := r.ExpectI64(); CodeOf(err) != CodeTypeMismatch {
		t.Errorf("expected CodeTypeMismatch for 2^63 as i64, got %v", err)
	}

	// A non-negative value widens either way regardless of how it was
	// encoded.
	r = NewReader(tag.AppendUint(nil, 7))
	if v, err := r.ExpectI64(); err != nil || v != 7 {
		t.Errorf("expected 7, got %v, %v", v, err)
	}
}

func TestExpectFloat64Lenient(t *testing.T) {
	// The lenient form converts any numeric tag.
	r := NewReader(tag.AppendUint(nil, 3))
	v, err := r.ExpectFloat64()
	if err != nil || v != 3 {
		t.Errorf("expected 3.0, got %v, %v", v, err)
	}

	r = NewReader(tag.AppendFloat32(nil, 1.5))
	v, err = r.ExpectFloat64()
	if err != nil || v != 1.5 {
		t.Errorf("expected 1.5, got %v, %v", v, err)
	}
}

func TestExpectFloat64Strict(t *testing.T) {
	r := NewReader(tag.AppendUint(nil, 3))
	_, err := r.ExpectFloat64Strict()
	if CodeOf(err) != CodeTypeMismatch {
		t.Errorf("expected CodeTypeMismatch for int as strict float, got %v", err)
	}

	// float32 widens losslessly and is accepted.
	r = NewReader(tag.AppendFloat32(nil, 0.25))
	v, err := r.ExpectFloat64Strict()
	if err != nil || v != 0.25 {
		t.Errorf("expected 0.25, got %v, %v", v, err)
	}
}

func TestExpectFloat32Strict(t *testing.T) {
	r := NewReader(tag.AppendFloat64(nil, 0.25))
	_, err := r.ExpectFloat32Strict()
	if CodeOf(err) != CodeTypeMismatch {
		t.Errorf("expected CodeTypeMismatch for float64 as strict float32, got %v", err)
	}
}

func TestExpectArray(t *testing.T) {
	var buf []byte
	buf = tag.AppendArrayCount(buf, 2)
	buf = tag.AppendUint(buf, 1)
	buf = tag.AppendUint(buf, 2)

	r := NewReader(buf)
	n, err := r.ExpectArray()
	if err != nil || n != 2 {
		t.Fatalf("expected 2 elements, got %v, %v", n, err)
	}
	for i := uint32(0); i < n; i++ {
		if _, err := r.ExpectU64(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := r.DoneArray(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Destroy(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExpectArrayMatch(t *testing.T) {
	buf := tag.AppendArrayCount(nil, 3)
	r := NewReader(buf)
	err := r.ExpectArrayMatch(2)
	if CodeOf(err) != CodeTypeMismatch {
		t.Errorf("expected CodeTypeMismatch for count mismatch, got %v", err)
	}
}

func TestExpectMap(t *testing.T) {
	var buf []byte
	buf = tag.AppendMapCount(buf, 1)
	buf = tag.AppendStr(buf, "k")
	buf = tag.AppendUint(buf, 7)

	r := NewReader(buf)
	n, err := r.ExpectMap()
	if err != nil || n != 1 {
		t.Fatalf("expected 1 pair, got %v, %v", n, err)
	}
	k, err := r.ExpectStr()
	if err != nil || k != "k" {
		t.Fatalf("expected key k, got %q, %v", k, err)
	}
	v, err := r.ExpectU64()
	if err != nil || v != 7 {
		t.Fatalf("expected 7, got %v, %v", v, err)
	}
	if err := r.DoneMap(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Destroy(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExpectStrBin(t *testing.T) {
	var buf []byte
	buf = tag.AppendStr(buf, "hello")
	buf = tag.AppendBin(buf, []byte{1, 2, 3})

	r := NewReader(buf)
	s, err := r.ExpectStr()
	if err != nil || s != "hello" {
		t.Fatalf("expected hello, got %q, %v", s, err)
	}
	b, err := r.ExpectBin()
	if err != nil || string(b) != "\x01\x02\x03" {
		t.Fatalf("expected 01 02 03, got % x, %v", b, err)
	}
	if err := r.Destroy(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExpectStrAllocBound(t *testing.T) {
	buf := tag.AppendStr(nil, "0123456789")
	r := NewReader(buf, WithMaxAllocSize(4))
	_, err := r.ExpectStr()
	if CodeOf(err) != CodeMemory {
		t.Errorf("expected CodeMemory, got %v", err)
	}
}

func TestExpectExtStart(t *testing.T) {
	buf := append(tag.AppendExtLen(nil, 3, 4), 0xde, 0xad, 0xbe, 0xef)
	r := NewReader(buf)
	et, n, err := r.ExpectExtStart()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if et != 3 || n != 4 {
		t.Errorf("expected type 3 length 4, got %d, %d", et, n)
	}
	payload := make([]byte, n)
	if err := r.ReadBytes(payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.DoneExt(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Destroy(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExpectEnum(t *testing.T) {
	names := []string{"foo", "bar", "poopy", "poopy_pants"}

	r := NewReader(tag.AppendStr(nil, "foo"))
	i, err := r.ExpectEnum(names...)
	if err != nil || i != 0 {
		t.Fatalf("expected index 0, got %d, %v", i, err)
	}
	if err := r.Destroy(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	r = NewReader(tag.AppendStr(nil, "poopy_pants"))
	i, err = r.ExpectEnum(names...)
	if err != nil || i != 3 {
		t.Fatalf("expected index 3, got %d, %v", i, err)
	}
}

func TestExpectEnumUnmatched(t *testing.T) {
	r := NewReader(tag.AppendStr(nil, "baz"))
	i, err := r.ExpectEnum("foo", "bar")
	if i != -1 || CodeOf(err) != CodeUnexpectedName {
		t.Errorf("expected CodeUnexpectedName, got %d, %v", i, err)
	}
}

func TestExpectEnumOversized(t *testing.T) {
	var buf []byte
	buf = tag.AppendStr(buf, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa") // 32 bytes
	buf = tag.AppendUint(buf, 5)

	r := NewReader(buf)
	i, err := r.ExpectEnum("foo", "bar")
	if i != -1 || CodeOf(err) != CodeUnexpectedName {
		t.Fatalf("expected CodeUnexpectedName, got %d, %v", i, err)
	}
	// The oversized name was still fully consumed, so the next value
	// would be readable were the fault not sticky.
	if r.Depth() != 0 {
		t.Errorf("expected no open frames, depth %d", r.Depth())
	}
}

func TestExpectEnumNonStr(t *testing.T) {
	r := NewReader(tag.AppendUint(nil, 1))
	i, err := r.ExpectEnum("foo")
	if i != -1 || CodeOf(err) != CodeTypeMismatch {
		t.Errorf("expected CodeTypeMismatch, got %d, %v", i, err)
	}
}
