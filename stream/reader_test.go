package stream

import (
	"errors"
	"testing"

	"github.com/signadot/mpack-format/go-mpack/tag"
)

func TestReadTagScalars(t *testing.T) {
	var buf []byte
	buf = tag.AppendNil(buf)
	buf = tag.AppendBool(buf, true)
	buf = tag.AppendInt(buf, -5)
	buf = tag.AppendUint(buf, 300)
	buf = tag.AppendFloat64(buf, 0.5)

	r := NewReader(buf)
	tg, err := r.ReadTag()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tg.IsNil() {
		t.Errorf("expected Nil, got %s", tg)
	}
	tg, _ = r.ReadTag()
	if v, ok := tg.Bool(); !ok || !v {
		t.Errorf("expected Bool(true), got %s", tg)
	}
	tg, _ = r.ReadTag()
	if v, ok := tg.Int(); !ok || v != -5 {
		t.Errorf("expected Int(-5), got %s", tg)
	}
	tg, _ = r.ReadTag()
	if v, ok := tg.Uint(); !ok || v != 300 {
		t.Errorf("expected Uint(300), got %s", tg)
	}
	tg, _ = r.ReadTag()
	if v, ok := tg.Float64(); !ok || v != 0.5 {
		t.Errorf("expected Float64(0.5), got %s", tg)
	}
	if r.Remaining() != 0 {
		t.Errorf("expected empty buffer, %d bytes remain", r.Remaining())
	}
	if err := r.Destroy(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPeekTagDoesNotAdvance(t *testing.T) {
	buf := tag.AppendUint(nil, 42)
	r := NewReader(buf)

	tg, err := r.PeekTag()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := tg.Uint(); v != 42 {
		t.Errorf("expected Uint(42), got %s", tg)
	}
	if r.Offset() != 0 {
		t.Errorf("peek advanced cursor to %d", r.Offset())
	}

	tg, err = r.ReadTag()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := tg.Uint(); v != 42 {
		t.Errorf("expected Uint(42), got %s", tg)
	}
	if err := r.Destroy(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTrackingArray(t *testing.T) {
	var buf []byte
	buf = tag.AppendArrayCount(buf, 2)
	buf = tag.AppendUint(buf, 1)
	buf = tag.AppendUint(buf, 2)

	r := NewReader(buf)
	if _, err := r.ReadTag(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if _, err := r.ReadTag(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.ReadTag(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.DoneArray(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Depth() != 0 {
		t.Errorf("expected depth 0, got %d", r.Depth())
	}
	if err := r.Destroy(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDoneArrayEarly(t *testing.T) {
	var buf []byte
	buf = tag.AppendArrayCount(buf, 2)
	buf = tag.AppendUint(buf, 1)
	buf = tag.AppendUint(buf, 2)

	r := NewReader(buf)
	r.ReadTag()
	r.ReadTag()
	// One element still unread.
	err := r.DoneArray()
	if CodeOf(err) != CodeInvalidData {
		t.Errorf("expected CodeInvalidData, got %v", err)
	}
	if r.Code() != CodeInvalidData {
		t.Errorf("expected latched CodeInvalidData, got %v", r.Code())
	}
}

func TestDoneMapUnderread(t *testing.T) {
	var buf []byte
	buf = tag.AppendMapCount(buf, 1)
	buf = tag.AppendStr(buf, "k")
	buf = tag.AppendUint(buf, 1)

	r := NewReader(buf)
	r.ReadTag() // map
	// Read only the key: the value still counts against the frame.
	if _, err := r.ExpectStr(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := r.DoneMap()
	if CodeOf(err) != CodeInvalidData {
		t.Errorf("expected CodeInvalidData, got %v", err)
	}
}

func TestDoneWrongKind(t *testing.T) {
	buf := tag.AppendArrayCount(nil, 0)
	r := NewReader(buf)
	r.ReadTag()
	err := r.DoneMap()
	if CodeOf(err) != CodeInvalidData {
		t.Errorf("expected CodeInvalidData, got %v", err)
	}
}

func TestTooManyElementReads(t *testing.T) {
	var buf []byte
	buf = tag.AppendArrayCount(buf, 1)
	buf = tag.AppendUint(buf, 1)
	buf = tag.AppendUint(buf, 2) // next root value, not an element

	r := NewReader(buf)
	r.ReadTag()
	r.ReadTag()
	// The array declared one element; a second read is a caller bug.
	_, err := r.ReadTag()
	if CodeOf(err) != CodeOther {
		t.Errorf("expected CodeOther, got %v", err)
	}
}

func TestStickyFirstErrorWins(t *testing.T) {
	r := NewReader([]byte{0xc1, 0xc0}) // reserved prefix, then nil

	_, err := r.ReadTag()
	if CodeOf(err) != CodeInvalidData {
		t.Fatalf("expected CodeInvalidData, got %v", err)
	}
	off := r.Offset()

	// Every later operation reports the same latched fault and never
	// touches the buffer.
	_, err2 := r.ReadTag()
	if CodeOf(err2) != CodeInvalidData {
		t.Errorf("expected latched CodeInvalidData, got %v", err2)
	}
	if _, err := r.ExpectBool(); CodeOf(err) != CodeInvalidData {
		t.Errorf("expected latched CodeInvalidData, got %v", err)
	}
	if r.Offset() != off {
		t.Errorf("faulted reader advanced from %d to %d", off, r.Offset())
	}
	if r.IsOK() {
		t.Error("IsOK on a faulted reader")
	}
	if err := r.Destroy(); CodeOf(err) != CodeInvalidData {
		t.Errorf("expected latched fault from Destroy, got %v", err)
	}
}

func TestTruncatedHeader(t *testing.T) {
	r := NewReader([]byte{0xcd, 0x01}) // uint16 missing a byte
	_, err := r.ReadTag()
	if CodeOf(err) != CodeIO {
		t.Errorf("expected CodeIO, got %v", err)
	}
}

func TestPayloadBeyondBuffer(t *testing.T) {
	// str declares 10 payload bytes but only 2 follow.
	buf := append(tag.AppendStrLen(nil, 10), 'h', 'i')
	r := NewReader(buf)
	_, err := r.ReadTag()
	if CodeOf(err) != CodeIO {
		t.Errorf("expected CodeIO, got %v", err)
	}
}

func TestReadBytes(t *testing.T) {
	buf := tag.AppendStr(nil, "hello")
	r := NewReader(buf)
	if _, err := r.ReadTag(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dst := make([]byte, 5)
	if err := r.ReadBytes(dst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(dst) != "hello" {
		t.Errorf("expected hello, got %q", dst)
	}
	if err := r.DoneStr(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Destroy(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestReadBytesOverrun(t *testing.T) {
	buf := tag.AppendStr(nil, "hi")
	r := NewReader(buf)
	r.ReadTag()
	err := r.ReadBytes(make([]byte, 3))
	if CodeOf(err) != CodeInvalidData {
		t.Errorf("expected CodeInvalidData, got %v", err)
	}
}

func TestReadBytesNoFrame(t *testing.T) {
	buf := tag.AppendUint(nil, 1)
	r := NewReader(buf)
	err := r.ReadBytes(make([]byte, 1))
	if CodeOf(err) != CodeOther {
		t.Errorf("expected CodeOther, got %v", err)
	}
}

func TestSkipBytesResync(t *testing.T) {
	var buf []byte
	buf = tag.AppendStr(buf, "skip me")
	buf = tag.AppendUint(buf, 9)

	r := NewReader(buf)
	tg, err := r.ReadTag()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l, _ := tg.Len()
	r.SkipBytes(int(l))
	if err := r.DoneStr(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The stream is synchronized again.
	tg, err = r.ReadTag()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := tg.Uint(); v != 9 {
		t.Errorf("expected Uint(9), got %s", tg)
	}
	if err := r.Destroy(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSkipBytesClamps(t *testing.T) {
	buf := tag.AppendStr(nil, "ab")
	r := NewReader(buf)
	r.ReadTag()
	r.SkipBytes(100)
	if r.Remaining() != 0 {
		t.Errorf("expected cursor at end, %d bytes remain", r.Remaining())
	}
	if r.Code() != CodeOK {
		t.Errorf("SkipBytes latched %v", r.Code())
	}
}

func TestDiscardNested(t *testing.T) {
	var buf []byte
	buf = tag.AppendMapCount(buf, 2)
	buf = tag.AppendStr(buf, "a")
	buf = tag.AppendArrayCount(buf, 3)
	buf = tag.AppendUint(buf, 1)
	buf = tag.AppendStr(buf, "two")
	buf = tag.AppendNil(buf)
	buf = tag.AppendStr(buf, "b")
	buf = tag.AppendBin(buf, []byte{1, 2})
	buf = tag.AppendBool(buf, false) // trailing root value

	r := NewReader(buf)
	if err := r.Discard(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Depth() != 0 {
		t.Errorf("expected depth 0 after discard, got %d", r.Depth())
	}
	tg, err := r.ReadTag()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, ok := tg.Bool(); !ok || v {
		t.Errorf("expected Bool(false) after discard, got %s", tg)
	}
	if err := r.Destroy(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDiscardDepthBound(t *testing.T) {
	var buf []byte
	for i := 0; i < 5; i++ {
		buf = tag.AppendArrayCount(buf, 1)
	}
	buf = tag.AppendNil(buf)

	r := NewReader(buf, WithMaxDepth(3))
	err := r.Discard()
	if CodeOf(err) != CodeInvalidData {
		t.Errorf("expected CodeInvalidData, got %v", err)
	}
}

func TestDestroyWithOpenFrames(t *testing.T) {
	buf := tag.AppendArrayCount(nil, 2)
	r := NewReader(buf)
	r.ReadTag()
	err := r.Destroy()
	if CodeOf(err) != CodeOther {
		t.Errorf("expected CodeOther, got %v", err)
	}
	// Idempotent: a second Destroy reports the same fault.
	if err := r.Destroy(); CodeOf(err) != CodeOther {
		t.Errorf("expected CodeOther again, got %v", err)
	}
}

func TestUseAfterDestroy(t *testing.T) {
	r := NewReader(tag.AppendNil(nil))
	r.ReadTag()
	if err := r.Destroy(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := r.ReadTag()
	if CodeOf(err) != CodeOther {
		t.Errorf("expected CodeOther, got %v", err)
	}
}

func TestWithoutTracking(t *testing.T) {
	var buf []byte
	buf = tag.AppendArrayCount(buf, 2)
	buf = tag.AppendUint(buf, 1)
	buf = tag.AppendUint(buf, 2)

	r := NewReader(buf, WithoutTracking())
	r.ReadTag()
	if r.Depth() != 0 {
		t.Errorf("expected depth 0 without tracking, got %d", r.Depth())
	}
	r.ReadTag()
	// Closing early is not detected without tracking.
	if err := r.DoneArray(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	r.ReadTag()
	if err := r.Destroy(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStrictAssertsPanic(t *testing.T) {
	var buf []byte
	buf = tag.AppendArrayCount(buf, 1)
	buf = tag.AppendUint(buf, 1)
	buf = tag.AppendUint(buf, 2)

	r := NewReader(buf, WithStrictAsserts())
	r.ReadTag()
	r.ReadTag()

	defer func() {
		if recover() == nil {
			t.Error("expected panic under strict asserts")
		}
	}()
	r.ReadTag() // overruns the array's declared count
}

func TestErrorIsCodeMatch(t *testing.T) {
	r := NewReader([]byte{0xc1})
	_, err := r.ReadTag()
	if !errors.Is(err, &Error{Code: CodeInvalidData}) {
		t.Errorf("errors.Is code match failed for %v", err)
	}
	if errors.Is(err, &Error{Code: CodeIO}) {
		t.Errorf("errors.Is matched the wrong code for %v", err)
	}
}
