package stream

import (
	"fmt"
	"math"

	"github.com/signadot/mpack-format/go-mpack/tag"
)

// The Expect family reads one tag, validates its type and value
// range, and converts.  A violation faults with CodeTypeMismatch;
// either way the cursor ends up past the consumed tag, so a failed
// expect is local and never rewinds the stream.

// enumNameCap bounds the local buffer ExpectEnum matches against.
// Candidate names longer than this can never match.
const enumNameCap = 64

func (r *Reader) typeMismatch(want string, t tag.Tag) error {
	return r.fail(CodeTypeMismatch, fmt.Sprintf("expected %s, got %s", want, t))
}

// ExpectNil reads a tag and requires it be nil.
func (r *Reader) ExpectNil() error {
	t, err := r.ReadTag()
	if err != nil {
		return err
	}
	if !t.IsNil() {
		return r.typeMismatch("nil", t)
	}
	return nil
}

// ExpectBool reads a tag and requires it be a boolean.
func (r *Reader) ExpectBool() (bool, error) {
	t, err := r.ReadTag()
	if err != nil {
		return false, err
	}
	v, ok := t.Bool()
	if !ok {
		return false, r.typeMismatch("bool", t)
	}
	return v, nil
}

// uintOf widens an integer tag of either signedness to uint64.
func uintOf(t tag.Tag) (uint64, bool) {
	if u, ok := t.Uint(); ok {
		return u, true
	}
	if i, ok := t.Int(); ok && i >= 0 {
		return uint64(i), true
	}
	return 0, false
}

// intOf widens an integer tag of either signedness to int64.
func intOf(t tag.Tag) (int64, bool) {
	if i, ok := t.Int(); ok {
		return i, true
	}
	if u, ok := t.Uint(); ok && u <= math.MaxInt64 {
		return int64(u), true
	}
	return 0, false
}

// ExpectUintRange reads an unsigned integer and requires
// min <= v <= max.
func (r *Reader) ExpectUintRange(min, max uint64) (uint64, error) {
	t, err := r.ReadTag()
	if err != nil {
		return 0, err
	}
	v, ok := uintOf(t)
	if !ok {
		return 0, r.typeMismatch("uint", t)
	}
	if v < min || v > max {
		return 0, r.fail(CodeTypeMismatch, fmt.Sprintf("uint %d outside [%d, %d]", v, min, max))
	}
	return v, nil
}

// ExpectIntRange reads a signed integer and requires min <= v <= max.
func (r *Reader) ExpectIntRange(min, max int64) (int64, error) {
	t, err := r.ReadTag()
	if err != nil {
		return 0, err
	}
	v, ok := intOf(t)
	if !ok {
		return 0, r.typeMismatch("int", t)
	}
	if v < min || v > max {
		return 0, r.fail(CodeTypeMismatch, fmt.Sprintf("int %d outside [%d, %d]", v, min, max))
	}
	return v, nil
}

// ExpectU64 reads any non-negative integer.
func (r *Reader) ExpectU64() (uint64, error) {
	t, err := r.ReadTag()
	if err != nil {
		return 0, err
	}
	v, ok := uintOf(t)
	if !ok {
		return 0, r.typeMismatch("uint", t)
	}
	return v, nil
}

// ExpectU32 reads a non-negative integer representable in 32 bits.
func (r *Reader) ExpectU32() (uint32, error) {
	v, err := r.ExpectUintRange(0, math.MaxUint32)
	return uint32(v), err
}

// ExpectU16 reads a non-negative integer representable in 16 bits.
func (r *Reader) ExpectU16() (uint16, error) {
	v, err := r.ExpectUintRange(0, math.MaxUint16)
	return uint16(v), err
}

// ExpectU8 reads a non-negative integer representable in 8 bits.
func (r *Reader) ExpectU8() (uint8, error) {
	v, err := r.ExpectUintRange(0, math.MaxUint8)
	return uint8(v), err
}

// ExpectI64 reads any integer representable as int64.
func (r *Reader) ExpectI64() (int64, error) {
	t, err := r.ReadTag()
	if err != nil {
		return 0, err
	}
	v, ok := intOf(t)
	if !ok {
		return 0, r.typeMismatch("int", t)
	}
	return v, nil
}

// ExpectI32 reads an integer representable in 32 bits.
func (r *Reader) ExpectI32() (int32, error) {
	v, err := r.ExpectIntRange(math.MinInt32, math.MaxInt32)
	return int32(v), err
}

// ExpectI16 reads an integer representable in 16 bits.
func (r *Reader) ExpectI16() (int16, error) {
	v, err := r.ExpectIntRange(math.MinInt16, math.MaxInt16)
	return int16(v), err
}

// ExpectI8 reads an integer representable in 8 bits.
func (r *Reader) ExpectI8() (int8, error) {
	v, err := r.ExpectIntRange(math.MinInt8, math.MaxInt8)
	return int8(v), err
}

// ExpectFloat64 reads any numeric tag (int, uint, float32, float64)
// and converts it to a double, preserving value where possible.
func (r *Reader) ExpectFloat64() (float64, error) {
	t, err := r.ReadTag()
	if err != nil {
		return 0, err
	}
	switch t.Type() {
	case tag.TFloat64:
		v, _ := t.Float64()
		return v, nil
	case tag.TFloat32:
		v, _ := t.Float32()
		return float64(v), nil
	case tag.TInt:
		v, _ := t.Int()
		return float64(v), nil
	case tag.TUint:
		v, _ := t.Uint()
		return float64(v), nil
	default:
		return 0, r.typeMismatch("number", t)
	}
}

// ExpectFloat64Strict is ExpectFloat64 restricted to float tags, so
// no integer is silently converted.  float32 widens losslessly and
// is accepted.
func (r *Reader) ExpectFloat64Strict() (float64, error) {
	t, err := r.ReadTag()
	if err != nil {
		return 0, err
	}
	switch t.Type() {
	case tag.TFloat64:
		v, _ := t.Float64()
		return v, nil
	case tag.TFloat32:
		v, _ := t.Float32()
		return float64(v), nil
	default:
		return 0, r.typeMismatch("float", t)
	}
}

// ExpectFloat32 reads any numeric tag and converts it to a single,
// possibly losing precision.
func (r *Reader) ExpectFloat32() (float32, error) {
	t, err := r.ReadTag()
	if err != nil {
		return 0, err
	}
	switch t.Type() {
	case tag.TFloat32:
		v, _ := t.Float32()
		return v, nil
	case tag.TFloat64:
		v, _ := t.Float64()
		return float32(v), nil
	case tag.TInt:
		v, _ := t.Int()
		return float32(v), nil
	case tag.TUint:
		v, _ := t.Uint()
		return float32(v), nil
	default:
		return 0, r.typeMismatch("number", t)
	}
}

// ExpectFloat32Strict accepts only a float32 tag.
func (r *Reader) ExpectFloat32Strict() (float32, error) {
	t, err := r.ReadTag()
	if err != nil {
		return 0, err
	}
	v, ok := t.Float32()
	if !ok {
		return 0, r.typeMismatch("float32", t)
	}
	return v, nil
}

// ExpectArray reads a tag, requires it be an array, and returns its
// element count.  The tracking frame is opened by the tag read; the
// caller owes that many element reads and a DoneArray.
func (r *Reader) ExpectArray() (uint32, error) {
	t, err := r.ReadTag()
	if err != nil {
		return 0, err
	}
	if t.Type() != tag.TArray {
		return 0, r.typeMismatch("array", t)
	}
	c, _ := t.Count()
	return c, nil
}

// ExpectArrayMatch is ExpectArray requiring exactly n elements.  On
// count mismatch the tag is still consumed.
func (r *Reader) ExpectArrayMatch(n uint32) error {
	c, err := r.ExpectArray()
	if err != nil {
		return err
	}
	if c != n {
		return r.fail(CodeTypeMismatch, fmt.Sprintf("array of %d elements, expected %d", c, n))
	}
	return nil
}

// ExpectMap reads a tag, requires it be a map, and returns its pair
// count.  The caller owes 2*count child reads and a DoneMap, in wire
// order: key, value, alternating.
func (r *Reader) ExpectMap() (uint32, error) {
	t, err := r.ReadTag()
	if err != nil {
		return 0, err
	}
	if t.Type() != tag.TMap {
		return 0, r.typeMismatch("map", t)
	}
	c, _ := t.Count()
	return c, nil
}

// ExpectMapMatch is ExpectMap requiring exactly n pairs.
func (r *Reader) ExpectMapMatch(n uint32) error {
	c, err := r.ExpectMap()
	if err != nil {
		return err
	}
	if c != n {
		return r.fail(CodeTypeMismatch, fmt.Sprintf("map of %d pairs, expected %d", c, n))
	}
	return nil
}

// ExpectStrStart opens a str and returns its byte length.  The caller
// owes ReadBytes calls totaling exactly that length, then DoneStr.
func (r *Reader) ExpectStrStart() (uint32, error) {
	t, err := r.ReadTag()
	if err != nil {
		return 0, err
	}
	if t.Type() != tag.TStr {
		return 0, r.typeMismatch("str", t)
	}
	l, _ := t.Len()
	return l, nil
}

// ExpectBinStart opens a bin and returns its byte length.
func (r *Reader) ExpectBinStart() (uint32, error) {
	t, err := r.ReadTag()
	if err != nil {
		return 0, err
	}
	if t.Type() != tag.TBin {
		return 0, r.typeMismatch("bin", t)
	}
	l, _ := t.Len()
	return l, nil
}

// ExpectExtStart opens an ext and returns its type id and byte
// length.
func (r *Reader) ExpectExtStart() (int8, uint32, error) {
	t, err := r.ReadTag()
	if err != nil {
		return 0, 0, err
	}
	if t.Type() != tag.TExt {
		return 0, 0, r.typeMismatch("ext", t)
	}
	et, _ := t.ExtType()
	l, _ := t.Len()
	return et, l, nil
}

// ExpectStr reads a complete str value into a new string.  Declared
// lengths above the allocation bound fault with CodeMemory after
// consuming the payload.
func (r *Reader) ExpectStr() (string, error) {
	n, err := r.ExpectStrStart()
	if err != nil {
		return "", err
	}
	if int64(n) > int64(r.opts.maxAlloc) {
		r.SkipBytes(int(n))
		if err := r.DoneStr(); err != nil {
			return "", err
		}
		return "", r.fail(CodeMemory, fmt.Sprintf("str of %d bytes exceeds allocation bound", n))
	}
	buf := make([]byte, n)
	if err := r.ReadBytes(buf); err != nil {
		return "", err
	}
	if err := r.DoneStr(); err != nil {
		return "", err
	}
	return string(buf), nil
}

// ExpectBin reads a complete bin value into a new byte slice.
func (r *Reader) ExpectBin() ([]byte, error) {
	n, err := r.ExpectBinStart()
	if err != nil {
		return nil, err
	}
	if int64(n) > int64(r.opts.maxAlloc) {
		r.SkipBytes(int(n))
		if err := r.DoneBin(); err != nil {
			return nil, err
		}
		return nil, r.fail(CodeMemory, fmt.Sprintf("bin of %d bytes exceeds allocation bound", n))
	}
	buf := make([]byte, n)
	if err := r.ReadBytes(buf); err != nil {
		return nil, err
	}
	if err := r.DoneBin(); err != nil {
		return nil, err
	}
	return buf, nil
}

// ExpectEnum reads a str tag and matches it against the candidate
// names, returning the index of the match.  The string is read into a
// fixed-capacity local buffer, never allocated.  On any failure the
// value is still fully consumed so the stream stays synchronized:
// a non-str tag faults with CodeTypeMismatch, an oversized or
// unmatched name with CodeUnexpectedName.
func (r *Reader) ExpectEnum(names ...string) (int, error) {
	t, err := r.ReadTag()
	if err != nil {
		return -1, err
	}
	if t.Type() != tag.TStr {
		return -1, r.typeMismatch("str", t)
	}
	maxLen := 0
	for _, name := range names {
		if len(name) > maxLen {
			maxLen = len(name)
		}
	}
	if maxLen > enumNameCap {
		maxLen = enumNameCap
	}
	n, _ := t.Len()
	if n > uint32(maxLen) {
		// Cannot match any candidate; consume without copying.
		r.SkipBytes(int(n))
		if err := r.DoneStr(); err != nil {
			return -1, err
		}
		return -1, r.fail(CodeUnexpectedName,
			fmt.Sprintf("%d byte name exceeds longest candidate (%d)", n, maxLen))
	}
	var buf [enumNameCap]byte
	if err := r.ReadBytes(buf[:n]); err != nil {
		return -1, err
	}
	if err := r.DoneStr(); err != nil {
		return -1, err
	}
	for i, name := range names {
		if name == string(buf[:n]) {
			return i, nil
		}
	}
	return -1, r.fail(CodeUnexpectedName, fmt.Sprintf("name %q matches no candidate", buf[:n]))
}
