package tag

import (
	"fmt"
	"math"
)

// Type represents the decoded type of a MessagePack object header.
type Type int

const (
	// TMissing is the zero Type.  A Tag of this type is the sentinel
	// returned by stream operations on a faulted reader: there is no
	// tag, check the reader's error state instead.
	TMissing Type = iota
	TNil
	TBool
	TInt
	TUint
	TFloat32
	TFloat64
	TStr
	TBin
	TArray
	TMap
	TExt
)

func (t Type) String() string {
	switch t {
	case TMissing:
		return "Missing"
	case TNil:
		return "Nil"
	case TBool:
		return "Bool"
	case TInt:
		return "Int"
	case TUint:
		return "Uint"
	case TFloat32:
		return "Float32"
	case TFloat64:
		return "Float64"
	case TStr:
		return "Str"
	case TBin:
		return "Bin"
	case TArray:
		return "Array"
	case TMap:
		return "Map"
	case TExt:
		return "Ext"
	default:
		return "Unknown"
	}
}

// IsCompound returns true for types whose payload requires additional
// reads after the tag.
func (t Type) IsCompound() bool {
	switch t {
	case TStr, TBin, TArray, TMap, TExt:
		return true
	default:
		return false
	}
}

// IsNumeric returns true for int, uint and float types.
func (t Type) IsNumeric() bool {
	switch t {
	case TInt, TUint, TFloat32, TFloat64:
		return true
	default:
		return false
	}
}

// Tag is one decoded MessagePack object header.  It is immutable and
// owns no buffer memory.  The zero Tag has type TMissing.
//
// Accessors follow the comma-ok convention: a mismatched variant
// yields ok=false, never a bogus value.
type Tag struct {
	typ  Type
	bits uint64 // bool, int64 bits, uint64, or float bits
	n    uint32 // byte length (str/bin/ext) or element count (array/map)
	ext  int8
}

// Constructors.

func Null() Tag { return Tag{typ: TNil} }

func FromBool(v bool) Tag {
	var b uint64
	if v {
		b = 1
	}
	return Tag{typ: TBool, bits: b}
}

func FromInt(v int64) Tag   { return Tag{typ: TInt, bits: uint64(v)} }
func FromUint(v uint64) Tag { return Tag{typ: TUint, bits: v} }
func FromFloat32(v float32) Tag {
	return Tag{typ: TFloat32, bits: uint64(math.Float32bits(v))}
}
func FromFloat64(v float64) Tag {
	return Tag{typ: TFloat64, bits: math.Float64bits(v)}
}
func FromStrLen(n uint32) Tag    { return Tag{typ: TStr, n: n} }
func FromBinLen(n uint32) Tag    { return Tag{typ: TBin, n: n} }
func FromArrayCount(n uint32) Tag { return Tag{typ: TArray, n: n} }
func FromMapCount(n uint32) Tag  { return Tag{typ: TMap, n: n} }
func FromExt(typ int8, n uint32) Tag {
	return Tag{typ: TExt, n: n, ext: typ}
}

// Type returns the tag's type.
func (t Tag) Type() Type { return t.typ }

// IsNil returns true if the tag is a nil value.
func (t Tag) IsNil() bool { return t.typ == TNil }

// Bool returns the boolean value.
func (t Tag) Bool() (bool, bool) {
	if t.typ != TBool {
		return false, false
	}
	return t.bits != 0, true
}

// Int returns the signed integer value.
func (t Tag) Int() (int64, bool) {
	if t.typ != TInt {
		return 0, false
	}
	return int64(t.bits), true
}

// Uint returns the unsigned integer value.
func (t Tag) Uint() (uint64, bool) {
	if t.typ != TUint {
		return 0, false
	}
	return t.bits, true
}

// Float32 returns the single-precision float value.
func (t Tag) Float32() (float32, bool) {
	if t.typ != TFloat32 {
		return 0, false
	}
	return math.Float32frombits(uint32(t.bits)), true
}

// Float64 returns the double-precision float value.
func (t Tag) Float64() (float64, bool) {
	if t.typ != TFloat64 {
		return 0, false
	}
	return math.Float64frombits(t.bits), true
}

// Len returns the declared payload byte length of a str, bin or ext
// tag.
func (t Tag) Len() (uint32, bool) {
	switch t.typ {
	case TStr, TBin, TExt:
		return t.n, true
	default:
		return 0, false
	}
}

// Count returns the declared element count of an array or map tag.
// For maps this is the number of key/value pairs, not the number of
// child values.
func (t Tag) Count() (uint32, bool) {
	switch t.typ {
	case TArray, TMap:
		return t.n, true
	default:
		return 0, false
	}
}

// ExtType returns the application-defined type id of an ext tag.
func (t Tag) ExtType() (int8, bool) {
	if t.typ != TExt {
		return 0, false
	}
	return t.ext, true
}

func (t Tag) String() string {
	switch t.typ {
	case TBool:
		v, _ := t.Bool()
		return fmt.Sprintf("Bool(%t)", v)
	case TInt:
		v, _ := t.Int()
		return fmt.Sprintf("Int(%d)", v)
	case TUint:
		v, _ := t.Uint()
		return fmt.Sprintf("Uint(%d)", v)
	case TFloat32:
		v, _ := t.Float32()
		return fmt.Sprintf("Float32(%g)", v)
	case TFloat64:
		v, _ := t.Float64()
		return fmt.Sprintf("Float64(%g)", v)
	case TStr, TBin:
		return fmt.Sprintf("%s(%d)", t.typ, t.n)
	case TArray, TMap:
		return fmt.Sprintf("%s(%d)", t.typ, t.n)
	case TExt:
		return fmt.Sprintf("Ext(%d, %d)", t.ext, t.n)
	default:
		return t.typ.String()
	}
}
