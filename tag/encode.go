package tag

import (
	"encoding/binary"
	"math"
)

// Append-style header encoders.  Each picks the smallest encoding the
// value fits in, mirroring what DecodeHeader accepts.

// AppendNil appends a nil header to dst.
func AppendNil(dst []byte) []byte {
	return append(dst, prefixNil)
}

// AppendBool appends a boolean to dst.
func AppendBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, prefixTrue)
	}
	return append(dst, prefixFalse)
}

// AppendUint appends an unsigned integer to dst.
func AppendUint(dst []byte, v uint64) []byte {
	switch {
	case v <= 0x7f:
		return append(dst, byte(v))
	case v <= 0xff:
		return append(dst, prefixUint8, byte(v))
	case v <= 0xffff:
		return binary.BigEndian.AppendUint16(append(dst, prefixUint16), uint16(v))
	case v <= 0xffffffff:
		return binary.BigEndian.AppendUint32(append(dst, prefixUint32), uint32(v))
	default:
		return binary.BigEndian.AppendUint64(append(dst, prefixUint64), v)
	}
}

// AppendInt appends a signed integer to dst.  Non-negative values use
// the unsigned encodings, as encoders conventionally do.
func AppendInt(dst []byte, v int64) []byte {
	if v >= 0 {
		return AppendUint(dst, uint64(v))
	}
	switch {
	case v >= -32:
		return append(dst, byte(v)) // negative fixint
	case v >= math.MinInt8:
		return append(dst, prefixInt8, byte(v))
	case v >= math.MinInt16:
		return binary.BigEndian.AppendUint16(append(dst, prefixInt16), uint16(v))
	case v >= math.MinInt32:
		return binary.BigEndian.AppendUint32(append(dst, prefixInt32), uint32(v))
	default:
		return binary.BigEndian.AppendUint64(append(dst, prefixInt64), uint64(v))
	}
}

// AppendFloat32 appends a single-precision float to dst.
func AppendFloat32(dst []byte, v float32) []byte {
	return binary.BigEndian.AppendUint32(append(dst, prefixFloat32), math.Float32bits(v))
}

// AppendFloat64 appends a double-precision float to dst.
func AppendFloat64(dst []byte, v float64) []byte {
	return binary.BigEndian.AppendUint64(append(dst, prefixFloat64), math.Float64bits(v))
}

// AppendStrLen appends a str header declaring n payload bytes.
func AppendStrLen(dst []byte, n uint32) []byte {
	switch {
	case n <= 31:
		return append(dst, 0xa0|byte(n))
	case n <= 0xff:
		return append(dst, prefixStr8, byte(n))
	case n <= 0xffff:
		return binary.BigEndian.AppendUint16(append(dst, prefixStr16), uint16(n))
	default:
		return binary.BigEndian.AppendUint32(append(dst, prefixStr32), n)
	}
}

// AppendBinLen appends a bin header declaring n payload bytes.
func AppendBinLen(dst []byte, n uint32) []byte {
	switch {
	case n <= 0xff:
		return append(dst, prefixBin8, byte(n))
	case n <= 0xffff:
		return binary.BigEndian.AppendUint16(append(dst, prefixBin16), uint16(n))
	default:
		return binary.BigEndian.AppendUint32(append(dst, prefixBin32), n)
	}
}

// AppendArrayCount appends an array header declaring n elements.
func AppendArrayCount(dst []byte, n uint32) []byte {
	switch {
	case n <= 15:
		return append(dst, 0x90|byte(n))
	case n <= 0xffff:
		return binary.BigEndian.AppendUint16(append(dst, prefixArray16), uint16(n))
	default:
		return binary.BigEndian.AppendUint32(append(dst, prefixArray32), n)
	}
}

// AppendMapCount appends a map header declaring n key/value pairs.
func AppendMapCount(dst []byte, n uint32) []byte {
	switch {
	case n <= 15:
		return append(dst, 0x80|byte(n))
	case n <= 0xffff:
		return binary.BigEndian.AppendUint16(append(dst, prefixMap16), uint16(n))
	default:
		return binary.BigEndian.AppendUint32(append(dst, prefixMap32), n)
	}
}

// AppendExtLen appends an ext header with the given type id declaring
// n payload bytes.
func AppendExtLen(dst []byte, typ int8, n uint32) []byte {
	switch n {
	case 1:
		return append(dst, prefixFixExt1, byte(typ))
	case 2:
		return append(dst, prefixFixExt2, byte(typ))
	case 4:
		return append(dst, prefixFixExt4, byte(typ))
	case 8:
		return append(dst, prefixFixExt8, byte(typ))
	case 16:
		return append(dst, prefixFixExt16, byte(typ))
	}
	switch {
	case n <= 0xff:
		return append(dst, prefixExt8, byte(n), byte(typ))
	case n <= 0xffff:
		dst = binary.BigEndian.AppendUint16(append(dst, prefixExt16), uint16(n))
		return append(dst, byte(typ))
	default:
		dst = binary.BigEndian.AppendUint32(append(dst, prefixExt32), n)
		return append(dst, byte(typ))
	}
}

// AppendStr appends a complete str value, header and payload.
func AppendStr(dst []byte, s string) []byte {
	dst = AppendStrLen(dst, uint32(len(s)))
	return append(dst, s...)
}

// AppendBin appends a complete bin value, header and payload.
func AppendBin(dst []byte, b []byte) []byte {
	dst = AppendBinLen(dst, uint32(len(b)))
	return append(dst, b...)
}

// AppendTag appends the header described by t.  Compound headers
// declare their payload; the caller is responsible for appending the
// payload bytes or elements.
func AppendTag(dst []byte, t Tag) []byte {
	switch t.typ {
	case TNil:
		return AppendNil(dst)
	case TBool:
		v, _ := t.Bool()
		return AppendBool(dst, v)
	case TInt:
		v, _ := t.Int()
		return AppendInt(dst, v)
	case TUint:
		v, _ := t.Uint()
		return AppendUint(dst, v)
	case TFloat32:
		v, _ := t.Float32()
		return AppendFloat32(dst, v)
	case TFloat64:
		v, _ := t.Float64()
		return AppendFloat64(dst, v)
	case TStr:
		return AppendStrLen(dst, t.n)
	case TBin:
		return AppendBinLen(dst, t.n)
	case TArray:
		return AppendArrayCount(dst, t.n)
	case TMap:
		return AppendMapCount(dst, t.n)
	case TExt:
		return AppendExtLen(dst, t.ext, t.n)
	default:
		return dst
	}
}
