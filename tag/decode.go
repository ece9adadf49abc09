package tag

import "encoding/binary"

// MessagePack prefix bytes.  Single-byte ranges (fixint, fixstr,
// fixarray, fixmap, negative fixint) are matched by range in
// DecodeHeader.
const (
	prefixNil   = 0xc0
	prefixNever = 0xc1 // reserved, never valid
	prefixFalse = 0xc2
	prefixTrue  = 0xc3

	prefixBin8  = 0xc4
	prefixBin16 = 0xc5
	prefixBin32 = 0xc6

	prefixExt8  = 0xc7
	prefixExt16 = 0xc8
	prefixExt32 = 0xc9

	prefixFloat32 = 0xca
	prefixFloat64 = 0xcb

	prefixUint8  = 0xcc
	prefixUint16 = 0xcd
	prefixUint32 = 0xce
	prefixUint64 = 0xcf

	prefixInt8  = 0xd0
	prefixInt16 = 0xd1
	prefixInt32 = 0xd2
	prefixInt64 = 0xd3

	prefixFixExt1  = 0xd4
	prefixFixExt2  = 0xd5
	prefixFixExt4  = 0xd6
	prefixFixExt8  = 0xd7
	prefixFixExt16 = 0xd8

	prefixStr8  = 0xd9
	prefixStr16 = 0xda
	prefixStr32 = 0xdb

	prefixArray16 = 0xdc
	prefixArray32 = 0xdd

	prefixMap16 = 0xde
	prefixMap32 = 0xdf
)

// DecodeHeader decodes one object header from the front of buf.  It
// returns the tag and the number of header bytes it describes; it
// never inspects payload bytes and never mutates anything.
//
// A reserved prefix byte yields ErrReserved; a buffer too short to
// hold the complete header yields ErrShortBuffer.
func DecodeHeader(buf []byte) (Tag, int, error) {
	if len(buf) == 0 {
		return Tag{}, 0, ErrShortBuffer
	}
	b := buf[0]

	// Single-byte encodings carry their value or length in the
	// prefix itself.
	switch {
	case b <= 0x7f: // positive fixint
		return FromUint(uint64(b)), 1, nil
	case b >= 0xe0: // negative fixint
		return FromInt(int64(int8(b))), 1, nil
	case b >= 0xa0 && b <= 0xbf: // fixstr
		return FromStrLen(uint32(b & 0x1f)), 1, nil
	case b >= 0x90 && b <= 0x9f: // fixarray
		return FromArrayCount(uint32(b & 0x0f)), 1, nil
	case b >= 0x80 && b <= 0x8f: // fixmap
		return FromMapCount(uint32(b & 0x0f)), 1, nil
	}

	switch b {
	case prefixNil:
		return Null(), 1, nil
	case prefixNever:
		return Tag{}, 0, ErrReserved
	case prefixFalse:
		return FromBool(false), 1, nil
	case prefixTrue:
		return FromBool(true), 1, nil

	case prefixBin8:
		n, ok := ru8(buf, 1)
		if !ok {
			return Tag{}, 0, ErrShortBuffer
		}
		return FromBinLen(uint32(n)), 2, nil
	case prefixBin16:
		n, ok := ru16(buf, 1)
		if !ok {
			return Tag{}, 0, ErrShortBuffer
		}
		return FromBinLen(uint32(n)), 3, nil
	case prefixBin32:
		n, ok := ru32(buf, 1)
		if !ok {
			return Tag{}, 0, ErrShortBuffer
		}
		return FromBinLen(n), 5, nil

	case prefixExt8:
		n, ok := ru8(buf, 1)
		if !ok || len(buf) < 3 {
			return Tag{}, 0, ErrShortBuffer
		}
		return FromExt(int8(buf[2]), uint32(n)), 3, nil
	case prefixExt16:
		n, ok := ru16(buf, 1)
		if !ok || len(buf) < 4 {
			return Tag{}, 0, ErrShortBuffer
		}
		return FromExt(int8(buf[3]), uint32(n)), 4, nil
	case prefixExt32:
		n, ok := ru32(buf, 1)
		if !ok || len(buf) < 6 {
			return Tag{}, 0, ErrShortBuffer
		}
		return FromExt(int8(buf[5]), n), 6, nil

	case prefixFloat32:
		n, ok := ru32(buf, 1)
		if !ok {
			return Tag{}, 0, ErrShortBuffer
		}
		return Tag{typ: TFloat32, bits: uint64(n)}, 5, nil
	case prefixFloat64:
		n, ok := ru64(buf, 1)
		if !ok {
			return Tag{}, 0, ErrShortBuffer
		}
		return Tag{typ: TFloat64, bits: n}, 9, nil

	case prefixUint8:
		n, ok := ru8(buf, 1)
		if !ok {
			return Tag{}, 0, ErrShortBuffer
		}
		return FromUint(uint64(n)), 2, nil
	case prefixUint16:
		n, ok := ru16(buf, 1)
		if !ok {
			return Tag{}, 0, ErrShortBuffer
		}
		return FromUint(uint64(n)), 3, nil
	case prefixUint32:
		n, ok := ru32(buf, 1)
		if !ok {
			return Tag{}, 0, ErrShortBuffer
		}
		return FromUint(uint64(n)), 5, nil
	case prefixUint64:
		n, ok := ru64(buf, 1)
		if !ok {
			return Tag{}, 0, ErrShortBuffer
		}
		return FromUint(n), 9, nil

	case prefixInt8:
		n, ok := ru8(buf, 1)
		if !ok {
			return Tag{}, 0, ErrShortBuffer
		}
		return FromInt(int64(int8(n))), 2, nil
	case prefixInt16:
		n, ok := ru16(buf, 1)
		if !ok {
			return Tag{}, 0, ErrShortBuffer
		}
		return FromInt(int64(int16(n))), 3, nil
	case prefixInt32:
		n, ok := ru32(buf, 1)
		if !ok {
			return Tag{}, 0, ErrShortBuffer
		}
		return FromInt(int64(int32(n))), 5, nil
	case prefixInt64:
		n, ok := ru64(buf, 1)
		if !ok {
			return Tag{}, 0, ErrShortBuffer
		}
		return FromInt(int64(n)), 9, nil

	case prefixFixExt1, prefixFixExt2, prefixFixExt4, prefixFixExt8, prefixFixExt16:
		if len(buf) < 2 {
			return Tag{}, 0, ErrShortBuffer
		}
		n := uint32(1) << (b - prefixFixExt1)
		return FromExt(int8(buf[1]), n), 2, nil

	case prefixStr8:
		n, ok := ru8(buf, 1)
		if !ok {
			return Tag{}, 0, ErrShortBuffer
		}
		return FromStrLen(uint32(n)), 2, nil
	case prefixStr16:
		n, ok := ru16(buf, 1)
		if !ok {
			return Tag{}, 0, ErrShortBuffer
		}
		return FromStrLen(uint32(n)), 3, nil
	case prefixStr32:
		n, ok := ru32(buf, 1)
		if !ok {
			return Tag{}, 0, ErrShortBuffer
		}
		return FromStrLen(n), 5, nil

	case prefixArray16:
		n, ok := ru16(buf, 1)
		if !ok {
			return Tag{}, 0, ErrShortBuffer
		}
		return FromArrayCount(uint32(n)), 3, nil
	case prefixArray32:
		n, ok := ru32(buf, 1)
		if !ok {
			return Tag{}, 0, ErrShortBuffer
		}
		return FromArrayCount(n), 5, nil

	case prefixMap16:
		n, ok := ru16(buf, 1)
		if !ok {
			return Tag{}, 0, ErrShortBuffer
		}
		return FromMapCount(uint32(n)), 3, nil
	case prefixMap32:
		n, ok := ru32(buf, 1)
		if !ok {
			return Tag{}, 0, ErrShortBuffer
		}
		return FromMapCount(n), 5, nil
	}

	// All 256 prefix byte values are matched above; 0xc1 is the only
	// reserved one.
	return Tag{}, 0, ErrReserved
}

func ru8(buf []byte, off int) (uint8, bool) {
	if len(buf) < off+1 {
		return 0, false
	}
	return buf[off], true
}

func ru16(buf []byte, off int) (uint16, bool) {
	if len(buf) < off+2 {
		return 0, false
	}
	return binary.BigEndian.Uint16(buf[off:]), true
}

func ru32(buf []byte, off int) (uint32, bool) {
	if len(buf) < off+4 {
		return 0, false
	}
	return binary.BigEndian.Uint32(buf[off:]), true
}

func ru64(buf []byte, off int) (uint64, bool) {
	if len(buf) < off+8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(buf[off:]), true
}
