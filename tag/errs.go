package tag

import "errors"

var (
	// ErrShortBuffer indicates the buffer ended before a complete
	// header could be decoded.
	ErrShortBuffer = errors.New("short buffer")

	// ErrReserved indicates the reserved prefix byte 0xc1.
	ErrReserved = errors.New("reserved prefix byte")
)
