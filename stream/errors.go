package stream

import "errors"

// ErrorCode classifies stream faults.  A reader or writer stores at
// most one: the first fault wins and is never overwritten.
type ErrorCode int

const (
	CodeOK ErrorCode = iota

	// CodeTypeMismatch: a tag's type or value range disagreed with
	// what the caller required.
	CodeTypeMismatch

	// CodeInvalidData: malformed encoding, such as a reserved prefix
	// byte, or a compound closed with children unread.
	CodeInvalidData

	// CodeIO: on the reader, the buffer ended before a declared
	// header or payload was satisfied; on the writer, the underlying
	// io.Writer failed.
	CodeIO

	// CodeMemory: a payload-copying read declared a length above the
	// configured allocation bound.
	CodeMemory

	// CodeUnexpectedName: an enum string matched no candidate name.
	CodeUnexpectedName

	// CodeOther: API misuse and library-internal faults, such as
	// reading past a compound's declared element count or operating
	// on a destroyed reader.
	CodeOther
)

func (c ErrorCode) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeTypeMismatch:
		return "type mismatch"
	case CodeInvalidData:
		return "invalid data"
	case CodeIO:
		return "i/o failure"
	case CodeMemory:
		return "allocation bound exceeded"
	case CodeUnexpectedName:
		return "unexpected name"
	case CodeOther:
		return "internal error"
	default:
		return "unknown"
	}
}

// Error is a stream fault: a code plus context.
type Error struct {
	Code ErrorCode
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Code.String()
	}
	return e.Code.String() + ": " + e.Msg
}

// Is reports code equality against another *Error with an empty Msg,
// so errors.Is(err, &Error{Code: CodeTypeMismatch}) works as a code
// test.
func (e *Error) Is(target error) bool {
	var te *Error
	if !errors.As(target, &te) {
		return false
	}
	return te.Code == e.Code && te.Msg == ""
}

// CodeOf extracts the ErrorCode from err, or CodeOK for nil and
// CodeOther for foreign errors.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeOther
}
