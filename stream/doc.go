// Package stream provides tag-based streaming reading and writing of
// MessagePack data.
//
// The Reader walks a caller-supplied byte buffer one tag at a time
// and enforces, through a tracking stack, that every compound value
// it opens is fully and correctly traversed.  Errors are sticky: the
// first fault latches into the reader and every later operation
// no-ops and reports it, so callers may check errors when convenient
// rather than after every call.
//
// The Writer is the symmetric encoder over an io.Writer, with the
// same tracking discipline for values it opens.
//
// Neither type is safe for concurrent use.
package stream
