// Package tag implements the lexical layer of MessagePack: the Tag
// value describing one object header, and the pure functions that
// decode and encode headers against a byte buffer.
//
// A Tag carries the type and, for compound types (str, bin, array,
// map, ext), the declared payload length or element count.  It never
// carries payload bytes; those are consumed by the stream layer.
package tag
