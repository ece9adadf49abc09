// Package mpack provides top-level conveniences over the MessagePack
// tag-stream codec in the stream and tag subpackages.
package mpack

import (
	"github.com/signadot/mpack-format/go-mpack/stream"
	"github.com/signadot/mpack-format/go-mpack/tag"
)

// Valid reports whether data is a non-empty sequence of complete,
// well-formed MessagePack values with no trailing garbage.
func Valid(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	r := stream.NewReader(data)
	for r.Remaining() > 0 {
		if err := r.Discard(); err != nil {
			return false
		}
	}
	return r.Destroy() == nil
}

// First returns the tag of the first value in data along with the
// value's total encoded size, header and payload and children
// included.
func First(data []byte) (tag.Tag, int, error) {
	t, _, err := tag.DecodeHeader(data)
	if err != nil {
		return tag.Tag{}, 0, err
	}
	n, err := Size(data)
	if err != nil {
		return tag.Tag{}, 0, err
	}
	return t, n, nil
}

// Size returns the encoded size in bytes of the first value in data.
func Size(data []byte) (int, error) {
	r := stream.NewReader(data)
	if err := r.Discard(); err != nil {
		return 0, err
	}
	n := r.Offset()
	if err := r.Destroy(); err != nil {
		return 0, err
	}
	return n, nil
}
