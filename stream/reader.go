package stream

import (
	"errors"
	"fmt"

	"github.com/signadot/mpack-format/go-mpack/tag"
)

// Reader decodes MessagePack tags from a borrowed byte buffer.
//
// The buffer must stay valid and unmodified for the Reader's whole
// lifetime; the Reader never copies it.  A Reader is terminated by
// Destroy, which reports the latched fault and, with tracking on,
// flags compounds left open.
type Reader struct {
	data []byte
	pos  int

	// Sticky fault slot.  Set once by the first fault; every
	// operation checks it before touching the buffer.
	code ErrorCode
	msg  string

	track     *tracker // nil when tracking is disabled
	opts      options
	destroyed bool
}

// NewReader creates a Reader over data.
func NewReader(data []byte, opts ...Option) *Reader {
	o := newOptions(opts)
	r := &Reader{data: data, opts: o}
	if o.tracking {
		r.track = &tracker{}
	}
	return r
}

// Err returns the latched fault, or nil.
func (r *Reader) Err() error {
	if r.code == CodeOK {
		return nil
	}
	return &Error{Code: r.code, Msg: r.msg}
}

// Code returns the latched fault code, CodeOK if none.
func (r *Reader) Code() ErrorCode { return r.code }

// IsOK returns true while no fault is latched.
func (r *Reader) IsOK() bool { return r.code == CodeOK }

// Offset returns the cursor position in the buffer.
func (r *Reader) Offset() int { return r.pos }

// Remaining returns the number of unconsumed buffer bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// Depth returns the number of open compound frames.  Always 0 with
// tracking disabled.
func (r *Reader) Depth() int {
	if r.track == nil {
		return 0
	}
	return r.track.depth()
}

// fail latches code/msg if no fault is latched yet, and returns the
// latched fault (which may be an earlier one: first error wins).
func (r *Reader) fail(code ErrorCode, msg string) error {
	if r.code == CodeOK {
		r.code = code
		r.msg = msg
	}
	return r.Err()
}

// bug handles caller-bug conditions: panic under strict asserts,
// CodeOther otherwise.
func (r *Reader) bug(msg string) error {
	if r.opts.strict {
		panic("mpack: " + msg)
	}
	return r.fail(CodeOther, msg)
}

// ready gates every data operation on the fault slot and lifecycle.
func (r *Reader) ready() error {
	if r.code != CodeOK {
		return r.Err()
	}
	if r.destroyed {
		return r.bug("use of destroyed reader")
	}
	return nil
}

func (r *Reader) failDecode(err error) error {
	switch {
	case errors.Is(err, tag.ErrShortBuffer):
		return r.fail(CodeIO, "buffer ends inside a header")
	case errors.Is(err, tag.ErrReserved):
		return r.fail(CodeInvalidData, err.Error())
	default:
		return r.fail(CodeOther, err.Error())
	}
}

// PeekTag decodes the next tag without advancing the cursor.  On a
// faulted reader it returns the zero (Missing) tag and the latched
// fault.
func (r *Reader) PeekTag() (tag.Tag, error) {
	if err := r.ready(); err != nil {
		return tag.Tag{}, err
	}
	t, _, err := tag.DecodeHeader(r.data[r.pos:])
	if err != nil {
		return tag.Tag{}, r.failDecode(err)
	}
	return t, nil
}

// ReadTag decodes the next tag and advances past its header.  Reading
// a compound tag opens a tracking frame: arrays count their elements,
// maps count keys plus values (twice the declared pair count), and
// str/bin/ext count payload bytes, with the declared payload checked
// against the buffer up front.
func (r *Reader) ReadTag() (tag.Tag, error) {
	if err := r.ready(); err != nil {
		return tag.Tag{}, err
	}
	t, n, err := tag.DecodeHeader(r.data[r.pos:])
	if err != nil {
		return tag.Tag{}, r.failDecode(err)
	}
	if r.track != nil {
		if err := r.track.element(); err != nil {
			return tag.Tag{}, r.bug(err.Error())
		}
	}
	r.pos += n

	switch t.Type() {
	case tag.TArray:
		c, _ := t.Count()
		if r.track != nil {
			r.track.push(frameArray, uint64(c))
		}
	case tag.TMap:
		c, _ := t.Count()
		if r.track != nil {
			r.track.push(frameMap, 2*uint64(c))
		}
	case tag.TStr, tag.TBin, tag.TExt:
		l, _ := t.Len()
		if uint64(l) > uint64(r.Remaining()) {
			return tag.Tag{}, r.fail(CodeIO,
				fmt.Sprintf("%s declares %d payload bytes, %d in buffer", t.Type(), l, r.Remaining()))
		}
		if r.track != nil {
			r.track.push(byteKind(t.Type()), uint64(l))
		}
	}
	return t, nil
}

func byteKind(t tag.Type) frameKind {
	switch t {
	case tag.TStr:
		return frameStr
	case tag.TBin:
		return frameBin
	default:
		return frameExt
	}
}

// ReadBytes copies exactly len(dst) payload bytes of the open
// str/bin/ext into dst, decrementing the frame.  On failure the
// contents of dst are unspecified.
func (r *Reader) ReadBytes(dst []byte) error {
	if err := r.ready(); err != nil {
		return err
	}
	n := len(dst)
	if r.track != nil {
		top := r.track.top()
		if top == nil || !top.kind.isBytes() {
			return r.bug("byte read with no open str/bin/ext")
		}
		if top.remaining < uint64(n) {
			return r.fail(CodeInvalidData,
				fmt.Sprintf("%d byte read exceeds %d remaining in %s", n, top.remaining, top.kind))
		}
		top.remaining -= uint64(n)
	}
	if n > r.Remaining() {
		return r.fail(CodeIO, "byte read beyond end of buffer")
	}
	copy(dst, r.data[r.pos:r.pos+n])
	r.pos += n
	return nil
}

// SkipBytes advances the cursor by up to n bytes without error
// checking, clamped at the end of the buffer.  An open byte frame is
// decremented so tracking stays truthful during resynchronization.
// On a faulted or destroyed reader it does nothing.
func (r *Reader) SkipBytes(n int) {
	if r.code != CodeOK || r.destroyed || n <= 0 {
		return
	}
	if r.track != nil {
		if top := r.track.top(); top != nil && top.kind.isBytes() {
			d := uint64(n)
			if d > top.remaining {
				d = top.remaining
			}
			top.remaining -= d
		}
	}
	if n > r.Remaining() {
		n = r.Remaining()
	}
	r.pos += n
}

// Discard reads and fully consumes one value, recursively discarding
// the children of compound types.  Nesting beyond the configured
// depth bound faults with CodeInvalidData.
func (r *Reader) Discard() error {
	if err := r.ready(); err != nil {
		return err
	}
	return r.discard(0)
}

func (r *Reader) discard(depth int) error {
	if depth >= r.opts.maxDepth {
		return r.fail(CodeInvalidData, "nesting exceeds depth bound")
	}
	t, err := r.ReadTag()
	if err != nil {
		return err
	}
	switch t.Type() {
	case tag.TStr:
		l, _ := t.Len()
		r.SkipBytes(int(l))
		return r.DoneStr()
	case tag.TBin:
		l, _ := t.Len()
		r.SkipBytes(int(l))
		return r.DoneBin()
	case tag.TExt:
		l, _ := t.Len()
		r.SkipBytes(int(l))
		return r.DoneExt()
	case tag.TArray:
		c, _ := t.Count()
		for i := uint64(0); i < uint64(c); i++ {
			if err := r.discard(depth + 1); err != nil {
				return err
			}
		}
		return r.DoneArray()
	case tag.TMap:
		c, _ := t.Count()
		for i := uint64(0); i < 2*uint64(c); i++ {
			if err := r.discard(depth + 1); err != nil {
				return err
			}
		}
		return r.DoneMap()
	}
	return nil
}

// DoneArray closes the open array frame.  Fails unless the top frame
// is an array with all elements read.
func (r *Reader) DoneArray() error { return r.done(frameArray) }

// DoneMap closes the open map frame.  Fails unless the top frame is
// a map with all keys and values read.
func (r *Reader) DoneMap() error { return r.done(frameMap) }

// DoneStr closes the open str frame.  Fails unless all declared
// payload bytes were read or skipped.
func (r *Reader) DoneStr() error { return r.done(frameStr) }

// DoneBin closes the open bin frame.
func (r *Reader) DoneBin() error { return r.done(frameBin) }

// DoneExt closes the open ext frame.
func (r *Reader) DoneExt() error { return r.done(frameExt) }

func (r *Reader) done(k frameKind) error {
	if err := r.ready(); err != nil {
		return err
	}
	if r.track == nil {
		return nil
	}
	if err := r.track.close(k); err != nil {
		if r.opts.strict {
			panic("mpack: " + err.Error())
		}
		return r.fail(CodeInvalidData, err.Error())
	}
	return nil
}

// Destroy finalizes the reader and returns the latched fault, if
// any.  With tracking on, compounds still open at this point are a
// caller bug.  Destroy is idempotent; data operations after it are
// invalid.
func (r *Reader) Destroy() error {
	if r.destroyed {
		return r.Err()
	}
	if r.track != nil && r.code == CodeOK && r.track.depth() > 0 {
		r.bug(fmt.Sprintf("destroy with %d open compound(s)", r.track.depth()))
	}
	r.destroyed = true
	return r.Err()
}
