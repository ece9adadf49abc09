package stream

import (
	"fmt"
	"io"

	"github.com/signadot/mpack-format/go-mpack/tag"
)

// Writer encodes MessagePack tags to an io.Writer, the exact inverse
// of what Reader decodes.  Like the Reader it latches the first fault
// and, with tracking on, enforces that every compound it begins is
// finished with exactly the declared number of children or bytes.
type Writer struct {
	w      io.Writer
	buf    []byte // scratch for headers and scalars
	offset int64

	code ErrorCode
	msg  string

	track     *tracker
	opts      options
	destroyed bool
}

// NewWriter creates a Writer encoding to w.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	o := newOptions(opts)
	wr := &Writer{w: w, opts: o, buf: make([]byte, 0, 16)}
	if o.tracking {
		wr.track = &tracker{}
	}
	return wr
}

// Err returns the latched fault, or nil.
func (w *Writer) Err() error {
	if w.code == CodeOK {
		return nil
	}
	return &Error{Code: w.code, Msg: w.msg}
}

// Code returns the latched fault code, CodeOK if none.
func (w *Writer) Code() ErrorCode { return w.code }

// IsOK returns true while no fault is latched.
func (w *Writer) IsOK() bool { return w.code == CodeOK }

// Offset returns the number of bytes written so far.
func (w *Writer) Offset() int64 { return w.offset }

// Depth returns the number of open compound frames.
func (w *Writer) Depth() int {
	if w.track == nil {
		return 0
	}
	return w.track.depth()
}

func (w *Writer) fail(code ErrorCode, msg string) error {
	if w.code == CodeOK {
		w.code = code
		w.msg = msg
	}
	return w.Err()
}

func (w *Writer) bug(msg string) error {
	if w.opts.strict {
		panic("mpack: " + msg)
	}
	return w.fail(CodeOther, msg)
}

func (w *Writer) ready() error {
	if w.code != CodeOK {
		return w.Err()
	}
	if w.destroyed {
		return w.bug("use of destroyed writer")
	}
	return nil
}

func (w *Writer) writeOut(b []byte) error {
	n, err := w.w.Write(b)
	w.offset += int64(n)
	if err != nil {
		return w.fail(CodeIO, err.Error())
	}
	return nil
}

func (w *Writer) writeString(s string) error {
	n, err := io.WriteString(w.w, s)
	w.offset += int64(n)
	if err != nil {
		return w.fail(CodeIO, err.Error())
	}
	return nil
}

// element records one value written into the innermost open compound.
func (w *Writer) element() error {
	if w.track == nil {
		return nil
	}
	if err := w.track.element(); err != nil {
		return w.bug(err.Error())
	}
	return nil
}

func (w *Writer) writeScalar(b []byte) error {
	if err := w.ready(); err != nil {
		return err
	}
	if err := w.element(); err != nil {
		return err
	}
	return w.writeOut(b)
}

// WriteNil writes a nil value.
func (w *Writer) WriteNil() error {
	return w.writeScalar(tag.AppendNil(w.buf[:0]))
}

// WriteBool writes a boolean value.
func (w *Writer) WriteBool(v bool) error {
	return w.writeScalar(tag.AppendBool(w.buf[:0], v))
}

// WriteInt writes a signed integer in the smallest encoding it fits.
func (w *Writer) WriteInt(v int64) error {
	return w.writeScalar(tag.AppendInt(w.buf[:0], v))
}

// WriteUint writes an unsigned integer in the smallest encoding it
// fits.
func (w *Writer) WriteUint(v uint64) error {
	return w.writeScalar(tag.AppendUint(w.buf[:0], v))
}

// WriteFloat32 writes a single-precision float.
func (w *Writer) WriteFloat32(v float32) error {
	return w.writeScalar(tag.AppendFloat32(w.buf[:0], v))
}

// WriteFloat64 writes a double-precision float.
func (w *Writer) WriteFloat64(v float64) error {
	return w.writeScalar(tag.AppendFloat64(w.buf[:0], v))
}

// WriteStr writes a complete str value, header and payload.
func (w *Writer) WriteStr(s string) error {
	if err := w.ready(); err != nil {
		return err
	}
	if err := w.element(); err != nil {
		return err
	}
	if err := w.writeOut(tag.AppendStrLen(w.buf[:0], uint32(len(s)))); err != nil {
		return err
	}
	return w.writeString(s)
}

// WriteBin writes a complete bin value, header and payload.
func (w *Writer) WriteBin(b []byte) error {
	if err := w.ready(); err != nil {
		return err
	}
	if err := w.element(); err != nil {
		return err
	}
	if err := w.writeOut(tag.AppendBinLen(w.buf[:0], uint32(len(b)))); err != nil {
		return err
	}
	return w.writeOut(b)
}

func (w *Writer) begin(header []byte, k frameKind, remaining uint64) error {
	if err := w.ready(); err != nil {
		return err
	}
	if err := w.element(); err != nil {
		return err
	}
	if err := w.writeOut(header); err != nil {
		return err
	}
	if w.track != nil {
		w.track.push(k, remaining)
	}
	return nil
}

// BeginArray opens an array of n elements.  The caller owes n value
// writes and a FinishArray.
func (w *Writer) BeginArray(n uint32) error {
	return w.begin(tag.AppendArrayCount(w.buf[:0], n), frameArray, uint64(n))
}

// BeginMap opens a map of n key/value pairs.  The caller owes 2*n
// value writes, alternating key then value, and a FinishMap.
func (w *Writer) BeginMap(n uint32) error {
	return w.begin(tag.AppendMapCount(w.buf[:0], n), frameMap, 2*uint64(n))
}

// BeginStr opens a str of n payload bytes, to be supplied via
// WriteBytes and closed with FinishStr.
func (w *Writer) BeginStr(n uint32) error {
	return w.begin(tag.AppendStrLen(w.buf[:0], n), frameStr, uint64(n))
}

// BeginBin opens a bin of n payload bytes.
func (w *Writer) BeginBin(n uint32) error {
	return w.begin(tag.AppendBinLen(w.buf[:0], n), frameBin, uint64(n))
}

// BeginExt opens an ext of n payload bytes with the given type id.
func (w *Writer) BeginExt(typ int8, n uint32) error {
	return w.begin(tag.AppendExtLen(w.buf[:0], typ, n), frameExt, uint64(n))
}

// WriteBytes supplies payload bytes to the open str, bin or ext.
func (w *Writer) WriteBytes(b []byte) error {
	if err := w.ready(); err != nil {
		return err
	}
	if w.track != nil {
		if err := w.track.bytes(len(b)); err != nil {
			return w.bug(err.Error())
		}
	}
	return w.writeOut(b)
}

// WriteTag writes the header described by t.  Compound headers open
// the corresponding frame, exactly as the Reader opens one when it
// decodes them; this is the primitive transcoders are built on.
func (w *Writer) WriteTag(t tag.Tag) error {
	switch t.Type() {
	case tag.TArray:
		c, _ := t.Count()
		return w.BeginArray(c)
	case tag.TMap:
		c, _ := t.Count()
		return w.BeginMap(c)
	case tag.TStr:
		l, _ := t.Len()
		return w.BeginStr(l)
	case tag.TBin:
		l, _ := t.Len()
		return w.BeginBin(l)
	case tag.TExt:
		et, _ := t.ExtType()
		l, _ := t.Len()
		return w.BeginExt(et, l)
	case tag.TMissing:
		return w.bug("write of missing tag")
	default:
		return w.writeScalar(tag.AppendTag(w.buf[:0], t))
	}
}

// FinishArray closes the open array frame.
func (w *Writer) FinishArray() error { return w.finish(frameArray) }

// FinishMap closes the open map frame.
func (w *Writer) FinishMap() error { return w.finish(frameMap) }

// FinishStr closes the open str frame.
func (w *Writer) FinishStr() error { return w.finish(frameStr) }

// FinishBin closes the open bin frame.
func (w *Writer) FinishBin() error { return w.finish(frameBin) }

// FinishExt closes the open ext frame.
func (w *Writer) FinishExt() error { return w.finish(frameExt) }

func (w *Writer) finish(k frameKind) error {
	if err := w.ready(); err != nil {
		return err
	}
	if w.track == nil {
		return nil
	}
	if err := w.track.close(k); err != nil {
		return w.bug(err.Error())
	}
	return nil
}

// Destroy finalizes the writer and returns the latched fault, if
// any.  Compounds still open are a caller bug.
func (w *Writer) Destroy() error {
	if w.destroyed {
		return w.Err()
	}
	if w.track != nil && w.code == CodeOK && w.track.depth() > 0 {
		w.bug(fmt.Sprintf("destroy with %d open compound(s)", w.track.depth()))
	}
	w.destroyed = true
	return w.Err()
}
