package stream

import "fmt"

// tracker is the stack of currently-open compound values.  Each frame
// records how much of the compound remains unconsumed: child values
// for arrays and maps (a map frame counts keys and values, twice its
// declared pair count), payload bytes for str, bin and ext.
//
// tracker methods report problems as plain errors; the Reader and
// Writer decide whether those become sticky faults or strict panics.
type tracker struct {
	frames []frame
}

type frameKind int

const (
	frameArray frameKind = iota
	frameMap
	frameStr
	frameBin
	frameExt
)

func (k frameKind) String() string {
	switch k {
	case frameArray:
		return "array"
	case frameMap:
		return "map"
	case frameStr:
		return "str"
	case frameBin:
		return "bin"
	case frameExt:
		return "ext"
	default:
		return "unknown"
	}
}

func (k frameKind) isBytes() bool {
	switch k {
	case frameStr, frameBin, frameExt:
		return true
	default:
		return false
	}
}

type frame struct {
	kind      frameKind
	remaining uint64
}

func (t *tracker) depth() int {
	return len(t.frames)
}

func (t *tracker) top() *frame {
	n := len(t.frames)
	if n == 0 {
		return nil
	}
	return &t.frames[n-1]
}

func (t *tracker) push(k frameKind, remaining uint64) {
	t.frames = append(t.frames, frame{kind: k, remaining: remaining})
}

func (t *tracker) pop() {
	t.frames = t.frames[:len(t.frames)-1]
}

// element records consumption of one child value in the innermost
// open compound, if any.  It fails on overrun and when a byte frame
// is open: both indicate the caller lost track of the structure, not
// malformed input.
func (t *tracker) element() error {
	top := t.top()
	if top == nil {
		return nil
	}
	if top.kind.isBytes() {
		return fmt.Errorf("tag read inside open %s", top.kind)
	}
	if top.remaining == 0 {
		return fmt.Errorf("too many reads in %s", top.kind)
	}
	top.remaining--
	return nil
}

// bytes records consumption of n payload bytes of the innermost open
// byte frame.
func (t *tracker) bytes(n int) error {
	top := t.top()
	if top == nil || !top.kind.isBytes() {
		return fmt.Errorf("bytes with no open str/bin/ext")
	}
	if top.remaining < uint64(n) {
		return fmt.Errorf("%d bytes exceed %d remaining in %s", n, top.remaining, top.kind)
	}
	top.remaining -= uint64(n)
	return nil
}

// close pops the top frame, which must match kind and have exactly
// zero remaining: the caller read the declared number of children or
// bytes, no more, no less.
func (t *tracker) close(k frameKind) error {
	top := t.top()
	if top == nil {
		return fmt.Errorf("close %s with no open compound", k)
	}
	if top.kind != k {
		return fmt.Errorf("close %s but top frame is %s", k, top.kind)
	}
	if top.remaining != 0 {
		return fmt.Errorf("close %s with %d unread", k, top.remaining)
	}
	t.pop()
	return nil
}
