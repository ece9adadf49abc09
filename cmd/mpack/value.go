package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/signadot/mpack-format/go-mpack/stream"
	"github.com/signadot/mpack-format/go-mpack/tag"
)

// Generic value materialization for the tool's json/yaml/diff/patch
// glue.  The library deliberately has no DOM layer; this one lives
// here and decodes into plain Go values: nil, bool, int64, uint64,
// float64, string, []byte, []any and map[string]any.  Non-string map
// keys are rendered to strings, which text formats require anyway.

func decodeValue(r *stream.Reader) (any, error) {
	t, err := r.ReadTag()
	if err != nil {
		return nil, err
	}
	switch t.Type() {
	case tag.TNil:
		return nil, nil
	case tag.TBool:
		v, _ := t.Bool()
		return v, nil
	case tag.TInt:
		v, _ := t.Int()
		return v, nil
	case tag.TUint:
		v, _ := t.Uint()
		return v, nil
	case tag.TFloat32:
		v, _ := t.Float32()
		return float64(v), nil
	case tag.TFloat64:
		v, _ := t.Float64()
		return v, nil
	case tag.TStr:
		l, _ := t.Len()
		buf := make([]byte, l)
		if err := r.ReadBytes(buf); err != nil {
			return nil, err
		}
		if err := r.DoneStr(); err != nil {
			return nil, err
		}
		return string(buf), nil
	case tag.TBin:
		l, _ := t.Len()
		buf := make([]byte, l)
		if err := r.ReadBytes(buf); err != nil {
			return nil, err
		}
		if err := r.DoneBin(); err != nil {
			return nil, err
		}
		return buf, nil
	case tag.TExt:
		et, _ := t.ExtType()
		l, _ := t.Len()
		buf := make([]byte, l)
		if err := r.ReadBytes(buf); err != nil {
			return nil, err
		}
		if err := r.DoneExt(); err != nil {
			return nil, err
		}
		return map[string]any{"$ext": int64(et), "$data": buf}, nil
	case tag.TArray:
		c, _ := t.Count()
		arr := make([]any, 0, c)
		for i := uint32(0); i < c; i++ {
			v, err := decodeValue(r)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if err := r.DoneArray(); err != nil {
			return nil, err
		}
		return arr, nil
	case tag.TMap:
		c, _ := t.Count()
		m := make(map[string]any, c)
		for i := uint32(0); i < c; i++ {
			k, err := decodeValue(r)
			if err != nil {
				return nil, err
			}
			v, err := decodeValue(r)
			if err != nil {
				return nil, err
			}
			m[keyString(k)] = v
		}
		if err := r.DoneMap(); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("cannot materialize %s", t)
	}
}

func keyString(k any) string {
	switch v := k.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case nil:
		return "null"
	default:
		return fmt.Sprint(v)
	}
}

func encodeValue(w *stream.Writer, v any) error {
	switch x := v.(type) {
	case nil:
		return w.WriteNil()
	case bool:
		return w.WriteBool(x)
	case int:
		return w.WriteInt(int64(x))
	case int64:
		return w.WriteInt(x)
	case uint64:
		return w.WriteUint(x)
	case float32:
		return w.WriteFloat32(x)
	case float64:
		return w.WriteFloat64(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return w.WriteInt(i)
		}
		f, err := x.Float64()
		if err != nil {
			return err
		}
		return w.WriteFloat64(f)
	case string:
		return w.WriteStr(x)
	case []byte:
		return w.WriteBin(x)
	case []any:
		if err := w.BeginArray(uint32(len(x))); err != nil {
			return err
		}
		for _, elt := range x {
			if err := encodeValue(w, elt); err != nil {
				return err
			}
		}
		return w.FinishArray()
	case map[string]any:
		if err := w.BeginMap(uint32(len(x))); err != nil {
			return err
		}
		// Sorted keys so output bytes are deterministic.
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := w.WriteStr(k); err != nil {
				return err
			}
			if err := encodeValue(w, x[k]); err != nil {
				return err
			}
		}
		return w.FinishMap()
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, val := range x {
			m[keyString(k)] = val
		}
		return encodeValue(w, m)
	default:
		return fmt.Errorf("cannot encode %T", v)
	}
}
