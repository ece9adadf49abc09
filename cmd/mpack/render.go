package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/signadot/mpack-format/go-mpack/format"

	"github.com/goccy/go-yaml"
)

// renderValue writes v to w in the selected text format.
func renderValue(w io.Writer, v any, f format.Format, compact bool) error {
	switch f {
	case format.YAMLFormat:
		d, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(d)
		return err
	case format.JSONFormat:
		var d []byte
		var err error
		if compact {
			d, err = json.Marshal(v)
		} else {
			d, err = json.MarshalIndent(v, "", "  ")
		}
		if err != nil {
			return err
		}
		if _, err := w.Write(d); err != nil {
			return err
		}
		_, err = w.Write([]byte("\n"))
		return err
	default:
		return fmt.Errorf("cannot render values as %s", f)
	}
}

// renderText renders v as a standalone text document, for diffing.
func renderText(v any, f format.Format) (string, error) {
	var buf bytes.Buffer
	if err := renderValue(&buf, v, f, false); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// parseText parses a text document in f into generic values.  JSON
// numbers stay json.Number so integers survive the round trip to
// MessagePack intact.
func parseText(data []byte, f format.Format) (any, error) {
	switch f {
	case format.YAMLFormat:
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case format.JSONFormat:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("cannot parse %s input", f)
	}
}
