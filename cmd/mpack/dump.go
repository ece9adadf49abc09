package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/signadot/mpack-format/go-mpack/stream"
	"github.com/signadot/mpack-format/go-mpack/tag"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
)

func dump(cfg *DumpConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Dump.Parse(cc, args)
	if err != nil {
		cfg.Dump.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, arg := range args {
		data, err := readArg(cc, arg)
		if err != nil {
			return err
		}
		if err := dumpStream(cfg, cc.Out, data); err != nil {
			return fmt.Errorf("error dumping %s: %w", arg, err)
		}
	}
	return nil
}

// dumpColors maps tag types to sprintf-style color functions, with
// the identity function when color is off.
type dumpColors struct {
	number   func(string, ...any) string
	str      func(string, ...any) string
	bin      func(string, ...any) string
	boolean  func(string, ...any) string
	null     func(string, ...any) string
	compound func(string, ...any) string
	offset   func(string, ...any) string
}

func plain(v string, _ ...any) string { return v }

func newDumpColors(colorize bool) *dumpColors {
	if !colorize {
		return &dumpColors{
			number: plain, str: plain, bin: plain, boolean: plain,
			null: plain, compound: plain, offset: plain,
		}
	}
	return &dumpColors{
		number:   color.RGB(128, 216, 236).SprintfFunc(),
		str:      color.RGB(8, 196, 16).SprintfFunc(),
		bin:      color.RGB(198, 198, 46).SprintfFunc(),
		boolean:  color.CyanString,
		null:     color.RGB(168, 0, 196).SprintfFunc(),
		compound: color.RGB(196, 96, 16).SprintfFunc(),
		offset:   color.RGB(96, 96, 96).SprintfFunc(),
	}
}

func (c *dumpColors) tagColor(t tag.Tag) func(string, ...any) string {
	switch t.Type() {
	case tag.TNil:
		return c.null
	case tag.TBool:
		return c.boolean
	case tag.TInt, tag.TUint, tag.TFloat32, tag.TFloat64:
		return c.number
	case tag.TStr:
		return c.str
	case tag.TBin, tag.TExt:
		return c.bin
	default:
		return c.compound
	}
}

func dumpStream(cfg *DumpConfig, w io.Writer, data []byte) error {
	r := stream.NewReader(data)
	colors := newDumpColors(cfg.useColor(w))
	for r.Remaining() > 0 {
		if err := dumpValue(cfg, w, r, colors, 0); err != nil {
			return err
		}
	}
	return r.Destroy()
}

func dumpValue(cfg *DumpConfig, w io.Writer, r *stream.Reader, colors *dumpColors, depth int) error {
	off := r.Offset()
	t, err := r.ReadTag()
	if err != nil {
		return err
	}
	line := colors.offset(fmt.Sprintf("%08x  ", off)) +
		strings.Repeat("  ", depth) +
		colors.tagColor(t)("%s", t)

	switch t.Type() {
	case tag.TStr, tag.TBin, tag.TExt:
		l, _ := t.Len()
		buf := make([]byte, l)
		if err := r.ReadBytes(buf); err != nil {
			return err
		}
		var doneErr error
		switch t.Type() {
		case tag.TStr:
			doneErr = r.DoneStr()
			if cfg.Payload {
				line += " " + colors.str("%s", strconv.Quote(string(buf)))
			}
		case tag.TBin:
			doneErr = r.DoneBin()
			if cfg.Payload {
				line += " " + colors.bin("% x", buf)
			}
		default:
			doneErr = r.DoneExt()
			if cfg.Payload {
				line += " " + colors.bin("% x", buf)
			}
		}
		if doneErr != nil {
			return doneErr
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}

	case tag.TArray:
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		c, _ := t.Count()
		for i := uint32(0); i < c; i++ {
			if err := dumpValue(cfg, w, r, colors, depth+1); err != nil {
				return err
			}
		}
		return r.DoneArray()

	case tag.TMap:
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		c, _ := t.Count()
		for i := uint64(0); i < 2*uint64(c); i++ {
			if err := dumpValue(cfg, w, r, colors, depth+1); err != nil {
				return err
			}
		}
		return r.DoneMap()

	default:
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
