package main

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/mpack-format/go-mpack/format"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='colorize output'"`
	Compact bool `cli:"name=compact desc='compact json output'"`

	J bool `cli:"name=j aliases=json desc='do text i/o in json'"`
	Y bool `cli:"name=y aliases=yaml desc='do text i/o in yaml'"`

	TextFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fp **format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		*fp = &f
		return f, nil
	})
}

// textFormat resolves the text side of a conversion: -T wins, then
// the -j/-y shorthands, defaulting to json.
func (cfg *MainConfig) textFormat() format.Format {
	if cfg.TextFormat != nil {
		return *cfg.TextFormat
	}
	switch {
	case cfg.Y:
		return format.YAMLFormat
	case cfg.J:
		return format.JSONFormat
	}
	return format.JSONFormat
}

func (cfg *MainConfig) useColor(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

type ViewConfig struct {
	*MainConfig

	View *cli.Command
}

type MakeConfig struct {
	*MainConfig

	Make *cli.Command
}

type DumpConfig struct {
	*MainConfig

	Payload bool `cli:"name=p aliases=payload desc='include str/bin payload bytes'"`

	Dump *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig

	File bool `cli:"name=f desc='consider patch arg a file path'"`

	Patch *cli.Command
}

type FilterConfig struct {
	*MainConfig

	File bool `cli:"name=f desc='consider expression arg a file path'"`

	Filter *cli.Command
}

// readArg reads the contents of a file argument, with "-" meaning the
// command's input stream.
func readArg(cc *cli.Context, arg string) ([]byte, error) {
	if arg == "-" {
		return io.ReadAll(cc.In)
	}
	d, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", arg, err)
	}
	return d, nil
}

func count(vs ...bool) int {
	ttl := 0
	for _, v := range vs {
		if v {
			ttl++
		}
	}
	return ttl
}
