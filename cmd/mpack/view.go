package main

import (
	"github.com/signadot/mpack-format/go-mpack/stream"

	"github.com/scott-cotton/cli"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		cfg.View.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, arg := range args {
		if err := viewArg(cfg, cc, arg); err != nil {
			return err
		}
	}
	return nil
}

func viewArg(cfg *ViewConfig, cc *cli.Context, arg string) error {
	data, err := readArg(cc, arg)
	if err != nil {
		return err
	}
	r := stream.NewReader(data)
	// A file may hold several concatenated values; render each.
	for r.Remaining() > 0 {
		v, err := decodeValue(r)
		if err != nil {
			return err
		}
		if err := renderValue(cc.Out, v, cfg.textFormat(), cfg.Compact); err != nil {
			return err
		}
	}
	return r.Destroy()
}
