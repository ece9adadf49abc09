package main

import (
	"github.com/signadot/mpack-format/go-mpack/stream"

	"github.com/scott-cotton/cli"
)

func mk(cfg *MakeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Make.Parse(cc, args)
	if err != nil {
		cfg.Make.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	w := stream.NewWriter(cc.Out)
	for _, arg := range args {
		data, err := readArg(cc, arg)
		if err != nil {
			return err
		}
		v, err := parseText(data, cfg.textFormat())
		if err != nil {
			return err
		}
		if err := encodeValue(w, v); err != nil {
			return err
		}
	}
	return w.Destroy()
}
