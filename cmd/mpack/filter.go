package main

import (
	"fmt"

	"github.com/signadot/mpack-format/go-mpack/stream"

	"github.com/expr-lang/expr"
	"github.com/scott-cotton/cli"
)

func filter(cfg *FilterConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Filter.Parse(cc, args)
	if err != nil {
		cfg.Filter.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: filter requires an expression argument", cli.ErrUsage)
	}
	src := args[0]
	args = args[1:]
	if cfg.File {
		d, err := readArg(cc, src)
		if err != nil {
			return err
		}
		src = string(d)
	}
	program, err := expr.Compile(src)
	if err != nil {
		return fmt.Errorf("error compiling expression: %w", err)
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, arg := range args {
		data, err := readArg(cc, arg)
		if err != nil {
			return err
		}
		r := stream.NewReader(data)
		for r.Remaining() > 0 {
			v, err := decodeValue(r)
			if err != nil {
				return fmt.Errorf("error decoding %s: %w", arg, err)
			}
			res, err := expr.Run(program, map[string]any{"doc": v})
			if err != nil {
				return fmt.Errorf("error evaluating against %s: %w", arg, err)
			}
			if err := renderValue(cc.Out, res, cfg.textFormat(), cfg.Compact); err != nil {
				return err
			}
		}
		if err := r.Destroy(); err != nil {
			return fmt.Errorf("error decoding %s: %w", arg, err)
		}
	}
	return nil
}
