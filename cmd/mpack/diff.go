package main

import (
	"fmt"

	"github.com/signadot/mpack-format/go-mpack/stream"

	"github.com/scott-cotton/cli"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires exactly two arguments", cli.ErrUsage)
	}
	from, err := diffArgText(cfg, cc, args[0])
	if err != nil {
		return err
	}
	to, err := diffArgText(cfg, cc, args[1])
	if err != nil {
		return err
	}
	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMain(from, to, true)
	if cfg.useColor(cc.Out) {
		_, err = fmt.Fprint(cc.Out, diffCfg.DiffPrettyText(diffs))
		return err
	}
	patches := diffCfg.PatchMake(from, diffs)
	_, err = fmt.Fprint(cc.Out, diffCfg.PatchToText(patches))
	return err
}

// diffArgText decodes a MessagePack document and renders it as text,
// so the diff is over something a human can read.
func diffArgText(cfg *DiffConfig, cc *cli.Context, arg string) (string, error) {
	data, err := readArg(cc, arg)
	if err != nil {
		return "", err
	}
	r := stream.NewReader(data)
	v, err := decodeValue(r)
	if err != nil {
		return "", fmt.Errorf("error decoding %s: %w", arg, err)
	}
	if err := r.Destroy(); err != nil {
		return "", fmt.Errorf("error decoding %s: %w", arg, err)
	}
	return renderText(v, cfg.textFormat())
}
