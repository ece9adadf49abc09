package main

import (
	"encoding/json"
	"fmt"

	"github.com/signadot/mpack-format/go-mpack/format"
	"github.com/signadot/mpack-format/go-mpack/stream"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/scott-cotton/cli"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: patch requires a json patch argument", cli.ErrUsage)
	}
	patchArg := args[0]
	args = args[1:]
	patchData := []byte(patchArg)
	if cfg.File {
		patchData, err = readArg(cc, patchArg)
		if err != nil {
			return err
		}
	}
	ops, err := jsonpatch.DecodePatch(patchData)
	if err != nil {
		return fmt.Errorf("error decoding patch: %w", err)
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	w := stream.NewWriter(cc.Out)
	for _, arg := range args {
		if err := patchArgDoc(cc, w, ops, arg); err != nil {
			return err
		}
	}
	return w.Destroy()
}

// patchArgDoc routes one MessagePack document through a JSON
// rendering, applies the patch there, and re-encodes the result.
func patchArgDoc(cc *cli.Context, w *stream.Writer, ops jsonpatch.Patch, arg string) error {
	data, err := readArg(cc, arg)
	if err != nil {
		return err
	}
	r := stream.NewReader(data)
	v, err := decodeValue(r)
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", arg, err)
	}
	if err := r.Destroy(); err != nil {
		return fmt.Errorf("error decoding %s: %w", arg, err)
	}
	doc, err := json.Marshal(v)
	if err != nil {
		return err
	}
	patched, err := ops.Apply(doc)
	if err != nil {
		return fmt.Errorf("error patching %s: %w", arg, err)
	}
	pv, err := parseText(patched, format.JSONFormat)
	if err != nil {
		return err
	}
	return encodeValue(w, pv)
}
