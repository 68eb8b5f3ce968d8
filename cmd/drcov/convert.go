package main

import (
	"fmt"
	"io"

	"github.com/wippyai/drcov/drcov"
)

// ConvertCmd re-encodes a drcov file. Either path may end in ".xz".
type ConvertCmd struct {
	In     string `arg:"" help:"Input drcov file" type:"existingfile"`
	Out    string `arg:"" help:"Output drcov file" type:"path"`
	Schema int    `help:"Module table version (1 = legacy, 2-4); 0 keeps the input's" default:"0"`
	Flavor string `help:"Replace the header flavor"`
}

func (c *ConvertCmd) Run(out io.Writer) error {
	data, err := drcov.ParseFile(c.In)
	if err != nil {
		return fmt.Errorf("failed to parse DrCov file '%s': %w", c.In, err)
	}

	if c.Schema != 0 {
		v := drcov.ModuleTableVersion(c.Schema)
		if !v.Valid() {
			return fmt.Errorf("unknown module table version %d", c.Schema)
		}
		data.ModuleVersion = v
	}
	if c.Flavor != "" {
		data.Header.Flavor = c.Flavor
	}

	if err := drcov.WriteFile(c.Out, data); err != nil {
		return fmt.Errorf("failed to write '%s': %w", c.Out, err)
	}
	fmt.Fprintf(out, "Wrote %s (module table %s, %d modules, %d blocks)\n",
		c.Out, data.ModuleVersion, len(data.Modules), len(data.BasicBlocks))
	return nil
}
