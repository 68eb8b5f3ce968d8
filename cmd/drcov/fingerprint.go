package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/wippyai/drcov/drcov"
)

// FingerprintCmd prints one "<hex digest>  <path>" line per file.
type FingerprintCmd struct {
	Files []string `arg:"" help:"drcov files" type:"existingfile"`
}

func (c *FingerprintCmd) Run(out io.Writer) error {
	for _, path := range c.Files {
		data, err := drcov.ParseFile(path)
		if err != nil {
			return fmt.Errorf("failed to parse DrCov file '%s': %w", path, err)
		}
		sum, err := drcov.Fingerprint(data)
		if err != nil {
			return fmt.Errorf("fingerprint '%s': %w", path, err)
		}
		fmt.Fprintf(out, "%s  %s\n", hex.EncodeToString(sum[:]), path)
	}
	return nil
}
