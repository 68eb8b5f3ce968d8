package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/wippyai/drcov/drcov"
	"github.com/wippyai/drcov/wasmcov"
)

// TraceWasmCmd runs a wasm module and writes its function coverage.
type TraceWasmCmd struct {
	Wasm   string   `arg:"" help:"Core wasm module" type:"existingfile"`
	Args   []string `arg:"" optional:"" passthrough:"" help:"Arguments passed to the guest"`
	Out    string   `short:"o" required:"" help:"Output drcov file" type:"path"`
	Func   string   `help:"Exported function to run instead of _start"`
	Name   string   `help:"Module path recorded in the output (default: file name)"`
	Flavor string   `help:"Header flavor" default:"wasmcov"`
}

func (c *TraceWasmCmd) Run(out io.Writer) error {
	wasm, err := os.ReadFile(c.Wasm)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	name := c.Name
	if name == "" {
		name = filepath.Base(c.Wasm)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	data, runErr := wasmcov.Trace(ctx, wasm, wasmcov.Config{
		ModuleName: name,
		Flavor:     c.Flavor,
		Function:   c.Func,
		Args:       c.Args,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	})
	if data == nil {
		return runErr
	}

	if err := drcov.WriteFile(c.Out, data); err != nil {
		return fmt.Errorf("failed to write '%s': %w", c.Out, err)
	}
	fmt.Fprintf(out, "Wrote %s (%d functions covered)\n", c.Out, len(data.BasicBlocks))
	return runErr
}
