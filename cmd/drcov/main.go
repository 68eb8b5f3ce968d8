// Command drcov inspects, converts and produces drcov coverage files.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/wippyai/drcov/drcov"
	"github.com/wippyai/drcov/wasmcov"
)

const version = "0.1.0"

// CLI defines the command-line interface for drcov.
type CLI struct {
	Verbose bool             `short:"v" help:"Enable debug logging"`
	Version kong.VersionFlag `help:"Print version information"`

	Info        InfoCmd        `cmd:"" help:"Print a summary of a drcov file"`
	Convert     ConvertCmd     `cmd:"" help:"Re-encode a drcov file with another module table version"`
	Fingerprint FingerprintCmd `cmd:"" help:"Print BLAKE3 fingerprints of drcov files"`
	Browse      BrowseCmd      `cmd:"" help:"Browse the module table interactively"`
	TraceWasm   TraceWasmCmd   `cmd:"" help:"Run a wasm module and record function coverage"`
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("drcov"),
		kong.Description("Read, convert and produce drcov coverage files."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{"version": version},
		kong.BindTo(os.Stdout, (*io.Writer)(nil)),
	)

	log, err := newLogger(cli.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	drcov.SetLogger(log)
	wasmcov.SetLogger(log)

	err = ctx.Run()
	_ = log.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
