package wasmcov

import (
	"context"
	stderrors "errors"
	"io"
	"math"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/experimental"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/wippyai/drcov/drcov"
	"github.com/wippyai/drcov/errors"
)

// Defaults applied by Trace when Config leaves a field empty.
const (
	DefaultModuleName = "module.wasm"
	DefaultFlavor     = "wasmcov"
	startFunction     = "_start"
)

// Config holds configuration for a traced run
type Config struct {
	// Stdout and Stderr receive the guest's output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer

	// ModuleName is recorded as the module path and passed as argv[0].
	ModuleName string

	// Flavor is written to the drcov header.
	Flavor string

	// Function is the export to run. Empty runs the WASI "_start" export
	// when the module has one.
	Function string

	// Args are passed to the guest after argv[0].
	Args []string
}

func (c Config) withDefaults() Config {
	if c.ModuleName == "" {
		c.ModuleName = DefaultModuleName
	}
	if c.Flavor == "" {
		c.Flavor = DefaultFlavor
	}
	return c
}

// Trace runs wasm under the wazero interpreter and returns the functions
// it entered as drcov coverage. The result has one V4 module spanning the
// binary; each entered function contributes one block covering its body.
//
// If the guest traps or exits with a non-zero code, the coverage collected
// up to that point is returned together with the error.
func Trace(ctx context.Context, wasm []byte, cfg Config) (*drcov.CoverageData, error) {
	cfg = cfg.withDefaults()

	code, err := ScanCode(wasm)
	if err != nil {
		return nil, err
	}

	r := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	defer r.Close(ctx)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		return nil, errors.Wrap(errors.PhaseTrace, errors.KindIO, err, "instantiate wasi")
	}

	rec := NewRecorder()
	compiled, err := r.CompileModule(experimental.WithFunctionListenerFactory(ctx, rec), wasm)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseTrace, errors.KindInvalidFormat, err, "compile module")
	}
	imported := uint32(len(compiled.ImportedFunctions()))

	start := startFunction
	if cfg.Function != "" {
		start = cfg.Function
		if _, ok := compiled.ExportedFunctions()[start]; !ok {
			return nil, errors.New(errors.PhaseTrace, errors.KindValidation).
				Value(start).
				Detail("module does not export function %q", start).
				Build()
		}
	}

	modCfg := wazero.NewModuleConfig().
		WithName(cfg.ModuleName).
		WithArgs(append([]string{cfg.ModuleName}, cfg.Args...)...).
		WithStartFunctions(start)
	if cfg.Stdout != nil {
		modCfg = modCfg.WithStdout(cfg.Stdout)
	}
	if cfg.Stderr != nil {
		modCfg = modCfg.WithStderr(cfg.Stderr)
	}

	Logger().Debug("tracing module",
		zap.String("module", cfg.ModuleName),
		zap.String("function", start),
		zap.Int("functions", len(code.Bodies)),
		zap.Uint32("imported", imported))

	var runErr error
	mod, err := r.InstantiateModule(ctx, compiled, modCfg)
	if err != nil && !exitedCleanly(err) {
		runErr = errors.Wrap(errors.PhaseTrace, errors.KindRuntime, err, "run "+start)
	}
	if mod != nil {
		_ = mod.Close(ctx)
	}

	hits := rec.Hits()
	Logger().Debug("trace finished", zap.Int("hits", len(hits)), zap.Error(runErr))

	data, err := code.Coverage(hits, imported, cfg.ModuleName, cfg.Flavor)
	if err != nil {
		return nil, err
	}
	return data, runErr
}

func exitedCleanly(err error) bool {
	var exitErr *sys.ExitError
	return stderrors.As(err, &exitErr) && exitErr.ExitCode() == 0
}

// Coverage converts function hits into drcov data. hits are indexes in
// the function index space; the first imported indexes have no body.
func (c *CodeMap) Coverage(hits []uint32, imported uint32, path, flavor string) (*drcov.CoverageData, error) {
	b := drcov.NewBuilder().
		Flavor(flavor).
		ModuleVersion(drcov.V4).
		AddFullModule(drcov.ModuleEntry{
			ID:           0,
			ContainingID: drcov.Int32(-1),
			Offset:       drcov.Uint64(0),
			Base:         0,
			End:          uint64(c.Size),
			Entry:        uint64(c.Entry()),
			Path:         path,
		})

	for _, idx := range hits {
		if idx < imported {
			continue
		}
		defined := idx - imported
		if int(defined) >= len(c.Bodies) {
			return nil, errors.New(errors.PhaseTrace, errors.KindValidation).
				Value(idx).
				Detail("function index %d has no body (%d imported, %d defined)", idx, imported, len(c.Bodies)).
				Build()
		}
		body := c.Bodies[defined]
		b.AddCoverage(0, body.Offset, uint16(min(body.Size, math.MaxUint16)))
	}
	return b.Build()
}
