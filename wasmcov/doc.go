// Package wasmcov produces drcov coverage from WebAssembly programs.
//
// A module is run under the wazero interpreter with a function listener
// that records every defined function the guest enters. Each entered
// function becomes one basic block whose start is the offset of its body
// in the binary, so the result can be viewed with the same tools that
// read native drcov traces.
//
//	wasm, _ := os.ReadFile("app.wasm")
//	data, err := wasmcov.Trace(ctx, wasm, wasmcov.Config{ModuleName: "app.wasm"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = drcov.WriteFile("app.drcov", data)
//
// Coverage granularity is the function, not the basic block.
package wasmcov
