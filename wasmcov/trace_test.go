package wasmcov_test

import (
	"bytes"
	"context"
	"reflect"
	"testing"

	"github.com/wippyai/drcov/drcov"
	drcoverrors "github.com/wippyai/drcov/errors"
	"github.com/wippyai/drcov/wasmcov"
)

func blockStarts(data *drcov.CoverageData) []uint32 {
	var starts []uint32
	for _, bb := range data.BasicBlocks {
		starts = append(starts, bb.Start)
	}
	return starts
}

func TestTraceFunction(t *testing.T) {
	ctx := context.Background()
	data, err := wasmcov.Trace(ctx, callsModule, wasmcov.Config{
		ModuleName: "calls.wasm",
		Function:   "run",
	})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}

	if data.ModuleVersion != drcov.V4 || data.Header.Flavor != wasmcov.DefaultFlavor {
		t.Errorf("header: %+v, version %v", data.Header, data.ModuleVersion)
	}
	want := []drcov.BasicBlock{
		{Start: 33, Size: 4, ModuleID: 0},
		{Start: 38, Size: 2, ModuleID: 0},
	}
	if !reflect.DeepEqual(data.BasicBlocks, want) {
		t.Errorf("blocks: got %v, want %v", data.BasicBlocks, want)
	}
	m := data.Modules[0]
	if m.Path != "calls.wasm" || m.Base != 0 || m.End != uint64(len(callsModule)) || m.Entry != 33 {
		t.Errorf("module: %+v", m)
	}

	encoded, err := data.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	back, err := drcov.Parse(encoded)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(back, data.Normalized()) {
		t.Errorf("traced data does not round trip")
	}
}

func TestTraceWithoutStart(t *testing.T) {
	data, err := wasmcov.Trace(context.Background(), callsModule, wasmcov.Config{})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if len(data.BasicBlocks) != 0 {
		t.Errorf("expected no coverage, got %v", data.BasicBlocks)
	}
	if data.Modules[0].Path != wasmcov.DefaultModuleName {
		t.Errorf("Path: got %q", data.Modules[0].Path)
	}
}

func TestTraceWASIExit(t *testing.T) {
	var stdout bytes.Buffer
	data, err := wasmcov.Trace(context.Background(), wasiModule, wasmcov.Config{
		ModuleName: "exit.wasm",
		Flavor:     "wasmcov-test",
		Stdout:     &stdout,
	})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if got := blockStarts(data); !reflect.DeepEqual(got, []uint32{76}) {
		t.Errorf("blocks: got %v", got)
	}
	if data.Header.Flavor != "wasmcov-test" {
		t.Errorf("Flavor: got %q", data.Header.Flavor)
	}
}

func TestTraceTrapKeepsCoverage(t *testing.T) {
	data, err := wasmcov.Trace(context.Background(), trapModule, wasmcov.Config{Function: "run"})
	if !drcoverrors.IsKind(err, drcoverrors.KindRuntime) {
		t.Fatalf("expected runtime error, got %v", err)
	}
	if data == nil {
		t.Fatal("expected partial coverage")
	}
	if got := blockStarts(data); !reflect.DeepEqual(got, []uint32{32, 37}) {
		t.Errorf("blocks: got %v", got)
	}
}

func TestTraceErrors(t *testing.T) {
	tests := []struct {
		name string
		wasm []byte
		cfg  wasmcov.Config
		kind drcoverrors.Kind
	}{
		{"not wasm", []byte("nope"), wasmcov.Config{}, drcoverrors.KindInvalidFormat},
		{"missing export", callsModule, wasmcov.Config{Function: "main"}, drcoverrors.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := wasmcov.Trace(context.Background(), tt.wasm, tt.cfg)
			if !drcoverrors.IsKind(err, tt.kind) {
				t.Errorf("expected %s, got %v", tt.kind, err)
			}
			if data != nil {
				t.Errorf("expected no data, got %+v", data)
			}
		})
	}
}
