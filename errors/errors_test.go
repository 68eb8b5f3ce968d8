package errors

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindInvalidModuleTable,
				Line:   5,
				Detail: "non-sequential module id",
			},
			contains: []string{"[decode]", "invalid_module_table", "line 5", "non-sequential module id"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseEncode,
				Kind:  KindValidation,
			},
			contains: []string{"[encode]", "validation"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindIO,
				Detail: "read basic block table",
				Cause:  io.ErrUnexpectedEOF,
			},
			contains: []string{"[decode]", "io", "read basic block table", "caused by", "unexpected EOF"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_NoLineWhenZero(t *testing.T) {
	err := &Error{Phase: PhaseDecode, Kind: KindInvalidFormat, Detail: "x"}
	if strings.Contains(err.Error(), "line") {
		t.Errorf("unexpected line in %q", err.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindIO,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause through Unwrap")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindInvalidBBTable,
	}

	if !err.Is(&Error{Phase: PhaseDecode, Kind: KindInvalidBBTable}) {
		t.Error("Is should match same phase and kind")
	}
	if !err.Is(&Error{Kind: KindInvalidBBTable}) {
		t.Error("Is should match any phase when target phase is empty")
	}
	if err.Is(&Error{Phase: PhaseEncode, Kind: KindInvalidBBTable}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindInvalidFormat}) {
		t.Error("Is should not match different kind")
	}
	if err.Is(io.EOF) {
		t.Error("Is should not match foreign errors")
	}
}

func TestIsKind(t *testing.T) {
	inner := InvalidModuleTable(PhaseDecode, "bad count %q", "x")
	wrapped := Wrap(PhaseDecode, KindIO, inner, "outer")

	if !IsKind(inner, KindInvalidModuleTable) {
		t.Error("IsKind should match direct kind")
	}
	if !IsKind(wrapped, KindIO) {
		t.Error("IsKind should match outermost kind")
	}
	if IsKind(io.EOF, KindIO) {
		t.Error("IsKind should not match non-structured errors")
	}
	if IsKind(nil, KindIO) {
		t.Error("IsKind should not match nil")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDecode, KindInvalidModuleTable).
		Line(7).
		Value(3).
		Cause(cause).
		Detail("expected %d, got %d", 2, 3).
		Build()

	if err.Phase != PhaseDecode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDecode)
	}
	if err.Kind != KindInvalidModuleTable {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidModuleTable)
	}
	if err.Line != 7 {
		t.Errorf("Line = %d, want 7", err.Line)
	}
	if err.Value != 3 {
		t.Errorf("Value = %v, want 3", err.Value)
	}
	if err.Detail != "expected 2, got 3" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if !errors.Is(err, cause) {
		t.Error("Cause not reachable")
	}
}

func TestBuilder_DetailWithoutArgs(t *testing.T) {
	err := New(PhaseEncode, KindValidation).Detail("plain detail").Build()
	if err.Detail != "plain detail" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestBuilder_DetailVerbatimArg(t *testing.T) {
	err := New(PhaseDecode, KindInvalidModuleTable).Detail("%s", "100% plain").Build()
	if err.Detail != "100% plain" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
	}{
		{"io", IO(PhaseEncode, io.ErrShortWrite, "write"), KindIO},
		{"invalid format", InvalidFormat(PhaseDecode, "expected prefix %q", "DRCOV VERSION: "), KindInvalidFormat},
		{"unsupported version", UnsupportedVersion(PhaseDecode, 3), KindUnsupportedVersion},
		{"module table", InvalidModuleTable(PhaseDecode, "bad"), KindInvalidModuleTable},
		{"bb table", InvalidBBTable(PhaseDecode, "bad"), KindInvalidBBTable},
		{"validation", Validation(uint16(4), "bad ref %d", 4), KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if tt.err.Error() == "" {
				t.Error("empty message")
			}
		})
	}

	v := UnsupportedVersion(PhaseDecode, 3)
	if v.Value != uint32(3) {
		t.Errorf("UnsupportedVersion Value = %v, want 3", v.Value)
	}
	if !strings.Contains(v.Error(), "3") {
		t.Errorf("message %q lacks version", v.Error())
	}
}
