package wasmcov

import (
	"bytes"
	"fmt"

	"github.com/wippyai/drcov/errors"
	"github.com/wippyai/drcov/internal/binary"
)

const (
	wasmMagic   = "\x00asm"
	wasmVersion = 1

	sectionCode byte = 10
)

// FunctionBody locates one defined function's body inside the module
// binary. Offset is the position of the first byte after the body size.
type FunctionBody struct {
	Offset uint32
	Size   uint32
}

// CodeMap lists the bodies of a module's defined functions in index order.
// Imported functions have no body and are not included.
type CodeMap struct {
	Bodies []FunctionBody
	Size   uint32
}

// Entry returns the offset of the first function body, or 0 when the
// module defines no functions.
func (c *CodeMap) Entry() uint32 {
	if len(c.Bodies) == 0 {
		return 0
	}
	return c.Bodies[0].Offset
}

// ScanCode reads the section headers of a core wasm binary and returns
// the location of every function body. Other sections are skipped
// without being decoded.
func ScanCode(wasm []byte) (*CodeMap, error) {
	r := binary.NewReader(bytes.NewReader(wasm))

	magic, err := r.ReadBytes(4)
	if err != nil || string(magic) != wasmMagic {
		return nil, errors.InvalidFormat(errors.PhaseTrace, "not a wasm binary")
	}
	version, err := r.ReadU32LE()
	if err != nil {
		return nil, scanError(r, "header", err)
	}
	if version != wasmVersion {
		return nil, errors.New(errors.PhaseTrace, errors.KindUnsupportedVersion).
			Value(version).
			Detail("unsupported wasm binary version %d", version).
			Build()
	}

	code := &CodeMap{Size: uint32(len(wasm))}
	for {
		id, err := r.ReadByte()
		if err != nil {
			break
		}
		size, err := r.ReadU32()
		if err != nil {
			return nil, scanError(r, fmt.Sprintf("section %d size", id), err)
		}
		if id != sectionCode {
			if err := r.Skip(int(size)); err != nil {
				return nil, scanError(r, fmt.Sprintf("section %d", id), err)
			}
			continue
		}

		end := r.Position() + int(size)
		bodies, err := scanCodeSection(r)
		if err != nil {
			return nil, err
		}
		if r.Position() != end {
			return nil, errors.InvalidFormat(errors.PhaseTrace,
				"code section size mismatch: declared end %d, actual %d", end, r.Position())
		}
		code.Bodies = bodies
	}
	return code, nil
}

func scanCodeSection(r *binary.Reader) ([]FunctionBody, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, scanError(r, "code section", err)
	}
	bodies := make([]FunctionBody, 0, min(count, 1<<16))
	for i := uint32(0); i < count; i++ {
		size, err := r.ReadU32()
		if err != nil {
			return nil, scanError(r, fmt.Sprintf("function body %d", i), err)
		}
		bodies = append(bodies, FunctionBody{Offset: uint32(r.Position()), Size: size})
		if err := r.Skip(int(size)); err != nil {
			return nil, scanError(r, fmt.Sprintf("function body %d", i), err)
		}
	}
	return bodies, nil
}

func scanError(r *binary.Reader, section string, err error) error {
	return errors.New(errors.PhaseTrace, errors.KindInvalidFormat).
		Cause(r.WrapError(section, err)).
		Detail("malformed wasm binary").
		Build()
}
