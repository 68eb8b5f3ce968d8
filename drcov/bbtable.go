package drcov

import (
	stderrors "errors"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/drcov/errors"
	"github.com/wippyai/drcov/internal/binary"
)

// decodeBBTable reads the "BB Table: <n> bbs" header and the binary
// payload that follows it. A stream that ends before the header has no
// blocks.
func decodeBBTable(r *binary.Reader) ([]BasicBlock, error) {
	line, err := r.ReadLine()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.IO(errors.PhaseDecode, err, "read basic block table header")
	}

	content, ok := strings.CutPrefix(strings.TrimSpace(line), bbTablePrefix)
	if !ok {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidBBTable).
			Line(r.Line()).
			Detail("missing or malformed header, expected prefix %q", bbTablePrefix).
			Build()
	}

	count := 0
	if fields := strings.Fields(content); len(fields) > 0 {
		count, err = parseCount(fields[0])
		if err != nil {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidBBTable).
				Line(r.Line()).
				Value(fields[0]).
				Detail("invalid block count %q", fields[0]).
				Build()
		}
	}

	Logger().Debug("decoding basic block table", zap.Int("count", count))

	if count == 0 {
		return nil, nil
	}

	blocks := make([]BasicBlock, 0, min(count, maxPrealloc))
	for i := 0; i < count; i++ {
		bb, err := readBasicBlock(r)
		if err != nil {
			return nil, errors.New(errors.PhaseDecode, errors.KindIO).
				Cause(err).
				Detail("basic block table truncated: read %d of %d blocks (%d bytes expected)", i, count, count*bbEntrySize).
				Build()
		}
		blocks = append(blocks, bb)
	}
	return blocks, nil
}

func readBasicBlock(r *binary.Reader) (BasicBlock, error) {
	start, err := r.ReadU32LE()
	if err != nil {
		return BasicBlock{}, err
	}
	size, err := r.ReadU16LE()
	if err != nil {
		return BasicBlock{}, err
	}
	moduleID, err := r.ReadU16LE()
	if err != nil {
		return BasicBlock{}, err
	}
	return BasicBlock{Start: start, Size: size, ModuleID: moduleID}, nil
}

func encodeBBTable(w *binary.Writer, blocks []BasicBlock) {
	w.Linef("%s%d bbs", bbTablePrefix, len(blocks))
	if len(blocks) == 0 {
		return
	}
	w.Grow(len(blocks) * bbEntrySize)
	for _, bb := range blocks {
		w.WriteU32LE(bb.Start)
		w.WriteU16LE(bb.Size)
		w.WriteU16LE(bb.ModuleID)
	}
}
