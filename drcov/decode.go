package drcov

import (
	"bytes"
	stderrors "errors"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/drcov/errors"
	"github.com/wippyai/drcov/internal/binary"
)

// Parse decodes a drcov file held in memory.
func Parse(data []byte) (*CoverageData, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a complete drcov file from src and validates it. Decoding
// is all-or-nothing: on error no partial data is returned.
func Decode(src io.Reader) (*CoverageData, error) {
	r := binary.NewReader(src)

	versionStr, err := readHeaderLine(r, versionPrefix)
	if err != nil {
		return nil, err
	}
	version, err := strconv.ParseUint(versionStr, 10, 32)
	if err != nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidFormat).
			Line(r.Line()).
			Value(versionStr).
			Detail("malformed version number %q", versionStr).
			Build()
	}
	if uint32(version) != SupportedVersion {
		return nil, errors.UnsupportedVersion(errors.PhaseDecode, uint32(version))
	}

	flavor, err := readHeaderLine(r, flavorPrefix)
	if err != nil {
		return nil, err
	}

	modules, moduleVersion, err := decodeModuleTable(r)
	if err != nil {
		return nil, err
	}

	blocks, err := decodeBBTable(r)
	if err != nil {
		return nil, err
	}

	data := &CoverageData{
		Header:        FileHeader{Version: uint32(version), Flavor: flavor},
		ModuleVersion: moduleVersion,
		Modules:       modules,
		BasicBlocks:   blocks,
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}

	Logger().Debug("decoded coverage data",
		zap.String("flavor", flavor),
		zap.Int("modules", len(modules)),
		zap.Int("blocks", len(blocks)),
		zap.Int("bytes", r.Position()))
	return data, nil
}

// readHeaderLine reads one outer header line and returns the text after
// prefix. Only the single trailing newline is stripped; no other
// whitespace is tolerated.
func readHeaderLine(r *binary.Reader, prefix string) (string, error) {
	line, err := r.ReadLine()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return "", errors.New(errors.PhaseDecode, errors.KindInvalidFormat).
				Line(r.Line() + 1).
				Detail("expected header line with prefix %q, found EOF", prefix).
				Build()
		}
		return "", errors.IO(errors.PhaseDecode, err, "read header")
	}
	rest, ok := strings.CutPrefix(line, prefix)
	if !ok {
		return "", errors.New(errors.PhaseDecode, errors.KindInvalidFormat).
			Line(r.Line()).
			Detail("invalid header line, expected prefix %q", prefix).
			Build()
	}
	return rest, nil
}
