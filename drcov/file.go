package drcov

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
	"go.uber.org/zap"

	"github.com/wippyai/drcov/errors"
)

// compressedSuffix marks files stored as an xz stream.
const compressedSuffix = ".xz"

func isCompressed(path string) bool {
	return strings.HasSuffix(path, compressedSuffix)
}

// ParseFile decodes the drcov file at path. Paths ending in ".xz" are
// decompressed transparently.
func ParseFile(path string) (*CoverageData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IO(errors.PhaseDecode, err, "open "+path)
	}
	defer f.Close()

	var src io.Reader = bufio.NewReader(f)
	if isCompressed(path) {
		xr, err := xz.NewReader(src)
		if err != nil {
			return nil, errors.IO(errors.PhaseDecode, err, "open xz stream "+path)
		}
		src = xr
	}

	Logger().Debug("parsing coverage file", zap.String("path", path), zap.Bool("xz", isCompressed(path)))
	return Decode(src)
}

// WriteFile encodes data to path, replacing any existing file. Paths
// ending in ".xz" are compressed. The file is not created when data
// fails validation.
func WriteFile(path string, data *CoverageData) (err error) {
	w, err := data.encode()
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.IO(errors.PhaseEncode, err, "create "+path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.IO(errors.PhaseEncode, cerr, "close "+path)
		}
	}()

	if !isCompressed(path) {
		if _, err := w.WriteTo(f); err != nil {
			return errors.IO(errors.PhaseEncode, err, "write "+path)
		}
		return nil
	}

	xw, err := xz.NewWriter(f)
	if err != nil {
		return errors.IO(errors.PhaseEncode, err, "open xz stream "+path)
	}
	if _, err := w.WriteTo(xw); err != nil {
		return errors.IO(errors.PhaseEncode, err, "write "+path)
	}
	if err := xw.Close(); err != nil {
		return errors.IO(errors.PhaseEncode, err, "finish xz stream "+path)
	}
	return nil
}
