package drcov

import (
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/drcov/errors"
	"github.com/wippyai/drcov/internal/binary"
)

// Encode validates data and writes it to dst in drcov format. Nothing is
// written when validation fails.
func Encode(dst io.Writer, data *CoverageData) error {
	w, err := data.encode()
	if err != nil {
		return err
	}
	if _, err := w.WriteTo(dst); err != nil {
		return errors.IO(errors.PhaseEncode, err, "write coverage data")
	}
	return nil
}

// Bytes returns the drcov encoding of c. Encoding the same data twice
// yields identical bytes.
func (c *CoverageData) Bytes() ([]byte, error) {
	w, err := c.encode()
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func (c *CoverageData) encode() (*binary.Writer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := c.checkEncodable(); err != nil {
		return nil, err
	}

	w := binary.NewWriter()
	w.Linef("%s%d", versionPrefix, c.Header.Version)
	w.Linef("%s%s", flavorPrefix, c.Header.Flavor)
	if err := encodeModuleTable(w, c.ModuleVersion, c.Modules); err != nil {
		return nil, err
	}
	encodeBBTable(w, c.BasicBlocks)

	Logger().Debug("encoded coverage data",
		zap.Stringer("module_version", c.ModuleVersion),
		zap.Int("modules", len(c.Modules)),
		zap.Int("blocks", len(c.BasicBlocks)),
		zap.Int("bytes", w.Len()))
	return w, nil
}

// checkEncodable rejects values that would produce a file the decoder
// cannot read back: a foreign outer version or line breaks inside the
// text fields.
func (c *CoverageData) checkEncodable() error {
	if c.Header.Version != SupportedVersion {
		return errors.UnsupportedVersion(errors.PhaseEncode, c.Header.Version)
	}
	if strings.ContainsAny(c.Header.Flavor, "\r\n") {
		return errors.InvalidFormat(errors.PhaseEncode, "flavor %q contains a line break", c.Header.Flavor)
	}
	for i := range c.Modules {
		if strings.ContainsAny(c.Modules[i].Path, "\r\n") {
			return errors.New(errors.PhaseEncode, errors.KindInvalidModuleTable).
				Value(c.Modules[i].ID).
				Detail("module %d path %q contains a line break", c.Modules[i].ID, c.Modules[i].Path).
				Build()
		}
	}
	return nil
}
