package drcov

import (
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/drcov/errors"
	"github.com/wippyai/drcov/internal/binary"
)

// maxPrealloc caps slice preallocation driven by untrusted header counts.
const maxPrealloc = 1 << 16

// columnLayout is the ordered column list governing every module record.
type columnLayout struct {
	names []string
}

func decodeModuleTable(r *binary.Reader) ([]ModuleEntry, ModuleTableVersion, error) {
	line, err := r.ReadLine()
	if err != nil {
		return nil, 0, moduleTableReadError(r, err, "missing module table header")
	}

	content, ok := strings.CutPrefix(strings.TrimSpace(line), moduleTablePrefix)
	if !ok {
		return nil, 0, errors.New(errors.PhaseDecode, errors.KindInvalidModuleTable).
			Line(r.Line()).
			Detail("missing or malformed header, expected prefix %q", moduleTablePrefix).
			Build()
	}

	version, count, err := parseModuleTableHeader(content)
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			e.Line = r.Line()
		}
		return nil, 0, err
	}

	layout := columnLayout{names: legacyColumns}
	if version != Legacy {
		layout, err = readColumns(r)
		if err != nil {
			return nil, 0, err
		}
	}

	Logger().Debug("decoding module table",
		zap.Stringer("version", version),
		zap.Int("count", count),
		zap.Strings("columns", layout.names))

	var modules []ModuleEntry
	if count > 0 {
		modules = make([]ModuleEntry, 0, min(count, maxPrealloc))
	}
	for i := 0; i < count; i++ {
		line, err := r.ReadLine()
		if err != nil {
			return nil, 0, moduleTableReadError(r, err,
				fmt.Sprintf("expected %d module records, got %d", count, i))
		}
		m, err := layout.parseRecord(strings.TrimSpace(line))
		if err != nil {
			if e, ok := err.(*errors.Error); ok {
				e.Line = r.Line()
			}
			return nil, 0, err
		}
		if m.ID != uint32(i) {
			return nil, 0, errors.New(errors.PhaseDecode, errors.KindInvalidModuleTable).
				Line(r.Line()).
				Value(m.ID).
				Detail("non-sequential module id: expected %d, got %d", i, m.ID).
				Build()
		}
		modules = append(modules, m)
	}

	return modules, version, nil
}

// moduleTableReadError maps a failed line read inside the module table.
// Running out of input is a table error; anything else is an I/O failure.
func moduleTableReadError(r *binary.Reader, err error, detail string) error {
	if stderrors.Is(err, io.EOF) {
		return errors.New(errors.PhaseDecode, errors.KindInvalidModuleTable).
			Line(r.Line() + 1).
			Cause(io.ErrUnexpectedEOF).
			Detail("%s", detail).
			Build()
	}
	return errors.IO(errors.PhaseDecode, err, "read module table")
}

// parseModuleTableHeader parses the text after "Module Table: ", either
// "<count>" or "version <n>, count <count>".
func parseModuleTableHeader(content string) (ModuleTableVersion, int, error) {
	rest, versioned := strings.CutPrefix(content, "version ")
	if !versioned {
		count, err := parseCount(content)
		if err != nil {
			return 0, 0, errors.InvalidModuleTable(errors.PhaseDecode, "invalid legacy count %q", content)
		}
		return Legacy, count, nil
	}

	verStr, countPart, found := strings.Cut(rest, ",")
	if !found {
		return 0, 0, errors.InvalidModuleTable(errors.PhaseDecode, "invalid versioned header %q", content)
	}

	n, err := strconv.ParseUint(strings.TrimSpace(verStr), 10, 32)
	if err != nil {
		return 0, 0, errors.InvalidModuleTable(errors.PhaseDecode, "invalid version number %q", strings.TrimSpace(verStr))
	}
	version, ok := ParseModuleTableVersion(uint32(n))
	if !ok {
		return 0, 0, errors.New(errors.PhaseDecode, errors.KindInvalidModuleTable).
			Value(uint32(n)).
			Detail("unsupported module table version %d", n).
			Build()
	}

	countStr, ok := strings.CutPrefix(strings.TrimSpace(countPart), "count ")
	if !ok {
		return 0, 0, errors.InvalidModuleTable(errors.PhaseDecode, "missing count in %q", content)
	}
	count, err := parseCount(strings.TrimSpace(countStr))
	if err != nil {
		return 0, 0, errors.InvalidModuleTable(errors.PhaseDecode, "invalid count value %q", countStr)
	}
	return version, count, nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func readColumns(r *binary.Reader) (columnLayout, error) {
	line, err := r.ReadLine()
	if err != nil {
		return columnLayout{}, moduleTableReadError(r, err, "missing columns header")
	}
	list, ok := strings.CutPrefix(strings.TrimSpace(line), columnsPrefix)
	if !ok {
		return columnLayout{}, errors.New(errors.PhaseDecode, errors.KindInvalidModuleTable).
			Line(r.Line()).
			Detail("missing columns header, expected prefix %q", columnsPrefix).
			Build()
	}

	layout, err := newColumnLayout(strings.Split(list, ","))
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			e.Line = r.Line()
		}
		return columnLayout{}, err
	}
	return layout, nil
}

// newColumnLayout trims the declared names and checks that the columns
// every module record needs are present exactly once.
func newColumnLayout(raw []string) (columnLayout, error) {
	names := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, name := range raw {
		name = strings.TrimSpace(name)
		if seen[name] {
			return columnLayout{}, errors.InvalidModuleTable(errors.PhaseDecode, "duplicate column %q", name)
		}
		seen[name] = true
		names[i] = name
	}

	if seen[colBase] && seen[colStart] {
		return columnLayout{}, errors.InvalidModuleTable(errors.PhaseDecode, "both %q and %q columns declared", colBase, colStart)
	}
	for _, required := range []string{colID, colEnd, colEntry, colPath} {
		if !seen[required] {
			return columnLayout{}, errors.InvalidModuleTable(errors.PhaseDecode, "missing required column %q", required)
		}
	}
	if !seen[colBase] && !seen[colStart] {
		return columnLayout{}, errors.InvalidModuleTable(errors.PhaseDecode, "missing required column %q", colBase)
	}
	return columnLayout{names: names}, nil
}

// parseRecord decodes one module line. The line is split into exactly as
// many fields as there are columns; the last column absorbs any extra
// commas, so a trailing path may contain them.
func (l columnLayout) parseRecord(line string) (ModuleEntry, error) {
	fields := strings.SplitN(line, ",", len(l.names))
	if len(fields) != len(l.names) {
		return ModuleEntry{}, errors.InvalidModuleTable(errors.PhaseDecode,
			"column count mismatch: expected %d fields, got %d in %q", len(l.names), len(fields), line)
	}

	values := make(map[string]string, len(l.names))
	for i, name := range l.names {
		values[name] = strings.TrimSpace(fields[i])
	}

	var m ModuleEntry

	idStr := values[colID]
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return ModuleEntry{}, invalidField(colID, idStr)
	}
	m.ID = uint32(id)

	baseCol := colBase
	if _, ok := values[colBase]; !ok {
		baseCol = colStart
	}
	if m.Base, err = parseHex64(values[baseCol]); err != nil {
		return ModuleEntry{}, invalidField(baseCol, values[baseCol])
	}
	if m.End, err = parseHex64(values[colEnd]); err != nil {
		return ModuleEntry{}, invalidField(colEnd, values[colEnd])
	}
	if m.Entry, err = parseHex64(values[colEntry]); err != nil {
		return ModuleEntry{}, invalidField(colEntry, values[colEntry])
	}
	m.Path = values[colPath]

	if s, ok := values[colContainingID]; ok {
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return ModuleEntry{}, invalidField(colContainingID, s)
		}
		m.ContainingID = Int32(int32(v))
	}
	if s, ok := values[colOffset]; ok {
		v, err := parseHex64(s)
		if err != nil {
			return ModuleEntry{}, invalidField(colOffset, s)
		}
		m.Offset = Uint64(v)
	}
	if s, ok := values[colChecksum]; ok {
		v, err := parseHex32(s)
		if err != nil {
			return ModuleEntry{}, invalidField(colChecksum, s)
		}
		m.Checksum = Uint32(v)
	}
	if s, ok := values[colTimestamp]; ok {
		v, err := parseHex32(s)
		if err != nil {
			return ModuleEntry{}, invalidField(colTimestamp, s)
		}
		m.Timestamp = Uint32(v)
	}

	return m, nil
}

func invalidField(column, value string) error {
	return errors.New(errors.PhaseDecode, errors.KindInvalidModuleTable).
		Value(value).
		Detail("missing or invalid %q value %q", column, value).
		Build()
}

// parseHex64 parses a hexadecimal value with an optional 0x prefix.
// Digits without the prefix are still read as hex.
func parseHex64(s string) (uint64, error) {
	return strconv.ParseUint(trimHexPrefix(s), 16, 64)
}

func parseHex32(s string) (uint32, error) {
	v, err := strconv.ParseUint(trimHexPrefix(s), 16, 32)
	return uint32(v), err
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

func encodeModuleTable(w *binary.Writer, version ModuleTableVersion, modules []ModuleEntry) error {
	if !version.Valid() {
		return errors.New(errors.PhaseEncode, errors.KindInvalidModuleTable).
			Value(uint32(version)).
			Detail("unknown module table version %d", uint32(version)).
			Build()
	}

	columns := legacyColumns
	if version == Legacy {
		w.Linef("%s%d", moduleTablePrefix, len(modules))
	} else {
		columns = moduleTableColumns(version, hasWindowsFields(modules))
		w.Linef("%sversion %d, count %d", moduleTablePrefix, uint32(version), len(modules))
		w.Linef("%s%s", columnsPrefix, strings.Join(columns, ", "))
	}

	parts := make([]string, 0, len(columns))
	for i := range modules {
		parts = parts[:0]
		for _, col := range columns {
			parts = append(parts, formatField(&modules[i], col))
		}
		w.Linef("%s", strings.Join(parts, ", "))
	}
	return nil
}

// moduleTableColumns returns the output layout of a versioned table.
func moduleTableColumns(version ModuleTableVersion, windowsFields bool) []string {
	columns := []string{colID}
	if version.SupportsContainingID() {
		columns = append(columns, colContainingID, colStart)
	} else {
		columns = append(columns, colBase)
	}
	columns = append(columns, colEnd, colEntry)
	if version.SupportsOffset() {
		columns = append(columns, colOffset)
	}
	if windowsFields {
		columns = append(columns, colChecksum, colTimestamp)
	}
	return append(columns, colPath)
}

// hasWindowsFields reports whether any module carries a checksum or
// timestamp. The flag applies to the whole table.
func hasWindowsFields(modules []ModuleEntry) bool {
	for i := range modules {
		if modules[i].Checksum != nil || modules[i].Timestamp != nil {
			return true
		}
	}
	return false
}

func formatField(m *ModuleEntry, column string) string {
	switch column {
	case colID:
		return strconv.FormatUint(uint64(m.ID), 10)
	case colBase, colStart:
		return fmt.Sprintf("0x%016x", m.Base)
	case colEnd:
		return fmt.Sprintf("0x%016x", m.End)
	case colEntry:
		return fmt.Sprintf("0x%016x", m.Entry)
	case colContainingID:
		if m.ContainingID == nil {
			return "-1"
		}
		return strconv.FormatInt(int64(*m.ContainingID), 10)
	case colOffset:
		return fmt.Sprintf("0x%x", deref(m.Offset))
	case colChecksum:
		return fmt.Sprintf("0x%08x", deref(m.Checksum))
	case colTimestamp:
		return fmt.Sprintf("0x%08x", deref(m.Timestamp))
	case colPath:
		return m.Path
	}
	return ""
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
