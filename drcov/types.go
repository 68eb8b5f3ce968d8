package drcov

import "fmt"

// FileHeader holds the outer format version and the producing tool's flavor.
type FileHeader struct {
	Flavor  string
	Version uint32
}

// DefaultHeader returns the header written by producers that configure nothing.
func DefaultHeader() FileHeader {
	return FileHeader{Version: SupportedVersion, Flavor: DefaultFlavor}
}

// ModuleTableVersion is the schema of the module table, independent of the
// outer file version. Values are ordered: Legacy < V2 < V3 < V4.
type ModuleTableVersion uint32

// Module table schema versions.
const (
	Legacy ModuleTableVersion = 1
	V2     ModuleTableVersion = 2
	V3     ModuleTableVersion = 3
	V4     ModuleTableVersion = 4
)

// ParseModuleTableVersion maps an explicit schema number from a
// "Module Table: version N" header. Legacy has no explicit number.
func ParseModuleTableVersion(n uint32) (ModuleTableVersion, bool) {
	switch ModuleTableVersion(n) {
	case V2, V3, V4:
		return ModuleTableVersion(n), true
	}
	return 0, false
}

// Valid reports whether v is one of the four known schemas.
func (v ModuleTableVersion) Valid() bool {
	return v >= Legacy && v <= V4
}

// SupportsContainingID reports whether the schema carries containing_id.
func (v ModuleTableVersion) SupportsContainingID() bool {
	return v >= V3
}

// SupportsOffset reports whether the schema carries offset.
func (v ModuleTableVersion) SupportsOffset() bool {
	return v >= V4
}

// SupportsWindowsFields reports whether the schema may carry checksum and timestamp.
func (v ModuleTableVersion) SupportsWindowsFields() bool {
	return v >= V2
}

func (v ModuleTableVersion) String() string {
	switch v {
	case Legacy:
		return "legacy"
	case V2, V3, V4:
		return fmt.Sprintf("v%d", uint32(v))
	}
	return fmt.Sprintf("ModuleTableVersion(%d)", uint32(v))
}

// ModuleEntry is one loaded module. Optional fields are nil when the
// producer did not supply them; nil and zero are distinct.
type ModuleEntry struct {
	ContainingID *int32  // V3+: parent module for sections
	Offset       *uint64 // V4+: file offset within the containing module
	Checksum     *uint32 // PE checksum, V2+
	Timestamp    *uint32 // PE timestamp, V2+
	Path         string
	Base         uint64
	End          uint64
	Entry        uint64
	ID           uint32
}

// Size returns End-Base, or zero for an inverted range.
func (m *ModuleEntry) Size() uint64 {
	if m.End < m.Base {
		return 0
	}
	return m.End - m.Base
}

// Contains reports whether addr lies in [Base, End).
func (m *ModuleEntry) Contains(addr uint64) bool {
	return addr >= m.Base && addr < m.End
}

// BasicBlock is one executed block, relative to its module's base.
type BasicBlock struct {
	Start    uint32
	Size     uint16
	ModuleID uint16
}

// AbsoluteAddress returns m.Base + Start. The sum wraps on overflow.
func (b BasicBlock) AbsoluteAddress(m *ModuleEntry) uint64 {
	return m.Base + uint64(b.Start)
}

// CoverageData is a complete drcov file.
type CoverageData struct {
	Header        FileHeader
	Modules       []ModuleEntry
	BasicBlocks   []BasicBlock
	ModuleVersion ModuleTableVersion
}

// Int32 returns a pointer to v, for populating optional module fields.
func Int32(v int32) *int32 { return &v }

// Uint32 returns a pointer to v, for populating optional module fields.
func Uint32(v uint32) *uint32 { return &v }

// Uint64 returns a pointer to v, for populating optional module fields.
func Uint64(v uint64) *uint64 { return &v }
