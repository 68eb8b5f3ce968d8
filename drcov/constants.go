package drcov

// SupportedVersion is the only outer file format version accepted.
const SupportedVersion uint32 = 2

// DefaultFlavor is the flavor written when none is configured.
const DefaultFlavor = "drcov"

// Line prefixes of the text sections.
const (
	versionPrefix     = "DRCOV VERSION: "
	flavorPrefix      = "DRCOV FLAVOR: "
	moduleTablePrefix = "Module Table: "
	columnsPrefix     = "Columns: "
	bbTablePrefix     = "BB Table: "
)

// bbEntrySize is the encoded size of one basic block: u32 start, u16 size, u16 module id.
const bbEntrySize = 8

// Module table column names.
const (
	colID           = "id"
	colBase         = "base"
	colStart        = "start"
	colEnd          = "end"
	colEntry        = "entry"
	colPath         = "path"
	colContainingID = "containing_id"
	colOffset       = "offset"
	colChecksum     = "checksum"
	colTimestamp    = "timestamp"
)

// legacyColumns is the implicit layout of a legacy module table.
var legacyColumns = []string{colID, colBase, colEnd, colEntry, colPath}
