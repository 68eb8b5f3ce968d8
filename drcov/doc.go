// Package drcov reads and writes drcov coverage files.
//
// A drcov file records which basic blocks executed in a traced process
// together with the modules whose address space those blocks belong to.
// The file is text up to the basic block table header and binary after it.
//
// # Format
//
//	DRCOV VERSION: 2
//	DRCOV FLAVOR: drcov
//	Module Table: version 4, count 2
//	Columns: id, containing_id, start, end, entry, offset, path
//	0, -1, 0x0000000000400000, 0x0000000000500000, 0x0000000000401000, 0x0, /bin/app
//	1, -1, 0x00007f0000000000, 0x00007f0000100000, 0x00007f0000001000, 0x0, /lib/libc.so
//	BB Table: 2 bbs
//	<16 bytes: u32 start, u16 size, u16 module id, little-endian>
//
// Legacy producers write "Module Table: <count>" with no Columns line and
// the implicit layout id, base, end, entry, path. Versioned tables may list
// their columns in any order; records are decoded by column name.
//
// # Decoding
//
//	data, err := drcov.ParseFile("trace.drcov")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for id, n := range data.CoverageStats() {
//	    fmt.Println(data.FindModule(id).Path, n)
//	}
//
// Paths ending in ".xz" are decompressed. Decoding is all-or-nothing and
// every decoded value passes Validate.
//
// # Encoding
//
//	data, err := drcov.NewBuilder().
//	    Flavor("fuzzer").
//	    ModuleVersion(drcov.V2).
//	    AddModule("/bin/app", 0x400000, 0x500000).
//	    AddCoverage(0, 0x1000, 32).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = drcov.WriteFile("trace.drcov", data)
//
// Encoding is deterministic. Fields the module table version cannot carry
// are dropped; Normalized returns the value a round trip produces.
//
// # Errors
//
// All failures are *errors.Error values from the errors subpackage. Use
// errors.Is with the sentinels in this package to test the kind:
//
//	if errors.Is(err, drcov.ErrUnsupportedVersion) { ... }
package drcov
