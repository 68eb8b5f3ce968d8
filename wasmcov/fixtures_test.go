package wasmcov_test

// callsModule exports "run" (function 0), which calls function 1.
// Function 2 is never called. Bodies start at 33, 38 and 41.
var callsModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// type section: () -> ()
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
	// function section: 3 functions of type 0
	0x03, 0x04, 0x03, 0x00, 0x00, 0x00,
	// export section: "run" = func 0
	0x07, 0x07, 0x01, 0x03, 'r', 'u', 'n', 0x00, 0x00,
	// code section
	0x0a, 0x0c, 0x03,
	0x04, 0x00, 0x10, 0x01, 0x0b, // call 1
	0x02, 0x00, 0x0b,
	0x02, 0x00, 0x0b,
}

// trapModule exports "run", which calls function 1, which traps.
// Bodies start at 32 and 37.
var trapModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
	0x03, 0x03, 0x02, 0x00, 0x00,
	0x07, 0x07, 0x01, 0x03, 'r', 'u', 'n', 0x00, 0x00,
	0x0a, 0x0a, 0x02,
	0x04, 0x00, 0x10, 0x01, 0x0b, // call 1
	0x03, 0x00, 0x00, 0x0b, // unreachable
}

// wasiModule imports proc_exit and exports a "_start" that calls
// proc_exit(0). Its only defined function is index 1; the body starts at 76.
var wasiModule = append(append(append(append([]byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// type section: () -> (), (i32) -> ()
	0x01, 0x08, 0x02, 0x60, 0x00, 0x00, 0x60, 0x01, 0x7f, 0x00,
	// import section
	0x02, 0x24, 0x01, 0x16},
	"wasi_snapshot_preview1"...),
	0x09),
	"proc_exit"...),
	0x00, 0x01,
	// function section
	0x03, 0x02, 0x01, 0x00,
	// export section: "_start" = func 1
	0x07, 0x0a, 0x01, 0x06, '_', 's', 't', 'a', 'r', 't', 0x00, 0x01,
	// code section
	0x0a, 0x08, 0x01,
	0x06, 0x00, 0x41, 0x00, 0x10, 0x00, 0x0b, // i32.const 0; call 0
)
