// Package errors provides structured error types for the drcov codec.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// Kinds form a closed taxonomy: io, invalid_format, unsupported_version,
// invalid_module_table, invalid_bb_table and validation. None of them are
// retryable; a drcov file is either well-formed or it is not. The trace
// phase adds runtime for guests that trap or exit with a non-zero code.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidModuleTable).
//		Line(4).
//		Value(3).
//		Detail("non-sequential module id: expected %d, got %d", 2, 3).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnsupportedVersion(errors.PhaseDecode, 3)
//	err := errors.IO(errors.PhaseDecode, io.ErrUnexpectedEOF, "read basic block table")
//
// All errors implement the standard error interface and support errors.Is/As.
// A target with an empty Phase matches errors of its Kind in any phase.
package errors
