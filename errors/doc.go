// Package errors provides structured error types for the binstruct library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, Go/declared type names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindRange).
//		Path("header", "flags").
//		GoType("int").
//		Type("UInt8").
//		Detail("value 300 does not fit one byte").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Range(errors.PhaseEncode, path, 300, "UInt8")
//	err := errors.OutOfBounds(errors.PhaseDecode, path, 10, 5)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
