// Package errors provides the classified error type used across solia.
//
// Every error that crosses a package boundary carries a category (what kind
// of failure), a severity (how bad it is) and a retry strategy (what a caller
// may do about it). Construction goes through the fluent ErrorBuilder; the
// convenience constructors (ValidationError, ConflictError, ...) encode the
// defaults for each category so call sites stay short.
package errors
