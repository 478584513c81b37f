package errors

import "maps"

// Category is the broad classification of an error, used for routing and
// for errors.Is-style checks via HasCategory.
type Category string

const (
	// CategoryValidation covers bad caller input: empty names, end before
	// start, negative rates.
	CategoryValidation Category = "validation"
	// CategoryNotFound covers lookups by an id that does not exist.
	CategoryNotFound Category = "not_found"
	// CategoryConflict covers attempts to violate the single-open-entry
	// invariant. A conflict indicates a genuine race, never a bug to hide.
	CategoryConflict Category = "conflict"
	// CategoryInvalidState covers operations that are legal in some other
	// state, such as stopping the timer while it is idle.
	CategoryInvalidState Category = "invalid_state"
	// CategoryAlreadyExists covers unique-constraint violations (duplicate
	// profile or service names).
	CategoryAlreadyExists Category = "already_exists"

	// CategoryStorage covers I/O and transaction failures from the database.
	CategoryStorage Category = "storage"
	// CategoryMigration covers schema migration failures; always fatal.
	CategoryMigration Category = "migration"

	CategoryConfig   Category = "config"
	CategoryRuntime  Category = "runtime"
	CategoryInternal Category = "internal"
)

// Severity indicates the impact of an error.
type Severity string

const (
	SeverityFatal   Severity = "fatal"   // stop the process
	SeverityError   Severity = "error"   // fail the current operation
	SeverityWarning Severity = "warning" // degraded, keep going
)

// RetryStrategy tells a caller whether retrying can help.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"
	RetryImmediate  RetryStrategy = "immediate"
	RetryBackoff    RetryStrategy = "backoff"
	RetryUserAction RetryStrategy = "user"
)

// Context carries structured key/value detail attached to an error.
type Context map[string]any

// Set adds or replaces a context value, allocating on first use.
func (c Context) Set(key string, value any) Context {
	if c == nil {
		c = make(Context)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c Context) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c[key]
	return v, ok
}

// Merge combines two contexts, with other taking precedence.
func (c Context) Merge(other Context) Context {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	out := make(Context, len(c)+len(other))
	maps.Copy(out, c)
	maps.Copy(out, other)
	return out
}
