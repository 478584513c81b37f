package errors

import "fmt"

// ClassifiedError is a structured error with category, severity and context.
type ClassifiedError struct {
	category Category
	severity Severity
	retry    RetryStrategy
	message  string
	cause    error
	context  Context
}

// Error implements the standard error interface.
func (e *ClassifiedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.category, e.severity, e.message, e.cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.category, e.severity, e.message)
}

// Unwrap supports errors.Is / errors.As chains.
func (e *ClassifiedError) Unwrap() error { return e.cause }

// Category returns the error category.
func (e *ClassifiedError) Category() Category { return e.category }

// Severity returns the error severity.
func (e *ClassifiedError) Severity() Severity { return e.severity }

// RetryStrategy returns the recommended retry strategy.
func (e *ClassifiedError) RetryStrategy() RetryStrategy { return e.retry }

// Message returns the bare message without classification prefix.
func (e *ClassifiedError) Message() string { return e.message }

// Context returns the structured detail attached to the error.
func (e *ClassifiedError) Context() Context { return e.context }

// WithContext returns a copy of the error with an extra context value.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	cp := *e
	cp.context = e.context.Merge(Context{key: value})
	return &cp
}

// Is matches two classified errors on category and message.
func (e *ClassifiedError) Is(target error) bool {
	if other, ok := target.(*ClassifiedError); ok {
		return e.category == other.category && e.message == other.message
	}
	return false
}

// IsFatal reports whether the error should stop the process.
func (e *ClassifiedError) IsFatal() bool { return e.severity == SeverityFatal }

// CanRetry reports whether retrying the operation may succeed.
func (e *ClassifiedError) CanRetry() bool {
	return e.retry == RetryImmediate || e.retry == RetryBackoff
}

// AsClassified attempts to extract a ClassifiedError from err.
func AsClassified(err error) (*ClassifiedError, bool) {
	ce, ok := err.(*ClassifiedError)
	return ce, ok
}

// HasCategory reports whether err is a classified error of the given category.
func HasCategory(err error, category Category) bool {
	if ce, ok := AsClassified(err); ok {
		return ce.category == category
	}
	return false
}

// GetCategory extracts the category from err, defaulting to CategoryInternal.
func GetCategory(err error) Category {
	if ce, ok := AsClassified(err); ok {
		return ce.category
	}
	return CategoryInternal
}
