package errors

// ErrorBuilder is a fluent constructor for ClassifiedError.
type ErrorBuilder struct {
	category Category
	severity Severity
	retry    RetryStrategy
	message  string
	cause    error
	context  Context
}

// NewError starts a builder with the given category and message.
// Defaults: SeverityError, RetryNever.
func NewError(category Category, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError,
		retry:    RetryNever,
		message:  message,
		context:  make(Context),
	}
}

// WrapError starts a builder wrapping an underlying cause.
func WrapError(err error, category Category, message string) *ErrorBuilder {
	b := NewError(category, message)
	b.cause = err
	return b
}

// WithSeverity sets the severity.
func (b *ErrorBuilder) WithSeverity(severity Severity) *ErrorBuilder {
	b.severity = severity
	return b
}

// WithRetry sets the retry strategy.
func (b *ErrorBuilder) WithRetry(strategy RetryStrategy) *ErrorBuilder {
	b.retry = strategy
	return b
}

// WithContext adds one context key/value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context = b.context.Set(key, value)
	return b
}

// Fatal marks the error as fatal.
func (b *ErrorBuilder) Fatal() *ErrorBuilder { return b.WithSeverity(SeverityFatal) }

// Warning marks the error as a warning.
func (b *ErrorBuilder) Warning() *ErrorBuilder { return b.WithSeverity(SeverityWarning) }

// Retryable sets the retry strategy to backoff.
func (b *ErrorBuilder) Retryable() *ErrorBuilder { return b.WithRetry(RetryBackoff) }

// UserAction marks the error as requiring user intervention.
func (b *ErrorBuilder) UserAction() *ErrorBuilder { return b.WithRetry(RetryUserAction) }

// Build finalizes the ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		retry:    b.retry,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// Convenience constructors, one per category in the domain taxonomy.

// ValidationError reports bad caller input. No state was changed.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).UserAction()
}

// NotFoundError reports a lookup by unknown id.
func NotFoundError(message string) *ErrorBuilder {
	return NewError(CategoryNotFound, message)
}

// ConflictError reports an attempted violation of the single-open-entry
// invariant. Callers must not retry blindly.
func ConflictError(message string) *ErrorBuilder {
	return NewError(CategoryConflict, message)
}

// InvalidStateError reports an operation attempted in the wrong state.
func InvalidStateError(message string) *ErrorBuilder {
	return NewError(CategoryInvalidState, message)
}

// AlreadyExistsError reports a unique-constraint violation.
func AlreadyExistsError(message string) *ErrorBuilder {
	return NewError(CategoryAlreadyExists, message).UserAction()
}

// StorageError reports a database I/O or transaction failure. Reads may be
// retried; a failed mutation has been rolled back.
func StorageError(message string) *ErrorBuilder {
	return NewError(CategoryStorage, message).Retryable()
}

// MigrationError reports a schema migration failure. Always fatal: the
// application must not run against a partially migrated schema.
func MigrationError(message string) *ErrorBuilder {
	return NewError(CategoryMigration, message).Fatal()
}

// ConfigError reports an unusable configuration.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal()
}

// InternalError reports a bug.
func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
