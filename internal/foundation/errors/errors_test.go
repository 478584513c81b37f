package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderDefaults(t *testing.T) {
	err := NewError(CategoryStorage, "boom").Build()

	assert.Equal(t, CategoryStorage, err.Category())
	assert.Equal(t, SeverityError, err.Severity())
	assert.Equal(t, RetryNever, err.RetryStrategy())
	assert.Equal(t, "boom", err.Message())
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *ClassifiedError
		category Category
		fatal    bool
	}{
		{"validation", ValidationError("empty name").Build(), CategoryValidation, false},
		{"not found", NotFoundError("no such profile").Build(), CategoryNotFound, false},
		{"conflict", ConflictError("entry already open").Build(), CategoryConflict, false},
		{"invalid state", InvalidStateError("timer idle").Build(), CategoryInvalidState, false},
		{"already exists", AlreadyExistsError("duplicate name").Build(), CategoryAlreadyExists, false},
		{"storage", StorageError("tx failed").Build(), CategoryStorage, false},
		{"migration", MigrationError("step 7 failed").Build(), CategoryMigration, true},
		{"internal", InternalError("bug").Build(), CategoryInternal, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category())
			assert.Equal(t, tt.fatal, tt.err.IsFatal())
			assert.True(t, HasCategory(tt.err, tt.category))
		})
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := WrapError(cause, CategoryStorage, "insert entry").Build()

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, err.Error(), "[storage:error]")
}

func TestWithContextCopies(t *testing.T) {
	base := ConflictError("entry already open").Build()
	derived := base.WithContext("entry_id", int64(42))

	_, ok := base.Context().Get("entry_id")
	assert.False(t, ok, "base error must not be mutated")

	v, ok := derived.Context().Get("entry_id")
	require.True(t, ok)
	assert.Equal(t, int64(42), v)
}

func TestHasCategoryOnPlainError(t *testing.T) {
	assert.False(t, HasCategory(errors.New("plain"), CategoryStorage))
	assert.Equal(t, CategoryInternal, GetCategory(errors.New("plain")))
}

func TestCLIAdapterExitCodes(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, nil)

	assert.Equal(t, 0, adapter.ExitCodeFor(nil))
	assert.Equal(t, 1, adapter.ExitCodeFor(errors.New("plain")))
	assert.Equal(t, 2, adapter.ExitCodeFor(ValidationError("bad").Build()))
	assert.Equal(t, 4, adapter.ExitCodeFor(ConflictError("open").Build()))
	assert.Equal(t, 8, adapter.ExitCodeFor(MigrationError("step").Build()))
}
