package logfields

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestHelperKeyNames verifies helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	assert.Equal(t, KeyProfileID, ProfileID(1).Key)
	assert.Equal(t, int64(1), ProfileID(1).Value.Int64())
	assert.Equal(t, KeyEntryID, EntryID(7).Key)
	assert.Equal(t, KeyProfile, Profile("Acme").Key)
	assert.Equal(t, "Acme", Profile("Acme").Value.String())
	assert.Equal(t, KeyElapsed, Elapsed(60).Key)
	assert.Equal(t, KeyVersion, SchemaVersion(13).Key)
}

func TestErrorHelper(t *testing.T) {
	assert.Equal(t, "", Error(nil).Value.String())
	assert.Equal(t, "boom", Error(errors.New("boom")).Value.String())
}
