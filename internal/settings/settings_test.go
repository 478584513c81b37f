package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesEmptyStore(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)
	assert.Nil(t, s.LastProfileID())
	_, ok := s.Get("anything")
	assert.False(t, ok)
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	s, err := Load(path)
	require.NoError(t, err)

	id := int64(42)
	require.NoError(t, s.SaveLastProfileID(&id))
	require.NoError(t, s.Set("theme", "dark"))
	require.NoError(t, s.SaveWindow(json.RawMessage(`{"x":10,"y":20}`)))

	reloaded, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastProfileID())
	assert.Equal(t, int64(42), *reloaded.LastProfileID())

	theme, ok := reloaded.Get("theme")
	require.True(t, ok)
	assert.Equal(t, "dark", theme)
	assert.JSONEq(t, `{"x":10,"y":20}`, string(reloaded.Window()))
}

func TestClearLastProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := Load(path)
	require.NoError(t, err)

	id := int64(7)
	require.NoError(t, s.SaveLastProfileID(&id))
	require.NoError(t, s.SaveLastProfileID(nil))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Nil(t, reloaded.LastProfileID())
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
