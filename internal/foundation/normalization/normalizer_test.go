package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mode int

const (
	modeOff mode = iota
	modeOn
)

func testNormalizer() *Normalizer[mode] {
	return NewNormalizer(map[string]mode{
		"off": modeOff,
		"on":  modeOn,
	}, modeOff)
}

func TestNormalize(t *testing.T) {
	n := testNormalizer()

	assert.Equal(t, modeOn, n.Normalize("on"))
	assert.Equal(t, modeOn, n.Normalize("  ON "))
	assert.Equal(t, modeOff, n.Normalize(""))
	assert.Equal(t, modeOff, n.Normalize("bogus"))
}

func TestNormalizeWithError(t *testing.T) {
	n := testNormalizer()

	v, err := n.NormalizeWithError("On")
	require.NoError(t, err)
	assert.Equal(t, modeOn, v)

	v, err = n.NormalizeWithError("")
	require.NoError(t, err)
	assert.Equal(t, modeOff, v)

	_, err = n.NormalizeWithError("bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestValidKeysSorted(t *testing.T) {
	assert.Equal(t, []string{"off", "on"}, testNormalizer().ValidKeys())
}
