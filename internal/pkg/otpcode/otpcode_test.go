package otpcode

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_FixedLengthNumeric(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := Generate()
		require.NoError(t, err)
		assert.Len(t, code, Length)
		_, err = strconv.Atoi(code)
		assert.NoError(t, err, "code %q must be numeric", code)
	}
}

func TestHashCompare_RoundTrip(t *testing.T) {
	code, err := Generate()
	require.NoError(t, err)

	digest, err := Hash(code)
	require.NoError(t, err)
	assert.NotEqual(t, code, digest)
	assert.True(t, Compare(code, digest))
}

func TestCompare_Mismatch(t *testing.T) {
	digest, err := Hash("123456")
	require.NoError(t, err)
	assert.False(t, Compare("123457", digest))
	assert.False(t, Compare("123456", "not-a-bcrypt-digest"))
}

func TestHash_Salted(t *testing.T) {
	a, err := Hash("000000")
	require.NoError(t, err)
	b, err := Hash("000000")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
