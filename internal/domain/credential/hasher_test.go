package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive_Deterministic(t *testing.T) {
	salt := make([]byte, SaltSize)
	a := Derive("oldpass", salt)
	b := Derive("oldpass", salt)

	assert.Len(t, a, HashSize)
	assert.Equal(t, a, b)
}

func TestDerive_DistinctSalts(t *testing.T) {
	s1, err := GenerateSalt()
	require.NoError(t, err)
	s2, err := GenerateSalt()
	require.NoError(t, err)

	assert.Len(t, s1, SaltSize)
	assert.NotEqual(t, s1, s2)
	assert.NotEqual(t, Derive("same", s1), Derive("same", s2))
}

func TestVerify(t *testing.T) {
	hash, salt, err := NewHash("s3cret!")
	require.NoError(t, err)

	assert.True(t, Verify("s3cret!", hash, salt))
	assert.False(t, Verify("s3cret?", hash, salt))
	assert.False(t, Verify("", hash, salt))
	assert.False(t, Verify("s3cret!", hash[:HashSize-1], salt), "un hash truncado nunca coincide")
}

func TestNewHash_FreshSaltEachTime(t *testing.T) {
	h1, s1, err := NewHash("pw")
	require.NoError(t, err)
	h2, s2, err := NewHash("pw")
	require.NoError(t, err)

	assert.NotEqual(t, s1, s2)
	assert.NotEqual(t, h1, h2)
}
