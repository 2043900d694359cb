package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

var fast = Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32}

func TestRandBytes_LengthAndUniqueness(t *testing.T) {
	t.Parallel()

	a, err := RandBytes(SaltLen)
	require.NoError(t, err)
	require.Len(t, a, SaltLen)

	b, err := RandBytes(SaltLen)
	require.NoError(t, err)
	require.False(t, bytes.Equal(a, b), "two salts are equal")
}

func TestHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	h := NewHasher(fast)
	hash, salt, err := h.Hash("s3cret!")
	require.NoError(t, err)
	require.Len(t, salt, SaltLen)
	require.Len(t, hash, int(fast.KeyLen))

	require.True(t, h.Verify("s3cret!", salt, hash))
	require.False(t, h.Verify("s3cret?", salt, hash))
	require.False(t, h.Verify("s3cret!", make([]byte, SaltLen), hash))
}

func TestHasher_SamePasswordDifferentSalt(t *testing.T) {
	t.Parallel()

	h := NewHasher(fast)
	h1, s1, err := h.Hash("password")
	require.NoError(t, err)
	h2, s2, err := h.Hash("password")
	require.NoError(t, err)

	require.NotEqual(t, s1, s2)
	require.NotEqual(t, h1, h2)
}

func TestHasher_ParamsChangeHash(t *testing.T) {
	t.Parallel()

	a := NewHasher(fast)
	b := NewHasher(Params{Time: 2, Memory: 1024, Threads: 1, KeyLen: 32})
	hash, salt, err := a.Hash("pw")
	require.NoError(t, err)
	require.False(t, b.Verify("pw", salt, hash))
}

func TestHasher_Burn(t *testing.T) {
	t.Parallel()
	require.NotPanics(t, func() { NewHasher(fast).Burn("anything") })
}
