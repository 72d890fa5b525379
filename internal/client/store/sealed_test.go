package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealed_RoundTrip(t *testing.T) {
	ctx := context.Background()
	inner := NewMemory()

	s, err := NewSealed(ctx, inner, []byte("secret"))
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, KeyAuthToken, []byte("token-value")))

	raw, err := inner.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "token-value")

	v, err := s.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, []byte("token-value"), v)

	missing, err := s.Get(ctx, KeyUserData)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSealed_ReopenWithSameSecret(t *testing.T) {
	ctx := context.Background()
	inner := NewMemory()

	s1, err := NewSealed(ctx, inner, []byte("secret"))
	require.NoError(t, err)
	require.NoError(t, s1.SetMany(ctx, map[string][]byte{
		KeyAuthToken:    []byte("a"),
		KeyRefreshToken: []byte("r"),
	}))

	s2, err := NewSealed(ctx, inner, []byte("secret"))
	require.NoError(t, err)

	all, err := s2.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{
		KeyAuthToken:    []byte("a"),
		KeyRefreshToken: []byte("r"),
	}, all)
}

func TestSealed_WrongSecret(t *testing.T) {
	ctx := context.Background()
	inner := NewMemory()

	s1, err := NewSealed(ctx, inner, []byte("secret"))
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, KeyAuthToken, []byte("a")))

	s2, err := NewSealed(ctx, inner, []byte("other"))
	require.NoError(t, err)

	_, err = s2.Get(ctx, KeyAuthToken)
	require.ErrorIs(t, err, ErrSealBroken)
}

func TestSealed_ValueBoundToKey(t *testing.T) {
	ctx := context.Background()
	inner := NewMemory()

	s, err := NewSealed(ctx, inner, []byte("secret"))
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyAuthToken, []byte("a")))

	raw, _ := inner.Get(ctx, KeyAuthToken)
	require.NoError(t, inner.Set(ctx, KeyRefreshToken, raw))

	_, err = s.Get(ctx, KeyRefreshToken)
	require.ErrorIs(t, err, ErrSealBroken)
}

func TestSealed_ClearKeepsSalt(t *testing.T) {
	ctx := context.Background()
	inner := NewMemory()

	s, err := NewSealed(ctx, inner, []byte("secret"))
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyAuthToken, []byte("a")))
	require.NoError(t, s.Clear(ctx))

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	salt, err := inner.Get(ctx, saltKey)
	require.NoError(t, err)
	assert.Len(t, salt, saltSize)
}
