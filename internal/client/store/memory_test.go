package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	v, err := m.Get(ctx, KeyUserData)
	require.NoError(t, err)
	assert.Nil(t, v)

	src := []byte("x")
	require.NoError(t, m.Set(ctx, "a", src))
	src[0] = 'y'

	v, err = m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), v, "stored value must not alias the caller's slice")

	require.NoError(t, m.SetMany(ctx, map[string][]byte{"b": []byte("2"), "c": []byte("3")}))
	require.NoError(t, m.Delete(ctx, "b", "nope"))

	all, err := m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"a": []byte("x"), "c": []byte("3")}, all)

	require.NoError(t, m.Clear(ctx))
	all, err = m.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestGetString(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	s, err := GetString(ctx, m, KeyAuthToken)
	require.NoError(t, err)
	assert.Empty(t, s)

	require.NoError(t, m.Set(ctx, KeyAuthToken, []byte("tok")))
	s, err = GetString(ctx, m, KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, "tok", s)
}
