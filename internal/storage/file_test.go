package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "device", "storage.json")

	f, err := NewFile(path, nil)
	require.NoError(t, err)

	_, err = f.Get(ctx, "@santanapizzaria")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.Set(ctx, "@santanapizzaria", []byte(`{"token":"tok"}`)))

	got, err := f.Get(ctx, "@santanapizzaria")
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"tok"}`, string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, f.Delete(ctx, "@santanapizzaria"))
	require.NoError(t, f.Delete(ctx, "@santanapizzaria"))

	_, err = f.Get(ctx, "@santanapizzaria")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFile_Sealed(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.json")
	key, err := ParseKey(strings.Repeat("ab", 32))
	require.NoError(t, err)

	f, err := NewFile(path, key)
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, "k", []byte(`{"token":"secret-token"}`)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-token")

	got, err := f.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"token":"secret-token"}`, string(got))

	otherKey, err := ParseKey(strings.Repeat("cd", 32))
	require.NoError(t, err)
	other, err := NewFile(path, otherKey)
	require.NoError(t, err)

	_, err = other.Get(ctx, "k")
	require.ErrorIs(t, err, ErrSealed)
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantLen int
		wantErr bool
	}{
		{name: "empty disables sealing", in: "", wantLen: 0},
		{name: "valid", in: strings.Repeat("0f", 32), wantLen: 32},
		{name: "short", in: "abcd", wantErr: true},
		{name: "not hex", in: strings.Repeat("zz", 32), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ParseKey(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, key, tt.wantLen)
		})
	}
}

func TestNewFile_EmptyPath(t *testing.T) {
	_, err := NewFile("", nil)
	require.Error(t, err)
}
