package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/santana-waiter/internal/model"
	"github.com/mmeshcher/santana-waiter/internal/storage"
)

type stubStorage struct {
	values map[string][]byte
	getErr error
}

func (s *stubStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	v, ok := s.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return v, nil
}

func (s *stubStorage) Set(ctx context.Context, key string, value []byte) error {
	if s.values == nil {
		s.values = map[string][]byte{}
	}
	s.values[key] = value
	return nil
}

func (s *stubStorage) Delete(ctx context.Context, key string) error {
	delete(s.values, key)
	return nil
}

func TestStore_RoundTripWithFileStorage(t *testing.T) {
	ctx := context.Background()
	fs, err := storage.NewFile(filepath.Join(t.TempDir(), "session.json"), nil)
	require.NoError(t, err)

	store := NewStore(fs)

	_, ok, err := store.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	cred := model.Credential{ID: "u1", Name: "Ana", Email: "a@a.com", Token: "tok"}
	require.NoError(t, store.Set(ctx, cred))

	got, ok, err := store.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cred, got)

	require.NoError(t, store.Clear(ctx))

	_, ok, err = store.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_UsesNamespace(t *testing.T) {
	st := &stubStorage{}
	store := NewStore(st)

	require.NoError(t, store.Set(context.Background(), model.Credential{Token: "tok"}))
	assert.Contains(t, st.values, Namespace)
}

func TestStore_TokenlessIsAbsent(t *testing.T) {
	st := &stubStorage{values: map[string][]byte{Namespace: []byte(`{"name":"Ana"}`)}}

	_, ok, err := NewStore(st).Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_RejectsTokenlessCredential(t *testing.T) {
	err := NewStore(&stubStorage{}).Set(context.Background(), model.Credential{Name: "Ana"})
	require.Error(t, err)
}

func TestStore_Errors(t *testing.T) {
	boom := errors.New("disk failure")

	_, _, err := NewStore(&stubStorage{getErr: boom}).Get(context.Background())
	require.ErrorIs(t, err, boom)

	st := &stubStorage{values: map[string][]byte{Namespace: []byte(`not json`)}}
	_, _, err = NewStore(st).Get(context.Background())
	require.Error(t, err)
}
