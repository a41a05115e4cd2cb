package sessionstore

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/ezdash/internal/domain/models"
	"github.com/stretchr/testify/require"
)

func sampleSession() models.Session {
	return models.Session{
		Email:     "ana@example.com",
		AuthToken: "tok-123",
		UserID:    "42",
		FirstName: "Ana",
		LastName:  "Diaz",
	}
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemory(), nil)

	require.NoError(t, s.Save(ctx, sampleSession()))

	got, ok := s.Load(ctx)
	require.True(t, ok)
	require.Equal(t, sampleSession(), got)
	require.Equal(t, "tok-123", s.Token(ctx))
}

func TestIsAuthenticated_FollowsTokenPresence(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemory(), nil)
	require.False(t, s.IsAuthenticated(ctx))

	require.NoError(t, s.Save(ctx, sampleSession()))
	require.True(t, s.IsAuthenticated(ctx))

	require.NoError(t, s.Clear(ctx))
	require.False(t, s.IsAuthenticated(ctx))
	_, ok := s.Load(ctx)
	require.False(t, ok)
}

func TestSave_EmptyTokenIsNotAuthenticated(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemory(), nil)

	sess := sampleSession()
	sess.AuthToken = ""
	require.NoError(t, s.Save(ctx, sess))
	require.False(t, s.IsAuthenticated(ctx))
}

func TestLoad_MalformedRecordIsAbsent(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	require.NoError(t, kv.Set(ctx, AuthKey, []byte("{not json")))

	s := New(kv, nil)
	got, ok := s.Load(ctx)
	require.False(t, ok)
	require.Equal(t, models.Session{}, got)
}

func TestToken_FallsBackToRecord(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	require.NoError(t, kv.Set(ctx, AuthKey, []byte(`{"authToken":"from-record"}`)))

	s := New(kv, nil)
	require.Equal(t, "from-record", s.Token(ctx))
}

type failingKV struct{ *Memory }

func (f failingKV) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("backend down")
}

func TestLoad_BackendErrorIsAbsent(t *testing.T) {
	s := New(failingKV{NewMemory()}, nil)
	_, ok := s.Load(context.Background())
	require.False(t, ok)
	require.False(t, s.IsAuthenticated(context.Background()))
}

func TestClear_RemovesBothKeys(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	s := New(kv, nil)
	require.NoError(t, s.Save(ctx, sampleSession()))
	require.Equal(t, 2, kv.Len())

	require.NoError(t, s.Clear(ctx))
	require.Equal(t, 0, kv.Len())
}
