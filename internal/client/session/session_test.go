package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/autodealer/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	data   map[string][]byte
	getErr error
}

func newMemRepo() *memRepo { return &memRepo{data: map[string][]byte{}} }

func (m *memRepo) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.data[key], nil
}

func (m *memRepo) Set(_ context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}

func (m *memRepo) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("any"))
	require.NoError(t, err)
	return tok
}

func TestStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	sess := &models.Session{ID: "u1", Name: "Asha", Email: "asha@example.in", Token: signed(t, time.Now().Add(time.Hour))}

	s := NewStore(repo)
	require.NoError(t, s.Save(ctx, sess))
	assert.Equal(t, sess.Token, s.Token())

	reopened := NewStore(repo)
	require.NoError(t, reopened.Load(ctx))
	require.NotNil(t, reopened.Current())
	assert.Equal(t, "Asha", reopened.Current().Name)

	require.NoError(t, reopened.Clear(ctx))
	assert.Nil(t, reopened.Current())
	assert.Empty(t, repo.data)
}

func TestStore_LoadDropsExpiredSession(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	require.NoError(t, NewStore(repo).Save(ctx, &models.Session{ID: "u1", Token: signed(t, time.Now().Add(-time.Minute))}))

	s := NewStore(repo)
	require.NoError(t, s.Load(ctx))
	assert.Nil(t, s.Current())
	assert.Empty(t, repo.data)
}

func TestStore_LoadDropsGarbage(t *testing.T) {
	repo := newMemRepo()
	repo.data[metadataKey] = []byte("{not json")

	s := NewStore(repo)
	require.NoError(t, s.Load(context.Background()))
	assert.Nil(t, s.Current())
	assert.Empty(t, repo.data)
}

func TestStore_LoadPropagatesRepoError(t *testing.T) {
	repo := newMemRepo()
	repo.getErr = errors.New("disk gone")

	assert.EqualError(t, NewStore(repo).Load(context.Background()), "disk gone")
}

func TestStore_CurrentExpiresInMemory(t *testing.T) {
	orig := now
	t.Cleanup(func() { now = orig })

	s := NewStore(newMemRepo())
	require.NoError(t, s.Save(context.Background(), &models.Session{Token: signed(t, time.Now().Add(time.Hour))}))
	require.NotNil(t, s.Current())

	now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.Nil(t, s.Current())
	assert.Empty(t, s.Token())
}

func TestExpired(t *testing.T) {
	assert.True(t, Expired("not-a-token"))
	assert.True(t, Expired(""))
	assert.False(t, Expired(signed(t, time.Now().Add(time.Minute))))
}
