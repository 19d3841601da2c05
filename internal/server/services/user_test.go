package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/autodealer/internal/common"
	"github.com/dmitrijs2005/autodealer/internal/server/auth"
	"github.com/dmitrijs2005/autodealer/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T, s *store) *UserService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	cfg := &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
	}
	return NewUserService(db, &fakeRepoManager{s}, cfg)
}

func TestRegister_IssuesTokenForNewAccount(t *testing.T) {
	svc := newUserService(t, newStore())

	sess, err := svc.Register(context.Background(), " Asha ", " Asha@Example.com ", "secret1")
	require.NoError(t, err)

	assert.Equal(t, "Asha", sess.User.Name)
	assert.Equal(t, "asha@example.com", sess.User.Email)
	assert.False(t, sess.User.IsAdmin)
	assert.Empty(t, sess.User.PasswordHash)

	claims, err := auth.ParseToken(sess.Token, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, claims.UserID())
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.False(t, claims.IsAdmin)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newUserService(t, newStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, "Asha", "asha@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other", "ASHA@example.com", "secret2")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestRegister_Validation(t *testing.T) {
	svc := newUserService(t, newStore())
	ctx := context.Background()

	tests := []struct {
		name, email, password string
	}{
		{"", "a@example.com", "secret1"},
		{"A", "not-an-email", "secret1"},
		{"A", "Name <a@example.com>", "secret1"},
		{"A", "a@example.com", "short"},
		{"A", "a@example.com", strings.Repeat("x", 73)},
	}
	for _, tt := range tests {
		_, err := svc.Register(ctx, tt.name, tt.email, tt.password)
		assert.ErrorIs(t, err, common.ErrorValidation, "%q %q", tt.name, tt.email)
	}
}

func TestRegister_RepoError(t *testing.T) {
	s := newStore()
	s.errOn["users.Create"] = errors.New("db down")
	svc := newUserService(t, s)

	_, err := svc.Register(context.Background(), "A", "a@example.com", "secret1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestLogin(t *testing.T) {
	svc := newUserService(t, newStore())
	ctx := context.Background()

	reg, err := svc.Register(ctx, "Asha", "asha@example.com", "secret1")
	require.NoError(t, err)

	sess, err := svc.Login(ctx, "ASHA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, sess.User.ID)
	assert.Empty(t, sess.User.PasswordHash)

	_, err = svc.Login(ctx, "asha@example.com", "wrong-password")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLogin_RepoError(t *testing.T) {
	s := newStore()
	s.errOn["users.GetByEmail"] = errors.New("db down")
	svc := newUserService(t, s)

	_, err := svc.Login(context.Background(), "a@example.com", "secret1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestEnsureAdmin_CreatesThenPromotes(t *testing.T) {
	s := newStore()
	svc := newUserService(t, s)
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "Root", "root@example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, created)

	sess, err := svc.Login(ctx, "root@example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, sess.User.IsAdmin)

	_, err = svc.Register(ctx, "Asha", "asha@example.com", "secret1")
	require.NoError(t, err)
	created, err = svc.EnsureAdmin(ctx, "", "Asha@example.com", "")
	require.NoError(t, err)
	assert.False(t, created)

	sess, err = svc.Login(ctx, "asha@example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, sess.User.IsAdmin)

	claims, err := auth.ParseToken(sess.Token, []byte("k"))
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}

func TestEnsureAdmin_PasswordTooLong(t *testing.T) {
	svc := newUserService(t, newStore())

	_, err := svc.EnsureAdmin(context.Background(), "Root", "root@example.com", strings.Repeat("x", 73))
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestRevokeAdmin(t *testing.T) {
	svc := newUserService(t, newStore())
	ctx := context.Background()

	_, err := svc.EnsureAdmin(ctx, "Root", "root@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, svc.RevokeAdmin(ctx, "root@example.com"))

	sess, err := svc.Login(ctx, "root@example.com", "secret1")
	require.NoError(t, err)
	assert.False(t, sess.User.IsAdmin)

	assert.ErrorIs(t, svc.RevokeAdmin(ctx, "ghost@example.com"), common.ErrorNotFound)
}

func TestListUsers_HidesHashes(t *testing.T) {
	svc := newUserService(t, newStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, "A", "a@example.com", "secret1")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "B", "b@example.com", "secret1")
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.PasswordHash)
	}
}
