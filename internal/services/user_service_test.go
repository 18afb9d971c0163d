package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oyilmaz/carmarket-backend/internal/auth"
	"github.com/oyilmaz/carmarket-backend/internal/models"
	"github.com/oyilmaz/carmarket-backend/internal/worker"
)

func newUserService(users *fakeUsers) (*UserService, *worker.Pool) {
	tm := auth.NewTokenManager("acc-secret", "ref-secret", "carmarket-test", 15*time.Minute, time.Hour)
	wp := worker.NewPool(1)
	return NewUserService(users, tm, &fakeAuditLogs{}, wp), wp
}

func TestRegister_DefaultsToUserRole(t *testing.T) {
	users := newFakeUsers()
	svc, wp := newUserService(users)
	defer wp.Stop()

	u, err := svc.Register(context.Background(), "ayse", "Ayse@Example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Equal(t, "ayse@example.com", u.Email)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
}

func TestRegister_Invalid(t *testing.T) {
	users := newFakeUsers()
	svc, wp := newUserService(users)
	defer wp.Stop()

	_, err := svc.Register(context.Background(), "ab", "a@b.com", "s3cret-pass")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(context.Background(), "ayse", "not-an-email", "s3cret-pass")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(context.Background(), "ayse", "a@b.com", "short")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := newFakeUsers()
	svc, wp := newUserService(users)
	defer wp.Stop()

	_, err := svc.Register(context.Background(), "ayse", "a@b.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "other", "a@b.com", "s3cret-pass")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_RoundTrip(t *testing.T) {
	users := newFakeUsers()
	svc, wp := newUserService(users)
	defer wp.Stop()

	reg, err := svc.Register(context.Background(), "ayse", "a@b.com", "s3cret-pass")
	require.NoError(t, err)

	u, pair, err := svc.Login(context.Background(), "a@b.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.ExpiresAt.After(time.Now()))
}

func TestLogin_BadCredentials(t *testing.T) {
	users := newFakeUsers()
	svc, wp := newUserService(users)
	defer wp.Stop()

	_, _, err := svc.Login(context.Background(), "nobody@b.com", "whatever1")
	require.ErrorIs(t, err, ErrBadCredentials)

	_, err2 := svc.Register(context.Background(), "ayse", "a@b.com", "s3cret-pass")
	require.NoError(t, err2)

	_, _, err = svc.Login(context.Background(), "a@b.com", "wrong-pass")
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	users := newFakeUsers()
	svc, wp := newUserService(users)
	defer wp.Stop()

	_, err := svc.Register(context.Background(), "ayse", "a@b.com", "s3cret-pass")
	require.NoError(t, err)
	_, pair, err := svc.Login(context.Background(), "a@b.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.Refresh(pair.AccessToken)
	require.ErrorIs(t, err, ErrBadCredentials)

	fresh, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
}

func TestAssignRole(t *testing.T) {
	users := newFakeUsers()
	svc, wp := newUserService(users)
	defer wp.Stop()

	u, err := svc.Register(context.Background(), "ayse", "a@b.com", "s3cret-pass")
	require.NoError(t, err)

	require.ErrorIs(t, svc.AssignRole(context.Background(), "a@b.com", "superuser"), ErrInvalidInput)
	require.ErrorIs(t, svc.AssignRole(context.Background(), "nobody@b.com", models.RoleAdmin), ErrNotFound)

	require.NoError(t, svc.AssignRole(context.Background(), "a@b.com", models.RoleAdmin))
	got, err := users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)
}
