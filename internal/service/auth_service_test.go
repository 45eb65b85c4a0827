package service

import (
	"context"
	"posta/internal/entity/dto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered, err := env.svc.Auth.Register(ctx, dto.AuthRegisterRequest{
		Email:       " Creator@Example.com ",
		Password:    "correct horse",
		DisplayName: "Creator",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "creator@example.com", registered.User.Email)

	loggedIn, err := env.svc.Auth.Login(ctx, dto.AuthLoginRequest{Email: "CREATOR@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	user, err := env.svc.Auth.Authenticate(ctx, loggedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, user.ID.String())

	me, err := env.svc.Auth.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Creator", me.DisplayName)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req := dto.AuthRegisterRequest{Email: "a@example.com", Password: "password1"}

	_, err := env.svc.Auth.Register(ctx, req)
	require.NoError(t, err)

	req.Email = "A@example.com"
	_, err = env.svc.Auth.Register(ctx, req)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.svc.Auth.Register(ctx, dto.AuthRegisterRequest{Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = env.svc.Auth.Login(ctx, dto.AuthLoginRequest{Email: "a@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = env.svc.Auth.Login(ctx, dto.AuthLoginRequest{Email: "nobody@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = env.svc.Auth.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRegistrationCanBeDisabled(t *testing.T) {
	env := newTestEnv(t)
	env.svc.Auth.allowRegistration = false

	_, err := env.svc.Auth.Register(context.Background(), dto.AuthRegisterRequest{Email: "a@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrForbidden)
}
