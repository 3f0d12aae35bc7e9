package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"quizrank-service/internal/domain"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account, err := env.auth.Register(ctx, domain.RoleUser, "alice", "Alice", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, account.ID)
	require.NotEqual(t, "s3cret", string(account.PassHash), "password must be hashed")

	token, got, err := env.auth.Login(ctx, domain.RoleUser, "alice", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, account.ID, got.ID)

	claims, err := env.auth.VerifyToken(token)
	require.NoError(t, err)
	require.Equal(t, account.ID, claims.AccountID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, domain.RoleUser, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, domain.RoleUser, "alice", "Alice", "s3cret")
	require.NoError(t, err)

	_, _, err = env.auth.Login(ctx, domain.RoleUser, "alice", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnknownAccountIndistinguishable(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.auth.Login(context.Background(), domain.RoleUser, "ghost", "whatever")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, domain.RoleUser, "alice", "Alice", "pw1")
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, domain.RoleUser, "alice", "Other Alice", "pw2")
	require.ErrorIs(t, err, domain.ErrUsernameTaken)

	// The same username under the other role is a different account.
	_, err = env.auth.Register(ctx, domain.RoleAdmin, "alice", "Admin Alice", "pw3")
	require.NoError(t, err)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.VerifyToken("not-a-token")
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}
