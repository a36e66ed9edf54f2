package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"chat-history/config"
	"chat-history/internal/domain"
	"chat-history/internal/domain/account"
	"chat-history/internal/repository"
	history_errors "chat-history/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestAuth(t *testing.T) (*AuthService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	return NewAuthService(store, &config.Config{JWTSecret: testSecret, JWTExpiryMin: 15}), store
}

func signClaims(t *testing.T, method jwt.SigningMethod, key interface{}, claims AccessClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestIssueAndResolve_Account(t *testing.T) {
	auth, store := newTestAuth(t)
	a := store.AddAccount(account.Account{Username: "alice"})

	token, expiresIn, err := auth.IssueAccessToken(domain.AccountPrincipal(a.ID))
	require.NoError(t, err)
	require.Equal(t, int64(900), expiresIn)

	p, err := auth.ResolvePrincipal(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, domain.AccountPrincipal(a.ID), p)
}

func TestIssueAndResolve_Guest(t *testing.T) {
	auth, _ := newTestAuth(t)

	token, _, err := auth.IssueAccessToken(domain.GuestPrincipal())
	require.NoError(t, err)

	claims, err := auth.ParseAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, GuestIdentity, claims.Subject)
	require.NotEmpty(t, claims.ID)

	p, err := auth.ResolvePrincipal(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, domain.PrincipalGuest, p.Kind)
}

func TestResolvePrincipal_Rejections(t *testing.T) {
	auth, store := newTestAuth(t)
	a := store.AddAccount(account.Account{Username: "alice"})
	now := time.Now()
	valid := func(sub string) AccessClaims {
		return AccessClaims{
			TokenType: accessTokenType,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   sub,
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
		}
	}

	expired := valid("1")
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
	noExpiry := valid("1")
	noExpiry.ExpiresAt = nil
	refresh := valid("1")
	refresh.TokenType = "refresh"

	cases := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "wrong secret", token: signClaims(t, jwt.SigningMethodHS256, []byte("other"), valid("1"))},
		{name: "none alg", token: signClaims(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid("1"))},
		{name: "expired", token: signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), expired)},
		{name: "no expiry", token: signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), noExpiry)},
		{name: "refresh token", token: signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), refresh)},
		{name: "non numeric subject", token: signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), valid("alice"))},
		{name: "negative subject", token: signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), valid("-3"))},
		{name: "unknown account", token: signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), valid("999"))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auth.ResolvePrincipal(context.Background(), tc.token)
			require.ErrorIs(t, err, history_errors.ErrUnauthorized)
			require.Equal(t, 401, HTTPStatus(err))
		})
	}

	// sanity: the same helper with a known account succeeds
	p, err := auth.ResolvePrincipal(context.Background(), signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), valid("1")))
	require.NoError(t, err)
	require.Equal(t, domain.AccountPrincipal(a.ID), p)
}

func TestResolvePrincipal_StoreFailureIsNotUnauthorized(t *testing.T) {
	boom := errors.New("db down")
	auth := NewAuthService(failingAccounts{err: boom}, &config.Config{JWTSecret: testSecret, JWTExpiryMin: 15})
	token, _, err := auth.IssueAccessToken(domain.AccountPrincipal(7))
	require.NoError(t, err)

	_, err = auth.ResolvePrincipal(context.Background(), token)
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, history_errors.ErrUnauthorized)
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFromContext(context.Background())
	require.False(t, ok)

	ctx := WithPrincipal(context.Background(), domain.AccountPrincipal(3))
	p, ok := PrincipalFromContext(ctx)
	require.True(t, ok)
	require.Equal(t, int64(3), p.AccountID)
}

func TestHTTPStatus(t *testing.T) {
	require.Equal(t, 401, HTTPStatus(history_errors.ErrUnauthorized))
	require.Equal(t, 403, HTTPStatus(fmt.Errorf("guest: %w", history_errors.ErrForbidden)))
	require.Equal(t, 404, HTTPStatus(history_errors.ErrNotFound))
	require.Equal(t, 429, HTTPStatus(history_errors.ErrRateLimited))
	require.Equal(t, 500, HTTPStatus(errors.New("other")))
}

type failingAccounts struct {
	err error
}

func (f failingAccounts) Exists(context.Context, int64) (bool, error) {
	return false, f.err
}
