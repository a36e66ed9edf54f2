package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"chat-history/config"
	"chat-history/internal/domain"
	"chat-history/internal/repository"
	history_errors "chat-history/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// GuestIdentity is the token subject issued to anonymous callers.
const GuestIdentity = "guest_user"

const accessTokenType = "access"

type AuthService struct {
	accounts  repository.AccountRepository
	jwtSecret []byte
	accessTTL time.Duration
}

func NewAuthService(accounts repository.AccountRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		accounts:  accounts,
		jwtSecret: []byte(cfg.JWTSecret),
		accessTTL: time.Duration(cfg.JWTExpiryMin) * time.Minute,
	}
}

type AccessClaims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

func (s *AuthService) ParseAccessToken(tokenString string) (AccessClaims, error) {
	if tokenString == "" {
		return AccessClaims{}, history_errors.ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, history_errors.ErrUnauthorized
		}
		return s.jwtSecret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return AccessClaims{}, history_errors.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid || claims.TokenType != accessTokenType {
		return AccessClaims{}, history_errors.ErrUnauthorized
	}

	return *claims, nil
}

// ResolvePrincipal verifies tokenString and maps its subject to a Principal.
// Account subjects must still refer to a stored account.
func (s *AuthService) ResolvePrincipal(ctx context.Context, tokenString string) (domain.Principal, error) {
	claims, err := s.ParseAccessToken(tokenString)
	if err != nil {
		return domain.Principal{}, err
	}

	if claims.Subject == GuestIdentity {
		return domain.GuestPrincipal(), nil
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return domain.Principal{}, history_errors.ErrUnauthorized
	}

	exists, err := s.accounts.Exists(ctx, id)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("resolve principal: %w", err)
	}
	if !exists {
		return domain.Principal{}, history_errors.ErrUnauthorized
	}
	return domain.AccountPrincipal(id), nil
}

// IssueAccessToken mints an access token for p and returns it together with
// its lifetime in seconds.
func (s *AuthService) IssueAccessToken(p domain.Principal) (string, int64, error) {
	subject := GuestIdentity
	if id, ok := p.Account(); ok {
		subject = strconv.FormatInt(id, 10)
	}

	now := time.Now()
	claims := AccessClaims{
		TokenType: accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", 0, err
	}

	return signed, int64(s.accessTTL.Seconds()), nil
}

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, history_errors.ErrUnauthorized):
		return 401
	case errors.Is(err, history_errors.ErrForbidden):
		return 403
	case errors.Is(err, history_errors.ErrNotFound):
		return 404
	case errors.Is(err, history_errors.ErrRateLimited):
		return 429
	default:
		return 500
	}
}

type ctxKey string

var principalKey ctxKey = "principal"

func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	value := ctx.Value(principalKey)
	if value == nil {
		return domain.Principal{}, false
	}
	p, ok := value.(domain.Principal)
	return p, ok
}
