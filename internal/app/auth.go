package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"quizrank-service/internal/domain"
)

// AccountRepository stores user and admin accounts.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	AccountByUsername(ctx context.Context, role domain.Role, username string) (domain.Account, error)
}

// Claims is the verified identity carried by an auth token.
type Claims struct {
	AccountID string
	Username  string
	Role      domain.Role
}

// AuthService issues and verifies signed tokens. The signing secret is
// injected at construction; there is no default.
type AuthService struct {
	log      *slog.Logger
	accounts AccountRepository
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthService(log *slog.Logger, accounts AccountRepository, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		log:      log,
		accounts: accounts,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// Register creates a new account with a bcrypt password hash.
func (a *AuthService) Register(ctx context.Context, role domain.Role, username, name, password string) (domain.Account, error) {
	const op = "app.AuthService.Register"

	log := a.log.With(slog.String("op", op), slog.String("username", username), slog.String("role", string(role)))

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	account := domain.Account{
		ID:        uuid.NewString(),
		Role:      role,
		Username:  username,
		Name:      name,
		PassHash:  passHash,
		CreatedAt: a.now(),
	}
	if err := a.accounts.SaveAccount(ctx, account); err != nil {
		return domain.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("account registered")
	return account, nil
}

// Login checks credentials and returns a signed token. A missing account and
// a wrong password are indistinguishable to the caller.
func (a *AuthService) Login(ctx context.Context, role domain.Role, username, password string) (string, domain.Account, error) {
	const op = "app.AuthService.Login"

	account, err := a.accounts.AccountByUsername(ctx, role, username)
	if err != nil {
		return "", domain.Account{}, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(account.PassHash, []byte(password)); err != nil {
		return "", domain.Account{}, domain.ErrInvalidCredentials
	}

	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      account.ID,
		"username": account.Username,
		"role":     string(account.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(a.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", domain.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	a.log.Info("signin successful", slog.String("op", op), slog.String("username", username), slog.String("role", string(role)))
	return signed, account, nil
}

// VerifyToken parses and validates a token, returning its claims.
func (a *AuthService) VerifyToken(tokenStr string) (Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, domain.ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, domain.ErrInvalidToken
	}
	sub, _ := mapClaims["sub"].(string)
	username, _ := mapClaims["username"].(string)
	role, _ := mapClaims["role"].(string)
	if sub == "" || role == "" {
		return Claims{}, domain.ErrInvalidToken
	}
	return Claims{AccountID: sub, Username: username, Role: domain.Role(role)}, nil
}
