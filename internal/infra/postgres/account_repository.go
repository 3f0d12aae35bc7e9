package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizrank-service/internal/domain"
)

const uniqueViolation = "23505"

// AccountRepository stores user and admin accounts in Postgres.
type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (id, role, username, name, pass_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, account.ID, string(account.Role), account.Username, account.Name, account.PassHash, account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

func (r *AccountRepository) AccountByUsername(ctx context.Context, role domain.Role, username string) (domain.Account, error) {
	var account domain.Account
	var roleStr string
	err := r.pool.QueryRow(ctx, `
		SELECT id, role, username, name, pass_hash, created_at
		FROM accounts WHERE role=$1 AND username=$2
	`, string(role), username).Scan(&account.ID, &roleStr, &account.Username, &account.Name, &account.PassHash, &account.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("account by username: %w", err)
	}
	account.Role = domain.Role(roleStr)
	return account, nil
}
