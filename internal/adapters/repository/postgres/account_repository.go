package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/session"
	pgdb "github.com/ogurasousui/resource-allocation-admin/internal/platform/db/postgres"
)

const accountColumns = `id, email, name, password_hash, status, created_at, updated_at`

// AccountRepository は PostgreSQL を利用した管理者アカウント永続化の実装です。
type AccountRepository struct {
	pool pgdb.Queryer
}

// NewAccountRepository は AccountRepository を生成します。
func NewAccountRepository(pool pgdb.Queryer) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create はアカウントを新規作成します。
func (r *AccountRepository) Create(ctx context.Context, a *session.Account) (*session.Account, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO accounts (email, name, password_hash, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING `+accountColumns,
		a.Email, a.Name, a.PasswordHash, string(a.Status), a.CreatedAt, a.UpdatedAt)

	created, err := scanAccount(row)
	if err != nil {
		return nil, translateAccountPgError(err)
	}
	return created, nil
}

// FindByID はIDでアカウントを取得します。
func (r *AccountRepository) FindByID(ctx context.Context, id string) (*session.Account, error) {
	return r.findOne(ctx, `id = $1`, id)
}

// FindByEmail はメールアドレスでアカウントを取得します。
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*session.Account, error) {
	return r.findOne(ctx, `email = $1`, email)
}

func (r *AccountRepository) findOne(ctx context.Context, condition string, arg any) (*session.Account, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+accountColumns+`
          FROM accounts
         WHERE `+condition+`
         LIMIT 1
    `, arg)

	found, err := scanAccount(row)
	if err != nil {
		return nil, translateAccountPgError(err)
	}
	return found, nil
}

func scanAccount(row pgx.Row) (*session.Account, error) {
	var (
		id                   string
		email                string
		name                 string
		passwordHash         string
		status               string
		createdAt, updatedAt time.Time
	)

	if err := row.Scan(&id, &email, &name, &passwordHash, &status, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrAccountNotFound
		}
		return nil, err
	}

	return &session.Account{
		ID:           id,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Status:       session.AccountStatus(status),
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

func translateAccountPgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return session.ErrAccountNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == uniqueViolationCode {
			return session.ErrEmailAlreadyExists
		}
	}
	return err
}
