package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/role"
	pgdb "github.com/ogurasousui/resource-allocation-admin/internal/platform/db/postgres"
)

const roleColumns = `r.id, r.name, r.description, r.type, r.created_at`

// RoleRepository は roles テーブルを扱います。
type RoleRepository struct {
	pool pgdb.Queryer
}

// NewRoleRepository は RoleRepository を生成します。
func NewRoleRepository(pool pgdb.Queryer) *RoleRepository {
	return &RoleRepository{pool: pool}
}

// Create はロールを作成します。
func (r *RoleRepository) Create(ctx context.Context, ro *role.Role) (*role.Role, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO roles AS r (name, description, type, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING `+roleColumns,
		ro.Name, nullableString(ro.Description), string(ro.Type), ro.CreatedAt)

	created, err := scanRole(row)
	if err != nil {
		return nil, translateRolePgError(err)
	}
	return created, nil
}

// FindByName は名前でロールを取得します。
func (r *RoleRepository) FindByName(ctx context.Context, name string) (*role.Role, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+roleColumns+`
          FROM roles r
         WHERE r.name = $1
         LIMIT 1
    `, name)

	found, err := scanRole(row)
	if err != nil {
		return nil, translateRolePgError(err)
	}
	return found, nil
}

// List は名前順にすべてのロールを返します。
func (r *RoleRepository) List(ctx context.Context) ([]*role.Role, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `SELECT `+roleColumns+` FROM roles r ORDER BY r.name ASC`)
	if err != nil {
		return nil, translateRolePgError(err)
	}
	defer rows.Close()

	roles := make([]*role.Role, 0)
	for rows.Next() {
		ro, err := scanRole(rows)
		if err != nil {
			return nil, translateRolePgError(err)
		}
		roles = append(roles, ro)
	}
	if err := rows.Err(); err != nil {
		return nil, translateRolePgError(err)
	}
	return roles, nil
}

func scanRole(row pgx.Row) (*role.Role, error) {
	var (
		id          string
		name        string
		description sql.NullString
		roleType    string
		createdAt   time.Time
	)
	if err := row.Scan(&id, &name, &description, &roleType, &createdAt); err != nil {
		return nil, err
	}

	var descPtr *string
	if description.Valid {
		d := description.String
		descPtr = &d
	}

	return &role.Role{
		ID:          id,
		Name:        name,
		Description: descPtr,
		Type:        role.Type(roleType),
		CreatedAt:   createdAt,
	}, nil
}

func translateRolePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return role.ErrRoleNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return role.ErrNameAlreadyExists
		case checkViolationCode:
			return role.ErrInvalidType
		}
	}
	return err
}
