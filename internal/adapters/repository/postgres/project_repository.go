package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/project"
	pgdb "github.com/ogurasousui/resource-allocation-admin/internal/platform/db/postgres"
)

const projectColumns = `p.id, p.name, p.code, p.status, p.allocation, p.deadline, p.updates, p.created_at`

// ProjectRepository は PostgreSQL を利用したプロジェクト永続化の実装です。
type ProjectRepository struct {
	pool pgdb.Queryer
}

// NewProjectRepository は ProjectRepository を生成します。
func NewProjectRepository(pool pgdb.Queryer) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

// Create はプロジェクトを新規作成します。
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) (*project.Project, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO projects AS p (name, code, status, allocation, deadline, updates, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING `+projectColumns,
		p.Name, p.Code, string(p.Status), nullableInt(p.Allocation), nullableDate(p.Deadline), nullableString(p.Updates), p.CreatedAt)

	created, err := scanProject(row)
	if err != nil {
		return nil, translateProjectPgError(err)
	}
	return created, nil
}

// Update はプロジェクトを更新します。
func (r *ProjectRepository) Update(ctx context.Context, p *project.Project) (*project.Project, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE projects AS p
           SET name = $1,
               code = $2,
               status = $3,
               allocation = $4,
               deadline = $5,
               updates = $6
         WHERE p.id = $7
        RETURNING `+projectColumns,
		p.Name, p.Code, string(p.Status), nullableInt(p.Allocation), nullableDate(p.Deadline), nullableString(p.Updates), p.ID)

	updated, err := scanProject(row)
	if err != nil {
		return nil, translateProjectPgError(err)
	}
	return updated, nil
}

// FindByID は ID でプロジェクトを取得します。
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*project.Project, error) {
	return r.findOne(ctx, `p.id = $1`, id)
}

// FindByCode はコードでプロジェクトを取得します。
func (r *ProjectRepository) FindByCode(ctx context.Context, code string) (*project.Project, error) {
	return r.findOne(ctx, `p.code = $1`, code)
}

func (r *ProjectRepository) findOne(ctx context.Context, condition string, arg any) (*project.Project, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+projectColumns+`
          FROM projects p
         WHERE `+condition+`
         LIMIT 1
    `, arg)

	found, err := scanProject(row)
	if err != nil {
		return nil, translateProjectPgError(err)
	}
	return found, nil
}

// List はプロジェクトの一覧を取得します。
func (r *ProjectRepository) List(ctx context.Context, filter project.ListProjectsFilter) ([]*project.Project, string, error) {
	if filter.Limit <= 0 {
		return nil, "", project.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", project.ErrInvalidPageToken
	}

	args := make([]any, 0, 3)
	whereClause := ""
	if filter.Status != nil {
		whereClause = " WHERE p.status = " + placeholder(args)
		args = append(args, string(*filter.Status))
	}

	limitPlaceholder := placeholder(args)
	args = append(args, filter.Limit+1)
	offsetPlaceholder := placeholder(args)
	args = append(args, filter.Offset)

	query := `
        SELECT ` + projectColumns + `
          FROM projects p` + whereClause + `
         ORDER BY p.created_at DESC, p.id DESC
         LIMIT ` + limitPlaceholder + `
        OFFSET ` + offsetPlaceholder

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, "", translateProjectPgError(err)
	}
	defer rows.Close()

	projects := make([]*project.Project, 0, filter.Limit)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, "", translateProjectPgError(err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, "", translateProjectPgError(err)
	}

	projects, nextToken := nextPageToken(projects, filter.Limit, filter.Offset)
	return projects, nextToken, nil
}

// ListTeam はプロジェクトにアサインされている社員を配分率の高い順に返します。
func (r *ProjectRepository) ListTeam(ctx context.Context, projectID string) ([]*project.TeamMember, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT e.id, e.name, e.role, e.status, ep.allocation_percentage
          FROM employee_projects ep
          JOIN employees e ON e.id = ep.employee_id
         WHERE ep.project_id = $1
         ORDER BY ep.allocation_percentage DESC, e.name ASC
    `, projectID)
	if err != nil {
		return nil, translateProjectPgError(err)
	}
	defer rows.Close()

	members := make([]*project.TeamMember, 0)
	for rows.Next() {
		var m project.TeamMember
		if err := rows.Scan(&m.EmployeeID, &m.Name, &m.Role, &m.Status, &m.AllocationPercentage); err != nil {
			return nil, translateProjectPgError(err)
		}
		members = append(members, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, translateProjectPgError(err)
	}

	return members, nil
}

func scanProject(row pgx.Row) (*project.Project, error) {
	var (
		id         string
		name       string
		code       string
		status     string
		allocation sql.NullInt32
		deadline   sql.NullTime
		updates    sql.NullString
		createdAt  time.Time
	)

	if err := row.Scan(&id, &name, &code, &status, &allocation, &deadline, &updates, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, project.ErrProjectNotFound
		}
		return nil, err
	}

	p := &project.Project{
		ID:        id,
		Name:      name,
		Code:      code,
		Status:    project.Status(status),
		CreatedAt: createdAt,
	}
	if allocation.Valid {
		v := int(allocation.Int32)
		p.Allocation = &v
	}
	if deadline.Valid {
		d := deadline.Time.UTC()
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		p.Deadline = &day
	}
	if updates.Valid {
		u := updates.String
		p.Updates = &u
	}
	return p, nil
}

func translateProjectPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return project.ErrProjectNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return project.ErrCodeAlreadyExists
		case checkViolationCode:
			if pgErr.ConstraintName == "projects_allocation_check" {
				return project.ErrInvalidAllocation
			}
			return project.ErrInvalidStatus
		}
	}

	return err
}
