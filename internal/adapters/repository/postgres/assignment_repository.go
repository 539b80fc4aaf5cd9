package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/allocation"
	pgdb "github.com/ogurasousui/resource-allocation-admin/internal/platform/db/postgres"
)

// AssignmentRepository は employee_projects を扱う PostgreSQL 実装です。
type AssignmentRepository struct {
	pool pgdb.Queryer
}

// NewAssignmentRepository は AssignmentRepository を生成します。
func NewAssignmentRepository(pool pgdb.Queryer) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// ListByEmployee は社員のアサインをプロジェクト名付きで返します。
func (r *AssignmentRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*allocation.Assignment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT ep.id, ep.employee_id, ep.project_id, p.name, p.code, ep.allocation_percentage, ep.created_at
          FROM employee_projects ep
          JOIN projects p ON p.id = ep.project_id
         WHERE ep.employee_id = $1
         ORDER BY ep.created_at ASC, p.name ASC
    `, employeeID)
	if err != nil {
		return nil, translateAssignmentPgError(err)
	}
	defer rows.Close()

	assignments := make([]*allocation.Assignment, 0)
	for rows.Next() {
		var (
			a         allocation.Assignment
			createdAt time.Time
		)
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.ProjectID, &a.ProjectName, &a.ProjectCode, &a.AllocationPercentage, &createdAt); err != nil {
			return nil, translateAssignmentPgError(err)
		}
		a.CreatedAt = createdAt
		assignments = append(assignments, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, translateAssignmentPgError(err)
	}

	return assignments, nil
}

// DeleteByEmployee は社員のアサインをすべて削除します。
func (r *AssignmentRepository) DeleteByEmployee(ctx context.Context, employeeID string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `DELETE FROM employee_projects WHERE employee_id = $1`, employeeID); err != nil {
		return translateAssignmentPgError(err)
	}
	return nil
}

// Insert はアサインをまとめて挿入します。
func (r *AssignmentRepository) Insert(ctx context.Context, assignments []*allocation.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	var (
		employeeIDs = make([]string, 0, len(assignments))
		projectIDs  = make([]string, 0, len(assignments))
		percentages = make([]int32, 0, len(assignments))
		createdAts  = make([]time.Time, 0, len(assignments))
	)
	for _, a := range assignments {
		employeeIDs = append(employeeIDs, a.EmployeeID)
		projectIDs = append(projectIDs, a.ProjectID)
		percentages = append(percentages, int32(a.AllocationPercentage))
		createdAts = append(createdAts, a.CreatedAt)
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	_, err := exec.Exec(ctx, `
        INSERT INTO employee_projects (employee_id, project_id, allocation_percentage, created_at)
        SELECT * FROM unnest($1::uuid[], $2::uuid[], $3::int4[], $4::timestamptz[])
    `, employeeIDs, projectIDs, percentages, createdAts)
	if err != nil {
		return translateAssignmentPgError(err)
	}
	return nil
}

// UpdatePercentage はアサインの配分率を更新します。
func (r *AssignmentRepository) UpdatePercentage(ctx context.Context, id string, percentage int) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `UPDATE employee_projects SET allocation_percentage = $1 WHERE id = $2`, percentage, id)
	if err != nil {
		return translateAssignmentPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return allocation.ErrUnknownReference
	}
	return nil
}

// Delete は指定 ID のアサインを削除します。
func (r *AssignmentRepository) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `DELETE FROM employee_projects WHERE id = ANY($1::uuid[])`, ids); err != nil {
		return translateAssignmentPgError(err)
	}
	return nil
}

func translateAssignmentPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return allocation.ErrUnknownReference
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case foreignKeyViolationCode:
			return allocation.ErrUnknownReference
		case uniqueViolationCode:
			return allocation.ErrDuplicateProject
		}
	}
	return err
}
