package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/employee"
	pgdb "github.com/ogurasousui/resource-allocation-admin/internal/platform/db/postgres"
)

const employeeColumns = `e.id, e.name, e.role, e.status, e.updates, e.created_at`

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Create は社員を新規作成します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO employees AS e (name, role, status, updates, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING `+employeeColumns,
		e.Name, e.Role, string(e.Status), nullableString(e.Updates), e.CreatedAt)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return created, nil
}

// Update は社員情報を更新します。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE employees AS e
           SET name = $1,
               role = $2,
               status = $3,
               updates = $4
         WHERE e.id = $5
        RETURNING `+employeeColumns,
		e.Name, e.Role, string(e.Status), nullableString(e.Updates), e.ID)

	updated, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return updated, nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees e
         WHERE e.id = $1
         LIMIT 1
    `, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// List は社員の一覧を取得します。Project 指定時は employee_projects を介してコードまたは名前で絞り込みます。
func (r *EmployeeRepository) List(ctx context.Context, filter employee.ListEmployeesFilter) ([]*employee.Employee, string, error) {
	if filter.Limit <= 0 {
		return nil, "", employee.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", employee.ErrInvalidPageToken
	}

	args := make([]any, 0, 4)
	conditions := make([]string, 0, 2)

	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		conditions = append(conditions, "e.status = ANY("+placeholder(args)+")")
		args = append(args, statuses)
	}

	if filter.Project != "" {
		ref := placeholder(args)
		conditions = append(conditions, `EXISTS (
            SELECT 1
              FROM employee_projects ep
              JOIN projects p ON p.id = ep.project_id
             WHERE ep.employee_id = e.id
               AND (p.code = upper(`+ref+`) OR lower(p.name) = lower(`+ref+`)))`)
		args = append(args, filter.Project)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	limitPlaceholder := placeholder(args)
	args = append(args, filter.Limit+1)
	offsetPlaceholder := placeholder(args)
	args = append(args, filter.Offset)

	query := `
        SELECT ` + employeeColumns + `
          FROM employees e` + whereClause + `
         ORDER BY e.created_at DESC, e.id DESC
         LIMIT ` + limitPlaceholder + `
        OFFSET ` + offsetPlaceholder

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, "", translateEmployeePgError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0, filter.Limit)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, "", translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, "", translateEmployeePgError(err)
	}

	employees, nextToken := nextPageToken(employees, filter.Limit, filter.Offset)
	return employees, nextToken, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		id        string
		name      string
		role      string
		status    string
		updates   sql.NullString
		createdAt time.Time
	)

	if err := row.Scan(&id, &name, &role, &status, &updates, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	var updatesPtr *string
	if updates.Valid {
		u := updates.String
		updatesPtr = &u
	}

	return &employee.Employee{
		ID:        id,
		Name:      name,
		Role:      role,
		Status:    employee.Status(status),
		Updates:   updatesPtr,
		CreatedAt: createdAt,
	}, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == checkViolationCode {
			return employee.ErrInvalidStatus
		}
	}

	return err
}
