package postgres

import (
	"context"
	"database/sql"

	"github.com/ogurasousui/resource-allocation-admin/internal/core/dashboard"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/role"
	pgdb "github.com/ogurasousui/resource-allocation-admin/internal/platform/db/postgres"
)

// DashboardRepository はプロジェクトとアサイン中の社員を結合して読み出します。
type DashboardRepository struct {
	pool pgdb.Queryer
}

// NewDashboardRepository は DashboardRepository を生成します。
func NewDashboardRepository(pool pgdb.Queryer) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// ListProjectRows はプロジェクトごとにアサイン中の社員を 1 行ずつ返します。
// ロール区分は roles.name と employees.role の一致で解決します。
func (r *DashboardRepository) ListProjectRows(ctx context.Context) ([]dashboard.Row, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT p.id, p.name, p.code, p.status, p.updates,
               e.id, e.name, e.role, ro.type, e.updates,
               ep.allocation_percentage
          FROM projects p
          LEFT JOIN employee_projects ep ON ep.project_id = p.id
          LEFT JOIN employees e ON e.id = ep.employee_id
          LEFT JOIN roles ro ON ro.name = e.role
         ORDER BY p.name ASC, e.name ASC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]dashboard.Row, 0)
	for rows.Next() {
		var (
			row             dashboard.Row
			projectUpdates  sql.NullString
			employeeID      sql.NullString
			employeeName    sql.NullString
			employeeRole    sql.NullString
			roleType        sql.NullString
			employeeUpdates sql.NullString
			percentage      sql.NullInt32
		)
		if err := rows.Scan(
			&row.ProjectID, &row.ProjectName, &row.ProjectCode, &row.ProjectStatus, &projectUpdates,
			&employeeID, &employeeName, &employeeRole, &roleType, &employeeUpdates,
			&percentage,
		); err != nil {
			return nil, err
		}

		row.ProjectUpdates = stringPtr(projectUpdates)
		row.EmployeeID = employeeID.String
		row.EmployeeName = employeeName.String
		row.EmployeeRole = employeeRole.String
		row.EmployeeUpdates = stringPtr(employeeUpdates)
		row.AllocationPercentage = int(percentage.Int32)
		if roleType.Valid {
			t := role.Type(roleType.String)
			row.RoleType = &t
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}
