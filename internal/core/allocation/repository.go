package allocation

import (
	"context"

	"github.com/ogurasousui/resource-allocation-admin/internal/core/employee"
)

// Repository はアサインの永続化を行うインターフェースです。
type Repository interface {
	ListByEmployee(ctx context.Context, employeeID string) ([]*Assignment, error)
	DeleteByEmployee(ctx context.Context, employeeID string) error
	Insert(ctx context.Context, assignments []*Assignment) error
	UpdatePercentage(ctx context.Context, id string, percentage int) error
	Delete(ctx context.Context, ids []string) error
}

// EmployeeFinder はアサイン対象の社員を参照します。
type EmployeeFinder interface {
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
}
