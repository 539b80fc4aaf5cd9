package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/employee"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var employeeRowColumns = []string{"id", "name", "role", "status", "updates", "created_at"}

func TestScanEmployee_Success(t *testing.T) {
	t.Parallel()

	createdAt := time.Now().UTC()
	row := stubRow{scanFn: func(dest ...any) error {
		if len(dest) != 6 {
			return errors.New("unexpected dest length")
		}
		*(dest[0].(*string)) = "emp-1"
		*(dest[1].(*string)) = "Ada"
		*(dest[2].(*string)) = "Developer"
		*(dest[3].(*string)) = string(employee.StatusOnBench)

		u := dest[4].(*sql.NullString)
		u.String = "between projects"
		u.Valid = true

		*(dest[5].(*time.Time)) = createdAt
		return nil
	}}

	emp, err := scanEmployee(row)
	if err != nil {
		t.Fatalf("scanEmployee returned error: %v", err)
	}
	if emp.Status != employee.StatusOnBench || emp.Updates == nil || *emp.Updates != "between projects" {
		t.Fatalf("unexpected employee: %+v", emp)
	}
}

func TestScanEmployee_NoRows(t *testing.T) {
	t.Parallel()

	row := stubRow{scanFn: func(dest ...any) error { return pgx.ErrNoRows }}
	if _, err := scanEmployee(row); !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestTranslateEmployeePgError(t *testing.T) {
	t.Parallel()

	if !errors.Is(translateEmployeePgError(&pgconn.PgError{Code: checkViolationCode}), employee.ErrInvalidStatus) {
		t.Fatalf("expected check violation to map to ErrInvalidStatus")
	}
	otherErr := errors.New("random")
	if translateEmployeePgError(otherErr) != otherErr {
		t.Fatalf("unexpected translation for generic error")
	}
}

func TestEmployeeRepository_Create(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO employees AS e`).
		WithArgs("Ada", "Developer", "Available", nil, now).
		WillReturnRows(pgxmock.NewRows(employeeRowColumns).
			AddRow("emp-1", "Ada", "Developer", "Available", nil, now))

	created, err := repo.Create(context.Background(), &employee.Employee{
		Name:      "Ada",
		Role:      "Developer",
		Status:    employee.StatusAvailable,
		CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != "emp-1" || created.Updates != nil {
		t.Fatalf("unexpected employee: %+v", created)
	}
	assertExpectations(t, mock)
}

func TestEmployeeRepository_FindByID_NotFound(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(`FROM employees e\s+WHERE e.id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.FindByID(context.Background(), "missing"); !errors.Is(err, employee.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
	assertExpectations(t, mock)
}

func TestEmployeeRepository_List_WithFilters(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewEmployeeRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)WHERE e.status = ANY\(\$1\) AND EXISTS \(.*p.code = upper\(\$2\) OR lower\(p.name\) = lower\(\$2\)\)\)\s+ORDER BY e.created_at DESC, e.id DESC\s+LIMIT \$3\s+OFFSET \$4`).
		WithArgs([]string{"Available", "On bench"}, "APOLLO", 2, 0).
		WillReturnRows(pgxmock.NewRows(employeeRowColumns).
			AddRow("emp-1", "Ada", "Developer", "Available", nil, now).
			AddRow("emp-2", "Linus", "Developer", "On bench", nil, now))

	employees, next, err := repo.List(context.Background(), employee.ListEmployeesFilter{
		Statuses: []employee.Status{employee.StatusAvailable, employee.StatusOnBench},
		Project:  "APOLLO",
		Limit:    1,
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(employees) != 1 || next != "1" {
		t.Fatalf("expected one employee with next token 1, got %d %q", len(employees), next)
	}
	assertExpectations(t, mock)
}

func TestEmployeeRepository_List_InvalidPaging(t *testing.T) {
	t.Parallel()

	repo := NewEmployeeRepository(newMockPool(t))
	if _, _, err := repo.List(context.Background(), employee.ListEmployeesFilter{}); !errors.Is(err, employee.ErrInvalidPageSize) {
		t.Fatalf("expected ErrInvalidPageSize, got %v", err)
	}
	if _, _, err := repo.List(context.Background(), employee.ListEmployeesFilter{Limit: 1, Offset: -1}); !errors.Is(err, employee.ErrInvalidPageToken) {
		t.Fatalf("expected ErrInvalidPageToken, got %v", err)
	}
}
