package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/allocation"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestAssignmentRepository_ListByEmployee(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewAssignmentRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM employee_projects ep\s+JOIN projects p`).
		WithArgs("emp-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "employee_id", "project_id", "name", "code", "allocation_percentage", "created_at"}).
			AddRow("ep-1", "emp-1", "prj-1", "Apollo", "APOLLO", 60, now).
			AddRow("ep-2", "emp-1", "prj-2", "Zeus", "ZEUS", 50, now))

	assignments, err := repo.ListByEmployee(context.Background(), "emp-1")
	if err != nil {
		t.Fatalf("ListByEmployee returned error: %v", err)
	}
	if len(assignments) != 2 || assignments[0].ProjectCode != "APOLLO" || allocation.TotalPercentage(assignments) != 110 {
		t.Fatalf("unexpected assignments: %+v", assignments)
	}
	assertExpectations(t, mock)
}

func TestAssignmentRepository_ReplaceWithinTransaction(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewAssignmentRepository(mock)
	now := time.Now().UTC()

	mock.ExpectExec(`DELETE FROM employee_projects WHERE employee_id = \$1`).
		WithArgs("emp-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`INSERT INTO employee_projects .* unnest`).
		WithArgs([]string{"emp-1", "emp-1"}, []string{"prj-1", "prj-2"}, []int32{60, 50}, []time.Time{now, now}).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))

	if err := repo.DeleteByEmployee(context.Background(), "emp-1"); err != nil {
		t.Fatalf("DeleteByEmployee returned error: %v", err)
	}
	err := repo.Insert(context.Background(), []*allocation.Assignment{
		{EmployeeID: "emp-1", ProjectID: "prj-1", AllocationPercentage: 60, CreatedAt: now},
		{EmployeeID: "emp-1", ProjectID: "prj-2", AllocationPercentage: 50, CreatedAt: now},
	})
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	assertExpectations(t, mock)
}

func TestAssignmentRepository_Insert_UnknownProject(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewAssignmentRepository(mock)

	mock.ExpectExec(`INSERT INTO employee_projects`).
		WithArgs([]string{"emp-1"}, []string{"missing"}, []int32{10}, pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "employee_projects_project_id_fkey"})

	err := repo.Insert(context.Background(), []*allocation.Assignment{{EmployeeID: "emp-1", ProjectID: "missing", AllocationPercentage: 10}})
	if !errors.Is(err, allocation.ErrUnknownReference) {
		t.Fatalf("expected ErrUnknownReference, got %v", err)
	}
	assertExpectations(t, mock)
}

func TestAssignmentRepository_UpdatePercentage_NotFound(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewAssignmentRepository(mock)

	mock.ExpectExec(`UPDATE employee_projects SET allocation_percentage = \$1 WHERE id = \$2`).
		WithArgs(30, "ep-9").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.UpdatePercentage(context.Background(), "ep-9", 30); !errors.Is(err, allocation.ErrUnknownReference) {
		t.Fatalf("expected ErrUnknownReference, got %v", err)
	}
	assertExpectations(t, mock)
}

func TestAssignmentRepository_EmptyInputsSkipStore(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewAssignmentRepository(mock)

	if err := repo.Insert(context.Background(), nil); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if err := repo.Delete(context.Background(), nil); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	assertExpectations(t, mock)
}
