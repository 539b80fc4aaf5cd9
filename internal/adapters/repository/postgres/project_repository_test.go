package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/project"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var projectRowColumns = []string{"id", "name", "code", "status", "allocation", "deadline", "updates", "created_at"}

func TestTranslateProjectPgError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want error
	}{
		{&pgconn.PgError{Code: uniqueViolationCode}, project.ErrCodeAlreadyExists},
		{&pgconn.PgError{Code: checkViolationCode, ConstraintName: "projects_allocation_check"}, project.ErrInvalidAllocation},
		{&pgconn.PgError{Code: checkViolationCode, ConstraintName: "projects_status_check"}, project.ErrInvalidStatus},
	}
	for _, tc := range cases {
		if got := translateProjectPgError(tc.err); !errors.Is(got, tc.want) {
			t.Fatalf("expected %v, got %v", tc.want, got)
		}
	}
}

func TestProjectRepository_Create(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewProjectRepository(mock)
	now := time.Now().UTC()
	deadline := time.Date(2025, 9, 30, 15, 0, 0, 0, time.UTC)
	allocation := 40

	mock.ExpectQuery(`INSERT INTO projects AS p`).
		WithArgs("Apollo", "APOLLO", "Planning", 40, time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC), nil, now).
		WillReturnRows(pgxmock.NewRows(projectRowColumns).
			AddRow("prj-1", "Apollo", "APOLLO", "Planning", int32(40), time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC), nil, now))

	created, err := repo.Create(context.Background(), &project.Project{
		Name:       "Apollo",
		Code:       "APOLLO",
		Status:     project.StatusPlanning,
		Allocation: &allocation,
		Deadline:   &deadline,
		CreatedAt:  now,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Allocation == nil || *created.Allocation != 40 || created.Deadline == nil {
		t.Fatalf("unexpected project: %+v", created)
	}
	assertExpectations(t, mock)
}

func TestProjectRepository_FindByCode(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewProjectRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(`WHERE p.code = \$1`).
		WithArgs("APOLLO").
		WillReturnRows(pgxmock.NewRows(projectRowColumns).
			AddRow("prj-1", "Apollo", "APOLLO", "In Progress", nil, nil, nil, now))

	found, err := repo.FindByCode(context.Background(), "APOLLO")
	if err != nil {
		t.Fatalf("FindByCode returned error: %v", err)
	}
	if found.Status != project.StatusInProgress || found.Allocation != nil || found.Deadline != nil {
		t.Fatalf("unexpected project: %+v", found)
	}
	assertExpectations(t, mock)
}

func TestProjectRepository_List_WithStatusFilter(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewProjectRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(`WHERE p.status = \$1\s+ORDER BY p.created_at DESC, p.id DESC\s+LIMIT \$2\s+OFFSET \$3`).
		WithArgs("On Hold", 51, 0).
		WillReturnRows(pgxmock.NewRows(projectRowColumns).
			AddRow("prj-1", "Apollo", "APOLLO", "On Hold", nil, nil, nil, now))

	status := project.StatusOnHold
	projects, next, err := repo.List(context.Background(), project.ListProjectsFilter{Status: &status, Limit: 50})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(projects) != 1 || next != "" {
		t.Fatalf("unexpected page: %d %q", len(projects), next)
	}
	assertExpectations(t, mock)
}

func TestProjectRepository_ListTeam(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewProjectRepository(mock)

	mock.ExpectQuery(`FROM employee_projects ep\s+JOIN employees e`).
		WithArgs("prj-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "role", "status", "allocation_percentage"}).
			AddRow("emp-1", "Ada", "Developer", "Assigned", 60).
			AddRow("emp-2", "Grace", "Project Manager", "Assigned", 20))

	members, err := repo.ListTeam(context.Background(), "prj-1")
	if err != nil {
		t.Fatalf("ListTeam returned error: %v", err)
	}
	if len(members) != 2 || members[0].AllocationPercentage != 60 {
		t.Fatalf("unexpected members: %+v", members)
	}
	assertExpectations(t, mock)
}
