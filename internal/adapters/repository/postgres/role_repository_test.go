package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/role"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var roleRowColumns = []string{"id", "name", "description", "type", "created_at"}

func TestRoleRepository_Create(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewRoleRepository(mock)
	now := time.Now().UTC()
	desc := "leads delivery"

	mock.ExpectQuery(`INSERT INTO roles AS r`).
		WithArgs("Project Manager", "leads delivery", "coordinator", now).
		WillReturnRows(pgxmock.NewRows(roleRowColumns).AddRow("role-1", "Project Manager", desc, "coordinator", now))

	created, err := repo.Create(context.Background(), &role.Role{Name: "Project Manager", Description: &desc, Type: role.TypeCoordinator, CreatedAt: now})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !created.IsCoordinator() || created.Description == nil || *created.Description != desc {
		t.Fatalf("unexpected role: %+v", created)
	}
	assertExpectations(t, mock)
}

func TestRoleRepository_Create_Duplicate(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewRoleRepository(mock)

	mock.ExpectQuery(`INSERT INTO roles`).
		WithArgs("Developer", nil, "regular", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	_, err := repo.Create(context.Background(), &role.Role{Name: "Developer", Type: role.TypeRegular})
	if !errors.Is(err, role.ErrNameAlreadyExists) {
		t.Fatalf("expected ErrNameAlreadyExists, got %v", err)
	}
	assertExpectations(t, mock)
}

func TestRoleRepository_FindByName_NotFound(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewRoleRepository(mock)

	mock.ExpectQuery(`WHERE r.name = \$1`).WithArgs("Ghost").WillReturnError(pgx.ErrNoRows)

	if _, err := repo.FindByName(context.Background(), "Ghost"); !errors.Is(err, role.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
	assertExpectations(t, mock)
}

func TestRoleRepository_List(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewRoleRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM roles r ORDER BY r.name ASC`).
		WillReturnRows(pgxmock.NewRows(roleRowColumns).
			AddRow("role-2", "Developer", nil, "regular", now).
			AddRow("role-1", "Project Manager", nil, "coordinator", now))

	roles, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(roles) != 2 || roles[0].Description != nil || roles[1].Type != role.TypeCoordinator {
		t.Fatalf("unexpected roles: %+v", roles)
	}
	assertExpectations(t, mock)
}
