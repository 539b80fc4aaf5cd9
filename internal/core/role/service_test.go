package role

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/uuid"
)

type fakeRoleRepo struct {
	roles []*Role
}

func (r *fakeRoleRepo) Create(_ context.Context, role *Role) (*Role, error) {
	clone := *role
	clone.ID = uuid.NewString()
	r.roles = append(r.roles, &clone)
	out := clone
	return &out, nil
}

func (r *fakeRoleRepo) FindByName(_ context.Context, name string) (*Role, error) {
	for _, role := range r.roles {
		if role.Name == name {
			out := *role
			return &out, nil
		}
	}
	return nil, ErrRoleNotFound
}

func (r *fakeRoleRepo) List(_ context.Context) ([]*Role, error) {
	out := append([]*Role(nil), r.roles...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func TestService_CreateRole(t *testing.T) {
	t.Parallel()

	repo := &fakeRoleRepo{}
	svc := NewService(repo, nil)

	created, err := svc.CreateRole(context.Background(), CreateRoleInput{Name: " Project Manager ", Type: " Coordinator "})
	if err != nil {
		t.Fatalf("CreateRole returned error: %v", err)
	}
	if created.Name != "Project Manager" || created.Type != TypeCoordinator || !created.IsCoordinator() {
		t.Fatalf("unexpected role: %+v", created)
	}

	regular, err := svc.CreateRole(context.Background(), CreateRoleInput{Name: "Developer"})
	if err != nil {
		t.Fatalf("CreateRole returned error: %v", err)
	}
	if regular.Type != TypeRegular || regular.IsCoordinator() {
		t.Fatalf("expected default type regular, got %s", regular.Type)
	}

	roles, err := svc.ListRoles(context.Background())
	if err != nil {
		t.Fatalf("ListRoles returned error: %v", err)
	}
	if len(roles) != 2 || roles[0].Name != "Developer" {
		t.Fatalf("expected roles ordered by name, got %+v", roles)
	}
}

func TestService_CreateRole_Errors(t *testing.T) {
	t.Parallel()

	svc := NewService(&fakeRoleRepo{}, nil)

	if _, err := svc.CreateRole(context.Background(), CreateRoleInput{Name: "Lead", Type: "manager"}); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
	if _, err := svc.CreateRole(context.Background(), CreateRoleInput{Name: "  "}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if _, err := svc.CreateRole(context.Background(), CreateRoleInput{Name: "QA"}); err != nil {
		t.Fatalf("CreateRole returned error: %v", err)
	}
	if _, err := svc.CreateRole(context.Background(), CreateRoleInput{Name: "QA"}); !errors.Is(err, ErrNameAlreadyExists) {
		t.Fatalf("expected ErrNameAlreadyExists, got %v", err)
	}
}
