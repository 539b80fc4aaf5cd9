package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/ogurasousui/resource-allocation-admin/internal/core/role"
)

type stubRepo struct {
	rows []Row
	err  error
}

func (s stubRepo) ListProjectRows(context.Context) ([]Row, error) {
	return s.rows, s.err
}

func roleType(t role.Type) *role.Type {
	return &t
}

func TestService_ProjectSummaries_BucketsByRoleType(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{ProjectID: "p2", ProjectName: "Zeus", ProjectCode: "ZEUS"},
		{ProjectID: "p1", ProjectName: "Apollo", ProjectCode: "APOLLO", EmployeeID: "e2", EmployeeName: "Linus", EmployeeRole: "Developer", RoleType: roleType(role.TypeRegular), AllocationPercentage: 50},
		{ProjectID: "p1", ProjectName: "Apollo", ProjectCode: "APOLLO", EmployeeID: "e1", EmployeeName: "Grace", EmployeeRole: "Project Manager", RoleType: roleType(role.TypeCoordinator), AllocationPercentage: 20},
		{ProjectID: "p1", ProjectName: "Apollo", ProjectCode: "APOLLO", EmployeeID: "e3", EmployeeName: "Ada", EmployeeRole: "Freelancer", AllocationPercentage: 100},
	}

	summaries, err := NewService(stubRepo{rows: rows}).ProjectSummaries(context.Background())
	if err != nil {
		t.Fatalf("ProjectSummaries returned error: %v", err)
	}

	if len(summaries) != 2 || summaries[0].Code != "APOLLO" || summaries[1].Code != "ZEUS" {
		t.Fatalf("expected projects ordered by name, got %+v", summaries)
	}

	apollo := summaries[0]
	if len(apollo.Coordinators) != 1 || apollo.Coordinators[0].Name != "Grace" {
		t.Fatalf("unexpected coordinators: %+v", apollo.Coordinators)
	}
	if len(apollo.TeamMembers) != 2 || apollo.TeamMembers[0].Name != "Ada" || apollo.TeamMembers[1].Name != "Linus" {
		t.Fatalf("unexpected team members: %+v", apollo.TeamMembers)
	}

	zeus := summaries[1]
	if len(zeus.Coordinators) != 0 || len(zeus.TeamMembers) != 0 {
		t.Fatalf("expected empty project summary, got %+v", zeus)
	}
}

func TestService_ProjectSummaries_PropagatesStoreError(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("timeout")
	if _, err := NewService(stubRepo{err: storeErr}).ProjectSummaries(context.Background()); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}
