package handler

import (
	"context"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	resourcev1 "github.com/ogurasousui/resource-allocation-admin/internal/adapters/grpc/api/resource/v1"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/project"
)

type stubProjectUseCase struct {
	createInput project.CreateProjectInput
	updateInput project.UpdateProjectInput
	out         *project.Project
	err         error
	team        *project.Team
}

func (s *stubProjectUseCase) CreateProject(ctx context.Context, in project.CreateProjectInput) (*project.Project, error) {
	s.createInput = in
	return s.out, s.err
}

func (s *stubProjectUseCase) GetProject(ctx context.Context, in project.GetProjectInput) (*project.Project, error) {
	return s.out, s.err
}

func (s *stubProjectUseCase) ListProjects(ctx context.Context, in project.ListProjectsInput) (*project.ListProjectsResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &project.ListProjectsResult{Projects: []*project.Project{s.out}}, nil
}

func (s *stubProjectUseCase) UpdateProject(ctx context.Context, in project.UpdateProjectInput) (*project.Project, error) {
	s.updateInput = in
	return s.out, s.err
}

func (s *stubProjectUseCase) ListTeam(ctx context.Context, in project.ListTeamInput) (*project.Team, error) {
	return s.team, s.err
}

func TestProjectGrpcHandler_CreateProject_ParsesDeadline(t *testing.T) {
	t.Parallel()

	deadline := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	allocation := 80
	stub := &stubProjectUseCase{out: &project.Project{ID: "prj-1", Code: "APOLLO", Status: project.StatusPlanning, Deadline: &deadline, Allocation: &allocation}}
	alloc := int32(80)

	resp, err := NewProjectGrpcHandler(stub).CreateProject(context.Background(), &resourcev1.CreateProjectRequest{
		Name:       "Apollo",
		Code:       "apollo",
		Allocation: &alloc,
		Deadline:   "2024-06-30",
	})
	if err != nil {
		t.Fatalf("CreateProject returned error: %v", err)
	}
	if stub.createInput.Deadline == nil || !stub.createInput.Deadline.Equal(deadline) {
		t.Fatalf("expected deadline to be parsed, got %+v", stub.createInput.Deadline)
	}
	if stub.createInput.Allocation == nil || *stub.createInput.Allocation != 80 {
		t.Fatalf("expected allocation to pass through")
	}
	if resp.Project.Deadline != "2024-06-30" || resp.Project.Allocation == nil || *resp.Project.Allocation != 80 {
		t.Fatalf("unexpected response %+v", resp.Project)
	}
}

func TestProjectGrpcHandler_CreateProject_InvalidDeadline(t *testing.T) {
	t.Parallel()

	_, err := NewProjectGrpcHandler(&stubProjectUseCase{}).CreateProject(context.Background(), &resourcev1.CreateProjectRequest{
		Name:     "Apollo",
		Code:     "APOLLO",
		Deadline: "30/06/2024",
	})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestProjectGrpcHandler_UpdateProject_ClearFields(t *testing.T) {
	t.Parallel()

	stub := &stubProjectUseCase{out: &project.Project{ID: "prj-1"}}
	_, err := NewProjectGrpcHandler(stub).UpdateProject(context.Background(), &resourcev1.UpdateProjectRequest{
		ID:          "prj-1",
		ClearFields: []string{"deadline", "Allocation"},
	})
	if err != nil {
		t.Fatalf("UpdateProject returned error: %v", err)
	}
	in := stub.updateInput
	if !in.DeadlineSet || in.Deadline != nil || !in.AllocationSet || in.Allocation != nil {
		t.Fatalf("expected deadline and allocation cleared, got %+v", in)
	}
	if in.UpdatesSet {
		t.Fatalf("expected updates untouched")
	}
}

func TestProjectGrpcHandler_CreateProject_DuplicateCode(t *testing.T) {
	t.Parallel()

	stub := &stubProjectUseCase{err: project.ErrCodeAlreadyExists}
	_, err := NewProjectGrpcHandler(stub).CreateProject(context.Background(), &resourcev1.CreateProjectRequest{Name: "A", Code: "A"})
	if status.Code(err) != codes.AlreadyExists {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestProjectGrpcHandler_ListTeam(t *testing.T) {
	t.Parallel()

	stub := &stubProjectUseCase{team: &project.Team{
		Project: &project.Project{ID: "prj-1", Code: "APOLLO"},
		Members: []*project.TeamMember{{EmployeeID: "emp-1", Name: "Alice", AllocationPercentage: 60}},
	}}

	resp, err := NewProjectGrpcHandler(stub).ListTeam(context.Background(), &resourcev1.ListTeamRequest{Code: "APOLLO"})
	if err != nil {
		t.Fatalf("ListTeam returned error: %v", err)
	}
	if resp.Project.Code != "APOLLO" || len(resp.Members) != 1 || resp.Members[0].AllocationPercentage != 60 {
		t.Fatalf("unexpected response %+v", resp)
	}
}
