package handler

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	resourcev1 "github.com/ogurasousui/resource-allocation-admin/internal/adapters/grpc/api/resource/v1"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/project"
)

// ProjectGrpcHandler は ProjectService の gRPC 実装です。
type ProjectGrpcHandler struct {
	svc project.UseCase
}

// NewProjectGrpcHandler は ProjectGrpcHandler を生成します。
func NewProjectGrpcHandler(svc project.UseCase) *ProjectGrpcHandler {
	return &ProjectGrpcHandler{svc: svc}
}

// CreateProject はプロジェクトを作成します。
func (h *ProjectGrpcHandler) CreateProject(ctx context.Context, req *resourcev1.CreateProjectRequest) (*resourcev1.CreateProjectResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	deadline, err := parseDate(req.Deadline)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "deadline: %v", err)
	}

	created, err := h.svc.CreateProject(ctx, project.CreateProjectInput{
		Name:       req.Name,
		Code:       req.Code,
		Status:     optionalProjectStatus(req.Status),
		Allocation: intPtr(req.Allocation),
		Deadline:   deadline,
		Updates:    req.Updates,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &resourcev1.CreateProjectResponse{Project: toAPIProject(created)}, nil
}

// UpdateProject はプロジェクトを部分更新します。
func (h *ProjectGrpcHandler) UpdateProject(ctx context.Context, req *resourcev1.UpdateProjectRequest) (*resourcev1.UpdateProjectResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	in := project.UpdateProjectInput{
		ID:            req.ID,
		Name:          req.Name,
		Code:          req.Code,
		Allocation:    intPtr(req.Allocation),
		AllocationSet: req.Allocation != nil || clears(req.ClearFields, "allocation"),
		Updates:       req.Updates,
		UpdatesSet:    req.Updates != nil || clears(req.ClearFields, "updates"),
		DeadlineSet:   clears(req.ClearFields, "deadline"),
	}
	if req.Status != nil {
		s := project.Status(*req.Status)
		in.Status = &s
	}
	if req.Deadline != nil {
		deadline, err := parseDate(*req.Deadline)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "deadline: %v", err)
		}
		in.Deadline = deadline
		in.DeadlineSet = true
	}

	updated, err := h.svc.UpdateProject(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &resourcev1.UpdateProjectResponse{Project: toAPIProject(updated)}, nil
}

// GetProject は ID またはコードでプロジェクトを取得します。
func (h *ProjectGrpcHandler) GetProject(ctx context.Context, req *resourcev1.GetProjectRequest) (*resourcev1.GetProjectResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	found, err := h.svc.GetProject(ctx, project.GetProjectInput{ID: req.ID, Code: req.Code})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &resourcev1.GetProjectResponse{Project: toAPIProject(found)}, nil
}

// ListProjects はプロジェクトの一覧を取得します。
func (h *ProjectGrpcHandler) ListProjects(ctx context.Context, req *resourcev1.ListProjectsRequest) (*resourcev1.ListProjectsResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	result, err := h.svc.ListProjects(ctx, project.ListProjectsInput{
		Status:    optionalProjectStatus(req.Status),
		PageSize:  int(req.PageSize),
		PageToken: req.PageToken,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	projects := make([]*resourcev1.Project, 0, len(result.Projects))
	for _, p := range result.Projects {
		projects = append(projects, toAPIProject(p))
	}

	return &resourcev1.ListProjectsResponse{
		Projects:      projects,
		NextPageToken: result.NextPageToken,
	}, nil
}

// ListTeam はプロジェクトにアサインされている社員を返します。
func (h *ProjectGrpcHandler) ListTeam(ctx context.Context, req *resourcev1.ListTeamRequest) (*resourcev1.ListTeamResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	team, err := h.svc.ListTeam(ctx, project.ListTeamInput{Code: req.Code})
	if err != nil {
		return nil, toStatusError(err)
	}

	members := make([]*resourcev1.TeamMember, 0, len(team.Members))
	for _, m := range team.Members {
		members = append(members, &resourcev1.TeamMember{
			EmployeeID:           m.EmployeeID,
			Name:                 m.Name,
			Role:                 m.Role,
			Status:               string(m.Status),
			AllocationPercentage: int32(m.AllocationPercentage),
		})
	}

	return &resourcev1.ListTeamResponse{Project: toAPIProject(team.Project), Members: members}, nil
}

func optionalProjectStatus(raw string) *project.Status {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	s := project.Status(raw)
	return &s
}

func toAPIProject(p *project.Project) *resourcev1.Project {
	if p == nil {
		return nil
	}

	return &resourcev1.Project{
		ID:         p.ID,
		Name:       p.Name,
		Code:       p.Code,
		Status:     string(p.Status),
		Allocation: int32Ptr(p.Allocation),
		Deadline:   formatDate(p.Deadline),
		Updates:    p.Updates,
		CreatedAt:  p.CreatedAt,
	}
}
