package resourcev1

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

const (
	ProjectService_CreateProject_FullMethodName = "/resource.v1.ProjectService/CreateProject"
	ProjectService_GetProject_FullMethodName    = "/resource.v1.ProjectService/GetProject"
	ProjectService_ListProjects_FullMethodName  = "/resource.v1.ProjectService/ListProjects"
	ProjectService_UpdateProject_FullMethodName = "/resource.v1.ProjectService/UpdateProject"
	ProjectService_ListTeam_FullMethodName      = "/resource.v1.ProjectService/ListTeam"
)

// Project の Deadline は YYYY-MM-DD 形式の日付です。
type Project struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Code       string    `json:"code"`
	Status     string    `json:"status"`
	Allocation *int32    `json:"allocation,omitempty"`
	Deadline   string    `json:"deadline,omitempty"`
	Updates    *string   `json:"updates,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type TeamMember struct {
	EmployeeID           string `json:"employee_id"`
	Name                 string `json:"name"`
	Role                 string `json:"role"`
	Status               string `json:"status"`
	AllocationPercentage int32  `json:"allocation_percentage"`
}

type CreateProjectRequest struct {
	Name       string  `json:"name"`
	Code       string  `json:"code"`
	Status     string  `json:"status,omitempty"`
	Allocation *int32  `json:"allocation,omitempty"`
	Deadline   string  `json:"deadline,omitempty"`
	Updates    *string `json:"updates,omitempty"`
}

type CreateProjectResponse struct {
	Project *Project `json:"project"`
}

// GetProjectRequest は ID か Code のどちらかで検索します。
type GetProjectRequest struct {
	ID   string `json:"id,omitempty"`
	Code string `json:"code,omitempty"`
}

type GetProjectResponse struct {
	Project *Project `json:"project"`
}

type ListProjectsRequest struct {
	Status    string `json:"status,omitempty"`
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
}

type ListProjectsResponse struct {
	Projects      []*Project `json:"projects"`
	NextPageToken string     `json:"next_page_token,omitempty"`
}

// UpdateProjectRequest は部分更新です。ClearFields には allocation, deadline, updates を指定できます。
type UpdateProjectRequest struct {
	ID          string   `json:"id"`
	Name        *string  `json:"name,omitempty"`
	Code        *string  `json:"code,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Allocation  *int32   `json:"allocation,omitempty"`
	Deadline    *string  `json:"deadline,omitempty"`
	Updates     *string  `json:"updates,omitempty"`
	ClearFields []string `json:"clear_fields,omitempty"`
}

type UpdateProjectResponse struct {
	Project *Project `json:"project"`
}

type ListTeamRequest struct {
	Code string `json:"code"`
}

type ListTeamResponse struct {
	Project *Project      `json:"project"`
	Members []*TeamMember `json:"members"`
}

// ProjectServiceServer は ProjectService のサーバー実装です。
type ProjectServiceServer interface {
	CreateProject(context.Context, *CreateProjectRequest) (*CreateProjectResponse, error)
	GetProject(context.Context, *GetProjectRequest) (*GetProjectResponse, error)
	ListProjects(context.Context, *ListProjectsRequest) (*ListProjectsResponse, error)
	UpdateProject(context.Context, *UpdateProjectRequest) (*UpdateProjectResponse, error)
	ListTeam(context.Context, *ListTeamRequest) (*ListTeamResponse, error)
}

var ProjectService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "resource.v1.ProjectService",
	HandlerType: (*ProjectServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		method("CreateProject", unary(ProjectService_CreateProject_FullMethodName, ProjectServiceServer.CreateProject)),
		method("GetProject", unary(ProjectService_GetProject_FullMethodName, ProjectServiceServer.GetProject)),
		method("ListProjects", unary(ProjectService_ListProjects_FullMethodName, ProjectServiceServer.ListProjects)),
		method("UpdateProject", unary(ProjectService_UpdateProject_FullMethodName, ProjectServiceServer.UpdateProject)),
		method("ListTeam", unary(ProjectService_ListTeam_FullMethodName, ProjectServiceServer.ListTeam)),
	},
	Metadata: "resource/v1/project",
}

func RegisterProjectServiceServer(s grpc.ServiceRegistrar, srv ProjectServiceServer) {
	s.RegisterService(&ProjectService_ServiceDesc, srv)
}
