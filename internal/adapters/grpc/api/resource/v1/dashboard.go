package resourcev1

import (
	"context"

	"google.golang.org/grpc"
)

const DashboardService_ListProjectSummaries_FullMethodName = "/resource.v1.DashboardService/ListProjectSummaries"

type DashboardMember struct {
	EmployeeID           string  `json:"employee_id"`
	Name                 string  `json:"name"`
	Role                 string  `json:"role"`
	Updates              *string `json:"updates,omitempty"`
	AllocationPercentage int32   `json:"allocation_percentage"`
}

type ProjectSummary struct {
	ProjectID    string             `json:"project_id"`
	Name         string             `json:"name"`
	Code         string             `json:"code"`
	Status       string             `json:"status"`
	Updates      *string            `json:"updates,omitempty"`
	Coordinators []*DashboardMember `json:"coordinators"`
	TeamMembers  []*DashboardMember `json:"team_members"`
}

type ListProjectSummariesRequest struct{}

type ListProjectSummariesResponse struct {
	Projects []*ProjectSummary `json:"projects"`
}

// DashboardServiceServer は DashboardService のサーバー実装です。
type DashboardServiceServer interface {
	ListProjectSummaries(context.Context, *ListProjectSummariesRequest) (*ListProjectSummariesResponse, error)
}

var DashboardService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "resource.v1.DashboardService",
	HandlerType: (*DashboardServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		method("ListProjectSummaries", unary(DashboardService_ListProjectSummaries_FullMethodName, DashboardServiceServer.ListProjectSummaries)),
	},
	Metadata: "resource/v1/dashboard",
}

func RegisterDashboardServiceServer(s grpc.ServiceRegistrar, srv DashboardServiceServer) {
	s.RegisterService(&DashboardService_ServiceDesc, srv)
}
