package resourcev1

import (
	"context"

	"google.golang.org/grpc"
)

const (
	AllocationService_ListAssignments_FullMethodName      = "/resource.v1.AllocationService/ListAssignments"
	AllocationService_SetAssignments_FullMethodName       = "/resource.v1.AllocationService/SetAssignments"
	AllocationService_ReconcileAssignments_FullMethodName = "/resource.v1.AllocationService/ReconcileAssignments"
)

type Assignment struct {
	ID                   string `json:"id"`
	ProjectID            string `json:"project_id"`
	ProjectName          string `json:"project_name"`
	ProjectCode          string `json:"project_code"`
	AllocationPercentage int32  `json:"allocation_percentage"`
}

type AssignmentInput struct {
	ProjectID            string `json:"project_id"`
	AllocationPercentage int32  `json:"allocation_percentage"`
}

type ListAssignmentsRequest struct {
	EmployeeID string `json:"employee_id"`
}

// SetAssignmentsRequest の Assignments は社員のアサインの最終状態です。含まれないアサインは削除されます。
type SetAssignmentsRequest struct {
	EmployeeID  string             `json:"employee_id"`
	Assignments []*AssignmentInput `json:"assignments"`
}

// AssignmentsResponse の SuggestedStatus はアサインの有無が変わったときだけ設定され、保存はされません。
type AssignmentsResponse struct {
	EmployeeID      string        `json:"employee_id"`
	Assignments     []*Assignment `json:"assignments"`
	TotalAllocation int32         `json:"total_allocation"`
	OverAllocated   bool          `json:"over_allocated"`
	CurrentStatus   string        `json:"current_status"`
	SuggestedStatus string        `json:"suggested_status,omitempty"`
}

// AllocationServiceServer は AllocationService のサーバー実装です。
type AllocationServiceServer interface {
	ListAssignments(context.Context, *ListAssignmentsRequest) (*AssignmentsResponse, error)
	SetAssignments(context.Context, *SetAssignmentsRequest) (*AssignmentsResponse, error)
	ReconcileAssignments(context.Context, *SetAssignmentsRequest) (*AssignmentsResponse, error)
}

var AllocationService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "resource.v1.AllocationService",
	HandlerType: (*AllocationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		method("ListAssignments", unary(AllocationService_ListAssignments_FullMethodName, AllocationServiceServer.ListAssignments)),
		method("SetAssignments", unary(AllocationService_SetAssignments_FullMethodName, AllocationServiceServer.SetAssignments)),
		method("ReconcileAssignments", unary(AllocationService_ReconcileAssignments_FullMethodName, AllocationServiceServer.ReconcileAssignments)),
	},
	Metadata: "resource/v1/allocation",
}

func RegisterAllocationServiceServer(s grpc.ServiceRegistrar, srv AllocationServiceServer) {
	s.RegisterService(&AllocationService_ServiceDesc, srv)
}
