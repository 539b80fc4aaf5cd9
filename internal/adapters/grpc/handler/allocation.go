package handler

import (
	"context"

	resourcev1 "github.com/ogurasousui/resource-allocation-admin/internal/adapters/grpc/api/resource/v1"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/allocation"
)

// AllocationGrpcHandler は AllocationService の gRPC 実装です。
type AllocationGrpcHandler struct {
	svc allocation.UseCase
}

// NewAllocationGrpcHandler は AllocationGrpcHandler を生成します。
func NewAllocationGrpcHandler(svc allocation.UseCase) *AllocationGrpcHandler {
	return &AllocationGrpcHandler{svc: svc}
}

// ListAssignments は社員の現在のアサインを返します。
func (h *AllocationGrpcHandler) ListAssignments(ctx context.Context, req *resourcev1.ListAssignmentsRequest) (*resourcev1.AssignmentsResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	result, err := h.svc.ListAssignments(ctx, allocation.ListAssignmentsInput{EmployeeID: req.EmployeeID})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPIAssignments(result), nil
}

// SetAssignments は社員のアサイン一式を置き換えます。
func (h *AllocationGrpcHandler) SetAssignments(ctx context.Context, req *resourcev1.SetAssignmentsRequest) (*resourcev1.AssignmentsResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	result, err := h.svc.SetAssignments(ctx, toSetAssignmentsInput(req))
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPIAssignments(result), nil
}

// ReconcileAssignments は差分更新で SetAssignments と同じ最終状態にします。
func (h *AllocationGrpcHandler) ReconcileAssignments(ctx context.Context, req *resourcev1.SetAssignmentsRequest) (*resourcev1.AssignmentsResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	result, err := h.svc.ReconcileAssignments(ctx, toSetAssignmentsInput(req))
	if err != nil {
		return nil, toStatusError(err)
	}
	return toAPIAssignments(result), nil
}

func toSetAssignmentsInput(req *resourcev1.SetAssignmentsRequest) allocation.SetAssignmentsInput {
	rows := make([]allocation.AssignmentInput, 0, len(req.Assignments))
	for _, a := range req.Assignments {
		if a == nil {
			continue
		}
		rows = append(rows, allocation.AssignmentInput{
			ProjectID:            a.ProjectID,
			AllocationPercentage: int(a.AllocationPercentage),
		})
	}
	return allocation.SetAssignmentsInput{EmployeeID: req.EmployeeID, Assignments: rows}
}

func toAPIAssignments(result *allocation.Result) *resourcev1.AssignmentsResponse {
	assignments := make([]*resourcev1.Assignment, 0, len(result.Assignments))
	for _, a := range result.Assignments {
		assignments = append(assignments, &resourcev1.Assignment{
			ID:                   a.ID,
			ProjectID:            a.ProjectID,
			ProjectName:          a.ProjectName,
			ProjectCode:          a.ProjectCode,
			AllocationPercentage: int32(a.AllocationPercentage),
		})
	}

	resp := &resourcev1.AssignmentsResponse{
		EmployeeID:      result.EmployeeID,
		Assignments:     assignments,
		TotalAllocation: int32(result.TotalAllocation),
		OverAllocated:   result.OverAllocated,
		CurrentStatus:   string(result.CurrentStatus),
	}
	if result.SuggestedStatus != nil {
		resp.SuggestedStatus = string(*result.SuggestedStatus)
	}
	return resp
}
