package handler

import (
	"context"

	resourcev1 "github.com/ogurasousui/resource-allocation-admin/internal/adapters/grpc/api/resource/v1"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/dashboard"
)

// DashboardGrpcHandler は DashboardService の gRPC 実装です。
type DashboardGrpcHandler struct {
	svc dashboard.UseCase
}

// NewDashboardGrpcHandler は DashboardGrpcHandler を生成します。
func NewDashboardGrpcHandler(svc dashboard.UseCase) *DashboardGrpcHandler {
	return &DashboardGrpcHandler{svc: svc}
}

// ListProjectSummaries はプロジェクトごとのチーム構成を返します。
func (h *DashboardGrpcHandler) ListProjectSummaries(ctx context.Context, _ *resourcev1.ListProjectSummariesRequest) (*resourcev1.ListProjectSummariesResponse, error) {
	summaries, err := h.svc.ProjectSummaries(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	projects := make([]*resourcev1.ProjectSummary, 0, len(summaries))
	for _, s := range summaries {
		projects = append(projects, &resourcev1.ProjectSummary{
			ProjectID:    s.ProjectID,
			Name:         s.Name,
			Code:         s.Code,
			Status:       s.Status,
			Updates:      s.Updates,
			Coordinators: toAPIMembers(s.Coordinators),
			TeamMembers:  toAPIMembers(s.TeamMembers),
		})
	}
	return &resourcev1.ListProjectSummariesResponse{Projects: projects}, nil
}

func toAPIMembers(members []*dashboard.Member) []*resourcev1.DashboardMember {
	out := make([]*resourcev1.DashboardMember, 0, len(members))
	for _, m := range members {
		out = append(out, &resourcev1.DashboardMember{
			EmployeeID:           m.EmployeeID,
			Name:                 m.Name,
			Role:                 m.Role,
			Updates:              m.Updates,
			AllocationPercentage: int32(m.AllocationPercentage),
		})
	}
	return out
}
