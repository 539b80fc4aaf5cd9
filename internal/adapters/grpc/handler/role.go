package handler

import (
	"context"

	resourcev1 "github.com/ogurasousui/resource-allocation-admin/internal/adapters/grpc/api/resource/v1"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/role"
)

// RoleGrpcHandler は RoleService の gRPC 実装です。
type RoleGrpcHandler struct {
	svc role.UseCase
}

// NewRoleGrpcHandler は RoleGrpcHandler を生成します。
func NewRoleGrpcHandler(svc role.UseCase) *RoleGrpcHandler {
	return &RoleGrpcHandler{svc: svc}
}

// CreateRole はロールを作成します。
func (h *RoleGrpcHandler) CreateRole(ctx context.Context, req *resourcev1.CreateRoleRequest) (*resourcev1.CreateRoleResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	created, err := h.svc.CreateRole(ctx, role.CreateRoleInput{
		Name:        req.Name,
		Description: req.Description,
		Type:        role.Type(req.Type),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &resourcev1.CreateRoleResponse{Role: toAPIRole(created)}, nil
}

// ListRoles はすべてのロールを返します。
func (h *RoleGrpcHandler) ListRoles(ctx context.Context, _ *resourcev1.ListRolesRequest) (*resourcev1.ListRolesResponse, error) {
	roles, err := h.svc.ListRoles(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	out := make([]*resourcev1.Role, 0, len(roles))
	for _, r := range roles {
		out = append(out, toAPIRole(r))
	}
	return &resourcev1.ListRolesResponse{Roles: out}, nil
}

func toAPIRole(r *role.Role) *resourcev1.Role {
	if r == nil {
		return nil
	}
	return &resourcev1.Role{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Type:        string(r.Type),
		CreatedAt:   r.CreatedAt,
	}
}
