package resourcev1

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

const (
	RoleService_CreateRole_FullMethodName = "/resource.v1.RoleService/CreateRole"
	RoleService_ListRoles_FullMethodName  = "/resource.v1.RoleService/ListRoles"
)

type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateRoleRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Type        string  `json:"type,omitempty"`
}

type CreateRoleResponse struct {
	Role *Role `json:"role"`
}

type ListRolesRequest struct{}

type ListRolesResponse struct {
	Roles []*Role `json:"roles"`
}

// RoleServiceServer は RoleService のサーバー実装です。
type RoleServiceServer interface {
	CreateRole(context.Context, *CreateRoleRequest) (*CreateRoleResponse, error)
	ListRoles(context.Context, *ListRolesRequest) (*ListRolesResponse, error)
}

var RoleService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "resource.v1.RoleService",
	HandlerType: (*RoleServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		method("CreateRole", unary(RoleService_CreateRole_FullMethodName, RoleServiceServer.CreateRole)),
		method("ListRoles", unary(RoleService_ListRoles_FullMethodName, RoleServiceServer.ListRoles)),
	},
	Metadata: "resource/v1/role",
}

func RegisterRoleServiceServer(s grpc.ServiceRegistrar, srv RoleServiceServer) {
	s.RegisterService(&RoleService_ServiceDesc, srv)
}
