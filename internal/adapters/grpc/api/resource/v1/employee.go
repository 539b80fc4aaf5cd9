package resourcev1

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

const (
	EmployeeService_CreateEmployee_FullMethodName    = "/resource.v1.EmployeeService/CreateEmployee"
	EmployeeService_GetEmployee_FullMethodName       = "/resource.v1.EmployeeService/GetEmployee"
	EmployeeService_ListEmployees_FullMethodName     = "/resource.v1.EmployeeService/ListEmployees"
	EmployeeService_ListFreeResources_FullMethodName = "/resource.v1.EmployeeService/ListFreeResources"
	EmployeeService_UpdateEmployee_FullMethodName    = "/resource.v1.EmployeeService/UpdateEmployee"
)

type Employee struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	Updates   *string   `json:"updates,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateEmployeeRequest struct {
	Name    string  `json:"name"`
	Role    string  `json:"role"`
	Status  string  `json:"status,omitempty"`
	Updates *string `json:"updates,omitempty"`
}

type CreateEmployeeResponse struct {
	Employee *Employee `json:"employee"`
}

type GetEmployeeRequest struct {
	ID string `json:"id"`
}

type GetEmployeeResponse struct {
	Employee *Employee `json:"employee"`
}

// ListEmployeesRequest の Project はプロジェクトコードまたはプロジェクト名です。
type ListEmployeesRequest struct {
	Status    string `json:"status,omitempty"`
	Project   string `json:"project,omitempty"`
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
}

type ListEmployeesResponse struct {
	Employees     []*Employee `json:"employees"`
	NextPageToken string      `json:"next_page_token,omitempty"`
}

type ListFreeResourcesRequest struct {
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
}

// UpdateEmployeeRequest は部分更新です。ClearFields に "updates" を含めると近況メモを消去します。
type UpdateEmployeeRequest struct {
	ID          string   `json:"id"`
	Name        *string  `json:"name,omitempty"`
	Role        *string  `json:"role,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Updates     *string  `json:"updates,omitempty"`
	ClearFields []string `json:"clear_fields,omitempty"`
}

type UpdateEmployeeResponse struct {
	Employee *Employee `json:"employee"`
}

// EmployeeServiceServer は EmployeeService のサーバー実装です。
type EmployeeServiceServer interface {
	CreateEmployee(context.Context, *CreateEmployeeRequest) (*CreateEmployeeResponse, error)
	GetEmployee(context.Context, *GetEmployeeRequest) (*GetEmployeeResponse, error)
	ListEmployees(context.Context, *ListEmployeesRequest) (*ListEmployeesResponse, error)
	ListFreeResources(context.Context, *ListFreeResourcesRequest) (*ListEmployeesResponse, error)
	UpdateEmployee(context.Context, *UpdateEmployeeRequest) (*UpdateEmployeeResponse, error)
}

var EmployeeService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "resource.v1.EmployeeService",
	HandlerType: (*EmployeeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		method("CreateEmployee", unary(EmployeeService_CreateEmployee_FullMethodName, EmployeeServiceServer.CreateEmployee)),
		method("GetEmployee", unary(EmployeeService_GetEmployee_FullMethodName, EmployeeServiceServer.GetEmployee)),
		method("ListEmployees", unary(EmployeeService_ListEmployees_FullMethodName, EmployeeServiceServer.ListEmployees)),
		method("ListFreeResources", unary(EmployeeService_ListFreeResources_FullMethodName, EmployeeServiceServer.ListFreeResources)),
		method("UpdateEmployee", unary(EmployeeService_UpdateEmployee_FullMethodName, EmployeeServiceServer.UpdateEmployee)),
	},
	Metadata: "resource/v1/employee",
}

func RegisterEmployeeServiceServer(s grpc.ServiceRegistrar, srv EmployeeServiceServer) {
	s.RegisterService(&EmployeeService_ServiceDesc, srv)
}
