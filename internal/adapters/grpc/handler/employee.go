package handler

import (
	"context"
	"strings"

	resourcev1 "github.com/ogurasousui/resource-allocation-admin/internal/adapters/grpc/api/resource/v1"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/employee"
)

// EmployeeGrpcHandler は EmployeeService の gRPC 実装です。
type EmployeeGrpcHandler struct {
	svc employee.UseCase
}

// NewEmployeeGrpcHandler は EmployeeGrpcHandler を生成します。
func NewEmployeeGrpcHandler(svc employee.UseCase) *EmployeeGrpcHandler {
	return &EmployeeGrpcHandler{svc: svc}
}

// CreateEmployee は社員を作成します。
func (h *EmployeeGrpcHandler) CreateEmployee(ctx context.Context, req *resourcev1.CreateEmployeeRequest) (*resourcev1.CreateEmployeeResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	created, err := h.svc.CreateEmployee(ctx, employee.CreateEmployeeInput{
		Name:    req.Name,
		Role:    req.Role,
		Status:  optionalEmployeeStatus(req.Status),
		Updates: req.Updates,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &resourcev1.CreateEmployeeResponse{Employee: toAPIEmployee(created)}, nil
}

// UpdateEmployee は社員情報を部分更新します。
func (h *EmployeeGrpcHandler) UpdateEmployee(ctx context.Context, req *resourcev1.UpdateEmployeeRequest) (*resourcev1.UpdateEmployeeResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	var statusPtr *employee.Status
	if req.Status != nil {
		s := employee.Status(*req.Status)
		statusPtr = &s
	}

	in := employee.UpdateEmployeeInput{
		ID:      req.ID,
		Name:    req.Name,
		Role:    req.Role,
		Status:  statusPtr,
		Updates: req.Updates,
	}
	in.UpdatesSet = req.Updates != nil || clears(req.ClearFields, "updates")

	updated, err := h.svc.UpdateEmployee(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &resourcev1.UpdateEmployeeResponse{Employee: toAPIEmployee(updated)}, nil
}

// GetEmployee は社員を取得します。
func (h *EmployeeGrpcHandler) GetEmployee(ctx context.Context, req *resourcev1.GetEmployeeRequest) (*resourcev1.GetEmployeeResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	found, err := h.svc.GetEmployee(ctx, employee.GetEmployeeInput{ID: req.ID})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &resourcev1.GetEmployeeResponse{Employee: toAPIEmployee(found)}, nil
}

// ListEmployees は社員の一覧を取得します。
func (h *EmployeeGrpcHandler) ListEmployees(ctx context.Context, req *resourcev1.ListEmployeesRequest) (*resourcev1.ListEmployeesResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	result, err := h.svc.ListEmployees(ctx, employee.ListEmployeesInput{
		Status:    optionalEmployeeStatus(req.Status),
		Project:   req.Project,
		PageSize:  int(req.PageSize),
		PageToken: req.PageToken,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return toAPIEmployeeList(result), nil
}

// ListFreeResources は Available または On bench の社員を取得します。
func (h *EmployeeGrpcHandler) ListFreeResources(ctx context.Context, req *resourcev1.ListFreeResourcesRequest) (*resourcev1.ListEmployeesResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	result, err := h.svc.ListFreeResources(ctx, employee.ListFreeResourcesInput{
		PageSize:  int(req.PageSize),
		PageToken: req.PageToken,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return toAPIEmployeeList(result), nil
}

func optionalEmployeeStatus(raw string) *employee.Status {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	s := employee.Status(raw)
	return &s
}

func toAPIEmployeeList(result *employee.ListEmployeesResult) *resourcev1.ListEmployeesResponse {
	employees := make([]*resourcev1.Employee, 0, len(result.Employees))
	for _, emp := range result.Employees {
		employees = append(employees, toAPIEmployee(emp))
	}
	return &resourcev1.ListEmployeesResponse{
		Employees:     employees,
		NextPageToken: result.NextPageToken,
	}
}

func toAPIEmployee(emp *employee.Employee) *resourcev1.Employee {
	if emp == nil {
		return nil
	}

	return &resourcev1.Employee{
		ID:        emp.ID,
		Name:      emp.Name,
		Role:      emp.Role,
		Status:    string(emp.Status),
		Updates:   emp.Updates,
		CreatedAt: emp.CreatedAt,
	}
}
