package handler

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ogurasousui/resource-allocation-admin/internal/adapters/export/xlsx"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/allocation"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/employee"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/history"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/project"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/request"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/role"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/session"
)

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidName),
		errors.Is(err, employee.ErrInvalidRole),
		errors.Is(err, employee.ErrInvalidStatus),
		errors.Is(err, employee.ErrInvalidPageSize),
		errors.Is(err, employee.ErrInvalidPageToken),
		errors.Is(err, employee.ErrEmptyPatch),
		errors.Is(err, project.ErrInvalidID),
		errors.Is(err, project.ErrInvalidName),
		errors.Is(err, project.ErrInvalidCode),
		errors.Is(err, project.ErrInvalidStatus),
		errors.Is(err, project.ErrInvalidAllocation),
		errors.Is(err, project.ErrInvalidPageSize),
		errors.Is(err, project.ErrInvalidPageToken),
		errors.Is(err, project.ErrEmptyPatch),
		errors.Is(err, allocation.ErrInvalidEmployeeID),
		errors.Is(err, allocation.ErrInvalidProjectID),
		errors.Is(err, allocation.ErrDuplicateProject),
		errors.Is(err, role.ErrInvalidName),
		errors.Is(err, role.ErrInvalidType),
		errors.Is(err, request.ErrInvalidID),
		errors.Is(err, request.ErrInvalidProjectID),
		errors.Is(err, request.ErrInvalidRole),
		errors.Is(err, request.ErrInvalidQuantity),
		errors.Is(err, request.ErrInvalidDecision),
		errors.Is(err, request.ErrInvalidPageSize),
		errors.Is(err, request.ErrInvalidPageToken),
		errors.Is(err, request.ErrUnknownProject),
		errors.Is(err, history.ErrInvalidTableName),
		errors.Is(err, history.ErrInvalidChangeType),
		errors.Is(err, history.ErrInvalidRecordID),
		errors.Is(err, history.ErrInvalidChanges),
		errors.Is(err, history.ErrInvalidPageSize),
		errors.Is(err, history.ErrInvalidPageToken),
		errors.Is(err, session.ErrInvalidEmail),
		errors.Is(err, session.ErrInvalidName),
		errors.Is(err, session.ErrInvalidPassword):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, project.ErrCodeAlreadyExists),
		errors.Is(err, role.ErrNameAlreadyExists),
		errors.Is(err, session.ErrEmailAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, role.ErrRoleNotFound),
		errors.Is(err, request.ErrRequestNotFound),
		errors.Is(err, allocation.ErrUnknownReference),
		errors.Is(err, xlsx.ErrNoEntries):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, request.ErrConflict),
		errors.Is(err, allocation.ErrOverAllocated):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, session.ErrUnauthenticated),
		errors.Is(err, session.ErrInvalidCredentials),
		errors.Is(err, session.ErrAccountNotFound):
		return status.Error(codes.Unauthenticated, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
