package handler

import (
	"context"

	resourcev1 "github.com/ogurasousui/resource-allocation-admin/internal/adapters/grpc/api/resource/v1"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/request"
)

// RequestGrpcHandler は RequestService の gRPC 実装です。
type RequestGrpcHandler struct {
	svc request.UseCase
}

// NewRequestGrpcHandler は RequestGrpcHandler を生成します。
func NewRequestGrpcHandler(svc request.UseCase) *RequestGrpcHandler {
	return &RequestGrpcHandler{svc: svc}
}

// CreateRequest は要員依頼を登録します。
func (h *RequestGrpcHandler) CreateRequest(ctx context.Context, req *resourcev1.CreateRequestRequest) (*resourcev1.ResourceRequestResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	created, err := h.svc.CreateRequest(ctx, request.CreateRequestInput{
		ProjectID:   req.ProjectID,
		RequestedBy: req.RequestedBy,
		Role:        req.Role,
		Quantity:    int(req.Quantity),
		Notes:       req.Notes,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return &resourcev1.ResourceRequestResponse{Request: toAPIRequest(created)}, nil
}

// GetRequest は経過日数に関係なく依頼を取得します。
func (h *RequestGrpcHandler) GetRequest(ctx context.Context, req *resourcev1.GetRequestRequest) (*resourcev1.ResourceRequestResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	found, err := h.svc.GetRequest(ctx, request.GetRequestInput{ID: req.ID})
	if err != nil {
		return nil, toStatusError(err)
	}
	return &resourcev1.ResourceRequestResponse{Request: toAPIRequest(found)}, nil
}

// ListActiveRequests は既定の依頼一覧を返します。
func (h *RequestGrpcHandler) ListActiveRequests(ctx context.Context, req *resourcev1.ListActiveRequestsRequest) (*resourcev1.ListActiveRequestsResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	result, err := h.svc.ListActiveRequests(ctx, request.ListActiveRequestsInput{
		ProjectID: req.ProjectID,
		PageSize:  int(req.PageSize),
		PageToken: req.PageToken,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	requests := make([]*resourcev1.ResourceRequest, 0, len(result.Requests))
	for _, r := range result.Requests {
		requests = append(requests, toAPIRequest(r))
	}
	return &resourcev1.ListActiveRequestsResponse{Requests: requests, NextPageToken: result.NextPageToken}, nil
}

// ResolveRequest は依頼を承認または却下します。
func (h *RequestGrpcHandler) ResolveRequest(ctx context.Context, req *resourcev1.ResolveRequestRequest) (*resourcev1.ResolveRequestResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	result, err := h.svc.Resolve(ctx, request.ResolveInput{ID: req.ID, Decision: request.Status(req.Decision)})
	if err != nil {
		return nil, toStatusError(err)
	}
	return &resourcev1.ResolveRequestResponse{Request: toAPIRequest(result.Request), Changed: result.Changed}, nil
}

func toAPIRequest(r *request.ResourceRequest) *resourcev1.ResourceRequest {
	if r == nil {
		return nil
	}
	return &resourcev1.ResourceRequest{
		ID:          r.ID,
		ProjectID:   r.ProjectID,
		ProjectName: r.ProjectName,
		RequestedBy: r.RequestedBy,
		Role:        r.Role,
		Quantity:    int32(r.Quantity),
		Status:      string(r.Status),
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
	}
}
