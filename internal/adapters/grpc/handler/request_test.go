package handler

import (
	"context"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	resourcev1 "github.com/ogurasousui/resource-allocation-admin/internal/adapters/grpc/api/resource/v1"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/request"
)

type stubRequestUseCase struct {
	resolveInput request.ResolveInput
	resolveOut   *request.ResolveResult
	err          error
}

func (s *stubRequestUseCase) CreateRequest(ctx context.Context, in request.CreateRequestInput) (*request.ResourceRequest, error) {
	return &request.ResourceRequest{ID: "req-1", Quantity: in.Quantity, Status: request.StatusPending}, s.err
}

func (s *stubRequestUseCase) GetRequest(ctx context.Context, in request.GetRequestInput) (*request.ResourceRequest, error) {
	return nil, s.err
}

func (s *stubRequestUseCase) ListActiveRequests(ctx context.Context, in request.ListActiveRequestsInput) (*request.ListRequestsResult, error) {
	return &request.ListRequestsResult{}, s.err
}

func (s *stubRequestUseCase) Resolve(ctx context.Context, in request.ResolveInput) (*request.ResolveResult, error) {
	s.resolveInput = in
	return s.resolveOut, s.err
}

func TestRequestGrpcHandler_ResolveRequest(t *testing.T) {
	t.Parallel()

	stub := &stubRequestUseCase{resolveOut: &request.ResolveResult{
		Request: &request.ResourceRequest{ID: "req-1", Status: request.StatusApproved},
		Changed: false,
	}}

	resp, err := NewRequestGrpcHandler(stub).ResolveRequest(context.Background(), &resourcev1.ResolveRequestRequest{ID: "req-1", Decision: "Approved"})
	if err != nil {
		t.Fatalf("ResolveRequest returned error: %v", err)
	}
	if stub.resolveInput.Decision != request.StatusApproved {
		t.Fatalf("expected decision to pass through")
	}
	if resp.Changed || resp.Request.Status != "Approved" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestRequestGrpcHandler_ResolveRequest_Conflict(t *testing.T) {
	t.Parallel()

	stub := &stubRequestUseCase{err: request.ErrConflict}
	_, err := NewRequestGrpcHandler(stub).ResolveRequest(context.Background(), &resourcev1.ResolveRequestRequest{ID: "req-1", Decision: "Rejected"})
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("expected failed precondition, got %v", err)
	}
}

func TestRequestGrpcHandler_GetRequest_NotFound(t *testing.T) {
	t.Parallel()

	stub := &stubRequestUseCase{err: request.ErrRequestNotFound}
	_, err := NewRequestGrpcHandler(stub).GetRequest(context.Background(), &resourcev1.GetRequestRequest{ID: "req-9"})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
