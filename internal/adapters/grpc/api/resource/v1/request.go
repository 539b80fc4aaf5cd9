package resourcev1

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

const (
	RequestService_CreateRequest_FullMethodName      = "/resource.v1.RequestService/CreateRequest"
	RequestService_GetRequest_FullMethodName         = "/resource.v1.RequestService/GetRequest"
	RequestService_ListActiveRequests_FullMethodName = "/resource.v1.RequestService/ListActiveRequests"
	RequestService_ResolveRequest_FullMethodName     = "/resource.v1.RequestService/ResolveRequest"
)

type ResourceRequest struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	ProjectName string    `json:"project_name"`
	RequestedBy string    `json:"requested_by"`
	Role        string    `json:"role"`
	Quantity    int32     `json:"quantity"`
	Status      string    `json:"status"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateRequestRequest struct {
	ProjectID   string  `json:"project_id"`
	RequestedBy string  `json:"requested_by,omitempty"`
	Role        string  `json:"role"`
	Quantity    int32   `json:"quantity"`
	Notes       *string `json:"notes,omitempty"`
}

type GetRequestRequest struct {
	ID string `json:"id"`
}

type ResourceRequestResponse struct {
	Request *ResourceRequest `json:"request"`
}

type ListActiveRequestsRequest struct {
	ProjectID string `json:"project_id,omitempty"`
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
}

type ListActiveRequestsResponse struct {
	Requests      []*ResourceRequest `json:"requests"`
	NextPageToken string             `json:"next_page_token,omitempty"`
}

// ResolveRequestRequest の Decision は Approved または Rejected です。
type ResolveRequestRequest struct {
	ID       string `json:"id"`
	Decision string `json:"decision"`
}

type ResolveRequestResponse struct {
	Request *ResourceRequest `json:"request"`
	Changed bool             `json:"changed"`
}

// RequestServiceServer は RequestService のサーバー実装です。
type RequestServiceServer interface {
	CreateRequest(context.Context, *CreateRequestRequest) (*ResourceRequestResponse, error)
	GetRequest(context.Context, *GetRequestRequest) (*ResourceRequestResponse, error)
	ListActiveRequests(context.Context, *ListActiveRequestsRequest) (*ListActiveRequestsResponse, error)
	ResolveRequest(context.Context, *ResolveRequestRequest) (*ResolveRequestResponse, error)
}

var RequestService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "resource.v1.RequestService",
	HandlerType: (*RequestServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		method("CreateRequest", unary(RequestService_CreateRequest_FullMethodName, RequestServiceServer.CreateRequest)),
		method("GetRequest", unary(RequestService_GetRequest_FullMethodName, RequestServiceServer.GetRequest)),
		method("ListActiveRequests", unary(RequestService_ListActiveRequests_FullMethodName, RequestServiceServer.ListActiveRequests)),
		method("ResolveRequest", unary(RequestService_ResolveRequest_FullMethodName, RequestServiceServer.ResolveRequest)),
	},
	Metadata: "resource/v1/request",
}

func RegisterRequestServiceServer(s grpc.ServiceRegistrar, srv RequestServiceServer) {
	s.RegisterService(&RequestService_ServiceDesc, srv)
}
