package resourcev1

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

const (
	AuthService_SignIn_FullMethodName     = "/resource.v1.AuthService/SignIn"
	AuthService_SignOut_FullMethodName    = "/resource.v1.AuthService/SignOut"
	AuthService_GetSession_FullMethodName = "/resource.v1.AuthService/GetSession"
)

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Principal struct {
	AccountID string    `json:"account_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SignInResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	Principal *Principal `json:"principal"`
}

// SignOutRequest はリクエストメタデータのトークンを失効させます。
type SignOutRequest struct{}

type SignOutResponse struct{}

type GetSessionRequest struct{}

type GetSessionResponse struct {
	Principal *Principal `json:"principal"`
}

// AuthServiceServer は AuthService のサーバー実装です。
type AuthServiceServer interface {
	SignIn(context.Context, *SignInRequest) (*SignInResponse, error)
	SignOut(context.Context, *SignOutRequest) (*SignOutResponse, error)
	GetSession(context.Context, *GetSessionRequest) (*GetSessionResponse, error)
}

var AuthService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "resource.v1.AuthService",
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		method("SignIn", unary(AuthService_SignIn_FullMethodName, AuthServiceServer.SignIn)),
		method("SignOut", unary(AuthService_SignOut_FullMethodName, AuthServiceServer.SignOut)),
		method("GetSession", unary(AuthService_GetSession_FullMethodName, AuthServiceServer.GetSession)),
	},
	Metadata: "resource/v1/auth",
}

func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthService_ServiceDesc, srv)
}
