package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	resourcev1 "github.com/ogurasousui/resource-allocation-admin/internal/adapters/grpc/api/resource/v1"
	"github.com/ogurasousui/resource-allocation-admin/internal/adapters/grpc/interceptor"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/session"
)

// AuthGrpcHandler は AuthService の gRPC 実装です。
type AuthGrpcHandler struct {
	svc session.UseCase
}

// NewAuthGrpcHandler は AuthGrpcHandler を生成します。
func NewAuthGrpcHandler(svc session.UseCase) *AuthGrpcHandler {
	return &AuthGrpcHandler{svc: svc}
}

// SignIn はメールアドレスとパスワードでセッションを発行します。
func (h *AuthGrpcHandler) SignIn(ctx context.Context, req *resourcev1.SignInRequest) (*resourcev1.SignInResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	sess, err := h.svc.SignIn(ctx, session.SignInInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &resourcev1.SignInResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		Principal: toAPIPrincipal(&sess.Principal),
	}, nil
}

// SignOut は呼び出しに使われたトークンを失効させます。
func (h *AuthGrpcHandler) SignOut(ctx context.Context, _ *resourcev1.SignOutRequest) (*resourcev1.SignOutResponse, error) {
	token, ok := interceptor.BearerToken(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing bearer token")
	}
	if err := h.svc.SignOut(ctx, token); err != nil {
		return nil, toStatusError(err)
	}
	return &resourcev1.SignOutResponse{}, nil
}

// GetSession は現在のセッションの主体を返します。
func (h *AuthGrpcHandler) GetSession(ctx context.Context, _ *resourcev1.GetSessionRequest) (*resourcev1.GetSessionResponse, error) {
	if principal, ok := interceptor.PrincipalFromContext(ctx); ok {
		return &resourcev1.GetSessionResponse{Principal: toAPIPrincipal(principal)}, nil
	}

	token, ok := interceptor.BearerToken(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing bearer token")
	}
	principal, err := h.svc.GetSession(ctx, token)
	if err != nil {
		return nil, toStatusError(err)
	}
	return &resourcev1.GetSessionResponse{Principal: toAPIPrincipal(principal)}, nil
}

func toAPIPrincipal(p *session.Principal) *resourcev1.Principal {
	if p == nil {
		return nil
	}
	return &resourcev1.Principal{
		AccountID: p.AccountID,
		Email:     p.Email,
		Name:      p.Name,
		ExpiresAt: p.ExpiresAt,
	}
}
