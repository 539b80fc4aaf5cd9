package handler

import (
	"context"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	resourcev1 "github.com/ogurasousui/resource-allocation-admin/internal/adapters/grpc/api/resource/v1"
	"github.com/ogurasousui/resource-allocation-admin/internal/adapters/grpc/interceptor"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/session"
)

type stubSessionUseCase struct {
	signInErr   error
	signedOut   string
	sessionByID map[string]*session.Principal
}

func (s *stubSessionUseCase) SignIn(ctx context.Context, in session.SignInInput) (*session.Session, error) {
	if s.signInErr != nil {
		return nil, s.signInErr
	}
	exp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &session.Session{Token: "tok", ExpiresAt: exp, Principal: session.Principal{Email: in.Email, ExpiresAt: exp}}, nil
}

func (s *stubSessionUseCase) SignOut(ctx context.Context, token string) error {
	s.signedOut = token
	return nil
}

func (s *stubSessionUseCase) GetSession(ctx context.Context, token string) (*session.Principal, error) {
	if p, ok := s.sessionByID[token]; ok {
		return p, nil
	}
	return nil, session.ErrUnauthenticated
}

func TestAuthGrpcHandler_SignIn(t *testing.T) {
	t.Parallel()

	resp, err := NewAuthGrpcHandler(&stubSessionUseCase{}).SignIn(context.Background(), &resourcev1.SignInRequest{Email: "admin@example.com", Password: "secret-pass"})
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if resp.Token != "tok" || resp.Principal.Email != "admin@example.com" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAuthGrpcHandler_SignIn_InvalidCredentials(t *testing.T) {
	t.Parallel()

	_, err := NewAuthGrpcHandler(&stubSessionUseCase{signInErr: session.ErrInvalidCredentials}).SignIn(context.Background(), &resourcev1.SignInRequest{})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestAuthGrpcHandler_SignOut_UsesBearerToken(t *testing.T) {
	t.Parallel()

	stub := &stubSessionUseCase{}
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer tok-1"))

	if _, err := NewAuthGrpcHandler(stub).SignOut(ctx, &resourcev1.SignOutRequest{}); err != nil {
		t.Fatalf("SignOut returned error: %v", err)
	}
	if stub.signedOut != "tok-1" {
		t.Fatalf("expected token to be revoked, got %q", stub.signedOut)
	}

	if _, err := NewAuthGrpcHandler(stub).SignOut(context.Background(), &resourcev1.SignOutRequest{}); status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected unauthenticated without token, got %v", err)
	}
}

func TestAuthGrpcHandler_GetSession_FromInterceptor(t *testing.T) {
	t.Parallel()

	ctx := interceptor.WithPrincipal(context.Background(), &session.Principal{AccountID: "acc-1", Email: "alice@example.com"})
	resp, err := NewAuthGrpcHandler(&stubSessionUseCase{}).GetSession(ctx, &resourcev1.GetSessionRequest{})
	if err != nil {
		t.Fatalf("GetSession returned error: %v", err)
	}
	if resp.Principal.AccountID != "acc-1" {
		t.Fatalf("unexpected principal %+v", resp.Principal)
	}
}
