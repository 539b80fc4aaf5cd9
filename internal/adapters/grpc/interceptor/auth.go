// Package interceptor は gRPC サーバーの共通処理 (認証、ログ、メトリクス、流量制限) を提供します。
package interceptor

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/ogurasousui/resource-allocation-admin/internal/core/actor"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/session"
)

const authorizationHeader = "authorization"

// SessionVerifier はトークンからセッションの主体を解決します。session.Service が満たします。
type SessionVerifier interface {
	GetSession(ctx context.Context, token string) (*session.Principal, error)
}

type principalKey struct{}

// PrincipalFromContext は認証済みの主体を取り出します。
func PrincipalFromContext(ctx context.Context) (*session.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*session.Principal)
	return p, ok && p != nil
}

// WithPrincipal は主体と操作者名をコンテキストに格納します。
func WithPrincipal(ctx context.Context, p *session.Principal) context.Context {
	ctx = context.WithValue(ctx, principalKey{}, p)
	return actor.WithName(ctx, p.Email)
}

// BearerToken は authorization メタデータから Bearer トークンを取り出します。
func BearerToken(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}
	for _, v := range md.Get(authorizationHeader) {
		scheme, token, found := strings.Cut(strings.TrimSpace(v), " ")
		if found && strings.EqualFold(scheme, "bearer") && strings.TrimSpace(token) != "" {
			return strings.TrimSpace(token), true
		}
	}
	return "", false
}

// Auth は public に含まれないメソッドに有効なセッションを要求します。
// 検証済みの主体のメールアドレスは変更履歴の操作者名として使われます。
func Auth(verifier SessionVerifier, public ...string) grpc.UnaryServerInterceptor {
	open := make(map[string]struct{}, len(public))
	for _, m := range public {
		open[m] = struct{}{}
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := open[info.FullMethod]; ok {
			return handler(ctx, req)
		}

		token, ok := BearerToken(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing bearer token")
		}

		principal, err := verifier.GetSession(ctx, token)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid session")
		}

		return handler(WithPrincipal(ctx, principal), req)
	}
}
