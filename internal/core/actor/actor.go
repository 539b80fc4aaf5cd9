// Package actor はリクエストを実行している操作者をコンテキストで受け渡します。
package actor

import (
	"context"
	"strings"
)

// System はセッションを伴わない操作 (CLI やマイグレーション) の操作者名です。
const System = "system"

type contextKey struct{}

// WithName は操作者名をコンテキストに格納します。空文字は無視されます。
func WithName(ctx context.Context, name string) context.Context {
	name = strings.TrimSpace(name)
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, name)
}

// NameFromContext はコンテキストから操作者名を取り出します。
func NameFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	name, ok := ctx.Value(contextKey{}).(string)
	return name, ok && name != ""
}

// NameOrSystem は操作者名を返し、存在しなければ System を返します。
func NameOrSystem(ctx context.Context) string {
	if name, ok := NameFromContext(ctx); ok {
		return name
	}
	return System
}
