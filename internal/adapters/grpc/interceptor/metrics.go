package interceptor

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/ogurasousui/resource-allocation-admin/internal/platform/metrics"
)

// Metrics は RPC の件数とレイテンシを記録します。
func Metrics(m *metrics.RPCMetrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		m.Observe(info.FullMethod, status.Code(err).String(), time.Since(start))
		return resp, err
	}
}
