package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RPCMetrics は gRPC メソッド単位の呼び出し数とレイテンシを記録します。
type RPCMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewRPCMetrics は RPCMetrics を生成し、指定されたレジストリへ登録します。
func NewRPCMetrics(reg prometheus.Registerer) *RPCMetrics {
	m := &RPCMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resource_admin",
			Name:      "rpc_requests_total",
			Help:      "Total number of handled RPCs.",
		}, []string{"method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "resource_admin",
			Name:      "rpc_duration_seconds",
			Help:      "RPC latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "code"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.latency)
	}
	return m
}

// Observe は 1 回の RPC の結果を記録します。
func (m *RPCMetrics) Observe(method, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, code).Inc()
	m.latency.WithLabelValues(method, code).Observe(elapsed.Seconds())
}
