package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRPCMetrics_Observe(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewRPCMetrics(reg)

	m.Observe("/resource.v1.RequestService/Resolve", "OK", 10*time.Millisecond)
	m.Observe("/resource.v1.RequestService/Resolve", "OK", 20*time.Millisecond)
	m.Observe("/resource.v1.RequestService/Resolve", "FailedPrecondition", time.Millisecond)

	got := testutil.ToFloat64(m.requests.WithLabelValues("/resource.v1.RequestService/Resolve", "OK"))
	if got != 2 {
		t.Fatalf("expected 2 OK requests, got %v", got)
	}

	if n := testutil.CollectAndCount(m.latency); n != 2 {
		t.Fatalf("expected 2 latency series, got %d", n)
	}
}

func TestRPCMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var m *RPCMetrics
	m.Observe("method", "OK", time.Second)
}
