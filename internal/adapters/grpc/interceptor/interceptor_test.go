package interceptor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/ogurasousui/resource-allocation-admin/internal/core/actor"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/session"
	"github.com/ogurasousui/resource-allocation-admin/internal/platform/metrics"
)

const (
	signInMethod  = "/resource.v1.AuthService/SignIn"
	privateMethod = "/resource.v1.EmployeeService/ListEmployees"
)

type stubVerifier struct {
	tokens map[string]*session.Principal
}

func (s stubVerifier) GetSession(_ context.Context, token string) (*session.Principal, error) {
	if p, ok := s.tokens[token]; ok {
		return p, nil
	}
	return nil, session.ErrUnauthenticated
}

func withAuthorization(value string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", value))
}

func TestAuth_RejectsMissingToken(t *testing.T) {
	t.Parallel()

	icpt := Auth(stubVerifier{}, signInMethod)
	called := false
	_, err := icpt(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: privateMethod}, func(ctx context.Context, req any) (any, error) {
		called = true
		return nil, nil
	})
	if status.Code(err) != codes.Unauthenticated || called {
		t.Fatalf("expected unauthenticated without calling handler, got %v called=%v", err, called)
	}
}

func TestAuth_RejectsUnknownToken(t *testing.T) {
	t.Parallel()

	icpt := Auth(stubVerifier{}, signInMethod)
	_, err := icpt(withAuthorization("Bearer revoked"), nil, &grpc.UnaryServerInfo{FullMethod: privateMethod}, func(ctx context.Context, req any) (any, error) {
		return nil, nil
	})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestAuth_PublicMethodSkipsVerification(t *testing.T) {
	t.Parallel()

	icpt := Auth(stubVerifier{}, signInMethod)
	resp, err := icpt(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: signInMethod}, func(ctx context.Context, req any) (any, error) {
		return "ok", nil
	})
	if err != nil || resp != "ok" {
		t.Fatalf("expected public call to pass, got %v %v", resp, err)
	}
}

func TestAuth_AttachesPrincipalAndActor(t *testing.T) {
	t.Parallel()

	principal := &session.Principal{AccountID: "acc-1", Email: "alice@example.com"}
	icpt := Auth(stubVerifier{tokens: map[string]*session.Principal{"good": principal}}, signInMethod)

	_, err := icpt(withAuthorization("bearer good"), nil, &grpc.UnaryServerInfo{FullMethod: privateMethod}, func(ctx context.Context, req any) (any, error) {
		p, ok := PrincipalFromContext(ctx)
		if !ok || p.AccountID != "acc-1" {
			t.Errorf("expected principal in context, got %+v", p)
		}
		if name := actor.NameOrSystem(ctx); name != "alice@example.com" {
			t.Errorf("expected actor name from principal, got %q", name)
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	if _, ok := BearerToken(withAuthorization("Basic abc")); ok {
		t.Fatalf("expected non-bearer scheme to be ignored")
	}
	if token, ok := BearerToken(withAuthorization("Bearer  abc ")); !ok || token != "abc" {
		t.Fatalf("unexpected token %q ok=%v", token, ok)
	}
}

func TestLogging_AssignsRequestID(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	icpt := Logging(zap.New(core))

	var seen string
	_, err := icpt(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: privateMethod}, func(ctx context.Context, req any) (any, error) {
		seen = RequestIDFromContext(ctx)
		return nil, status.Error(codes.NotFound, "missing")
	})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected handler error to pass through, got %v", err)
	}
	if len(seen) != 26 {
		t.Fatalf("expected ULID request id, got %q", seen)
	}

	entries := logs.All()
	if len(entries) != 1 || entries[0].Level != zap.WarnLevel {
		t.Fatalf("expected one warn log, got %+v", entries)
	}
	if entries[0].ContextMap()["request_id"] != seen {
		t.Fatalf("expected request id in log fields")
	}
}

func TestLogging_KeepsIncomingRequestID(t *testing.T) {
	t.Parallel()

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "req-123"))
	_, _ = Logging(nil)(ctx, nil, &grpc.UnaryServerInfo{FullMethod: privateMethod}, func(ctx context.Context, req any) (any, error) {
		if got := RequestIDFromContext(ctx); got != "req-123" {
			t.Errorf("expected incoming request id, got %q", got)
		}
		return nil, nil
	})
}

func TestLogging_ReplacesUnsafeIncomingRequestID(t *testing.T) {
	t.Parallel()

	for _, incoming := range []string{strings.Repeat("x", 65), "id\r\nforged=1"} {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, incoming))
		_, _ = Logging(nil)(ctx, nil, &grpc.UnaryServerInfo{FullMethod: privateMethod}, func(ctx context.Context, req any) (any, error) {
			got := RequestIDFromContext(ctx)
			if got == incoming {
				t.Errorf("expected %q to be replaced", incoming)
			}
			if _, err := ulid.ParseStrict(got); err != nil {
				t.Errorf("expected generated ulid, got %q", got)
			}
			return nil, nil
		})
	}
}

func TestMetrics_ObservesCode(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	icpt := Metrics(metrics.NewRPCMetrics(reg))

	_, _ = icpt(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: privateMethod}, func(ctx context.Context, req any) (any, error) {
		return nil, errors.New("boom")
	})

	count, err := testutil.GatherAndCount(reg, "resource_admin_rpc_requests_total")
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one series, got %d", count)
	}
}

func TestRateLimit_SignIn(t *testing.T) {
	t.Parallel()

	icpt := RateLimit(rate.NewLimiter(rate.Every(time.Hour), 1), signInMethod)
	ok := func(ctx context.Context, req any) (any, error) { return nil, nil }

	if _, err := icpt(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: signInMethod}, ok); err != nil {
		t.Fatalf("first call should pass: %v", err)
	}
	if _, err := icpt(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: signInMethod}, ok); status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("expected resource exhausted, got %v", err)
	}
	if _, err := icpt(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: privateMethod}, ok); err != nil {
		t.Fatalf("other methods should not be limited: %v", err)
	}
}
