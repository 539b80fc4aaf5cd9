package handler

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ogurasousui/resource-allocation-admin/internal/core/allocation"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/history"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/request"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/role"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/session"
)

func TestToStatusError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want codes.Code
	}{
		{fmt.Errorf("wrap: %w", history.ErrInvalidChanges), codes.InvalidArgument},
		{allocation.ErrDuplicateProject, codes.InvalidArgument},
		{role.ErrNameAlreadyExists, codes.AlreadyExists},
		{allocation.ErrUnknownReference, codes.NotFound},
		{fmt.Errorf("request req-1: %w", request.ErrConflict), codes.FailedPrecondition},
		{session.ErrUnauthenticated, codes.Unauthenticated},
		{errors.New("connection reset"), codes.Internal},
	}

	for _, tc := range cases {
		if got := status.Code(toStatusError(tc.err)); got != tc.want {
			t.Errorf("toStatusError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}

	if toStatusError(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}
