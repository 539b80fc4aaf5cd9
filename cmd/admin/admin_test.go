package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ogurasousui/resource-allocation-admin/internal/adapters/export/xlsx"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/request"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/session"
)

type stubAccounts struct {
	input session.CreateAccountInput
}

func (s *stubAccounts) CreateAccount(ctx context.Context, in session.CreateAccountInput) (*session.Account, error) {
	s.input = in
	return &session.Account{ID: "acc-1", Email: in.Email, Name: in.Name}, nil
}

type stubRequests struct {
	pages        map[string]*request.ListRequestsResult
	resolveInput request.ResolveInput
	resolveOut   *request.ResolveResult
	resolveErr   error
}

func (s *stubRequests) CreateRequest(ctx context.Context, in request.CreateRequestInput) (*request.ResourceRequest, error) {
	return nil, errors.New("not used")
}

func (s *stubRequests) GetRequest(ctx context.Context, in request.GetRequestInput) (*request.ResourceRequest, error) {
	return nil, errors.New("not used")
}

func (s *stubRequests) ListActiveRequests(ctx context.Context, in request.ListActiveRequestsInput) (*request.ListRequestsResult, error) {
	return s.pages[in.PageToken], nil
}

func (s *stubRequests) Resolve(ctx context.Context, in request.ResolveInput) (*request.ResolveResult, error) {
	s.resolveInput = in
	return s.resolveOut, s.resolveErr
}

type stubExporter struct {
	input xlsx.ExportInput
}

func (s *stubExporter) Export(ctx context.Context, in xlsx.ExportInput) (*bytes.Buffer, string, error) {
	s.input = in
	return bytes.NewBufferString("PK"), "change_history_employees.xlsx", nil
}

func runAdmin(t *testing.T, d *deps, args ...string) (string, error) {
	t.Helper()

	released := false
	load := func(ctx context.Context, _ string) (*deps, func(), error) {
		return d, func() { released = true }, nil
	}

	cmd := newRootCmd(load)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	if err == nil && !released {
		t.Fatalf("expected dependencies to be released")
	}
	return out.String(), err
}

func TestAccountCreate(t *testing.T) {
	accounts := &stubAccounts{}
	out, err := runAdmin(t, &deps{accounts: accounts}, "account", "create", "--email", "admin@example.com", "--name", "Admin", "--password", "secret-pass")
	if err != nil {
		t.Fatalf("account create returned error: %v", err)
	}
	if accounts.input.Password != "secret-pass" || accounts.input.Email != "admin@example.com" {
		t.Fatalf("unexpected input %+v", accounts.input)
	}
	if !strings.Contains(out, "created account acc-1") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestAccountCreate_PasswordFromEnv(t *testing.T) {
	t.Setenv(passwordEnv, "from-env-pass")

	accounts := &stubAccounts{}
	if _, err := runAdmin(t, &deps{accounts: accounts}, "account", "create", "--email", "a@example.com", "--name", "A"); err != nil {
		t.Fatalf("account create returned error: %v", err)
	}
	if accounts.input.Password != "from-env-pass" {
		t.Fatalf("expected password from env, got %q", accounts.input.Password)
	}
}

func TestAccountCreate_MissingPassword(t *testing.T) {
	t.Setenv(passwordEnv, "")

	if _, err := runAdmin(t, &deps{accounts: &stubAccounts{}}, "account", "create", "--email", "a@example.com", "--name", "A"); err == nil {
		t.Fatalf("expected error without password")
	}
}

func TestRequestsActive_FollowsPages(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	reqs := &stubRequests{pages: map[string]*request.ListRequestsResult{
		"":   {Requests: []*request.ResourceRequest{{ID: "req-1", ProjectName: "Apollo", Role: "Developer", Quantity: 2, Status: request.StatusPending, CreatedAt: now}}, NextPageToken: "50"},
		"50": {Requests: []*request.ResourceRequest{{ID: "req-2", ProjectName: "Gemini", Role: "QA", Quantity: 1, Status: request.StatusRejected, CreatedAt: now}}},
	}}

	out, err := runAdmin(t, &deps{requests: reqs}, "requests", "active")
	if err != nil {
		t.Fatalf("requests active returned error: %v", err)
	}
	if !strings.Contains(out, "req-1") || !strings.Contains(out, "req-2") {
		t.Fatalf("expected both pages in output, got %q", out)
	}
}

func TestRequestsResolve(t *testing.T) {
	t.Parallel()

	reqs := &stubRequests{resolveOut: &request.ResolveResult{
		Request: &request.ResourceRequest{ID: "req-1", Status: request.StatusApproved},
		Changed: true,
	}}

	out, err := runAdmin(t, &deps{requests: reqs}, "requests", "resolve", "req-1", "Approved")
	if err != nil {
		t.Fatalf("requests resolve returned error: %v", err)
	}
	if reqs.resolveInput.Decision != request.StatusApproved {
		t.Fatalf("unexpected decision %q", reqs.resolveInput.Decision)
	}
	if !strings.Contains(out, "now Approved") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRequestsResolve_Conflict(t *testing.T) {
	t.Parallel()

	reqs := &stubRequests{resolveErr: request.ErrConflict}
	if _, err := runAdmin(t, &deps{requests: reqs}, "requests", "resolve", "req-1", "Rejected"); !errors.Is(err, request.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestHistoryExport_WritesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exporter := &stubExporter{}

	out, err := runAdmin(t, &deps{exporter: exporter}, "history", "export", "--table", "employees", "--day", "2024-05-01", "-o", dir)
	if err != nil {
		t.Fatalf("history export returned error: %v", err)
	}
	if exporter.input.TableName == nil || *exporter.input.TableName != "employees" {
		t.Fatalf("expected table filter, got %+v", exporter.input)
	}
	if exporter.input.Day == nil || exporter.input.Day.Day() != 1 {
		t.Fatalf("expected day filter, got %+v", exporter.input.Day)
	}

	path := filepath.Join(dir, "change_history_employees.xlsx")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected file to be written: %v", err)
	}
	if string(data) != "PK" || !strings.Contains(out, path) {
		t.Fatalf("unexpected output %q / %q", data, out)
	}
}

func TestHistoryExport_InvalidDay(t *testing.T) {
	t.Parallel()

	if _, err := runAdmin(t, &deps{exporter: &stubExporter{}}, "history", "export", "--day", "05/01/2024"); err == nil {
		t.Fatalf("expected error for invalid day")
	}
}
