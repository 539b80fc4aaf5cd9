package request

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ogurasousui/resource-allocation-admin/internal/core/actor"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

const (
	defaultListPageSize = 50
	maxListPageSize     = 200
)

// Service はリソース依頼のライフサイクルを扱います。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase はリソース依頼ユースケースの公開インターフェースです。
type UseCase interface {
	CreateRequest(ctx context.Context, in CreateRequestInput) (*ResourceRequest, error)
	GetRequest(ctx context.Context, in GetRequestInput) (*ResourceRequest, error)
	ListActiveRequests(ctx context.Context, in ListActiveRequestsInput) (*ListRequestsResult, error)
	Resolve(ctx context.Context, in ResolveInput) (*ResolveResult, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// CreateRequestInput は依頼作成時の入力です。RequestedBy を省略した場合は操作者名を使います。
type CreateRequestInput struct {
	ProjectID   string
	RequestedBy string
	Role        string
	Quantity    int
	Notes       *string
}

// GetRequestInput は依頼取得時の入力です。
type GetRequestInput struct {
	ID string
}

// ListActiveRequestsInput は既定の依頼一覧取得時の入力です。
type ListActiveRequestsInput struct {
	ProjectID string
	PageSize  int
	PageToken string
}

// ListRequestsResult は一覧取得結果を表します。
type ListRequestsResult struct {
	Requests      []*ResourceRequest
	NextPageToken string
}

// ResolveInput は依頼の承認・却下時の入力です。
type ResolveInput struct {
	ID       string
	Decision Status
}

// ResolveResult は判断の適用結果です。Changed が false の場合は同じ判断の再送で、何も更新していません。
type ResolveResult struct {
	Request *ResourceRequest
	Changed bool
}

// CreateRequest は Pending 状態の依頼を作成します。
func (s *Service) CreateRequest(ctx context.Context, in CreateRequestInput) (*ResourceRequest, error) {
	projectID, err := normalizeUUID(in.ProjectID, ErrInvalidProjectID)
	if err != nil {
		return nil, err
	}

	role := strings.TrimSpace(in.Role)
	if role == "" {
		return nil, ErrInvalidRole
	}

	if in.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	requestedBy := strings.TrimSpace(in.RequestedBy)
	if requestedBy == "" {
		requestedBy = actor.NameOrSystem(ctx)
	}

	var notes *string
	if in.Notes != nil {
		if trimmed := strings.TrimSpace(*in.Notes); trimmed != "" {
			notes = &trimmed
		}
	}

	var created *ResourceRequest
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Create(txCtx, &ResourceRequest{
			ProjectID:   projectID,
			RequestedBy: requestedBy,
			Role:        role,
			Quantity:    in.Quantity,
			Status:      StatusPending,
			Notes:       notes,
			CreatedAt:   s.clock.Now(),
		})
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// GetRequest は作成からの経過日数に関係なく依頼を取得します。
func (s *Service) GetRequest(ctx context.Context, in GetRequestInput) (*ResourceRequest, error) {
	id, err := normalizeUUID(in.ID, ErrInvalidID)
	if err != nil {
		return nil, err
	}

	var found *ResourceRequest
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		found = result
		return nil
	}); err != nil {
		return nil, err
	}

	return found, nil
}

// ListActiveRequests は既定の一覧に表示する依頼を新しい順に返します。
// 承認済みの依頼は作成から 7 日を過ぎると一覧から外れますが、GetRequest では引き続き取得できます。
func (s *Service) ListActiveRequests(ctx context.Context, in ListActiveRequestsInput) (*ListRequestsResult, error) {
	limit, err := normalizePageSize(in.PageSize)
	if err != nil {
		return nil, err
	}

	offset, err := parsePageToken(in.PageToken)
	if err != nil {
		return nil, err
	}

	filter := ActiveFilter{
		ApprovedSince: ActiveCutoff(s.clock.Now()),
		Limit:         limit,
		Offset:        offset,
	}
	if strings.TrimSpace(in.ProjectID) != "" {
		if filter.ProjectID, err = normalizeUUID(in.ProjectID, ErrInvalidProjectID); err != nil {
			return nil, err
		}
	}

	var (
		requests  []*ResourceRequest
		nextToken string
	)
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, token, err := s.repo.ListActive(txCtx, filter)
		if err != nil {
			return err
		}
		requests = result
		nextToken = token
		return nil
	}); err != nil {
		return nil, err
	}

	return &ListRequestsResult{Requests: requests, NextPageToken: nextToken}, nil
}

// Resolve は Pending の依頼を Approved または Rejected に確定します。
// 同じ判断の再送は何もせず成功し、異なる判断は ErrConflict になります。
func (s *Service) Resolve(ctx context.Context, in ResolveInput) (*ResolveResult, error) {
	id, err := normalizeUUID(in.ID, ErrInvalidID)
	if err != nil {
		return nil, err
	}

	if !in.Decision.IsTerminal() {
		return nil, ErrInvalidDecision
	}

	var result *ResolveResult
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		resolved, err := s.repo.ResolvePending(txCtx, id, in.Decision)
		if err == nil {
			result = &ResolveResult{Request: resolved, Changed: true}
			return nil
		}
		if !errors.Is(err, ErrNotPending) {
			return err
		}

		current, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if current.Status != in.Decision {
			return fmt.Errorf("%w: %s is %s", ErrConflict, id, current.Status)
		}
		result = &ResolveResult{Request: current, Changed: false}
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

func normalizeUUID(raw string, invalid error) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", invalid
	}
	return parsed.String(), nil
}

func normalizePageSize(pageSize int) (int, error) {
	if pageSize <= 0 {
		return defaultListPageSize, nil
	}
	if pageSize > maxListPageSize {
		return 0, ErrInvalidPageSize
	}
	return pageSize, nil
}

func parsePageToken(token string) (int, error) {
	if strings.TrimSpace(token) == "" {
		return 0, nil
	}

	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 {
		return 0, ErrInvalidPageToken
	}

	return offset, nil
}
