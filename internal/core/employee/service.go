package employee

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ogurasousui/resource-allocation-admin/internal/core/history"
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

// Service は社員に関するユースケースをまとめます。
type Service struct {
	repo     Repository
	recorder history.Recorder
	clock    Clock
	tx       TransactionManager
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error)
	ListEmployees(ctx context.Context, in ListEmployeesInput) (*ListEmployeesResult, error)
	ListFreeResources(ctx context.Context, in ListFreeResourcesInput) (*ListEmployeesResult, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, recorder history.Recorder, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, recorder: recorder, clock: clock, tx: tx}
}

// CreateEmployeeInput は社員作成時の入力です。
type CreateEmployeeInput struct {
	Name    string
	Role    string
	Status  *Status
	Updates *string
}

// UpdateEmployeeInput は社員更新時の入力です。nil の項目は変更しません。
// UpdatesSet が true で Updates が nil の場合は近況メモを消去します。
type UpdateEmployeeInput struct {
	ID         string
	Name       *string
	Role       *string
	Status     *Status
	Updates    *string
	UpdatesSet bool
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	ID string
}

// ListEmployeesInput は一覧取得時の入力です。
// Project にはプロジェクトコードまたはプロジェクト名を指定します。
type ListEmployeesInput struct {
	Status    *Status
	Project   string
	PageSize  int
	PageToken string
}

// ListFreeResourcesInput は空き要員一覧取得時の入力です。
type ListFreeResourcesInput struct {
	PageSize  int
	PageToken string
}

// ListEmployeesResult は一覧取得結果を表します。
type ListEmployeesResult struct {
	Employees     []*Employee
	NextPageToken string
}

// CreateEmployee は新しい社員を作成し、変更履歴を記録します。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error) {
	name, err := normalizeRequired(in.Name, ErrInvalidName)
	if err != nil {
		return nil, err
	}

	role, err := normalizeRequired(in.Role, ErrInvalidRole)
	if err != nil {
		return nil, err
	}

	status := StatusAvailable
	if in.Status != nil {
		if !IsValidStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		status = *in.Status
	}

	updates := normalizeOptional(in.Updates)

	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Create(txCtx, &Employee{
			Name:      name,
			Role:      role,
			Status:    status,
			Updates:   updates,
			CreatedAt: s.clock.Now(),
		})
		if err != nil {
			return err
		}

		changes := map[string]any{
			"name":   result.Name,
			"role":   result.Role,
			"status": string(result.Status),
		}
		if result.Updates != nil {
			changes["updates"] = *result.Updates
		}
		if err := s.record(txCtx, result.ID, history.ChangeTypeCreate, changes); err != nil {
			return err
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateEmployee は社員情報を部分更新します。履歴には指定された項目だけが残ります。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	changes := make(map[string]any)
	var (
		name   string
		role   string
		status Status
	)

	if in.Name != nil {
		if name, err = normalizeRequired(*in.Name, ErrInvalidName); err != nil {
			return nil, err
		}
		changes["name"] = name
	}

	if in.Role != nil {
		if role, err = normalizeRequired(*in.Role, ErrInvalidRole); err != nil {
			return nil, err
		}
		changes["role"] = role
	}

	if in.Status != nil {
		if !IsValidStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		status = *in.Status
		changes["status"] = string(status)
	}

	updates := normalizeOptional(in.Updates)
	if in.UpdatesSet || in.Updates != nil {
		if updates != nil {
			changes["updates"] = *updates
		} else {
			changes["updates"] = nil
		}
	}

	if len(changes) == 0 {
		return nil, ErrEmptyPatch
	}

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		if in.Name != nil {
			existing.Name = name
		}
		if in.Role != nil {
			existing.Role = role
		}
		if in.Status != nil {
			existing.Status = status
		}
		if _, ok := changes["updates"]; ok {
			existing.Updates = updates
		}

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}

		if err := s.record(txCtx, result.ID, history.ChangeTypeUpdate, changes); err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// GetEmployee は社員を取得します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	var result *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ListEmployees は社員の一覧を作成日時の新しい順に取得します。
func (s *Service) ListEmployees(ctx context.Context, in ListEmployeesInput) (*ListEmployeesResult, error) {
	var statuses []Status
	if in.Status != nil {
		if !IsValidStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		statuses = []Status{*in.Status}
	}

	return s.list(ctx, ListEmployeesFilter{Statuses: statuses, Project: strings.TrimSpace(in.Project)}, in.PageSize, in.PageToken)
}

// ListFreeResources はアサイン可能な社員 (Available または On bench) の一覧を取得します。
func (s *Service) ListFreeResources(ctx context.Context, in ListFreeResourcesInput) (*ListEmployeesResult, error) {
	return s.list(ctx, ListEmployeesFilter{Statuses: []Status{StatusAvailable, StatusOnBench}}, in.PageSize, in.PageToken)
}

func (s *Service) list(ctx context.Context, filter ListEmployeesFilter, pageSize int, pageToken string) (*ListEmployeesResult, error) {
	limit, err := normalizePageSize(pageSize)
	if err != nil {
		return nil, err
	}

	offset, err := parsePageToken(pageToken)
	if err != nil {
		return nil, err
	}

	filter.Limit = limit
	filter.Offset = offset

	var (
		employees []*Employee
		nextToken string
	)

	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		resultEmployees, token, err := s.repo.List(txCtx, filter)
		if err != nil {
			return err
		}
		employees = resultEmployees
		nextToken = token
		return nil
	}); err != nil {
		return nil, err
	}

	return &ListEmployeesResult{Employees: employees, NextPageToken: nextToken}, nil
}

func (s *Service) record(ctx context.Context, id string, changeType history.ChangeType, changes map[string]any) error {
	if s.recorder == nil {
		return nil
	}
	return s.recorder.Record(ctx, history.RecordInput{
		TableName:  history.TableEmployees,
		RecordID:   id,
		ChangeType: changeType,
		Changes:    changes,
	})
}

func normalizeID(raw string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("id: %w", ErrInvalidID)
	}
	return parsed.String(), nil
}

func normalizeRequired(raw string, invalid error) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", invalid
	}
	return trimmed, nil
}

func normalizeOptional(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
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
