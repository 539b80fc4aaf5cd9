package project

import (
	"context"
	"errors"
	"fmt"
	"regexp"
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
	deadlineLayout      = "2006-01-02"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]*$`)

// Service はプロジェクトに関するユースケースをまとめます。
type Service struct {
	repo     Repository
	recorder history.Recorder
	clock    Clock
	tx       TransactionManager
}

// UseCase はプロジェクトユースケースの公開インターフェースです。
type UseCase interface {
	CreateProject(ctx context.Context, in CreateProjectInput) (*Project, error)
	GetProject(ctx context.Context, in GetProjectInput) (*Project, error)
	ListProjects(ctx context.Context, in ListProjectsInput) (*ListProjectsResult, error)
	UpdateProject(ctx context.Context, in UpdateProjectInput) (*Project, error)
	ListTeam(ctx context.Context, in ListTeamInput) (*Team, error)
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

// CreateProjectInput はプロジェクト作成時の入力です。Status を省略すると Planning になります。
type CreateProjectInput struct {
	Name       string
	Code       string
	Status     *Status
	Allocation *int
	Deadline   *time.Time
	Updates    *string
}

// UpdateProjectInput はプロジェクト更新時の入力です。nil の項目は変更しません。
// XxxSet が true で値が nil の場合はその項目を消去します。
type UpdateProjectInput struct {
	ID            string
	Name          *string
	Code          *string
	Status        *Status
	Allocation    *int
	AllocationSet bool
	Deadline      *time.Time
	DeadlineSet   bool
	Updates       *string
	UpdatesSet    bool
}

// GetProjectInput はプロジェクト取得時の入力です。ID と Code のどちらか一方を指定します。
type GetProjectInput struct {
	ID   string
	Code string
}

// ListProjectsInput は一覧取得時の入力です。
type ListProjectsInput struct {
	Status    *Status
	PageSize  int
	PageToken string
}

// ListProjectsResult は一覧取得結果を表します。
type ListProjectsResult struct {
	Projects      []*Project
	NextPageToken string
}

// ListTeamInput はチーム取得時の入力です。
type ListTeamInput struct {
	Code string
}

// Team はプロジェクトとアサインされている社員の一覧です。
type Team struct {
	Project *Project
	Members []*TeamMember
}

// CreateProject は新しいプロジェクトを作成し、変更履歴を記録します。
func (s *Service) CreateProject(ctx context.Context, in CreateProjectInput) (*Project, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	code, err := NormalizeCode(in.Code)
	if err != nil {
		return nil, err
	}

	status := StatusPlanning
	if in.Status != nil {
		if !IsValidStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		status = *in.Status
	}

	if err := validateAllocation(in.Allocation); err != nil {
		return nil, err
	}

	deadline := normalizeDeadline(in.Deadline)
	updates := normalizeOptional(in.Updates)

	var created *Project
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureCodeNotExists(txCtx, code); err != nil {
			return err
		}

		result, err := s.repo.Create(txCtx, &Project{
			Name:       name,
			Code:       code,
			Status:     status,
			Allocation: in.Allocation,
			Deadline:   deadline,
			Updates:    updates,
			CreatedAt:  s.clock.Now(),
		})
		if err != nil {
			return err
		}

		changes := map[string]any{
			"name":   result.Name,
			"code":   result.Code,
			"status": string(result.Status),
		}
		if result.Allocation != nil {
			changes["allocation"] = *result.Allocation
		}
		if result.Deadline != nil {
			changes["deadline"] = result.Deadline.Format(deadlineLayout)
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

// UpdateProject はプロジェクトを部分更新し、指定された項目だけを履歴に残します。
func (s *Service) UpdateProject(ctx context.Context, in UpdateProjectInput) (*Project, error) {
	id, err := normalizeID(in.ID)
	if err != nil {
		return nil, err
	}

	changes := make(map[string]any)
	var (
		name   string
		code   string
		status Status
	)

	if in.Name != nil {
		if name, err = normalizeName(*in.Name); err != nil {
			return nil, err
		}
		changes["name"] = name
	}

	if in.Code != nil {
		if code, err = NormalizeCode(*in.Code); err != nil {
			return nil, err
		}
		changes["code"] = code
	}

	if in.Status != nil {
		if !IsValidStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		status = *in.Status
		changes["status"] = string(status)
	}

	if in.AllocationSet || in.Allocation != nil {
		if err := validateAllocation(in.Allocation); err != nil {
			return nil, err
		}
		if in.Allocation != nil {
			changes["allocation"] = *in.Allocation
		} else {
			changes["allocation"] = nil
		}
	}

	deadline := normalizeDeadline(in.Deadline)
	if in.DeadlineSet || in.Deadline != nil {
		if deadline != nil {
			changes["deadline"] = deadline.Format(deadlineLayout)
		} else {
			changes["deadline"] = nil
		}
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

	var updated *Project
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		if in.Name != nil {
			existing.Name = name
		}
		if in.Code != nil && code != existing.Code {
			if err := s.ensureCodeNotExists(txCtx, code); err != nil {
				return err
			}
			existing.Code = code
		}
		if in.Status != nil {
			existing.Status = status
		}
		if _, ok := changes["allocation"]; ok {
			existing.Allocation = in.Allocation
		}
		if _, ok := changes["deadline"]; ok {
			existing.Deadline = deadline
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

// GetProject は ID またはコードでプロジェクトを取得します。
func (s *Service) GetProject(ctx context.Context, in GetProjectInput) (*Project, error) {
	var result *Project
	if strings.TrimSpace(in.ID) != "" {
		id, err := normalizeID(in.ID)
		if err != nil {
			return nil, err
		}
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

	code, err := NormalizeCode(in.Code)
	if err != nil {
		return nil, err
	}
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByCode(txCtx, code)
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

// ListProjects はプロジェクトの一覧を作成日時の新しい順に取得します。
func (s *Service) ListProjects(ctx context.Context, in ListProjectsInput) (*ListProjectsResult, error) {
	limit, err := normalizePageSize(in.PageSize)
	if err != nil {
		return nil, err
	}

	offset, err := parsePageToken(in.PageToken)
	if err != nil {
		return nil, err
	}

	var statusPtr *Status
	if in.Status != nil {
		if !IsValidStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		status := *in.Status
		statusPtr = &status
	}

	var (
		projects  []*Project
		nextToken string
	)

	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		resultProjects, token, err := s.repo.List(txCtx, ListProjectsFilter{
			Status: statusPtr,
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			return err
		}
		projects = resultProjects
		nextToken = token
		return nil
	}); err != nil {
		return nil, err
	}

	return &ListProjectsResult{Projects: projects, NextPageToken: nextToken}, nil
}

// ListTeam はプロジェクトコードに対応するチーム (アサイン中の社員) を返します。
func (s *Service) ListTeam(ctx context.Context, in ListTeamInput) (*Team, error) {
	code, err := NormalizeCode(in.Code)
	if err != nil {
		return nil, err
	}

	var team *Team
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByCode(txCtx, code)
		if err != nil {
			return err
		}
		members, err := s.repo.ListTeam(txCtx, found.ID)
		if err != nil {
			return err
		}
		team = &Team{Project: found, Members: members}
		return nil
	}); err != nil {
		return nil, err
	}

	return team, nil
}

func (s *Service) ensureCodeNotExists(ctx context.Context, code string) error {
	found, err := s.repo.FindByCode(ctx, code)
	if err != nil && !errors.Is(err, ErrProjectNotFound) {
		return err
	}
	if found != nil {
		return ErrCodeAlreadyExists
	}
	return nil
}

func (s *Service) record(ctx context.Context, id string, changeType history.ChangeType, changes map[string]any) error {
	if s.recorder == nil {
		return nil
	}
	return s.recorder.Record(ctx, history.RecordInput{
		TableName:  history.TableProjects,
		RecordID:   id,
		ChangeType: changeType,
		Changes:    changes,
	})
}

// NormalizeCode はプロジェクトコードを前後の空白を除いた大文字表記に揃えます。
func NormalizeCode(raw string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	if upper == "" || !codePattern.MatchString(upper) {
		return "", ErrInvalidCode
	}
	return upper, nil
}

func normalizeID(raw string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("id: %w", ErrInvalidID)
	}
	return parsed.String(), nil
}

func normalizeName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidName
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

func normalizeDeadline(raw *time.Time) *time.Time {
	if raw == nil || raw.IsZero() {
		return nil
	}
	d := raw.UTC()
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return &day
}

func validateAllocation(allocation *int) error {
	if allocation == nil {
		return nil
	}
	if *allocation < 0 || *allocation > 100 {
		return ErrInvalidAllocation
	}
	return nil
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
