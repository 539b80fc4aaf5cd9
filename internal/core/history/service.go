package history

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

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

const (
	defaultListPageSize = 50
	maxListPageSize     = 200
	defaultRecentLimit  = 10
)

// Recorder は変更履歴を記録する操作です。社員・プロジェクト・アサインのサービスが利用します。
type Recorder interface {
	Record(ctx context.Context, in RecordInput) error
}

// UseCase は変更履歴ユースケースの公開インターフェースです。
type UseCase interface {
	Recorder
	ListEntries(ctx context.Context, in ListEntriesInput) (*ListEntriesResult, error)
	RecentEntries(ctx context.Context, in RecentEntriesInput) ([]*Entry, error)
}

// Service は変更履歴に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{repo: repo, clock: clock}
}

// RecordInput は履歴記録時の入力です。Changes には呼び出し元が変更しようとした項目だけを含めます。
type RecordInput struct {
	TableName  TableName
	RecordID   string
	ChangeType ChangeType
	Changes    map[string]any
}

// ListEntriesInput は一覧取得時の入力です。Day が指定された場合はその日 (UTC) の履歴に絞り込みます。
type ListEntriesInput struct {
	TableName *TableName
	Day       *time.Time
	CreatedBy string
	PageSize  int
	PageToken string
}

// ListEntriesResult は一覧取得結果を表します。
type ListEntriesResult struct {
	Entries       []*Entry
	NextPageToken string
}

// RecentEntriesInput は直近の履歴取得時の入力です。
type RecentEntriesInput struct {
	TableName TableName
	Limit     int
}

// Record は変更履歴を 1 件追記します。書き込みに失敗した場合は呼び出し元の操作も失敗として扱う必要があります。
func (s *Service) Record(ctx context.Context, in RecordInput) error {
	if !isValidTableName(in.TableName) {
		return ErrInvalidTableName
	}
	if !isValidChangeType(in.ChangeType) {
		return ErrInvalidChangeType
	}

	recordID := strings.TrimSpace(in.RecordID)
	if recordID == "" {
		return ErrInvalidRecordID
	}

	changes, err := NormalizeChanges(in.Changes)
	if err != nil {
		return err
	}

	entry := &Entry{
		TableName:  in.TableName,
		RecordID:   recordID,
		ChangeType: in.ChangeType,
		Changes:    changes,
		CreatedAt:  s.clock.Now(),
		CreatedBy:  actor.NameOrSystem(ctx),
	}

	if _, err := s.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("history: append %s/%s: %w", in.TableName, recordID, err)
	}
	return nil
}

// ListEntries は変更履歴を新しい順に取得します。
func (s *Service) ListEntries(ctx context.Context, in ListEntriesInput) (*ListEntriesResult, error) {
	if in.TableName != nil && !isValidTableName(*in.TableName) {
		return nil, ErrInvalidTableName
	}

	limit, err := normalizePageSize(in.PageSize)
	if err != nil {
		return nil, err
	}

	offset, err := parsePageToken(in.PageToken)
	if err != nil {
		return nil, err
	}

	filter := ListFilter{
		TableName: in.TableName,
		CreatedBy: strings.TrimSpace(in.CreatedBy),
		Limit:     limit,
		Offset:    offset,
	}
	if in.Day != nil {
		from, to := dayBounds(*in.Day)
		filter.From = &from
		filter.To = &to
	}

	entries, next, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListEntriesResult{Entries: entries, NextPageToken: next}, nil
}

// RecentEntries は指定テーブルの直近の履歴を返します。
func (s *Service) RecentEntries(ctx context.Context, in RecentEntriesInput) ([]*Entry, error) {
	if !isValidTableName(in.TableName) {
		return nil, ErrInvalidTableName
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxListPageSize {
		return nil, ErrInvalidPageSize
	}

	table := in.TableName
	entries, _, err := s.repo.List(ctx, ListFilter{TableName: &table, Limit: limit})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// NormalizeChanges は変更内容が JSON として表現可能であることを検証し、JSON 互換の値へ正規化します。
// 数値は float64 に揃えられます。
func NormalizeChanges(changes map[string]any) (map[string]any, error) {
	if len(changes) == 0 {
		return nil, fmt.Errorf("%w: no fields", ErrInvalidChanges)
	}

	st, err := structpb.NewStruct(changes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidChanges, err)
	}
	return st.AsMap(), nil
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	d := day.UTC()
	from := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 0, 1)
}

func isValidTableName(name TableName) bool {
	switch name {
	case TableEmployees, TableProjects, TableEmployeeProjects:
		return true
	default:
		return false
	}
}

func isValidChangeType(t ChangeType) bool {
	switch t {
	case ChangeTypeCreate, ChangeTypeUpdate, ChangeTypeReplace:
		return true
	default:
		return false
	}
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
