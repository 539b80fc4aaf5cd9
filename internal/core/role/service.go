package role

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Service はロールに関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
}

// UseCase はロールユースケースの公開インターフェースです。
type UseCase interface {
	CreateRole(ctx context.Context, in CreateRoleInput) (*Role, error)
	ListRoles(ctx context.Context) ([]*Role, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{repo: repo, clock: clock}
}

// CreateRoleInput はロール作成時の入力です。Type を省略すると regular になります。
type CreateRoleInput struct {
	Name        string
	Description *string
	Type        Type
}

// CreateRole は新しいロールを作成します。
func (s *Service) CreateRole(ctx context.Context, in CreateRoleInput) (*Role, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	roleType, err := NormalizeType(in.Type)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByName(ctx, name)
	if err != nil && !errors.Is(err, ErrRoleNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrNameAlreadyExists
	}

	var description *string
	if in.Description != nil {
		if trimmed := strings.TrimSpace(*in.Description); trimmed != "" {
			description = &trimmed
		}
	}

	return s.repo.Create(ctx, &Role{
		Name:        name,
		Description: description,
		Type:        roleType,
		CreatedAt:   s.clock.Now(),
	})
}

// ListRoles はロールを名前順に返します。
func (s *Service) ListRoles(ctx context.Context) ([]*Role, error) {
	return s.repo.List(ctx)
}

// NormalizeType は区分を小文字に揃え、未指定なら regular を返します。
func NormalizeType(raw Type) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(string(raw))))
	if t == "" {
		return TypeRegular, nil
	}
	if !IsValidType(t) {
		return "", ErrInvalidType
	}
	return t, nil
}
