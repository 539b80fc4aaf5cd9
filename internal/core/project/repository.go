package project

import "context"

// Repository はプロジェクト永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, project *Project) (*Project, error)
	Update(ctx context.Context, project *Project) (*Project, error)
	FindByID(ctx context.Context, id string) (*Project, error)
	FindByCode(ctx context.Context, code string) (*Project, error)
	List(ctx context.Context, filter ListProjectsFilter) ([]*Project, string, error)
	ListTeam(ctx context.Context, projectID string) ([]*TeamMember, error)
}

// ListProjectsFilter は一覧取得用フィルタです。
type ListProjectsFilter struct {
	Status *Status
	Limit  int
	Offset int
}
