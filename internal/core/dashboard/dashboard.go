// Package dashboard はプロジェクトごとのチーム構成を集計します。
package dashboard

import (
	"context"
	"sort"

	"github.com/ogurasousui/resource-allocation-admin/internal/core/role"
)

// Row はプロジェクトとアサイン中の社員を結合した 1 行です。
// アサインのないプロジェクトは EmployeeID が空の行として返されます。
type Row struct {
	ProjectID            string
	ProjectName          string
	ProjectCode          string
	ProjectStatus        string
	ProjectUpdates       *string
	EmployeeID           string
	EmployeeName         string
	EmployeeRole         string
	RoleType             *role.Type
	EmployeeUpdates      *string
	AllocationPercentage int
}

// Member はダッシュボードに表示する社員です。
type Member struct {
	EmployeeID           string
	Name                 string
	Role                 string
	Updates              *string
	AllocationPercentage int
}

// ProjectSummary はプロジェクト 1 件分の集計です。
type ProjectSummary struct {
	ProjectID    string
	Name         string
	Code         string
	Status       string
	Updates      *string
	Coordinators []*Member
	TeamMembers  []*Member
}

// Repository はダッシュボード用の結合行を取得します。
type Repository interface {
	ListProjectRows(ctx context.Context) ([]Row, error)
}

// Service はダッシュボードの集計を行います。
type Service struct {
	repo Repository
}

// UseCase はダッシュボードユースケースの公開インターフェースです。
type UseCase interface {
	ProjectSummaries(ctx context.Context) ([]*ProjectSummary, error)
}

// NewService は Service を生成します。
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ProjectSummaries はプロジェクトごとにコーディネーターとチームメンバーを分けて返します。
// ロール区分が coordinator の社員だけがコーディネーターに入り、区分が未登録のロールはチームメンバー扱いです。
func (s *Service) ProjectSummaries(ctx context.Context) ([]*ProjectSummary, error) {
	rows, err := s.repo.ListProjectRows(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(rows), nil
}

// Summarize は結合行をプロジェクト単位に集約します。結果はプロジェクト名、社員名の順に並びます。
func Summarize(rows []Row) []*ProjectSummary {
	byID := make(map[string]*ProjectSummary)
	var order []*ProjectSummary

	for _, row := range rows {
		summary, ok := byID[row.ProjectID]
		if !ok {
			summary = &ProjectSummary{
				ProjectID:    row.ProjectID,
				Name:         row.ProjectName,
				Code:         row.ProjectCode,
				Status:       row.ProjectStatus,
				Updates:      row.ProjectUpdates,
				Coordinators: []*Member{},
				TeamMembers:  []*Member{},
			}
			byID[row.ProjectID] = summary
			order = append(order, summary)
		}

		if row.EmployeeID == "" {
			continue
		}

		member := &Member{
			EmployeeID:           row.EmployeeID,
			Name:                 row.EmployeeName,
			Role:                 row.EmployeeRole,
			Updates:              row.EmployeeUpdates,
			AllocationPercentage: row.AllocationPercentage,
		}
		if row.RoleType != nil && *row.RoleType == role.TypeCoordinator {
			summary.Coordinators = append(summary.Coordinators, member)
		} else {
			summary.TeamMembers = append(summary.TeamMembers, member)
		}
	}

	sort.SliceStable(order, func(i, j int) bool { return order[i].Name < order[j].Name })
	for _, summary := range order {
		sortMembers(summary.Coordinators)
		sortMembers(summary.TeamMembers)
	}
	return order
}

func sortMembers(members []*Member) {
	sort.SliceStable(members, func(i, j int) bool { return members[i].Name < members[j].Name })
}
