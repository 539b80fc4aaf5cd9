package allocation

import (
	"time"

	"github.com/ogurasousui/resource-allocation-admin/internal/core/employee"
)

const (
	MinPercentage = 0
	MaxPercentage = 100
)

// Assignment は社員とプロジェクトを結ぶアサイン (employee_projects) です。
// ProjectName と ProjectCode は読み出し時にのみ埋められます。
type Assignment struct {
	ID                   string
	EmployeeID           string
	ProjectID            string
	ProjectName          string
	ProjectCode          string
	AllocationPercentage int
	CreatedAt            time.Time
}

// AssignmentInput は呼び出し元が渡す 1 行分のアサインです。
type AssignmentInput struct {
	ProjectID            string
	AllocationPercentage int
}

// Clamp は配分率を 0..100 に丸めます。
func Clamp(percentage int) int {
	if percentage < MinPercentage {
		return MinPercentage
	}
	if percentage > MaxPercentage {
		return MaxPercentage
	}
	return percentage
}

// SuggestStatus はアサインが空と非空の間で遷移したときだけ既定の状態を提案します。
// 遷移がない場合は nil を返し、利用者の選んだ状態をそのまま尊重します。
func SuggestStatus(previousCount, nextCount int) *employee.Status {
	hadAny := previousCount > 0
	hasAny := nextCount > 0
	if hadAny == hasAny {
		return nil
	}
	status := employee.DeriveStatus(hasAny)
	return &status
}

// TotalPercentage はアサインの配分率の合計を返します。
func TotalPercentage(assignments []*Assignment) int {
	total := 0
	for _, a := range assignments {
		total += a.AllocationPercentage
	}
	return total
}
