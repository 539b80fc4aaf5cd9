package project

import "time"

// Status はプロジェクトの進行状態を表します。
type Status string

const (
	StatusPlanning   Status = "Planning"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusOnHold     Status = "On Hold"
	StatusCancelled  Status = "Cancelled"
)

// Project はプロジェクトエンティティです。Code はチームページやフィルタで使う外部向けのキーです。
type Project struct {
	ID         string
	Name       string
	Code       string
	Status     Status
	Allocation *int
	Deadline   *time.Time
	Updates    *string
	CreatedAt  time.Time
}

// TeamMember はプロジェクトにアサインされている社員とその配分です。
type TeamMember struct {
	EmployeeID           string
	Name                 string
	Role                 string
	Status               string
	AllocationPercentage int
}

// IsValidStatus は状態が定義済みの値かを返します。
func IsValidStatus(status Status) bool {
	switch status {
	case StatusPlanning, StatusInProgress, StatusCompleted, StatusOnHold, StatusCancelled:
		return true
	default:
		return false
	}
}
