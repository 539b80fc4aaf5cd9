package employee

import "time"

// Status は社員の稼働状態を表します。
type Status string

const (
	StatusAvailable Status = "Available"
	StatusAssigned  Status = "Assigned"
	StatusOnLeave   Status = "On Leave"
	StatusInactive  Status = "Inactive"
	StatusOnBench   Status = "On bench"
)

// Employee は社員エンティティです。物理削除は行わず、状態で運用します。
type Employee struct {
	ID        string
	Name      string
	Role      string
	Status    Status
	Updates   *string
	CreatedAt time.Time
}

// DeriveStatus はアサインの有無から既定の状態を導出します。
// 利用者が明示的に選んだ状態を上書きする用途には使いません。
func DeriveStatus(hasAnyAssignment bool) Status {
	if hasAnyAssignment {
		return StatusAssigned
	}
	return StatusAvailable
}

// IsValidStatus は状態が定義済みの値かを返します。
func IsValidStatus(status Status) bool {
	switch status {
	case StatusAvailable, StatusAssigned, StatusOnLeave, StatusInactive, StatusOnBench:
		return true
	default:
		return false
	}
}
