package request

import "time"

// Status はリソース依頼の状態です。Pending から Approved または Rejected へ一度だけ遷移します。
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// ActiveWindow は承認済みの依頼が既定の一覧に残る期間です。
const ActiveWindow = 7 * 24 * time.Hour

// ResourceRequest はプロジェクトからの要員依頼です。ProjectName は読み出し時にのみ埋められます。
type ResourceRequest struct {
	ID          string
	ProjectID   string
	ProjectName string
	RequestedBy string
	Role        string
	Quantity    int
	Status      Status
	Notes       *string
	CreatedAt   time.Time
}

// IsTerminal は状態が確定済みかを返します。
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// IsActive は依頼が既定の一覧に含まれるかを返します。
// 承認済み以外は常に含まれ、承認済みは作成から ActiveWindow 以内のものだけが含まれます。
func IsActive(r *ResourceRequest, now time.Time) bool {
	if r.Status != StatusApproved {
		return true
	}
	return !r.CreatedAt.Before(ActiveCutoff(now))
}

// ActiveCutoff は承認済みの依頼を一覧に残す作成日時の下限を返します。
func ActiveCutoff(now time.Time) time.Time {
	return now.Add(-ActiveWindow)
}
