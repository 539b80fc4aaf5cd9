package request

import "errors"

var (
	ErrInvalidID        = errors.New("request: invalid id")
	ErrInvalidProjectID = errors.New("request: invalid project id")
	ErrInvalidRole      = errors.New("request: invalid role")
	ErrInvalidQuantity  = errors.New("request: quantity must be at least 1")
	ErrInvalidDecision  = errors.New("request: decision must be Approved or Rejected")
	ErrInvalidPageSize  = errors.New("request: invalid page size")
	ErrInvalidPageToken = errors.New("request: invalid page token")
	ErrRequestNotFound  = errors.New("request: not found")
	ErrUnknownProject   = errors.New("request: project does not exist")

	// ErrConflict は確定済みの依頼に異なる判断を適用しようとした場合に返却されます。
	ErrConflict = errors.New("request: already resolved with a different decision")

	// ErrNotPending はリポジトリが条件付き更新で対象行を見つけられなかった場合に返却します。
	ErrNotPending = errors.New("request: not pending")
)
