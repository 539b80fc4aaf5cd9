package session

import "time"

// AccountStatus は管理者アカウントの状態を表します。
type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
)

// Account は管理画面にサインインできるアカウントです。
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Status       AccountStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal は検証済みセッションの主体です。
type Principal struct {
	AccountID string
	Email     string
	Name      string
	TokenID   string
	ExpiresAt time.Time
}

// Session はサインイン時に発行されるセッションです。
type Session struct {
	Token     string
	ExpiresAt time.Time
	Principal Principal
}

// EventKind はセッション変化の種類です。
type EventKind string

const (
	EventSignedIn  EventKind = "signed_in"
	EventSignedOut EventKind = "signed_out"
)

// Event は OnSessionChange の購読者へ通知される内容です。
type Event struct {
	Kind      EventKind
	Principal Principal
}
