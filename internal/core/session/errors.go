package session

import "errors"

var (
	// ErrAccountNotFound はアカウントが存在しない場合に返却されます。
	ErrAccountNotFound = errors.New("session: account not found")
	// ErrEmailAlreadyExists はメールアドレス重複時に返却されます。
	ErrEmailAlreadyExists = errors.New("session: email already exists")
	// ErrInvalidEmail はメールアドレスが不正な場合に返却されます。
	ErrInvalidEmail = errors.New("session: invalid email")
	// ErrInvalidName は名前が不正な場合に返却されます。
	ErrInvalidName = errors.New("session: invalid name")
	// ErrInvalidPassword はパスワードが短すぎる場合に返却されます。
	ErrInvalidPassword = errors.New("session: password must be at least 8 characters")
	// ErrInvalidCredentials はメールアドレスまたはパスワードが一致しない場合に返却されます。
	ErrInvalidCredentials = errors.New("session: invalid credentials")
	// ErrUnauthenticated はトークンが無効・期限切れ・失効済みの場合に返却されます。
	ErrUnauthenticated = errors.New("session: unauthenticated")
)
