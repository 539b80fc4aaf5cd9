package session

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

const (
	defaultTTL        = 12 * time.Hour
	minPasswordLength = 8
)

// Options はセッション発行の設定です。
type Options struct {
	Secret     []byte
	Issuer     string
	TTL        time.Duration
	BcryptCost int
}

// Service はアカウントとセッションを扱うアイデンティティプロバイダーです。
type Service struct {
	accounts    AccountRepository
	revocations RevocationStore
	tokens      *tokenIssuer
	clock       Clock
	cost        int
	logger      *zap.Logger

	mu        sync.RWMutex
	nextID    int
	observers map[int]func(Event)
}

// UseCase はセッションユースケースの公開インターフェースです。
type UseCase interface {
	SignIn(ctx context.Context, in SignInInput) (*Session, error)
	SignOut(ctx context.Context, token string) error
	GetSession(ctx context.Context, token string) (*Principal, error)
}

// NewService は Service を生成します。revocations が nil の場合はプロセス内ストアを使います。
func NewService(accounts AccountRepository, revocations RevocationStore, clock Clock, logger *zap.Logger, opts Options) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if revocations == nil {
		revocations = NewMemoryRevocationStore(clock)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	return &Service{
		accounts:    accounts,
		revocations: revocations,
		tokens:      &tokenIssuer{secret: opts.Secret, issuer: opts.Issuer, ttl: opts.TTL, now: clock.Now},
		clock:       clock,
		cost:        opts.BcryptCost,
		logger:      logger,
		observers:   make(map[int]func(Event)),
	}
}

// CreateAccountInput はアカウント作成時の入力です。
type CreateAccountInput struct {
	Email    string
	Name     string
	Password string
}

// SignInInput はサインイン時の入力です。
type SignInInput struct {
	Email    string
	Password string
}

// CreateAccount はパスワードをハッシュ化してアカウントを作成します。
func (s *Service) CreateAccount(ctx context.Context, in CreateAccountInput) (*Account, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, ErrInvalidEmail
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	if len(in.Password) < minPasswordLength {
		return nil, ErrInvalidPassword
	}

	existing, err := s.accounts.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrAccountNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("session: hash password: %w", err)
	}

	now := s.clock.Now()
	return s.accounts.Create(ctx, &Account{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Status:       AccountActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// SignIn はメールアドレスとパスワードを検証し、新しいセッションを発行します。
// アカウントの有無とパスワード不一致は区別せず ErrInvalidCredentials を返します。
func (s *Service) SignIn(ctx context.Context, in SignInInput) (*Session, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if account.Status != AccountActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(in.Password)); err != nil {
		s.logger.Info("sign in rejected", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	issued, err := s.tokens.issue(account)
	if err != nil {
		return nil, err
	}

	s.logger.Info("signed in", zap.String("account_id", account.ID), zap.String("jti", issued.Principal.TokenID))
	s.notify(Event{Kind: EventSignedIn, Principal: issued.Principal})
	return issued, nil
}

// GetSession はトークンを検証し、有効なセッションの主体を返します。
func (s *Service) GetSession(ctx context.Context, token string) (*Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthenticated
	}

	principal, err := s.tokens.parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, principal.TokenID)
	if err != nil {
		return nil, fmt.Errorf("session: check revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", ErrUnauthenticated)
	}

	return principal, nil
}

// SignOut はトークンを有効期限まで失効させます。
func (s *Service) SignOut(ctx context.Context, token string) error {
	principal, err := s.GetSession(ctx, token)
	if err != nil {
		return err
	}

	ttl := principal.ExpiresAt.Sub(s.clock.Now())
	if err := s.revocations.Revoke(ctx, principal.TokenID, ttl); err != nil {
		return fmt.Errorf("session: revoke: %w", err)
	}

	s.logger.Info("signed out", zap.String("account_id", principal.AccountID), zap.String("jti", principal.TokenID))
	s.notify(Event{Kind: EventSignedOut, Principal: *principal})
	return nil
}

// OnSessionChange はサインイン・サインアウト時に呼ばれる購読者を登録し、解除関数を返します。
func (s *Service) OnSessionChange(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Service) notify(ev Event) {
	s.mu.RLock()
	observers := make([]func(Event), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.RUnlock()

	for _, fn := range observers {
		fn(ev)
	}
}

func normalizeEmail(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return "", err
	}

	return strings.ToLower(addr.Address), nil
}
