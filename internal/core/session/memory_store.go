package session

import (
	"context"
	"sync"
	"time"
)

// MemoryRevocationStore はプロセス内で失効済みトークンを保持します。開発環境とテスト向けです。
type MemoryRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocationStore は MemoryRevocationStore を生成します。
func NewMemoryRevocationStore(clock Clock) *MemoryRevocationStore {
	if clock == nil {
		clock = realClock{}
	}
	return &MemoryRevocationStore{revoked: make(map[string]time.Time), now: clock.Now}
}

// Revoke はトークン ID を ttl の間失効扱いにします。
func (s *MemoryRevocationStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, until := range s.revoked {
		if !now.Before(until) {
			delete(s.revoked, id)
		}
	}
	s.revoked[tokenID] = now.Add(ttl)
	return nil
}

// IsRevoked はトークン ID が失効済みかを返します。
func (s *MemoryRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	return s.now().Before(until), nil
}
