package ids

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

// MaxRequestIDLength は外部から受け取るリクエスト ID の最大長です。
const MaxRequestIDLength = 64

// ValidRequestID は外部から受け取ったリクエスト ID をそのまま使えるか判定します。
// 英数字と "-", "_", "." のみからなる MaxRequestIDLength 以下の値を受け付けます。
func ValidRequestID(id string) bool {
	if id == "" || len(id) > MaxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}

// NewRequestID はログ相関用のソート可能なリクエスト ID を返します。
func NewRequestID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
