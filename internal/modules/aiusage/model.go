// README: Per-account monthly allowance of generated replies.
package aiusage

import (
	"errors"
	"time"
)

// ErrInsufficientTokens is returned when an account has no generated replies left this month.
var ErrInsufficientTokens = errors.New("monthly assistant allowance used up")

// DefaultTokens is the number of generated replies granted per month.
const DefaultTokens = 100

// Usage is the allowance row of one account.
type Usage struct {
	AccountID       string `json:"accountId"`
	TokensRemaining int    `json:"tokensRemaining"`
	LastResetMonth  string `json:"lastResetMonth"`
}

func monthOf(t time.Time) string {
	return t.Format("2006-01")
}
