// README: Optional duplicate-confirmation guard keyed by account, product and plan.
package chat

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"

	"carebot/internal/types"
)

// ConfirmationGuard decides whether a confirmation may commit. Acquire returns
// false when the same account confirmed the same product/plan within the window.
type ConfirmationGuard interface {
	Acquire(ctx context.Context, accountID types.ID, product types.Product, plan types.Plan) (bool, error)
}

type RedisConfirmationGuard struct {
	rdb    *redis.Client
	window time.Duration
}

func NewRedisConfirmationGuard(rdb *redis.Client, window time.Duration) *RedisConfirmationGuard {
	return &RedisConfirmationGuard{rdb: rdb, window: window}
}

func (g *RedisConfirmationGuard) Acquire(ctx context.Context, accountID types.ID, product types.Product, plan types.Plan) (bool, error) {
	return g.rdb.SetNX(ctx, "carebot:confirm:"+confirmKey(accountID, product, plan), 1, g.window).Result()
}

func confirmKey(accountID types.ID, product types.Product, plan types.Plan) string {
	sum := sha256.Sum256([]byte(string(accountID) + "|" + string(product) + "|" + string(plan)))
	return hex.EncodeToString(sum[:])
}
