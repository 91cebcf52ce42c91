// README: Redis-backed session store (one JSON list per account with a sliding TTL).
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"carebot/internal/types"
)

const sessionKeyPrefix = "carebot:session:"

type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl, now: time.Now}
}

func sessionKey(accountID types.ID) string {
	return sessionKeyPrefix + string(accountID)
}

// appendScript seeds the greeting (ARGV[2]) only when the list is new, then
// pushes the remaining turns and refreshes the TTL (ARGV[1], ms) in one step.
var appendScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	redis.call('RPUSH', KEYS[1], ARGV[2])
end
for i = 3, #ARGV do
	redis.call('RPUSH', KEYS[1], ARGV[i])
end
if tonumber(ARGV[1]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return redis.call('LLEN', KEYS[1])
`)

func (s *RedisSessionStore) Append(ctx context.Context, accountID types.ID, turns ...Turn) error {
	greeting, err := json.Marshal(NewSession(accountID, s.now()).Turns[0])
	if err != nil {
		return err
	}
	args := make([]any, 0, len(turns)+2)
	args = append(args, s.ttl.Milliseconds(), greeting)
	for _, t := range turns {
		raw, err := json.Marshal(t)
		if err != nil {
			return err
		}
		args = append(args, raw)
	}

	if err := appendScript.Run(ctx, s.rdb, []string{sessionKey(accountID)}, args...).Err(); err != nil {
		return fmt.Errorf("session append: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Load(ctx context.Context, accountID types.ID) (*Session, error) {
	raw, err := s.rdb.LRange(ctx, sessionKey(accountID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("session load: %w", err)
	}
	if len(raw) == 0 {
		return NewSession(accountID, s.now()), nil
	}
	sess := &Session{AccountID: accountID, Turns: make([]Turn, 0, len(raw))}
	for _, r := range raw {
		var t Turn
		if err := json.Unmarshal([]byte(r), &t); err != nil {
			return nil, fmt.Errorf("session decode: %w", err)
		}
		sess.Turns = append(sess.Turns, t)
	}
	return sess, nil
}

func (s *RedisSessionStore) Reset(ctx context.Context, accountID types.ID) error {
	return s.rdb.Del(ctx, sessionKey(accountID)).Err()
}
