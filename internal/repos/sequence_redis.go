package repos

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const orderSeqKey = "pos:order_seq"

// raiseFloor lifts the counter to at least ARGV[1] without ever lowering it,
// so a terminal restarted against an older database cannot reissue numbers.
var raiseFloorScript = redis.NewScript(`
local key = KEYS[1]
local floor = tonumber(ARGV[1])

local current = tonumber(redis.call('GET', key) or '0')
if current < floor then
	redis.call('SET', key, floor)
	return floor
end

return current
`)

// RedisSequence is the shared order-number authority when several terminals
// place orders against one Redis.
type RedisSequence struct {
	client *redis.Client
	key    string
}

func NewRedisSequence(client *redis.Client) *RedisSequence {
	return &RedisSequence{client: client, key: orderSeqKey}
}

// WithKey points the sequence at a different counter; tests use it to isolate runs.
func (s *RedisSequence) WithKey(key string) *RedisSequence {
	return &RedisSequence{client: s.client, key: key}
}

// Seed raises the counter to floor, typically the highest number in the store.
func (s *RedisSequence) Seed(ctx context.Context, floor int64) (int64, error) {
	return raiseFloorScript.Run(ctx, s.client, []string{s.key}, floor).Int64()
}

func (s *RedisSequence) Next(ctx context.Context) (int64, error) {
	return s.client.Incr(ctx, s.key).Result()
}
