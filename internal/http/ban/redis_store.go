package ban

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	BanLogKey     = "ratelimit:banlog"
	banKeyPrefix  = "ratelimit:ban:"
	strikesPrefix = "ratelimit:strikes:"
	maxLogEntries = 1000
)

// RedisStore shares bans between every instance pointing at the same Redis.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) IsBanned(ctx context.Context, target string) (bool, error) {
	n, err := s.rdb.Exists(ctx, banKeyPrefix+target).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisStore) AddStrike(ctx context.Context, target string, window time.Duration) (int, error) {
	key := strikesPrefix + target
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

func (s *RedisStore) Ban(ctx context.Context, target string, d time.Duration) error {
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, banKeyPrefix+target, "1", d)
	pipe.Del(ctx, strikesPrefix+target)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) AppendLog(ctx context.Context, entry BanLogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, BanLogKey, data)
	pipe.LTrim(ctx, BanLogKey, -maxLogEntries, -1)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Log(ctx context.Context) ([]BanLogEntry, error) {
	items, err := s.rdb.LRange(ctx, BanLogKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	logs := make([]BanLogEntry, 0, len(items))
	for _, item := range items {
		var entry BanLogEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("corrupt ban log entry: %w", err)
		}
		logs = append(logs, entry)
	}
	return logs, nil
}
