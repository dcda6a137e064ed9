package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	scheduleKey    = "reminders:schedule"
	reminderPrefix = "reminder:"
)

// RedisScheduler keeps each reminder payload under its own key and the fire
// times in a sorted set scored by unix time, so the worker can pull due
// reminders with one range query.
type RedisScheduler struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisScheduler(client *redis.Client, log *zap.Logger) *RedisScheduler {
	return &RedisScheduler{client: client, log: log}
}

func (s *RedisScheduler) Schedule(ctx context.Context, id string, fireAt time.Time, title, message string) error {
	rem := Reminder{
		ID:      id,
		Title:   title,
		Message: message,
		FireAt:  fireAt,
	}
	data, err := json.Marshal(rem)
	if err != nil {
		return fmt.Errorf("marshal reminder: %w", err)
	}

	if err := s.client.Set(ctx, reminderPrefix+id, data, 0).Err(); err != nil {
		return fmt.Errorf("store reminder %s: %w", id, err)
	}
	if err := s.client.ZAdd(ctx, scheduleKey, redis.Z{
		Score:  float64(fireAt.Unix()),
		Member: id,
	}).Err(); err != nil {
		return fmt.Errorf("schedule reminder %s: %w", id, err)
	}
	return nil
}

func (s *RedisScheduler) Cancel(ctx context.Context, id string) error {
	if err := s.client.ZRem(ctx, scheduleKey, id).Err(); err != nil {
		return fmt.Errorf("unschedule reminder %s: %w", id, err)
	}
	if err := s.client.Del(ctx, reminderPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete reminder %s: %w", id, err)
	}
	return nil
}

// Due returns every reminder whose fire time is at or before now, then
// removes the handled entries from the schedule. Nothing is removed until the
// whole batch has been collected, so a mid-scan failure never loses a
// reminder: an entry whose payload is unreadable stays scheduled and is
// retried on the next pass, and a removal failure at worst redelivers.
func (s *RedisScheduler) Due(ctx context.Context, now time.Time) ([]Reminder, error) {
	ids, err := s.client.ZRangeByScore(ctx, scheduleKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("scan due reminders: %w", err)
	}

	var due []Reminder
	var handled []string
	for _, id := range ids {
		raw, err := s.client.Get(ctx, reminderPrefix+id).Result()
		switch {
		case errors.Is(err, redis.Nil):
			// Payload is gone, there is nothing left to deliver.
			handled = append(handled, id)
		case err != nil:
			s.log.Warn("reminder payload unreadable, leaving scheduled",
				zap.String("id", id),
				zap.Error(err))
		default:
			var rem Reminder
			if jsonErr := json.Unmarshal([]byte(raw), &rem); jsonErr != nil {
				s.log.Warn("reminder payload corrupt, dropping",
					zap.String("id", id),
					zap.Error(jsonErr))
				handled = append(handled, id)
			} else {
				due = append(due, rem)
				handled = append(handled, id)
			}
		}
	}

	for _, id := range handled {
		if err := s.Cancel(ctx, id); err != nil {
			s.log.Warn("failed to remove handled reminder, may redeliver",
				zap.String("id", id),
				zap.Error(err))
		}
	}

	return due, nil
}
