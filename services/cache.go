package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"yard-staffing-api/config"
)

const (
	// EventsChannel carries yard, employee and manager change notifications.
	EventsChannel = "yards:events"

	pingAttempts = 5
	pingDelay    = 2 * time.Second
)

var ErrCacheMiss = errors.New("cache miss")

// CacheService wraps Redis. A nil client means Redis is unavailable: reads
// miss, writes and publishes are dropped.
type CacheService struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewCacheService connects and pings with retries. On failure it still
// returns a usable, disabled service alongside the error.
func NewCacheService(ctx context.Context, cfg config.RedisConfig, logger *logrus.Logger) (*CacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	var lastErr error
	for i := 0; i < pingAttempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		lastErr = client.Ping(pingCtx).Err()
		cancel()
		if lastErr == nil {
			return &CacheService{client: client, logger: logger}, nil
		}
		logger.Warnf("redis ping attempt %d/%d failed: %v", i+1, pingAttempts, lastErr)

		select {
		case <-ctx.Done():
			_ = client.Close()
			return NewDisabledCache(logger), ctx.Err()
		case <-time.After(pingDelay):
		}
	}

	_ = client.Close()
	return NewDisabledCache(logger), fmt.Errorf("redis ping failed after %d attempts: %w", pingAttempts, lastErr)
}

// NewCacheServiceWithClient wraps an existing client without pinging it.
func NewCacheServiceWithClient(client *redis.Client, logger *logrus.Logger) *CacheService {
	return &CacheService{client: client, logger: logger}
}

func NewDisabledCache(logger *logrus.Logger) *CacheService {
	return &CacheService{logger: logger}
}

func (s *CacheService) Available() bool {
	return s != nil && s.client != nil
}

func (s *CacheService) Ping(ctx context.Context) error {
	if !s.Available() {
		return errors.New("redis disabled")
	}
	return s.client.Ping(ctx).Err()
}

// Get decodes the JSON value at key into dest, or returns ErrCacheMiss.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	if !s.Available() {
		return ErrCacheMiss
	}
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(val, dest)
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Available() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// SetAsync writes in the background; failures are only logged.
func (s *CacheService) SetAsync(key string, value interface{}, ttl time.Duration) {
	if !s.Available() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.Set(ctx, key, value, ttl); err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("cache set failed")
		}
	}()
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if !s.Available() || len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *CacheService) Publish(ctx context.Context, channel string, message interface{}) error {
	if !s.Available() {
		return nil
	}
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, channel, data).Err()
}

// Subscribe returns nil when Redis is unavailable.
func (s *CacheService) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	if !s.Available() {
		return nil
	}
	return s.client.Subscribe(ctx, channel)
}

func (s *CacheService) Close() error {
	if !s.Available() {
		return nil
	}
	return s.client.Close()
}

func YardCacheKey(id uint) string {
	return fmt.Sprintf("yards:%d", id)
}

func PredictionCacheKey(modelVersion string, req StaffingRequest) string {
	return fmt.Sprintf("staffing:%s:%d:%d:%d", modelVersion, req.DayOfWeek, req.Hour, req.Month)
}

// ChangeEvent is published on EventsChannel after a successful write.
type ChangeEvent struct {
	Entity string    `json:"entity"`
	Action string    `json:"action"`
	ID     uint      `json:"id"`
	At     time.Time `json:"at"`
}

// PublishChange is best-effort; a failed publish never fails the write.
func (s *CacheService) PublishChange(ctx context.Context, entity, action string, id uint) {
	if !s.Available() {
		return
	}
	event := ChangeEvent{Entity: entity, Action: action, ID: id, At: time.Now().UTC()}
	if err := s.Publish(ctx, EventsChannel, event); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{"entity": entity, "action": action}).Warn("publish change failed")
	}
}
