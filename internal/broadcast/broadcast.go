package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"galaxy-server/internal/shared/config"
	"galaxy-server/internal/shared/errors"
	"galaxy-server/internal/world"

	"github.com/redis/go-redis/v9"
)

type Publisher interface {
	Publish(ctx context.Context, frame world.Frame) error
	Close() error
}

// New picks the redis publisher when a client is available and the in-memory
// one otherwise.
func New(client *redis.Client, cfg config.RedisConfig, logger *slog.Logger) Publisher {
	if client == nil {
		return NewMemoryPublisher()
	}
	return NewRedisPublisher(client, cfg.FrameKey, cfg.FrameChannel, cfg.FrameTTL, logger)
}

// RedisPublisher stores the newest frame under a key and fans it out on a
// pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	key     string
	channel string
	ttl     time.Duration
	logger  *slog.Logger
}

func NewRedisPublisher(client *redis.Client, key, channel string, ttl time.Duration, logger *slog.Logger) *RedisPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisPublisher{
		client:  client,
		key:     key,
		channel: channel,
		ttl:     ttl,
		logger:  logger.With("component", "broadcast", "backend", "redis"),
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, frame world.Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return errors.WrapInternal("failed to encode frame", err)
	}

	pipe := p.client.Pipeline()
	pipe.Set(ctx, p.key, data, p.ttl)
	pipe.Publish(ctx, p.channel, data)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.WrapExternal("failed to publish frame", err)
	}

	p.logger.Debug("Frame published", "operation", "publish", "tick", frame.Tick, "bytes", len(data))
	return nil
}

// Latest reads back the last stored frame.
func (p *RedisPublisher) Latest(ctx context.Context) (world.Frame, error) {
	var frame world.Frame

	data, err := p.client.Get(ctx, p.key).Bytes()
	if err == redis.Nil {
		return frame, errors.NotFound("no frame has been published yet")
	}
	if err != nil {
		return frame, errors.WrapExternal("failed to read frame", err)
	}

	if err := json.Unmarshal(data, &frame); err != nil {
		return frame, errors.WrapInternal("failed to decode frame", err)
	}
	return frame, nil
}

func (p *RedisPublisher) Close() error {
	return nil
}

// MemoryPublisher keeps the last frame in process.
type MemoryPublisher struct {
	mu    sync.RWMutex
	last  *world.Frame
	count int
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(_ context.Context, frame world.Frame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = &frame
	p.count++
	return nil
}

func (p *MemoryPublisher) Latest() (world.Frame, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.last == nil {
		return world.Frame{}, false
	}
	return *p.last, true
}

func (p *MemoryPublisher) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.count
}

func (p *MemoryPublisher) Close() error {
	return nil
}
