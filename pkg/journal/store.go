// Package journal follows the BaseLinker order journal incrementally.
// The position in the journal (the last processed log_id) is kept in a
// CursorStore so that a restarted follower resumes where it stopped.
package journal

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoCursor is returned by CursorStore.Load when nothing was saved yet.
var ErrNoCursor = errors.New("journal: no cursor stored")

// Cursor is the position of a follower in the journal.
type Cursor struct {
	// LastLogID is the highest log_id already processed.
	LastLogID int64 `json:"last_log_id"`

	// UpdatedAt is when the cursor was last saved.
	UpdatedAt time.Time `json:"updated_at"`
}

// CursorStore persists a follower's cursor.
type CursorStore interface {
	Load(ctx context.Context) (Cursor, error)
	Save(ctx context.Context, cursor Cursor) error
}

// Redis key layout. %s is the follower name.
const (
	redisKeyLastLogID = "baselinker:journal:%s:last_log_id"
	redisKeyUpdatedAt = "baselinker:journal:%s:updated_at"
)

// RedisStore keeps the cursor in Redis, shared by every process using the
// same follower name.
type RedisStore struct {
	redis        *redis.Client
	keyLastLogID string
	keyUpdatedAt string
}

// NewRedisStore creates a Redis cursor store for the named follower.
func NewRedisStore(redisClient *redis.Client, name string) *RedisStore {
	return &RedisStore{
		redis:        redisClient,
		keyLastLogID: fmt.Sprintf(redisKeyLastLogID, name),
		keyUpdatedAt: fmt.Sprintf(redisKeyUpdatedAt, name),
	}
}

// Load reads the cursor. It returns ErrNoCursor if the follower never saved one.
func (s *RedisStore) Load(ctx context.Context) (Cursor, error) {
	values, err := s.redis.MGet(ctx, s.keyLastLogID, s.keyUpdatedAt).Result()
	if err != nil {
		return Cursor{}, fmt.Errorf("load journal cursor: %w", err)
	}

	rawID, ok := values[0].(string)
	if !ok {
		return Cursor{}, ErrNoCursor
	}

	lastLogID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return Cursor{}, fmt.Errorf("parse %s: %w", s.keyLastLogID, err)
	}

	cursor := Cursor{LastLogID: lastLogID}
	if rawUpdated, ok := values[1].(string); ok {
		unix, err := strconv.ParseInt(rawUpdated, 10, 64)
		if err != nil {
			return Cursor{}, fmt.Errorf("parse %s: %w", s.keyUpdatedAt, err)
		}
		cursor.UpdatedAt = time.Unix(unix, 0)
	}

	return cursor, nil
}

// Save writes both cursor keys in one pipeline.
func (s *RedisStore) Save(ctx context.Context, cursor Cursor) error {
	pipe := s.redis.TxPipeline()
	pipe.Set(ctx, s.keyLastLogID, cursor.LastLogID, 0)
	pipe.Set(ctx, s.keyUpdatedAt, cursor.UpdatedAt.Unix(), 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store journal cursor in redis: %w", err)
	}
	return nil
}

// MemoryStore keeps the cursor in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	cursor *Cursor
}

// NewMemoryStore creates an empty in-memory cursor store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the saved cursor or ErrNoCursor.
func (s *MemoryStore) Load(_ context.Context) (Cursor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor == nil {
		return Cursor{}, ErrNoCursor
	}
	return *s.cursor, nil
}

// Save replaces the stored cursor.
func (s *MemoryStore) Save(_ context.Context, cursor Cursor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = &cursor
	return nil
}
