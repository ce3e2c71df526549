package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lendledger/lendledger-backend/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when a session ID resolves to nothing,
// either because it never existed or because its TTL expired.
var ErrSessionNotFound = errors.New("session not found")

// Session is a server-side login record. The client only ever holds the
// opaque ID in an HTTP-only cookie.
type Session struct {
	ID         uuid.UUID   `json:"id"`
	BorrowerID int32       `json:"borrowerId"`
	Role       domain.Role `json:"role"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// SessionStore persists login sessions with a TTL
type SessionStore interface {
	Create(borrowerID int32, role domain.Role) (*Session, error)
	Get(id uuid.UUID) (*Session, error)
	Delete(id uuid.UUID) error
}

// RedisSessionStore implements SessionStore backed by Redis. Expiry is
// delegated to Redis key TTLs.
type RedisSessionStore struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewRedisSessionStore creates a session store on an existing Redis client
func NewRedisSessionStore(client *goredis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

// NewClient creates a Redis client for the given address
func NewClient(addr, password string) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
	})
}

func sessionKey(id uuid.UUID) string {
	return fmt.Sprintf("session:%s", id)
}

// Create stores a new session and returns it
func (s *RedisSessionStore) Create(borrowerID int32, role domain.Role) (*Session, error) {
	session := &Session{
		ID:         uuid.New(),
		BorrowerID: borrowerID,
		Role:       role,
		CreatedAt:  time.Now().UTC(),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := s.client.Set(ctx, sessionKey(session.ID), data, s.ttl).Err(); err != nil {
		return nil, err
	}
	return session, nil
}

// Get retrieves a session by ID
func (s *RedisSessionStore) Get(id uuid.UUID) (*Session, error) {
	ctx := context.Background()

	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *RedisSessionStore) Delete(id uuid.UUID) error {
	ctx := context.Background()
	return s.client.Del(ctx, sessionKey(id)).Err()
}
