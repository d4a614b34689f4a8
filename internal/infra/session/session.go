// Package session persists gateway sessions. A session binds the upstream
// CatatUang token to the cached user; it is one record, so creating or
// clearing a session is a single atomic store operation.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/catatuang/catatuang-gateway/internal/domain"
)

// ErrNotFound is returned when a session ID is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Session is the unit of authentication state.
type Session struct {
	ID        string       `json:"id"`
	Token     string       `json:"token"`
	User      *domain.User `json:"user"`
	CreatedAt time.Time    `json:"created_at"`
}

// Store persists sessions. Implementations: in-memory (dev) and Redis.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
