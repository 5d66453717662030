// Package session persists browser sessions server-side. The cookie only
// carries a random session ID; the Basic Auth token it maps to never leaves
// the server once the user has logged in.
package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID        string
	Username  string
	Token     string // base64 user:password, replayed on backend calls
	Language  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

type Store interface {
	Create(ctx context.Context, username, token, language string, ttl time.Duration) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	SetLanguage(ctx context.Context, id, language string) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
