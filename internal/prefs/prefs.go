// Package prefs persists small per-user UI preferences, most notably the
// last selected tab per resource page.
package prefs

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "prefs:"
	opTimeout = 2 * time.Second
)

// Store reads and writes preference keys for one user. It satisfies the tab
// controller's store contract: lookups are best effort and failures only
// surface in logs, never to the caller.
type Store struct {
	client *redis.Client
	logger *slog.Logger
	userID string
}

func NewStore(client *redis.Client, logger *slog.Logger, userID string) *Store {
	return &Store{client: client, logger: logger, userID: userID}
}

func (s *Store) key(name string) string {
	return keyPrefix + s.userID + ":" + name
}

// Get returns the stored value, or "" when absent or on error.
func (s *Store) Get(name string) string {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	value, err := s.client.Get(ctx, s.key(name)).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("prefs get failed", "key", name, "error", err)
		}
		return ""
	}
	return value
}

// Set stores the value without expiry.
func (s *Store) Set(name, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := s.client.Set(ctx, s.key(name), value, 0).Err(); err != nil {
		s.logger.Warn("prefs set failed", "key", name, "error", err)
	}
}
