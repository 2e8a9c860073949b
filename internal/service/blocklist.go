// Package service holds request-independent application services that sit
// between handlers and external systems: the blocked-account check used by
// the authentication middleware and the review event publisher.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/docushield/document-portal/internal/repository"
)

// Blocklist answers "is this account blocked right now" for every
// authenticated request. Session tokens are valid for seven days and carry
// no revocation list, so blocking must be enforced against live state; the
// cost of that extra read is bounded by a short Redis cache. With no Redis
// client every check goes to the database.
type Blocklist struct {
	Users *repository.UserRepo
	RDB   *redis.Client // may be nil
	TTL   time.Duration
}

func NewBlocklist(users *repository.UserRepo, rdb *redis.Client, ttl time.Duration) *Blocklist {
	return &Blocklist{Users: users, RDB: rdb, TTL: ttl}
}

func blockedKey(userID string) string { return "blocked:" + userID }

// IsBlocked reports whether the account is blocked. A user row that no
// longer exists counts as blocked: a token for a deleted account must not
// keep working. Cache errors fall through to the database rather than
// failing the request.
func (b *Blocklist) IsBlocked(ctx context.Context, userID string) (bool, error) {
	if b.RDB != nil {
		if v, err := b.RDB.Get(ctx, blockedKey(userID)).Result(); err == nil {
			return v == "1", nil
		}
	}
	blocked, err := b.Users.IsBlocked(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	if b.RDB != nil {
		val := "0"
		if blocked {
			val = "1"
		}
		b.RDB.Set(ctx, blockedKey(userID), val, b.TTL)
	}
	return blocked, nil
}

// Invalidate drops the cached flag for one user. Called when an admin
// toggles is_blocked so the change is seen on the next request instead of
// after the cache TTL.
func (b *Blocklist) Invalidate(ctx context.Context, userID string) {
	if b.RDB != nil {
		b.RDB.Del(ctx, blockedKey(userID))
	}
}
