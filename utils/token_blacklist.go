package utils

import (
	"context"
	"sync"
	"time"
)

// Logout works by revoking the bearer token until its natural expiry.
// Redis-backed when available so revocation holds across instances; the
// in-memory map is the single-instance fallback.

type revokedEntry struct {
	expiresAt time.Time
}

var (
	revoked   = map[string]revokedEntry{}
	revokedMu sync.RWMutex
)

const revokedKeyPrefix = "jwt:blacklist:"

// BlacklistToken revokes a token until expiresAt.
func BlacklistToken(token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = rc.Set(ctx, revokedKeyPrefix+token, "1", ttl).Err()
		return
	}
	revokedMu.Lock()
	revoked[token] = revokedEntry{expiresAt: expiresAt}
	// Opportunistic purge so the fallback map cannot grow unbounded.
	now := time.Now()
	for t, e := range revoked {
		if now.After(e.expiresAt) {
			delete(revoked, t)
		}
	}
	revokedMu.Unlock()
}

// IsTokenBlacklisted reports whether a token was revoked before its natural
// expiry. A Redis error fails open: an unreachable store must not lock every
// user out.
func IsTokenBlacklisted(token string) bool {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		n, err := rc.Exists(ctx, revokedKeyPrefix+token).Result()
		if err == nil {
			return n > 0
		}
		return false
	}

	revokedMu.RLock()
	entry, ok := revoked[token]
	revokedMu.RUnlock()
	if !ok {
		return false
	}
	if time.Now().After(entry.expiresAt) {
		revokedMu.Lock()
		delete(revoked, token)
		revokedMu.Unlock()
		return false
	}
	return true
}
