package utils

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// in-memory fallback store
type resetEntry struct {
	userID    uint
	expiresAt time.Time
}

var (
	resetStore   = map[string]resetEntry{}
	resetStoreMu sync.Mutex
)

func resetKey(token string) string {
	return "reset:token:" + token
}

// SaveResetToken stores a password-reset token for a user with TTL. Prefer Redis; fallback to memory.
func SaveResetToken(token string, userID uint, ttl time.Duration) {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.Set(ctx, resetKey(token), strconv.FormatUint(uint64(userID), 10), ttl).Err(); err == nil {
			return
		}
	}
	resetStoreMu.Lock()
	resetStore[token] = resetEntry{userID: userID, expiresAt: time.Now().Add(ttl)}
	resetStoreMu.Unlock()
}

// ConsumeResetToken validates a token and removes it, returning the user it
// was issued for. Single use: a second redemption fails.
func ConsumeResetToken(token string) (uint, bool) {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		key := resetKey(token)
		// Prefer GETDEL (Redis >= 6.2)
		if val, err := rc.GetDel(ctx, key).Result(); err == nil {
			id, convErr := strconv.ParseUint(val, 10, 64)
			if convErr != nil {
				return 0, false
			}
			return uint(id), true
		}
		// Fallback to atomic Lua: GET then DEL
		script := `local v=redis.call('GET', KEYS[1]); if v then redis.call('DEL', KEYS[1]); end; return v`
		if res, err := rc.Eval(ctx, script, []string{key}).Result(); err == nil {
			if res == nil {
				return 0, false
			}
			if s, ok := res.(string); ok {
				if id, convErr := strconv.ParseUint(s, 10, 64); convErr == nil {
					return uint(id), true
				}
			}
			return 0, false
		}
		// On Redis error (e.g., network), fall through to memory fallback
	}
	resetStoreMu.Lock()
	defer resetStoreMu.Unlock()
	entry, ok := resetStore[token]
	if !ok {
		return 0, false
	}
	delete(resetStore, token)
	if time.Now().After(entry.expiresAt) {
		return 0, false
	}
	return entry.userID, true
}

// ResetMailCooldownTrySet sets a cooldown key for sending reset mail. Returns true if set, false if cooling down.
func ResetMailCooldownTrySet(email string, cooldown time.Duration) bool {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		ok, _ := rc.SetNX(ctx, "cooldown:reset:"+email, "1", cooldown).Result()
		return ok
	}
	resetStoreMu.Lock()
	defer resetStoreMu.Unlock()
	key := "cooldown:reset:mem:" + email
	if entry, ok := resetStore[key]; ok && time.Now().Before(entry.expiresAt) {
		return false
	}
	resetStore[key] = resetEntry{expiresAt: time.Now().Add(cooldown)}
	return true
}
