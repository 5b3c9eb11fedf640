package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	loginFailWindow = 15 * time.Minute
	loginFailLimit  = 5
)

// LoginLimiter counts failed credential checks per normalized email.
// Key format: loginfail:<correo>, expiring after the window so a locked
// account frees itself without operator action.
type LoginLimiter struct {
	client *redis.Client
}

func NewLoginLimiter(client *redis.Client) *LoginLimiter {
	return &LoginLimiter{client: client}
}

// Blocked reports whether the account burned through its failure budget.
func (l *LoginLimiter) Blocked(ctx context.Context, correo string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(correo)).Int64()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("login limiter get: %w", err)
	}
	return n >= loginFailLimit, nil
}

// RecordFailure bumps the counter and refreshes its expiry window.
func (l *LoginLimiter) RecordFailure(ctx context.Context, correo string) error {
	key := l.key(correo)
	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, loginFailWindow)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("login limiter incr: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, correo string) error {
	return l.client.Del(ctx, l.key(correo)).Err()
}

func (l *LoginLimiter) key(correo string) string {
	return "loginfail:" + correo
}
