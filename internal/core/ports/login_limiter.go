package ports

import "context"

// LoginLimiter throttles credential checks per account to slow brute-force
// attempts. Implementations must fail open: a limiter outage should never
// lock every user out.
type LoginLimiter interface {
	// Blocked reports whether the account has exceeded the failure budget.
	Blocked(ctx context.Context, correo string) (bool, error)
	RecordFailure(ctx context.Context, correo string) error
	Reset(ctx context.Context, correo string) error
}
