package ratelimit

import (
	"context"
	"math"
	"time"
)

// Limiter decides whether another request for key fits in the current window.
type Limiter interface {
	// Check reports whether the request is allowed. A denied call leaves the window untouched.
	Check(ctx context.Context, key string, maxRequests int, window time.Duration) bool
	// RemainingTime returns whole seconds until the window for key resets, 0 when key is unknown.
	RemainingTime(ctx context.Context, key string) int
}

// ReviewKey builds the throttle key used for a QR identifier.
func ReviewKey(qrCodeID string) string {
	return "review_" + qrCodeID
}

// secondsCeil rounds a remaining duration up to whole seconds and clamps at zero.
func secondsCeil(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
