// Package idempotency serialises concurrent checkouts that share a checkout
// id. A Guard hands out short-lived exclusive locks keyed by that id; the
// unique index on bookings.checkout_id remains the final arbiter.
package idempotency

import (
	"context"
	"time"
)

// Release gives a lock back. Releasing a lock that has already expired is
// not an error.
type Release func(ctx context.Context) error

type Guard interface {
	// Acquire locks key for at most ttl. It returns
	// common.ErrCheckoutInProgress while another holder owns the key.
	Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error)
}
