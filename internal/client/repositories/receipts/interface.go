// Package receipts caches receipts of confirmed bookings in the local client
// database so they can be shown again without a round trip.
package receipts

import (
	"context"
	"time"
)

// Receipt is one cached booking receipt. Body is the rendered text.
type Receipt struct {
	BookingID     string
	UserID        string
	CarName       string
	BookingType   string
	Amount        int64
	TransactionID string
	Body          string
	CreatedAt     time.Time
}

type Repository interface {
	Save(ctx context.Context, r *Receipt) error
	Get(ctx context.Context, bookingID string) (*Receipt, error)
	ListByUser(ctx context.Context, userID string) ([]Receipt, error)
}
