package bookings

import (
	"context"

	"github.com/dmitrijs2005/autodealer/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	Get(ctx context.Context, id string) (*models.Booking, error)
	GetByCheckoutID(ctx context.Context, checkoutID string) (*models.Booking, error)
	List(ctx context.Context) ([]*models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Booking, error)
	Count(ctx context.Context) (int64, error)
}
