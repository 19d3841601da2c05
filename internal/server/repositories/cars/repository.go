package cars

import (
	"context"

	"github.com/dmitrijs2005/autodealer/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, car *models.Car) (*models.Car, error)
	Get(ctx context.Context, id string) (*models.Car, error)
	List(ctx context.Context, filter models.CarFilter) ([]*models.Car, error)
	Update(ctx context.Context, car *models.Car) (*models.Car, error)
	Delete(ctx context.Context, id string) error
	MarkSold(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
