package sellrequests

import (
	"context"

	"github.com/dmitrijs2005/autodealer/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, req *models.SellRequest) (*models.SellRequest, error)
	Get(ctx context.Context, id string) (*models.SellRequest, error)
	List(ctx context.Context) ([]*models.SellRequest, error)
	ListByUser(ctx context.Context, userID string) ([]*models.SellRequest, error)
	UpdateStatus(ctx context.Context, id string, from, to models.SellRequestStatus) (*models.SellRequest, error)
	CountByStatus(ctx context.Context, status models.SellRequestStatus) (int64, error)
}
