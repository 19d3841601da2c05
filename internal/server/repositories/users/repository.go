package users

import (
	"context"

	"github.com/dmitrijs2005/autodealer/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	SetAdmin(ctx context.Context, email string, isAdmin bool) error
	Count(ctx context.Context) (int64, error)
}
