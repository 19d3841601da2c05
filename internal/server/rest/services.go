package rest

import (
	"context"

	"github.com/dmitrijs2005/autodealer/internal/server/models"
	"github.com/dmitrijs2005/autodealer/internal/server/services"
)

// The handlers depend on these narrow views of the services package so they
// can be exercised with fakes.

type UserService interface {
	Register(ctx context.Context, name, email, password string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

type CarService interface {
	List(ctx context.Context, filter models.CarFilter) ([]*models.Car, error)
	Get(ctx context.Context, id string) (*models.Car, error)
	Create(ctx context.Context, car *models.Car) (*models.Car, error)
	Update(ctx context.Context, id string, patch models.CarPatch) (*models.Car, error)
	Delete(ctx context.Context, id string) error
}

type BookingService interface {
	Create(ctx context.Context, userID string, req services.BookingRequest) (*models.Booking, bool, error)
	List(ctx context.Context) ([]*models.Booking, error)
	ListMine(ctx context.Context, userID string) ([]*models.Booking, error)
	Get(ctx context.Context, id, userID string, isAdmin bool) (*models.Booking, error)
	Receipt(ctx context.Context, id, userID string, isAdmin bool) (string, error)
}

type SellRequestService interface {
	Create(ctx context.Context, userID string, d models.SellCarDetails) (*models.SellRequest, error)
	List(ctx context.Context) ([]*models.SellRequest, error)
	ListMine(ctx context.Context, userID string) ([]*models.SellRequest, error)
	UpdateStatus(ctx context.Context, id string, status models.SellRequestStatus) (*models.SellRequest, error)
}

type StatsService interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
}
