package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/autodealer/internal/server/models"
	"github.com/dmitrijs2005/autodealer/internal/server/repositories/repomanager"
)

// StatsService computes the admin dashboard counters.
type StatsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewStatsService(db *sql.DB, m repomanager.RepositoryManager) *StatsService {
	return &StatsService{db: db, repomanager: m}
}

func (s *StatsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	var (
		st  models.DashboardStats
		err error
	)

	if st.TotalCars, err = s.repomanager.Cars(s.db).Count(ctx); err != nil {
		return nil, fmt.Errorf("error counting cars: %w", err)
	}
	if st.PendingRequests, err = s.repomanager.SellRequests(s.db).CountByStatus(ctx, models.SellRequestPending); err != nil {
		return nil, fmt.Errorf("error counting sell requests: %w", err)
	}
	if st.TotalUsers, err = s.repomanager.Users(s.db).Count(ctx); err != nil {
		return nil, fmt.Errorf("error counting users: %w", err)
	}
	if st.TotalBookings, err = s.repomanager.Bookings(s.db).Count(ctx); err != nil {
		return nil, fmt.Errorf("error counting bookings: %w", err)
	}
	return &st, nil
}
