package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/autodealer/internal/common"
	"github.com/dmitrijs2005/autodealer/internal/logging"
	"github.com/dmitrijs2005/autodealer/internal/server/models"
	"github.com/dmitrijs2005/autodealer/internal/server/repositories/repomanager"
)

// SellRequestService handles "sell your car" submissions and their review.
// Approving a request records the decision only; it does not list the car.
type SellRequestService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	now         func() time.Time
}

func NewSellRequestService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *SellRequestService {
	return &SellRequestService{
		db:          db,
		repomanager: m,
		log:         log.With("module", "sellrequests"),
		now:         time.Now,
	}
}

// Create files a Pending request on behalf of userID.
func (s *SellRequestService) Create(ctx context.Context, userID string, d models.SellCarDetails) (*models.SellRequest, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Brand = strings.TrimSpace(d.Brand)

	switch {
	case d.Name == "" || d.Brand == "":
		return nil, fmt.Errorf("%w: name and brand are required", common.ErrorValidation)
	case d.Price <= 0:
		return nil, fmt.Errorf("%w: expected price must be positive", common.ErrorValidation)
	case d.Year < minCarYear || d.Year > s.now().Year()+1:
		return nil, fmt.Errorf("%w: invalid year %d", common.ErrorValidation, d.Year)
	case !d.FuelType.Valid():
		return nil, fmt.Errorf("%w: invalid fuel type %q", common.ErrorValidation, d.FuelType)
	case d.Transmission != "" && !d.Transmission.Valid():
		return nil, fmt.Errorf("%w: invalid transmission %q", common.ErrorValidation, d.Transmission)
	case d.Mileage < 0:
		return nil, fmt.Errorf("%w: mileage must not be negative", common.ErrorValidation)
	}

	req, err := s.repomanager.SellRequests(s.db).Create(ctx, &models.SellRequest{UserID: userID, CarDetails: d})
	if err != nil {
		return nil, fmt.Errorf("error creating sell request: %w", err)
	}
	s.log.Info(ctx, "sell request submitted", "request_id", req.ID, "user_id", userID)
	return req, nil
}

func (s *SellRequestService) List(ctx context.Context) ([]*models.SellRequest, error) {
	reqs, err := s.repomanager.SellRequests(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing sell requests: %w", err)
	}
	return reqs, nil
}

func (s *SellRequestService) ListMine(ctx context.Context, userID string) ([]*models.SellRequest, error) {
	reqs, err := s.repomanager.SellRequests(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing sell requests: %w", err)
	}
	return reqs, nil
}

// UpdateStatus moves a Pending request to Approved or Rejected. Requests
// that were already decided fail with common.ErrInvalidStatusTransition,
// including when a concurrent review got there first.
func (s *SellRequestService) UpdateStatus(ctx context.Context, id string, status models.SellRequestStatus) (*models.SellRequest, error) {
	if status != models.SellRequestApproved && status != models.SellRequestRejected {
		return nil, fmt.Errorf("%w: status must be Approved or Rejected", common.ErrorValidation)
	}

	repo := s.repomanager.SellRequests(s.db)

	current, err := repo.Get(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "sell request not found")
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", common.ErrInvalidStatusTransition, current.Status, status)
	}

	updated, err := repo.UpdateStatus(ctx, id, current.Status, status)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: request was already reviewed", common.ErrInvalidStatusTransition)
		}
		return nil, fmt.Errorf("error updating sell request: %w", err)
	}

	s.log.Info(ctx, "sell request reviewed", "request_id", id, "status", status)
	return updated, nil
}
