package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/autodealer/internal/common"
	"github.com/dmitrijs2005/autodealer/internal/dbx"
	"github.com/dmitrijs2005/autodealer/internal/logging"
	"github.com/dmitrijs2005/autodealer/internal/server/models"
	"github.com/dmitrijs2005/autodealer/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/autodealer/internal/server/storage"
)

// minCarYear bounds listing years from below; the upper bound is next year.
const minCarYear = 1900

// CarService manages the catalog. Image files are owned by the listing: they
// are removed from the image store when the car is deleted or when an update
// drops them.
type CarService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	images      storage.ImageStore
	log         logging.Logger
	now         func() time.Time
}

func NewCarService(db *sql.DB, m repomanager.RepositoryManager, images storage.ImageStore, log logging.Logger) *CarService {
	return &CarService{
		db:          db,
		repomanager: m,
		images:      images,
		log:         log.With("module", "cars"),
		now:         time.Now,
	}
}

func (s *CarService) List(ctx context.Context, filter models.CarFilter) ([]*models.Car, error) {
	cars, err := s.repomanager.Cars(s.db).List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing cars: %w", err)
	}
	return cars, nil
}

func (s *CarService) Get(ctx context.Context, id string) (*models.Car, error) {
	car, err := s.repomanager.Cars(s.db).Get(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "car not found")
	}
	return car, nil
}

// Create validates and stores a new listing. New listings are Available
// unless the caller says otherwise.
func (s *CarService) Create(ctx context.Context, car *models.Car) (*models.Car, error) {
	car.Name = strings.TrimSpace(car.Name)
	car.Brand = strings.TrimSpace(car.Brand)
	if car.Status == "" {
		car.Status = models.CarAvailable
	}
	if err := s.validate(car); err != nil {
		return nil, err
	}

	created, err := s.repomanager.Cars(s.db).Create(ctx, car)
	if err != nil {
		return nil, fmt.Errorf("error creating car: %w", err)
	}
	s.log.Info(ctx, "car created", "car_id", created.ID, "name", created.Name)
	return created, nil
}

// Update merges patch into the stored car. Only fields present in patch
// change; the merged result must still be a valid listing.
func (s *CarService) Update(ctx context.Context, id string, patch models.CarPatch) (*models.Car, error) {
	var (
		updated *models.Car
		dropped []string
	)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Cars(tx)

		car, err := repo.Get(ctx, id)
		if err != nil {
			return wrapNotFound(err, "car not found")
		}
		before := car.Images

		patch.Apply(car)
		car.Name = strings.TrimSpace(car.Name)
		car.Brand = strings.TrimSpace(car.Brand)
		if err := s.validate(car); err != nil {
			return err
		}

		updated, err = repo.Update(ctx, car)
		if err != nil {
			return wrapNotFound(err, "car not found")
		}
		dropped = missing(before, updated.Images)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.removeImages(ctx, id, dropped)
	return updated, nil
}

// Delete removes the listing and then its images. Bookings of the car are
// kept and will show no car. Image removal is best effort.
func (s *CarService) Delete(ctx context.Context, id string) error {
	repo := s.repomanager.Cars(s.db)

	car, err := repo.Get(ctx, id)
	if err != nil {
		return wrapNotFound(err, "car not found")
	}
	if err := repo.Delete(ctx, id); err != nil {
		return wrapNotFound(err, "car not found")
	}

	s.log.Info(ctx, "car deleted", "car_id", id)
	s.removeImages(ctx, id, car.Images)
	return nil
}

func (s *CarService) removeImages(ctx context.Context, carID string, urls []string) {
	for _, u := range urls {
		if err := s.images.Delete(ctx, u); err != nil {
			s.log.Warn(ctx, "failed to delete car image", "car_id", carID, "url", u, "error", err)
		}
	}
}

func (s *CarService) validate(c *models.Car) error {
	switch {
	case c.Name == "":
		return fmt.Errorf("%w: name is required", common.ErrorValidation)
	case c.Brand == "":
		return fmt.Errorf("%w: brand is required", common.ErrorValidation)
	case c.Price < 0:
		return fmt.Errorf("%w: price must not be negative", common.ErrorValidation)
	case !c.FuelType.Valid():
		return fmt.Errorf("%w: invalid fuel type %q", common.ErrorValidation, c.FuelType)
	case !c.Transmission.Valid():
		return fmt.Errorf("%w: invalid transmission %q", common.ErrorValidation, c.Transmission)
	case c.Year < minCarYear || c.Year > s.now().Year()+1:
		return fmt.Errorf("%w: invalid year %d", common.ErrorValidation, c.Year)
	case c.Mileage < 0:
		return fmt.Errorf("%w: mileage must not be negative", common.ErrorValidation)
	case !c.Status.Valid():
		return fmt.Errorf("%w: invalid status %q", common.ErrorValidation, c.Status)
	case len(c.Images) == 0:
		return fmt.Errorf("%w: at least one image is required", common.ErrorValidation)
	case len(c.Images) > common.MaxCarImages:
		return common.ErrTooManyImages
	}
	for _, img := range c.Images {
		if strings.TrimSpace(img) == "" {
			return fmt.Errorf("%w: empty image url", common.ErrorValidation)
		}
	}
	return nil
}

// missing returns the entries of before that are absent from after.
func missing(before, after []string) []string {
	keep := make(map[string]struct{}, len(after))
	for _, u := range after {
		keep[u] = struct{}{}
	}
	var out []string
	for _, u := range before {
		if _, ok := keep[u]; !ok {
			out = append(out, u)
		}
	}
	return out
}
