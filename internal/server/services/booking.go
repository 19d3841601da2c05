package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/autodealer/internal/common"
	"github.com/dmitrijs2005/autodealer/internal/dbx"
	"github.com/dmitrijs2005/autodealer/internal/logging"
	"github.com/dmitrijs2005/autodealer/internal/server/config"
	"github.com/dmitrijs2005/autodealer/internal/server/idempotency"
	"github.com/dmitrijs2005/autodealer/internal/server/models"
	"github.com/dmitrijs2005/autodealer/internal/server/repositories/repomanager"
)

// BookingRequest is a checkout submission. Amount is never taken from the
// client.
type BookingRequest struct {
	CarID           string
	Type            models.BookingType
	Customer        models.CustomerDetails
	PaymentMethod   models.PaymentMethod
	TestDrive       *models.TestDriveDetails
	DeliveryAddress string
	CheckoutID      string
}

// BookingService runs checkout: validation, pricing, the simulated payment
// record and the car status change, all in one transaction.
type BookingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	guard       idempotency.Guard
	lockTTL     time.Duration
	log         logging.Logger
	now         func() time.Time
}

func NewBookingService(db *sql.DB, m repomanager.RepositoryManager, guard idempotency.Guard, cfg *config.Config, log logging.Logger) *BookingService {
	return &BookingService{
		db:          db,
		repomanager: m,
		guard:       guard,
		lockTTL:     cfg.IdempotencyTTL,
		log:         log.With("module", "bookings"),
		now:         time.Now,
	}
}

// Create books req for userID. When req carries a checkout id that already
// produced a booking for the same user, that booking is returned with
// created=false and nothing else happens.
func (s *BookingService) Create(ctx context.Context, userID string, req BookingRequest) (booking *models.Booking, created bool, err error) {
	details, err := s.validate(&req)
	if err != nil {
		return nil, false, err
	}

	if req.CheckoutID != "" {
		if b, err := s.existing(ctx, userID, req.CheckoutID); b != nil || err != nil {
			return b, false, err
		}

		release, err := s.guard.Acquire(ctx, req.CheckoutID, s.lockTTL)
		if err != nil {
			return nil, false, err
		}
		defer func() {
			if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
				s.log.Warn(ctx, "failed to release checkout lock", "checkout_id", req.CheckoutID, "error", rerr)
			}
		}()

		// a holder may have finished between the first lookup and Acquire
		if b, err := s.existing(ctx, userID, req.CheckoutID); b != nil || err != nil {
			return b, false, err
		}
	}

	transactionID, err := newTransactionID()
	if err != nil {
		return nil, false, common.ErrorInternal
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		car, err := s.repomanager.Cars(tx).Get(ctx, req.CarID)
		if err != nil {
			return wrapNotFound(err, "car not found")
		}
		if car.Status != models.CarAvailable {
			return common.ErrCarNotAvailable
		}
		if req.Type == models.BookingTypeBuy {
			if err := s.repomanager.Cars(tx).MarkSold(ctx, car.ID); err != nil {
				return err
			}
			car.Status = models.CarSold
		}

		b := &models.Booking{
			CarID:           car.ID,
			UserID:          userID,
			Amount:          models.Quote(req.Type, car.Price),
			CustomerDetails: req.Customer,
			PaymentDetails: models.PaymentDetails{
				Method:        req.PaymentMethod,
				Status:        models.PaymentCompleted,
				TransactionID: transactionID,
			},
			Details:    details,
			CheckoutID: req.CheckoutID,
		}
		booking, err = s.repomanager.Bookings(tx).Create(ctx, b)
		if err != nil {
			return err
		}
		booking.Car = car
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) && req.CheckoutID != "" {
			// lost a race the guard did not see, e.g. after lock expiry
			b, gerr := s.existing(ctx, userID, req.CheckoutID)
			if gerr == nil && b != nil {
				return b, false, nil
			}
			return nil, false, fmt.Errorf("%w: checkout already used", common.ErrorConflict)
		}
		return nil, false, err
	}

	s.log.Info(ctx, "booking created",
		"booking_id", booking.ID, "car_id", booking.CarID, "type", booking.Type(), "amount", booking.Amount)
	return booking, true, nil
}

// existing returns the booking made with checkoutID, nil if there is none,
// or a conflict when the id belongs to someone else's booking.
func (s *BookingService) existing(ctx context.Context, userID, checkoutID string) (*models.Booking, error) {
	b, err := s.repomanager.Bookings(s.db).GetByCheckoutID(ctx, checkoutID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error loading booking: %w", err)
	}
	if b.UserID != userID {
		return nil, fmt.Errorf("%w: checkout already used", common.ErrorConflict)
	}
	return b, nil
}

// List returns every booking, newest first.
func (s *BookingService) List(ctx context.Context) ([]*models.Booking, error) {
	bookings, err := s.repomanager.Bookings(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	return bookings, nil
}

// ListMine returns the bookings made by userID.
func (s *BookingService) ListMine(ctx context.Context, userID string) ([]*models.Booking, error) {
	bookings, err := s.repomanager.Bookings(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	return bookings, nil
}

// Get returns a booking visible to the caller: its owner or an admin.
func (s *BookingService) Get(ctx context.Context, id, userID string, isAdmin bool) (*models.Booking, error) {
	b, err := s.repomanager.Bookings(s.db).Get(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "booking not found")
	}
	if !isAdmin && b.UserID != userID {
		return nil, fmt.Errorf("%w: not your booking", common.ErrorForbidden)
	}
	return b, nil
}

// Receipt renders the booking as a plain-text receipt.
func (s *BookingService) Receipt(ctx context.Context, id, userID string, isAdmin bool) (string, error) {
	b, err := s.Get(ctx, id, userID, isAdmin)
	if err != nil {
		return "", err
	}
	return RenderReceipt(b), nil
}

func (s *BookingService) validate(req *BookingRequest) (models.BookingDetails, error) {
	req.CarID = strings.TrimSpace(req.CarID)
	req.CheckoutID = strings.TrimSpace(req.CheckoutID)
	c := &req.Customer
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)

	if req.CarID == "" {
		return nil, fmt.Errorf("%w: car is required", common.ErrorValidation)
	}
	if c.Name == "" || c.Email == "" || c.Phone == "" {
		return nil, fmt.Errorf("%w: name, email and phone are required", common.ErrorValidation)
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	if !req.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: invalid payment method %q", common.ErrorValidation, req.PaymentMethod)
	}
	if len(req.CheckoutID) > 128 {
		return nil, fmt.Errorf("%w: checkout id too long", common.ErrorValidation)
	}

	switch req.Type {
	case models.BookingTypeBuy:
		addr := strings.TrimSpace(req.DeliveryAddress)
		if addr == "" {
			if strings.TrimSpace(c.Address) == "" || strings.TrimSpace(c.City) == "" ||
				strings.TrimSpace(c.State) == "" || strings.TrimSpace(c.Pincode) == "" {
				return nil, fmt.Errorf("%w: address, city, state and pincode are required", common.ErrorValidation)
			}
			addr = fmt.Sprintf("%s, %s, %s %s", c.Address, c.City, c.State, c.Pincode)
		}
		return models.PurchaseDetails{DeliveryAddress: addr}, nil

	case models.BookingTypeTestDrive:
		td := req.TestDrive
		if td == nil || strings.TrimSpace(td.Date) == "" || strings.TrimSpace(td.Time) == "" {
			return nil, fmt.Errorf("%w: test drive date and time are required", common.ErrorValidation)
		}
		date, err := time.Parse(time.DateOnly, strings.TrimSpace(td.Date))
		if err != nil {
			return nil, fmt.Errorf("%w: test drive date must be YYYY-MM-DD", common.ErrorValidation)
		}
		if _, err := time.Parse("15:04", strings.TrimSpace(td.Time)); err != nil {
			return nil, fmt.Errorf("%w: test drive time must be HH:MM", common.ErrorValidation)
		}
		today := s.now().UTC().Truncate(24 * time.Hour)
		if date.Before(today) {
			return nil, fmt.Errorf("%w: test drive date is in the past", common.ErrorValidation)
		}
		return models.TestDriveDetails{Date: strings.TrimSpace(td.Date), Time: strings.TrimSpace(td.Time)}, nil

	default:
		return nil, fmt.Errorf("%w: invalid booking type %q", common.ErrorValidation, req.Type)
	}
}

// newTransactionID mints the correlation id recorded for the simulated payment.
func newTransactionID() (string, error) {
	h, err := common.MakeRandHexString(8)
	if err != nil {
		return "", err
	}
	return "TXN" + strings.ToUpper(h), nil
}
