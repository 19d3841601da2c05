// Package bookings provides the PostgreSQL-backed booking repository. Reads
// join the referenced car, which may no longer exist.
package bookings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/autodealer/internal/common"
	"github.com/dmitrijs2005/autodealer/internal/dbx"
	"github.com/dmitrijs2005/autodealer/internal/server/models"
)

// checkoutConstraint is the partial unique index on bookings.checkout_id.
const checkoutConstraint = "bookings_checkout_id_key"

const selectBookings = `
	SELECT b.id, b.car_id, b.user_id, b.booking_type, b.amount,
		b.customer_details, b.payment_details, b.details, b.checkout_id, b.created_at,
		c.id, c.name, c.brand, c.price, c.fuel_type, c.transmission, c.year, c.mileage,
		c.description, c.images, c.status, c.created_at, c.updated_at
	FROM bookings b
	LEFT JOIN cars c ON c.id = b.car_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts booking and fills ID and CreatedAt. Reusing a checkout id
// yields common.ErrorAlreadyExists. The embedded Car is not written.
func (r *PostgresRepository) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if booking.Details == nil {
		return nil, fmt.Errorf("booking details: %w", common.ErrorValidation)
	}
	customer, err := json.Marshal(booking.CustomerDetails)
	if err != nil {
		return nil, err
	}
	payment, err := json.Marshal(booking.PaymentDetails)
	if err != nil {
		return nil, err
	}
	details, err := models.MarshalDetails(booking.Details)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO bookings (car_id, user_id, booking_type, amount, customer_details, payment_details, details, checkout_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err = r.db.QueryRowContext(ctx, query,
		booking.CarID, booking.UserID, booking.Type(), booking.Amount,
		customer, payment, details, nullString(booking.CheckoutID),
	).Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err, checkoutConstraint) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return booking, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Booking, error) {
	if !dbx.ValidID(id) {
		return nil, common.ErrorNotFound
	}
	return r.one(ctx, selectBookings+` WHERE b.id = $1`, id)
}

func (r *PostgresRepository) GetByCheckoutID(ctx context.Context, checkoutID string) (*models.Booking, error) {
	if checkoutID == "" {
		return nil, common.ErrorNotFound
	}
	return r.one(ctx, selectBookings+` WHERE b.checkout_id = $1`, checkoutID)
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Booking, error) {
	return r.many(ctx, selectBookings+` ORDER BY b.created_at DESC`)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Booking, error) {
	if !dbx.ValidID(userID) {
		return []*models.Booking{}, nil
	}
	return r.many(ctx, selectBookings+` WHERE b.user_id = $1 ORDER BY b.created_at DESC`, userID)
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM bookings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) one(ctx context.Context, query string, args ...any) (*models.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) many(ctx context.Context, query string, args ...any) ([]*models.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select bookings: %w", err)
	}
	defer rows.Close()

	result := []*models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// joinedCar holds the nullable columns of the LEFT JOIN.
type joinedCar struct {
	ID           sql.NullString
	Name         sql.NullString
	Brand        sql.NullString
	Price        sql.NullInt64
	FuelType     sql.NullString
	Transmission sql.NullString
	Year         sql.NullInt64
	Mileage      sql.NullInt64
	Description  sql.NullString
	Images       []byte
	Status       sql.NullString
	CreatedAt    sql.NullTime
	UpdatedAt    sql.NullTime
}

func (j joinedCar) car() (*models.Car, error) {
	if !j.ID.Valid {
		return nil, nil
	}
	c := &models.Car{
		ID:           j.ID.String,
		Name:         j.Name.String,
		Brand:        j.Brand.String,
		Price:        j.Price.Int64,
		FuelType:     models.FuelType(j.FuelType.String),
		Transmission: models.Transmission(j.Transmission.String),
		Year:         int(j.Year.Int64),
		Mileage:      int(j.Mileage.Int64),
		Description:  j.Description.String,
		Images:       []string{},
		Status:       models.CarStatus(j.Status.String),
		CreatedAt:    j.CreatedAt.Time,
		UpdatedAt:    j.UpdatedAt.Time,
	}
	if len(j.Images) > 0 {
		if err := json.Unmarshal(j.Images, &c.Images); err != nil {
			return nil, fmt.Errorf("decode images: %w", err)
		}
	}
	return c, nil
}

func scanBooking(s scanner) (*models.Booking, error) {
	var (
		b                          models.Booking
		bookingType                string
		customer, payment, details []byte
		checkoutID                 sql.NullString
		createdAt                  time.Time
		jc                         joinedCar
	)

	if err := s.Scan(
		&b.ID, &b.CarID, &b.UserID, &bookingType, &b.Amount,
		&customer, &payment, &details, &checkoutID, &createdAt,
		&jc.ID, &jc.Name, &jc.Brand, &jc.Price, &jc.FuelType, &jc.Transmission, &jc.Year, &jc.Mileage,
		&jc.Description, &jc.Images, &jc.Status, &jc.CreatedAt, &jc.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(customer, &b.CustomerDetails); err != nil {
		return nil, fmt.Errorf("decode customer details: %w", err)
	}
	if err := json.Unmarshal(payment, &b.PaymentDetails); err != nil {
		return nil, fmt.Errorf("decode payment details: %w", err)
	}
	d, err := models.UnmarshalDetails(models.BookingType(bookingType), details)
	if err != nil {
		return nil, fmt.Errorf("decode booking details: %w", err)
	}
	b.Details = d
	b.CheckoutID = checkoutID.String
	b.CreatedAt = createdAt

	car, err := jc.car()
	if err != nil {
		return nil, err
	}
	b.Car = car

	return &b, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
