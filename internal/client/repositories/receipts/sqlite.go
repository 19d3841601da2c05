package receipts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/autodealer/internal/common"
	"github.com/dmitrijs2005/autodealer/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save stores r, replacing an earlier copy of the same booking.
func (s *SQLiteRepository) Save(ctx context.Context, r *Receipt) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO receipts (booking_id, user_id, car_name, booking_type, amount, transaction_id, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(booking_id) DO UPDATE SET
			car_name = excluded.car_name,
			body = excluded.body
	`, r.BookingID, r.UserID, r.CarName, r.BookingType, r.Amount, r.TransactionID, r.Body, r.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save receipt %s: %w", r.BookingID, err)
	}
	return nil
}

func (s *SQLiteRepository) Get(ctx context.Context, bookingID string) (*Receipt, error) {
	r := &Receipt{}
	err := s.db.QueryRowContext(ctx, `
		SELECT booking_id, user_id, car_name, booking_type, amount, transaction_id, body, created_at
		FROM receipts WHERE booking_id = ?
	`, bookingID).Scan(&r.BookingID, &r.UserID, &r.CarName, &r.BookingType, &r.Amount, &r.TransactionID, &r.Body, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt %s: %w", bookingID, err)
	}
	return r, nil
}

// ListByUser returns the receipts of userID, newest first. Bodies are not loaded.
func (s *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]Receipt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT booking_id, user_id, car_name, booking_type, amount, transaction_id, created_at
		FROM receipts WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	var result []Receipt
	for rows.Next() {
		var r Receipt
		if err := rows.Scan(&r.BookingID, &r.UserID, &r.CarName, &r.BookingType, &r.Amount, &r.TransactionID, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan receipt row: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipt rows: %w", err)
	}
	return result, nil
}
