// Package sellrequests provides the PostgreSQL-backed repository for
// "sell your car" submissions.
package sellrequests

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/autodealer/internal/common"
	"github.com/dmitrijs2005/autodealer/internal/dbx"
	"github.com/dmitrijs2005/autodealer/internal/server/models"
)

const selectRequests = `
	SELECT s.id, s.user_id, u.name, u.email, s.car_details, s.status, s.created_at, s.updated_at
	FROM sell_requests s
	LEFT JOIN users u ON u.id = s.user_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create stores req in Pending state and fills server-assigned fields.
func (r *PostgresRepository) Create(ctx context.Context, req *models.SellRequest) (*models.SellRequest, error) {
	details, err := json.Marshal(req.CarDetails)
	if err != nil {
		return nil, err
	}
	req.Status = models.SellRequestPending

	query := `
		INSERT INTO sell_requests (user_id, car_details, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query, req.UserID, details, req.Status).
		Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return req, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.SellRequest, error) {
	if !dbx.ValidID(id) {
		return nil, common.ErrorNotFound
	}
	req, err := scanRequest(r.db.QueryRowContext(ctx, selectRequests+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return req, nil
}

// List returns all requests, newest first, with the submitter's name and email.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.SellRequest, error) {
	return r.many(ctx, selectRequests+` ORDER BY s.created_at DESC`)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.SellRequest, error) {
	if !dbx.ValidID(userID) {
		return []*models.SellRequest{}, nil
	}
	return r.many(ctx, selectRequests+` WHERE s.user_id = $1 ORDER BY s.created_at DESC`, userID)
}

// UpdateStatus moves the request from one status to another only if it is
// still in from. It returns common.ErrorNotFound when no row matched, leaving
// the caller to tell a missing request from a lost race.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, from, to models.SellRequestStatus) (*models.SellRequest, error) {
	if !dbx.ValidID(id) {
		return nil, common.ErrorNotFound
	}
	query := `
		UPDATE sell_requests SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3`

	res, err := r.db.ExecContext(ctx, query, id, to, from)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return nil, common.ErrorNotFound
	}
	return r.Get(ctx, id)
}

func (r *PostgresRepository) CountByStatus(ctx context.Context, status models.SellRequestStatus) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM sell_requests WHERE status = $1`, status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) many(ctx context.Context, query string, args ...any) ([]*models.SellRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select sell requests: %w", err)
	}
	defer rows.Close()

	result := []*models.SellRequest{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRequest(s scanner) (*models.SellRequest, error) {
	var (
		req         models.SellRequest
		name, email sql.NullString
		details     []byte
	)
	if err := s.Scan(&req.ID, &req.UserID, &name, &email, &details, &req.Status, &req.CreatedAt, &req.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(details, &req.CarDetails); err != nil {
		return nil, fmt.Errorf("decode car details: %w", err)
	}
	req.UserName = name.String
	req.UserEmail = email.String
	return &req, nil
}
