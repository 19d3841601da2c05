// Package cars provides the PostgreSQL-backed car catalog repository,
// including the dynamic filter query behind the storefront search.
package cars

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/autodealer/internal/common"
	"github.com/dmitrijs2005/autodealer/internal/dbx"
	"github.com/dmitrijs2005/autodealer/internal/server/models"
)

const carColumns = `id, name, brand, price, fuel_type, transmission, year, mileage, description, images, status, created_at, updated_at`

// PostgresRepository implements car storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCar(s scanner) (*models.Car, error) {
	var (
		c      models.Car
		images []byte
	)
	if err := s.Scan(&c.ID, &c.Name, &c.Brand, &c.Price, &c.FuelType, &c.Transmission,
		&c.Year, &c.Mileage, &c.Description, &images, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if err := decodeImages(images, &c.Images); err != nil {
		return nil, err
	}
	return &c, nil
}

func encodeImages(images []string) ([]byte, error) {
	if images == nil {
		images = []string{}
	}
	return json.Marshal(images)
}

func decodeImages(raw []byte, dst *[]string) error {
	*dst = []string{}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode images: %w", err)
	}
	return nil
}

// Create inserts car and fills server-assigned fields (id, status when empty,
// timestamps).
func (r *PostgresRepository) Create(ctx context.Context, car *models.Car) (*models.Car, error) {
	if car.Status == "" {
		car.Status = models.CarAvailable
	}
	images, err := encodeImages(car.Images)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO cars (name, brand, price, fuel_type, transmission, year, mileage, description, images, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + carColumns

	return r.one(ctx, query,
		car.Name, car.Brand, car.Price, car.FuelType, car.Transmission,
		car.Year, car.Mileage, car.Description, images, car.Status)
}

// Get returns the car with id or common.ErrorNotFound.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Car, error) {
	if !dbx.ValidID(id) {
		return nil, common.ErrorNotFound
	}
	return r.one(ctx, `SELECT `+carColumns+` FROM cars WHERE id = $1`, id)
}

// Update writes every mutable column of car and bumps updated_at.
func (r *PostgresRepository) Update(ctx context.Context, car *models.Car) (*models.Car, error) {
	if !dbx.ValidID(car.ID) {
		return nil, common.ErrorNotFound
	}
	images, err := encodeImages(car.Images)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE cars SET
			name = $2, brand = $3, price = $4, fuel_type = $5, transmission = $6,
			year = $7, mileage = $8, description = $9, images = $10, status = $11,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + carColumns

	return r.one(ctx, query, car.ID,
		car.Name, car.Brand, car.Price, car.FuelType, car.Transmission,
		car.Year, car.Mileage, car.Description, images, car.Status)
}

func (r *PostgresRepository) one(ctx context.Context, query string, args ...any) (*models.Car, error) {
	car, err := scanCar(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return car, nil
}

// Delete removes the car with id. Bookings referencing it are left alone.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if !dbx.ValidID(id) {
		return common.ErrorNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// MarkSold flips an Available car to Sold. It returns
// common.ErrCarNotAvailable when the car is already sold or gone, so two
// concurrent purchases of the same car cannot both succeed.
func (r *PostgresRepository) MarkSold(ctx context.Context, id string) error {
	if !dbx.ValidID(id) {
		return common.ErrCarNotAvailable
	}
	query := `
		UPDATE cars SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3`

	res, err := r.db.ExecContext(ctx, query, id, models.CarSold, models.CarAvailable)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrCarNotAvailable
	}
	return nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM cars`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// List returns the cars matching every predicate set in filter, newest first.
func (r *PostgresRepository) List(ctx context.Context, filter models.CarFilter) ([]*models.Car, error) {
	where, args := buildFilter(filter)

	query := `SELECT ` + carColumns + ` FROM cars`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select cars: %w", err)
	}
	defer rows.Close()

	result := []*models.Car{}
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, car)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func buildFilter(f models.CarFilter) ([]string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.Name != "" {
		add("name ILIKE $%d", containsPattern(f.Name))
	}
	if f.Brand != "" {
		add("brand ILIKE $%d", containsPattern(f.Brand))
	}
	if f.FuelType != "" {
		add("fuel_type = $%d", f.FuelType)
	}
	if f.Transmission != "" {
		add("transmission = $%d", f.Transmission)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.MinPrice != nil {
		add("price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("price <= $%d", *f.MaxPrice)
	}
	if f.MinYear != nil {
		add("year >= $%d", *f.MinYear)
	}
	if f.MaxYear != nil {
		add("year <= $%d", *f.MaxYear)
	}
	if f.MinMileage != nil {
		add("mileage >= $%d", *f.MinMileage)
	}
	if f.MaxMileage != nil {
		add("mileage <= $%d", *f.MaxMileage)
	}
	return where, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns s into an ILIKE substring pattern with wildcards in s
// matched literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
