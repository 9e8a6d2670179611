package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightpath/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AirportRepository interface {
	List(ctx context.Context) ([]domain.Airport, error)
	GetByCode(ctx context.Context, code string) (*domain.Airport, error)
	Upsert(ctx context.Context, airport *domain.Airport) error
}

type PGAirportRepository struct {
	db *pgxpool.Pool
}

func NewAirportRepository(db *pgxpool.Pool) AirportRepository {
	return &PGAirportRepository{db: db}
}

func (r *PGAirportRepository) List(ctx context.Context) ([]domain.Airport, error) {
	rows, err := r.db.Query(ctx, `SELECT code, name, city, latitude, longitude, created_at FROM airports ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list airports: %w", err)
	}
	defer rows.Close()

	airports := make([]domain.Airport, 0)
	for rows.Next() {
		a, err := scanAirport(rows)
		if err != nil {
			return nil, fmt.Errorf("list airports: scan: %w", err)
		}
		airports = append(airports, *a)
	}
	return airports, rows.Err()
}

func (r *PGAirportRepository) GetByCode(ctx context.Context, code string) (*domain.Airport, error) {
	row := r.db.QueryRow(ctx, `SELECT code, name, city, latitude, longitude, created_at FROM airports WHERE code=$1`, code)
	a, err := scanAirport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrAirportNotFound, code)
		}
		return nil, fmt.Errorf("get airport %s: %w", code, err)
	}
	return a, nil
}

func (r *PGAirportRepository) Upsert(ctx context.Context, a *domain.Airport) error {
	if err := a.Location.Validate(); err != nil {
		return fmt.Errorf("upsert airport %s: %w", a.Code, err)
	}

	err := r.db.QueryRow(ctx, `INSERT INTO airports (code, name, city, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO UPDATE
		SET name = EXCLUDED.name,
			city = EXCLUDED.city,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude
		RETURNING created_at`,
		a.Code, a.Name, a.City, a.Location.Latitude, a.Location.Longitude).Scan(&a.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert airport %s: %w", a.Code, err)
	}
	return nil
}

func scanAirport(row pgx.Row) (*domain.Airport, error) {
	var a domain.Airport
	if err := row.Scan(&a.Code, &a.Name, &a.City, &a.Location.Latitude, &a.Location.Longitude, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

var _ AirportRepository = (*PGAirportRepository)(nil)
