package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightpath/internal/domain"
	"github.com/Domenick1991/flightpath/internal/geo"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightPathRepository interface {
	Save(ctx context.Context, path *domain.FlightPath) error
	GetByID(ctx context.Context, id string) (*domain.FlightPath, error)
	ListRecent(ctx context.Context, limit int) ([]domain.FlightPath, error)
}

type PGFlightPathRepository struct {
	db *pgxpool.Pool
}

func NewFlightPathRepository(db *pgxpool.Pool) FlightPathRepository {
	return &PGFlightPathRepository{db: db}
}

const pathColumns = `id, COALESCE(from_code, ''), COALESCE(to_code, ''), source_lat, source_lon, destination_lat, destination_lon,
	control_lat, control_lon, segments, distance_km, points, created_at`

func (r *PGFlightPathRepository) Save(ctx context.Context, p *domain.FlightPath) error {
	points, err := json.Marshal(p.Points)
	if err != nil {
		return fmt.Errorf("save flight path %s: encode points: %w", p.ID, err)
	}

	err = r.db.QueryRow(ctx, `INSERT INTO flight_paths (id, from_code, to_code, source_lat, source_lon, destination_lat, destination_lon,
			control_lat, control_lon, segments, distance_km, points)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at`,
		p.ID, p.FromCode, p.ToCode,
		p.Source.Latitude, p.Source.Longitude,
		p.Destination.Latitude, p.Destination.Longitude,
		p.Control.Latitude, p.Control.Longitude,
		p.Segments, p.DistanceKm, points).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("save flight path %s: %w", p.ID, err)
	}
	return nil
}

func (r *PGFlightPathRepository) GetByID(ctx context.Context, id string) (*domain.FlightPath, error) {
	row := r.db.QueryRow(ctx, `SELECT `+pathColumns+` FROM flight_paths WHERE id=$1`, id)
	p, err := scanFlightPath(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPathNotFound, id)
		}
		return nil, fmt.Errorf("get flight path %s: %w", id, err)
	}
	return p, nil
}

func (r *PGFlightPathRepository) ListRecent(ctx context.Context, limit int) ([]domain.FlightPath, error) {
	rows, err := r.db.Query(ctx, `SELECT `+pathColumns+` FROM flight_paths ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list flight paths: %w", err)
	}
	defer rows.Close()

	paths := make([]domain.FlightPath, 0, limit)
	for rows.Next() {
		p, err := scanFlightPath(rows)
		if err != nil {
			return nil, fmt.Errorf("list flight paths: scan: %w", err)
		}
		paths = append(paths, *p)
	}
	return paths, rows.Err()
}

func scanFlightPath(row pgx.Row) (*domain.FlightPath, error) {
	var (
		p      domain.FlightPath
		points []byte
	)
	if err := row.Scan(&p.ID, &p.FromCode, &p.ToCode,
		&p.Source.Latitude, &p.Source.Longitude,
		&p.Destination.Latitude, &p.Destination.Longitude,
		&p.Control.Latitude, &p.Control.Longitude,
		&p.Segments, &p.DistanceKm, &points, &p.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(points, &p.Points); err != nil {
		return nil, fmt.Errorf("decode points: %w", err)
	}
	if p.Points == nil {
		p.Points = []geo.Coordinate{}
	}
	return &p, nil
}

var _ FlightPathRepository = (*PGFlightPathRepository)(nil)
