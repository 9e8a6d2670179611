package flightpath

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/flightpath/internal/cache"
	"github.com/Domenick1991/flightpath/internal/domain"
	"github.com/Domenick1991/flightpath/internal/geo"
	"github.com/Domenick1991/flightpath/internal/repository"
	"github.com/Domenick1991/flightpath/internal/service/airports"
	"github.com/google/uuid"
)

var ErrMissingEndpoint = errors.New("both source and destination are required")

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	MaxSegments      = 10000
)

type PathUseCase interface {
	Plan(ctx context.Context, input PlanInput) (*domain.FlightPath, error)
	Get(ctx context.Context, id string) (*domain.FlightPath, error)
	ListRecent(ctx context.Context, limit int) ([]domain.FlightPath, error)
	Position(ctx context.Context, id string, fraction float64) (geo.Coordinate, error)
}

type Cache interface {
	GetPath(ctx context.Context, key string) (*domain.FlightPath, error)
	SetPath(ctx context.Context, key string, path *domain.FlightPath) error
	GetPathByID(ctx context.Context, id string) (*domain.FlightPath, error)
}

// Endpoint names one end of a path, either by airport code or by coordinate.
type Endpoint struct {
	Code     string          `json:"code,omitempty"`
	Location *geo.Coordinate `json:"location,omitempty"`
}

func (e *Endpoint) empty() bool {
	return e == nil || (e.Code == "" && e.Location == nil)
}

type PlanInput struct {
	From     *Endpoint `json:"from"`
	To       *Endpoint `json:"to"`
	Segments int       `json:"segments,omitempty"`
}

type PathService struct {
	paths    repository.FlightPathRepository
	airports airports.AirportUseCase
	cache    Cache
	segments int
	curve    geo.CurveParams
	now      func() time.Time
	newID    func() string
}

type PathServiceOption func(*PathService)

func WithSegments(n int) PathServiceOption {
	return func(s *PathService) { s.segments = n }
}

func WithCurveParams(p geo.CurveParams) PathServiceOption {
	return func(s *PathService) { s.curve = p }
}

func WithClock(now func() time.Time) PathServiceOption {
	return func(s *PathService) { s.now = now }
}

func WithIDGenerator(newID func() string) PathServiceOption {
	return func(s *PathService) { s.newID = newID }
}

func NewPathService(paths repository.FlightPathRepository, airports airports.AirportUseCase, cache Cache, opts ...PathServiceOption) *PathService {
	s := &PathService{
		paths:    paths,
		airports: airports,
		cache:    cache,
		segments: geo.DefaultSegments,
		curve:    geo.DefaultCurveParams,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plan resolves both endpoints and builds the complete curved path between
// them. An identical earlier plan is served from the cache.
func (s *PathService) Plan(ctx context.Context, input PlanInput) (*domain.FlightPath, error) {
	if input.From.empty() || input.To.empty() {
		return nil, ErrMissingEndpoint
	}

	segments := input.Segments
	if segments == 0 {
		segments = s.segments
	}
	if segments < 1 || segments > MaxSegments {
		return nil, fmt.Errorf("plan path: %w (max %d), got %d", geo.ErrInvalidSegments, MaxSegments, segments)
	}

	src, fromCode, err := s.resolve(ctx, input.From)
	if err != nil {
		return nil, fmt.Errorf("plan path: source: %w", err)
	}
	dst, toCode, err := s.resolve(ctx, input.To)
	if err != nil {
		return nil, fmt.Errorf("plan path: destination: %w", err)
	}

	key := cache.PathKey(src, dst, segments, s.curve)
	if s.cache != nil {
		if cached, err := s.cache.GetPath(ctx, key); err == nil && cached != nil {
			return cached, nil
		}
	}

	curve, err := s.curve.Generate(src, dst, segments)
	if err != nil {
		return nil, fmt.Errorf("plan path: %w", err)
	}

	path := &domain.FlightPath{
		ID:          s.newID(),
		FromCode:    fromCode,
		ToCode:      toCode,
		Source:      src,
		Destination: dst,
		Control:     curve.Control,
		Segments:    segments,
		DistanceKm:  curve.DistanceKm,
		Points:      curve.Points,
		CreatedAt:   s.now(),
	}

	if err := s.paths.Save(ctx, path); err != nil {
		return nil, fmt.Errorf("plan path: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.SetPath(ctx, key, path); err != nil {
			log.Printf("cache path id=%s err=%v", path.ID, err)
		}
	}

	log.Printf("path planned id=%s from=%s to=%s distance_km=%.1f points=%d", path.ID, src, dst, path.DistanceKm, len(path.Points))
	return path, nil
}

func (s *PathService) resolve(ctx context.Context, e *Endpoint) (geo.Coordinate, string, error) {
	if e.Code != "" {
		airport, err := s.airports.GetByCode(ctx, e.Code)
		if err != nil {
			return geo.Coordinate{}, "", err
		}
		return airport.Location, airport.Code, nil
	}

	if err := e.Location.Validate(); err != nil {
		return geo.Coordinate{}, "", err
	}
	return *e.Location, "", nil
}

func (s *PathService) Get(ctx context.Context, id string) (*domain.FlightPath, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetPathByID(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}
	return s.paths.GetByID(ctx, id)
}

func (s *PathService) ListRecent(ctx context.Context, limit int) ([]domain.FlightPath, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.paths.ListRecent(ctx, limit)
}

// Position returns where the plane is after fraction of the flight.
func (s *PathService) Position(ctx context.Context, id string, fraction float64) (geo.Coordinate, error) {
	path, err := s.Get(ctx, id)
	if err != nil {
		return geo.Coordinate{}, err
	}
	return geo.PositionAt(path.Points, fraction)
}

var _ PathUseCase = (*PathService)(nil)
