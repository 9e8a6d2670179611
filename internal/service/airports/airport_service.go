package airports

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/flightpath/internal/domain"
	"github.com/Domenick1991/flightpath/internal/repository"
)

type AirportUseCase interface {
	List(ctx context.Context) ([]domain.Airport, error)
	GetByCode(ctx context.Context, code string) (*domain.Airport, error)
}

type Cache interface {
	GetAirports(ctx context.Context) ([]domain.Airport, error)
	SetAirports(ctx context.Context, airports []domain.Airport) error
}

type AirportService struct {
	repo  repository.AirportRepository
	cache Cache
}

func NewAirportService(repo repository.AirportRepository, cache Cache) *AirportService {
	return &AirportService{repo: repo, cache: cache}
}

func (s *AirportService) List(ctx context.Context) ([]domain.Airport, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetAirports(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	airports, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetAirports(ctx, airports)
	}
	return airports, nil
}

// GetByCode looks up an airport by its IATA code, case-insensitively.
func (s *AirportService) GetByCode(ctx context.Context, code string) (*domain.Airport, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("%w: empty code", domain.ErrAirportNotFound)
	}
	return s.repo.GetByCode(ctx, code)
}

var _ AirportUseCase = (*AirportService)(nil)
