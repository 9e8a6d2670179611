package api

import (
	"context"
	"image"
	"time"

	"github.com/Domenick1991/flightpath/internal/domain"
	"github.com/Domenick1991/flightpath/internal/geo"
	"github.com/Domenick1991/flightpath/internal/service/flightpath"
	"github.com/stretchr/testify/mock"
)

type MockAirportUseCase struct {
	mock.Mock
}

func (m *MockAirportUseCase) List(ctx context.Context) ([]domain.Airport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Airport), args.Error(1)
}

func (m *MockAirportUseCase) GetByCode(ctx context.Context, code string) (*domain.Airport, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airport), args.Error(1)
}

type MockPathUseCase struct {
	mock.Mock
}

func (m *MockPathUseCase) Plan(ctx context.Context, input flightpath.PlanInput) (*domain.FlightPath, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightPath), args.Error(1)
}

func (m *MockPathUseCase) Get(ctx context.Context, id string) (*domain.FlightPath, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightPath), args.Error(1)
}

func (m *MockPathUseCase) ListRecent(ctx context.Context, limit int) ([]domain.FlightPath, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlightPath), args.Error(1)
}

func (m *MockPathUseCase) Position(ctx context.Context, id string, fraction float64) (geo.Coordinate, error) {
	args := m.Called(ctx, id, fraction)
	return args.Get(0).(geo.Coordinate), args.Error(1)
}

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) Request(ctx context.Context, pathID string, duration time.Duration) (*domain.SimulationRequest, error) {
	args := m.Called(ctx, pathID, duration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SimulationRequest), args.Error(1)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(path *domain.FlightPath, planeAt *float64) (image.Image, error) {
	args := m.Called(path, planeAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(image.Image), args.Error(1)
}

func samplePath() *domain.FlightPath {
	src := geo.NewCoordinate(22.636383, 75.810692)
	dst := geo.NewCoordinate(28.556160, 77.100281)
	curve, err := geo.DefaultCurveParams.Generate(src, dst, 4)
	if err != nil {
		panic(err)
	}
	return &domain.FlightPath{
		ID:          "path-1",
		FromCode:    "IDR",
		ToCode:      "DEL",
		Source:      src,
		Destination: dst,
		Control:     curve.Control,
		Segments:    4,
		DistanceKm:  curve.DistanceKm,
		Points:      curve.Points,
	}
}
