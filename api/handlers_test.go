package api

import (
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/flightpath/internal/domain"
	"github.com/Domenick1991/flightpath/internal/geo"
	"github.com/Domenick1991/flightpath/internal/service/flightpath"
	"github.com/Domenick1991/flightpath/internal/service/simulation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type handlerDeps struct {
	airports *MockAirportUseCase
	paths    *MockPathUseCase
	flights  *MockFlightUseCase
	renderer *MockRenderer
}

func newTestRouter(t *testing.T) (*gin.Engine, *handlerDeps) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	deps := &handlerDeps{
		airports: &MockAirportUseCase{},
		paths:    &MockPathUseCase{},
		flights:  &MockFlightUseCase{},
		renderer: &MockRenderer{},
	}

	router := gin.New()
	v1 := router.Group("/api/v1")
	NewAirportHandler(deps.airports).Register(v1.Group("/airports"))
	NewPathHandler(deps.paths, deps.flights, deps.renderer, simulation.NewSimulator(), 15*time.Second).
		Register(v1.Group("/paths"))
	v1.GET("/distance", Distance)
	return router, deps
}

func serve(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestAirportHandler_list(t *testing.T) {
	mockService := &MockAirportUseCase{}
	handler := NewAirportHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/airports/", nil)

	list := []domain.Airport{
		{Code: "IDR", Name: "Devi Ahilya Bai Holkar", City: "Indore", Location: geo.NewCoordinate(22.636383, 75.810692)},
	}
	mockService.On("List", c.Request.Context()).Return(list, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []domain.Airport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "IDR", got[0].Code)
	mockService.AssertExpectations(t)
}

func TestAirportHandler_getNotFound(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.airports.On("GetByCode", mock.Anything, "XXX").Return(nil, domain.ErrAirportNotFound)

	w := serve(router, "GET", "/api/v1/airports/XXX", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, domain.ErrAirportNotFound.Error(), errorBody(t, w))
}

func TestPathHandler_plan(t *testing.T) {
	router, deps := newTestRouter(t)
	path := samplePath()

	deps.paths.On("Plan", mock.Anything, mock.MatchedBy(func(in flightpath.PlanInput) bool {
		return in.From != nil && in.From.Code == "IDR" &&
			in.To != nil && in.To.Location != nil && in.To.Location.Latitude == 28.55616 &&
			in.Segments == 4
	})).Return(path, nil)

	body := `{"from":{"code":"IDR"},"to":{"location":{"latitude":28.55616,"longitude":77.100281}},"segments":4}`
	w := serve(router, "POST", "/api/v1/paths/", body)

	require.Equal(t, http.StatusCreated, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "path-1", got["id"])
	assert.Len(t, got["points"], 5)
	assert.InDelta(t, path.LengthKm(), got["length_km"], 1e-9)
	deps.paths.AssertExpectations(t)
}

func TestPathHandler_planErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"missing endpoint", flightpath.ErrMissingEndpoint, http.StatusBadRequest},
		{"bad segments", geo.ErrInvalidSegments, http.StatusBadRequest},
		{"bad coordinate", geo.ErrInvalidCoordinate, http.StatusBadRequest},
		{"bad curve params", geo.ErrInvalidCurveParams, http.StatusBadRequest},
		{"unknown airport", domain.ErrAirportNotFound, http.StatusNotFound},
		{"storage", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, deps := newTestRouter(t)
			deps.paths.On("Plan", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := serve(router, "POST", "/api/v1/paths/", `{"from":{"code":"IDR"}}`)

			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, errorBody(t, w))
		})
	}
}

func TestPathHandler_planBadJSON(t *testing.T) {
	router, deps := newTestRouter(t)

	w := serve(router, "POST", "/api/v1/paths/", `{"from":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	deps.paths.AssertNotCalled(t, "Plan", mock.Anything, mock.Anything)
}

func TestPathHandler_list(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.paths.On("ListRecent", mock.Anything, 5).Return([]domain.FlightPath{*samplePath()}, nil)

	w := serve(router, "GET", "/api/v1/paths/?limit=5", "")

	assert.Equal(t, http.StatusOK, w.Code)
	deps.paths.AssertExpectations(t)

	w = serve(router, "GET", "/api/v1/paths/?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPathHandler_getNotFound(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.paths.On("Get", mock.Anything, "missing").Return(nil, domain.ErrPathNotFound)

	w := serve(router, "GET", "/api/v1/paths/missing", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPathHandler_position(t *testing.T) {
	router, deps := newTestRouter(t)
	want := geo.NewCoordinate(25.9, 76.4)
	deps.paths.On("Position", mock.Anything, "path-1", 0.5).Return(want, nil)

	w := serve(router, "GET", "/api/v1/paths/path-1/position?fraction=0.5", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got positionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, want, got.Position)
	assert.Equal(t, 0.5, got.Fraction)

	w = serve(router, "GET", "/api/v1/paths/path-1/position?fraction=half", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPathHandler_positionRejectsNonFinite(t *testing.T) {
	router, deps := newTestRouter(t)

	for _, raw := range []string{"NaN", "Inf", "-Inf", "+Inf"} {
		w := serve(router, "GET", "/api/v1/paths/path-1/position?fraction="+raw, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, raw)
		assert.Equal(t, "invalid fraction", errorBody(t, w), raw)
	}
	deps.paths.AssertNotCalled(t, "Position", mock.Anything, mock.Anything, mock.Anything)
}

func TestPathHandler_positionEchoesClampedFraction(t *testing.T) {
	router, deps := newTestRouter(t)
	end := geo.NewCoordinate(28.55616, 77.100281)
	deps.paths.On("Position", mock.Anything, "path-1", 2.5).Return(end, nil)

	w := serve(router, "GET", "/api/v1/paths/path-1/position?fraction=2.5", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got positionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 1.0, got.Fraction)
	assert.Equal(t, end, got.Position)
}

func TestPathHandler_simulate(t *testing.T) {
	router, deps := newTestRouter(t)
	req := &domain.SimulationRequest{FlightID: "flight-1", PathID: "path-1", DurationSeconds: 30}
	deps.flights.On("Request", mock.Anything, "path-1", 30*time.Second).Return(req, nil)

	w := serve(router, "POST", "/api/v1/paths/path-1/simulate", `{"duration_seconds":30}`)

	require.Equal(t, http.StatusAccepted, w.Code)
	var got domain.SimulationRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, *req, got)
}

func TestPathHandler_simulateDefaultDuration(t *testing.T) {
	router, deps := newTestRouter(t)
	req := &domain.SimulationRequest{FlightID: "flight-1", PathID: "path-1", DurationSeconds: 15}
	deps.flights.On("Request", mock.Anything, "path-1", time.Duration(0)).Return(req, nil)

	w := serve(router, "POST", "/api/v1/paths/path-1/simulate", "")

	assert.Equal(t, http.StatusAccepted, w.Code)
	deps.flights.AssertExpectations(t)

	for _, body := range []string{`{"duration_seconds":-1}`, `{"duration_seconds":0.2}`} {
		w = serve(router, "POST", "/api/v1/paths/path-1/simulate", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "duration_seconds must be at least 1", errorBody(t, w))
	}
	deps.flights.AssertNumberOfCalls(t, "Request", 1)
}

func TestPathHandler_simulateDurationErrorIsBadRequest(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.flights.On("Request", mock.Anything, "path-1", time.Duration(0)).
		Return(nil, simulation.ErrInvalidDuration)

	w := serve(router, "POST", "/api/v1/paths/path-1/simulate", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPathHandler_mapPNG(t *testing.T) {
	router, deps := newTestRouter(t)
	path := samplePath()
	deps.paths.On("Get", mock.Anything, "path-1").Return(path, nil)
	deps.renderer.On("Render", path, mock.MatchedBy(func(f *float64) bool {
		return f != nil && *f == 0.25
	})).Return(image.NewRGBA(image.Rect(0, 0, 4, 4)), nil)

	w := serve(router, "GET", "/api/v1/paths/path-1/map.png?fraction=0.25", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "\x89PNG", w.Body.String()[:4])
	deps.renderer.AssertExpectations(t)
}

func TestPathHandler_mapPNGRenderFailure(t *testing.T) {
	router, deps := newTestRouter(t)
	path := samplePath()
	deps.paths.On("Get", mock.Anything, "path-1").Return(path, nil)
	deps.renderer.On("Render", path, (*float64)(nil)).Return(nil, errors.New("tiles unavailable"))

	w := serve(router, "GET", "/api/v1/paths/path-1/map.png", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", errorBody(t, w))
}

func TestDistance(t *testing.T) {
	router, _ := newTestRouter(t)

	w := serve(router, "GET", "/api/v1/distance?from_lat=22.636383&from_lon=75.810692&to_lat=28.556160&to_lon=77.100281", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		DistanceKm float64 `json:"distance_km"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.InDelta(t, 670.81, got.DistanceKm, 0.5)
}

func TestDistance_invalid(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []string{
		"/api/v1/distance?from_lat=1&from_lon=2&to_lat=3",
		"/api/v1/distance?from_lat=x&from_lon=2&to_lat=3&to_lon=4",
		"/api/v1/distance?from_lat=91&from_lon=2&to_lat=3&to_lon=4",
		"/api/v1/distance?from_lat=NaN&from_lon=2&to_lat=3&to_lon=4",
		"/api/v1/distance?from_lat=1&from_lon=Inf&to_lat=3&to_lon=4",
	}
	for _, target := range tests {
		w := serve(router, "GET", target, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}
