package api

import (
	"bytes"
	"image"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/flightpath/internal/domain"
	"github.com/Domenick1991/flightpath/internal/geo"
	"github.com/Domenick1991/flightpath/internal/render"
	"github.com/Domenick1991/flightpath/internal/service/flightpath"
	"github.com/Domenick1991/flightpath/internal/service/simulation"
	"github.com/gin-gonic/gin"
)

type MapRenderer interface {
	Render(path *domain.FlightPath, planeAt *float64) (image.Image, error)
}

type PathHandler struct {
	paths     flightpath.PathUseCase
	flights   simulation.FlightUseCase
	renderer  MapRenderer
	simulator *simulation.Simulator
	duration  time.Duration
}

func NewPathHandler(paths flightpath.PathUseCase, flights simulation.FlightUseCase, renderer MapRenderer, simulator *simulation.Simulator, duration time.Duration) *PathHandler {
	return &PathHandler{paths: paths, flights: flights, renderer: renderer, simulator: simulator, duration: duration}
}

func (h *PathHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.plan)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.GET("/:id/position", h.position)
	router.POST("/:id/simulate", h.simulate)
	router.GET("/:id/stream", h.stream)
	router.GET("/:id/map.png", h.mapPNG)
}

type pathResponse struct {
	*domain.FlightPath
	LengthKm float64 `json:"length_km"`
}

func toPathResponse(p *domain.FlightPath) pathResponse {
	return pathResponse{FlightPath: p, LengthKm: p.LengthKm()}
}

func (h *PathHandler) plan(c *gin.Context) {
	var req flightpath.PlanInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	path, err := h.paths.Plan(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPathResponse(path))
}

func (h *PathHandler) list(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	paths, err := h.paths.ListRecent(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paths)
}

func (h *PathHandler) get(c *gin.Context) {
	path, err := h.paths.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPathResponse(path))
}

type positionResponse struct {
	PathID   string         `json:"path_id"`
	Fraction float64        `json:"fraction"`
	Position geo.Coordinate `json:"position"`
}

func (h *PathHandler) position(c *gin.Context) {
	fraction, ok := floatQuery(c, "fraction", 0)
	if !ok {
		return
	}

	pos, err := h.paths.Position(c.Request.Context(), c.Param("id"), fraction)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, positionResponse{PathID: c.Param("id"), Fraction: geo.ClampFraction(fraction), Position: pos})
}

type simulateRequest struct {
	DurationSeconds float64 `json:"duration_seconds"`
}

func (h *PathHandler) simulate(c *gin.Context) {
	var req simulateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	// Zero asks for the default duration.
	if req.DurationSeconds != 0 && !(req.DurationSeconds >= 1) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "duration_seconds must be at least 1"})
		return
	}

	sim, err := h.flights.Request(c.Request.Context(), c.Param("id"), time.Duration(req.DurationSeconds*float64(time.Second)))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, sim)
}

func (h *PathHandler) mapPNG(c *gin.Context) {
	var planeAt *float64
	if c.Query("fraction") != "" {
		fraction, ok := floatQuery(c, "fraction", 0)
		if !ok {
			return
		}
		planeAt = &fraction
	}

	path, err := h.paths.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	img, err := h.renderer.Render(path, planeAt)
	if err != nil {
		writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := render.WritePNG(&buf, img); err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// Distance reports the great-circle distance between two coordinates given
// as query parameters.
func Distance(c *gin.Context) {
	var vals [4]float64
	for i, name := range []string{"from_lat", "from_lon", "to_lat", "to_lon"} {
		raw := c.Query(name)
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": name + " is required"})
			return
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
			return
		}
		vals[i] = v
	}

	from := geo.NewCoordinate(vals[0], vals[1])
	to := geo.NewCoordinate(vals[2], vals[3])
	for _, p := range []geo.Coordinate{from, to} {
		if err := p.Validate(); err != nil {
			writeError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"from":        from,
		"to":          to,
		"distance_km": geo.HaversineDistance(from, to),
	})
}

func floatQuery(c *gin.Context, name string, fallback float64) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}
