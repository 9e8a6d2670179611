package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/Domenick1991/flightpath/internal/domain"
	"github.com/Domenick1991/flightpath/internal/geo"
	"github.com/Domenick1991/flightpath/internal/service/flightpath"
	"github.com/Domenick1991/flightpath/internal/service/simulation"
	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrAirportNotFound), errors.Is(err, domain.ErrPathNotFound):
		return http.StatusNotFound
	case errors.Is(err, geo.ErrInvalidCoordinate),
		errors.Is(err, geo.ErrInvalidSegments),
		errors.Is(err, geo.ErrInvalidCurveParams),
		errors.Is(err, simulation.ErrInvalidDuration),
		errors.Is(err, geo.ErrEmptyPath),
		errors.Is(err, flightpath.ErrMissingEndpoint):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("request failed method=%s path=%s err=%v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
