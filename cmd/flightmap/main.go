// Command flightmap plans a curved flight path between two coordinates and
// renders it to a PNG map.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/Domenick1991/flightpath/config"
	"github.com/Domenick1991/flightpath/internal/domain"
	"github.com/Domenick1991/flightpath/internal/geo"
	"github.com/Domenick1991/flightpath/internal/render"
	"github.com/google/uuid"
)

// coordFlag parses "lat,lon".
type coordFlag struct {
	c   geo.Coordinate
	set bool
}

func (f *coordFlag) String() string {
	if !f.set {
		return ""
	}
	return f.c.Key()
}

func (f *coordFlag) Set(v string) error {
	lat, lon, ok := strings.Cut(v, ",")
	if !ok {
		return errors.New("want lat,lon")
	}
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return fmt.Errorf("latitude: %w", err)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return fmt.Errorf("longitude: %w", err)
	}
	c := geo.NewCoordinate(la, lo)
	if err := c.Validate(); err != nil {
		return err
	}
	f.c, f.set = c, true
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("flightmap: %v", err)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("flightmap", flag.ContinueOnError)
	var from, to coordFlag
	fs.Var(&from, "from", "source as lat,lon (required)")
	fs.Var(&to, "to", "destination as lat,lon (required)")
	segments := fs.Int("segments", geo.DefaultSegments, "number of curve segments")
	divisor := fs.Float64("divisor", geo.DefaultCurveParams.Divisor, "curve height divisor")
	scale := fs.Float64("scale", geo.DefaultCurveParams.Scale, "curve height scale")
	fraction := fs.Float64("fraction", -1, "draw the plane at this fraction of the flight, negative for none")
	out := fs.String("out", "", "output PNG file, default a random name in -dir")
	dir := fs.String("dir", ".", "output directory when -out is empty")
	width := fs.Int("width", 800, "image width")
	height := fs.Int("height", 600, "image height")
	tiles := fs.String("tiles", "", "tile provider name")
	jsonOnly := fs.Bool("json", false, "print the path as JSON instead of rendering")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !from.set || !to.set {
		return errors.New("both -from and -to are required")
	}

	params := geo.CurveParams{Divisor: *divisor, Scale: *scale}
	curve, err := params.Generate(from.c, to.c, *segments)
	if err != nil {
		return err
	}
	path := &domain.FlightPath{
		ID:          uuid.NewString(),
		Source:      from.c,
		Destination: to.c,
		Control:     curve.Control,
		Segments:    *segments,
		DistanceKm:  curve.DistanceKm,
		Points:      curve.Points,
	}

	if *jsonOnly {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(path)
	}

	var planeAt *float64
	if *fraction >= 0 {
		planeAt = fraction
	}

	r := render.NewRenderer(config.RenderConfig{
		Width:        *width,
		Height:       *height,
		TileProvider: *tiles,
		OutputDir:    *dir,
	})
	img, err := r.Render(path, planeAt)
	if err != nil {
		return err
	}

	name := *out
	if name == "" {
		if name, err = r.SavePNG(img); err != nil {
			return err
		}
	} else {
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := render.WritePNG(f, img); err != nil {
			return err
		}
	}

	fmt.Fprintf(stdout, "%s distance=%.2fkm points=%d\n", name, path.DistanceKm, len(path.Points))
	return nil
}
