package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/Domenick1991/flightpath/config"
	"github.com/Domenick1991/flightpath/internal/domain"
	"github.com/Domenick1991/flightpath/internal/geo"
	sm "github.com/flopp/go-staticmaps"
	"github.com/fogleman/gg"
	"github.com/golang/geo/s2"
	"github.com/google/uuid"
)

var (
	pathColor  = color.RGBA{0, 0, 0, 255}
	cityColor  = color.RGBA{255, 255, 255, 255}
	planeColor = color.RGBA{255, 165, 0, 255}
)

const (
	pathWeight  = 2.0
	cityRadiusM = 3000.0
	planeSize   = 16.0
)

type Renderer struct {
	width     int
	height    int
	provider  *sm.TileProvider
	outputDir string
}

func NewRenderer(cfg config.RenderConfig) *Renderer {
	return &Renderer{
		width:     cfg.Width,
		height:    cfg.Height,
		provider:  TileProvider(cfg.TileProvider),
		outputDir: cfg.OutputDir,
	}
}

// TileProvider returns the named staticmaps provider, or nil for the
// library default.
func TileProvider(name string) *sm.TileProvider {
	if name == "" {
		return nil
	}
	return sm.GetTileProviders()[name]
}

// Objects returns the map objects for path: the curve, a dot at each
// endpoint and, when planeAt is set, a plane marker at that fraction.
func Objects(path *domain.FlightPath, planeAt *float64) ([]sm.MapObject, error) {
	if path == nil || len(path.Points) == 0 {
		return nil, geo.ErrEmptyPath
	}

	positions := make([]s2.LatLng, 0, len(path.Points))
	for _, p := range path.Points {
		positions = append(positions, p.LatLng())
	}

	objects := []sm.MapObject{
		sm.NewPath(positions, pathColor, pathWeight),
		sm.NewCircle(path.Source.LatLng(), cityColor, cityColor, cityRadiusM, 1),
		sm.NewCircle(path.Destination.LatLng(), cityColor, cityColor, cityRadiusM, 1),
	}

	if planeAt != nil {
		pos, err := geo.PositionAt(path.Points, *planeAt)
		if err != nil {
			return nil, err
		}
		objects = append(objects, sm.NewMarker(pos.LatLng(), planeColor, planeSize))
	}
	return objects, nil
}

// Render draws path on a static map sized to fit both endpoints.
func (r *Renderer) Render(path *domain.FlightPath, planeAt *float64) (image.Image, error) {
	objects, err := Objects(path, planeAt)
	if err != nil {
		return nil, err
	}

	ctx := sm.NewContext()
	ctx.SetSize(r.width, r.height)
	if r.provider != nil {
		ctx.SetTileProvider(r.provider)
	}
	for _, o := range objects {
		ctx.AddObject(o)
	}

	img, err := ctx.Render()
	if err != nil {
		return nil, fmt.Errorf("failed to render map: %w", err)
	}
	return img, nil
}

// SavePNG writes img into the output directory under a random name and
// returns the file path.
func (r *Renderer) SavePNG(img image.Image) (string, error) {
	if img == nil {
		return "", errors.New("no image to save")
	}
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	fileName := filepath.Join(r.outputDir, fmt.Sprintf("flight-path-%s.png", uuid.NewString()))
	if err := gg.SavePNG(fileName, img); err != nil {
		return "", fmt.Errorf("failed to save map PNG: %w", err)
	}
	return fileName, nil
}

func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
